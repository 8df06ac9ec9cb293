package zeversolar

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	snapshot  *Snapshot
	refreshes int
}

func (s *staticSource) Refresh(context.Context) {
	s.refreshes++
}

func (s *staticSource) Snapshot() *Snapshot {
	return s.snapshot
}

func TestEntityRefresh(t *testing.T) {

	src := &staticSource{snapshot: snapshotOf("1234", "0.9")}
	r := NewRegistry()

	power := NewEntity(src, r, "power", nil)
	energy := NewEntity(src, r, "energy_today", nil)

	require.NoError(t, power.Refresh(context.Background()))
	require.NoError(t, energy.Refresh(context.Background()))

	assert.Equal(t, 2, src.refreshes)
	require.NotNil(t, power.Value())
	assert.Equal(t, 1234.0, *power.Value())
	require.NotNil(t, energy.Value())
	assert.InDelta(t, 0.09, *energy.Value(), 1e-9)

	assert.Equal(t, "PV Solar Power", power.Name())
	assert.Equal(t, "W", power.Unit())
	assert.Equal(t, "mdi:weather-sunny", power.Icon())
	assert.Equal(t, "PV Solar Energy Today", energy.Name())
}

func TestEntityAbsentSnapshot(t *testing.T) {

	src := &staticSource{snapshot: snapshotOf("1234", "5.67")}
	e := NewEntity(src, NewRegistry(), "power", nil)

	require.NoError(t, e.Refresh(context.Background()))
	require.NotNil(t, e.Value())

	src.snapshot = nil
	require.NoError(t, e.Refresh(context.Background()))
	assert.Nil(t, e.Value(), "absent snapshot means absent value, not zero")
}

func TestEntityMalformed(t *testing.T) {

	src := &staticSource{snapshot: snapshotOf("n/a", "5.67")}
	e := NewEntity(src, NewRegistry(), "power", nil)

	err := e.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrMalformedReading)
	assert.Nil(t, e.Value(), "nothing parsed yet")
}

func TestEntityMalformedKeepsLastValue(t *testing.T) {

	src := &staticSource{snapshot: snapshotOf("1234", "5.67")}
	e := NewEntity(src, NewRegistry(), "power", nil)

	require.NoError(t, e.Refresh(context.Background()))
	require.NotNil(t, e.Value())

	src.snapshot = snapshotOf("n/a", "5.67")
	err := e.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrMalformedReading)
	require.NotNil(t, e.Value(), "a parse error does not erase the last good value")
	assert.Equal(t, 1234.0, *e.Value())

	// an unreachable inverter still clears it
	src.snapshot = nil
	require.NoError(t, e.Refresh(context.Background()))
	assert.Nil(t, e.Value())
}

func TestEntityUnknownKind(t *testing.T) {

	src := &staticSource{snapshot: snapshotOf("1234", "5.67")}
	e := NewEntity(src, NewRegistry(), "foobar", nil)

	assert.NoError(t, e.Refresh(context.Background()))
	assert.Nil(t, e.Value())
	assert.Equal(t, "PV Foobar", e.Name())
	assert.Equal(t, "", e.Unit())
	assert.Equal(t, DEFAULT_ICON, e.Icon())
}

func TestEntityReading(t *testing.T) {

	src := &staticSource{snapshot: snapshotOf("250", "1.5")}
	e := NewEntity(src, NewRegistry(), "energy_today", nil)
	require.NoError(t, e.Refresh(context.Background()))

	r := e.Reading()
	assert.Equal(t, KIND_ENERGY_TODAY, r.Kind)
	assert.Equal(t, "PV Solar Energy Today", r.Name)
	assert.Equal(t, "kWh", r.Unit)
	require.NotNil(t, r.Value)
	assert.InDelta(t, 1.05, *r.Value, 1e-9)

	// the reading is a copy
	*r.Value = 42
	assert.InDelta(t, 1.05, *e.Value(), 1e-9)
}
