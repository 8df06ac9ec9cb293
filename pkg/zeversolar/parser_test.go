package zeversolar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotOf(power, energy string) *Snapshot {
	return NewSnapshot(homeCGI(power, energy), time.Now())
}

func TestExtractPower(t *testing.T) {

	value, err := Extract(snapshotOf("1234", "5.67"), KIND_POWER)
	require.NoError(t, err)
	require.NotNil(t, value)
	assert.Equal(t, 1234.0, *value)
}

func TestExtractEnergyCorrection(t *testing.T) {

	cases := []struct {
		raw  string
		want float64
	}{
		{"0.9", 0.09},
		{"0.90", 0.90},
		{"12.5", 12.05},
		{"12.55", 12.55},
		{"3.123", 3.123},
	}
	for _, c := range cases {
		t.Run(c.raw, func(t *testing.T) {
			value, err := Extract(snapshotOf("0", c.raw), KIND_ENERGY_TODAY)
			require.NoError(t, err)
			require.NotNil(t, value)
			assert.InDelta(t, c.want, *value, 1e-9)
		})
	}
}

func TestCorrectEnergy(t *testing.T) {

	s, err := CorrectEnergy("0.9")
	require.NoError(t, err)
	assert.Equal(t, "0.09", s)

	s, err = CorrectEnergy("0.90")
	require.NoError(t, err)
	assert.Equal(t, "0.90", s, "two digit fractions are left alone")

	_, err = CorrectEnergy("7")
	assert.Error(t, err)
}

func TestExtractAbsentSnapshot(t *testing.T) {

	for _, kind := range []Kind{KIND_POWER, KIND_ENERGY_TODAY, Kind("foobar")} {
		value, err := Extract(nil, kind)
		assert.NoError(t, err, string(kind))
		assert.Nil(t, value, string(kind))
	}
}

func TestExtractMalformed(t *testing.T) {

	_, err := Extract(snapshotOf("12a4", "5.67"), KIND_POWER)
	assert.ErrorIs(t, err, ErrMalformedReading)

	_, err = Extract(snapshotOf("1234", "five"), KIND_ENERGY_TODAY)
	assert.ErrorIs(t, err, ErrMalformedReading)

	_, err = Extract(snapshotOf("1234", "5.x"), KIND_ENERGY_TODAY)
	assert.ErrorIs(t, err, ErrMalformedReading)

	short := NewSnapshot("1\n2\n3\n", time.Now())
	_, err = Extract(short, KIND_POWER)
	assert.ErrorIs(t, err, ErrMalformedReading)
	_, err = Extract(short, KIND_ENERGY_TODAY)
	assert.ErrorIs(t, err, ErrMalformedReading)
}

func TestExtractUnknownKind(t *testing.T) {

	value, err := Extract(snapshotOf("1234", "5.67"), Kind("foobar"))
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.Nil(t, value)
}
