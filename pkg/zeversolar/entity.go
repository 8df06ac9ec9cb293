package zeversolar

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

const (
	SENSOR_PREFIX = "PV "
)

// SnapshotSource is the read side of a Fetcher shared by entities.
type SnapshotSource interface {
	Refresh(ctx context.Context)
	Snapshot() *Snapshot
}

// Entity is one configured reading of an inverter.
type Entity struct {
	kind    Kind
	meta    *Metadata
	fetcher SnapshotSource
	logger  *zap.Logger

	mu    sync.RWMutex
	value *float64
}

// Reading is the presentation view of an entity at a point in time.
type Reading struct {
	Kind  Kind     `json:"kind"`
	Name  string   `json:"name"`
	Icon  string   `json:"icon"`
	Unit  string   `json:"unit"`
	Value *float64 `json:"value"`

	DeviceClass string `json:"-"`
	StateClass  string `json:"-"`
	Decimals    uint   `json:"-"`
}

func NewEntity(fetcher SnapshotSource, registry *Registry, identifier string, logger *zap.Logger) *Entity {
	kind, meta := registry.Resolve(identifier)
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Entity{
		kind:    kind,
		meta:    meta,
		fetcher: fetcher,
		logger:  logger.With(zap.String("reading", string(kind))),
	}
}

// Refresh refreshes the shared fetcher (throttled) and re-parses the current
// snapshot. A malformed line is returned as an error and the previous value
// is kept.
func (e *Entity) Refresh(ctx context.Context) error {
	e.fetcher.Refresh(ctx)

	value, err := Extract(e.fetcher.Snapshot(), e.kind)
	if errors.Is(err, ErrUnknownKind) {
		value, err = nil, nil
	}
	if err != nil {
		e.logger.Error("entity: could not parse reading", zap.Error(err))
		return err
	}

	e.mu.Lock()
	e.value = value
	e.mu.Unlock()

	return nil
}

func (e *Entity) Kind() Kind {
	return e.kind
}

func (e *Entity) Name() string {
	return SENSOR_PREFIX + e.meta.Label
}

func (e *Entity) Label() string {
	return e.meta.Label
}

func (e *Entity) Unit() string {
	return e.meta.Unit
}

func (e *Entity) Icon() string {
	return e.meta.Icon
}

func (e *Entity) Metadata() Metadata {
	return *e.meta
}

func (e *Entity) Value() *float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.value == nil {
		return nil
	}
	v := *e.value
	return &v
}

func (e *Entity) Reading() Reading {
	return Reading{
		Kind:  e.kind,
		Name:  e.Name(),
		Icon:  e.meta.Icon,
		Unit:  e.meta.Unit,
		Value: e.Value(),

		DeviceClass: e.meta.DeviceClass,
		StateClass:  e.meta.StateClass,
		Decimals:    e.meta.Decimals,
	}
}
