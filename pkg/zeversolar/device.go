package zeversolar

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Config is what the host application supplies for one inverter.
type Config struct {
	Host      string
	Port      int
	Resources []string
}

// Device groups the fetcher of one inverter with the entities reading from it.
type Device struct {
	fetcher  *Fetcher
	registry *Registry
	entities []*Entity
}

func Setup(cfg Config, logger *zap.Logger, opts ...FetcherOption) (*Device, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	port := cfg.Port
	if port == 0 {
		port = DEFAULT_PORT
	}
	endpoint, err := NewEndpoint(cfg.Host, port)
	if err != nil {
		return nil, err
	}

	fetcher, err := NewFetcher(endpoint, append([]FetcherOption{WithLogger(logger)}, opts...)...)
	if err != nil {
		return nil, err
	}

	d := &Device{
		fetcher:  fetcher,
		registry: NewRegistry(),
	}
	seen := map[Kind]bool{}
	for _, resource := range cfg.Resources {
		entity := NewEntity(fetcher, d.registry, resource, logger)
		if seen[entity.Kind()] {
			continue
		}
		seen[entity.Kind()] = true
		d.entities = append(d.entities, entity)
	}
	return d, nil
}

func (d *Device) Endpoint() Endpoint {
	return d.fetcher.Endpoint()
}

func (d *Device) Fetcher() *Fetcher {
	return d.fetcher
}

func (d *Device) Entities() []*Entity {
	out := make([]*Entity, len(d.entities))
	copy(out, d.entities)
	return out
}

// Refresh refreshes every entity. All entities are refreshed even when some
// fail to parse; the errors are joined.
func (d *Device) Refresh(ctx context.Context) error {
	var errs []error
	for _, e := range d.entities {
		if err := e.Refresh(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (d *Device) Readings() []Reading {
	readings := make([]Reading, 0, len(d.entities))
	for _, e := range d.entities {
		readings = append(readings, e.Reading())
	}
	return readings
}

// Online reports whether the last fetch attempt returned data.
func (d *Device) Online() bool {
	return d.fetcher.Snapshot() != nil
}
