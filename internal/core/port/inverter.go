package port

import (
	"context"

	"github.com/berfenger/zeversolar2mqtt/pkg/zeversolar"
)

// InverterReader is the core view of one polled inverter.
type InverterReader interface {
	Endpoint() zeversolar.Endpoint
	Refresh(ctx context.Context) error
	Readings() []zeversolar.Reading
	Online() bool
}

// ensure interface compliance
var _ InverterReader = (*zeversolar.Device)(nil)
var _ InverterReader = (*zeversolar.TestDevice)(nil)
