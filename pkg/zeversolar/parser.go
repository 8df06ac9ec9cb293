package zeversolar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// home.cgi line indexes (0-based)
const (
	LINE_POWER        = 10
	LINE_ENERGY_TODAY = 11
)

var (
	ErrMalformedReading = errors.New("malformed reading")
	ErrUnknownKind      = errors.New("unknown reading kind")
)

// Extract reads the value of kind from snapshot. A nil snapshot yields a nil
// value and no error.
func Extract(snapshot *Snapshot, kind Kind) (*float64, error) {
	if snapshot == nil {
		return nil, nil
	}
	switch kind {
	case KIND_POWER:
		raw, err := line(snapshot, kind, LINE_POWER)
		if err != nil {
			return nil, err
		}
		power, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, malformed(kind, LINE_POWER, raw, err)
		}
		value := float64(power)
		return &value, nil
	case KIND_ENERGY_TODAY:
		raw, err := line(snapshot, kind, LINE_ENERGY_TODAY)
		if err != nil {
			return nil, err
		}
		corrected, err := CorrectEnergy(strings.TrimSpace(raw))
		if err != nil {
			return nil, malformed(kind, LINE_ENERGY_TODAY, raw, err)
		}
		value, err := strconv.ParseFloat(corrected, 64)
		if err != nil {
			return nil, malformed(kind, LINE_ENERGY_TODAY, raw, err)
		}
		return &value, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, string(kind))
	}
}

// CorrectEnergy restores the leading zero the inverter drops from a one digit
// fraction: "0.9" is 0.09 kWh while "0.90" is 0.90 kWh.
func CorrectEnergy(raw string) (string, error) {
	whole, fraction, found := strings.Cut(raw, ".")
	if !found {
		return "", errors.New("missing decimal point")
	}
	if len(fraction) == 1 {
		return whole + ".0" + fraction, nil
	}
	return raw, nil
}

func line(snapshot *Snapshot, kind Kind, index int) (string, error) {
	raw, ok := snapshot.Line(index)
	if !ok {
		return "", fmt.Errorf("%w: %s: line %d missing (%d lines)", ErrMalformedReading, kind, index+1, snapshot.Len())
	}
	return raw, nil
}

func malformed(kind Kind, index int, raw string, err error) error {
	return fmt.Errorf("%w: %s: line %d %q: %w", ErrMalformedReading, kind, index+1, raw, err)
}
