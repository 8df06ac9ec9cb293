package zeversolar

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Kind string

const (
	KIND_POWER        Kind = "power"
	KIND_ENERGY_TODAY Kind = "energy_today"

	DEFAULT_ICON = "mdi:flash"
)

// Metadata describes how a reading is presented. It never changes once
// registered.
type Metadata struct {
	Label       string
	Unit        string
	Icon        string
	DeviceClass string
	StateClass  string
	Decimals    uint
}

func knownMetadata() map[Kind]*Metadata {
	return map[Kind]*Metadata{
		KIND_POWER: {
			Label:       "Solar Power",
			Unit:        "W",
			Icon:        "mdi:weather-sunny",
			DeviceClass: "power",
			StateClass:  "measurement",
			Decimals:    0,
		},
		KIND_ENERGY_TODAY: {
			Label:       "Solar Energy Today",
			Unit:        "kWh",
			Icon:        "mdi:weather-sunny",
			DeviceClass: "energy",
			StateClass:  "total_increasing",
			Decimals:    2,
		},
	}
}

// Registry resolves configured reading identifiers to metadata. Unknown
// identifiers get default metadata on first use and keep it.
type Registry struct {
	mu    sync.Mutex
	kinds map[Kind]*Metadata
	order []Kind
	title cases.Caser
}

func NewRegistry() *Registry {
	return &Registry{
		kinds: knownMetadata(),
		title: cases.Title(language.Und),
	}
}

func (r *Registry) Resolve(identifier string) (Kind, *Metadata) {
	kind := Kind(strings.ToLower(strings.TrimSpace(identifier)))

	r.mu.Lock()
	defer r.mu.Unlock()

	meta, ok := r.kinds[kind]
	if !ok {
		meta = &Metadata{
			Label:    r.titleLabel(string(kind)),
			Unit:     "",
			Icon:     DEFAULT_ICON,
			Decimals: 2,
		}
		r.kinds[kind] = meta
	}
	if !r.registered(kind) {
		r.order = append(r.order, kind)
	}
	return kind, meta
}

// Kinds lists the kinds resolved so far, in resolution order.
func (r *Registry) Kinds() []Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Kind, len(r.order))
	copy(out, r.order)
	return out
}

// titleLabel capitalizes the first letter of every run of letters, so
// "foo_bar" becomes "Foo_Bar" and "ac2voltage" becomes "Ac2Voltage".
// Called with r.mu held.
func (r *Registry) titleLabel(identifier string) string {
	var b strings.Builder
	start := -1
	for i, c := range identifier {
		if unicode.IsLetter(c) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			b.WriteString(r.title.String(identifier[start:i]))
			start = -1
		}
		b.WriteRune(c)
	}
	if start >= 0 {
		b.WriteString(r.title.String(identifier[start:]))
	}
	return b.String()
}

func (r *Registry) registered(kind Kind) bool {
	for _, k := range r.order {
		if k == kind {
			return true
		}
	}
	return false
}
