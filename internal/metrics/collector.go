package metrics

import (
	"github.com/berfenger/zeversolar2mqtt/pkg/zeversolar"

	"github.com/prometheus/client_golang/prometheus"
)

// ReadingSource is the last known state of an inverter.
type ReadingSource interface {
	Endpoint() zeversolar.Endpoint
	Online() bool
	Readings() []zeversolar.Reading
}

// Collector implements prometheus.Collector over the cached inverter
// readings. Collect never polls the inverter.
type Collector struct {
	source ReadingSource

	up      *prometheus.Desc
	reading *prometheus.Desc
}

func NewCollector(source ReadingSource) *Collector {
	return &Collector{
		source: source,
		up: prometheus.NewDesc(
			"zeversolar_up",
			"Whether the last inverter poll returned data (1=yes, 0=no)",
			[]string{"inverter"},
			nil,
		),
		reading: prometheus.NewDesc(
			"zeversolar_reading",
			"Last known inverter reading, in the unit given by the unit label",
			[]string{"inverter", "kind", "name", "unit"},
			nil,
		),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.up
	ch <- c.reading
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	inverter := c.source.Endpoint().String()

	up := 0.0
	if c.source.Online() {
		up = 1
	}
	ch <- prometheus.MustNewConstMetric(c.up, prometheus.GaugeValue, up, inverter)

	// absent readings are left out rather than exported as zero
	for _, r := range c.source.Readings() {
		if r.Value == nil {
			continue
		}
		ch <- prometheus.MustNewConstMetric(c.reading, prometheus.GaugeValue, *r.Value,
			inverter, string(r.Kind), r.Name, r.Unit)
	}
}

// ensure interface compliance
var _ prometheus.Collector = (*Collector)(nil)
