// Package metrics exposes the job's final statistics as prometheus
// gauges, for embedders who want to scrape or snapshot a run rather
// than parse the log banner.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"mrsg/internal/jobstate"
)

// Collector holds one gauge per Stats counter, labeled by run ID so a
// registry can be reused across several runs without collisions.
type Collector struct {
	mapLocal     prometheus.Gauge
	mapRemote    prometheus.Gauge
	mapSpecL     prometheus.Gauge
	mapSpecR     prometheus.Gauge
	reduceNormal prometheus.Gauge
	reduceSpec   prometheus.Gauge
}

// NewCollector creates and registers a Collector's gauges under reg,
// tagged with runID.
func NewCollector(reg prometheus.Registerer, runID string) (*Collector, error) {
	mk := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "mrsg",
			Name:        name,
			Help:        help,
			ConstLabels: prometheus.Labels{"run_id": runID},
		})
	}

	c := &Collector{
		mapLocal:     mk("map_local_total", "map tasks assigned to a worker holding the chunk locally"),
		mapRemote:    mk("map_remote_total", "map tasks assigned to a worker without the chunk"),
		mapSpecL:     mk("map_speculative_local_total", "speculative map tasks assigned locally"),
		mapSpecR:     mk("map_speculative_remote_total", "speculative map tasks assigned remotely"),
		reduceNormal: mk("reduce_normal_total", "non-speculative reduce tasks assigned"),
		reduceSpec:   mk("reduce_speculative_total", "speculative reduce tasks assigned"),
	}

	for _, g := range []prometheus.Gauge{c.mapLocal, c.mapRemote, c.mapSpecL, c.mapSpecR, c.reduceNormal, c.reduceSpec} {
		if err := reg.Register(g); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Set snapshots s into the collector's gauges.
func (c *Collector) Set(s jobstate.Stats) {
	c.mapLocal.Set(float64(s.MapLocal))
	c.mapRemote.Set(float64(s.MapRemote))
	c.mapSpecL.Set(float64(s.MapSpecL))
	c.mapSpecR.Set(float64(s.MapSpecR))
	c.reduceNormal.Set(float64(s.ReduceNormal))
	c.reduceSpec.Set(float64(s.ReduceSpec))
}
