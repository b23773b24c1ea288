package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	"mrsg/internal/jobstate"
	"mrsg/internal/metrics"
)

func TestCollectorSetSnapshotsStats(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := metrics.NewCollector(reg, "run-1")
	require.NoError(t, err)

	c.Set(jobstate.Stats{MapLocal: 3, MapRemote: 1, ReduceNormal: 2})

	families, err := reg.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			values[mf.GetName()] = m.GetGauge().GetValue()
			require.Contains(t, metricLabel(m, "run_id"), "run-1")
		}
	}
	require.Equal(t, 3.0, values["mrsg_map_local_total"])
	require.Equal(t, 1.0, values["mrsg_map_remote_total"])
	require.Equal(t, 2.0, values["mrsg_reduce_normal_total"])
}

func metricLabel(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}
