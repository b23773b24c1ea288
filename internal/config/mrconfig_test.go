package config_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"mrsg/internal/config"
)

func TestParseMRConfigReadsKnownKeys(t *testing.T) {
	doc := `
# a comment line, ignored
reduces 4
chunk_size 64
input_chunks 10
dfs_replicas 3
map_output 25
map_cost 1.5
reduce_cost 2.5
map_slots 2
reduce_slots 2
master m0
`
	cfg, err := config.ParseMRConfig(strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, 4, cfg.Reduces)
	require.Equal(t, 64.0, cfg.ChunkSizeMB)
	require.Equal(t, 10, cfg.InputChunks)
	require.Equal(t, 3, cfg.DFSReplicas)
	require.Equal(t, 25.0, cfg.MapOutputPct)
	require.Equal(t, 1.5, cfg.MapCost)
	require.Equal(t, 2.5, cfg.ReduceCost)
	require.Equal(t, 2, cfg.MapSlots)
	require.Equal(t, 2, cfg.ReduceSlots)
	require.Equal(t, "m0", cfg.Master)
	require.Equal(t, 64.0*1024*1024, cfg.ChunkSizeBytes())
}

func TestParseMRConfigRejectsUnknownKey(t *testing.T) {
	_, err := config.ParseMRConfig(strings.NewReader("bogus_key 1"))
	require.Error(t, err)
}

func TestParseMRConfigRejectsMalformedLine(t *testing.T) {
	_, err := config.ParseMRConfig(strings.NewReader("reduces 4 5"))
	require.Error(t, err)
}
