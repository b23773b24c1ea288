package bootstrap_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mrsg/internal/bootstrap"
	"mrsg/internal/config"
)

// A single worker holding every chunk (full replication) runs every map
// task locally and completes without any reduce phase.
func TestRunSingleWorkerAllLocalMaps(t *testing.T) {
	plat := bootstrap.Platform{
		MasterName: "m0",
		Workers:    testPlatform().Workers[:1],
	}
	mr := config.MRConfig{
		Reduces:      0,
		ChunkSizeMB:  1,
		InputChunks:  3,
		DFSReplicas:  1,
		MapOutputPct: 0,
		MapCost:      1,
		ReduceCost:   1,
		MapSlots:     2,
		ReduceSlots:  2,
	}

	built, err := bootstrap.Build(plat, mr)
	require.NoError(t, err)

	log := zap.NewNop().Sugar()
	outDir := t.TempDir()

	result, err := bootstrap.Run(built, plat, outDir, log)
	require.NoError(t, err)
	require.NotEmpty(t, result.RunID)
	require.Equal(t, 3, result.Stats.MapLocal)
	require.Equal(t, 0, result.Stats.MapRemote)

	require.FileExists(t, filepath.Join(outDir, "chunks.log"))
	tasksCSV := filepath.Join(outDir, result.RunID+"-tasks.csv")
	require.FileExists(t, tasksCSV)

	data, err := os.ReadFile(tasksCSV)
	require.NoError(t, err)
	require.Contains(t, string(data), "task_id")
}

// A two-worker grid with reduce tasks configured drives every reducer
// through the shuffle protocol (internal/workerproc.shuffle) before it
// can run: the map output is non-zero, and the shuffle pulls it through
// the data node of every worker, the reducer's own included.
func TestRunMultiWorkerExercisesShuffleAndReduce(t *testing.T) {
	plat := testPlatform()
	mr := config.MRConfig{
		Reduces:      2,
		ChunkSizeMB:  1,
		InputChunks:  4,
		DFSReplicas:  2,
		MapOutputPct: 10,
		MapCost:      1,
		ReduceCost:   1,
		MapSlots:     2,
		ReduceSlots:  2,
	}

	built, err := bootstrap.Build(plat, mr)
	require.NoError(t, err)

	log := zap.NewNop().Sugar()
	outDir := t.TempDir()

	result, err := bootstrap.Run(built, plat, outDir, log)
	require.NoError(t, err)
	require.Equal(t, 4, result.Stats.MapLocal+result.Stats.MapRemote+result.Stats.MapSpecL+result.Stats.MapSpecR)
	require.Equal(t, 2, result.Stats.ReduceNormal+result.Stats.ReduceSpec)

	tasksCSV := filepath.Join(outDir, result.RunID+"-tasks.csv")
	data, err := os.ReadFile(tasksCSV)
	require.NoError(t, err)
	require.Contains(t, string(data), "REDUCE")
}
