package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"mrsg/internal/datanode"
	"mrsg/internal/jobstate"
	"mrsg/internal/kernel"
	"mrsg/internal/master"
	"mrsg/internal/mrlog"
	"mrsg/internal/tasklog"
	"mrsg/internal/workerproc"
)

// RunResult is what a completed simulation produced.
type RunResult struct {
	RunID string
	Stats jobstate.Stats
}

// Run wires a master actor, one worker actor and one data-node actor
// per host, and drives the kernel to quiescence. outputDir receives
// chunks.log and <runID>-tasks.csv.
func Run(b *Built, plat Platform, outputDir string, log *zap.SugaredLogger) (RunResult, error) {
	runID := uuid.New().String()

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return RunResult{}, errors.Wrap(err, "bootstrap: creating output directory")
	}

	chunksLog, err := os.Create(filepath.Join(outputDir, "chunks.log"))
	if err != nil {
		return RunResult{}, errors.Wrap(err, "bootstrap: creating chunks.log")
	}
	defer chunksLog.Close()
	if err := b.Placement.WriteOwnershipLog(chunksLog); err != nil {
		return RunResult{}, errors.Wrap(err, "bootstrap: writing chunks.log")
	}

	tasksCSVPath := filepath.Join(outputDir, fmt.Sprintf("%s-tasks.csv", runID))
	tasksCSV, err := os.Create(tasksCSVPath)
	if err != nil {
		return RunResult{}, errors.Wrap(err, "bootstrap: creating tasks.csv")
	}
	defer tasksCSV.Close()

	taskLog, err := tasklog.New(tasksCSV)
	if err != nil {
		return RunResult{}, errors.Wrap(err, "bootstrap: writing tasks.csv header")
	}

	sim := kernel.New()

	m := &master.Master{
		Sim:       sim,
		Job:       b.Job,
		Arena:     jobstate.NewArena(),
		Placement: b.Placement,
		Hosts:     plat.Workers,
		Rng:       b.Rng,
		TaskCostF: b.TaskCostF,
		TaskLog:   taskLog,
		Log:       mrlog.ForActor(log, "master", -1),
	}

	sim.Spawn(m.Run)

	for wid, host := range plat.Workers {
		w := &workerproc.Worker{
			Sim:       sim,
			Job:       b.Job,
			Wid:       wid,
			Host:      host,
			MapOutput: b.MapOutputF,
			Log:       mrlog.ForActor(log, "worker", wid),
		}
		sim.Spawn(func() {
			workerproc.Run(w, func() {
				datanode.Run(sim, b.Job, wid, host.Bandwidth, b.Config.ChunkSize, mrlog.ForActor(log, "datanode", wid))
			})
		})
	}

	sim.Run()
	if err := sim.Wait(); err != nil {
		return RunResult{}, errors.Wrap(err, "bootstrap: actor failure")
	}

	return RunResult{RunID: runID, Stats: m.Stats}, nil
}
