// Package bootstrap wires together everything a run needs before the
// simulation kernel starts: deriving the immutable job Config from the
// platform and the parsed MR config, seeding the RNG, running chunk
// placement, and providing the default cost-model callbacks a caller
// may override.
package bootstrap

import (
	"math/rand"

	"github.com/pkg/errors"

	"mrsg/internal/config"
	"mrsg/internal/dfs"
	"mrsg/internal/jobstate"
	"mrsg/internal/kernel"
	"mrsg/internal/master"
	"mrsg/internal/workerproc"
)

// FixedSeed is the RNG seed every run uses by default, matching the
// original's srand(12345) so runs are reproducible across
// implementations.
const FixedSeed = 12345

// Platform is the minimal deployment description a run needs: a named
// master host and a list of named worker hosts with their simulated
// speed and bandwidth.
type Platform struct {
	MasterName string
	Workers    []kernel.Host
}

// Built is everything derived from a Platform + MRConfig pair, ready to
// hand to the master and worker actors.
type Built struct {
	Config        jobstate.Config
	Job           *jobstate.Job
	Placement     *dfs.Placement
	Rng           *rand.Rand
	TaskCostF     master.TaskCostFunc
	MapOutputF    workerproc.MapOutputFunc
	MapOutputSize float64
}

// Build derives a jobstate.Config from plat and mr, allocates the Job,
// runs chunk placement, and returns the default cost-model callbacks.
// Callers may substitute TaskCostF/MapOutputF before starting the
// simulation.
func Build(plat Platform, mr config.MRConfig) (*Built, error) {
	if mr.Master == "" {
		mr.Master = plat.MasterName
	}
	if len(plat.Workers) == 0 {
		return nil, errors.New("bootstrap: platform has no worker hosts")
	}

	var gridPower float64
	for _, h := range plat.Workers {
		gridPower += h.Speed
	}
	numberOfWorkers := len(plat.Workers)

	heartbeatInterval := float64(numberOfWorkers) / 100
	if heartbeatInterval < 3 {
		heartbeatInterval = 3
	}

	cfg := jobstate.Config{
		ChunkSize:         mr.ChunkSizeBytes(),
		ChunkCount:        mr.InputChunks,
		ChunkReplicas:     mr.DFSReplicas,
		MapSlots:          mr.MapSlots,
		ReduceSlots:       mr.ReduceSlots,
		NumberOfReduces:   mr.Reduces,
		NumberOfMaps:      mr.InputChunks,
		HeartbeatInterval: heartbeatInterval,
		GridCPUPower:      gridPower,
		GridAverageSpeed:  gridPower / float64(numberOfWorkers),
		NumberOfWorkers:   numberOfWorkers,
	}

	job := jobstate.NewJob(cfg)
	placement := dfs.Build(cfg, dfs.DefaultPlacement)
	rng := rand.New(rand.NewSource(FixedSeed))

	mapOutSize := (mr.MapOutputPct / 100) * float64(mr.InputChunks) * cfg.ChunkSize
	cpuRequiredMap := mr.MapCost * cfg.ChunkSize
	cpuRequiredReduce := float64(0)
	if cfg.NumberOfReduces > 0 {
		cpuRequiredReduce = mr.ReduceCost * (mapOutSize / float64(cfg.NumberOfReduces))
	}

	return &Built{
		Config:        cfg,
		Job:           job,
		Placement:     placement,
		Rng:           rng,
		TaskCostF:     DefaultTaskCostF(cpuRequiredMap, cpuRequiredReduce),
		MapOutputF:    DefaultMapOutputF(mapOutSize, cfg.NumberOfMaps, cfg.NumberOfReduces),
		MapOutputSize: mapOutSize,
	}, nil
}

// DefaultTaskCostF returns the original's constant-per-phase cost
// model: every map task costs cpuRequiredMap flops, every reduce task
// costs cpuRequiredReduce flops, regardless of which chunk or worker.
func DefaultTaskCostF(cpuRequiredMap, cpuRequiredReduce float64) master.TaskCostFunc {
	return func(phase jobstate.Phase, tid, wid int) float64 {
		if phase == jobstate.Map {
			return cpuRequiredMap
		}
		return cpuRequiredReduce
	}
}

// DefaultMapOutputF splits the total map output evenly across every
// (map task, reducer) pair.
func DefaultMapOutputF(mapOutSize float64, maps, reduces int) workerproc.MapOutputFunc {
	perPair := uint64(0)
	if maps > 0 && reduces > 0 {
		perPair = uint64(mapOutSize / float64(maps) / float64(reduces))
	}
	return func(mid, rid int) uint64 { return perPair }
}
