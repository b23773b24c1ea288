// Package wordcount demonstrates wiring custom cost-model callbacks
// into the simulator: it models a classic word-count job's compute cost
// and shuffle volume instead of the flat per-phase defaults.
package wordcount

import (
	"mrsg/internal/jobstate"
	"mrsg/internal/master"
	"mrsg/internal/workerproc"
)

// Params describes the synthetic corpus this example pretends to
// process: bytes per chunk, a flops-per-byte scanning cost, and the
// expected ratio of distinct keys to input bytes driving shuffle
// volume.
type Params struct {
	ChunkSizeBytes   float64
	FlopsPerByte     float64
	ReduceFlopsPerKV float64
	KeysPerByte      float64
	NumberOfMaps     int
	NumberOfReduces  int
}

// TaskCostF charges every map task for scanning its whole chunk
// (FlopsPerByte × ChunkSizeBytes), and every reduce task
// FlopsPerByte × ChunkSizeBytes × KeysPerByte × ReduceFlopsPerKV split
// evenly across NumberOfReduces: the keys of a single chunk, not scaled
// by NumberOfMaps.
func TaskCostF(p Params) master.TaskCostFunc {
	reduceCost := p.FlopsPerByte * p.ChunkSizeBytes * p.KeysPerByte * p.ReduceFlopsPerKV
	if p.NumberOfReduces > 0 {
		reduceCost /= float64(p.NumberOfReduces)
	}
	mapCost := p.FlopsPerByte * p.ChunkSizeBytes

	return func(phase jobstate.Phase, tid, wid int) float64 {
		if phase == jobstate.Map {
			return mapCost
		}
		return reduceCost
	}
}

// MapOutputF distributes each mapper's emitted (key, count) pairs
// evenly across reducers by hashing — modeled here as a uniform split,
// since the simulator never inspects the actual key distribution.
func MapOutputF(p Params) workerproc.MapOutputFunc {
	bytesPerKV := 24.0 // approximate (key, count) pair footprint
	perMapTotal := p.ChunkSizeBytes * p.KeysPerByte * bytesPerKV

	perPair := uint64(0)
	if p.NumberOfReduces > 0 {
		perPair = uint64(perMapTotal / float64(p.NumberOfReduces))
	}
	return func(mid, rid int) uint64 { return perPair }
}
