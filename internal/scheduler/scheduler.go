// Package scheduler implements the master's default task-assignment
// policy: locality-first placement for map tasks, a map-phase
// backpressure gate for reduce tasks, and speculative re-assignment of
// tasks flagged as stragglers by the master.
package scheduler

import "mrsg/internal/jobstate"

// Policy holds the chunk-ownership facts a task-assignment policy
// needs. It has no methods of its own: the default policy is
// ChooseMapTask and ChooseReduceTask, which return NoTaskID when there
// is nothing to assign right now.
type Policy struct {
	Placement ChunkOwnership
}

// ChunkOwnership is the subset of dfs.Placement the scheduler needs: a
// locality check per (chunk, worker) pair. Declared here rather than
// imported from internal/dfs to keep this package dependency-free of the
// placement implementation — any source of ownership facts will do.
type ChunkOwnership interface {
	Owns(cid, wid int) bool
}

// NoTaskID is returned when there is nothing to assign.
const NoTaskID = -1

// GetTaskType classifies task tid in phase for worker wid, given its
// current status. Ordinal order of jobstate.TaskType matters to the
// caller: lower values are more preferred.
func GetTaskType(j *jobstate.Job, owns ChunkOwnership, phase jobstate.Phase, tid, wid int) jobstate.TaskType {
	status := j.Status(phase, tid)

	switch phase {
	case jobstate.Map:
		switch status {
		case jobstate.Pending:
			if owns.Owns(tid, wid) {
				return jobstate.Local
			}
			return jobstate.Remote
		case jobstate.TIPSlow:
			if owns.Owns(tid, wid) {
				return jobstate.LocalSpec
			}
			return jobstate.RemoteSpec
		default:
			return jobstate.NoTask
		}

	case jobstate.Reduce:
		switch status {
		case jobstate.Pending:
			return jobstate.Normal
		case jobstate.TIPSlow:
			return jobstate.Speculative
		default:
			return jobstate.NoTask
		}
	}
	return jobstate.NoTask
}

// ChooseMapTask scans every chunk for the best candidate to hand to
// wid: any LOCAL pending chunk is taken immediately, otherwise the best
// (lowest-ordinal) REMOTE or speculative candidate seen so far wins,
// provided it hasn't already hit the speculative-copy cap.
func ChooseMapTask(j *jobstate.Job, owns ChunkOwnership, wid int) int {
	if j.TasksPending[jobstate.Map] <= 0 {
		return NoTaskID
	}

	tid := NoTaskID
	best := jobstate.NoTask

	for chunk := 0; chunk < j.Config.NumberOfMaps; chunk++ {
		tt := GetTaskType(j, owns, jobstate.Map, chunk, wid)

		if tt == jobstate.Local {
			return chunk
		}
		if tt == jobstate.Remote || (j.Instances(jobstate.Map, chunk) < 2 && tt < best) {
			best = tt
			tid = chunk
		}
	}
	return tid
}

// ChooseReduceTask scans every reduce task for the best candidate for
// wid. Reduce assignment is gated: once more than 90% of map tasks are
// still pending, no reduce task is handed out yet (the shuffle would
// have almost nothing to read).
func ChooseReduceTask(j *jobstate.Job, wid int) int {
	mapTasks := j.Config.NumberOfMaps
	if j.TasksPending[jobstate.Reduce] <= 0 {
		return NoTaskID
	}
	if mapTasks > 0 && float64(j.TasksPending[jobstate.Map])/float64(mapTasks) > 0.9 {
		return NoTaskID
	}

	tid := NoTaskID
	best := jobstate.NoTask

	for t := 0; t < j.Config.NumberOfReduces; t++ {
		tt := GetTaskType(j, nil, jobstate.Reduce, t, wid)

		if tt == jobstate.Normal {
			return t
		}
		if tt < best && j.Instances(jobstate.Reduce, t) < 2 {
			best = tt
			tid = t
		}
	}
	return tid
}
