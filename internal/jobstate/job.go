package jobstate

import "sync"

// TaskCopy is what the master keeps in TaskList for one live instance of
// a task: a handle to its TaskInfo in the Arena, the token used to
// cancel it, and the worker it's running on (used by straggler
// detection, which needs to find "the primary copy's worker").
type TaskCopy struct {
	Handle    Handle
	Cancel    *CancelToken
	Wid       int
	StartedAt float64
}

// Heartbeat is the master's cached view of a worker's free slots,
// reconciled only by that worker's own mutations and read on its
// heartbeats (spec.md §5). Map and reduce slots are independent pools.
type Heartbeat struct {
	SlotsAv [NumPhases]int
}

// Job is the master's task bookkeeping. Only the master actor mutates
// TasksPending/TaskInstances/TaskList, but TaskStatus is also read by
// every worker's compute actors (checking whether a sibling copy has
// already finished before running or shuffling), so it carries its own
// lock. MapOutput is written by each worker's own compute actors and
// read cross-worker by DataNodes and shuffling reducers, so it carries
// its own lock too.
type Job struct {
	Config Config

	TasksPending [NumPhases]int

	taskStatusMu  sync.Mutex
	taskStatus    [NumPhases][]TaskStatus
	taskInstances [NumPhases][]int
	taskList      [NumPhases][][MaxSpeculativeCopies]*TaskCopy

	heartbeatsMu sync.Mutex
	Heartbeats   []Heartbeat

	Finished bool

	mapOutputMu sync.Mutex
	mapOutput   [][]uint64 // [wid][rid], monotonically increasing
}

// NewJob allocates a Job sized for cfg, with every task Pending and
// every worker starting at full slot capacity.
func NewJob(cfg Config) *Job {
	j := &Job{Config: cfg}
	j.TasksPending[Map] = cfg.NumberOfMaps
	j.TasksPending[Reduce] = cfg.NumberOfReduces

	j.taskStatus[Map] = make([]TaskStatus, cfg.NumberOfMaps)
	j.taskStatus[Reduce] = make([]TaskStatus, cfg.NumberOfReduces)
	j.taskInstances[Map] = make([]int, cfg.NumberOfMaps)
	j.taskInstances[Reduce] = make([]int, cfg.NumberOfReduces)
	j.taskList[Map] = make([][MaxSpeculativeCopies]*TaskCopy, cfg.NumberOfMaps)
	j.taskList[Reduce] = make([][MaxSpeculativeCopies]*TaskCopy, cfg.NumberOfReduces)

	j.Heartbeats = make([]Heartbeat, cfg.NumberOfWorkers)
	for w := range j.Heartbeats {
		j.Heartbeats[w].SlotsAv[Map] = cfg.MapSlots
		j.Heartbeats[w].SlotsAv[Reduce] = cfg.ReduceSlots
	}

	j.mapOutput = make([][]uint64, cfg.NumberOfWorkers)
	for w := range j.mapOutput {
		j.mapOutput[w] = make([]uint64, cfg.NumberOfReduces)
	}

	return j
}

// Status returns the current status of task tid in phase. Safe to call
// from any goroutine: workers read this to find out whether a sibling
// copy has already finished the task.
func (j *Job) Status(phase Phase, tid int) TaskStatus {
	j.taskStatusMu.Lock()
	defer j.taskStatusMu.Unlock()
	return j.taskStatus[phase][tid]
}

// SetStatus overwrites the status of task tid in phase. Callers are
// responsible for respecting the monotonic lifecycle (Done is
// absorbing); the master checks the current status before each write.
func (j *Job) SetStatus(phase Phase, tid int, status TaskStatus) {
	j.taskStatusMu.Lock()
	defer j.taskStatusMu.Unlock()
	j.taskStatus[phase][tid] = status
}

// Instances returns how many live copies (primary + speculative) task
// tid currently has.
func (j *Job) Instances(phase Phase, tid int) int {
	return j.taskInstances[phase][tid]
}

func (j *Job) incInstances(phase Phase, tid int) {
	j.taskInstances[phase][tid]++
}

// Copies returns the live-copy slots for task tid, indexed 0..2.
func (j *Job) Copies(phase Phase, tid int) *[MaxSpeculativeCopies]*TaskCopy {
	return &j.taskList[phase][tid]
}

// PlaceCopy records a new task copy in the first free slot and returns
// its index, or -1 if all MaxSpeculativeCopies slots are occupied (the
// scheduler's instance cap keeps this from happening in practice).
func (j *Job) PlaceCopy(phase Phase, tid int, copy *TaskCopy) int {
	slots := &j.taskList[phase][tid]
	for i := range slots {
		if slots[i] == nil {
			slots[i] = copy
			j.incInstances(phase, tid)
			return i
		}
	}
	return -1
}

// ClearCopy empties slot i of task tid's copy list.
func (j *Job) ClearCopy(phase Phase, tid int, i int) {
	if j.taskList[phase][tid][i] != nil {
		j.taskInstances[phase][tid]--
	}
	j.taskList[phase][tid][i] = nil
}

// SlotsAv returns the master's cached free-slot count for worker wid,
// phase.
func (j *Job) SlotsAv(wid int, phase Phase) int {
	j.heartbeatsMu.Lock()
	defer j.heartbeatsMu.Unlock()
	return j.Heartbeats[wid].SlotsAv[phase]
}

// DecSlotsAv decrements the cached free-slot count, called when the
// master dispatches a task to wid.
func (j *Job) DecSlotsAv(wid int, phase Phase) {
	j.heartbeatsMu.Lock()
	defer j.heartbeatsMu.Unlock()
	j.Heartbeats[wid].SlotsAv[phase]--
}

// IncSlotsAv increments the cached free-slot count, called when a
// worker's compute actor finishes (or is cancelled out of) a task.
func (j *Job) IncSlotsAv(wid int, phase Phase) {
	j.heartbeatsMu.Lock()
	defer j.heartbeatsMu.Unlock()
	j.Heartbeats[wid].SlotsAv[phase]++
}

// AddMapOutput credits wid with n additional bytes of map output
// destined for reducer rid.
func (j *Job) AddMapOutput(wid, rid int, n uint64) {
	j.mapOutputMu.Lock()
	defer j.mapOutputMu.Unlock()
	j.mapOutput[wid][rid] += n
}

// MapOutput returns the bytes worker wid has produced so far for
// reducer rid.
func (j *Job) MapOutput(wid, rid int) uint64 {
	j.mapOutputMu.Lock()
	defer j.mapOutputMu.Unlock()
	return j.mapOutput[wid][rid]
}
