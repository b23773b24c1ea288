// Package master implements the control-plane actor that owns all job
// state: it drives task assignment on every heartbeat, detects
// stragglers, marks tasks for speculative duplication, and retires
// tasks (and their siblings) on completion.
package master

import (
	"math/rand"

	"go.uber.org/zap"

	"mrsg/internal/dfs"
	"mrsg/internal/jobstate"
	"mrsg/internal/kernel"
	"mrsg/internal/scheduler"
	"mrsg/internal/tasklog"
	"mrsg/internal/wire"
)

// TaskCostFunc computes the compute cost, in flops, of running task tid
// of the given phase on worker wid.
type TaskCostFunc func(phase jobstate.Phase, tid, wid int) float64

// stragglerElapsedThreshold is how many virtual seconds a task may run
// on a straggling worker before the task becomes eligible for
// speculative duplication.
const stragglerElapsedThreshold = 60.0

// Master bundles everything the control-plane actor needs: simulated
// time and messaging, job bookkeeping, chunk placement, per-worker host
// speeds, and the pluggable cost function.
type Master struct {
	Sim       *kernel.Sim
	Job       *jobstate.Job
	Arena     *jobstate.Arena
	Placement *dfs.Placement
	Hosts     []kernel.Host // indexed by worker id
	Rng       *rand.Rand
	TaskCostF TaskCostFunc
	TaskLog   *tasklog.Writer
	Log       *zap.SugaredLogger

	Stats jobstate.Stats
}

// Run is the master's top-level loop: it processes MASTER_MAILBOX
// messages until every map and reduce task is done.
func (m *Master) Run() {
	m.Log.Infow("job begin",
		"workers", m.Job.Config.NumberOfWorkers,
		"maps", m.Job.Config.NumberOfMaps,
		"reduces", m.Job.Config.NumberOfReduces,
		"chunk_replicas", m.Job.Config.ChunkReplicas,
	)

	for m.Job.TasksPending[jobstate.Map]+m.Job.TasksPending[jobstate.Reduce] > 0 {
		msg := m.Sim.Receive(wire.Master())

		switch msg.Name {
		case wire.Heartbeat:
			wid := msg.Data.(int)
			m.onHeartbeat(wid)

		case wire.TaskDone:
			ti := msg.Data.(jobstate.TaskInfo)
			m.onTaskDone(ti)
		}
	}

	m.Job.Finished = true
	m.Log.Infow("job end", "stats", m.Stats)
}

func (m *Master) onHeartbeat(wid int) {
	if m.isStraggler(wid) {
		m.setSpeculativeTasks(wid)
		return
	}

	if m.Job.SlotsAv(wid, jobstate.Map) > 0 {
		m.sendSchedulerTask(jobstate.Map, wid)
	}
	if m.Job.SlotsAv(wid, jobstate.Reduce) > 0 {
		m.sendSchedulerTask(jobstate.Reduce, wid)
	}
}

func (m *Master) isStraggler(wid int) bool {
	cfg := m.Job.Config
	running := (cfg.MapSlots + cfg.ReduceSlots) - (m.Job.SlotsAv(wid, jobstate.Map) + m.Job.SlotsAv(wid, jobstate.Reduce))
	return m.Hosts[wid].Speed < cfg.GridAverageSpeed && running > 0
}

// taskElapsed approximates how long a copy has been running: the
// kernel's compute primitive doesn't expose mid-flight remaining work,
// so this is measured from dispatch time rather than from the start of
// the compute step itself (fetch/shuffle time included). That only
// ever overstates elapsed time, so it never masks a real straggler.
func (m *Master) taskElapsed(copy *jobstate.TaskCopy) float64 {
	return m.Sim.Now() - copy.StartedAt
}

func (m *Master) setSpeculativeTasks(wid int) {
	cfg := m.Job.Config

	if m.Job.SlotsAv(wid, jobstate.Map) < cfg.MapSlots {
		m.markSlow(jobstate.Map, wid)
	}
	if m.Job.SlotsAv(wid, jobstate.Reduce) < cfg.ReduceSlots {
		m.markSlow(jobstate.Reduce, wid)
	}
}

func (m *Master) markSlow(phase jobstate.Phase, wid int) {
	for tid := 0; tid < m.Job.Config.AmountOfTasks(phase); tid++ {
		if m.Job.Status(phase, tid) == jobstate.Done {
			continue
		}
		copies := m.Job.Copies(phase, tid)
		primary := copies[0]
		if primary == nil || primary.Wid != wid {
			continue
		}
		if m.taskElapsed(primary) > stragglerElapsedThreshold {
			m.Job.SetStatus(phase, tid, jobstate.TIPSlow)
		}
	}
}

func (m *Master) sendSchedulerTask(phase jobstate.Phase, wid int) {
	var tid int
	if phase == jobstate.Map {
		tid = scheduler.ChooseMapTask(m.Job, m.Placement, wid)
	} else {
		tid = scheduler.ChooseReduceTask(m.Job, wid)
	}
	if tid == scheduler.NoTaskID {
		return
	}

	taskType := scheduler.GetTaskType(m.Job, m.Placement, phase, tid, wid)

	src := -1
	switch taskType {
	case jobstate.Local, jobstate.LocalSpec:
		src = wid
	case jobstate.Remote, jobstate.RemoteSpec:
		src = dfs.FindRandomChunkOwner(m.Placement, tid, m.Job.Config.ChunkReplicas, m.Rng)
	}

	m.Log.Infow("task assigned",
		"phase", phase, "tid", tid, "worker", wid, "type", taskType)

	m.sendTask(phase, tid, src, wid)
	m.Stats.Record(taskType)
}

func (m *Master) sendTask(phase jobstate.Phase, tid, src, wid int) {
	cpuRequired := m.TaskCostF(phase, tid, wid)

	info := jobstate.TaskInfo{
		Phase:       phase,
		ID:          tid,
		Src:         src,
		Wid:         wid,
		CPURequired: cpuRequired,
	}
	handle := m.Arena.Alloc(info)

	if m.Job.Status(phase, tid) != jobstate.TIPSlow {
		m.Job.SetStatus(phase, tid, jobstate.TIP)
	}
	m.Job.DecSlotsAv(wid, phase)

	copy := &jobstate.TaskCopy{
		Handle:    handle,
		Cancel:    jobstate.NewCancelToken(),
		Wid:       wid,
		StartedAt: m.Sim.Now(),
	}
	slot := m.Job.PlaceCopy(phase, tid, copy)

	if m.TaskLog != nil {
		_ = m.TaskLog.Start(phase, tid, slot, wid, m.Sim.Now())
	}

	m.Sim.Send(wire.TaskTracker(wid), &kernel.Message{
		Name: wire.Task,
		Size: 0,
		Data: wire.TaskAssignment{Info: info, Cancel: copy.Cancel},
	}, 0)
}

func (m *Master) onTaskDone(ti jobstate.TaskInfo) {
	if m.Job.Status(ti.Phase, ti.ID) == jobstate.Done {
		return
	}
	m.Job.SetStatus(ti.Phase, ti.ID, jobstate.Done)
	m.finishAllTaskCopies(ti)

	m.Job.TasksPending[ti.Phase]--
	if m.Job.TasksPending[ti.Phase] <= 0 {
		m.Log.Infow("phase done", "phase", ti.Phase)
	}
}

func (m *Master) finishAllTaskCopies(ti jobstate.TaskInfo) {
	copies := m.Job.Copies(ti.Phase, ti.ID)
	for i, c := range copies {
		if c == nil {
			continue
		}
		c.Cancel.Cancel()
		m.Arena.Release(c.Handle)
		if m.TaskLog != nil {
			_ = m.TaskLog.End(ti.Phase, ti.ID, i, c.Wid, m.Sim.Now(), ti.ShuffleEnd)
		}
		m.Job.ClearCopy(ti.Phase, ti.ID, i)
	}
}
