// Package workerproc implements the per-worker actor: a heartbeat loop,
// a task listener, and one compute sub-actor per in-flight task, plus
// the chunk-fetch and shuffle protocols those sub-actors run.
package workerproc

import (
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"mrsg/internal/jobstate"
	"mrsg/internal/kernel"
	"mrsg/internal/wire"
)

// MapOutputFunc reports how many bytes map task mid produces for
// reducer rid.
type MapOutputFunc func(mid, rid int) uint64

// Worker holds everything one worker actor's goroutines share.
type Worker struct {
	Sim       *kernel.Sim
	Job       *jobstate.Job
	Wid       int
	Host      kernel.Host
	MapOutput MapOutputFunc
	Log       *zap.SugaredLogger

	// slots bounds the number of concurrently executing compute
	// sub-actors locally, one independent pool per phase, mirroring
	// (not replacing) the master's cached slots_av bookkeeping.
	slots [jobstate.NumPhases]*semaphore.Weighted
	pid   int
}

// Run launches the listener and data-node companion actors, then runs
// the heartbeat loop on the calling goroutine until the job finishes.
func Run(w *Worker, dataNode func()) {
	cfg := w.Job.Config
	w.slots[jobstate.Map] = semaphore.NewWeighted(int64(cfg.MapSlots))
	w.slots[jobstate.Reduce] = semaphore.NewWeighted(int64(cfg.ReduceSlots))

	w.Sim.Spawn(w.listen)
	w.Sim.Spawn(dataNode)

	w.heartbeat()

	w.Sim.Send(wire.DataNode(w.Wid), &kernel.Message{Name: wire.Finish}, 0)
	w.Sim.Send(wire.TaskTracker(w.Wid), &kernel.Message{Name: wire.Finish}, 0)
}

func (w *Worker) heartbeat() {
	for !w.Job.Finished {
		w.Sim.Send(wire.Master(), &kernel.Message{Name: wire.Heartbeat, Data: w.Wid}, 0)
		w.Sim.Sleep(w.Job.Config.HeartbeatInterval)
	}
}

func (w *Worker) listen() {
	mailbox := wire.TaskTracker(w.Wid)
	for {
		msg := w.Sim.Receive(mailbox)
		switch msg.Name {
		case wire.Task:
			assignment := msg.Data.(wire.TaskAssignment)
			w.pid++
			pid := w.pid
			w.Sim.Spawn(func() { w.compute(assignment, pid) })
		case wire.Finish:
			return
		}
	}
}
