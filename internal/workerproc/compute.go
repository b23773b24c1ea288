package workerproc

import (
	"context"

	"mrsg/internal/datanode"
	"mrsg/internal/jobstate"
	"mrsg/internal/kernel"
	"mrsg/internal/wire"
)

// shufflePoll is the Hadoop-style interval a reducer sleeps between
// sweeps of the workers it still needs intermediate pairs from.
const shufflePoll = 5.0

func (w *Worker) compute(assignment wire.TaskAssignment, pid int) {
	ti := assignment.Info
	ti.Pid = pid

	sem := w.slots[ti.Phase]
	_ = sem.Acquire(context.Background(), 1)
	defer sem.Release(1)

	switch ti.Phase {
	case jobstate.Map:
		w.fetchChunk(ti)
	case jobstate.Reduce:
		ti = w.shuffle(ti)
	}

	outcome := kernel.Ok
	if w.Job.Status(ti.Phase, ti.ID) != jobstate.Done {
		outcome = w.execute(ti, assignment.Cancel)
	}

	if ti.Phase == jobstate.Map && outcome == kernel.Ok {
		for rid := 0; rid < w.Job.Config.NumberOfReduces; rid++ {
			w.Job.AddMapOutput(w.Wid, rid, w.MapOutput(ti.ID, rid))
		}
	}

	w.Job.IncSlotsAv(w.Wid, ti.Phase)

	if !w.Job.Finished {
		w.Sim.Send(wire.Master(), &kernel.Message{Name: wire.TaskDone, Data: ti}, 0)
	}
}

// execute runs ti's compute cost on this host, racing the kernel
// primitive against the master's cancellation token. A cancellation is
// not an error: the peer copy has already won.
func (w *Worker) execute(ti jobstate.TaskInfo, cancel *jobstate.CancelToken) kernel.Outcome {
	h := w.Sim.Compute(ti.CPURequired, w.Host.Speed)

	stop := make(chan struct{})
	w.Sim.Spawn(func() {
		select {
		case <-cancel.Done():
			h.Cancel()
		case <-stop:
		}
	})

	outcome := h.Wait()
	close(stop)
	return outcome
}

func (w *Worker) fetchChunk(ti jobstate.TaskInfo) {
	if ti.Src == w.Wid {
		return
	}
	w.Sim.Send(wire.DataNode(ti.Src), &kernel.Message{
		Name: wire.GetChunk,
		Data: datanode.ChunkRequest{ReplyWid: w.Wid, ReplyPid: ti.Pid},
	}, 0)
	w.Sim.Receive(wire.TaskReply(w.Wid, ti.Pid))
}

// shuffle pulls every byte of intermediate output destined for
// reducer ti.ID from each worker that produced any, polling until the
// running total matches what every mapper is expected to have emitted.
func (w *Worker) shuffle(ti jobstate.TaskInfo) jobstate.TaskInfo {
	workers := w.Job.Config.NumberOfWorkers
	dataCopied := make([]uint64, workers)
	ti.MapOutputCopied = dataCopied

	var mustCopy uint64
	for mid := 0; mid < w.Job.Config.NumberOfMaps; mid++ {
		mustCopy += w.MapOutput(mid, ti.ID)
	}

	var totalCopied uint64
	for totalCopied < mustCopy {
		for src := 0; src < workers; src++ {
			if w.Job.Status(jobstate.Reduce, ti.ID) == jobstate.Done {
				return ti
			}

			have := w.Job.MapOutput(src, ti.ID)
			if have <= dataCopied[src] {
				continue
			}

			w.Sim.Send(wire.DataNode(src), &kernel.Message{Name: wire.GetInterPairs, Data: ti}, 0)
			reply := w.Sim.Receive(wire.TaskReply(w.Wid, ti.Pid))

			n := uint64(reply.Size)
			dataCopied[src] += n
			totalCopied += n
		}
		if totalCopied < mustCopy {
			w.Sim.Sleep(shufflePoll)
		}
	}

	ti.ShuffleEnd = w.Sim.Now()
	return ti
}
