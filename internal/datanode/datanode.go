// Package datanode implements the per-worker actor that answers chunk
// and intermediate-pair transfer requests from other workers.
package datanode

import (
	"go.uber.org/zap"

	"mrsg/internal/jobstate"
	"mrsg/internal/kernel"
	"mrsg/internal/wire"
)

// ChunkRequest is the payload of a GetChunk message: who to reply to.
type ChunkRequest struct {
	ReplyWid int
	ReplyPid int
}

// Run serves wid's data-node mailbox until a Finish message arrives.
// Each request is handled by its own detached goroutine so a slow
// reply never blocks the next request from being received.
func Run(sim *kernel.Sim, job *jobstate.Job, wid int, bandwidth, chunkSize float64, log *zap.SugaredLogger) {
	mailbox := wire.DataNode(wid)

	for {
		msg := sim.Receive(mailbox)
		switch msg.Name {
		case wire.GetChunk:
			req := msg.Data.(ChunkRequest)
			sim.Spawn(func() {
				sim.Send(wire.TaskReply(req.ReplyWid, req.ReplyPid), &kernel.Message{
					Name: wire.DataChunk,
					Size: chunkSize,
				}, bandwidth)
			})

		case wire.GetInterPairs:
			ti := msg.Data.(jobstate.TaskInfo)
			sim.Spawn(func() {
				have := job.MapOutput(wid, ti.ID)
				copied := uint64(0)
				if len(ti.MapOutputCopied) > wid {
					copied = ti.MapOutputCopied[wid]
				}
				delta := float64(0)
				if have > copied {
					delta = float64(have - copied)
				}
				sim.Send(wire.TaskReply(ti.Wid, ti.Pid), &kernel.Message{
					Name: wire.DataInterPair,
					Size: delta,
				}, bandwidth)
			})

		case wire.Finish:
			log.Debugw("data node shutting down", "wid", wid)
			return
		}
	}
}
