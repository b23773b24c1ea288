package datanode_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mrsg/internal/datanode"
	"mrsg/internal/jobstate"
	"mrsg/internal/kernel"
	"mrsg/internal/wire"
)

func TestDataNodeRepliesToGetChunk(t *testing.T) {
	sim := kernel.New()
	job := jobstate.NewJob(jobstate.Config{NumberOfWorkers: 2, NumberOfReduces: 1})

	sim.Spawn(func() { datanode.Run(sim, job, 0, 1e8, 64, zap.NewNop().Sugar()) })
	sim.Spawn(func() {
		sim.Send(wire.DataNode(0), &kernel.Message{
			Name: wire.GetChunk,
			Data: datanode.ChunkRequest{ReplyWid: 1, ReplyPid: 7},
		}, 0)
		reply := sim.Receive(wire.TaskReply(1, 7))
		require.Equal(t, wire.DataChunk, reply.Name)
		require.Equal(t, 64.0, reply.Size)

		sim.Send(wire.DataNode(0), &kernel.Message{Name: wire.Finish}, 0)
	})

	sim.Run()
	require.NoError(t, sim.Wait())
}

func TestDataNodeRepliesToGetInterPairsWithOnlyTheUncopiedDelta(t *testing.T) {
	sim := kernel.New()
	job := jobstate.NewJob(jobstate.Config{NumberOfWorkers: 2, NumberOfReduces: 1})
	job.AddMapOutput(0 /* source worker */, 0 /* reducer id */, 100)

	sim.Spawn(func() { datanode.Run(sim, job, 0, 1e8, 64, zap.NewNop().Sugar()) })
	sim.Spawn(func() {
		ti := jobstate.TaskInfo{
			ID:              0,
			Wid:             1,
			Pid:             3,
			MapOutputCopied: []uint64{40, 0}, // already pulled 40 bytes from worker 0
		}
		sim.Send(wire.DataNode(0), &kernel.Message{Name: wire.GetInterPairs, Data: ti}, 0)
		reply := sim.Receive(wire.TaskReply(1, 3))
		require.Equal(t, wire.DataInterPair, reply.Name)
		require.Equal(t, 60.0, reply.Size)

		sim.Send(wire.DataNode(0), &kernel.Message{Name: wire.Finish}, 0)
	})

	sim.Run()
	require.NoError(t, sim.Wait())
}
