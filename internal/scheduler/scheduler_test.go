package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mrsg/internal/jobstate"
)

type fakeOwnership struct {
	owner map[int]int // chunk -> owning worker
}

func (f fakeOwnership) Owns(cid, wid int) bool {
	return f.owner[cid] == wid
}

func baseConfig() jobstate.Config {
	return jobstate.Config{
		ChunkCount:      4,
		NumberOfMaps:    4,
		NumberOfReduces: 2,
		MapSlots:        2,
		ReduceSlots:     2,
		NumberOfWorkers: 2,
	}
}

func TestChooseMapTaskPrefersLocal(t *testing.T) {
	j := jobstate.NewJob(baseConfig())
	owns := fakeOwnership{owner: map[int]int{0: 1, 1: 0, 2: 0, 3: 1}}

	tid := ChooseMapTask(j, owns, 1)
	assert.Equal(t, 0, tid, "worker 1 owns chunk 0, should get it before any remote chunk")
}

func TestChooseMapTaskFallsBackToRemote(t *testing.T) {
	j := jobstate.NewJob(baseConfig())
	owns := fakeOwnership{owner: map[int]int{0: 0, 1: 0, 2: 0, 3: 0}}

	tid := ChooseMapTask(j, owns, 1)
	assert.NotEqual(t, NoTaskID, tid, "worker 1 owns nothing, but a remote task must still be offered")
}

func TestChooseMapTaskNoPendingTasks(t *testing.T) {
	j := jobstate.NewJob(baseConfig())
	j.TasksPending[jobstate.Map] = 0
	owns := fakeOwnership{}

	assert.Equal(t, NoTaskID, ChooseMapTask(j, owns, 0))
}

func TestChooseReduceTaskGatedByMapProgress(t *testing.T) {
	j := jobstate.NewJob(baseConfig())
	// All 4 maps still pending -> 100% > 90% threshold, reduces withheld.
	assert.Equal(t, NoTaskID, ChooseReduceTask(j, 0))
}

func TestChooseReduceTaskAssignsOnceMapsNearDone(t *testing.T) {
	j := jobstate.NewJob(baseConfig())
	j.TasksPending[jobstate.Map] = 0
	tid := ChooseReduceTask(j, 0)
	assert.Equal(t, 0, tid)
}

func TestGetTaskTypeMapDone(t *testing.T) {
	j := jobstate.NewJob(baseConfig())
	j.SetStatus(jobstate.Map, 0, jobstate.Done)
	owns := fakeOwnership{owner: map[int]int{0: 0}}
	assert.Equal(t, jobstate.NoTask, GetTaskType(j, owns, jobstate.Map, 0, 0))
}

func TestGetTaskTypeMapSpeculative(t *testing.T) {
	j := jobstate.NewJob(baseConfig())
	j.SetStatus(jobstate.Map, 0, jobstate.TIPSlow)
	owns := fakeOwnership{owner: map[int]int{0: 7}}
	assert.Equal(t, jobstate.RemoteSpec, GetTaskType(j, owns, jobstate.Map, 0, 1))
}
