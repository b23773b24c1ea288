// Package jobstate holds the data model shared between the master and
// the rest of the control plane: phases, task status/type, the
// immutable job Config, and the master-owned Job (task bookkeeping,
// heartbeat cache, map output ledger).
package jobstate

import "math"

// Phase tags a task as belonging to the map or the reduce stage.
type Phase int

const (
	Map Phase = iota
	Reduce
)

func (p Phase) String() string {
	if p == Map {
		return "MAP"
	}
	return "REDUCE"
}

// NumPhases is the width of every [Phase]-indexed array in this package.
const NumPhases = 2

// MaxSpeculativeCopies bounds how many live instances (primary +
// speculative) a single task may have in flight at once.
const MaxSpeculativeCopies = 3

// TaskStatus is the monotonic lifecycle of a task: Pending -> TIP ->
// (optionally) TIPSlow -> Done. Done is absorbing.
type TaskStatus int

const (
	Pending TaskStatus = iota
	TIP
	TIPSlow
	Done
)

// TaskType is a derived scheduling label, never stored — it's recomputed
// from TaskStatus + placement every time the scheduler looks at a task.
// Ordinal order matters: lower is more preferred. NoTask sorts last.
type TaskType int

const (
	Local TaskType = iota
	Remote
	LocalSpec
	RemoteSpec
	Normal
	Speculative
	NoTask TaskType = math.MaxInt32
)

func (t TaskType) String() string {
	switch t {
	case Local:
		return "LOCAL"
	case Remote:
		return "REMOTE"
	case LocalSpec:
		return "LOCAL_SPEC"
	case RemoteSpec:
		return "REMOTE_SPEC"
	case Normal:
		return "NORMAL"
	case Speculative:
		return "SPECULATIVE"
	default:
		return "NO_TASK"
	}
}

// Config is immutable once the job starts.
type Config struct {
	ChunkSize         float64 // bytes
	ChunkCount        int
	ChunkReplicas     int
	MapSlots          int
	ReduceSlots       int
	NumberOfReduces   int
	NumberOfMaps      int // equals ChunkCount
	HeartbeatInterval float64
	GridCPUPower      float64
	GridAverageSpeed  float64
	NumberOfWorkers   int
}

// Slots returns the configured slot count for phase p.
func (c Config) Slots(p Phase) int {
	if p == Map {
		return c.MapSlots
	}
	return c.ReduceSlots
}

// AmountOfTasks returns the task count for phase p.
func (c Config) AmountOfTasks(p Phase) int {
	if p == Map {
		return c.NumberOfMaps
	}
	return c.NumberOfReduces
}
