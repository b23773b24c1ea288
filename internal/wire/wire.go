// Package wire defines the message names and typed mailbox addresses
// every actor uses to talk over the simulation kernel, replacing the
// original's sprintf-built mailbox strings with a small closed set of
// constructors.
package wire

import (
	"fmt"

	"mrsg/internal/jobstate"
)

// Message names carried on kernel.Message.Name.
const (
	Heartbeat     = "SMS-HB"
	Task          = "SMS-T"
	TaskDone      = "SMS-TD"
	GetChunk      = "SMS-GC"
	GetInterPairs = "SMS-GIP"
	DataChunk     = "DATA-C"
	DataInterPair = "DATA-IP"
	Finish        = "SMS-F"
)

// Master is the master actor's single, fixed mailbox.
func Master() string { return "MASTER" }

// TaskTracker is the task-listener mailbox for worker wid.
func TaskTracker(wid int) string { return fmt.Sprintf("%d:TT", wid) }

// DataNode is the data-transfer mailbox for worker wid.
func DataNode(wid int) string { return fmt.Sprintf("%d:DN", wid) }

// TaskReply is the per-compute-actor reply mailbox: worker wid's
// compute actor identified by pid (a per-worker monotonically
// increasing sequence number, not an OS process id).
func TaskReply(wid, pid int) string { return fmt.Sprintf("%d:%d", wid, pid) }

// TaskAssignment is the SMS-T payload: the task descriptor plus the
// token the worker's compute actor must watch for cancellation.
type TaskAssignment struct {
	Info   jobstate.TaskInfo
	Cancel *jobstate.CancelToken
}
