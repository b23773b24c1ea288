// Package tasklog writes the per-task-copy CSV trace the master emits
// over the lifetime of a run: one START row when a copy is dispatched,
// one END row when it (or a sibling) finishes.
package tasklog

import (
	"encoding/csv"
	"fmt"
	"io"
	"sync"

	"mrsg/internal/jobstate"
)

// Writer serializes CSV rows from whichever master goroutine calls it.
// The master only ever has one goroutine issuing task decisions, but
// the mutex keeps this package safe to share if that changes.
type Writer struct {
	mu  sync.Mutex
	w   *csv.Writer
	out io.Writer
}

// New opens a tasks.csv-shaped writer and emits the header row.
func New(out io.Writer) (*Writer, error) {
	w := &Writer{w: csv.NewWriter(out), out: out}
	if err := w.w.Write([]string{"task_id", "phase", "worker_id", "time", "action", "shuffle_end"}); err != nil {
		return nil, err
	}
	w.w.Flush()
	return w, w.w.Error()
}

// Start records a task copy being dispatched to wid at virtual time t.
func (w *Writer) Start(phase jobstate.Phase, tid, copy, wid int, t float64) error {
	return w.write(phase, tid, copy, wid, t, "START", "")
}

// End records a task copy being finished or cancelled, along with the
// shuffle completion time (0 for map tasks, or reduce tasks that never
// finished shuffling).
func (w *Writer) End(phase jobstate.Phase, tid, copy, wid int, t, shuffleEnd float64) error {
	return w.write(phase, tid, copy, wid, t, "END", fmt.Sprintf("%.3f", shuffleEnd))
}

func (w *Writer) write(phase jobstate.Phase, tid, copy, wid int, t float64, action, shuffleEnd string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := fmt.Sprintf("%d_%d_%d", phase, tid, copy)
	err := w.w.Write([]string{id, phase.String(), fmt.Sprintf("%d", wid), fmt.Sprintf("%.3f", t), action, shuffleEnd})
	if err != nil {
		return err
	}
	w.w.Flush()
	return w.w.Error()
}
