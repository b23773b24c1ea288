// Package kernel implements the minimal discrete-event simulation core
// that the MapReduce control plane runs on top of: a virtual clock, named
// hosts with a CPU speed, named mailboxes with modelled network transfer
// time, and a "compute C flops on this host" primitive that can be
// cancelled mid-flight. It is a black box from the control plane's point
// of view: everything here is plumbing, not policy.
package kernel

import (
	"container/heap"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Outcome is the result of a Compute call.
type Outcome int

const (
	// Ok means the computation ran to completion.
	Ok Outcome = iota
	// Cancelled means a Cancel() call interrupted the computation.
	Cancelled
	// Failed means the computation could not be scheduled (unused by the
	// control plane today, reserved for transport-failure modelling).
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Ok:
		return "ok"
	case Cancelled:
		return "cancelled"
	default:
		return "failed"
	}
}

type event struct {
	time float64
	seq  uint64
	fn   func()
}

type eventHeap []*event

func (h eventHeap) Len() int { return len(h) }
func (h eventHeap) Less(i, j int) bool {
	if h[i].time != h[j].time {
		return h[i].time < h[j].time
	}
	return h[i].seq < h[j].seq
}
func (h eventHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *eventHeap) Push(x interface{}) { *h = append(*h, x.(*event)) }
func (h *eventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return it
}

// Sim is the simulation kernel: one per simulated run.
type Sim struct {
	mu         sync.Mutex
	cond       *sync.Cond
	now        float64
	heap       eventHeap
	seq        uint64
	liveActors int

	mailboxes map[string]*mailbox

	eg errgroup.Group
}

type mailbox struct {
	queue   []*Message
	waiters []chan *Message
}

// New creates a fresh kernel with the clock at zero.
func New() *Sim {
	s := &Sim{mailboxes: make(map[string]*mailbox)}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Now returns the current virtual clock value, in seconds.
func (s *Sim) Now() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// schedule queues fn to run after delay virtual seconds. fn runs on the
// dispatcher goroutine (Run's caller), never concurrently with another
// event's effect.
func (s *Sim) schedule(delay float64, fn func()) {
	s.mu.Lock()
	heap.Push(&s.heap, &event{time: s.now + delay, seq: s.seq, fn: fn})
	s.seq++
	s.cond.Broadcast()
	s.mu.Unlock()
}

// Spawn launches fn as an actor goroutine and accounts for it so Run()
// knows when the simulation has gone quiescent. A panic inside fn is
// recovered and surfaced as an error from Wait, rather than crashing
// the whole process.
func (s *Sim) Spawn(fn func()) {
	s.mu.Lock()
	s.liveActors++
	s.cond.Broadcast()
	s.mu.Unlock()

	s.eg.Go(func() (err error) {
		defer func() {
			s.mu.Lock()
			s.liveActors--
			s.cond.Broadcast()
			s.mu.Unlock()

			if r := recover(); r != nil {
				err = fmt.Errorf("kernel: actor panicked: %v", r)
			}
		}()
		fn()
		return nil
	})
}

// Wait blocks until every spawned actor has returned, and returns the
// first panic any of them raised (nil if none did). Call it after Run
// to surface actor failures to the caller.
func (s *Sim) Wait() error {
	return s.eg.Wait()
}

// Run drains the event queue until no events remain and every spawned
// actor has returned. It must be called from a single goroutine.
func (s *Sim) Run() {
	s.mu.Lock()
	for {
		for len(s.heap) == 0 {
			if s.liveActors == 0 {
				s.mu.Unlock()
				return
			}
			s.cond.Wait()
		}
		ev := heap.Pop(&s.heap).(*event)
		s.now = ev.time
		s.mu.Unlock()
		ev.fn()
		s.mu.Lock()
	}
}

// Sleep suspends the calling actor for d virtual seconds.
func (s *Sim) Sleep(d float64) {
	done := make(chan struct{}, 1)
	s.schedule(d, func() { done <- struct{}{} })
	<-done
}

// ComputeHandle represents an in-flight compute primitive; it can be
// cancelled by whoever holds a reference to it (typically the master,
// cancelling a straggler's sibling copy).
type ComputeHandle struct {
	done chan Outcome
	once sync.Once
}

// Cancel interrupts the computation. If it already finished, Cancel is a
// no-op. Safe to call more than once or concurrently with completion.
func (h *ComputeHandle) Cancel() {
	h.once.Do(func() {
		select {
		case h.done <- Cancelled:
		default:
		}
	})
}

// Wait blocks until the computation completes or is cancelled.
func (h *ComputeHandle) Wait() Outcome {
	return <-h.done
}

// Compute models executing flops worth of work on a host running at
// speed flops/s. It returns a handle the caller can Wait() on and anyone
// else can Cancel().
func (s *Sim) Compute(flops float64, speed float64) *ComputeHandle {
	h := &ComputeHandle{done: make(chan Outcome, 1)}
	duration := flops / speed
	s.schedule(duration, func() {
		h.once.Do(func() {
			h.done <- Ok
		})
	})
	return h
}

func (s *Sim) mailboxFor(name string) *mailbox {
	mb, ok := s.mailboxes[name]
	if !ok {
		mb = &mailbox{}
		s.mailboxes[name] = mb
	}
	return mb
}

// Message is the payload carried between mailboxes: a name (for
// type-switching on the receiving end), a modelled byte size (for
// network-transfer-time accounting), and an opaque data pointer.
type Message struct {
	Name string
	Size float64
	Data interface{}
}

// Send enqueues msg for delivery to the named mailbox after a network
// transfer delay computed from msg.Size and bandwidth (bytes/s). It never
// blocks the caller: the transfer delay is modelled purely as a future
// event.
func (s *Sim) Send(mailboxName string, msg *Message, bandwidth float64) {
	delay := 0.0
	if msg.Size > 0 && bandwidth > 0 {
		delay = msg.Size / bandwidth
	}
	s.schedule(delay, func() {
		s.deliver(mailboxName, msg)
	})
}

func (s *Sim) deliver(name string, msg *Message) {
	s.mu.Lock()
	mb := s.mailboxFor(name)
	if len(mb.waiters) > 0 {
		ch := mb.waiters[0]
		mb.waiters = mb.waiters[1:]
		s.mu.Unlock()
		ch <- msg
		return
	}
	mb.queue = append(mb.queue, msg)
	s.mu.Unlock()
}

// Receive blocks the calling actor until a message arrives at the named
// mailbox, and returns it. Messages queued for the same mailbox are
// returned in send-completion order.
func (s *Sim) Receive(mailboxName string) *Message {
	s.mu.Lock()
	mb := s.mailboxFor(mailboxName)
	if len(mb.queue) > 0 {
		msg := mb.queue[0]
		mb.queue = mb.queue[1:]
		s.mu.Unlock()
		return msg
	}
	ch := make(chan *Message, 1)
	mb.waiters = append(mb.waiters, ch)
	s.mu.Unlock()
	return <-ch
}
