// ABOUTME: Fire-and-forget event queue for render progress and completion
// ABOUTME: Pushes never block the render goroutine; overflow is dropped
package event

import "log"

// Kind discriminates render events.
type Kind int

const (
	// Progress reports percent-complete after each finished column.
	Progress Kind = iota
	// Finished marks terminal success.
	Finished
	// Failed marks terminal failure; Err holds the cause.
	Failed
)

func (k Kind) String() string {
	switch k {
	case Progress:
		return "progress"
	case Finished:
		return "finished"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Event is one notification from a render job.
type Event struct {
	Kind        Kind
	Percent     int // 0..100, meaningful for Progress
	ShortWrites int // meaningful for Finished
	Err         error
}

// Queue delivers events to at most one consumer without ever blocking the
// producer.
type Queue struct {
	ch chan Event
}

// NewQueue creates a queue buffering up to size events.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = 128
	}
	return &Queue{ch: make(chan Event, size)}
}

// Push delivers an event if the buffer has room and drops it otherwise.
func (q *Queue) Push(ev Event) {
	select {
	case q.ch <- ev:
	default:
		log.Printf("Warning: event queue full, dropped %s event", ev.Kind)
	}
}

// C returns the receive side of the queue.
func (q *Queue) C() <-chan Event {
	return q.ch
}
