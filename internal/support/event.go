// Package support provides the small platform primitives the search
// engine is built on.
package support

// Event is an auto-reset notification: Signal marks the event, Wait
// blocks until it is marked and consumes the mark. Signalling an already
// marked event is a no-op, so producers may signal freely without
// blocking. Exactly one waiter is supported at a time.
type Event struct {
	ch chan struct{}
}

// NewEvent returns an unmarked event.
func NewEvent() *Event {
	return &Event{ch: make(chan struct{}, 1)}
}

// Signal marks the event, waking the waiter if one is blocked.
func (e *Event) Signal() {
	select {
	case e.ch <- struct{}{}:
	default:
	}
}

// Wait blocks until the event is marked and resets it.
func (e *Event) Wait() {
	<-e.ch
}
