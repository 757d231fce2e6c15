package notification

import (
	"log"
	"sync"
	"time"
)

// Event is one completion signal for dependent views to refresh on.
type Event struct {
	Tag   string
	Count int
	At    time.Time
}

// EventEmitter buffers events for the background drainer. A full buffer drops
// the event rather than blocking the upload path, and an emit after stop is
// dropped the same way: upload handlers may still be finishing requests while
// the process shuts down.
type EventEmitter struct {
	ch     chan Event
	mu     sync.Mutex
	closed bool
}

var defaultEmitter = &EventEmitter{ch: make(chan Event, 256)}

// Emitter returns the process-wide emitter.
func Emitter() *EventEmitter {
	return defaultEmitter
}

// UploadCompleted queues an upload-completed signal.
func (e *EventEmitter) UploadCompleted(tag string, count int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		log.Printf("[NOTIFY] emitter stopped, dropping %s event", tag)
		return
	}
	select {
	case e.ch <- Event{Tag: tag, Count: count, At: time.Now()}:
	default:
		log.Printf("[NOTIFY] event buffer full, dropping %s event", tag)
	}
}

// stop ends the drainer. Sends and close share the mutex, so a late emit can
// never race the close.
func (e *EventEmitter) stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	close(e.ch)
}

func stopEmitter() {
	defaultEmitter.stop()
}
