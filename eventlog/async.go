package eventlog

import (
	"log"
	"sync"

	"pokernight/engine"
)

const asyncBufferSize = 256

// AsyncSink decouples event emission from storage writes. The engine calls
// Append while holding the table lock, so the write must not wait on the
// database: events are handed to a single writer goroutine through a buffered
// channel and dropped with a log line when the buffer is full.
//
// Close drains the buffer and must not race Append; callers stop the
// producer first.
type AsyncSink struct {
	store   Store
	ch      chan engine.Event
	drained chan struct{}
	once    sync.Once
}

func NewAsyncSink(store Store) *AsyncSink {
	s := &AsyncSink{
		store:   store,
		ch:      make(chan engine.Event, asyncBufferSize),
		drained: make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *AsyncSink) run() {
	for e := range s.ch {
		s.store.Append(e)
	}
	close(s.drained)
}

func (s *AsyncSink) Append(e engine.Event) {
	select {
	case s.ch <- e:
	default:
		log.Printf("[EventLog] async buffer full, dropping %s event for session %s", e.Type, e.SessionID)
	}
}

// Close flushes buffered events to the store and stops the writer. It does
// not close the underlying store, which may be shared across tables.
func (s *AsyncSink) Close() error {
	s.once.Do(func() { close(s.ch) })
	<-s.drained
	return nil
}
