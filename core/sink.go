package core

import "sync"

// LogSink receives step log lines as the engine produces them. It is the
// single hook that lets one traversal implementation serve both batch
// (collect-then-return) and real-time streaming consumers: the engine
// accepts zero or one sink and invokes it synchronously, in-line, on the
// executing run's own sequence.
//
// Implementations must not block indefinitely; a slow streaming consumer
// belongs behind a ChannelSink, whose bounded buffer drops lines rather than
// stalling node execution.
type LogSink interface {
	Emit(line string)
}

// FuncSink adapts a plain function to the LogSink interface.
type FuncSink func(line string)

// Emit implements LogSink.
func (f FuncSink) Emit(line string) { f(line) }

// ChannelSink is a LogSink backed by a bounded channel. Emit never blocks:
// when the buffer is full the line is dropped for this sink only, so a
// disconnected or slow subscriber cannot stall the producing run. Dropped
// lines are lost to the live stream but still present in the run record's
// log history.
type ChannelSink struct {
	ch     chan string
	mu     sync.Mutex
	closed bool
}

// NewChannelSink creates a ChannelSink buffering up to size lines. A size of
// 0 or less falls back to a buffer of 1 so Emit stays non-blocking.
func NewChannelSink(size int) *ChannelSink {
	if size <= 0 {
		size = 1
	}
	return &ChannelSink{ch: make(chan string, size)}
}

// Emit implements LogSink with a non-blocking send.
func (s *ChannelSink) Emit(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- line:
	default:
		// Buffer full: drop rather than stall the run.
	}
}

// Lines returns the receive side of the sink. The channel is closed by Close
// when the producing run reaches a terminal status.
func (s *ChannelSink) Lines() <-chan string { return s.ch }

// Close closes the line channel. Safe to call more than once; Emit after
// Close is a no-op.
func (s *ChannelSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}
