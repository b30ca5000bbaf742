// Package audio carries generated frames from the synthesis engine to an
// output device. A BufferedStream decouples the generation goroutine from
// the playback callback; Player adapts the stream to the platform audio
// backend.
package audio

import "sync"

// SampleStream is a FIFO of interleaved stereo int16 samples. Writers are
// the generation side, readers the playback side. Reads block until data
// arrives or the stream is closed.
type SampleStream interface {
	WriteSample(s int16)
	// WriteSamples appends src and returns how many queued samples were
	// discarded to stay within the stream's bound. Delivery loss is
	// non-fatal; callers log it and move on.
	WriteSamples(src []int16) (dropped int)
	// ReadSample blocks for the next sample. ok is false once the stream
	// is closed and drained.
	ReadSample() (s int16, ok bool)
	// ReadSamples blocks until at least one sample is available, then
	// copies up to len(dst) samples and returns the count. A return of 0
	// means closed and drained.
	ReadSamples(dst []int16) int
	HasData() bool
	AvailableSamples() int
	Close()
}

// BufferedStream is the SampleStream used between the generation worker
// and the player. It is bounded: when a write would exceed the capacity,
// the oldest samples are discarded so playback latency cannot grow without
// limit when the consumer stalls.
type BufferedStream struct {
	mu     sync.Mutex
	cond   *sync.Cond
	buf    []int16
	limit  int
	closed bool
}

// NewBufferedStream builds a stream holding at most capacity samples.
// Non-positive capacities fall back to one second of 44.1 kHz stereo.
func NewBufferedStream(capacity int) *BufferedStream {
	if capacity <= 0 {
		capacity = 44100 * 2
	}
	s := &BufferedStream{limit: capacity}
	s.cond = sync.NewCond(&s.mu)
	return s
}

func (s *BufferedStream) WriteSample(v int16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.buf = append(s.buf, v)
	s.trim()
	s.cond.Signal()
}

func (s *BufferedStream) WriteSamples(src []int16) int {
	if len(src) == 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0
	}
	s.buf = append(s.buf, src...)
	dropped := s.trim()
	s.cond.Broadcast()
	return dropped
}

// trim drops the oldest samples past the capacity and returns how many
// went. Callers hold s.mu.
func (s *BufferedStream) trim() int {
	over := len(s.buf) - s.limit
	if over <= 0 {
		return 0
	}
	s.buf = append(s.buf[:0], s.buf[over:]...)
	return over
}

func (s *BufferedStream) ReadSample() (int16, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.buf) == 0 && !s.closed {
		s.cond.Wait()
	}
	if len(s.buf) == 0 {
		return 0, false
	}
	v := s.buf[0]
	s.buf = s.buf[1:]
	return v, true
}

func (s *BufferedStream) ReadSamples(dst []int16) int {
	if len(dst) == 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.buf) == 0 && !s.closed {
		s.cond.Wait()
	}
	n := copy(dst, s.buf)
	s.buf = s.buf[n:]
	if len(s.buf) == 0 {
		// Reset so the backing array can be reused instead of crawling
		// forward through memory.
		s.buf = nil
	}
	return n
}

func (s *BufferedStream) HasData() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buf) > 0
}

func (s *BufferedStream) AvailableSamples() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buf)
}

// Close marks the stream finished. Pending samples remain readable;
// blocked readers wake and drain.
func (s *BufferedStream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.cond.Broadcast()
}
