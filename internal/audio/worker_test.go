package audio

import (
	"sync/atomic"
	"testing"
	"time"
)

// countingGenerator fills frames with a running counter so tests can check
// that batches arrive intact and in order.
type countingGenerator struct {
	active  atomic.Bool
	next    atomic.Int32
	batches atomic.Int32
}

func (g *countingGenerator) GenerateFrames(dst []int16) {
	for i := range dst {
		dst[i] = int16(g.next.Add(1))
	}
	g.batches.Add(1)
}

func (g *countingGenerator) HasActiveVoices() bool { return g.active.Load() }
func (g *countingGenerator) SampleRate() int       { return 44100 }

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("condition not reached within %v", timeout)
}

func TestWorkerGeneratesWhileActive(t *testing.T) {
	gen := &countingGenerator{}
	gen.active.Store(true)
	stream := NewBufferedStream(BatchFrames * 2 * 8)
	w := NewWorker(gen, stream)

	w.Start()
	defer w.Stop()

	waitFor(t, time.Second, func() bool { return stream.AvailableSamples() >= BatchFrames*2 })

	// The first batch arrives contiguous and ordered.
	buf := make([]int16, BatchFrames*2)
	n := stream.ReadSamples(buf)
	for i := 0; i < n; i++ {
		if buf[i] != int16(i+1) {
			t.Fatalf("sample %d = %d, want %d", i, buf[i], i+1)
		}
	}
}

func TestWorkerIdlesWhenSilent(t *testing.T) {
	gen := &countingGenerator{}
	stream := NewBufferedStream(BatchFrames * 2 * 8)
	w := NewWorker(gen, stream)

	w.Start()
	defer w.Stop()

	time.Sleep(50 * time.Millisecond)
	if got := gen.batches.Load(); got != 0 {
		t.Fatalf("idle worker generated %d batches", got)
	}
	if stream.HasData() {
		t.Fatalf("idle worker wrote samples")
	}

	// Voices coming alive wakes generation without a restart.
	gen.active.Store(true)
	waitFor(t, time.Second, func() bool { return gen.batches.Load() > 0 })
}

func TestWorkerStartStopIdempotent(t *testing.T) {
	gen := &countingGenerator{}
	stream := NewBufferedStream(BatchFrames * 2 * 8)
	w := NewWorker(gen, stream)

	w.Start()
	w.Start()
	if !w.Running() {
		t.Fatalf("worker not running after Start")
	}

	w.Stop()
	w.Stop()
	if w.Running() {
		t.Fatalf("worker still running after Stop")
	}

	// Stop is a join: no batch may land after it returns.
	gen.active.Store(true)
	before := gen.batches.Load()
	time.Sleep(30 * time.Millisecond)
	if got := gen.batches.Load(); got != before {
		t.Fatalf("stopped worker generated %d more batches", got-before)
	}
}

func TestWorkerRestarts(t *testing.T) {
	gen := &countingGenerator{}
	gen.active.Store(true)
	stream := NewBufferedStream(BatchFrames * 2 * 8)
	w := NewWorker(gen, stream)

	w.Start()
	waitFor(t, time.Second, func() bool { return gen.batches.Load() > 0 })
	w.Stop()

	mark := gen.batches.Load()
	w.Start()
	defer w.Stop()
	waitFor(t, time.Second, func() bool { return gen.batches.Load() > mark })
}
