package audio

import (
	"log"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// BatchFrames is the number of stereo frames generated per worker
	// iteration. 256 frames is under 6 ms at 44.1 kHz, small enough that
	// note events feel immediate.
	BatchFrames = 256

	// idleDelay is how long the worker sleeps when no voice is sounding.
	idleDelay = 10 * time.Millisecond
)

// FrameGenerator is the synthesis side of the worker: the engine, or any
// test double that fills interleaved stereo int16 frames.
type FrameGenerator interface {
	GenerateFrames(dst []int16)
	HasActiveVoices() bool
	SampleRate() int
}

// Worker runs the generation loop on its own goroutine: generate a batch,
// hand it to the stream, sleep roughly the batch duration so production
// keeps pace with playback. When the engine is silent it skips generation
// and naps, so an idle synthesizer costs near nothing.
type Worker struct {
	gen    FrameGenerator
	stream SampleStream

	running atomic.Bool
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewWorker wires a generator to a stream. The worker does not own the
// stream; the caller closes it after Stop when playback is finished.
func NewWorker(gen FrameGenerator, stream SampleStream) *Worker {
	return &Worker{gen: gen, stream: stream}
}

// Start launches the generation goroutine. Calling Start on a running
// worker is a no-op.
func (w *Worker) Start() {
	if !w.running.CompareAndSwap(false, true) {
		return
	}
	w.done = make(chan struct{})
	w.wg.Add(1)
	go w.loop(w.done)
}

// Stop signals the goroutine and blocks until it exits. Calling Stop on a
// stopped worker is a no-op. The worker can be started again afterwards.
func (w *Worker) Stop() {
	if !w.running.CompareAndSwap(true, false) {
		return
	}
	close(w.done)
	w.wg.Wait()
}

// Running reports whether the generation goroutine is live.
func (w *Worker) Running() bool {
	return w.running.Load()
}

func (w *Worker) loop(done <-chan struct{}) {
	defer w.wg.Done()

	buf := make([]int16, BatchFrames*2)
	for {
		select {
		case <-done:
			return
		default:
		}

		if !w.gen.HasActiveVoices() {
			w.sleep(done, idleDelay)
			continue
		}

		w.gen.GenerateFrames(buf)
		if dropped := w.stream.WriteSamples(buf); dropped > 0 {
			// Playback fell behind; delivery loss is non-fatal and the
			// next batch proceeds normally.
			log.Printf("audio: stream overflow, dropped %d samples", dropped)
		}
		w.sleep(done, w.batchDuration())
	}
}

func (w *Worker) batchDuration() time.Duration {
	rate := w.gen.SampleRate()
	if rate <= 0 {
		return idleDelay
	}
	return time.Duration(BatchFrames) * time.Second / time.Duration(rate)
}

// sleep waits for d but returns early on stop, so Stop never blocks for a
// full batch period.
func (w *Worker) sleep(done <-chan struct{}, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-done:
	case <-t.C:
	}
}
