package fmsynth

import (
	"github.com/gopxl/beep"

	intfm "github.com/toybasic/fmsynth-go/internal/fm"
)

// sampleNorm rescales the engine's 14-bit samples to beep's [-1, 1] range.
const sampleNorm = 1.0 / 8192.0

// Streamer returns a beep.Streamer that pulls samples straight from the
// engine, for wiring the synth into a beep speaker or mixer. The streamer
// never ends and never errors; silence streams as zeros. Do not combine it
// with Start: the worker and the streamer would both advance the engine
// clock.
func (s *Synth) Streamer() beep.Streamer {
	return &engineStreamer{engine: s.engine}
}

// Format describes the streamer's output for beep's speaker setup.
func (s *Synth) Format() beep.Format {
	return beep.Format{
		SampleRate:  beep.SampleRate(s.engine.SampleRate()),
		NumChannels: 2,
		Precision:   2,
	}
}

type engineStreamer struct {
	engine *intfm.Engine
	buf    []int16
}

func (st *engineStreamer) Stream(samples [][2]float64) (int, bool) {
	if len(samples) == 0 {
		return 0, true
	}
	need := len(samples) * 2
	if cap(st.buf) < need {
		st.buf = make([]int16, need)
	}
	st.buf = st.buf[:need]

	st.engine.GenerateFrames(st.buf)
	for i := range samples {
		samples[i][0] = float64(st.buf[i*2]) * sampleNorm
		samples[i][1] = float64(st.buf[i*2+1]) * sampleNorm
	}
	return len(samples), true
}

func (st *engineStreamer) Err() error { return nil }
