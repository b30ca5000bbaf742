package fm

import (
	"math"
	"testing"
)

func TestNoteFrequency(t *testing.T) {
	cfg := DefaultConfig()

	if got := cfg.NoteFrequency(69); math.Abs(got-440.0) > 1e-6 {
		t.Fatalf("A4 = %v Hz, want 440", got)
	}
	if got := cfg.NoteFrequency(81); math.Abs(got-880.0) > 1e-6 {
		t.Fatalf("A5 = %v Hz, want 880", got)
	}
	if got := cfg.NoteFrequency(57); math.Abs(got-220.0) > 1e-6 {
		t.Fatalf("A3 = %v Hz, want 220", got)
	}

	// One semitone up scales by 2^(1/12).
	c4 := cfg.NoteFrequency(60)
	cs4 := cfg.NoteFrequency(61)
	if ratio := cs4 / c4; math.Abs(ratio-math.Pow(2, 1.0/12.0)) > 1e-5 {
		t.Fatalf("semitone ratio = %v", ratio)
	}
}

func TestQuantizeGrid(t *testing.T) {
	cfg := DefaultConfig()

	// Quantized values land exactly on multiples of 2^-22.
	v := cfg.quantize(440.123456789)
	if steps := v * cfg.FreqPrecisionScale; steps != math.Round(steps) {
		t.Fatalf("quantize(440.12...) = %v is off-grid", v)
	}
	// Idempotent.
	if cfg.quantize(v) != v {
		t.Fatalf("quantize not idempotent at %v", v)
	}
	if cfg.quantize(0) != 0 {
		t.Fatalf("quantize(0) != 0")
	}
}

func TestWaveformOutput(t *testing.T) {
	cfg := DefaultConfig()
	op := Operator{
		Amplitude:     1.0,
		EnvelopeLevel: 1.0,
		Velocity:      1.0,
	}

	cases := []struct {
		name  string
		wave  Waveform
		phase float64
		want  float64
	}{
		{"sine zero", Sine, 0, 0},
		{"sine quarter", Sine, halfPi, 1},
		{"saw start", Sawtooth, 0, -1},
		{"saw middle", Sawtooth, math.Pi, 0},
		{"square high", Square, halfPi, 1},
		{"square low", Square, math.Pi + halfPi, -1},
		{"triangle start", Triangle, 0, -1},
		{"triangle peak", Triangle, math.Pi, 1},
		{"triangle falling", Triangle, math.Pi + halfPi, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			op.Waveform = tc.wave
			op.PhaseAccumulator = tc.phase
			if got := cfg.Output(&op, 0); math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("output = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestOutputScaling(t *testing.T) {
	cfg := DefaultConfig()
	op := Operator{
		Waveform:         Sine,
		PhaseAccumulator: halfPi,
		Amplitude:        0.5,
		EnvelopeLevel:    0.5,
		Velocity:         0.5,
	}
	if got, want := cfg.Output(&op, 0), 0.125; math.Abs(got-want) > 1e-9 {
		t.Fatalf("output = %v, want %v", got, want)
	}
}

func TestModulationShiftsPhase(t *testing.T) {
	cfg := DefaultConfig()
	op := Operator{
		Waveform:        Sine,
		Amplitude:       1.0,
		EnvelopeLevel:   1.0,
		Velocity:        1.0,
		ModulationIndex: 1.0,
	}
	// Modulation of π/2 with index 1 reads the sine a quarter cycle ahead.
	got := cfg.Output(&op, halfPi)
	want := math.Sin(cfg.quantize(halfPi))
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("modulated output = %v, want %v", got, want)
	}

	// Zero index ignores modulation entirely.
	op.ModulationIndex = 0
	if got := cfg.Output(&op, 123.456); got != 0 {
		t.Fatalf("output with zero index = %v, want 0", got)
	}
}

func TestPhaseWrap(t *testing.T) {
	cfg := DefaultConfig()
	op := Operator{Frequency: 440, PitchBend: 1.0}

	for i := 0; i < cfg.SampleRate; i++ {
		cfg.advancePhase(&op)
		if op.PhaseAccumulator < 0 || op.PhaseAccumulator >= twoPi {
			t.Fatalf("phase %v out of [0, 2π) after %d steps", op.PhaseAccumulator, i+1)
		}
	}
}

func TestPitchBendScalesPhaseAdvance(t *testing.T) {
	cfg := DefaultConfig()
	plain := Operator{Frequency: 220, PitchBend: 1.0}
	bent := Operator{Frequency: 220, PitchBend: 2.0}

	cfg.advancePhase(&plain)
	cfg.advancePhase(&bent)
	if math.Abs(bent.PhaseAccumulator-2*plain.PhaseAccumulator) > 1e-12 {
		t.Fatalf("bend 2.0 advanced %v, plain advanced %v", bent.PhaseAccumulator, plain.PhaseAccumulator)
	}
}

func TestEnvelopeAttackDecaySustain(t *testing.T) {
	cfg := DefaultConfig()
	dt := 1.0 / float64(cfg.SampleRate)
	op := Operator{
		Attack:        0.01,
		Decay:         0.05,
		Sustain:       0.6,
		Release:       0.1,
		EnvelopeState: EnvAttack,
	}

	// Attack: level rises monotonically to 1.
	prev := 0.0
	for op.EnvelopeState == EnvAttack {
		advanceEnvelope(&op, dt)
		if op.EnvelopeLevel < prev {
			t.Fatalf("attack level fell from %v to %v", prev, op.EnvelopeLevel)
		}
		prev = op.EnvelopeLevel
	}
	if op.EnvelopeState != EnvDecay {
		t.Fatalf("after attack state = %v, want decay", op.EnvelopeState)
	}
	if op.EnvelopeLevel != 1.0 {
		t.Fatalf("attack peak = %v, want 1", op.EnvelopeLevel)
	}

	// Decay: level falls monotonically to the sustain point.
	for op.EnvelopeState == EnvDecay {
		advanceEnvelope(&op, dt)
		if op.EnvelopeLevel > prev {
			t.Fatalf("decay level rose from %v to %v", prev, op.EnvelopeLevel)
		}
		prev = op.EnvelopeLevel
	}
	if op.EnvelopeState != EnvSustain || op.EnvelopeLevel != op.Sustain {
		t.Fatalf("after decay state = %v level = %v, want sustain at %v",
			op.EnvelopeState, op.EnvelopeLevel, op.Sustain)
	}

	// Sustain holds indefinitely.
	for i := 0; i < 1000; i++ {
		advanceEnvelope(&op, dt)
	}
	if op.EnvelopeState != EnvSustain || op.EnvelopeLevel != op.Sustain {
		t.Fatalf("sustain drifted: state = %v level = %v", op.EnvelopeState, op.EnvelopeLevel)
	}
}

func TestEnvelopeReleaseToOff(t *testing.T) {
	cfg := DefaultConfig()
	dt := 1.0 / float64(cfg.SampleRate)
	op := Operator{
		Sustain:       0.6,
		Release:       0.02,
		EnvelopeState: EnvRelease,
		EnvelopeLevel: 0.6,
	}

	prev := op.EnvelopeLevel
	steps := 0
	for op.EnvelopeState == EnvRelease {
		advanceEnvelope(&op, dt)
		if op.EnvelopeLevel > prev {
			t.Fatalf("release level rose from %v to %v", prev, op.EnvelopeLevel)
		}
		prev = op.EnvelopeLevel
		steps++
		if steps > cfg.SampleRate {
			t.Fatalf("release never finished")
		}
	}
	if op.EnvelopeState != EnvOff || op.EnvelopeLevel != 0 {
		t.Fatalf("after release state = %v level = %v, want off at 0", op.EnvelopeState, op.EnvelopeLevel)
	}

	// Off is absorbing.
	advanceEnvelope(&op, dt)
	if op.EnvelopeState != EnvOff || op.EnvelopeLevel != 0 {
		t.Fatalf("off state not absorbing")
	}
}
