package fm

import "math"

// Waveform selects the oscillator shape of one operator.
type Waveform int

const (
	Sine Waveform = iota
	Sawtooth
	Square
	Triangle
)

// EnvelopeState is the amplitude envelope stage of one operator.
type EnvelopeState int

const (
	EnvOff EnvelopeState = iota
	EnvAttack
	EnvDecay
	EnvSustain
	EnvRelease
)

// Operator is one oscillator + envelope unit. Six of these compose a voice.
// Envelope level is owned by advanceEnvelope and derived from state and time;
// nothing else writes it. The phase accumulator is owned by advancePhase and
// always stays in [0, 2π).
type Operator struct {
	Frequency       float64
	Amplitude       float64
	ModulationIndex float64
	Waveform        Waveform

	Attack  float64
	Decay   float64
	Sustain float64
	Release float64

	EnvelopeState EnvelopeState
	EnvelopeLevel float64
	EnvelopeTime  float64

	PhaseAccumulator float64
	PhaseIncrement   float64

	PitchBend       float64
	ModulationWheel float64
	Velocity        float64
}

// quantize rounds v to the engine's fixed-point grid. Applying it to every
// frequency and modulation value keeps the phase math reproducible across
// platforms regardless of float non-associativity.
func (c *Config) quantize(v float64) float64 {
	return math.Round(v*c.FreqPrecisionScale) * c.FreqPrecisionInv
}

// Output computes the operator's sample for the current phase and the given
// modulation input. The modulation sum is quantized once, here, not per
// contributor. Pure: phase advances separately, so the same state can be
// read several times within one tick.
func (c *Config) Output(op *Operator, modulation float64) float64 {
	phase := op.PhaseAccumulator + c.quantize(modulation)*op.ModulationIndex

	var out float64
	switch op.Waveform {
	case Sine:
		out = math.Sin(phase)
	case Sawtooth:
		out = 2.0*(phase/twoPi) - 1.0
	case Square:
		if phase < math.Pi {
			out = 1.0
		} else {
			out = -1.0
		}
	case Triangle:
		if phase < math.Pi {
			out = 2.0*(phase/math.Pi) - 1.0
		} else {
			out = 3.0 - 2.0*(phase/math.Pi)
		}
	}
	return out * op.Amplitude * op.EnvelopeLevel * op.Velocity
}

// advanceEnvelope moves the envelope one sample forward. Attack ramps to 1,
// decay falls to the sustain level, sustain holds until a release trigger,
// release falls from the sustain level to 0 and parks the operator at off.
func advanceEnvelope(op *Operator, timeStep float64) {
	op.EnvelopeTime += timeStep

	switch op.EnvelopeState {
	case EnvAttack:
		op.EnvelopeLevel = op.EnvelopeTime / op.Attack
		if op.EnvelopeLevel >= 1.0 {
			op.EnvelopeLevel = 1.0
			op.EnvelopeState = EnvDecay
			op.EnvelopeTime = 0
		}
	case EnvDecay:
		op.EnvelopeLevel = 1.0 - (op.EnvelopeTime/op.Decay)*(1.0-op.Sustain)
		if op.EnvelopeLevel <= op.Sustain {
			op.EnvelopeLevel = op.Sustain
			op.EnvelopeState = EnvSustain
		}
	case EnvSustain:
		op.EnvelopeLevel = op.Sustain
	case EnvRelease:
		op.EnvelopeLevel = op.Sustain * (1.0 - op.EnvelopeTime/op.Release)
		if op.EnvelopeLevel <= 0 || op.EnvelopeTime >= op.Release {
			op.EnvelopeLevel = 0
			op.EnvelopeState = EnvOff
		}
	case EnvOff:
		op.EnvelopeLevel = 0
	}
}

// phaseIncrement computes radians per sample for a frequency, quantized to
// the precision grid before the division so two engines at the same rate
// always agree on the increment.
func (c *Config) phaseIncrement(frequency float64) float64 {
	return twoPi * c.quantize(frequency) / float64(c.SampleRate)
}

// advancePhase steps the accumulator by the operator's increment scaled by
// its pitch bend, wrapping into [0, 2π). A single conditional subtraction is
// enough: increments never reach 2π at supported rates and frequencies.
func (c *Config) advancePhase(op *Operator) {
	op.PhaseAccumulator += c.phaseIncrement(op.Frequency) * op.PitchBend
	if op.PhaseAccumulator >= twoPi {
		op.PhaseAccumulator -= twoPi
	}
}

// NoteFrequency converts a MIDI-style note number to Hz, quantized to the
// precision grid.
func (c *Config) NoteFrequency(note int) float64 {
	f := c.A4Frequency * math.Pow(2.0, float64(note-c.A4Note)/float64(c.NotesPerOctave))
	return c.quantize(f)
}
