package fm

import "math"

const (
	twoPi  = math.Pi * 2
	halfPi = math.Pi / 2

	// Pool sizes. These mirror the modeled hardware and are baked into the
	// fixed arrays below, so they are constants rather than Config fields.
	NumVoices     = 16
	NumOperators  = 6
	NumChannels   = 8
	NumAlgorithms = 32
)

// Config collects every tunable constant of the engine. A zero Config is not
// usable; start from DefaultConfig and override fields before passing it to
// NewEngine. The engine copies the struct, so a Config cannot be mutated from
// outside once the engine is built.
type Config struct {
	SampleRate    int
	MinSampleRate int
	MaxSampleRate int

	// Fixed-point quantization applied to frequency and modulation math.
	// FreqPrecisionScale is 2^FreqPrecisionBits; FreqPrecisionInv its
	// reciprocal. Quantizing through this grid keeps output bit-identical
	// across platforms.
	FreqPrecisionBits  int
	FreqPrecisionScale float64
	FreqPrecisionInv   float64

	// Output range. Samples are scaled by AudioScale and clamped to
	// [AudioMinValue, AudioMaxValue], a 14-bit range carried in int16.
	AudioBits     int
	AudioMaxValue int
	AudioMinValue int
	AudioScale    float64

	// Note-to-frequency mapping.
	A4Note         int
	A4Frequency    float64
	NotesPerOctave int

	// Envelope timing floor and ceiling in seconds.
	MinEnvelopeTime float64
	MaxEnvelopeTime float64

	// Effect constants.
	DistortionGain  float64
	ChorusFrequency float64
	ChorusDepth     float64
	ReverbGain      float64

	// Stereo spread: even voices pan left, odd voices right.
	PanLeft  float64
	PanRight float64
	PanScale float64
}

// DefaultConfig returns the engine defaults: 44.1 kHz, 22-bit frequency
// quantization, 14-bit output, A4 = MIDI 69 = 440 Hz.
func DefaultConfig() Config {
	return Config{
		SampleRate:    44100,
		MinSampleRate: 8000,
		MaxSampleRate: 192000,

		FreqPrecisionBits:  22,
		FreqPrecisionScale: 4194304.0, // 2^22
		FreqPrecisionInv:   1.0 / 4194304.0,

		AudioBits:     14,
		AudioMaxValue: 8191,
		AudioMinValue: -8192,
		AudioScale:    8191.0,

		A4Note:         69,
		A4Frequency:    440.0,
		NotesPerOctave: 12,

		MinEnvelopeTime: 0.001,
		MaxEnvelopeTime: 10.0,

		DistortionGain:  10.0,
		ChorusFrequency: 0.5,
		ChorusDepth:     0.1,
		ReverbGain:      0.3,

		PanLeft:  -0.5,
		PanRight: 0.5,
		PanScale: 0.5,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
