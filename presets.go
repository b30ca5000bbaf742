package fmsynth

import (
	"fmt"

	intfm "github.com/toybasic/fmsynth-go/internal/fm"
)

// OperatorParams is one operator's slice of a preset. FrequencyRatio is
// relative to the triggered note's frequency; the envelope fields are the
// ADSR times in seconds and the sustain level.
type OperatorParams struct {
	FrequencyRatio  float64
	Amplitude       float64
	ModulationIndex float64
	Waveform        Waveform
	Attack          float64
	Decay           float64
	Sustain         float64
	Release         float64
}

// Preset is a complete patch: per-operator parameters plus the algorithm,
// output level, and effect sends.
type Preset struct {
	Name         string
	Algorithm    int
	MasterVolume float64
	Reverb       float64
	Chorus       float64
	Distortion   float64
	Operators    [NumOperators]OperatorParams
}

// ApplyPreset installs the preset: the algorithm on the given channel, the
// note-on operator template, master volume, and effect sends, all through
// the engine's public setters. Voices triggered afterwards sound with the
// new patch; voices already sounding keep the old one.
func (s *Synth) ApplyPreset(channel int, p Preset) {
	s.engine.SetAlgorithm(channel, p.Algorithm)

	var cfg intfm.PresetConfig
	for i, op := range p.Operators {
		cfg.Frequencies[i] = op.FrequencyRatio
		cfg.Amplitudes[i] = op.Amplitude
		cfg.ModulationIndices[i] = op.ModulationIndex
		cfg.Waveforms[i] = intfm.Waveform(op.Waveform)
		cfg.Attacks[i] = op.Attack
		cfg.Decays[i] = op.Decay
		cfg.Sustains[i] = op.Sustain
		cfg.Releases[i] = op.Release
	}
	s.engine.SetPresetConfig(cfg)

	s.engine.SetMasterVolume(p.MasterVolume)
	s.engine.SetReverb(p.Reverb)
	s.engine.SetChorus(p.Chorus)
	s.engine.SetDistortion(p.Distortion)
}

// Presets returns the built-in patches. The slice is freshly allocated;
// callers may modify it.
func Presets() []Preset {
	return []Preset{
		sinePiano(),
		sineBass(),
		sineLead(),
		sinePad(),
		sineBell(),
		sinePluck(),
		sineBrass(),
		sineFlute(),
	}
}

// PresetByIndex returns the built-in preset at index.
func PresetByIndex(index int) (Preset, error) {
	all := Presets()
	if index < 0 || index >= len(all) {
		return Preset{}, fmt.Errorf("fmsynth: preset index %d out of range [0, %d)", index, len(all))
	}
	return all[index], nil
}

// PresetByName returns the built-in preset with the given name.
func PresetByName(name string) (Preset, error) {
	for _, p := range Presets() {
		if p.Name == name {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("fmsynth: unknown preset %q", name)
}

// PresetNames returns the built-in preset names in index order.
func PresetNames() []string {
	all := Presets()
	names := make([]string, len(all))
	for i, p := range all {
		names[i] = p.Name
	}
	return names
}

func op(ratio, amp, mod float64, w Waveform, att, dec, sus, rel float64) OperatorParams {
	return OperatorParams{
		FrequencyRatio:  ratio,
		Amplitude:       amp,
		ModulationIndex: mod,
		Waveform:        w,
		Attack:          att,
		Decay:           dec,
		Sustain:         sus,
		Release:         rel,
	}
}

func sinePiano() Preset {
	return Preset{
		Name:         "SINE PIANO",
		Algorithm:    1, // (5+6)→4→3→2→1
		MasterVolume: 0.8,
		Reverb:       0.3,
		Operators: [NumOperators]OperatorParams{
			op(1.0, 0.9, 0.0, WaveSine, 0.001, 0.1, 0.7, 0.5),
			op(2.0, 0.6, 1.5, WaveSine, 0.001, 0.08, 0.5, 0.4),
			op(3.0, 0.4, 1.0, WaveSine, 0.001, 0.06, 0.3, 0.3),
			op(4.0, 0.3, 0.8, WaveSine, 0.001, 0.04, 0.2, 0.2),
			op(0.5, 0.2, 2.0, WaveSine, 0.001, 0.02, 0.1, 0.1),
			op(0.25, 0.1, 1.5, WaveSine, 0.001, 0.01, 0.05, 0.05),
		},
	}
}

func sineBass() Preset {
	return Preset{
		Name:         "SINE BASS",
		Algorithm:    0, // full serial chain 6→5→4→3→2→1
		MasterVolume: 0.9,
		Reverb:       0.2,
		Operators: [NumOperators]OperatorParams{
			op(1.0, 0.9, 0.0, WaveSine, 0.001, 0.05, 0.8, 0.3),
			op(2.0, 0.6, 1.2, WaveSine, 0.001, 0.04, 0.6, 0.25),
			op(3.0, 0.4, 0.8, WaveSine, 0.001, 0.03, 0.4, 0.2),
			op(4.0, 0.3, 0.5, WaveSine, 0.001, 0.02, 0.2, 0.15),
			op(5.0, 0.2, 0.3, WaveSine, 0.001, 0.01, 0.1, 0.1),
			op(6.0, 0.1, 0.2, WaveSine, 0.001, 0.005, 0.05, 0.05),
		},
	}
}

func sineLead() Preset {
	return Preset{
		Name:         "SINE LEAD",
		Algorithm:    6, // 6→5→4, 6→3, 6→2→1
		MasterVolume: 0.9,
		Reverb:       0.2,
		Chorus:       0.3,
		Distortion:   0.1,
		Operators: [NumOperators]OperatorParams{
			op(1.0, 0.9, 0.0, WaveSine, 0.001, 0.05, 0.8, 0.3),
			op(2.0, 0.6, 1.5, WaveSine, 0.001, 0.04, 0.6, 0.25),
			op(3.0, 0.4, 0.0, WaveSine, 0.001, 0.03, 0.4, 0.2),
			op(4.0, 0.3, 0.0, WaveSine, 0.001, 0.02, 0.2, 0.15),
			op(5.0, 0.2, 0.8, WaveSine, 0.001, 0.01, 0.1, 0.1),
			op(6.0, 0.1, 0.5, WaveSine, 0.001, 0.005, 0.05, 0.05),
		},
	}
}

func sinePad() Preset {
	return Preset{
		Name:         "SINE PAD",
		Algorithm:    31, // six parallel carriers
		MasterVolume: 0.7,
		Reverb:       0.6,
		Chorus:       0.4,
		Operators: [NumOperators]OperatorParams{
			op(1.0, 0.8, 0.0, WaveSine, 0.01, 0.2, 0.8, 1.0),
			op(2.0, 0.6, 0.0, WaveSine, 0.01, 0.15, 0.6, 0.8),
			op(3.0, 0.4, 0.0, WaveSine, 0.01, 0.1, 0.4, 0.6),
			op(4.0, 0.3, 0.0, WaveSine, 0.01, 0.08, 0.3, 0.4),
			op(5.0, 0.2, 0.0, WaveSine, 0.01, 0.05, 0.2, 0.3),
			op(6.0, 0.1, 0.0, WaveSine, 0.01, 0.03, 0.1, 0.2),
		},
	}
}

func sineBell() Preset {
	return Preset{
		Name:         "SINE BELL",
		Algorithm:    7, // 6→5, 6→4, 6→3, 6→2→1
		MasterVolume: 0.8,
		Reverb:       0.5,
		Chorus:       0.1,
		Operators: [NumOperators]OperatorParams{
			op(1.0, 0.9, 0.0, WaveSine, 0.001, 0.1, 0.0, 0.8),
			op(2.0, 0.6, 1.5, WaveSine, 0.001, 0.08, 0.0, 0.6),
			op(3.0, 0.4, 0.0, WaveSine, 0.001, 0.06, 0.0, 0.4),
			op(4.0, 0.3, 0.0, WaveSine, 0.001, 0.04, 0.0, 0.3),
			op(5.0, 0.2, 0.0, WaveSine, 0.001, 0.02, 0.0, 0.2),
			op(6.0, 0.1, 0.8, WaveSine, 0.001, 0.01, 0.0, 0.1),
		},
	}
}

func sinePluck() Preset {
	return Preset{
		Name:         "SINE PLUCK",
		Algorithm:    2, // 6→5→4→3→2, 6→1
		MasterVolume: 0.8,
		Reverb:       0.2,
		Operators: [NumOperators]OperatorParams{
			op(1.0, 0.9, 0.0, WaveSine, 0.001, 0.01, 0.0, 0.2),
			op(2.0, 0.6, 1.0, WaveSine, 0.001, 0.01, 0.0, 0.15),
			op(3.0, 0.4, 0.8, WaveSine, 0.001, 0.01, 0.0, 0.1),
			op(4.0, 0.3, 0.6, WaveSine, 0.001, 0.01, 0.0, 0.08),
			op(5.0, 0.2, 0.4, WaveSine, 0.001, 0.01, 0.0, 0.05),
			op(6.0, 0.1, 0.3, WaveSine, 0.001, 0.01, 0.0, 0.03),
		},
	}
}

func sineBrass() Preset {
	return Preset{
		Name:         "SINE BRASS",
		Algorithm:    3, // 6→5→4→3, 6→2→1
		MasterVolume: 0.8,
		Reverb:       0.4,
		Chorus:       0.1,
		Operators: [NumOperators]OperatorParams{
			op(1.0, 0.9, 0.0, WaveSine, 0.01, 0.1, 0.7, 0.4),
			op(2.0, 0.6, 1.5, WaveSine, 0.01, 0.08, 0.5, 0.3),
			op(3.0, 0.4, 0.0, WaveSine, 0.01, 0.06, 0.3, 0.2),
			op(4.0, 0.3, 0.8, WaveSine, 0.01, 0.04, 0.2, 0.15),
			op(5.0, 0.2, 0.5, WaveSine, 0.01, 0.02, 0.1, 0.1),
			op(6.0, 0.1, 0.3, WaveSine, 0.01, 0.01, 0.05, 0.05),
		},
	}
}

func sineFlute() Preset {
	return Preset{
		Name:         "SINE FLUTE",
		Algorithm:    4, // 6→5→4, 6→3→2→1
		MasterVolume: 0.7,
		Reverb:       0.4,
		Chorus:       0.1,
		Operators: [NumOperators]OperatorParams{
			op(1.0, 0.8, 0.0, WaveSine, 0.01, 0.05, 0.8, 0.2),
			op(2.0, 0.6, 0.8, WaveSine, 0.01, 0.04, 0.6, 0.15),
			op(3.0, 0.4, 0.5, WaveSine, 0.01, 0.03, 0.4, 0.1),
			op(4.0, 0.3, 0.0, WaveSine, 0.01, 0.02, 0.2, 0.08),
			op(5.0, 0.2, 0.3, WaveSine, 0.01, 0.01, 0.1, 0.05),
			op(6.0, 0.1, 0.2, WaveSine, 0.01, 0.005, 0.05, 0.03),
		},
	}
}
