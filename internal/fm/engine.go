// Package fm implements a 6-operator FM synthesis engine in the style of
// the classic DX7 hardware: 16 voices, 8 channels, 32 modulation-routing
// algorithms, and a 14-bit stereo output stage. The per-sample pipeline is
// allocation-free and deterministic: identical control sequences at the
// same sample rate produce bit-identical output.
package fm

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/toybasic/fmsynth-go/internal/effects"
)

// PresetConfig is the operator template applied to a voice at note-on.
// Frequencies are ratios relative to the note frequency. It configures
// voices triggered after it is set; already-sounding voices are unaffected.
type PresetConfig struct {
	Frequencies       [NumOperators]float64
	Amplitudes        [NumOperators]float64
	ModulationIndices [NumOperators]float64
	Waveforms         [NumOperators]Waveform
	Attacks           [NumOperators]float64
	Decays            [NumOperators]float64
	Sustains          [NumOperators]float64
	Releases          [NumOperators]float64
}

// DefaultPreset is a plain sine patch: unity ratio, no modulation, short
// percussive envelope on every operator.
func DefaultPreset() PresetConfig {
	var p PresetConfig
	for i := 0; i < NumOperators; i++ {
		p.Frequencies[i] = 1.0
		p.Amplitudes[i] = 0.5
		p.ModulationIndices[i] = 0.0
		p.Waveforms[i] = Sine
		p.Attacks[i] = 0.01
		p.Decays[i] = 0.1
		p.Sustains[i] = 0.7
		p.Releases[i] = 0.3
	}
	return p
}

// Engine is the synthesizer core. All control-plane methods may be called
// from any goroutine; the mutex guarantees a voice is never observed
// half-initialized by the sample loop. Master volume is additionally
// readable without the lock through atomic float bits.
type Engine struct {
	mu       sync.Mutex
	cfg      Config
	timeStep float64

	voices   [NumVoices]Voice
	channels [NumChannels]Channel
	preset   PresetConfig

	masterVolume uint64 // float64 bits, accessed atomically

	fx *effects.Chain
}

// NewEngine builds an engine from cfg. The sample rate is clamped into the
// configured range. All voices start free; channel state starts neutral
// (algorithm 0, unity pitch bend and volume).
func NewEngine(cfg Config) *Engine {
	if cfg.SampleRate < cfg.MinSampleRate {
		cfg.SampleRate = cfg.MinSampleRate
	}
	if cfg.SampleRate > cfg.MaxSampleRate {
		cfg.SampleRate = cfg.MaxSampleRate
	}
	e := &Engine{
		cfg:          cfg,
		timeStep:     1.0 / float64(cfg.SampleRate),
		preset:       DefaultPreset(),
		masterVolume: math.Float64bits(1.0),
	}
	for i := range e.voices {
		e.voices[i].Note = -1
	}
	for i := range e.channels {
		e.channels[i].MasterVolume = 1.0
		e.channels[i].PitchBend = 1.0
	}
	e.fx = effects.NewChain(cfg.DistortionGain, cfg.ChorusFrequency, cfg.ChorusDepth, cfg.ReverbGain, e.timeStep)
	return e
}

// Config returns a copy of the engine's configuration.
func (e *Engine) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// SampleRate returns the current sample rate in Hz.
func (e *Engine) SampleRate() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.SampleRate
}

// NoteOn triggers a note. velocity is clamped to [0,1]. The first free
// voice is used; when the pool is exhausted, voice 0 is stolen
// unconditionally. That produces an audible discontinuity and is the
// documented allocation policy, not a defect.
func (e *Engine) NoteOn(note int, velocity float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	voice := e.findFreeVoice()
	if voice == -1 {
		voice = 0
		e.releaseVoice(0)
	}

	v := &e.voices[voice]
	v.Active = true
	v.Note = note
	v.Velocity = clamp(velocity, 0, 1)
	v.Channel = 0

	base := e.cfg.NoteFrequency(note)
	ch := &e.channels[v.Channel]
	for i := range v.Operators {
		op := &v.Operators[i]
		op.Frequency = base * e.preset.Frequencies[i]
		op.Amplitude = e.preset.Amplitudes[i]
		op.ModulationIndex = e.preset.ModulationIndices[i]
		op.Waveform = e.preset.Waveforms[i]
		op.Attack = e.preset.Attacks[i]
		op.Decay = e.preset.Decays[i]
		op.Sustain = e.preset.Sustains[i]
		op.Release = e.preset.Releases[i]

		op.PhaseAccumulator = 0
		op.PhaseIncrement = e.cfg.phaseIncrement(op.Frequency)
		op.EnvelopeState = EnvAttack
		op.EnvelopeTime = 0
		op.EnvelopeLevel = 0

		op.PitchBend = ch.PitchBend
		op.ModulationWheel = ch.ModulationWheel
		op.Velocity = v.Velocity
	}
}

// NoteOff releases every voice currently holding note. Retriggered notes
// may occupy several voices; all of them enter release. Releasing a note
// that is not sounding is a no-op.
func (e *Engine) NoteOff(note int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.voices {
		v := &e.voices[i]
		if v.Active && v.Note == note {
			releaseOperators(v)
		}
	}
}

// AllNotesOff forces every active voice into release.
func (e *Engine) AllNotesOff() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.voices {
		if e.voices[i].Active {
			releaseOperators(&e.voices[i])
		}
	}
}

// releaseOperators forces all six operators into the release stage. This
// interrupts attack and decay as well, which keeps note-off responsive.
func releaseOperators(v *Voice) {
	for i := range v.Operators {
		v.Operators[i].EnvelopeState = EnvRelease
		v.Operators[i].EnvelopeTime = 0
	}
}

func (e *Engine) SetChannelActive(channel int, active bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if channel >= 0 && channel < NumChannels {
		e.channels[channel].Active = active
	}
}

func (e *Engine) IsChannelActive(channel int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return channel >= 0 && channel < NumChannels && e.channels[channel].Active
}

// SetOperatorFrequency sets an operator's absolute frequency in Hz and
// recomputes its phase increment. Invalid indices are dropped, as with all
// control-plane setters: the real-time path never raises.
func (e *Engine) SetOperatorFrequency(voice, opIndex int, frequency float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !validVoiceOp(voice, opIndex) {
		return
	}
	op := &e.voices[voice].Operators[opIndex]
	op.Frequency = frequency
	op.PhaseIncrement = e.cfg.phaseIncrement(frequency)
}

func (e *Engine) SetOperatorAmplitude(voice, opIndex int, amplitude float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !validVoiceOp(voice, opIndex) {
		return
	}
	e.voices[voice].Operators[opIndex].Amplitude = clamp(amplitude, 0, 1)
}

func (e *Engine) SetOperatorModulationIndex(voice, opIndex int, index float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !validVoiceOp(voice, opIndex) {
		return
	}
	e.voices[voice].Operators[opIndex].ModulationIndex = index
}

func (e *Engine) SetOperatorWaveform(voice, opIndex int, waveform Waveform) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !validVoiceOp(voice, opIndex) {
		return
	}
	e.voices[voice].Operators[opIndex].Waveform = waveform
}

// SetAlgorithm selects the modulation topology for a channel.
func (e *Engine) SetAlgorithm(channel, algorithm int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if channel >= 0 && channel < NumChannels && algorithm >= 0 && algorithm < NumAlgorithms {
		e.channels[channel].Algorithm = algorithm
	}
}

// Algorithm returns a channel's current algorithm index, or -1 for an
// invalid channel.
func (e *Engine) Algorithm(channel int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if channel < 0 || channel >= NumChannels {
		return -1
	}
	return e.channels[channel].Algorithm
}

// SetEnvelope sets one operator's ADSR parameters. Attack, decay, and
// release are floored at the configured minimum; sustain is clamped to
// [0,1].
func (e *Engine) SetEnvelope(voice, opIndex int, attack, decay, sustain, release float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !validVoiceOp(voice, opIndex) {
		return
	}
	op := &e.voices[voice].Operators[opIndex]
	op.Attack = math.Max(e.cfg.MinEnvelopeTime, attack)
	op.Decay = math.Max(e.cfg.MinEnvelopeTime, decay)
	op.Sustain = clamp(sustain, 0, 1)
	op.Release = math.Max(e.cfg.MinEnvelopeTime, release)
}

// SetMasterVolume sets the output volume, clamped to [0,1].
func (e *Engine) SetMasterVolume(volume float64) {
	atomic.StoreUint64(&e.masterVolume, math.Float64bits(clamp(volume, 0, 1)))
}

// MasterVolume returns the effective master volume.
func (e *Engine) MasterVolume() float64 {
	return math.Float64frombits(atomic.LoadUint64(&e.masterVolume))
}

// SetSampleRate changes the output rate, clamped into the configured
// range, and recomputes every operator's phase increment.
func (e *Engine) SetSampleRate(sampleRate int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if sampleRate < e.cfg.MinSampleRate {
		sampleRate = e.cfg.MinSampleRate
	}
	if sampleRate > e.cfg.MaxSampleRate {
		sampleRate = e.cfg.MaxSampleRate
	}
	e.cfg.SampleRate = sampleRate
	e.timeStep = 1.0 / float64(sampleRate)
	e.fx.SetTimeStep(e.timeStep)
	for i := range e.voices {
		for j := range e.voices[i].Operators {
			op := &e.voices[i].Operators[j]
			op.PhaseIncrement = e.cfg.phaseIncrement(op.Frequency)
		}
	}
}

// SetPitchBend sets a channel's pitch bend multiplier and pushes it to
// every voice currently on that channel. New voices pick it up at note-on.
func (e *Engine) SetPitchBend(channel int, bend float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if channel < 0 || channel >= NumChannels {
		return
	}
	e.channels[channel].PitchBend = bend
	for i := range e.voices {
		if e.voices[i].Channel == channel {
			for j := range e.voices[i].Operators {
				e.voices[i].Operators[j].PitchBend = bend
			}
		}
	}
}

// SetModulationWheel sets a channel's modulation wheel value and pushes it
// to every voice currently on that channel.
func (e *Engine) SetModulationWheel(channel int, mod float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if channel < 0 || channel >= NumChannels {
		return
	}
	e.channels[channel].ModulationWheel = mod
	for i := range e.voices {
		if e.voices[i].Channel == channel {
			for j := range e.voices[i].Operators {
				e.voices[i].Operators[j].ModulationWheel = mod
			}
		}
	}
}

func (e *Engine) SetReverb(amount float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fx.SetReverb(amount)
}

func (e *Engine) SetChorus(amount float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fx.SetChorus(amount)
}

func (e *Engine) SetDistortion(amount float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fx.SetDistortion(amount)
}

func (e *Engine) ReverbAmount() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fx.ReverbAmount()
}

func (e *Engine) ChorusAmount() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fx.ChorusAmount()
}

func (e *Engine) DistortionAmount() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fx.DistortionAmount()
}

// SetPresetConfig stores the operator template applied to subsequent
// note-ons. Values are sanitized on store: amplitudes and sustain levels
// clamped to [0,1], envelope times floored, so malformed preset data can
// never destabilize the sample loop.
func (e *Engine) SetPresetConfig(p PresetConfig) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := 0; i < NumOperators; i++ {
		p.Amplitudes[i] = clamp(p.Amplitudes[i], 0, 1)
		p.Sustains[i] = clamp(p.Sustains[i], 0, 1)
		p.Attacks[i] = math.Max(e.cfg.MinEnvelopeTime, p.Attacks[i])
		p.Decays[i] = math.Max(e.cfg.MinEnvelopeTime, p.Decays[i])
		p.Releases[i] = math.Max(e.cfg.MinEnvelopeTime, p.Releases[i])
	}
	e.preset = p
}

// Preset returns the current note-on template.
func (e *Engine) Preset() PresetConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.preset
}

// HasActiveVoices reports whether any voice is sounding or releasing.
func (e *Engine) HasActiveVoices() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.voices {
		if e.voices[i].Active {
			return true
		}
	}
	return false
}

// ActiveVoiceCount returns the number of active voices.
func (e *Engine) ActiveVoiceCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for i := range e.voices {
		if e.voices[i].Active {
			n++
		}
	}
	return n
}

// GenerateFrame produces one stereo sample pair in the 14-bit output range.
func (e *Engine) GenerateFrame() (left, right int16) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generateFrame()
}

// GenerateFrames fills dst with interleaved stereo frames. The lock is
// taken per frame, so control-plane calls interleave with generation at
// sample granularity.
func (e *Engine) GenerateFrames(dst []int16) {
	for i := 0; i+1 < len(dst); i += 2 {
		dst[i], dst[i+1] = e.GenerateFrame()
	}
}

// generateFrame runs the per-sample pipeline: advance envelopes, reclaim
// finished voices, route through the channel's algorithm, apply effects,
// advance phases, pan, and convert to the 14-bit range. Phase advance
// happens after algorithm processing so the sample reflects the phase at
// the start of the tick. Callers hold e.mu.
func (e *Engine) generateFrame() (int16, int16) {
	var left, right float64

	for i := range e.voices {
		v := &e.voices[i]
		if !v.Active {
			continue
		}

		for j := range v.Operators {
			advanceEnvelope(&v.Operators[j], e.timeStep)
		}

		allOff := true
		for j := range v.Operators {
			if v.Operators[j].EnvelopeState != EnvOff {
				allOff = false
				break
			}
		}
		if allOff {
			e.releaseVoice(i)
			continue
		}

		sample := e.processAlgorithm(e.channels[v.Channel].Algorithm, v)
		sample = e.fx.Process(sample)

		for j := range v.Operators {
			e.cfg.advancePhase(&v.Operators[j])
		}

		pan := e.cfg.PanLeft
		if i%2 != 0 {
			pan = e.cfg.PanRight
		}
		left += sample * (e.cfg.PanScale - pan)
		right += sample * (e.cfg.PanScale + pan)
	}

	volume := e.MasterVolume()
	lo, hi := float64(e.cfg.AudioMinValue), float64(e.cfg.AudioMaxValue)
	l := int16(clamp(left*volume*e.cfg.AudioScale, lo, hi))
	r := int16(clamp(right*volume*e.cfg.AudioScale, lo, hi))
	return l, r
}

func validVoiceOp(voice, opIndex int) bool {
	return voice >= 0 && voice < NumVoices && opIndex >= 0 && opIndex < NumOperators
}
