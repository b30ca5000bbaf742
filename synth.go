// Package fmsynth is a real-time 6-operator FM synthesizer modeled on the
// classic DX7 topology: 16 voices, 8 channels, 32 routing algorithms, and a
// 14-bit stereo output. The package wraps the synthesis core with a
// generation worker and a device player for live playback, a beep streamer
// for mixer integration, and offline rendering to WAV.
package fmsynth

import (
	"errors"
	"sync"

	intaudio "github.com/toybasic/fmsynth-go/internal/audio"
	intfm "github.com/toybasic/fmsynth-go/internal/fm"
)

// Waveform selects an operator's oscillator shape.
type Waveform int

const (
	WaveSine Waveform = iota
	WaveSawtooth
	WaveSquare
	WaveTriangle
)

// NumVoices, NumOperators, NumChannels, and NumAlgorithms mirror the
// modeled hardware and bound the index arguments of the Set* methods.
const (
	NumVoices     = intfm.NumVoices
	NumOperators  = intfm.NumOperators
	NumChannels   = intfm.NumChannels
	NumAlgorithms = intfm.NumAlgorithms
)

type Option func(*synthConfig)

type synthConfig struct {
	sampleRate     int
	streamCapacity int
}

func defaultSynthConfig() synthConfig {
	return synthConfig{
		sampleRate: 44100,
		// Half a second of stereo headroom between generation and playback.
		streamCapacity: 44100,
	}
}

// WithSampleRate sets the output rate in Hz. Rates outside 8000 to 192000
// are clamped by the engine.
func WithSampleRate(hz int) Option {
	return func(cfg *synthConfig) {
		cfg.sampleRate = hz
	}
}

// WithStreamCapacity bounds the sample FIFO between the generation worker
// and the player, in int16 samples. When playback stalls past this bound,
// the oldest samples are dropped rather than growing the latency.
func WithStreamCapacity(samples int) Option {
	return func(cfg *synthConfig) {
		cfg.streamCapacity = samples
	}
}

// Synth is the public face of the synthesizer: the engine, a generation
// worker, and an optional device player. All methods are safe for
// concurrent use.
type Synth struct {
	engine *intfm.Engine
	stream *intaudio.BufferedStream
	worker *intaudio.Worker

	mu     sync.Mutex
	player *intaudio.Player
}

// New builds a stopped synthesizer. Call Start to begin audible playback,
// or use GenerateFrames, Streamer, or RenderFrames to pull samples
// directly without a device.
func New(opts ...Option) *Synth {
	cfg := defaultSynthConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	engineCfg := intfm.DefaultConfig()
	engineCfg.SampleRate = cfg.sampleRate

	engine := intfm.NewEngine(engineCfg)
	stream := intaudio.NewBufferedStream(cfg.streamCapacity)
	return &Synth{
		engine: engine,
		stream: stream,
		worker: intaudio.NewWorker(engine, stream),
	}
}

// Start launches the generation worker and opens the device player.
// Starting a running synth is a no-op.
func (s *Synth) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.player == nil {
		p, err := intaudio.NewPlayer(s.engine.SampleRate(), s.stream)
		if err != nil {
			return err
		}
		s.player = p
	}
	s.worker.Start()
	s.player.Play()
	return nil
}

// Stop halts generation and pauses the device. The synth can be started
// again; voice and channel state survives a stop.
func (s *Synth) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.worker.Stop()
	if s.player != nil {
		s.player.Pause()
	}
}

// Close stops the synth and releases the device. The synth is unusable for
// live playback afterwards.
func (s *Synth) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.worker.Stop()
	s.stream.Close()
	if s.player == nil {
		return nil
	}
	err := s.player.Stop()
	s.player = nil
	return err
}

// Running reports whether the generation worker is live.
func (s *Synth) Running() bool { return s.worker.Running() }

// NoteOn triggers a MIDI-style note with velocity in [0,1]. When all 16
// voices are busy, voice 0 is stolen.
func (s *Synth) NoteOn(note int, velocity float64) { s.engine.NoteOn(note, velocity) }

// NoteOff releases every voice holding note.
func (s *Synth) NoteOff(note int) { s.engine.NoteOff(note) }

// AllNotesOff forces every sounding voice into release.
func (s *Synth) AllNotesOff() { s.engine.AllNotesOff() }

// SetAlgorithm selects one of the 32 modulation topologies for a channel.
func (s *Synth) SetAlgorithm(channel, algorithm int) { s.engine.SetAlgorithm(channel, algorithm) }

// Algorithm returns a channel's topology index, or -1 for a bad channel.
func (s *Synth) Algorithm(channel int) int { return s.engine.Algorithm(channel) }

func (s *Synth) SetChannelActive(channel int, active bool) {
	s.engine.SetChannelActive(channel, active)
}

func (s *Synth) IsChannelActive(channel int) bool { return s.engine.IsChannelActive(channel) }

func (s *Synth) SetOperatorFrequency(voice, op int, hz float64) {
	s.engine.SetOperatorFrequency(voice, op, hz)
}

func (s *Synth) SetOperatorAmplitude(voice, op int, amplitude float64) {
	s.engine.SetOperatorAmplitude(voice, op, amplitude)
}

func (s *Synth) SetOperatorModulationIndex(voice, op int, index float64) {
	s.engine.SetOperatorModulationIndex(voice, op, index)
}

func (s *Synth) SetOperatorWaveform(voice, op int, w Waveform) {
	s.engine.SetOperatorWaveform(voice, op, intfm.Waveform(w))
}

// SetEnvelope sets one operator's ADSR. Times are seconds, floored at 1 ms;
// sustain is a level in [0,1].
func (s *Synth) SetEnvelope(voice, op int, attack, decay, sustain, release float64) {
	s.engine.SetEnvelope(voice, op, attack, decay, sustain, release)
}

// SetMasterVolume sets the output volume in [0,1]. Lock-free; audible on
// the next generated sample.
func (s *Synth) SetMasterVolume(volume float64) { s.engine.SetMasterVolume(volume) }

func (s *Synth) MasterVolume() float64 { return s.engine.MasterVolume() }

// SetPitchBend sets a channel's frequency multiplier (1.0 is no bend) and
// applies it to sounding voices immediately.
func (s *Synth) SetPitchBend(channel int, bend float64) { s.engine.SetPitchBend(channel, bend) }

func (s *Synth) SetModulationWheel(channel int, value float64) {
	s.engine.SetModulationWheel(channel, value)
}

func (s *Synth) SetReverb(amount float64)     { s.engine.SetReverb(amount) }
func (s *Synth) SetChorus(amount float64)     { s.engine.SetChorus(amount) }
func (s *Synth) SetDistortion(amount float64) { s.engine.SetDistortion(amount) }

func (s *Synth) ReverbAmount() float64     { return s.engine.ReverbAmount() }
func (s *Synth) ChorusAmount() float64     { return s.engine.ChorusAmount() }
func (s *Synth) DistortionAmount() float64 { return s.engine.DistortionAmount() }

// SetSampleRate changes the output rate. Only meaningful before Start: the
// device context keeps the rate it was opened with.
func (s *Synth) SetSampleRate(hz int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.player != nil {
		return errors.New("fmsynth: sample rate is fixed once the device is open")
	}
	s.engine.SetSampleRate(hz)
	return nil
}

func (s *Synth) SampleRate() int { return s.engine.SampleRate() }

func (s *Synth) HasActiveVoices() bool { return s.engine.HasActiveVoices() }

func (s *Synth) ActiveVoiceCount() int { return s.engine.ActiveVoiceCount() }

// GenerateFrames fills dst with interleaved stereo int16 frames directly
// from the engine, bypassing the worker and device. Do not mix with a
// running worker; both pull from the same engine clock.
func (s *Synth) GenerateFrames(dst []int16) { s.engine.GenerateFrames(dst) }
