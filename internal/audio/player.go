package audio

import (
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	ebitaudio "github.com/hajimehoshi/ebiten/v2/audio"
)

// StreamReader adapts a SampleStream to the io.Reader the audio backend
// consumes: interleaved stereo, 16-bit little-endian. Reads block until
// samples arrive, which is what the backend's pull goroutine expects.
type StreamReader struct {
	mu     sync.Mutex
	stream SampleStream
	buf    []int16
}

func NewStreamReader(stream SampleStream) *StreamReader {
	return &StreamReader{stream: stream}
}

func (r *StreamReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	samples := len(p) / 2
	if samples == 0 {
		return 0, nil
	}
	if cap(r.buf) < samples {
		r.buf = make([]int16, samples)
	}
	r.buf = r.buf[:samples]

	n := r.stream.ReadSamples(r.buf)
	if n == 0 {
		// Closed and drained. Keep the device fed with silence rather
		// than returning EOF, so a stopped synth can restart cleanly.
		for i := 0; i < samples*2; i++ {
			p[i] = 0
		}
		return samples * 2, nil
	}
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint16(p[i*2:], uint16(r.buf[i]))
	}
	return n * 2, nil
}

func (r *StreamReader) Close() error { return nil }

// Player couples a StreamReader to the shared platform audio context.
type Player struct {
	player *ebitaudio.Player
	reader *StreamReader
}

var (
	audioContextOnce sync.Once
	audioContext     *ebitaudio.Context
	audioSampleRate  int
)

// sharedAudioContext returns the process-wide audio context. The backend
// allows exactly one context per process, so a second sample rate is an
// error rather than a silent resample.
func sharedAudioContext(sampleRate int) (*ebitaudio.Context, error) {
	audioContextOnce.Do(func() {
		audioSampleRate = sampleRate
		audioContext = ebitaudio.NewContext(sampleRate)
	})
	if audioSampleRate != sampleRate {
		return nil, fmt.Errorf("audio context already initialized at %d Hz (requested %d Hz)", audioSampleRate, sampleRate)
	}
	return audioContext, nil
}

// NewPlayer opens a device player that drains stream at sampleRate.
func NewPlayer(sampleRate int, stream SampleStream) (*Player, error) {
	ctx, err := sharedAudioContext(sampleRate)
	if err != nil {
		return nil, err
	}
	reader := NewStreamReader(stream)
	pl, err := ctx.NewPlayer(reader)
	if err != nil {
		return nil, err
	}
	return &Player{player: pl, reader: reader}, nil
}

func (p *Player) Play()  { p.player.Play() }
func (p *Player) Pause() { p.player.Pause() }

func (p *Player) IsPlaying() bool { return p.player.IsPlaying() }

// Position returns the playback position as heard by the listener.
func (p *Player) Position() time.Duration { return p.player.Position() }

func (p *Player) Stop() error {
	p.player.Pause()
	if err := p.player.Close(); err != nil {
		return err
	}
	return p.reader.Close()
}
