package fmsynth

import "testing"

func TestSynthRenderLifecycle(t *testing.T) {
	s := New()

	s.NoteOn(69, 1.0)
	if !s.HasActiveVoices() {
		t.Fatalf("no active voice after note-on")
	}
	buf := s.RenderFrames(0.05)
	if len(buf) != int(0.05*44100)*2 {
		t.Fatalf("rendered %d samples", len(buf))
	}
	nonZero := false
	for _, v := range buf {
		if v != 0 {
			nonZero = true
			break
		}
	}
	if !nonZero {
		t.Fatalf("sounding note rendered silence")
	}

	s.NoteOff(69)
	s.RenderFrames(0.6)
	if s.HasActiveVoices() {
		t.Fatalf("voice survived past the release tail")
	}
}

func TestSynthOptions(t *testing.T) {
	s := New(WithSampleRate(48000))
	if got := s.SampleRate(); got != 48000 {
		t.Fatalf("sample rate = %d, want 48000", got)
	}

	// Out-of-range rates clamp rather than fail.
	s = New(WithSampleRate(1))
	if got := s.SampleRate(); got != 8000 {
		t.Fatalf("sample rate = %d, want clamp to 8000", got)
	}
}

func TestSynthSampleRateLockedAfterStart(t *testing.T) {
	s := New()
	if err := s.SetSampleRate(22050); err != nil {
		t.Fatalf("SetSampleRate before start: %v", err)
	}
	if got := s.SampleRate(); got != 22050 {
		t.Fatalf("sample rate = %d, want 22050", got)
	}
}

func TestSynthControlSurface(t *testing.T) {
	s := New()

	s.SetAlgorithm(0, 5)
	if got := s.Algorithm(0); got != 5 {
		t.Fatalf("algorithm = %d, want 5", got)
	}

	s.SetMasterVolume(2.0)
	if got := s.MasterVolume(); got != 1.0 {
		t.Fatalf("master volume = %v, want clamp to 1", got)
	}

	s.SetReverb(0.4)
	if got := s.ReverbAmount(); got != 0.4 {
		t.Fatalf("reverb = %v, want 0.4", got)
	}

	s.SetChannelActive(3, true)
	if !s.IsChannelActive(3) {
		t.Fatalf("channel 3 not active")
	}

	// Out-of-range indices are silently dropped.
	s.SetAlgorithm(NumChannels, 0)
	s.SetOperatorFrequency(NumVoices, 0, 440)
	s.SetEnvelope(0, NumOperators, 1, 1, 1, 1)
}

func TestSynthPolyphony(t *testing.T) {
	s := New()
	for n := 0; n < NumVoices; n++ {
		s.NoteOn(40+n, 1.0)
	}
	if got := s.ActiveVoiceCount(); got != NumVoices {
		t.Fatalf("active voices = %d, want %d", got, NumVoices)
	}
	s.NoteOn(100, 1.0)
	if got := s.ActiveVoiceCount(); got != NumVoices {
		t.Fatalf("voice stealing grew the pool to %d", got)
	}
	s.AllNotesOff()
	s.RenderFrames(0.6)
	if got := s.ActiveVoiceCount(); got != 0 {
		t.Fatalf("%d voices survived all-notes-off", got)
	}
}
