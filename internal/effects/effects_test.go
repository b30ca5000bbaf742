package effects

import (
	"math"
	"testing"
)

const testTimeStep = 1.0 / 44100.0

func newTestChain() *Chain {
	return NewChain(10.0, 0.5, 0.1, 0.3, testTimeStep)
}

func TestZeroAmountsPassThrough(t *testing.T) {
	c := newTestChain()
	for _, s := range []float64{0, 0.25, -0.8, 1.0} {
		if got := c.Process(s); got != s {
			t.Fatalf("Process(%v) = %v with all amounts zero", s, got)
		}
	}
}

func TestDistortionSaturates(t *testing.T) {
	c := newTestChain()
	c.SetDistortion(1.0)

	for _, s := range []float64{0.5, 5.0, -5.0, 100.0} {
		got := c.Process(s)
		if math.Abs(got) >= 1.0 {
			t.Fatalf("distorted %v = %v, want within the tanh bound", s, got)
		}
	}

	// tanh is odd and monotone.
	if c.Process(-0.5) != -c.Process(0.5) {
		t.Fatalf("distortion not symmetric")
	}
	if c.Process(0.9) <= c.Process(0.1) {
		t.Fatalf("distortion not monotone")
	}
}

func TestReverbGain(t *testing.T) {
	c := newTestChain()
	c.SetReverb(0.5)

	got := c.Process(0.4)
	want := 0.4 * (1.0 + 0.5*0.3)
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("reverb = %v, want %v", got, want)
	}
}

func TestChorusFactorIsConstant(t *testing.T) {
	c := newTestChain()
	c.SetChorus(0.8)

	// The chorus modulator is evaluated at the fixed time step, so the
	// scale factor never varies between calls.
	first := c.Process(1.0)
	for i := 0; i < 100; i++ {
		if got := c.Process(1.0); got != first {
			t.Fatalf("chorus factor drifted from %v to %v at call %d", first, got, i)
		}
	}
	if first == 1.0 {
		t.Fatalf("chorus at amount 0.8 left the sample untouched")
	}
}

func TestAmountsClamped(t *testing.T) {
	c := newTestChain()

	c.SetReverb(2.0)
	if got := c.ReverbAmount(); got != 1.0 {
		t.Fatalf("reverb amount = %v, want clamp to 1", got)
	}
	c.SetChorus(-1.0)
	if got := c.ChorusAmount(); got != 0.0 {
		t.Fatalf("chorus amount = %v, want clamp to 0", got)
	}
	c.SetDistortion(1.5)
	if got := c.DistortionAmount(); got != 1.0 {
		t.Fatalf("distortion amount = %v, want clamp to 1", got)
	}
}

func TestStagesComposeInOrder(t *testing.T) {
	c := newTestChain()
	c.SetDistortion(0.5)
	c.SetChorus(0.5)
	c.SetReverb(0.5)

	s := 0.7
	want := math.Tanh(s * (1.0 + 0.5*10.0))
	want *= 1.0 + math.Sin(2*math.Pi*0.5*testTimeStep)*0.5*0.1
	want *= 1.0 + 0.5*0.3
	if got := c.Process(s); math.Abs(got-want) > 1e-12 {
		t.Fatalf("chain = %v, want %v", got, want)
	}
}
