// Package effects implements the per-voice coloration chain: distortion,
// chorus, and reverb applied in that fixed order to each mono voice sample
// before panning. The stages are deliberately simple approximations with no
// cross-sample state, which keeps the chain pure and the output
// reproducible.
package effects

import "math"

// Effector processes one mono sample.
type Effector interface {
	Process(sample float64) float64
}

// Chain holds the three stages and applies them in order. A stage with a
// zero amount passes the sample through untouched.
type Chain struct {
	distortion Distortion
	chorus     Chorus
	reverb     Reverb
}

// NewChain builds a chain from the engine's effect constants. timeStep is
// the engine's sample period in seconds.
func NewChain(distortionGain, chorusFrequency, chorusDepth, reverbGain, timeStep float64) *Chain {
	return &Chain{
		distortion: Distortion{gain: distortionGain},
		chorus:     Chorus{frequency: chorusFrequency, depth: chorusDepth, timeStep: timeStep},
		reverb:     Reverb{gain: reverbGain},
	}
}

func (c *Chain) Process(sample float64) float64 {
	sample = c.distortion.Process(sample)
	sample = c.chorus.Process(sample)
	return c.reverb.Process(sample)
}

// SetTimeStep updates the chorus time base after a sample-rate change.
func (c *Chain) SetTimeStep(timeStep float64) {
	c.chorus.timeStep = timeStep
}

func (c *Chain) SetDistortion(amount float64) { c.distortion.amount = clamp01(amount) }
func (c *Chain) SetChorus(amount float64)     { c.chorus.amount = clamp01(amount) }
func (c *Chain) SetReverb(amount float64)     { c.reverb.amount = clamp01(amount) }

func (c *Chain) DistortionAmount() float64 { return c.distortion.amount }
func (c *Chain) ChorusAmount() float64     { return c.chorus.amount }
func (c *Chain) ReverbAmount() float64     { return c.reverb.amount }

// Distortion is tanh waveshaping with an amount-scaled pre-gain.
type Distortion struct {
	amount float64
	gain   float64
}

func (d *Distortion) Process(sample float64) float64 {
	if d.amount <= 0 {
		return sample
	}
	return math.Tanh(sample * (1.0 + d.amount*d.gain))
}

// Chorus scales the sample by a shallow sine term. The modulator is
// evaluated at the fixed time step rather than an accumulating phase, so
// the factor is constant for a given sample rate. This matches the modeled
// synth exactly and is kept as-is even though a sweeping LFO was likely
// intended.
type Chorus struct {
	amount    float64
	frequency float64
	depth     float64
	timeStep  float64
}

func (c *Chorus) Process(sample float64) float64 {
	if c.amount <= 0 {
		return sample
	}
	mod := math.Sin(2*math.Pi*c.frequency*c.timeStep) * c.amount * c.depth
	return sample * (1.0 + mod)
}

// Reverb is a flat gain boost, not a delay line. A placeholder for a real
// reverberator, kept so the amount control behaves consistently.
type Reverb struct {
	amount float64
	gain   float64
}

func (r *Reverb) Process(sample float64) float64 {
	if r.amount <= 0 {
		return sample
	}
	return sample * (1.0 + r.amount*r.gain)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
