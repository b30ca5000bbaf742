package fm

// Voice is one sounding (or releasing) note: six operators plus allocation
// state. The sixteen voices live in a fixed array owned by the engine; a
// note-on re-initializes a slot, it never allocates.
type Voice struct {
	Operators [NumOperators]Operator
	Active    bool
	Note      int
	Velocity  float64
	Channel   int
}

// Channel is a routing context shared by the voices assigned to it.
type Channel struct {
	Active          bool
	Algorithm       int
	MasterVolume    float64
	PitchBend       float64
	ModulationWheel float64
}

// findFreeVoice returns the first inactive voice index, or -1 when the pool
// is exhausted.
func (e *Engine) findFreeVoice() int {
	for i := range e.voices {
		if !e.voices[i].Active {
			return i
		}
	}
	return -1
}

// releaseVoice returns a slot to the free pool. Called by the sample loop
// once all six operators are off, and by the allocator before stealing.
func (e *Engine) releaseVoice(voice int) {
	if voice < 0 || voice >= NumVoices {
		return
	}
	e.voices[voice].Active = false
	e.voices[voice].Note = -1
}
