package fmsynth

import "encoding/binary"

// RenderFrames generates seconds of interleaved stereo int16 audio from
// the synth's current state, without a device or worker. Trigger notes
// first, then render; the engine clock advances only through generation.
func (s *Synth) RenderFrames(seconds float64) []int16 {
	frames := int(float64(s.engine.SampleRate()) * seconds)
	if frames <= 0 {
		return nil
	}
	out := make([]int16, frames*2)
	s.engine.GenerateFrames(out)
	return out
}

// EncodeWAVInt16LE wraps interleaved PCM samples in a WAV container
// (format 1, 16-bit little-endian).
func EncodeWAVInt16LE(samples []int16, sampleRate, channels int) []byte {
	dataSize := len(samples) * 2
	byteRate := sampleRate * channels * 2
	blockAlign := channels * 2
	chunkSize := 36 + dataSize
	out := make([]byte, 44+dataSize)
	copy(out[0:], []byte("RIFF"))
	binary.LittleEndian.PutUint32(out[4:], uint32(chunkSize))
	copy(out[8:], []byte("WAVE"))
	copy(out[12:], []byte("fmt "))
	binary.LittleEndian.PutUint32(out[16:], 16)
	binary.LittleEndian.PutUint16(out[20:], 1)
	binary.LittleEndian.PutUint16(out[22:], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:], 16)
	copy(out[36:], []byte("data"))
	binary.LittleEndian.PutUint32(out[40:], uint32(dataSize))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[44+i*2:], uint16(s))
	}
	return out
}
