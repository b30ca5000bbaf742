// fmplay triggers notes on the FM synthesizer, either live through the
// default audio device or rendered offline to a WAV file.
//
//	fmplay -preset "SINE BELL" -notes "60 64 67" -duration 0.5
//	fmplay -preset 3 -notes "48 55 60 64" -wav chord.wav
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	fmsynth "github.com/toybasic/fmsynth-go"
)

func main() {
	var (
		sampleRate = flag.Int("sample-rate", 44100, "output sample rate")
		presetArg  = flag.String("preset", "SINE PIANO", "preset name or index (see -list)")
		notesArg   = flag.String("notes", "60 64 67", "space-separated MIDI note numbers")
		duration   = flag.Float64("duration", 0.5, "seconds each note is held")
		volume     = flag.Float64("volume", -1, "master volume override in [0,1] (-1 keeps the preset's)")
		wavPath    = flag.String("wav", "", "render to a WAV file instead of playing")
		list       = flag.Bool("list", false, "list built-in presets and exit")
	)
	flag.Parse()

	if *list {
		for i, name := range fmsynth.PresetNames() {
			fmt.Printf("%d  %s\n", i, name)
		}
		return
	}

	preset, err := resolvePreset(*presetArg)
	if err != nil {
		log.Fatal(err)
	}
	notes, err := parseNotes(*notesArg)
	if err != nil {
		log.Fatal(err)
	}

	synth := fmsynth.New(fmsynth.WithSampleRate(*sampleRate))
	synth.ApplyPreset(0, preset)
	if *volume >= 0 {
		synth.SetMasterVolume(*volume)
	}

	if *wavPath != "" {
		if err := renderToWAV(synth, notes, *duration, *wavPath); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("wrote %s\n", *wavPath)
		return
	}

	if err := playLive(synth, notes, *duration); err != nil {
		log.Fatal(err)
	}
}

func resolvePreset(arg string) (fmsynth.Preset, error) {
	if idx, err := strconv.Atoi(strings.TrimSpace(arg)); err == nil {
		return fmsynth.PresetByIndex(idx)
	}
	return fmsynth.PresetByName(strings.TrimSpace(arg))
}

func parseNotes(arg string) ([]int, error) {
	fields := strings.Fields(arg)
	if len(fields) == 0 {
		return nil, fmt.Errorf("no notes given")
	}
	notes := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid note %q", f)
		}
		notes = append(notes, n)
	}
	return notes, nil
}

// renderToWAV plays the notes back to back offline: hold each for the note
// duration, then let the release tail ring out before encoding.
func renderToWAV(synth *fmsynth.Synth, notes []int, duration float64, path string) error {
	var samples []int16
	for _, note := range notes {
		synth.NoteOn(note, 1.0)
		samples = append(samples, synth.RenderFrames(duration)...)
		synth.NoteOff(note)
	}
	// Ring-out: generous tail so the longest preset release finishes.
	samples = append(samples, synth.RenderFrames(1.5)...)

	wav := fmsynth.EncodeWAVInt16LE(samples, synth.SampleRate(), 2)
	return os.WriteFile(path, wav, 0o644)
}

func playLive(synth *fmsynth.Synth, notes []int, duration float64) error {
	if err := synth.Start(); err != nil {
		return err
	}
	defer synth.Close()

	hold := time.Duration(duration * float64(time.Second))
	for _, note := range notes {
		synth.NoteOn(note, 1.0)
		time.Sleep(hold)
		synth.NoteOff(note)
	}

	// Wait for the release tails instead of cutting playback mid-ring.
	for synth.HasActiveVoices() {
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(200 * time.Millisecond)
	return nil
}
