// Package audio synthesises the game's sound cues and plays them through the
// system speaker.
package audio

import (
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/wansatya/x.com/internal/host"
)

// Note is a single sine tone
type Note struct {
	Freq     float64
	Duration time.Duration
}

// Cue is a short sequence of notes played for one sound key
type Cue []Note

// Duration returns the total length of the cue
func (c Cue) Duration() time.Duration {
	var d time.Duration
	for _, n := range c {
		d += n.Duration
	}
	return d
}

// DefaultCues are the tones used for each sound key
var DefaultCues = map[host.SoundKey]Cue{
	host.SoundCollect: {{Freq: 880, Duration: 60 * time.Millisecond}, {Freq: 1320, Duration: 90 * time.Millisecond}},
	host.SoundCount:   {{Freq: 440, Duration: 40 * time.Millisecond}},
	host.SoundScore:   {{Freq: 660, Duration: 80 * time.Millisecond}, {Freq: 990, Duration: 120 * time.Millisecond}},
	host.SoundGameOver: {
		{Freq: 392, Duration: 200 * time.Millisecond},
		{Freq: 330, Duration: 200 * time.Millisecond},
		{Freq: 262, Duration: 400 * time.Millisecond},
	},
	host.SoundJump: {{Freq: 520, Duration: 50 * time.Millisecond}, {Freq: 780, Duration: 70 * time.Millisecond}},
	host.SoundRun:  {{Freq: 200, Duration: 30 * time.Millisecond}},
	host.SoundHit:  {{Freq: 140, Duration: 60 * time.Millisecond}},
}

// Build renders a cue as a finite streamer at the given volume
func Build(sr beep.SampleRate, cue Cue, volume float64) (beep.Streamer, error) {
	if len(cue) == 0 {
		return nil, fmt.Errorf("empty cue")
	}

	parts := make([]beep.Streamer, 0, len(cue))
	for _, n := range cue {
		tone, err := generators.SineTone(sr, n.Freq)
		if err != nil {
			return nil, fmt.Errorf("tone %.0fHz: %w", n.Freq, err)
		}
		parts = append(parts, beep.Take(sr.N(n.Duration), tone))
	}

	return newVolume(beep.Seq(parts...), volume), nil
}

// newVolume scales s linearly. Zero or negative volume is silent.
func newVolume(s beep.Streamer, vol float64) *effects.Volume {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}
