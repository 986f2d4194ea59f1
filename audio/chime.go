// Package audio plays the swap chime. Audio is muted unless enabled in config.
package audio

import (
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(48000)

	noteDuration = 90 * time.Millisecond
	noteLow      = 659.25 // E5
	noteHigh     = 987.77 // B5
)

// Config controls the chime
type Config struct {
	Enabled bool
	Volume  float64 // Linear gain, 0 mutes
}

// Chime is a short two-note cue played when new content is presented
type Chime struct {
	mu     sync.Mutex
	cfg    Config
	ready  bool
	failed bool

	// Replaced in tests
	initSpeaker func(beep.SampleRate, int) error
	play        func(...beep.Streamer)
}

// NewChime creates a chime; the speaker is opened lazily on first Play
func NewChime(cfg Config) *Chime {
	return &Chime{
		cfg:         cfg,
		initSpeaker: speaker.Init,
		play:        speaker.Play,
	}
}

// Play starts the chime without blocking
// Does nothing when disabled or when the speaker could not be opened
func (c *Chime) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.cfg.Enabled || c.failed {
		return
	}
	if !c.ready {
		if err := c.initSpeaker(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
			log.Printf("Audio disabled: %v", err)
			c.failed = true
			return
		}
		c.ready = true
	}

	s, err := newChimeStreamer(sampleRate, c.cfg.Volume)
	if err != nil {
		log.Printf("Chime failed: %v", err)
		return
	}
	c.play(s)
}

// newChimeStreamer builds the two-note sequence at the given gain
func newChimeStreamer(sr beep.SampleRate, vol float64) (beep.Streamer, error) {
	low, err := generators.SineTone(sr, noteLow)
	if err != nil {
		return nil, fmt.Errorf("low note: %w", err)
	}
	high, err := generators.SineTone(sr, noteHigh)
	if err != nil {
		return nil, fmt.Errorf("high note: %w", err)
	}
	n := sr.N(noteDuration)
	return newVolume(beep.Seq(beep.Take(n, low), beep.Take(n, high)), vol), nil
}

// math.Log2(0) is -Inf, so zero volume maps to silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
