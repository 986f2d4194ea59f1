package render

import "time"

// FadeState is the cross-fade phase
type FadeState uint8

const (
	FadeIdle FadeState = iota
	Fading
)

func (s FadeState) String() string {
	if s == Fading {
		return "fading"
	}
	return "idle"
}

// DefaultFadeSpeed completes a fade in one second
const DefaultFadeSpeed = 1.0

// Fader drives the screen overlay color used to hide content swaps
type Fader struct {
	speed    float64 // progress per second
	previous RGBA
	target   RGBA
	current  RGBA
	progress float64
	state    FadeState
}

// NewFader starts idle at the given color
func NewFader(initial RGBA, speed float64) *Fader {
	if speed <= 0 {
		speed = DefaultFadeSpeed
	}
	return &Fader{
		speed:    speed,
		previous: initial,
		target:   initial,
		current:  initial,
		progress: 1,
	}
}

// FadeTo starts a fade from the displayed color to target
// Requesting the current target again changes nothing
func (f *Fader) FadeTo(target RGBA) {
	if target == f.target {
		return
	}
	f.previous = f.current
	f.target = target
	f.progress = 0
	f.state = Fading
}

// Tick advances the fade by dt
func (f *Fader) Tick(dt time.Duration) {
	if f.state != Fading {
		f.current = f.target
		return
	}
	f.progress += f.speed * dt.Seconds()
	t := f.progress
	if t > 1 {
		t = 1
	}
	f.current = Lerp(f.previous, f.target, t)
	if f.progress >= 1 {
		f.progress = 1
		f.current = f.target
		f.state = FadeIdle
	}
}

// IsFading reports whether a fade is in progress
func (f *Fader) IsFading() bool { return f.state == Fading }

// State returns the fade phase
func (f *Fader) State() FadeState { return f.state }

// Current returns the displayed overlay color
func (f *Fader) Current() RGBA { return f.current }

// Target returns the color being faded to
func (f *Fader) Target() RGBA { return f.target }

// Previous returns the color the current fade started from
func (f *Fader) Previous() RGBA { return f.previous }

// Progress returns normalized fade progress in [0,1]
func (f *Fader) Progress() float64 { return f.progress }
