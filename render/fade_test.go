package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFadeToSameTargetIsNoop(t *testing.T) {
	f := NewFader(Clear, 1)
	f.FadeTo(Black)
	f.Tick(250 * time.Millisecond)

	state, progress, prev, target := f.State(), f.Progress(), f.Previous(), f.Target()

	f.FadeTo(Black)

	assert.Equal(t, state, f.State())
	assert.Equal(t, progress, f.Progress())
	assert.Equal(t, prev, f.Previous())
	assert.Equal(t, target, f.Target())

	idle := NewFader(Clear, 1)
	idle.FadeTo(Clear)
	assert.False(t, idle.IsFading())
}

func TestFadeReachesTargetExactly(t *testing.T) {
	tests := []struct {
		name  string
		steps []time.Duration
	}{
		{"exact crossing", []time.Duration{500 * time.Millisecond, 500 * time.Millisecond}},
		{"overshoot", []time.Duration{700 * time.Millisecond, 700 * time.Millisecond}},
		{"many small", []time.Duration{
			100 * time.Millisecond, 100 * time.Millisecond, 100 * time.Millisecond, 100 * time.Millisecond,
			100 * time.Millisecond, 100 * time.Millisecond, 100 * time.Millisecond, 100 * time.Millisecond,
			100 * time.Millisecond, 100 * time.Millisecond, 100 * time.Millisecond,
		}},
	}

	target := RGBA{R: 0.3, G: 0.6, B: 0.9, A: 1}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFader(Clear, 1)
			f.FadeTo(target)
			for _, dt := range tt.steps {
				f.Tick(dt)
			}
			assert.Equal(t, FadeIdle, f.State())
			assert.Equal(t, target, f.Current())
			assert.Equal(t, 1.0, f.Progress())
		})
	}
}

func TestFadeInterpolates(t *testing.T) {
	f := NewFader(Clear, 2)
	f.FadeTo(Black)
	assert.True(t, f.IsFading())

	f.Tick(250 * time.Millisecond)
	assert.InDelta(t, 0.5, f.Current().A, 1e-9)
	assert.True(t, f.IsFading())

	// Retarget mid-fade starts from the displayed color
	f.FadeTo(Clear)
	assert.InDelta(t, 0.5, f.Previous().A, 1e-9)
	assert.Equal(t, 0.0, f.Progress())

	f.Tick(250 * time.Millisecond)
	assert.InDelta(t, 0.25, f.Current().A, 1e-9)
	f.Tick(time.Second)
	assert.Equal(t, Clear, f.Current())
	assert.False(t, f.IsFading())
}

func TestFaderDefaults(t *testing.T) {
	f := NewFader(Black, 0)
	assert.Equal(t, FadeIdle, f.State())
	assert.Equal(t, Black, f.Current())
	f.Tick(time.Second)
	assert.Equal(t, Black, f.Current())

	f.FadeTo(Clear)
	f.Tick(time.Second)
	assert.Equal(t, Clear, f.Current(), "default speed finishes in one second")
	assert.Equal(t, "idle", f.State().String())
}
