package audio

import (
	"errors"
	"testing"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(s beep.Streamer) (n int, peak float64) {
	buf := make([][2]float64, 512)
	for {
		k, ok := s.Stream(buf)
		for i := 0; i < k; i++ {
			if v := buf[i][0]; v > peak {
				peak = v
			} else if -v > peak {
				peak = -v
			}
		}
		n += k
		if !ok {
			return n, peak
		}
	}
}

func TestChimeStreamer(t *testing.T) {
	s, err := newChimeStreamer(sampleRate, 0.5)
	require.NoError(t, err)
	n, peak := drain(s)
	assert.Equal(t, 2*sampleRate.N(noteDuration), n)
	assert.InDelta(t, 0.5, peak, 0.01)

	silent, err := newChimeStreamer(sampleRate, 0)
	require.NoError(t, err)
	_, peak = drain(silent)
	assert.Equal(t, 0.0, peak)

	_, err = newChimeStreamer(beep.SampleRate(1000), 1)
	assert.Error(t, err, "tone above nyquist")
}

type fakeSpeaker struct {
	inits  int
	played int
	err    error
}

func (f *fakeSpeaker) init(beep.SampleRate, int) error {
	f.inits++
	return f.err
}

func (f *fakeSpeaker) play(...beep.Streamer) { f.played++ }

func newTestChime(cfg Config, f *fakeSpeaker) *Chime {
	c := NewChime(cfg)
	c.initSpeaker = f.init
	c.play = f.play
	return c
}

func TestChimePlay(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		f := &fakeSpeaker{}
		c := newTestChime(Config{Volume: 1}, f)
		c.Play()
		assert.Zero(t, f.inits)
		assert.Zero(t, f.played)
	})

	t.Run("enabled opens speaker once", func(t *testing.T) {
		f := &fakeSpeaker{}
		c := newTestChime(Config{Enabled: true, Volume: 1}, f)
		c.Play()
		c.Play()
		assert.Equal(t, 1, f.inits)
		assert.Equal(t, 2, f.played)
	})

	t.Run("speaker failure is not retried", func(t *testing.T) {
		f := &fakeSpeaker{err: errors.New("no device")}
		c := newTestChime(Config{Enabled: true, Volume: 1}, f)
		c.Play()
		c.Play()
		assert.Equal(t, 1, f.inits)
		assert.Zero(t, f.played)
	})
}
