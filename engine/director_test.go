package engine

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/holo-carousel/avatar"
	"github.com/lixenwraith/holo-carousel/bundle"
	"github.com/lixenwraith/holo-carousel/catalog"
	"github.com/lixenwraith/holo-carousel/input"
	"github.com/lixenwraith/holo-carousel/loader"
	"github.com/lixenwraith/holo-carousel/render"
	"github.com/lixenwraith/holo-carousel/stage"
	"github.com/lixenwraith/holo-carousel/status"
)

const frame = 100 * time.Millisecond

type recordingOverlay struct {
	status   string
	clock    string
	sdk      string
	eyeLook  string
	sky      string
	skyColor render.RGB
	height   float64
	size     float64
}

func (o *recordingOverlay) SetCamera(h, s float64)              { o.height, o.size = h, s }
func (o *recordingOverlay) SetSkybox(name string, c render.RGB) { o.sky, o.skyColor = name, c }
func (o *recordingOverlay) SetStatus(s string)                  { o.status = s }
func (o *recordingOverlay) SetTime(s string)                    { o.clock = s }
func (o *recordingOverlay) SetSDK(s string)                     { o.sdk = s }
func (o *recordingOverlay) SetEyeLook(s string)                 { o.eyeLook = s }

type countingChime struct{ n int }

func (c *countingChime) Play() { c.n++ }

// fixtureBundle is one cached bundle; nil contents writes a corrupt file
type fixtureBundle struct {
	dir      string
	contents *bundle.Contents
}

func asset(dir, name string) fixtureBundle {
	c := bundle.TestAssetContents(name)
	return fixtureBundle{dir: dir, contents: &c}
}

func corrupt(dir string) fixtureBundle {
	return fixtureBundle{dir: dir}
}

type directorFixture struct {
	d       *Director
	cat     *catalog.Catalog
	stage   *stage.Stage
	loader  *loader.Loader
	overlay *recordingOverlay
	chime   *countingChime
	latch   *input.Latch
	stats   *status.Registry
}

func newDirectorFixture(t *testing.T, budget int, bundles ...fixtureBundle) *directorFixture {
	t.Helper()
	root := t.TempDir()
	for _, b := range bundles {
		path := filepath.Join(root, b.dir, "__data")
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		if b.contents == nil {
			require.NoError(t, os.WriteFile(path, []byte("UnityFS\x00garbage"), 0o644))
			continue
		}
		require.NoError(t, bundle.WriteFile(path, *b.contents))
	}
	return newDirectorFixtureAt(t, root, budget)
}

func newDirectorFixtureAt(t *testing.T, root string, budget int) *directorFixture {
	t.Helper()
	match, err := catalog.CompilePattern("")
	require.NoError(t, err)

	cat := catalog.New()
	st := stage.New()
	ld := loader.New(cat, bundle.FileOpener{}, st, nil)
	f := &directorFixture{
		cat:     cat,
		stage:   st,
		loader:  ld,
		overlay: &recordingOverlay{},
		chime:   &countingChime{},
		latch:   &input.Latch{},
		stats:   status.NewRegistry(),
	}
	f.d = NewDirector(Options{
		Catalog:     cat,
		Discover:    catalog.Discover(root, match),
		Budget:      budget,
		Loader:      ld,
		Stage:       st,
		Fader:       render.NewFader(render.Black, 5),
		Interval:    time.Second,
		Zoom:        1.5,
		EyeTracking: true,
		Skyboxes:    map[string]render.RGB{"dusk": {90, 61, 122}},
		Picker:      avatar.NewPicker(rand.New(rand.NewPCG(1, 1)), []string{"dusk"}, []string{"wave"}),
		Overlay:     f.overlay,
		Chime:       f.chime,
		Input:       f.latch,
		Clock:       NewMockClock(time.Date(2026, 10, 19, 21, 30, 0, 0, time.UTC)),
		Stats:       f.stats,
	})
	t.Cleanup(f.d.Close)
	return f
}

// runUntil steps frames until cond holds
func (f *directorFixture) runUntil(t *testing.T, cond func() bool) {
	t.Helper()
	for i := 0; i < 500; i++ {
		if cond() {
			return
		}
		require.NoError(t, f.d.Update(frame))
	}
	t.Fatalf("condition not reached; phase %s", f.d.Phase())
}

func (f *directorFixture) settled(index int) func() bool {
	return func() bool {
		return f.d.Phase() == PhaseIdle && f.loader.Current() == index && !f.d.fader.IsFading()
	}
}

func (f *directorFixture) run(t *testing.T, d time.Duration) {
	t.Helper()
	for elapsed := time.Duration(0); elapsed < d; elapsed += frame {
		require.NoError(t, f.d.Update(frame))
	}
}

func TestDirectorDiscoversIncrementally(t *testing.T) {
	f := newDirectorFixture(t, 1, asset("a", "A"), asset("b", "B"), asset("c", "C"))

	require.NoError(t, f.d.Update(frame))
	assert.Equal(t, PhaseDiscovering, f.d.Phase())
	assert.Equal(t, 1, f.cat.Len())

	require.NoError(t, f.d.Update(frame))
	assert.Equal(t, 2, f.cat.Len())

	f.runUntil(t, f.settled(0))
	assert.Equal(t, 3, f.cat.Len())
}

func TestDirectorPresentsAvatar(t *testing.T) {
	f := newDirectorFixture(t, 0, asset("a", "A"), asset("b", "B"))
	f.runUntil(t, f.settled(0))

	fr := f.d.Frame()
	require.Len(t, fr.Roots, 1)
	assert.Equal(t, "A", fr.Roots[0].Name)
	assert.Equal(t, render.Clear, fr.Fade)
	assert.Nil(t, fr.Roots[0].Component(bundle.KindScript), "content is sanitized before it is shown")

	assert.Equal(t, "SDK: 3", f.overlay.sdk)
	assert.Equal(t, "Eye Look: Yes", f.overlay.eyeLook)
	assert.Equal(t, "Time: 09:30", f.overlay.clock)
	assert.Equal(t, "dusk", f.overlay.sky)
	assert.Equal(t, render.RGB{90, 61, 122}, f.overlay.skyColor)
	assert.InDelta(t, 1.44, f.overlay.height, 1e-9)
	assert.InDelta(t, 1.6/1.5, f.overlay.size, 1e-9)
	assert.Equal(t, 1, f.chime.n)
	assert.Equal(t, "wave", fr.Roots[0].Component(bundle.KindAnimator).Clip)

	p := f.d.Profile()
	require.True(t, p.EyeLook())
	assert.Greater(t, p.LeftEye.Facing.Z, 0.9, "eyes look toward the camera")
}

func TestDirectorRotatesOnInterval(t *testing.T) {
	f := newDirectorFixture(t, 0, asset("a", "A"), asset("b", "B"))
	f.runUntil(t, f.settled(0))

	f.run(t, 500*time.Millisecond)
	assert.Equal(t, 0, f.loader.Current())

	f.runUntil(t, f.settled(1))
	assert.Equal(t, "B", f.d.Frame().Roots[0].Name)
	assert.Equal(t, 1, f.stage.Live())

	f.runUntil(t, f.settled(0))
	assert.Equal(t, 3, f.chime.n)
	assert.Equal(t, int64(3), f.stats.Int(status.Loads))
	assert.Equal(t, int64(2), f.stats.Int(status.Catalog))
	assert.Equal(t, "A", f.stats.String(status.Current))
	assert.Equal(t, int64(6), f.stats.Int(status.Removed), "one script and one audio source per load")
}

func TestDirectorSkips(t *testing.T) {
	f := newDirectorFixture(t, 0, asset("a", "A"), asset("b", "B"), asset("c", "C"))
	f.runUntil(t, f.settled(0))

	f.latch.Press(input.ButtonSkipForward)
	f.runUntil(t, f.settled(1))

	f.latch.Press(input.ButtonSkipBackward)
	f.runUntil(t, f.settled(0))

	f.latch.Press(input.ButtonSkipBackward)
	f.runUntil(t, f.settled(2))
}

func TestDirectorRejectsWhileRotating(t *testing.T) {
	f := newDirectorFixture(t, 0, asset("a", "A"), asset("b", "B"))
	f.runUntil(t, f.settled(0))

	require.True(t, f.d.Request(loader.Forward))
	assert.Equal(t, PhaseFadingOut, f.d.Phase())
	assert.False(t, f.d.Request(loader.Forward))
	assert.False(t, f.d.Request(loader.Backward))

	f.runUntil(t, f.settled(1))
}

func TestDirectorPause(t *testing.T) {
	f := newDirectorFixture(t, 0, asset("a", "A"), asset("b", "B"))
	f.runUntil(t, f.settled(0))

	f.latch.Press(input.ButtonPauseToggle)
	require.NoError(t, f.d.Update(frame))
	assert.Equal(t, "Paused", f.overlay.status)

	f.run(t, 5*time.Second)
	assert.Equal(t, 0, f.loader.Current())

	f.latch.Press(input.ButtonPauseToggle)
	require.NoError(t, f.d.Update(frame))
	assert.Equal(t, "", f.overlay.status)
	f.runUntil(t, f.settled(1))
}

func TestDirectorNoUsableBundle(t *testing.T) {
	f := newDirectorFixture(t, 0, corrupt("a"), corrupt("b"))
	f.runUntil(t, func() bool { return f.overlay.status == "No usable bundle" })

	assert.Equal(t, PhaseIdle, f.d.Phase())
	assert.Equal(t, render.Black, f.d.Frame().Fade, "screen stays dark")
	assert.Empty(t, f.d.Frame().Roots)
	assert.Zero(t, f.chime.n)
	assert.Equal(t, -1, f.loader.Current())

	// The next trigger retries and fails the same way without crashing
	f.run(t, 3*time.Second)
	assert.Equal(t, "No usable bundle", f.overlay.status)
	assert.False(t, f.loader.Live())
	assert.GreaterOrEqual(t, f.stats.Int(status.Failures), int64(2))
	assert.Zero(t, f.stats.Int(status.Loads))
}

func TestDirectorSkipsCorruptCandidate(t *testing.T) {
	f := newDirectorFixture(t, 0, corrupt("a"), asset("b", "B"))
	f.runUntil(t, f.settled(1))
	assert.Equal(t, "", f.overlay.status)
	assert.Equal(t, "B", f.d.Frame().Roots[0].Name)
	assert.Equal(t, int64(1), f.stats.Int(status.Skipped))
}

func TestDirectorEmptyCache(t *testing.T) {
	t.Run("empty root", func(t *testing.T) {
		f := newDirectorFixture(t, 0)
		err := f.d.Update(frame)
		assert.ErrorIs(t, err, catalog.ErrNotFound)
	})

	t.Run("missing root", func(t *testing.T) {
		f := newDirectorFixtureAt(t, filepath.Join(t.TempDir(), "absent"), 0)
		err := f.d.Update(frame)
		assert.ErrorIs(t, err, catalog.ErrNotFound)
	})
}

func TestDirectorQuitAndClose(t *testing.T) {
	f := newDirectorFixture(t, 0, asset("a", "A"))
	f.runUntil(t, f.settled(0))
	assert.Equal(t, 1, f.stage.Live())

	f.latch.Press(input.ButtonQuit)
	require.NoError(t, f.d.Update(frame))
	assert.True(t, f.d.Quitting())

	f.d.Close()
	assert.Zero(t, f.stage.Live())
	assert.False(t, f.loader.Live())
}

func TestDirectorCloseMidRotation(t *testing.T) {
	f := newDirectorFixture(t, 0, asset("a", "A"), asset("b", "B"))
	f.runUntil(t, f.settled(0))

	require.True(t, f.d.Request(loader.Forward))
	f.runUntil(t, func() bool { return f.d.Phase() == PhaseLoading })

	f.d.Close()
	assert.False(t, f.loader.Busy())
	assert.Zero(t, f.stage.Live())
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "fading-out", PhaseFadingOut.String())
	assert.Equal(t, "unknown", Phase(42).String())
}
