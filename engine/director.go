// Package engine drives the carousel one frame at a time: incremental discovery, input,
// the rotation timer, and the fade-out, load, present, fade-in sequence.
package engine

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"time"

	"github.com/lixenwraith/holo-carousel/avatar"
	"github.com/lixenwraith/holo-carousel/bundle"
	"github.com/lixenwraith/holo-carousel/catalog"
	"github.com/lixenwraith/holo-carousel/input"
	"github.com/lixenwraith/holo-carousel/loader"
	"github.com/lixenwraith/holo-carousel/render"
	"github.com/lixenwraith/holo-carousel/stage"
	"github.com/lixenwraith/holo-carousel/status"
)

// DefaultDiscoverBudget is how many candidates discovery takes per frame
const DefaultDiscoverBudget = 16

const (
	statusPaused   = "Paused"
	statusNoBundle = "No usable bundle"
	timeLayout     = "03:04"
)

var errShutdown = errors.New("shutting down")

// Phase is the director's position in the rotation sequence
type Phase uint8

const (
	PhaseDiscovering Phase = iota
	PhaseIdle
	PhaseFadingOut
	PhaseLoading
	PhaseFadingIn
)

var phaseNames = [...]string{
	PhaseDiscovering: "discovering",
	PhaseIdle:        "idle",
	PhaseFadingOut:   "fading-out",
	PhaseLoading:     "loading",
	PhaseFadingIn:    "fading-in",
}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// Overlay receives presentation updates; render.TerminalDisplay implements it
type Overlay interface {
	SetCamera(height, size float64)
	SetSkybox(name string, color render.RGB)
	SetStatus(s string)
	SetTime(s string)
	SetSDK(s string)
	SetEyeLook(s string)
}

// Chime is played when new content is presented
type Chime interface {
	Play()
}

type nopOverlay struct{}

func (nopOverlay) SetCamera(float64, float64)   {}
func (nopOverlay) SetSkybox(string, render.RGB) {}
func (nopOverlay) SetStatus(string)             {}
func (nopOverlay) SetTime(string)               {}
func (nopOverlay) SetSDK(string)                {}
func (nopOverlay) SetEyeLook(string)            {}

type nopChime struct{}

func (nopChime) Play() {}

// Options wires a Director; nil Overlay, Chime, Input, Clock, Picker and Stats fall back to
// no-ops or defaults
type Options struct {
	Catalog  *catalog.Catalog
	Discover iter.Seq2[bundle.Candidate, error]
	Budget   int

	Loader *loader.Loader
	Stage  *stage.Stage
	Fader  *render.Fader

	Interval    time.Duration
	Zoom        float64
	EyeTracking bool
	Skyboxes    map[string]render.RGB
	Picker      *avatar.Picker
	Camera      *avatar.Camera

	Overlay Overlay
	Chime   Chime
	Input   *input.Latch
	Clock   Clock
	Stats   *status.Registry
}

// Director owns the per-frame rotation sequence
type Director struct {
	cat      *catalog.Catalog
	next     func() (bundle.Candidate, error, bool)
	stopPull func()
	budget   int

	loader *loader.Loader
	stage  *stage.Stage
	fader  *render.Fader
	sched  *Scheduler

	zoom        float64
	eyeTracking bool
	skyboxes    map[string]render.RGB
	picker      *avatar.Picker
	camera      *avatar.Camera

	overlay Overlay
	chime   Chime
	latch   *input.Latch
	clock   Clock
	stats   *status.Registry

	phase   Phase
	pending loader.Direction
	task    *loader.Task
	profile avatar.Profile
	failed  bool
	quit    bool
}

// NewDirector creates a director in the discovering phase
func NewDirector(opts Options) *Director {
	d := &Director{
		cat:         opts.Catalog,
		budget:      opts.Budget,
		loader:      opts.Loader,
		stage:       opts.Stage,
		fader:       opts.Fader,
		zoom:        opts.Zoom,
		eyeTracking: opts.EyeTracking,
		skyboxes:    opts.Skyboxes,
		picker:      opts.Picker,
		camera:      opts.Camera,
		overlay:     opts.Overlay,
		chime:       opts.Chime,
		latch:       opts.Input,
		clock:       opts.Clock,
		stats:       opts.Stats,
	}
	if d.budget <= 0 {
		d.budget = DefaultDiscoverBudget
	}
	if d.fader == nil {
		d.fader = render.NewFader(render.Black, render.DefaultFadeSpeed)
	}
	if d.picker == nil {
		d.picker = avatar.NewPicker(nil, nil, nil)
	}
	if d.camera == nil {
		d.camera = avatar.NewCamera(avatar.DefaultCameraDistance)
	}
	if d.overlay == nil {
		d.overlay = nopOverlay{}
	}
	if d.chime == nil {
		d.chime = nopChime{}
	}
	if d.clock == nil {
		d.clock = SystemClock{}
	}
	if opts.Discover != nil {
		d.next, d.stopPull = iter.Pull2(opts.Discover)
	}
	d.sched = NewScheduler(opts.Interval, d)
	return d
}

// Phase returns the current phase
func (d *Director) Phase() Phase { return d.phase }

// Scheduler exposes the rotation timer
func (d *Director) Scheduler() *Scheduler { return d.sched }

// Profile returns the inspected profile of the presented content
func (d *Director) Profile() avatar.Profile { return d.profile }

// Quitting reports whether quit was pressed
func (d *Director) Quitting() bool { return d.quit }

// Frame returns what to draw this frame
func (d *Director) Frame() render.Frame {
	return render.Frame{Roots: d.stage.Roots(), Fade: d.fader.Current()}
}

// Request starts a rotation; rejected unless idle
func (d *Director) Request(dir loader.Direction) bool {
	if d.phase != PhaseIdle {
		log.Printf("Rotation %s rejected while %s", dir, d.phase)
		return false
	}
	d.pending = dir
	d.phase = PhaseFadingOut
	d.stats.Label(status.Direction, dir.String())
	d.fader.FadeTo(render.Black)
	return true
}

// Update advances one frame
// Returns an error only when discovery fails or finds nothing; the caller should exit
func (d *Director) Update(dt time.Duration) error {
	if d.latch != nil {
		d.handleInput(d.latch.Poll())
	}

	switch d.phase {
	case PhaseDiscovering:
		if err := d.discover(); err != nil {
			return err
		}
	case PhaseIdle:
		d.sched.Tick(dt)
	case PhaseFadingOut:
		if !d.fader.IsFading() {
			d.begin()
		}
	case PhaseLoading:
		d.step()
	case PhaseFadingIn:
		if !d.fader.IsFading() {
			d.phase = PhaseIdle
		}
	}

	d.fader.Tick(dt)

	d.camera.Zoom(d.profile.View, d.zoom)
	d.overlay.SetCamera(d.camera.Height(), d.camera.Size)
	if d.eyeTracking {
		d.profile.Track(d.camera.Position)
	}
	d.overlay.SetTime("Time: " + d.clock.Now().Format(timeLayout))
	return nil
}

// Close stops discovery and releases live content
func (d *Director) Close() {
	if d.stopPull != nil {
		d.stopPull()
		d.stopPull = nil
	}
	if d.task != nil {
		d.task.Abort(errShutdown)
		d.task = nil
	}
	if err := d.loader.Release(); err != nil {
		log.Printf("Release failed: %v", err)
	}
}

func (d *Director) handleInput(s input.Snapshot) {
	if s.Down(input.ButtonQuit) {
		d.quit = true
	}
	if s.Down(input.ButtonPauseToggle) {
		paused := d.sched.TogglePause()
		log.Printf("Pause toggled: %v", paused)
		d.updateStatus()
	}
	if d.phase == PhaseDiscovering {
		return
	}
	if s.Down(input.ButtonSkipForward) {
		d.sched.SkipForward()
	}
	if s.Down(input.ButtonSkipBackward) {
		d.sched.SkipBackward()
	}
}

func (d *Director) updateStatus() {
	switch {
	case d.sched.Paused():
		d.overlay.SetStatus(statusPaused)
	case d.failed:
		d.overlay.SetStatus(statusNoBundle)
	default:
		d.overlay.SetStatus("")
	}
}

// discover pulls up to budget candidates; when the sequence ends the first rotation starts
func (d *Director) discover() error {
	if d.next != nil {
		for i := 0; i < d.budget; i++ {
			cand, err, ok := d.next()
			if !ok {
				d.stopPull()
				d.stopPull = nil
				d.next = nil
				break
			}
			if err != nil {
				return fmt.Errorf("discover: %w", err)
			}
			d.cat.Append(cand)
		}
		if d.next != nil {
			return nil
		}
	}

	if d.cat.Len() == 0 {
		return fmt.Errorf("discover: %w", catalog.ErrNotFound)
	}
	log.Printf("Discovered %d bundle(s)", d.cat.Len())
	d.stats.Set(status.Catalog, int64(d.cat.Len()))
	d.phase = PhaseIdle
	d.Request(loader.Forward)
	return nil
}

func (d *Director) begin() {
	t, err := d.loader.Begin(d.pending)
	if err != nil {
		log.Printf("Rotation %s not started: %v", d.pending, err)
		d.phase = PhaseIdle
		return
	}
	d.task = t
	d.phase = PhaseLoading
}

func (d *Director) step() {
	if !d.task.Step() {
		return
	}
	res, err := d.task.Result()
	d.task = nil
	d.stats.Add(status.Skipped, int64(len(res.Skipped)))
	if err != nil {
		d.stats.Add(status.Failures, 1)
		log.Printf("Rotation failed: %v", err)
		d.failed = true
		d.profile = avatar.Profile{}
		d.overlay.SetSDK("")
		d.overlay.SetEyeLook("")
		d.updateStatus()
		// Screen stays dark; the next trigger retries
		d.phase = PhaseIdle
		return
	}

	d.stats.Add(status.Loads, 1)
	d.stats.Add(status.Removed, int64(len(res.Removed)))
	d.stats.Set(status.Catalog, int64(d.cat.Len()))
	d.stats.Label(status.Current, res.Name)

	d.failed = false
	d.updateStatus()
	d.present(res)
	d.fader.FadeTo(render.Clear)
	d.phase = PhaseFadingIn
}

// present applies per-load presentation to freshly loaded content
func (d *Director) present(res loader.LoadResult) {
	root := res.Root()
	d.profile = avatar.Inspect(root)
	d.overlay.SetSDK(d.profile.SDK.Label())
	d.overlay.SetEyeLook(d.profile.EyeLookLabel())

	d.camera.Place(d.profile.View)
	d.camera.Zoom(d.profile.View, d.zoom)

	if name, ok := d.picker.Skybox(); ok {
		color, found := d.skyboxes[name]
		if !found {
			color = render.DefaultBg
		}
		d.overlay.SetSkybox(name, color)
	}
	if clip, ok := d.picker.Clip(); ok && avatar.ApplyClip(root, clip) {
		log.Printf("[%s] Playing animation %s", shortID(res.ID), clip)
	}

	d.chime.Play()
	log.Printf("[%s] Presenting %s #%d (%s, %s)", shortID(res.ID), res.Name, res.Sequence, res.Kind, d.profile.SDK.Label())
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
