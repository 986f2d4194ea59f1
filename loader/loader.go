// Package loader owns the single live bundle slot and rotates it through the catalog.
//
// Loading is split into steps so the frame loop can run one step per frame. A Task is the
// in-flight rotation; only one may exist at a time.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/lixenwraith/holo-carousel/bundle"
	"github.com/lixenwraith/holo-carousel/catalog"
	"github.com/lixenwraith/holo-carousel/sanitize"
	"github.com/lixenwraith/holo-carousel/stage"
)

var (
	// ErrBusy rejects a rotation while another is in flight
	ErrBusy = errors.New("load already in progress")

	// ErrNoUsableBundle reports that every candidate tried in one rotation was unusable
	ErrNoUsableBundle = errors.New("no usable bundle")
)

// Direction selects which neighbour of the current candidate to load
type Direction uint8

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// ContentKind tells what a successful load made live
type ContentKind uint8

const (
	ContentNone ContentKind = iota
	ContentScene
	ContentObject
)

func (k ContentKind) String() string {
	switch k {
	case ContentScene:
		return "scene"
	case ContentObject:
		return "object"
	default:
		return "none"
	}
}

// Stage hosts live content
type Stage interface {
	LoadScene(h bundle.Handle, path string) (*stage.Scene, error)
	UnloadScene(path string)
	Instantiate(prefab *bundle.Node) *bundle.Node
	Destroy(obj *bundle.Node)
}

// LoadResult describes the content made live by a rotation
type LoadResult struct {
	ID        string // Task identifier, also used in log lines
	Sequence  uint64 // Increments on every successful load
	Kind      ContentKind
	Candidate bundle.Candidate
	Index     int
	Name      string // Bundle name from the manifest
	Scene     *stage.Scene
	Object    *bundle.Node
	Skipped   []bundle.Candidate
	Removed   []sanitize.Removal
}

// Root returns the primary content node: the object, or the first scene root
func (r *LoadResult) Root() *bundle.Node {
	if r.Object != nil {
		return r.Object
	}
	if r.Scene != nil && len(r.Scene.Roots) > 0 {
		return r.Scene.Roots[0]
	}
	return nil
}

// Loader owns the live slot: at most one open handle and at most one live content
type Loader struct {
	cat    *catalog.Catalog
	cursor *catalog.Cursor
	opener bundle.Opener
	stage  Stage
	allow  *sanitize.AllowList

	handle  bundle.Handle
	scene   *stage.Scene
	object  *bundle.Node
	current int

	active   *Task
	sequence uint64
}

// New creates a loader over cat; a nil allow list selects sanitize.DefaultAllowList
func New(cat *catalog.Catalog, opener bundle.Opener, st Stage, allow *sanitize.AllowList) *Loader {
	if allow == nil {
		allow = &sanitize.DefaultAllowList
	}
	return &Loader{
		cat:     cat,
		cursor:  catalog.NewCursor(cat),
		opener:  opener,
		stage:   st,
		allow:   allow,
		current: -1,
	}
}

// Cursor exposes the rotation position
func (l *Loader) Cursor() *catalog.Cursor {
	return l.cursor
}

// Busy reports whether a task is in flight
func (l *Loader) Busy() bool {
	return l.active != nil
}

// Current returns the catalog index of the live candidate, or -1
func (l *Loader) Current() int {
	return l.current
}

// Live reports whether any content is live
func (l *Loader) Live() bool {
	return l.scene != nil || l.object != nil
}

// Begin starts a rotation in the given direction
func (l *Loader) Begin(dir Direction) (*Task, error) {
	if l.active != nil {
		return nil, ErrBusy
	}
	limit := l.cat.Len()
	if limit == 0 {
		return nil, fmt.Errorf("begin %s: %w", dir, catalog.ErrNotFound)
	}
	t := newTask(l, dir, limit)
	l.active = t
	return t, nil
}

// Advance runs a whole rotation without yielding to a frame loop
// Cancelling ctx between steps aborts the task and leaves nothing live
func (l *Loader) Advance(ctx context.Context, dir Direction) (LoadResult, error) {
	t, err := l.Begin(dir)
	if err != nil {
		return LoadResult{}, err
	}
	for !t.Step() {
		if err := ctx.Err(); err != nil {
			t.Abort(err)
			break
		}
	}
	return t.Result()
}

// Release frees the live slot outside of a rotation, e.g. on shutdown
func (l *Loader) Release() error {
	if l.active != nil {
		return ErrBusy
	}
	l.release()
	return nil
}

// release destroys instantiated content, unloads the scene, then closes the handle
func (l *Loader) release() {
	if l.object != nil {
		l.stage.Destroy(l.object)
		l.object = nil
	}
	if l.scene != nil {
		l.stage.UnloadScene(l.scene.Path)
		l.scene = nil
	}
	if l.handle != nil {
		if err := l.handle.Close(); err != nil {
			log.Printf("Close bundle failed: %v", err)
		}
		l.handle = nil
	}
	l.current = -1
}
