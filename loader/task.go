package loader

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/lixenwraith/holo-carousel/bundle"
	"github.com/lixenwraith/holo-carousel/sanitize"
)

type phase uint8

const (
	phaseRelease phase = iota
	phaseOpen
	phaseInstantiate
	phaseDone
)

// Task is one in-flight rotation
// Each Step is a suspension point; the caller runs one Step per frame
type Task struct {
	l     *Loader
	id    string
	dir   Direction
	phase phase

	// Attempts are capped at the catalog length seen when the task began
	attempts int
	limit    int
	rewound  bool

	idx     int
	cand    bundle.Candidate
	handle  bundle.Handle
	skipped []bundle.Candidate

	result LoadResult
	err    error
}

func newTask(l *Loader, dir Direction, limit int) *Task {
	return &Task{
		l:     l,
		id:    uuid.NewString(),
		dir:   dir,
		limit: limit,
		idx:   -1,
	}
}

// ID returns the task identifier
func (t *Task) ID() string { return t.id }

// Done reports whether the task finished
func (t *Task) Done() bool { return t.phase == phaseDone }

// Result returns the outcome of a finished task
func (t *Task) Result() (LoadResult, error) {
	if t.phase != phaseDone {
		return LoadResult{}, ErrBusy
	}
	return t.result, t.err
}

// Step runs one sub-step and reports whether the task is finished
func (t *Task) Step() bool {
	switch t.phase {
	case phaseRelease:
		t.l.release()
		t.phase = phaseOpen
	case phaseOpen:
		t.open()
	case phaseInstantiate:
		t.instantiate()
	}
	return t.phase == phaseDone
}

func (t *Task) open() {
	if t.attempts >= t.limit {
		t.fail()
		return
	}

	cur := t.l.cursor
	if t.dir == Backward && !t.rewound {
		cur.Back()
	}
	t.rewound = true

	t.idx = cur.Next()
	t.cand = t.l.cat.At(t.idx)
	t.attempts++

	h, err := t.l.opener.Open(t.cand)
	if err != nil {
		t.skip(fmt.Sprintf("open failed: %v", err))
		return
	}
	if len(h.Scenes()) == 0 && len(h.Assets()) == 0 {
		if err := h.Close(); err != nil {
			log.Printf("[%s] Close %s failed: %v", t.short(), t.cand, err)
		}
		t.skip("no scene or asset content")
		return
	}

	// The handle belongs to the live slot from here on so any later failure releases it
	t.handle = h
	t.l.handle = h
	t.l.current = t.idx
	t.phase = phaseInstantiate
}

func (t *Task) instantiate() {
	h := t.handle
	res := LoadResult{
		ID:        t.id,
		Candidate: t.cand,
		Index:     t.idx,
		Name:      h.Name(),
	}

	if scenes := h.Scenes(); len(scenes) > 0 {
		log.Printf("[%s] Loading scene %s", t.short(), scenes[0])
		sc, err := t.l.stage.LoadScene(h, scenes[0])
		if err != nil {
			t.l.release()
			t.skip(err.Error())
			t.phase = phaseOpen
			return
		}
		t.l.scene = sc
		for _, root := range sc.Roots {
			res.Removed = append(res.Removed, sanitize.Sanitize(root, t.l.allow)...)
		}
		res.Kind = ContentScene
		res.Scene = sc
	} else {
		asset := h.Assets()[0]
		log.Printf("[%s] Loading asset %s", t.short(), asset)
		prefab, err := h.LoadAsset(asset)
		if err != nil {
			t.l.release()
			t.skip(err.Error())
			t.phase = phaseOpen
			return
		}
		obj := t.l.stage.Instantiate(prefab)
		t.l.object = obj
		res.Removed = sanitize.Sanitize(obj, t.l.allow)
		res.Kind = ContentObject
		res.Object = obj
	}

	for _, r := range res.Removed {
		log.Printf("[%s] Removing %s from %s", t.short(), r.Tag, r.Node)
	}

	t.l.sequence++
	res.Sequence = t.l.sequence
	res.Skipped = t.skipped
	t.result = res
	t.finish()
}

// skip records an unusable candidate; the next Step tries the following one
func (t *Task) skip(reason string) {
	log.Printf("[%s] Skipping %s: %s", t.short(), t.cand, reason)
	t.skipped = append(t.skipped, t.cand)
	t.handle = nil
}

func (t *Task) fail() {
	t.l.release()
	t.err = fmt.Errorf("%w: tried %d candidate(s)", ErrNoUsableBundle, t.attempts)
	t.result = LoadResult{ID: t.id, Index: -1, Skipped: t.skipped}
	log.Printf("[%s] Rotation failed: %v", t.short(), t.err)
	t.finish()
}

// Abort ends an unfinished task with err, releasing anything it made live
func (t *Task) Abort(err error) {
	if t.phase == phaseDone {
		return
	}
	t.l.release()
	t.err = fmt.Errorf("rotation aborted: %w", err)
	t.result = LoadResult{ID: t.id, Index: -1, Skipped: t.skipped}
	log.Printf("[%s] %v", t.short(), t.err)
	t.finish()
}

func (t *Task) finish() {
	t.phase = phaseDone
	t.l.active = nil
}

func (t *Task) short() string {
	if len(t.id) > 8 {
		return t.id[:8]
	}
	return t.id
}
