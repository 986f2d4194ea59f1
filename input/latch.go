package input

import "sync"

// Latch collects button presses from the event goroutine until the frame loop polls them
// Each button reads as pressed at most once per poll regardless of key repeat
type Latch struct {
	mu      sync.Mutex
	pressed [buttonCount]bool
}

// Press records a button press
func (l *Latch) Press(b Button) {
	if b == ButtonNone || b >= buttonCount {
		return
	}
	l.mu.Lock()
	l.pressed[b] = true
	l.mu.Unlock()
}

// Poll returns the buttons pressed since the last poll and clears them
func (l *Latch) Poll() Snapshot {
	l.mu.Lock()
	s := Snapshot{pressed: l.pressed}
	l.pressed = [buttonCount]bool{}
	l.mu.Unlock()
	return s
}

// Snapshot is the set of buttons pressed during one frame
type Snapshot struct {
	pressed [buttonCount]bool
}

// Down reports whether b went down this frame
func (s Snapshot) Down(b Button) bool {
	if b >= buttonCount {
		return false
	}
	return s.pressed[b]
}

// Empty reports whether nothing was pressed
func (s Snapshot) Empty() bool {
	return s.pressed == [buttonCount]bool{}
}
