package input

import "github.com/gdamore/tcell/v2"

// Button is a user action the director reacts to
type Button uint8

const (
	ButtonNone Button = iota
	ButtonSkipForward
	ButtonSkipBackward
	ButtonPauseToggle
	ButtonQuit

	buttonCount
)

var buttonNames = [buttonCount]string{
	ButtonNone:         "none",
	ButtonSkipForward:  "skip-forward",
	ButtonSkipBackward: "skip-backward",
	ButtonPauseToggle:  "pause",
	ButtonQuit:         "quit",
}

func (b Button) String() string {
	if b >= buttonCount {
		return "unknown"
	}
	return buttonNames[b]
}

// KeyTable maps keys to buttons
type KeyTable struct {
	SpecialKeys map[tcell.Key]Button
	Runes       map[rune]Button
}

// DefaultKeyTable returns the default key bindings
func DefaultKeyTable() *KeyTable {
	return &KeyTable{
		SpecialKeys: map[tcell.Key]Button{
			tcell.KeyRight:  ButtonSkipForward,
			tcell.KeyLeft:   ButtonSkipBackward,
			tcell.KeyEscape: ButtonQuit,
			tcell.KeyCtrlC:  ButtonQuit,
		},
		Runes: map[rune]Button{
			'n': ButtonSkipForward,
			'l': ButtonSkipForward,
			'p': ButtonSkipBackward,
			'h': ButtonSkipBackward,
			' ': ButtonPauseToggle,
			'q': ButtonQuit,
		},
	}
}

// Map resolves a key event to a button, ButtonNone if unbound
func (t *KeyTable) Map(ev *tcell.EventKey) Button {
	if ev == nil {
		return ButtonNone
	}
	if ev.Key() == tcell.KeyRune {
		return t.Runes[ev.Rune()]
	}
	return t.SpecialKeys[ev.Key()]
}
