package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/holo-carousel/bundle"
)

// ErrNoDisplay is returned by Setup when the screen cannot be initialized
var ErrNoDisplay = errors.New("display not found")

// Frame is the per-frame input to Draw
type Frame struct {
	Roots []*bundle.Node
	Fade  RGBA
}

// TerminalDisplay renders live content, overlays and the fade onto a tcell screen
type TerminalDisplay struct {
	screen tcell.Screen
	buf    *Buffer

	cameraHeight float64
	cameraSize   float64

	skyName  string
	skyColor RGB

	status  string
	clock   string
	sdk     string
	eyeLook string
	version string
}

// NewTerminalDisplay wraps a screen; call Setup before drawing
func NewTerminalDisplay(screen tcell.Screen) *TerminalDisplay {
	return &TerminalDisplay{
		screen:   screen,
		buf:      NewBuffer(0, 0),
		skyColor: DefaultBg,
	}
}

// Setup initializes the screen
func (d *TerminalDisplay) Setup() error {
	if err := d.screen.Init(); err != nil {
		return fmt.Errorf("%w: %v", ErrNoDisplay, err)
	}
	d.screen.HideCursor()
	d.Resize()
	return nil
}

// Fini restores the terminal
func (d *TerminalDisplay) Fini() {
	d.screen.Fini()
}

// Resize picks up the current screen dimensions
func (d *TerminalDisplay) Resize() {
	w, h := d.screen.Size()
	d.buf.Resize(w, h)
	d.screen.Sync()
}

// SetCamera sets the virtual camera height and size
func (d *TerminalDisplay) SetCamera(height, size float64) {
	d.cameraHeight = height
	d.cameraSize = size
}

// SetSkybox sets the background
func (d *TerminalDisplay) SetSkybox(name string, color RGB) {
	d.skyName = name
	d.skyColor = color
}

func (d *TerminalDisplay) SetStatus(s string)  { d.status = s }
func (d *TerminalDisplay) SetTime(s string)    { d.clock = s }
func (d *TerminalDisplay) SetSDK(s string)     { d.sdk = s }
func (d *TerminalDisplay) SetEyeLook(s string) { d.eyeLook = s }
func (d *TerminalDisplay) SetVersion(s string) { d.version = s }

// Buffer returns the last composed frame
func (d *TerminalDisplay) Buffer() *Buffer { return d.buf }

// Draw composes and shows one frame
// Order: skybox, content, fade overlay, then text overlays so status stays readable
func (d *TerminalDisplay) Draw(f Frame) {
	w, h := d.buf.Size()
	if w == 0 || h == 0 {
		return
	}

	d.buf.Fill(d.skyColor)
	d.drawContent(f.Roots, w, h)
	d.buf.Composite(f.Fade)
	d.drawOverlays(w, h)
	d.flush(w, h)
}

type line struct {
	depth int
	name  string
	tags  string
}

func collect(n *bundle.Node, depth int, out []line) []line {
	tags := make([]string, 0, len(n.Components))
	for _, c := range n.Components {
		tags = append(tags, c.Kind.String())
	}
	out = append(out, line{depth: depth, name: n.Name, tags: strings.Join(tags, ",")})
	for _, child := range n.Children {
		if child != nil {
			out = collect(child, depth+1, out)
		}
	}
	return out
}

func (d *TerminalDisplay) drawContent(roots []*bundle.Node, w, h int) {
	var lines []line
	for _, r := range roots {
		if r != nil {
			lines = collect(r, 0, lines)
		}
	}
	if len(lines) == 0 {
		return
	}

	// Rows 0 and h-2..h-1 belong to overlays
	top := (h - len(lines)) / 2
	if top < 1 {
		top = 1
	}
	left := w / 4
	for i, ln := range lines {
		y := top + i
		if y >= h-2 {
			break
		}
		x := d.buf.Text(left+ln.depth*2, y, ln.name, ContentFg)
		if ln.tags != "" {
			d.buf.Text(x+1, y, "["+ln.tags+"]", ComponentFg)
		}
	}
}

func (d *TerminalDisplay) drawOverlays(w, h int) {
	if d.status != "" {
		d.buf.Text(0, 0, d.status, StatusFg)
	}
	if d.clock != "" {
		d.buf.Text(w-len([]rune(d.clock)), 0, d.clock, OverlayFg)
	}
	if d.sdk != "" {
		d.buf.Text(0, h-2, d.sdk, OverlayFg)
	}
	if d.eyeLook != "" {
		d.buf.Text(0, h-1, d.eyeLook, OverlayFg)
	}

	footer := fmt.Sprintf("cam %.2f/%.2f", d.cameraHeight, d.cameraSize)
	if d.skyName != "" {
		footer = d.skyName + "  " + footer
	}
	if d.version != "" {
		footer += "  " + d.version
	}
	d.buf.Text(w-len([]rune(footer)), h-1, footer, OverlayFg)
}

func (d *TerminalDisplay) flush(w, h int) {
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := d.buf.Get(x, y)
			style := tcell.StyleDefault.Foreground(RGBToTcell(c.Fg)).Background(RGBToTcell(c.Bg))
			d.screen.SetContent(x, y, c.Rune, nil, style)
		}
	}
	d.screen.Show()
}
