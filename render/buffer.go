package render

// Cell is one terminal cell before compositing
type Cell struct {
	Rune rune
	Fg   RGB
	Bg   RGB
}

// Buffer is a row-major cell grid the display composes a frame into
type Buffer struct {
	cells  []Cell
	width  int
	height int
}

// NewBuffer creates a buffer with the specified dimensions
func NewBuffer(width, height int) *Buffer {
	b := &Buffer{}
	b.Resize(width, height)
	return b
}

// Resize adjusts buffer dimensions, reallocating only if capacity is insufficient
func (b *Buffer) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	size := width * height
	if cap(b.cells) < size {
		b.cells = make([]Cell, size)
	} else {
		b.cells = b.cells[:size]
	}
	b.width = width
	b.height = height
}

// Size returns the buffer dimensions
func (b *Buffer) Size() (int, int) { return b.width, b.height }

// Fill sets every cell to a blank with the given background
func (b *Buffer) Fill(bg RGB) {
	blank := Cell{Rune: ' ', Fg: DefaultFg, Bg: bg}
	for i := range b.cells {
		b.cells[i] = blank
	}
}

// Set writes a cell; out-of-bounds writes are dropped
func (b *Buffer) Set(x, y int, r rune, fg RGB) {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return
	}
	c := &b.cells[y*b.width+x]
	c.Rune = r
	c.Fg = fg
}

// Text writes s starting at x,y and returns the column after the last rune
func (b *Buffer) Text(x, y int, s string, fg RGB) int {
	for _, r := range s {
		b.Set(x, y, r, fg)
		x++
	}
	return x
}

// Get returns the cell at x,y
func (b *Buffer) Get(x, y int) Cell {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return Cell{}
	}
	return b.cells[y*b.width+x]
}

// Composite blends an overlay color over every cell
func (b *Buffer) Composite(overlay RGBA) {
	if overlay.A <= 0 {
		return
	}
	for i := range b.cells {
		b.cells[i].Fg = Over(overlay, b.cells[i].Fg)
		b.cells[i].Bg = Over(overlay, b.cells[i].Bg)
	}
}
