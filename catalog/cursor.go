package catalog

// Cursor is the rotation position over a catalog, kept as a next-load pointer
// Next hands out the index to load and steps past it; Back rewinds two places so the
// following Next lands on the candidate before the one currently shown
type Cursor struct {
	cat  *Catalog
	next int
}

// NewCursor starts at the first candidate
func NewCursor(cat *Catalog) *Cursor {
	return &Cursor{cat: cat}
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}

// Next returns the index to load and advances the pointer, or -1 for an empty catalog
func (c *Cursor) Next() int {
	n := c.cat.Len()
	if n == 0 {
		return -1
	}
	idx := wrap(c.next, n)
	c.next = wrap(idx+1, n)
	return idx
}

// Back rewinds the pointer by two positions
func (c *Cursor) Back() {
	n := c.cat.Len()
	if n == 0 {
		return
	}
	c.next = wrap(c.next-2, n)
}
