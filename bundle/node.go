package bundle

import "math"

// Candidate is a discovered bundle file, identified by its path
type Candidate string

// Path returns the filesystem path of the candidate
func (c Candidate) Path() string { return string(c) }

// Vec3 is a position or direction in content space
type Vec3 struct {
	X, Y, Z float64
}

// Sub returns v - o
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Len returns the euclidean length
func (v Vec3) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalize returns the unit vector, or the zero vector when v has no length
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return Vec3{}
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}

// Component is a capability attached to a node
// Fields beyond Kind and Tag are only meaningful for the kinds that use them
type Component struct {
	Kind Kind
	Tag  string // Tag as written in the bundle, kept for logging unknown kinds

	// Avatar descriptor
	SDK      int
	View     Vec3
	LeftEye  string
	RightEye string

	// Animator
	Clip string
}

// Node is one object in a content tree
type Node struct {
	Name       string
	Position   Vec3
	Facing     Vec3 // Look direction, set by eye tracking
	Components []*Component
	Children   []*Node
}

// Component returns the first component of the given kind, or nil
func (n *Node) Component(kind Kind) *Component {
	for _, c := range n.Components {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// Walk returns the node and all descendants in depth-first pre-order
// The returned slice is a snapshot; mutating the tree afterwards does not affect it
func (n *Node) Walk() []*Node {
	if n == nil {
		return nil
	}
	out := make([]*Node, 0, 8)
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, cur)
		// Push in reverse to keep pre-order
		for i := len(cur.Children) - 1; i >= 0; i-- {
			if cur.Children[i] != nil {
				stack = append(stack, cur.Children[i])
			}
		}
	}
	return out
}

// Find returns the first node in the subtree with the given name, or nil
func (n *Node) Find(name string) *Node {
	if name == "" {
		return nil
	}
	for _, node := range n.Walk() {
		if node.Name == name {
			return node
		}
	}
	return nil
}

// Clone deep-copies the subtree; used to instantiate a prefab without touching the bundle's copy
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{
		Name:     n.Name,
		Position: n.Position,
		Facing:   n.Facing,
	}
	if len(n.Components) > 0 {
		c.Components = make([]*Component, len(n.Components))
		for i, comp := range n.Components {
			cp := *comp
			c.Components[i] = &cp
		}
	}
	if len(n.Children) > 0 {
		c.Children = make([]*Node, 0, len(n.Children))
		for _, child := range n.Children {
			if child != nil {
				c.Children = append(c.Children, child.Clone())
			}
		}
	}
	return c
}
