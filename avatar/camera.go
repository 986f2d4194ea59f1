package avatar

import "github.com/lixenwraith/holo-carousel/bundle"

const (
	// HeightFactor places the camera just below eye level
	HeightFactor = 0.9

	// DefaultCameraDistance is how far in front of the avatar the camera sits
	DefaultCameraDistance = 2.0

	// DefaultCameraSize is the view size before any avatar is measured
	DefaultCameraSize = 1.0

	minZoom = 0.01
	minView = 0.01
)

// Camera is the virtual viewpoint content is presented from
type Camera struct {
	Position bundle.Vec3
	Size     float64
}

// NewCamera returns a camera at the origin height, distance units in front of the avatar
func NewCamera(distance float64) *Camera {
	if distance <= 0 {
		distance = DefaultCameraDistance
	}
	return &Camera{
		Position: bundle.Vec3{Z: distance},
		Size:     DefaultCameraSize,
	}
}

// Place moves the camera height to match the view position
func (c *Camera) Place(view bundle.Vec3) {
	c.Position.Y = view.Y * HeightFactor
}

// Zoom recomputes the view size; degenerate zoom or view heights leave it unchanged
func (c *Camera) Zoom(view bundle.Vec3, zoom float64) {
	if zoom > minZoom && view.Y > minView {
		c.Size = view.Y / zoom
	}
}

// Height returns the camera height
func (c *Camera) Height() float64 { return c.Position.Y }
