// Package avatar reads descriptor data from a live content tree and derives camera placement,
// eye tracking and per-load presentation choices from it.
package avatar

import (
	"fmt"

	"github.com/lixenwraith/holo-carousel/bundle"
)

// SDK is the descriptor generation an avatar was built with
type SDK int

const (
	SDKUnknown SDK = 0
	SDK2       SDK = 2
	SDK3       SDK = 3
)

// Label is the overlay text for the SDK
func (s SDK) Label() string {
	switch s {
	case SDK2, SDK3:
		return fmt.Sprintf("SDK: %d", int(s))
	default:
		return "SDK: Unknown"
	}
}

// Profile is what Inspect found on a content root
type Profile struct {
	SDK      SDK
	View     bundle.Vec3
	LeftEye  *bundle.Node
	RightEye *bundle.Node
}

// EyeLook reports whether both eyes were resolved
func (p Profile) EyeLook() bool {
	return p.LeftEye != nil && p.RightEye != nil
}

// EyeLookLabel is the overlay text for eye tracking support
func (p Profile) EyeLookLabel() string {
	if p.EyeLook() {
		return "Eye Look: Yes"
	}
	return "Eye Look: No"
}

// Inspect reads the avatar descriptor on root
// An SDK3 descriptor takes precedence over SDK2; without either the view sits at the origin
func Inspect(root *bundle.Node) Profile {
	var p Profile
	if root == nil {
		return p
	}

	var sdk2, sdk3 *bundle.Component
	for _, c := range root.Components {
		if c.Kind != bundle.KindAvatarDescriptor {
			continue
		}
		switch SDK(c.SDK) {
		case SDK3:
			if sdk3 == nil {
				sdk3 = c
			}
		case SDK2:
			if sdk2 == nil {
				sdk2 = c
			}
		}
	}

	switch {
	case sdk3 != nil:
		p.SDK = SDK3
		p.View = sdk3.View
		p.LeftEye = root.Find(sdk3.LeftEye)
		p.RightEye = root.Find(sdk3.RightEye)
	case sdk2 != nil:
		p.SDK = SDK2
		p.View = sdk2.View
		p.LeftEye = root.Find("LeftEye")
		p.RightEye = root.Find("RightEye")
	}
	return p
}

// LookAt points node at target; a node at the target keeps its facing
func LookAt(node *bundle.Node, target bundle.Vec3) {
	if node == nil {
		return
	}
	dir := target.Sub(node.Position)
	if dir.Len() == 0 {
		return
	}
	node.Facing = dir.Normalize()
}

// Track points both eyes of p at target
func (p Profile) Track(target bundle.Vec3) {
	LookAt(p.LeftEye, target)
	LookAt(p.RightEye, target)
}

// ApplyClip sets the animation clip on the root animator and reports whether one was present
func ApplyClip(root *bundle.Node, clip string) bool {
	if root == nil || clip == "" {
		return false
	}
	anim := root.Component(bundle.KindAnimator)
	if anim == nil {
		return false
	}
	anim.Clip = clip
	return true
}
