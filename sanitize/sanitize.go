// Package sanitize strips untrusted bundle content down to an allow-listed set of capability kinds.
package sanitize

import "github.com/lixenwraith/holo-carousel/bundle"

// AllowList is indexed by bundle.Kind; true means the kind survives sanitization
type AllowList [bundle.KindCount]bool

// DefaultAllowList is the fixed set of kinds an avatar may keep
// Scripts, audio, cameras, lights and unknown kinds are always removed
var DefaultAllowList = NewAllowList(
	bundle.KindTransform,
	bundle.KindAnimator,
	bundle.KindRigidbody,
	bundle.KindRenderer,
	bundle.KindMeshRenderer,
	bundle.KindSkinnedMeshRenderer,
	bundle.KindTrailRenderer,
	bundle.KindMeshFilter,
	bundle.KindParticleSystem,
	bundle.KindParticleSystemRenderer,
	bundle.KindCloth,
	bundle.KindCollider,
	bundle.KindJoint,
	bundle.KindAimConstraint,
	bundle.KindParentConstraint,
	bundle.KindPositionConstraint,
	bundle.KindRotationConstraint,
	bundle.KindScaleConstraint,
	bundle.KindDynamicBone,
	bundle.KindDynamicBoneCollider,
	bundle.KindAvatarDescriptor,
)

// NewAllowList builds a table from the given kinds
func NewAllowList(kinds ...bundle.Kind) AllowList {
	var a AllowList
	for _, k := range kinds {
		if int(k) < len(a) {
			a[k] = true
		}
	}
	return a
}

// Allows reports whether the kind survives
func (a *AllowList) Allows(k bundle.Kind) bool {
	if int(k) >= len(a) {
		return false
	}
	return a[k]
}

// Removal records one stripped component
type Removal struct {
	Node string
	Tag  string
}

// Sanitize removes every component on root and its descendants whose kind is not allowed
// The node set is collected before any mutation
func Sanitize(root *bundle.Node, allow *AllowList) []Removal {
	if root == nil {
		return nil
	}
	if allow == nil {
		allow = &DefaultAllowList
	}

	var removed []Removal
	for _, node := range root.Walk() {
		kept := node.Components[:0]
		for _, c := range node.Components {
			if c == nil {
				continue
			}
			if allow.Allows(c.Kind) {
				kept = append(kept, c)
				continue
			}
			tag := c.Tag
			if tag == "" {
				tag = c.Kind.String()
			}
			removed = append(removed, Removal{Node: node.Name, Tag: tag})
		}
		// Drop references held past the new length
		for i := len(kept); i < len(node.Components); i++ {
			node.Components[i] = nil
		}
		node.Components = kept
	}
	return removed
}
