package bundle

// Kind identifies a capability attached to a content node
// Tags in bundle files resolve to a Kind at decode time, unknown tags map to KindUnknown
type Kind uint8

const (
	KindUnknown Kind = iota

	// Structural and rendering
	KindTransform
	KindAnimator
	KindRigidbody
	KindRenderer
	KindMeshRenderer
	KindSkinnedMeshRenderer
	KindTrailRenderer
	KindMeshFilter
	KindParticleSystem
	KindParticleSystemRenderer
	KindCloth
	KindCollider
	KindJoint

	// Constraints
	KindAimConstraint
	KindParentConstraint
	KindPositionConstraint
	KindRotationConstraint
	KindScaleConstraint

	// Secondary motion
	KindDynamicBone
	KindDynamicBoneCollider

	// Avatar metadata
	KindAvatarDescriptor

	// Behaviors that never survive sanitization
	KindScript
	KindAudioSource
	KindCamera
	KindLight

	kindCount
)

// KindCount is the number of defined kinds, usable as a table size
const KindCount = int(kindCount)

var kindTags = [kindCount]string{
	KindUnknown:                "unknown",
	KindTransform:              "transform",
	KindAnimator:               "animator",
	KindRigidbody:              "rigidbody",
	KindRenderer:               "renderer",
	KindMeshRenderer:           "mesh-renderer",
	KindSkinnedMeshRenderer:    "skinned-mesh-renderer",
	KindTrailRenderer:          "trail-renderer",
	KindMeshFilter:             "mesh-filter",
	KindParticleSystem:         "particle-system",
	KindParticleSystemRenderer: "particle-system-renderer",
	KindCloth:                  "cloth",
	KindCollider:               "collider",
	KindJoint:                  "joint",
	KindAimConstraint:          "aim-constraint",
	KindParentConstraint:       "parent-constraint",
	KindPositionConstraint:     "position-constraint",
	KindRotationConstraint:     "rotation-constraint",
	KindScaleConstraint:        "scale-constraint",
	KindDynamicBone:            "dynamic-bone",
	KindDynamicBoneCollider:    "dynamic-bone-collider",
	KindAvatarDescriptor:       "avatar-descriptor",
	KindScript:                 "script",
	KindAudioSource:            "audio-source",
	KindCamera:                 "camera",
	KindLight:                  "light",
}

var tagKinds = func() map[string]Kind {
	m := make(map[string]Kind, kindCount)
	for k, tag := range kindTags {
		m[tag] = Kind(k)
	}
	return m
}()

// ParseKind resolves a bundle tag, returning KindUnknown for anything unrecognized
func ParseKind(tag string) Kind {
	if k, ok := tagKinds[tag]; ok {
		return k
	}
	return KindUnknown
}

// String returns the canonical tag
func (k Kind) String() string {
	if k >= kindCount {
		return kindTags[KindUnknown]
	}
	return kindTags[k]
}
