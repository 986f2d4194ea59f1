package bundle

// NewTestAvatar builds a small avatar tree for tests: an SDK3 descriptor with eyes,
// an animator, renderers, and one script and one audio source that sanitization must strip
func NewTestAvatar(name string) *Node {
	leftEye := &Node{Name: "LeftEye", Position: Vec3{-0.03, 1.55, 0.08}, Components: []*Component{{Kind: KindTransform, Tag: "transform"}}}
	rightEye := &Node{Name: "RightEye", Position: Vec3{0.03, 1.55, 0.08}, Components: []*Component{{Kind: KindTransform, Tag: "transform"}}}
	head := &Node{
		Name:     "Head",
		Position: Vec3{0, 1.5, 0},
		Components: []*Component{
			{Kind: KindTransform, Tag: "transform"},
			{Kind: KindAudioSource, Tag: "audio-source"},
		},
		Children: []*Node{leftEye, rightEye},
	}
	body := &Node{
		Name: "Body",
		Components: []*Component{
			{Kind: KindTransform, Tag: "transform"},
			{Kind: KindSkinnedMeshRenderer, Tag: "skinned-mesh-renderer"},
		},
	}
	return &Node{
		Name: name,
		Components: []*Component{
			{Kind: KindTransform, Tag: "transform"},
			{Kind: KindAnimator, Tag: "animator"},
			{Kind: KindAvatarDescriptor, Tag: "avatar-descriptor", SDK: 3, View: Vec3{0, 1.6, 0.1}, LeftEye: "LeftEye", RightEye: "RightEye"},
			{Kind: KindScript, Tag: "script"},
		},
		Children: []*Node{head, body},
	}
}

// TestSceneContents returns contents holding one scene
func TestSceneContents(name string) Contents {
	return Contents{
		Name: name,
		Scenes: []Scene{{
			Path:  "scenes/" + name + ".scene",
			Roots: []*Node{{Name: name + "-world", Components: []*Component{{Kind: KindTransform, Tag: "transform"}, {Kind: KindLight, Tag: "light"}}}},
		}},
	}
}

// TestAssetContents returns contents holding one avatar prefab
func TestAssetContents(name string) Contents {
	return Contents{
		Name:   name,
		Assets: []Asset{{Path: "assets/" + name + ".prefab", Root: NewTestAvatar(name)}},
	}
}
