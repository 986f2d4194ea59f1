package avatar

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/holo-carousel/bundle"
)

func sdk2Avatar() *bundle.Node {
	return &bundle.Node{
		Name: "Legacy",
		Components: []*bundle.Component{
			{Kind: bundle.KindAvatarDescriptor, Tag: "avatar-descriptor", SDK: 2, View: bundle.Vec3{Y: 1.2}},
		},
		Children: []*bundle.Node{
			{Name: "Head", Children: []*bundle.Node{
				{Name: "LeftEye", Position: bundle.Vec3{X: -0.1, Y: 1.1}},
				{Name: "RightEye", Position: bundle.Vec3{X: 0.1, Y: 1.1}},
			}},
		},
	}
}

func TestInspect(t *testing.T) {
	t.Run("sdk3", func(t *testing.T) {
		root := bundle.NewTestAvatar("Fox")
		p := Inspect(root)
		assert.Equal(t, SDK3, p.SDK)
		assert.Equal(t, bundle.Vec3{Y: 1.6, Z: 0.1}, p.View)
		require.NotNil(t, p.LeftEye)
		assert.Equal(t, "LeftEye", p.LeftEye.Name)
		assert.True(t, p.EyeLook())
		assert.Equal(t, "SDK: 3", p.SDK.Label())
		assert.Equal(t, "Eye Look: Yes", p.EyeLookLabel())
	})

	t.Run("sdk2 by eye names", func(t *testing.T) {
		p := Inspect(sdk2Avatar())
		assert.Equal(t, SDK2, p.SDK)
		assert.Equal(t, 1.2, p.View.Y)
		assert.True(t, p.EyeLook())
		assert.Equal(t, "SDK: 2", p.SDK.Label())
	})

	t.Run("sdk3 wins over sdk2", func(t *testing.T) {
		root := sdk2Avatar()
		root.Components = append(root.Components, &bundle.Component{
			Kind: bundle.KindAvatarDescriptor, SDK: 3, View: bundle.Vec3{Y: 1.7},
		})
		p := Inspect(root)
		assert.Equal(t, SDK3, p.SDK)
		assert.Equal(t, 1.7, p.View.Y)
		assert.False(t, p.EyeLook(), "sdk3 descriptor names no eyes")
	})

	t.Run("unknown", func(t *testing.T) {
		root := &bundle.Node{Name: "Prop", Position: bundle.Vec3{Y: 4}}
		p := Inspect(root)
		assert.Equal(t, SDKUnknown, p.SDK)
		assert.Equal(t, bundle.Vec3{}, p.View)
		assert.Equal(t, "SDK: Unknown", p.SDK.Label())
		assert.Equal(t, "Eye Look: No", p.EyeLookLabel())
	})

	t.Run("nil root", func(t *testing.T) {
		assert.Equal(t, Profile{}, Inspect(nil))
	})
}

func TestCamera(t *testing.T) {
	c := NewCamera(0)
	assert.Equal(t, DefaultCameraDistance, c.Position.Z)
	assert.Equal(t, DefaultCameraSize, c.Size)

	view := bundle.Vec3{Y: 1.6}
	c.Place(view)
	assert.InDelta(t, 1.44, c.Height(), 1e-9)

	c.Zoom(view, 1.5)
	assert.InDelta(t, 1.6/1.5, c.Size, 1e-9)

	tests := []struct {
		name string
		view bundle.Vec3
		zoom float64
	}{
		{"zero zoom", bundle.Vec3{Y: 1.6}, 0},
		{"tiny zoom", bundle.Vec3{Y: 1.6}, 0.01},
		{"view at origin", bundle.Vec3{}, 1.5},
		{"negative view", bundle.Vec3{Y: -1}, 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera(2)
			cam.Size = 3
			cam.Zoom(tt.view, tt.zoom)
			assert.Equal(t, 3.0, cam.Size)
		})
	}
}

func TestTrack(t *testing.T) {
	root := bundle.NewTestAvatar("Fox")
	p := Inspect(root)

	target := bundle.Vec3{X: -0.03, Y: 1.55, Z: 2.08}
	p.Track(target)
	assert.InDelta(t, 1.0, p.LeftEye.Facing.Z, 1e-9)
	assert.InDelta(t, 1.0, p.RightEye.Facing.Len(), 1e-9)

	// Target at the eye keeps the previous facing
	LookAt(p.LeftEye, p.LeftEye.Position)
	assert.InDelta(t, 1.0, p.LeftEye.Facing.Z, 1e-9)

	LookAt(nil, target)
}

func TestApplyClip(t *testing.T) {
	root := bundle.NewTestAvatar("Fox")
	assert.True(t, ApplyClip(root, "wave"))
	assert.Equal(t, "wave", root.Component(bundle.KindAnimator).Clip)

	assert.False(t, ApplyClip(sdk2Avatar(), "wave"))
	assert.False(t, ApplyClip(root, ""))
	assert.False(t, ApplyClip(nil, "wave"))
}

func TestPicker(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	p := NewPicker(rng, []string{"dawn", "dusk", "night"}, nil)

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		s, ok := p.Skybox()
		require.True(t, ok)
		seen[s] = true
	}
	assert.Len(t, seen, 3, "every skybox is eligible including the last")

	_, ok := p.Clip()
	assert.False(t, ok)

	empty := NewPicker(nil, nil, nil)
	_, ok = empty.Skybox()
	assert.False(t, ok)
}
