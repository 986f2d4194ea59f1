package stage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/holo-carousel/bundle"
)

func openContents(t *testing.T, c bundle.Contents) bundle.Handle {
	t.Helper()
	data, err := bundle.Encode(c)
	require.NoError(t, err)
	h, err := bundle.Decode(data)
	require.NoError(t, err)
	return h
}

func TestSceneLifecycle(t *testing.T) {
	s := New()
	h := openContents(t, bundle.TestSceneContents("Lobby"))

	sc, err := s.LoadScene(h, "scenes/Lobby.scene")
	require.NoError(t, err)
	assert.Equal(t, 1, s.Live())
	require.Len(t, sc.Roots, 1)
	require.Len(t, s.Roots(), 1)
	assert.Equal(t, "Lobby-world", s.Roots()[0].Name)

	_, err = s.LoadScene(h, "scenes/Lobby.scene")
	assert.Error(t, err, "double load")

	_, err = s.LoadScene(h, "scenes/Missing.scene")
	assert.ErrorIs(t, err, bundle.ErrMissingContent)

	s.UnloadScene("scenes/Lobby.scene")
	s.UnloadScene("scenes/Lobby.scene")
	assert.Equal(t, 0, s.Live())
	assert.Empty(t, s.Roots())
}

func TestInstantiateAndDestroy(t *testing.T) {
	s := New()
	prefab := bundle.NewTestAvatar("Fox")
	prefab.Position = bundle.Vec3{X: 4, Y: 2}

	obj := s.Instantiate(prefab)
	assert.NotSame(t, prefab, obj)
	assert.Equal(t, bundle.Vec3{}, obj.Position)
	assert.Equal(t, 4.0, prefab.Position.X, "prefab untouched")
	require.Len(t, s.Roots(), 1)
	assert.Same(t, obj, s.Roots()[0])

	s.Destroy(prefab)
	assert.Equal(t, 1, s.Live(), "destroying a non-live node is ignored")

	s.Destroy(obj)
	assert.Equal(t, 0, s.Live())
	assert.Empty(t, s.Roots())
}

func TestRootsOrder(t *testing.T) {
	s := New()
	obj := s.Instantiate(&bundle.Node{Name: "obj"})
	_, err := s.LoadScene(openContents(t, bundle.TestSceneContents("S")), "scenes/S.scene")
	require.NoError(t, err)

	roots := s.Roots()
	require.Len(t, roots, 2)
	assert.Equal(t, "S-world", roots[0].Name)
	assert.Same(t, obj, roots[1])
}
