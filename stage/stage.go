// Package stage tracks which content is live: additively loaded scenes and instantiated objects.
package stage

import (
	"fmt"
	"log"

	"github.com/lixenwraith/holo-carousel/bundle"
)

// Scene is an additively loaded scene
type Scene struct {
	Path  string
	Roots []*bundle.Node
}

// Stage holds live content in load order
// Not safe for concurrent use; the frame loop owns it
type Stage struct {
	scenes  []*Scene
	objects []*bundle.Node
}

// New creates an empty stage
func New() *Stage {
	return &Stage{}
}

// LoadScene loads a scene from an open bundle on top of whatever is already live
func (s *Stage) LoadScene(h bundle.Handle, path string) (*Scene, error) {
	if s.findScene(path) >= 0 {
		return nil, fmt.Errorf("scene %q already loaded", path)
	}
	roots, err := h.LoadScene(path)
	if err != nil {
		return nil, fmt.Errorf("load scene %q: %w", path, err)
	}
	sc := &Scene{Path: path, Roots: roots}
	s.scenes = append(s.scenes, sc)
	log.Printf("Loaded scene %s (%d roots)", path, len(roots))
	return sc, nil
}

// UnloadScene removes a scene; unknown paths are ignored
func (s *Stage) UnloadScene(path string) {
	i := s.findScene(path)
	if i < 0 {
		return
	}
	s.scenes = append(s.scenes[:i], s.scenes[i+1:]...)
	log.Printf("Unloading %s", path)
}

// Instantiate spawns a copy of prefab at the origin
func (s *Stage) Instantiate(prefab *bundle.Node) *bundle.Node {
	obj := prefab.Clone()
	obj.Position = bundle.Vec3{}
	s.objects = append(s.objects, obj)
	return obj
}

// Destroy removes an instantiated object; unknown objects are ignored
func (s *Stage) Destroy(obj *bundle.Node) {
	for i, o := range s.objects {
		if o == obj {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			log.Printf("Destroying %s", obj.Name)
			return
		}
	}
}

// Live returns the number of live scenes plus objects
func (s *Stage) Live() int {
	return len(s.scenes) + len(s.objects)
}

// Roots returns every live root node, scenes first
func (s *Stage) Roots() []*bundle.Node {
	var out []*bundle.Node
	for _, sc := range s.scenes {
		out = append(out, sc.Roots...)
	}
	return append(out, s.objects...)
}

func (s *Stage) findScene(path string) int {
	for i, sc := range s.scenes {
		if sc.Path == path {
			return i
		}
	}
	return -1
}
