package bundle

import (
	"bytes"
	"fmt"
	"os"

	"github.com/h2non/filetype"
	"github.com/pelletier/go-toml/v2"
)

// Magic is the first line of every bundle file; it doubles as a TOML comment
const Magic = "#holo-bundle v1"

// MaxFileSize bounds how much of a candidate is read before it is rejected
const MaxFileSize = 64 << 20

// sniffLen is the header length handed to the type matcher
const sniffLen = 262

// TypeBundle is the filetype registration for bundle files
var TypeBundle = filetype.NewType("holobundle", "application/x-holo-bundle")

func init() {
	filetype.AddMatcher(TypeBundle, func(buf []byte) bool {
		return bytes.HasPrefix(buf, []byte(Magic))
	})
}

// Handle is an open bundle
// Loads return fresh node trees on every call so instantiated content never aliases the bundle
type Handle interface {
	Name() string
	Scenes() []string
	Assets() []string
	LoadScene(path string) ([]*Node, error)
	LoadAsset(path string) (*Node, error)
	Close() error
}

// Opener opens bundle candidates
type Opener interface {
	Open(c Candidate) (Handle, error)
}

// FileOpener reads candidates from the local filesystem
type FileOpener struct{}

// Open reads, sniffs and decodes the candidate
func (FileOpener) Open(c Candidate) (Handle, error) {
	info, err := os.Stat(c.Path())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, c, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s: is a directory", ErrCorrupt, c)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("%w: %s: %d bytes exceeds limit", ErrCorrupt, c, info.Size())
	}

	data, err := os.ReadFile(c.Path())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, c, err)
	}

	h, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c, err)
	}
	return h, nil
}

// Sniff checks the header of a bundle file
// Any other recognised file type, or an unrecognised header, is corrupt
func Sniff(data []byte) error {
	head := data
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	kind, err := filetype.Match(head)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if kind == TypeBundle {
		return nil
	}
	if kind == filetype.Unknown {
		return fmt.Errorf("%w: missing bundle header", ErrCorrupt)
	}
	return fmt.Errorf("%w: unexpected content type %s", ErrCorrupt, kind.MIME.Value)
}

// Decode parses bundle bytes into an open handle
func Decode(data []byte) (Handle, error) {
	if err := Sniff(data); err != nil {
		return nil, err
	}

	var m manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	h := &fileHandle{
		name:   m.Name,
		scenes: make(map[string][]nodeEntry, len(m.Scenes)),
		assets: make(map[string]*nodeEntry, len(m.Assets)),
	}
	for _, s := range m.Scenes {
		if s.Path == "" {
			continue
		}
		if _, dup := h.scenes[s.Path]; !dup {
			h.sceneOrder = append(h.sceneOrder, s.Path)
		}
		h.scenes[s.Path] = s.Roots
	}
	for i := range m.Assets {
		a := &m.Assets[i]
		if a.Path == "" || a.Root == nil {
			continue
		}
		if _, dup := h.assets[a.Path]; !dup {
			h.assetOrder = append(h.assetOrder, a.Path)
		}
		h.assets[a.Path] = a.Root
	}
	return h, nil
}

// Contents describes a bundle for Encode
type Contents struct {
	Name   string
	Scenes []Scene
	Assets []Asset
}

// Scene is a named scene with its root objects
type Scene struct {
	Path  string
	Roots []*Node
}

// Asset is a named prefab
type Asset struct {
	Path string
	Root *Node
}

// Encode serializes contents into the bundle file format
func Encode(c Contents) ([]byte, error) {
	m := manifest{Name: c.Name}
	for _, s := range c.Scenes {
		se := sceneEntry{Path: s.Path}
		for _, r := range s.Roots {
			se.Roots = append(se.Roots, entryOf(r))
		}
		m.Scenes = append(m.Scenes, se)
	}
	for _, a := range c.Assets {
		ae := assetEntry{Path: a.Path}
		if a.Root != nil {
			e := entryOf(a.Root)
			ae.Root = &e
		}
		m.Assets = append(m.Assets, ae)
	}

	body, err := toml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode bundle: %w", err)
	}
	out := make([]byte, 0, len(Magic)+1+len(body))
	out = append(out, Magic...)
	out = append(out, '\n')
	return append(out, body...), nil
}

// WriteFile encodes contents to path
func WriteFile(path string, c Contents) error {
	data, err := Encode(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

type manifest struct {
	Name   string       `toml:"name,omitempty"`
	Scenes []sceneEntry `toml:"scenes,omitempty"`
	Assets []assetEntry `toml:"assets,omitempty"`
}

type sceneEntry struct {
	Path  string      `toml:"path"`
	Roots []nodeEntry `toml:"roots,omitempty"`
}

type assetEntry struct {
	Path string     `toml:"path"`
	Root *nodeEntry `toml:"root,omitempty"`
}

type nodeEntry struct {
	Name       string           `toml:"name"`
	Position   [3]float64       `toml:"position"`
	Components []componentEntry `toml:"components,omitempty"`
	Children   []nodeEntry      `toml:"children,omitempty"`
}

type componentEntry struct {
	Kind     string     `toml:"kind"`
	SDK      int        `toml:"sdk,omitempty"`
	View     [3]float64 `toml:"view"`
	LeftEye  string     `toml:"left_eye,omitempty"`
	RightEye string     `toml:"right_eye,omitempty"`
	Clip     string     `toml:"clip,omitempty"`
}

func entryOf(n *Node) nodeEntry {
	e := nodeEntry{
		Name:     n.Name,
		Position: [3]float64{n.Position.X, n.Position.Y, n.Position.Z},
	}
	for _, c := range n.Components {
		tag := c.Tag
		if tag == "" {
			tag = c.Kind.String()
		}
		e.Components = append(e.Components, componentEntry{
			Kind:     tag,
			SDK:      c.SDK,
			View:     [3]float64{c.View.X, c.View.Y, c.View.Z},
			LeftEye:  c.LeftEye,
			RightEye: c.RightEye,
			Clip:     c.Clip,
		})
	}
	for _, child := range n.Children {
		if child != nil {
			e.Children = append(e.Children, entryOf(child))
		}
	}
	return e
}

func (e *nodeEntry) build() *Node {
	n := &Node{
		Name:     e.Name,
		Position: Vec3{e.Position[0], e.Position[1], e.Position[2]},
	}
	for _, ce := range e.Components {
		n.Components = append(n.Components, &Component{
			Kind:     ParseKind(ce.Kind),
			Tag:      ce.Kind,
			SDK:      ce.SDK,
			View:     Vec3{ce.View[0], ce.View[1], ce.View[2]},
			LeftEye:  ce.LeftEye,
			RightEye: ce.RightEye,
			Clip:     ce.Clip,
		})
	}
	for i := range e.Children {
		n.Children = append(n.Children, e.Children[i].build())
	}
	return n
}

type fileHandle struct {
	name       string
	sceneOrder []string
	assetOrder []string
	scenes     map[string][]nodeEntry
	assets     map[string]*nodeEntry
	closed     bool
}

func (h *fileHandle) Name() string { return h.name }

func (h *fileHandle) Scenes() []string {
	if h.closed {
		return nil
	}
	return append([]string(nil), h.sceneOrder...)
}

func (h *fileHandle) Assets() []string {
	if h.closed {
		return nil
	}
	return append([]string(nil), h.assetOrder...)
}

func (h *fileHandle) LoadScene(path string) ([]*Node, error) {
	if h.closed {
		return nil, ErrClosed
	}
	entries, ok := h.scenes[path]
	if !ok {
		return nil, fmt.Errorf("scene %q: %w", path, ErrMissingContent)
	}
	roots := make([]*Node, 0, len(entries))
	for i := range entries {
		roots = append(roots, entries[i].build())
	}
	return roots, nil
}

func (h *fileHandle) LoadAsset(path string) (*Node, error) {
	if h.closed {
		return nil, ErrClosed
	}
	e, ok := h.assets[path]
	if !ok {
		return nil, fmt.Errorf("asset %q: %w", path, ErrMissingContent)
	}
	return e.build(), nil
}

// Close releases the decoded content; safe to call more than once
func (h *fileHandle) Close() error {
	h.closed = true
	h.scenes = nil
	h.assets = nil
	return nil
}
