package catalog

import (
	"fmt"
	"io/fs"
	"iter"
	"log"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"

	"github.com/lixenwraith/holo-carousel/bundle"
)

// DefaultPattern is the file name every cached bundle is stored under
const DefaultPattern = "__data"

// Matcher decides whether a file name is a bundle candidate
type Matcher interface {
	Match(name string) bool
}

// CompilePattern compiles a file name glob such as "__data" or "*.bundle"
func CompilePattern(pattern string) (glob.Glob, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", pattern, err)
	}
	return g, nil
}

// Discover walks root recursively and yields each file whose name matches as it is found
// The sequence is lazy and restartable: every range starts a fresh walk, and breaking out
// of the loop stops the walk. A missing root yields a single ErrNotFound.
func Discover(root string, match Matcher) iter.Seq2[bundle.Candidate, error] {
	return func(yield func(bundle.Candidate, error) bool) {
		info, err := os.Stat(root)
		if err != nil {
			yield("", fmt.Errorf("%w: %s: %v", ErrNotFound, root, err))
			return
		}
		if !info.IsDir() {
			yield("", fmt.Errorf("%w: %s is not a directory", ErrNotFound, root))
			return
		}

		stopped := false
		walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == root {
					return err
				}
				log.Printf("Skipping unreadable path %s: %v", path, err)
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() || !match.Match(d.Name()) {
				return nil
			}
			if !yield(bundle.Candidate(path), nil) {
				stopped = true
				return fs.SkipAll
			}
			return nil
		})
		if walkErr != nil && !stopped {
			yield("", fmt.Errorf("%w: %s: %v", ErrNotFound, root, walkErr))
		}
	}
}

// Scan drains Discover into a new catalog
// Zero candidates is an error: rotation must never start on an empty catalog
func Scan(root string, match Matcher) (*Catalog, error) {
	cat := New()
	for cand, err := range Discover(root, match) {
		if err != nil {
			return nil, err
		}
		cat.Append(cand)
	}
	if cat.Len() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, root)
	}
	log.Printf("Discovered %d bundle(s) under %s", cat.Len(), root)
	return cat, nil
}
