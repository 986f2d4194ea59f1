package catalog

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/lixenwraith/holo-carousel/bundle"
)

// Watcher appends bundles cached after startup to a catalog
// Only creations are tracked; the catalog never shrinks, so removed files surface as
// corrupt candidates and are skipped by the loader
type Watcher struct {
	cat   *Catalog
	match Matcher
	fsw   *fsnotify.Watcher

	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// Watch starts watching root and all of its subdirectories
func Watch(root string, match Matcher, cat *Catalog) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		cat:   cat,
		match: match,
		fsw:   fsw,
		done:  make(chan struct{}),
	}
	if err := w.addTree(root, false); err != nil {
		fsw.Close()
		return nil, err
	}

	w.wg.Add(1)
	go w.run()
	return w, nil
}

// addTree watches dir and every directory below it
// When collect is set, matching files already present are appended as well; this covers
// files written into a new directory before its watch was registered
func (w *Watcher) addTree(dir string, collect bool) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return fmt.Errorf("watch %s: %w", dir, err)
			}
			return nil
		}
		if d.IsDir() {
			if err := w.fsw.Add(path); err != nil {
				log.Printf("Watch %s failed: %v", path, err)
			}
			return nil
		}
		if collect {
			w.consider(path)
		}
		return nil
	})
}

func (w *Watcher) consider(path string) {
	if !w.match.Match(filepath.Base(path)) {
		return
	}
	if w.cat.Append(bundle.Candidate(path)) {
		log.Printf("Watcher added bundle %s", path)
	}
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Create) {
				continue
			}
			info, err := os.Stat(ev.Name)
			if err != nil {
				continue
			}
			if info.IsDir() {
				if err := w.addTree(ev.Name, true); err != nil {
					log.Printf("Watch new directory %s failed: %v", ev.Name, err)
				}
				continue
			}
			w.consider(ev.Name)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("Watcher error: %v", err)
		}
	}
}

// Close stops the watcher; safe to call more than once
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fsw.Close()
		w.wg.Wait()
	})
	return err
}
