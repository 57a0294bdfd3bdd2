package content

import (
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a site file into a Store whenever it changes on disk. A
// reload that fails to parse keeps the previous snapshot.
type Watcher struct {
	watcher *fsnotify.Watcher
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once

	path  string
	store *Store
}

// Watch starts watching path. The containing directory is watched rather
// than the file itself, since editors and deploy tools tend to replace the
// file instead of writing it in place.
func Watch(path string, store *Store) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{
		watcher: fsw,
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
		path:    path,
		store:   store,
	}
	go w.run()
	return w, nil
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	var last time.Time
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			// Editors fire bursts of events per save.
			now := time.Now()
			if now.Sub(last) < 100*time.Millisecond {
				continue
			}
			last = now
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("content watcher error: %v", err)
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) reload() {
	site, err := Load(w.path)
	if err != nil {
		log.Printf("content reload failed, keeping previous snapshot: %v", err)
		return
	}
	w.store.Replace(site)
	log.Printf("content reloaded from %s", w.path)
}
