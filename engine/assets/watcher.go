package assets

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/vistralabs/tarn/engine/core"
	"github.com/vistralabs/tarn/engine/scene"
)

/**
 * @brief Watcher hot-reloads the manager's current scene: an on-disk change
 * to the watched asset re-assigns the same path, which drives the full
 * clear-and-reload lifecycle.
 *
 * The watch target follows the manager through path-changed notifications.
 */
type Watcher struct {
	manager  *scene.Manager
	basePath string
	fsnotify *fsnotify.Watcher

	mu          sync.Mutex
	watched     string // logical path as the manager knows it
	watchedFull string // resolved filesystem path

	done      chan struct{}
	closeOnce sync.Once
}

func NewWatcher(manager *scene.Manager, basePath string) (*Watcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		manager:  manager,
		basePath: basePath,
		fsnotify: fsWatch,
		done:     make(chan struct{}),
	}, nil
}

// Start begins following the manager's current path. Must be called before
// the startup scene is assigned if that first load should be watched too.
func (w *Watcher) Start() error {
	w.manager.Subscribe(scene.EventPathChanged, func(context scene.EventContext) {
		w.watch(context.Path)
	})

	go w.run()

	if path, ok := w.manager.Path(); ok {
		w.watch(path)
	}
	return nil
}

func (w *Watcher) watch(path string) {
	fullPath := path
	if w.basePath != "" {
		fullPath = filepath.Join(w.basePath, path)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watchedFull == fullPath {
		return
	}
	if w.watchedFull != "" {
		if err := w.fsnotify.Remove(w.watchedFull); err != nil {
			core.LogDebug("asset watcher: stopped watching '%s': %s", w.watchedFull, err.Error())
		}
	}
	if err := w.fsnotify.Add(fullPath); err != nil {
		core.LogWarn("asset watcher: cannot watch '%s': %s", fullPath, err.Error())
		w.watched = ""
		w.watchedFull = ""
		return
	}
	w.watched = path
	w.watchedFull = fullPath
	core.LogDebug("asset watcher: watching '%s'", fullPath)
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.mu.Lock()
			path := w.watched
			fullPath := w.watchedFull
			w.mu.Unlock()
			if path == "" || event.Name != fullPath {
				continue
			}
			core.LogInfo("asset watcher: '%s' changed on disk, reloading", path)
			if err := w.manager.SetPath(path); err != nil {
				core.LogError("asset watcher: reload of '%s' failed: %s", path, err.Error())
			}
		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("asset watcher: %s", err.Error())
		}
	}
}

// Close stops the watcher. Idempotent.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fsnotify.Close()
	})
	return err
}
