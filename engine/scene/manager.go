package scene

import (
	"sync"

	"github.com/vistralabs/tarn/engine/containers"
	"github.com/vistralabs/tarn/engine/core"
	"github.com/vistralabs/tarn/engine/resources"
)

/** @brief The lifecycle states of a managed scene resource. */
type State int

const (
	/** @brief No path has ever been assigned. */
	StateUnset State = iota
	/** @brief A path is assigned and its load is in flight. */
	StateLoading
	/** @brief The load for the current path has completed. */
	StateLoaded
)

func (s State) String() string {
	switch s {
	case StateUnset:
		return "unset"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	}
	return "unknown"
}

/** @brief The configuration for a scene resource manager. */
type ManagerConfig struct {
	/** @brief The startup resource path. Optional; the manager stays unset without one. */
	Path string
	/** @brief Options forwarded to the loader on every load. */
	Params *LoadParams
}

/**
 * @brief Manager binds a resource path to an exclusively-owned collection of
 * runtime objects.
 *
 * Assigning a path destroys everything the collection holds, records the new
 * path and delegates the asynchronous load to the SceneLoader collaborator,
 * which populates the collection incrementally. Every assignment bumps a load
 * generation; a completion (or a late object insertion) carrying a superseded
 * generation is discarded, so the collection never mixes two loads' objects.
 *
 * Mutating calls are expected from a single owning goroutine. The internal
 * mutex exists to fence the collaborator's completion goroutine, not to make
 * SetPath safe for concurrent callers.
 */
type Manager struct {
	mu sync.Mutex

	config     *ManagerConfig
	path       string
	hasPath    bool
	state      State
	generation uint64
	destroyed  bool

	collection *containers.Collection
	loader     SceneLoader
	events     *eventRegistry
}

func NewManager(config *ManagerConfig, loader SceneLoader) (*Manager, error) {
	if loader == nil {
		core.LogError("scene manager: %s", core.ErrMissingLoader.Error())
		return nil, core.ErrMissingLoader
	}
	if config == nil {
		config = &ManagerConfig{}
	}
	return &Manager{
		config:     config,
		state:      StateUnset,
		collection: containers.NewCollection(),
		loader:     loader,
		events:     newEventRegistry(),
	}, nil
}

// Initialize applies the configured startup path, if any. Kept separate from
// construction so callers can subscribe before the first path-changed fires.
// A missing startup path is reported and leaves the manager unset.
func (m *Manager) Initialize() error {
	if m.config.Path == "" {
		core.LogWarn("scene manager: no startup scene configured, manager remains unset")
		return nil
	}
	return m.SetPath(m.config.Path)
}

/**
 * @brief Assigns the resource path driving this manager.
 *
 * An empty path is ignored (logged, nil error) for callers that forward unset
 * values. Otherwise, in strict order: every object currently held is
 * destroyed and the collection emptied; the new path is recorded and the load
 * generation bumped; path-changed fires synchronously; the collaborator is
 * handed a generation-gated sink and the load begins. Reassigning the same
 * path still performs the full clear-and-reload.
 */
func (m *Manager) SetPath(path string) error {
	if path == "" {
		core.LogWarn("scene manager: ignoring empty resource path assignment")
		return nil
	}

	m.mu.Lock()
	if m.destroyed {
		m.mu.Unlock()
		core.LogError("scene manager: cannot assign path '%s': %s", path, core.ErrManagerDestroyed.Error())
		return core.ErrManagerDestroyed
	}

	m.collection.ClearAndDestroy()
	m.path = path
	m.hasPath = true
	m.generation++
	generation := m.generation
	m.state = StateLoading
	m.mu.Unlock()

	core.LogDebug("scene manager: path set to '%s' (generation %d)", path, generation)
	m.events.fire(EventContext{Type: EventPathChanged, Path: path})

	m.loader.Configure(&gatedSink{manager: m, generation: generation})
	m.loader.Load(path, m.config.Params, func() {
		m.onLoadComplete(generation)
	})

	return nil
}

// Path returns the current resource path; ok is false while unset.
func (m *Manager) Path() (path string, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.path, m.hasPath
}

// Collection returns the owned collection by stable reference. Callers may
// observe it but must never destroy it; only the manager tears it down.
func (m *Manager) Collection() *containers.Collection {
	return m.collection
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Generation returns the current load generation token.
func (m *Manager) Generation() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generation
}

func (m *Manager) Subscribe(eventType EventType, handler EventHandler) uint64 {
	return m.events.subscribe(eventType, handler)
}

func (m *Manager) Unsubscribe(eventType EventType, id uint64) bool {
	return m.events.unsubscribe(eventType, id)
}

/**
 * @brief Destroys the manager and everything it owns. Idempotent.
 *
 * The generation bump makes any in-flight load stale, so a late completion
 * neither fires loaded nor inserts objects.
 */
func (m *Manager) Destroy() error {
	m.mu.Lock()
	if m.destroyed {
		m.mu.Unlock()
		return nil
	}
	m.destroyed = true
	m.generation++
	m.collection.ClearAndDestroy()
	m.mu.Unlock()

	m.events.clear()
	core.LogDebug("scene manager: destroyed")
	return nil
}

/** @brief The manager's serializable state. Collection contents are derived, not persisted. */
type Snapshot struct {
	Path string `toml:"path"`
}

func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{Path: m.path}
}

// Restore re-triggers a fresh load from a serialized snapshot rather than
// reconstructing objects. An empty snapshot path is rejected and leaves the
// manager's state untouched.
func (m *Manager) Restore(s Snapshot) error {
	if s.Path == "" {
		core.LogError("scene manager: cannot restore snapshot: %s: empty path", core.ErrInvalidArgument.Error())
		return core.ErrInvalidArgument
	}
	return m.SetPath(s.Path)
}

// onLoadComplete handles the collaborator's completion callback. Stale
// callbacks, including those arriving after Destroy, are dropped.
func (m *Manager) onLoadComplete(generation uint64) {
	m.mu.Lock()
	if m.destroyed || generation != m.generation {
		m.mu.Unlock()
		core.MetricsRecordStaleDrop()
		core.LogDebug("scene manager: dropping stale load completion (generation %d)", generation)
		return
	}
	m.state = StateLoaded
	m.mu.Unlock()

	m.events.fire(EventContext{Type: EventLoaded})
}

// gatedSink fences the collaborator's incremental inserts with the load
// generation they belong to. Objects arriving for a superseded load are
// destroyed instead of entering the collection.
type gatedSink struct {
	manager    *Manager
	generation uint64
}

func (s *gatedSink) Add(obj resources.Object) bool {
	if obj == nil {
		return false
	}

	m := s.manager
	m.mu.Lock()
	if m.destroyed || s.generation != m.generation {
		m.mu.Unlock()
		core.LogDebug("scene manager: refusing stale %s object '%s' (generation %d)", obj.Type(), obj.Name(), s.generation)
		if err := obj.Destroy(); err != nil {
			core.LogError("scene manager: failed to destroy stale object '%s': %s", obj.Name(), err.Error())
		}
		return false
	}
	accepted := m.collection.Add(obj)
	m.mu.Unlock()
	return accepted
}
