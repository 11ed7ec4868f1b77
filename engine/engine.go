package engine

import (
	"sync"

	"github.com/vistralabs/tarn/engine/assets"
	"github.com/vistralabs/tarn/engine/core"
	"github.com/vistralabs/tarn/engine/scene"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

type Engine struct {
	currentStage Stage
	gameInstance *Game
	sceneManager *scene.Manager
	watcher      *assets.Watcher
	loadClock    *core.Clock

	// loadMu fences the clock: path-changed and loaded handlers may run on
	// different goroutines when a hot reload supersedes a load in flight.
	loadMu sync.Mutex

	done         chan struct{}
	shutdownOnce sync.Once
}

func New(g *Game) (*Engine, error) {
	config := g.ApplicationConfig
	if config == nil {
		config = DefaultApplicationConfig()
		g.ApplicationConfig = config
	}

	core.LogSetLevel(core.ParseLogLevel(config.LogLevel))

	loader := assets.NewManifestLoader()
	manager, err := scene.NewManager(&scene.ManagerConfig{
		Path:   config.StartupScene,
		Params: &scene.LoadParams{BaseAssetPath: config.AssetBasePath},
	}, loader)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	var watcher *assets.Watcher
	if config.HotReload {
		watcher, err = assets.NewWatcher(manager, config.AssetBasePath)
		if err != nil {
			core.LogError(err.Error())
			return nil, err
		}
	}

	return &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		sceneManager: manager,
		watcher:      watcher,
		loadClock:    core.NewClock(),
		done:         make(chan struct{}),
	}, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing

	core.MetricsInitialize()

	e.sceneManager.Subscribe(scene.EventPathChanged, func(context scene.EventContext) {
		e.loadMu.Lock()
		e.loadClock.Start()
		e.loadMu.Unlock()
		core.LogInfo("loading scene '%s'", context.Path)
	})
	e.sceneManager.Subscribe(scene.EventLoaded, func(context scene.EventContext) {
		e.loadMu.Lock()
		e.loadClock.Update()
		elapsedMS := e.loadClock.ElapsedMS()
		e.loadMu.Unlock()
		core.MetricsRecordLoad(elapsedMS)
		core.LogInfo("scene loaded: %d objects (%.1fms, %d loads total)",
			e.sceneManager.Collection().Len(), elapsedMS, core.MetricsLoads())
		if e.gameInstance.FnSceneLoaded != nil {
			if err := e.gameInstance.FnSceneLoaded(e.sceneManager.Collection()); err != nil {
				core.LogError("game scene-loaded hook failed: %s", err.Error())
			}
		}
	})

	if e.watcher != nil {
		if err := e.watcher.Start(); err != nil {
			return err
		}
	}

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(); err != nil {
			return err
		}
	}

	// Kicks off the startup scene, after all subscribers are in place.
	if err := e.sceneManager.Initialize(); err != nil {
		return err
	}

	e.currentStage = EngineStageInitialized
	return nil
}

// Run blocks until Shutdown is called.
func (e *Engine) Run() error {
	e.currentStage = EngineStageRunning
	<-e.done
	return nil
}

func (e *Engine) Shutdown() error {
	var err error
	e.shutdownOnce.Do(func() {
		e.currentStage = EngineStageShuttingDown

		if e.watcher != nil {
			if cerr := e.watcher.Close(); cerr != nil {
				core.LogError(cerr.Error())
				err = cerr
			}
		}
		if e.gameInstance.FnShutdown != nil {
			if serr := e.gameInstance.FnShutdown(); serr != nil {
				core.LogError(serr.Error())
				err = serr
			}
		}
		if derr := e.sceneManager.Destroy(); derr != nil {
			core.LogError(derr.Error())
			err = derr
		}
		close(e.done)
	})
	return err
}

func (e *Engine) SceneManager() *scene.Manager {
	return e.sceneManager
}
