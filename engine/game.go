package engine

import (
	"github.com/vistralabs/tarn/engine/containers"
)

type Game struct {
	ApplicationConfig *ApplicationConfig
	State             interface{}
	FnInitialize      Initialize
	FnSceneLoaded     SceneLoaded
	FnShutdown        Shutdown
}

type Initialize func() error
type SceneLoaded func(collection *containers.Collection) error
type Shutdown func() error
