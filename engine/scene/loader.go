package scene

import (
	"github.com/vistralabs/tarn/engine/resources"
)

// ObjectSink receives runtime objects as a loader discovers them. Add reports
// whether the object was accepted; a refused object is already disposed of by
// the sink and must not be reused.
type ObjectSink interface {
	Add(obj resources.Object) bool
}

/** @brief Options applied to every load issued by a manager. */
type LoadParams struct {
	/** @brief The relative base path for assets. */
	BaseAssetPath string
}

/**
 * @brief The asynchronous collaborator that turns a resource path into
 * runtime objects.
 *
 * Configure associates subsequent Load calls with a destination sink.
 * Load begins an asynchronous load and must invoke onComplete exactly once
 * when finished, regardless of success or partial failure of individual
 * sub-resources; each successfully parsed object is handed to the configured
 * sink as it becomes available.
 */
type SceneLoader interface {
	Configure(sink ObjectSink)
	Load(path string, params *LoadParams, onComplete func())
}
