package assets

import (
	"os"
	"path/filepath"
	"sync"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/vistralabs/tarn/engine/core"
	"github.com/vistralabs/tarn/engine/resources"
	"github.com/vistralabs/tarn/engine/scene"
)

// sceneManifest is the on-disk shape of a *.scene.toml file.
type sceneManifest struct {
	Name    string        `toml:"name"`
	Objects []objectEntry `toml:"objects"`
}

type objectEntry struct {
	Type      string    `toml:"type"`
	Name      string    `toml:"name"`
	Material  string    `toml:"material"`
	Diffuse   []float32 `toml:"diffuse"`
	Shininess float32   `toml:"shininess"`
	Position  []float32 `toml:"position"`
	Colour    []float32 `toml:"colour"`
	Intensity float32   `toml:"intensity"`
	FOV       float32   `toml:"fov"`
}

/**
 * @brief ManifestLoader is the default SceneLoader collaborator. It parses a
 * TOML scene manifest on a background goroutine, feeding each object to the
 * configured sink as it is built.
 *
 * Malformed entries are skipped with a warning and a missing or unreadable
 * file yields an empty load; either way the completion callback fires
 * exactly once.
 */
type ManifestLoader struct {
	mu   sync.Mutex
	sink scene.ObjectSink
}

func NewManifestLoader() *ManifestLoader {
	return &ManifestLoader{}
}

func (l *ManifestLoader) Configure(sink scene.ObjectSink) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sink = sink
}

func (l *ManifestLoader) Load(path string, params *scene.LoadParams, onComplete func()) {
	l.mu.Lock()
	sink := l.sink
	l.mu.Unlock()

	go func() {
		if onComplete != nil {
			defer onComplete()
		}

		if sink == nil {
			core.LogError("manifest loader: Load('%s') called before Configure", path)
			return
		}

		fullPath := path
		if params != nil && params.BaseAssetPath != "" {
			fullPath = filepath.Join(params.BaseAssetPath, path)
		}

		data, err := os.ReadFile(fullPath)
		if err != nil {
			core.LogError("manifest loader: failed to read '%s': %s", fullPath, err.Error())
			return
		}

		var manifest sceneManifest
		if err := toml.Unmarshal(data, &manifest); err != nil {
			core.LogError("manifest loader: failed to parse '%s': %s", fullPath, err.Error())
			return
		}

		accepted := 0
		for _, entry := range manifest.Objects {
			obj := buildObject(entry)
			if obj == nil {
				core.LogWarn("manifest loader: skipping entry '%s' of unknown type '%s' in '%s'", entry.Name, entry.Type, fullPath)
				continue
			}
			if sink.Add(obj) {
				accepted++
			}
		}
		core.LogDebug("manifest loader: '%s' produced %d objects", manifest.Name, accepted)
	}()
}

func buildObject(entry objectEntry) resources.Object {
	switch entry.Type {
	case "geometry":
		return resources.NewGeometry(entry.Name, entry.Material)
	case "material":
		m := resources.NewMaterial(entry.Name)
		if len(entry.Diffuse) == 4 {
			copy(m.DiffuseColour[:], entry.Diffuse)
		}
		if entry.Shininess > 0 {
			m.Shininess = entry.Shininess
		}
		return m
	case "point_light":
		l := resources.NewPointLight(entry.Name)
		if len(entry.Position) == 3 {
			copy(l.Position[:], entry.Position)
		}
		if len(entry.Colour) == 4 {
			copy(l.Colour[:], entry.Colour)
		}
		if entry.Intensity > 0 {
			l.Intensity = entry.Intensity
		}
		return l
	case "camera":
		c := resources.NewCamera(entry.Name)
		if len(entry.Position) == 3 {
			copy(c.Position[:], entry.Position)
		}
		if entry.FOV > 0 {
			c.FOV = entry.FOV
		}
		return c
	}
	return nil
}
