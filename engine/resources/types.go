package resources

import (
	"fmt"

	"github.com/google/uuid"
)

type ObjectType int

/** @brief Pre-defined runtime object types produced by scene loads. */
const (
	/** @brief Renderable geometry. */
	ObjectTypeGeometry ObjectType = iota
	/** @brief Surface material. */
	ObjectTypeMaterial
	/** @brief Point light source. */
	ObjectTypePointLight
	/** @brief Scene camera. */
	ObjectTypeCamera
	/** @brief Custom object type. Used by loaders outside the core engine. */
	ObjectTypeCustom
)

func (t ObjectType) String() string {
	switch t {
	case ObjectTypeGeometry:
		return "geometry"
	case ObjectTypeMaterial:
		return "material"
	case ObjectTypePointLight:
		return "point_light"
	case ObjectTypeCamera:
		return "camera"
	case ObjectTypeCustom:
		return "custom"
	}
	return "unknown"
}

/** @brief An invalid generation/identifier sentinel. */
const InvalidID uint32 = 0xFFFFFFFF

/**
 * @brief A runtime object created as the result of a scene load.
 * Destroy releases the object's internal data and must succeed exactly once;
 * a second call is an error.
 */
type Object interface {
	ID() uuid.UUID
	Name() string
	Type() ObjectType
	Generation() uint32
	Destroy() error
}

// handle carries the identity shared by every concrete object type.
type handle struct {
	id         uuid.UUID
	name       string
	objectType ObjectType
	generation uint32
	destroyed  bool
}

func newHandle(name string, objectType ObjectType) handle {
	return handle{
		id:         uuid.New(),
		name:       name,
		objectType: objectType,
	}
}

func (h *handle) ID() uuid.UUID    { return h.id }
func (h *handle) Name() string     { return h.name }
func (h *handle) Type() ObjectType { return h.objectType }

/** @brief The object generation. Incremented every time the internal data is replaced. */
func (h *handle) Generation() uint32 { return h.generation }

func (h *handle) BumpGeneration() { h.generation++ }

func (h *handle) markDestroyed() error {
	if h.destroyed {
		return fmt.Errorf("%s object '%s' already destroyed", h.objectType, h.name)
	}
	h.destroyed = true
	return nil
}

/**
 * @brief Represents actual geometry in the world.
 * Typically (but not always, depending on use) paired with a material.
 */
type Geometry struct {
	handle
	/** @brief The name of the material paired with this geometry, if any. */
	MaterialName string
	VertexCount  uint32
	IndexCount   uint32
	/** @brief The extents of the geometry in local coordinates. */
	Extents [3]float32
}

func NewGeometry(name, materialName string) *Geometry {
	return &Geometry{
		handle:       newHandle(name, ObjectTypeGeometry),
		MaterialName: materialName,
	}
}

func (g *Geometry) Destroy() error {
	if err := g.markDestroyed(); err != nil {
		return err
	}
	g.VertexCount = 0
	g.IndexCount = 0
	return nil
}

/**
 * @brief A material, which represents various properties of a surface
 * in the world such as colour, shininess and more.
 */
type Material struct {
	handle
	DiffuseColour [4]float32
	/** @brief The material shininess, determines how concentrated the specular lighting is. */
	Shininess float32
}

func NewMaterial(name string) *Material {
	return &Material{
		handle:        newHandle(name, ObjectTypeMaterial),
		DiffuseColour: [4]float32{1, 1, 1, 1},
	}
}

func (m *Material) Destroy() error {
	return m.markDestroyed()
}

/** @brief A point light source positioned in world coordinates. */
type PointLight struct {
	handle
	Position  [3]float32
	Colour    [4]float32
	Intensity float32
}

func NewPointLight(name string) *PointLight {
	return &PointLight{
		handle:    newHandle(name, ObjectTypePointLight),
		Colour:    [4]float32{1, 1, 1, 1},
		Intensity: 1,
	}
}

func (l *PointLight) Destroy() error {
	return l.markDestroyed()
}

/** @brief A scene camera with a vertical field of view in degrees. */
type Camera struct {
	handle
	Position [3]float32
	FOV      float32
}

func NewCamera(name string) *Camera {
	return &Camera{
		handle: newHandle(name, ObjectTypeCamera),
		FOV:    45,
	}
}

func (c *Camera) Destroy() error {
	return c.markDestroyed()
}
