package containers

import (
	"github.com/google/uuid"

	"github.com/vistralabs/tarn/engine/core"
	"github.com/vistralabs/tarn/engine/resources"
)

/**
 * @brief An ordered set of runtime object handles. Insertion order is
 * preserved and duplicate identities are rejected.
 *
 * The collection performs no synchronization of its own; the owning
 * system serializes all mutation.
 */
type Collection struct {
	objects []resources.Object
	members map[uuid.UUID]struct{}
}

func NewCollection() *Collection {
	return &Collection{
		members: make(map[uuid.UUID]struct{}),
	}
}

// Add appends the object to the set. Returns false without modifying the
// collection if the object is nil or already a member.
func (c *Collection) Add(obj resources.Object) bool {
	if obj == nil {
		return false
	}
	if _, ok := c.members[obj.ID()]; ok {
		return false
	}
	c.members[obj.ID()] = struct{}{}
	c.objects = append(c.objects, obj)
	return true
}

// Remove drops the object's membership without destroying it. Returns false
// if the object was not a member.
func (c *Collection) Remove(obj resources.Object) bool {
	if obj == nil {
		return false
	}
	if _, ok := c.members[obj.ID()]; !ok {
		return false
	}
	delete(c.members, obj.ID())
	for i, o := range c.objects {
		if o.ID() == obj.ID() {
			c.objects = append(c.objects[:i], c.objects[i+1:]...)
			break
		}
	}
	return true
}

/**
 * @brief Destroys every member and empties the collection.
 *
 * Membership is snapshotted before the first destroy call: an object's
 * destructor may remove itself (or others) from this collection, and the
 * snapshot keeps that re-entrant mutation from invalidating the traversal.
 * Destroy errors are logged, never propagated.
 */
func (c *Collection) ClearAndDestroy() {
	snapshot := make([]resources.Object, len(c.objects))
	copy(snapshot, c.objects)

	for _, obj := range snapshot {
		if err := obj.Destroy(); err != nil {
			core.LogError("collection: failed to destroy %s object '%s': %s", obj.Type(), obj.Name(), err.Error())
		}
	}

	c.objects = c.objects[:0]
	c.members = make(map[uuid.UUID]struct{})
}

// Each visits current members in insertion order until the visitor returns
// false. Every call is a fresh traversal. Visiting during concurrent
// mutation is undefined; snapshot with Objects first if needed.
func (c *Collection) Each(visitor func(obj resources.Object) bool) {
	for _, obj := range c.objects {
		if !visitor(obj) {
			return
		}
	}
}

// Objects returns a snapshot copy of the current membership.
func (c *Collection) Objects() []resources.Object {
	snapshot := make([]resources.Object, len(c.objects))
	copy(snapshot, c.objects)
	return snapshot
}

func (c *Collection) Len() int {
	return len(c.objects)
}
