package scene_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/vistralabs/tarn/engine/core"
	"github.com/vistralabs/tarn/engine/resources"
	"github.com/vistralabs/tarn/engine/scene"
)

type fakeObject struct {
	id           uuid.UUID
	name         string
	destroyCount int
}

func newFakeObject(name string) *fakeObject {
	return &fakeObject{id: uuid.New(), name: name}
}

func (o *fakeObject) ID() uuid.UUID              { return o.id }
func (o *fakeObject) Name() string               { return o.name }
func (o *fakeObject) Type() resources.ObjectType { return resources.ObjectTypeCustom }
func (o *fakeObject) Generation() uint32         { return 0 }

func (o *fakeObject) Destroy() error {
	o.destroyCount++
	if o.destroyCount > 1 {
		return fmt.Errorf("object '%s' destroyed %d times", o.name, o.destroyCount)
	}
	return nil
}

type loadRequest struct {
	path       string
	sink       scene.ObjectSink
	onComplete func()
}

// fakeLoader records every load and lets the test drive completion by hand.
type fakeLoader struct {
	sink  scene.ObjectSink
	loads []loadRequest
}

func (l *fakeLoader) Configure(sink scene.ObjectSink) {
	l.sink = sink
}

func (l *fakeLoader) Load(path string, params *scene.LoadParams, onComplete func()) {
	l.loads = append(l.loads, loadRequest{path: path, sink: l.sink, onComplete: onComplete})
}

func (l *fakeLoader) complete(i int, objects ...resources.Object) {
	req := l.loads[i]
	for _, obj := range objects {
		req.sink.Add(obj)
	}
	req.onComplete()
}

type eventRecorder struct {
	events []string
}

func (r *eventRecorder) attach(t *testing.T, m *scene.Manager) {
	t.Helper()
	m.Subscribe(scene.EventPathChanged, func(context scene.EventContext) {
		r.events = append(r.events, "path-changed:"+context.Path)
	})
	m.Subscribe(scene.EventLoaded, func(context scene.EventContext) {
		r.events = append(r.events, "loaded")
	})
}

func (r *eventRecorder) expect(t *testing.T, want ...string) {
	t.Helper()
	if len(r.events) != len(want) {
		t.Fatalf("got events %v, want %v", r.events, want)
	}
	for i := range want {
		if r.events[i] != want[i] {
			t.Fatalf("got events %v, want %v", r.events, want)
		}
	}
}

func newTestManager(t *testing.T, config *scene.ManagerConfig) (*scene.Manager, *fakeLoader, *eventRecorder) {
	t.Helper()
	loader := &fakeLoader{}
	m, err := scene.NewManager(config, loader)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	recorder := &eventRecorder{}
	recorder.attach(t, m)
	return m, loader, recorder
}

func TestNewManagerRequiresLoader(t *testing.T) {
	_, err := scene.NewManager(nil, nil)
	if !errors.Is(err, core.ErrMissingLoader) {
		t.Fatalf("NewManager(nil, nil) = %v, want ErrMissingLoader", err)
	}
}

func TestInitializeWithoutPathStaysUnset(t *testing.T) {
	m, loader, recorder := newTestManager(t, nil)

	if err := m.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if m.State() != scene.StateUnset {
		t.Errorf("State() = %v, want unset", m.State())
	}
	if _, ok := m.Path(); ok {
		t.Error("Path() reported a path on an unset manager")
	}
	if len(loader.loads) != 0 {
		t.Errorf("loader invoked %d times, want 0", len(loader.loads))
	}
	recorder.expect(t)
}

// Scenario A: construct with a startup path, observe path-changed then loaded,
// with the collection empty until completion.
func TestStartupSceneLifecycle(t *testing.T) {
	m, loader, recorder := newTestManager(t, &scene.ManagerConfig{Path: "a.asset"})

	if err := m.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	recorder.expect(t, "path-changed:a.asset")
	if m.State() != scene.StateLoading {
		t.Errorf("State() = %v while load in flight, want loading", m.State())
	}
	if m.Collection().Len() != 0 {
		t.Errorf("collection holds %d objects before completion, want 0", m.Collection().Len())
	}

	obj := newFakeObject("cube")
	loader.complete(0, obj)

	recorder.expect(t, "path-changed:a.asset", "loaded")
	if m.State() != scene.StateLoaded {
		t.Errorf("State() = %v after completion, want loaded", m.State())
	}
	if m.Collection().Len() != 1 {
		t.Errorf("collection holds %d objects, want 1", m.Collection().Len())
	}
	if path, ok := m.Path(); !ok || path != "a.asset" {
		t.Errorf("Path() = (%q, %v), want (a.asset, true)", path, ok)
	}
}

// Scenario B: superseding an in-flight load clears immediately and the stale
// completion neither inserts objects nor fires loaded.
func TestSupersedingInFlightLoad(t *testing.T) {
	m, loader, recorder := newTestManager(t, nil)

	if err := m.SetPath("a.asset"); err != nil {
		t.Fatalf("SetPath(a.asset) failed: %v", err)
	}
	early := newFakeObject("early")
	loader.loads[0].sink.Add(early)
	if m.Collection().Len() != 1 {
		t.Fatalf("collection holds %d objects, want 1", m.Collection().Len())
	}

	if err := m.SetPath("b.asset"); err != nil {
		t.Fatalf("SetPath(b.asset) failed: %v", err)
	}
	if m.Collection().Len() != 0 {
		t.Errorf("collection holds %d objects after reassignment, want 0", m.Collection().Len())
	}
	if early.destroyCount != 1 {
		t.Errorf("object from superseded load destroyed %d times, want 1", early.destroyCount)
	}

	// A late insert from the superseded load is refused and disposed of.
	late := newFakeObject("late")
	if loader.loads[0].sink.Add(late) {
		t.Error("stale sink accepted an object")
	}
	if late.destroyCount != 1 {
		t.Errorf("stale object destroyed %d times, want 1", late.destroyCount)
	}

	// The stale completion is dropped entirely.
	loader.complete(0)
	recorder.expect(t, "path-changed:a.asset", "path-changed:b.asset")
	if m.State() != scene.StateLoading {
		t.Errorf("State() = %v after stale completion, want loading", m.State())
	}

	current := newFakeObject("current")
	loader.complete(1, current)
	recorder.expect(t, "path-changed:a.asset", "path-changed:b.asset", "loaded")

	objects := m.Collection().Objects()
	if len(objects) != 1 || objects[0].Name() != "current" {
		t.Errorf("collection = %v, want only 'current'", objects)
	}
}

// Scenario C: an empty path assignment is a logged no-op.
func TestEmptyPathIsNoOp(t *testing.T) {
	m, loader, recorder := newTestManager(t, nil)

	if err := m.SetPath(""); err != nil {
		t.Fatalf("SetPath(\"\") = %v, want nil", err)
	}
	if m.State() != scene.StateUnset {
		t.Errorf("State() = %v, want unset", m.State())
	}
	if len(loader.loads) != 0 {
		t.Errorf("loader invoked %d times, want 0", len(loader.loads))
	}
	recorder.expect(t)
}

// Scenario D: destroying twice is safe and never double-destroys objects.
func TestDestroyIsIdempotent(t *testing.T) {
	m, loader, _ := newTestManager(t, nil)

	if err := m.SetPath("a.asset"); err != nil {
		t.Fatalf("SetPath failed: %v", err)
	}
	obj := newFakeObject("cube")
	loader.complete(0, obj)

	if err := m.Destroy(); err != nil {
		t.Fatalf("first Destroy failed: %v", err)
	}
	if err := m.Destroy(); err != nil {
		t.Fatalf("second Destroy failed: %v", err)
	}
	if obj.destroyCount != 1 {
		t.Errorf("object destroyed %d times, want 1", obj.destroyCount)
	}
	if m.Collection().Len() != 0 {
		t.Errorf("collection holds %d objects after destroy, want 0", m.Collection().Len())
	}
}

func TestSetPathAfterDestroyFails(t *testing.T) {
	m, loader, _ := newTestManager(t, nil)

	if err := m.Destroy(); err != nil {
		t.Fatalf("Destroy failed: %v", err)
	}
	if err := m.SetPath("a.asset"); !errors.Is(err, core.ErrManagerDestroyed) {
		t.Fatalf("SetPath after destroy = %v, want ErrManagerDestroyed", err)
	}
	if len(loader.loads) != 0 {
		t.Errorf("loader invoked %d times, want 0", len(loader.loads))
	}
}

func TestCompletionAfterDestroyIsDropped(t *testing.T) {
	m, loader, recorder := newTestManager(t, nil)

	if err := m.SetPath("a.asset"); err != nil {
		t.Fatalf("SetPath failed: %v", err)
	}
	if err := m.Destroy(); err != nil {
		t.Fatalf("Destroy failed: %v", err)
	}

	obj := newFakeObject("late")
	loader.complete(0, obj)

	if m.Collection().Len() != 0 {
		t.Errorf("collection holds %d objects, want 0", m.Collection().Len())
	}
	if obj.destroyCount != 1 {
		t.Errorf("late object destroyed %d times, want 1", obj.destroyCount)
	}
	recorder.expect(t, "path-changed:a.asset")
}

// Reassigning the identical path still performs a full clear-and-reload:
// the operation is idempotent, the state is not.
func TestSamePathReassignmentReloads(t *testing.T) {
	m, loader, _ := newTestManager(t, nil)

	if err := m.SetPath("a.asset"); err != nil {
		t.Fatalf("SetPath failed: %v", err)
	}
	first := newFakeObject("cube")
	loader.complete(0, first)

	if err := m.SetPath("a.asset"); err != nil {
		t.Fatalf("second SetPath failed: %v", err)
	}
	if first.destroyCount != 1 {
		t.Errorf("first load's object destroyed %d times, want 1", first.destroyCount)
	}
	if len(loader.loads) != 2 {
		t.Fatalf("loader invoked %d times, want 2", len(loader.loads))
	}

	second := newFakeObject("cube")
	loader.complete(1, second)

	objects := m.Collection().Objects()
	if len(objects) != 1 {
		t.Fatalf("collection holds %d objects, want 1", len(objects))
	}
	if objects[0].ID() != second.ID() {
		t.Error("collection holds the first load's instance after reload")
	}
}

func TestGenerationAdvancesPerAssignment(t *testing.T) {
	m, _, _ := newTestManager(t, nil)

	start := m.Generation()
	m.SetPath("a.asset")
	m.SetPath("b.asset")
	if got := m.Generation(); got != start+2 {
		t.Errorf("Generation() = %d, want %d", got, start+2)
	}
}

func TestSnapshotAndRestore(t *testing.T) {
	m, loader, _ := newTestManager(t, nil)

	if err := m.SetPath("a.asset"); err != nil {
		t.Fatalf("SetPath failed: %v", err)
	}
	loader.complete(0, newFakeObject("cube"))
	snap := m.Snapshot()
	if snap.Path != "a.asset" {
		t.Errorf("Snapshot().Path = %q, want a.asset", snap.Path)
	}

	// Restore re-triggers a fresh load rather than reconstructing objects.
	restored, fresh, _ := newTestManager(t, nil)
	if err := restored.Restore(snap); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if len(fresh.loads) != 1 || fresh.loads[0].path != "a.asset" {
		t.Fatalf("Restore did not trigger a load for a.asset")
	}
}

func TestRestoreRejectsEmptyPath(t *testing.T) {
	m, loader, recorder := newTestManager(t, nil)

	if err := m.Restore(scene.Snapshot{}); !errors.Is(err, core.ErrInvalidArgument) {
		t.Fatalf("Restore(empty) = %v, want ErrInvalidArgument", err)
	}
	if m.State() != scene.StateUnset {
		t.Errorf("State() = %v after rejected restore, want unset", m.State())
	}
	if len(loader.loads) != 0 {
		t.Errorf("loader invoked %d times, want 0", len(loader.loads))
	}
	recorder.expect(t)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	loader := &fakeLoader{}
	m, err := scene.NewManager(nil, loader)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	calls := 0
	id := m.Subscribe(scene.EventPathChanged, func(context scene.EventContext) {
		calls++
	})
	m.SetPath("a.asset")
	if !m.Unsubscribe(scene.EventPathChanged, id) {
		t.Fatal("Unsubscribe returned false")
	}
	m.SetPath("b.asset")

	if calls != 1 {
		t.Errorf("handler called %d times, want 1", calls)
	}
}
