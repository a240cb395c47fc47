package uiparticle

import (
	"fmt"
	"testing"

	"github.com/gekko3d/uiparticle/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RegisterAttachesOnFirstDetachesOnLast(t *testing.T) {
	rig := newTestRig()
	a := rig.element(newFakeSource("a"), NewMemoryTarget(), 0)
	b := rig.element(newFakeSource("b"), NewMemoryTarget(), 0)

	assert.False(t, rig.scheduler.Attached())
	assert.Equal(t, 0, rig.signal.Len())

	a.Enable()
	b.Enable()
	assert.True(t, rig.scheduler.Attached())
	assert.Equal(t, 1, rig.signal.Len(), "one subscription regardless of element count")
	assert.Equal(t, 2, rig.scheduler.Len())

	a.Disable()
	assert.True(t, rig.scheduler.Attached())
	b.Disable()
	assert.False(t, rig.scheduler.Attached())
	assert.Equal(t, 0, rig.signal.Len())

	// Churn re-attaches exactly once.
	a.Enable()
	a.Disable()
	a.Enable()
	assert.Equal(t, 1, rig.signal.Len())
	a.Disable()
}

func TestScheduler_DoubleRegisterPanics(t *testing.T) {
	rig := newTestRig()
	e := rig.element(newFakeSource("dup"), NewMemoryTarget(), 0)
	rig.scheduler.Register(e)

	require.PanicsWithValue(t, fmt.Sprintf("UIParticle %s is already registered.", e.Name()), func() {
		rig.scheduler.Register(e)
	})
	rig.scheduler.Unregister(e)
	require.PanicsWithValue(t, fmt.Sprintf("UIParticle %s is not registered.", e.Name()), func() {
		rig.scheduler.Unregister(e)
	})
}

func TestScheduler_NilElementPanics(t *testing.T) {
	rig := newTestRig()
	require.PanicsWithValue(t, "Scheduler.Register: element is nil", func() { rig.scheduler.Register(nil) })
	require.PanicsWithValue(t, "Scheduler.Unregister: element is nil", func() { rig.scheduler.Unregister(nil) })
	assert.False(t, rig.scheduler.Registered(nil))
}

func TestScheduler_RegistrationIsPerScheduler(t *testing.T) {
	rig := newTestRig()
	other := newTestRig()
	e := rig.element(newFakeSource("mine"), NewMemoryTarget(), 0)
	e.Enable()
	defer e.Disable()

	assert.True(t, rig.scheduler.Registered(e))
	assert.False(t, other.scheduler.Registered(e))
	assert.Panics(t, func() { other.scheduler.Unregister(e) })
	assert.True(t, rig.scheduler.Registered(e))
}

func TestScheduler_RefreshOncePerFrame(t *testing.T) {
	rig := newTestRig()
	src := newFakeSource("idempotent")
	target := NewMemoryTarget()
	e := rig.element(src, target, 0)
	e.Enable()
	defer e.Disable()

	rig.clock.Advance()
	rig.signal.Emit()
	rig.signal.Emit()
	rig.scheduler.Refresh()

	assert.Equal(t, 1, src.bakeCalls, "second and third call in the same frame are no-ops")
	assert.Equal(t, 1, target.MeshSets())
	assert.Equal(t, 1, rig.scheduler.Passes())

	rig.frame()
	assert.Equal(t, 2, src.bakeCalls)
	assert.Equal(t, 2, target.MeshSets())
	assert.Equal(t, rig.clock.FrameCount(), rig.scheduler.Frame())
}

func TestScheduler_PushesBakedMesh(t *testing.T) {
	rig := newTestRig()
	src := newFakeSource("push")
	target := NewMemoryTarget()
	e := rig.element(src, target, 0)
	e.Enable()
	defer e.Disable()

	rig.frame()

	assert.Equal(t, 4, target.Mesh().VertexCount())
	assert.NotSame(t, e.BakedMesh(), target.Mesh(), "draw target keeps its own copy")
	assert.Equal(t, 1, target.MaterialCount())
}

func TestScheduler_ProcessesInRegistrationOrder(t *testing.T) {
	rig := newTestRig()
	var order []string
	for _, name := range []string{"first", "second", "third"} {
		src := newFakeSource(name)
		e := rig.element(src, NewMemoryTarget(), 0)
		e.AddMaterialModifier(MaterialModifierFunc(func(m *core.Material) *core.Material {
			order = append(order, name)
			return m
		}))
		e.Enable()
		defer e.Disable()
	}

	rig.frame()
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestScheduler_IsolatesFailingElements(t *testing.T) {
	rig := newTestRig()

	panicking := newFakeSource("panics")
	panicking.mainPanic = "boom"
	failing := newFakeSource("fails")
	failing.mainErr = errBakeFailed
	healthy := newFakeSource("healthy")

	pt, ft, ht := NewMemoryTarget(), NewMemoryTarget(), NewMemoryTarget()
	for _, e := range []*UIParticle{
		rig.element(panicking, pt, 0),
		rig.element(failing, ft, 0),
		rig.element(healthy, ht, 0),
	} {
		e.Enable()
		defer e.Disable()
	}

	require.NotPanics(t, rig.frame)
	assert.Equal(t, 0, pt.MeshSets())
	assert.Equal(t, 0, ft.MeshSets(), "failed bake keeps the previous mesh")
	assert.Equal(t, 1, ht.MeshSets())
	assert.Equal(t, 4, ht.Mesh().VertexCount())
}

func TestScheduler_SkipsDuringPlayModeExit(t *testing.T) {
	rig := newTestRig()
	src := newFakeSource("transition")
	e := rig.element(src, NewMemoryTarget(), 0)
	e.Enable()
	defer e.Disable()

	rig.scheduler.OnPlayModeChanged(ExitingPlayMode)
	rig.frame()
	assert.Equal(t, 0, src.bakeCalls)

	rig.scheduler.OnPlayModeChanged(EnteredEditMode)
	rig.frame()
	assert.Equal(t, 1, src.bakeCalls)
}

func TestScheduler_DeferRunsAfterNextPass(t *testing.T) {
	rig := newTestRig()
	src := newFakeSource("defer")
	e := rig.element(src, NewMemoryTarget(), 0)
	e.Enable()
	defer e.Disable()

	var ranAt []int
	rig.scheduler.Defer(func() {
		ranAt = append(ranAt, src.bakeCalls)
		rig.scheduler.Defer(func() { ranAt = append(ranAt, src.bakeCalls) })
	})

	assert.Empty(t, ranAt)
	rig.frame()
	assert.Equal(t, []int{1}, ranAt, "runs after the pass bakes")
	rig.frame()
	assert.Equal(t, []int{1, 2}, ranAt, "calls deferred during a pass wait for the next one")
}

func TestScheduler_DisableDuringPassSkipsElement(t *testing.T) {
	rig := newTestRig()
	second := newFakeSource("second")
	var victim *UIParticle

	first := rig.element(newFakeSource("first"), NewMemoryTarget(), 0)
	first.AddMaterialModifier(MaterialModifierFunc(func(m *core.Material) *core.Material {
		if victim.IsActiveAndEnabled() {
			victim.Disable()
		}
		return m
	}))
	victim = rig.element(second, NewMemoryTarget(), 0)
	first.Enable()
	victim.Enable()
	defer first.Disable()

	rig.frame()
	assert.Equal(t, 0, second.bakeCalls)
	assert.False(t, rig.scheduler.Registered(victim))
}

func TestScheduler_ReEnableDuringPassBakesOnce(t *testing.T) {
	rig := newTestRig()
	second := newFakeSource("second")
	var victim *UIParticle

	first := rig.element(newFakeSource("first"), NewMemoryTarget(), 0)
	first.AddMaterialModifier(MaterialModifierFunc(func(m *core.Material) *core.Material {
		victim.Disable()
		victim.Enable()
		return m
	}))
	victim = rig.element(second, NewMemoryTarget(), 0)
	first.Enable()
	victim.Enable()
	defer first.Disable()
	defer victim.Disable()

	rig.frame()
	assert.Equal(t, 1, second.bakeCalls)
	assert.True(t, rig.scheduler.Registered(victim))
	assert.Equal(t, 2, rig.scheduler.Len())
}
