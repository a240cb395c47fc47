package uiparticle

import (
	"fmt"
	"slices"

	"github.com/gekko3d/uiparticle/core"
)

type deferredCall struct {
	fn func()
}

// Scheduler bakes every enabled UIParticle once per rendered frame. It is
// attached to the render signal while at least one element is registered.
type Scheduler struct {
	clock  FrameClock
	signal *RenderSignal
	baker  *Baker
	pool   *core.MeshPool
	logger Logger

	elements []*UIParticle
	pass     []*UIParticle
	conn     Connection
	attached bool

	lastFrame   int
	serviced    bool
	skipRefresh bool
	deferred    []deferredCall
	passes      int
}

// NewScheduler wires a scheduler to clock and signal. A nil baker gets a
// default one sharing the scheduler's mesh pool.
func NewScheduler(clock FrameClock, signal *RenderSignal, baker *Baker, logger Logger) *Scheduler {
	if clock == nil {
		panic("NewScheduler: clock is nil")
	}
	if signal == nil {
		panic("NewScheduler: signal is nil")
	}
	logger = orNop(logger)
	pool := core.NewMeshPool()
	if baker == nil {
		baker = NewBaker(pool, logger)
	} else {
		pool = baker.pool
	}
	return &Scheduler{
		clock:  clock,
		signal: signal,
		baker:  baker,
		pool:   pool,
		logger: logger,
	}
}

func (s *Scheduler) MeshPool() *core.MeshPool {
	return s.pool
}

func (s *Scheduler) Baker() *Baker {
	return s.baker
}

func (s *Scheduler) Register(e *UIParticle) {
	if e == nil {
		panic("Scheduler.Register: element is nil")
	}
	if e.registry == s {
		panic(fmt.Sprintf("UIParticle %s is already registered.", e.Name()))
	}
	s.elements = append(s.elements, e)
	e.registry = s
	if len(s.elements) == 1 && !s.attached {
		s.logger.Infof("Registering UIParticle scheduler.")
		s.conn = s.signal.Connect(s.Refresh)
		s.attached = true
	}
}

func (s *Scheduler) Unregister(e *UIParticle) {
	if e == nil {
		panic("Scheduler.Unregister: element is nil")
	}
	i := -1
	if e.registry == s {
		i = slices.Index(s.elements, e)
	}
	if i < 0 {
		panic(fmt.Sprintf("UIParticle %s is not registered.", e.Name()))
	}
	s.elements = slices.Delete(s.elements, i, i+1)
	e.registry = nil
	if len(s.elements) == 0 && s.attached {
		s.logger.Infof("Unregistering UIParticle scheduler.")
		s.signal.Disconnect(s.conn)
		s.attached = false
	}
}

func (s *Scheduler) Registered(e *UIParticle) bool {
	return e != nil && e.registry == s
}

func (s *Scheduler) Len() int {
	return len(s.elements)
}

// Attached reports whether Refresh is connected to the render signal.
func (s *Scheduler) Attached() bool {
	return s.attached
}

// Frame is the last frame index a pass ran for.
func (s *Scheduler) Frame() int {
	return s.lastFrame
}

// Passes counts how many refresh passes actually ran.
func (s *Scheduler) Passes() int {
	return s.passes
}

// Defer queues fn to run once the next refresh pass has baked its elements.
func (s *Scheduler) Defer(fn func()) {
	if fn == nil {
		return
	}
	s.deferred = append(s.deferred, deferredCall{fn: fn})
}

// OnPlayModeChanged suspends baking from the moment play mode starts exiting
// until edit mode is entered; baking across that transition crashes some
// hosts, so one stale frame is preferred.
func (s *Scheduler) OnPlayModeChanged(state PlayModeState) {
	switch state {
	case ExitingPlayMode:
		s.skipRefresh = true
	case EnteredEditMode:
		s.skipRefresh = false
	}
}

// Refresh runs at most one pass per frame index, however often it is called.
func (s *Scheduler) Refresh() {
	if s.skipRefresh {
		s.logger.Infof("Refresh is skipped during play mode transition.")
		return
	}

	frame := s.clock.FrameCount()
	if s.serviced && frame == s.lastFrame {
		return
	}
	s.lastFrame = frame
	s.serviced = true
	s.passes++

	due := s.deferred
	s.deferred = nil

	// Elements may enable or disable others while baking.
	s.pass = append(s.pass[:0], s.elements...)
	for _, e := range s.pass {
		if !s.Registered(e) {
			continue
		}
		s.refreshElement(e)
	}
	clear(s.pass)

	for _, d := range due {
		s.runDeferred(d)
	}
}

func (s *Scheduler) refreshElement(e *UIParticle) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorf("UIParticle %s: refresh panicked: %v", e.Name(), r)
		}
	}()

	mesh := e.BakedMesh()
	if mesh == nil {
		return
	}
	if _, err := s.baker.Bake(e, mesh); err != nil {
		s.logger.Errorf("%v", err)
		return
	}
	if target := e.Target(); target != nil {
		target.SetMesh(mesh)
		e.UpdateMaterialProperties()
	}
}

func (s *Scheduler) runDeferred(d deferredCall) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorf("deferred call panicked: %v", r)
		}
	}()
	d.fn()
}
