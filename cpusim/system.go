package cpusim

import (
	"math"
	"math/rand"

	"github.com/gekko3d/uiparticle"
	"github.com/gekko3d/uiparticle/core"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	defaultTrailLength = 8
	prewarmStep        = 1.0 / 30.0
	subEmitterBurst    = 2
)

// Internal pool (SoA + swap-remove).
type particlePool struct {
	pos   []mgl32.Vec3
	vel   []mgl32.Vec3
	age   []float32
	life  []float32
	size  []float32
	color [][4]float32
	trail [][]mgl32.Vec3 // oldest first

	alive    int
	spawnAcc float32 // fractional spawns accumulator
	capacity int
}

func (p *particlePool) ensure(capacity int) {
	if capacity <= 0 {
		capacity = 1
	}
	if p.capacity == capacity && p.pos != nil {
		return
	}
	p.capacity = capacity
	p.pos = make([]mgl32.Vec3, capacity)
	p.vel = make([]mgl32.Vec3, capacity)
	p.age = make([]float32, capacity)
	p.life = make([]float32, capacity)
	p.size = make([]float32, capacity)
	p.color = make([][4]float32, capacity)
	p.trail = make([][]mgl32.Vec3, capacity)
	p.alive = 0
	p.spawnAcc = 0
}

// Swap-remove one particle
func (p *particlePool) killAt(i int) {
	last := p.alive - 1
	p.pos[i] = p.pos[last]
	p.vel[i] = p.vel[last]
	p.age[i] = p.age[last]
	p.life[i] = p.life[last]
	p.size[i] = p.size[last]
	p.color[i] = p.color[last]
	p.trail[i], p.trail[last] = p.trail[last], p.trail[i][:0]
	p.alive--
}

// System is a CPU particle emitter implementing both the simulation and
// renderer sides of a particle source.
type System struct {
	name      string
	cfg       uiparticle.EmitterConfig
	transform *core.Transform
	custom    *core.Transform
	rng       *rand.Rand
	pool      particlePool

	playing  bool
	paused   bool
	emitting bool

	materials       []*core.Material
	renderMode      uiparticle.RenderMode
	mesh            *core.Mesh
	rendererEnabled bool
	block           core.PropertyBlock
	sprite          *core.Texture

	shape       uiparticle.Shape
	sheetMode   uiparticle.TextureSheetMode
	uvMask      int
	trailLength int
	trailWidth  float32
	colorMin    [4]float32
	colorMax    [4]float32
}

// New creates a stopped system on transform t.
func New(name string, cfg uiparticle.EmitterConfig, t *core.Transform) *System {
	if t == nil {
		t = core.NewTransform()
	}
	s := &System{
		name:        name,
		cfg:         cfg,
		transform:   t,
		rng:         rand.New(rand.NewSource(cfg.Seed)),
		renderMode:  uiparticle.RenderBillboard,
		shape:       uiparticle.Shape{Type: uiparticle.ShapeCone, Rotation: mgl32.Vec3{0, 90, 0}, Scale: mgl32.Vec3{0, 1, 1}},
		uvMask:      1,
		trailLength: defaultTrailLength,
		trailWidth:  0.5,
		colorMin:    [4]float32{1, 1, 1, 1},
		colorMax:    [4]float32{1, 1, 1, 1},
	}
	s.pool.ensure(cfg.MaxParticles)
	return s
}

func (s *System) Name() string                     { return s.name }
func (s *System) Transform() *core.Transform       { return s.transform }
func (s *System) Config() uiparticle.EmitterConfig { return s.cfg }

func (s *System) Settings() uiparticle.SimulationSettings {
	return uiparticle.SimulationSettings{
		Space:            s.cfg.Space,
		CustomSpace:      s.custom,
		Prewarm:          s.cfg.Prewarm,
		SubEmitters:      s.cfg.SubEmitters,
		TrailsEnabled:    s.cfg.Trails,
		TrailsWorldSpace: s.cfg.TrailsWorldSpace,
	}
}

func (s *System) SetCustomSpace(t *core.Transform) { s.custom = t }
func (s *System) SetColorRange(minC, maxC [4]float32) {
	s.colorMin, s.colorMax = minC, maxC
}

func (s *System) IsAlive() bool      { return s.emitting || s.pool.alive > 0 }
func (s *System) IsPlaying() bool    { return s.playing && !s.paused }
func (s *System) ParticleCount() int { return s.pool.alive }

// Play starts emitting. A prewarmed system that was not already playing
// simulates one full lifetime first.
func (s *System) Play() {
	if s.paused {
		s.paused = false
		return
	}
	wasPlaying := s.playing
	s.playing = true
	s.emitting = true
	if s.cfg.Prewarm && !wasPlaying {
		for t := float32(0); t < s.cfg.Lifetime[1]; t += prewarmStep {
			s.Step(prewarmStep)
		}
	}
}

func (s *System) Pause() {
	if s.playing {
		s.paused = true
	}
}

// Stop ends emission; live particles run out their lifetime.
func (s *System) Stop() {
	s.playing = false
	s.paused = false
	s.emitting = false
}

func (s *System) Clear() {
	for i := 0; i < s.pool.alive; i++ {
		s.pool.trail[i] = s.pool.trail[i][:0]
	}
	s.pool.alive = 0
	s.pool.spawnAcc = 0
}

func (s *System) Renderer() uiparticle.ParticleRenderer { return s }

func lerp(a, b, t float32) float32 { return a + (b-a)*t }

// Sample a direction in a cone around the emitter's up axis (0,1,0).
// Uniform distribution over the cone.
func (s *System) sampleDirection(coneDeg float32) mgl32.Vec3 {
	axis := mgl32.Vec3{0, 1, 0}
	if coneDeg <= 0.0 {
		return axis
	}
	thetaMax := float32(math.Pi) * (coneDeg / 180.0)
	u := s.rng.Float32()
	v := s.rng.Float32()
	cosTheta := lerp(float32(math.Cos(float64(thetaMax))), 1.0, u)
	sinTheta := float32(math.Sqrt(float64(1.0 - cosTheta*cosTheta)))
	phi := 2.0 * float32(math.Pi) * v

	return mgl32.Vec3{
		float32(math.Cos(float64(phi))) * sinTheta,
		cosTheta,
		float32(math.Sin(float64(phi))) * sinTheta,
	}.Normalize()
}

func (s *System) space() uiparticle.SimulationSpace {
	if s.cfg.Space == uiparticle.SpaceCustom && s.custom == nil {
		return uiparticle.SpaceLocal
	}
	return s.cfg.Space
}

// spawnPoint is the emitter origin in simulation space.
func (s *System) spawnPoint() mgl32.Vec3 {
	switch s.space() {
	case uiparticle.SpaceWorld:
		return s.transform.WorldPosition()
	case uiparticle.SpaceCustom:
		return s.transform.WorldPosition().Sub(s.custom.WorldPosition())
	}
	return mgl32.Vec3{}
}

// toSimSpace rotates a local emitter direction into simulation space.
func (s *System) toSimSpace(dir mgl32.Vec3) mgl32.Vec3 {
	if s.space() == uiparticle.SpaceLocal {
		return dir
	}
	return s.transform.WorldRotation().Rotate(dir)
}

func (s *System) gravity(dt float32) mgl32.Vec3 {
	g := mgl32.Vec3{0, -s.cfg.Gravity * dt, 0}
	if s.space() == uiparticle.SpaceLocal {
		return s.transform.WorldRotation().Conjugate().Rotate(g)
	}
	return g
}

func (s *System) spawn(pos, dir mgl32.Vec3, speedScale, lifeScale float32) {
	pl := &s.pool
	if pl.alive >= pl.capacity {
		return
	}
	idx := pl.alive
	pl.alive++

	pl.pos[idx] = pos
	speed := lerp(s.cfg.StartSpeed[0], s.cfg.StartSpeed[1], s.rng.Float32())
	pl.vel[idx] = dir.Mul(speed * speedScale)
	pl.age[idx] = 0
	pl.life[idx] = lerp(s.cfg.Lifetime[0], s.cfg.Lifetime[1], s.rng.Float32()) * lifeScale
	pl.size[idx] = lerp(s.cfg.StartSize[0], s.cfg.StartSize[1], s.rng.Float32())

	var c [4]float32
	for j := 0; j < 4; j++ {
		c[j] = lerp(s.colorMin[j], s.colorMax[j], s.rng.Float32())
	}
	pl.color[idx] = c
	pl.trail[idx] = pl.trail[idx][:0]
}

// Step advances the simulation by dt seconds.
func (s *System) Step(dt float32) {
	if s.paused || dt <= 0 {
		return
	}
	pl := &s.pool
	pl.ensure(s.cfg.MaxParticles)

	// Spawn
	if s.emitting {
		pl.spawnAcc += s.cfg.SpawnRate * dt
		spawnCount := int(pl.spawnAcc)
		if spawnCount > 0 {
			pl.spawnAcc -= float32(spawnCount)
		}
		origin := s.spawnPoint()
		for i := 0; i < spawnCount; i++ {
			s.spawn(origin, s.toSimSpace(s.sampleDirection(s.cfg.ConeAngleDegrees)), 1, 1)
		}
	}

	// Integrate
	drag := float32(math.Max(0, float64(1.0-s.cfg.Drag*dt)))
	grav := s.gravity(dt)
	var deaths []mgl32.Vec3
	i := 0
	for i < pl.alive {
		age := pl.age[i] + dt
		if age >= pl.life[i] {
			if s.cfg.SubEmitters {
				deaths = append(deaths, pl.pos[i])
			}
			pl.killAt(i)
			continue
		}

		s.recordTrail(i)

		v := pl.vel[i].Add(grav).Mul(drag)
		pl.pos[i] = pl.pos[i].Add(v.Mul(dt))
		pl.vel[i] = v
		pl.age[i] = age
		i++
	}

	for _, p := range deaths {
		for k := 0; k < subEmitterBurst; k++ {
			s.spawn(p, s.toSimSpace(s.sampleDirection(180)), 0.3, 0.5)
		}
	}
}

func (s *System) recordTrail(i int) {
	if !s.cfg.Trails || s.trailLength <= 0 {
		return
	}
	p := s.pool.pos[i]
	if s.worldTrails() {
		p = s.localToWorld(p)
	}
	tr := s.pool.trail[i]
	if len(tr) >= s.trailLength {
		copy(tr, tr[1:])
		tr = tr[:len(tr)-1]
	}
	s.pool.trail[i] = append(tr, p)
}

// worldTrails is true when a local simulation keeps its trails in world space.
func (s *System) worldTrails() bool {
	return s.cfg.Trails && s.cfg.TrailsWorldSpace && s.cfg.Space == uiparticle.SpaceLocal
}

// rotateScale applies the system's world rotation and lossy scale.
func (s *System) rotateScale(p mgl32.Vec3) mgl32.Vec3 {
	sc := s.transform.LossyScale()
	return s.transform.WorldRotation().Rotate(mgl32.Vec3{p.X() * sc.X(), p.Y() * sc.Y(), p.Z() * sc.Z()})
}

func (s *System) localToWorld(p mgl32.Vec3) mgl32.Vec3 {
	return s.rotateScale(p).Add(s.transform.WorldPosition())
}

// bakePoint maps a simulation-space point to bake output space.
func (s *System) bakePoint(p mgl32.Vec3, opts uiparticle.BakeMeshOptions) mgl32.Vec3 {
	if s.space() == uiparticle.SpaceLocal && opts&uiparticle.BakeRotationAndScale != 0 {
		return s.rotateScale(p)
	}
	return p
}
