package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gekko3d/uiparticle"
	"github.com/gekko3d/uiparticle/core"
	"github.com/gekko3d/uiparticle/cpusim"
	"github.com/go-gl/mathgl/mgl32"
)

type demoElement struct {
	system  *cpusim.System
	target  *uiparticle.MemoryTarget
	element *uiparticle.UIParticle
}

func main() {
	configPath := flag.String("config", "", "Path to a TOML config file")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg := uiparticle.DefaultConfig()
	if *configPath != "" {
		loaded, err := uiparticle.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *debug {
		cfg.Log.Debug = true
	}

	logger := uiparticle.NewLogger(cfg.Log)
	if err := run(cfg, logger); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(cfg uiparticle.Config, logger uiparticle.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	clock := &uiparticle.FrameCounter{}
	signal := uiparticle.NewRenderSignal()
	scheduler := uiparticle.NewScheduler(clock, signal, nil, logger)
	scheduler.Baker().SetAlphaEpsilon(cfg.AlphaEpsilon)
	cache := uiparticle.NewVariantCache(cfg.Strict, logger)
	canvas := uiparticle.StaticCanvas{Camera: core.NewCamera("UICamera")}

	mainMat := core.NewMaterial("UI/Particle", "ui-particle-additive")
	mainMat.SetVector("_TintColor", mgl32.Vec4{1, 1, 1, 1})
	var trailMat *core.Material
	if cfg.Demo.Emitter.Trails {
		trailMat = core.NewMaterial("UI/ParticleTrail", "ui-particle-additive")
	}

	elements := make([]demoElement, 0, cfg.Demo.Elements)
	for i := 0; i < cfg.Demo.Elements; i++ {
		tr := core.NewTransform()
		tr.Position = mgl32.Vec3{float32(i) * 120, 0, 0}

		emitter := cfg.Demo.Emitter
		emitter.Seed += int64(i)
		sys := cpusim.New(fmt.Sprintf("Particles %d", i), emitter, tr)
		sys.SetMaterials(mainMat, trailMat)
		sys.Play()

		target := uiparticle.NewMemoryTarget()
		el := uiparticle.NewUIParticle(uiparticle.ElementConfig{
			Source:               sys,
			Target:               target,
			Canvas:               canvas,
			Masking:              uiparticle.FixedMasking(cfg.Demo.StencilDepth),
			Scheduler:            scheduler,
			Cache:                cache,
			Logger:               logger,
			Maskable:             true,
			AnimatableProperties: []string{"_TintColor"},
			MaxMaterialSlots:     cfg.MaxMaterialSlots,
		})
		for _, f := range uiparticle.Validate(uiparticle.Describe(el)) {
			logger.Warnf("%s: %s", el.Name(), f.Message)
		}
		el.Enable()
		elements = append(elements, demoElement{system: sys, target: target, element: el})
	}

	dt := 1 / cfg.Demo.FrameRate
	for frame := 0; frame < cfg.Demo.Frames; frame++ {
		clock.Advance()
		for _, de := range elements {
			de.system.PropertyBlock().Set("_TintColor", mgl32.Vec4{1, 1, 1, float32(frame%60) / 60})
			de.system.Step(dt)
		}
		// Hosts with several canvases fire the signal more than once.
		signal.Emit()
		signal.Emit()

		if frame%30 == 0 || frame == cfg.Demo.Frames-1 {
			logFrame(logger, clock.FrameCount(), elements)
		}
	}

	for _, de := range elements {
		de.element.Disable()
	}

	logger.Infof("passes=%d frames=%d variants(masked=%d textured=%d created=%d) meshes(outstanding=%d created=%d)",
		scheduler.Passes(), cfg.Demo.Frames, cache.MaskedLen(), cache.TexturedLen(), cache.Created(),
		scheduler.MeshPool().Outstanding(), scheduler.MeshPool().Created())
	if cache.MaskedLen() != 0 || cache.TexturedLen() != 0 {
		return fmt.Errorf("variant cache leaked %d masked and %d textured variants", cache.MaskedLen(), cache.TexturedLen())
	}
	if n := scheduler.MeshPool().Outstanding(); n != 0 {
		return fmt.Errorf("mesh pool leaked %d meshes", n)
	}
	return nil
}

func logFrame(logger uiparticle.Logger, frame int, elements []demoElement) {
	for _, de := range elements {
		m := de.target.Mesh()
		logger.Infof("frame=%d %s particles=%d streams=%d vertices=%d triangles=%d materials=%d bounds=%v",
			frame, de.element.Name(), de.system.ParticleCount(), de.element.SubStreamCount(),
			m.VertexCount(), m.TriangleCount(), de.target.MaterialCount(), m.Bounds.Size())
	}
}
