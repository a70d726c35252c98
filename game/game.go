package game

import (
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/trackdrive/camera"
	"github.com/pthm-cable/trackdrive/components"
	"github.com/pthm-cable/trackdrive/config"
	"github.com/pthm-cable/trackdrive/telemetry"
	"github.com/pthm-cable/trackdrive/transmission"
	"github.com/pthm-cable/trackdrive/ui"
)

// Options holds game initialization parameters.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
	Headless       bool
	StepsPerUpdate int
}

// Game holds the complete simulation state.
type Game struct {
	world *ecs.World
	rng   *rand.Rand

	// Entity mappers for the vehicle archetype
	vehicleMapper *ecs.Map6[
		components.Position,
		components.Velocity,
		components.Rotation,
		components.Vehicle,
		components.Chassis,
		components.WheelPose,
	]
	vehicleFilter *ecs.Filter6[
		components.Position,
		components.Velocity,
		components.Rotation,
		components.Vehicle,
		components.Chassis,
		components.WheelPose,
	]

	// Drive rigs (per entity by ID): physics chassis plus controller.
	rigs map[uint32]*vehicleRig

	// Shared torque model
	model *transmission.Model

	// Rendering
	camera *camera.Camera
	hud    *ui.HUD
	skid   *SkidCue

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	events        telemetry.Recorder
	logStats      bool

	// State
	tick           int32
	paused         bool
	nextID         uint32
	stepsPerUpdate int
	headless       bool
	player         ecs.Entity
	playerID       uint32

	// Window dimensions
	width, height float32
}

// NewGameWithOptions creates a game from the loaded configuration.
func NewGameWithOptions(opts Options) *Game {
	cfg := config.Cfg()
	world := ecs.NewWorld()

	g := &Game{
		world:          world,
		rng:            rand.New(rand.NewSource(opts.Seed)),
		rigs:           make(map[uint32]*vehicleRig),
		width:          cfg.Derived.ScreenW32,
		height:         cfg.Derived.ScreenH32,
		stepsPerUpdate: max(opts.StepsPerUpdate, 1),
		headless:       opts.Headless,
		logStats:       opts.LogStats,
		vehicleMapper: ecs.NewMap6[
			components.Position,
			components.Velocity,
			components.Rotation,
			components.Vehicle,
			components.Chassis,
			components.WheelPose,
		](world),
		vehicleFilter: ecs.NewFilter6[
			components.Position,
			components.Velocity,
			components.Rotation,
			components.Vehicle,
			components.Chassis,
			components.WheelPose,
		](world),
	}

	// Torque model from the configured gear curves
	g.collector = telemetry.NewCollector(opts.StatsWindowSec, cfg.Physics.DT)
	g.perfCollector = telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)
	g.events = telemetry.MultiRecorder(telemetry.NewLogRecorder(), g.collector)
	g.model = transmission.NewModel(buildCurves(cfg.Transmission), g.events)

	// Output manager for CSV logs
	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			slog.Error("failed to create output directory", "dir", opts.OutputDir, "error", err)
		} else {
			g.outputManager = om
			if err := om.WriteConfig(cfg); err != nil {
				slog.Error("failed to write config snapshot", "error", err)
			}
		}
	}

	// Camera and HUD only make sense with a window
	if !opts.Headless {
		g.camera = camera.New(g.width, g.height, cfg.Derived.WorldW32, cfg.Derived.WorldH32)
		g.camera.MaxZoom = 24
		g.camera.BaseZoom = 8
		g.camera.SetZoom(8)
		g.camera.ConfigureFOV(float32(cfg.CameraFX.FOVMin), float32(cfg.CameraFX.FOVMax))
		g.hud = ui.NewHUD()
	}
	g.skid = NewSkidCue(skidPath(cfg, opts.Headless), cfg.Audio.Volume)

	g.spawnInitialVehicles()

	return g
}

// skidPath returns the configured skid sound path, or empty when audio
// cannot play.
func skidPath(cfg *config.Config, headless bool) string {
	if headless {
		return ""
	}
	return cfg.Audio.SkidSound
}

// Update runs input handling and simulation steps for one frame.
func (g *Game) Update() {
	g.handleInput()

	if g.paused {
		return
	}

	for i := 0; i < g.stepsPerUpdate; i++ {
		g.simulationStep()
	}
}

// UpdateHeadless runs simulation steps without any input or rendering.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.simulationStep()
	}
}

// simulationStep runs a single fixed tick.
func (g *Game) simulationStep() {
	cfg := config.Cfg()
	dt := cfg.Physics.DT

	g.perfCollector.StartTick()

	// 1. Drive controllers: input, steering, torque, feedback
	g.perfCollector.StartPhase(telemetry.PhaseDrive)
	for _, rig := range g.rigs {
		rig.ctl.AdvancePhysics(dt)
	}

	// 2. Physics: wheels push, bodies integrate
	g.perfCollector.StartPhase(telemetry.PhasePhysics)
	for _, rig := range g.rigs {
		rig.vehicle.Step(dt)
	}
	g.mirrorToECS()

	// 3. Telemetry: sample the player rig and flush windows
	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	if rig, ok := g.rigs[g.playerID]; ok {
		g.collector.RecordTick(rig.ctl.Speed(), rig.ctl.MaxSlip(), rig.ctl.Torque(), rig.ctl.Slipping())
	}
	g.flushTelemetry()

	g.perfCollector.EndTick()
	g.tick++
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.tick
}

// Unload releases resources.
func (g *Game) Unload() {
	if g.skid != nil {
		g.skid.Unload()
	}
	if g.outputManager != nil {
		_ = g.outputManager.Close()
	}
}
