package game

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/trackdrive/components"
	"github.com/pthm-cable/trackdrive/config"
	"github.com/pthm-cable/trackdrive/drive"
	"github.com/pthm-cable/trackdrive/physics"
	"github.com/pthm-cable/trackdrive/telemetry"
	"github.com/pthm-cable/trackdrive/transmission"
)

// vehicleRig couples one entity's physics chassis, input source, and
// drive controller. Rigs live outside the ECS; components carry only
// the mirrored render state.
type vehicleRig struct {
	vehicle *physics.Vehicle
	ctl     *drive.Controller
	input   drive.InputSource
}

// spawnInitialVehicles creates the player and the autopilot traffic.
func (g *Game) spawnInitialVehicles() {
	cfg := config.Cfg()

	cx := cfg.Derived.WorldW32 / 2
	cy := cfg.Derived.WorldH32 / 2

	g.player = g.spawnVehicle(cx, cy, 0, true)

	radius := float32(cfg.Autopilot.SpawnRadius)
	for i := 0; i < cfg.Autopilot.Count; i++ {
		angle := g.rng.Float32() * 2 * math.Pi
		dist := radius * (0.3 + 0.7*g.rng.Float32())
		x := cx + dist*float32(math.Cos(float64(angle)))
		y := cy + dist*float32(math.Sin(float64(angle)))
		heading := g.rng.Float32() * 2 * math.Pi
		g.spawnVehicle(x, y, heading, false)
	}
}

// spawnVehicle creates one vehicle entity with its rig.
func (g *Game) spawnVehicle(x, y, heading float32, player bool) ecs.Entity {
	cfg := config.Cfg()

	id := g.nextID
	g.nextID++

	veh := physics.NewVehicle(physics.VehicleConfig{
		Body: physics.BodyConfig{
			Mass:              cfg.Vehicle.Mass,
			DragCoefficient:   cfg.Vehicle.DragCoefficient,
			RollingResistance: cfg.Vehicle.RollingResistance,
			Wheelbase:         cfg.Vehicle.Wheelbase,
		},
		WheelRadius: cfg.Vehicle.WheelRadius,
		WheelGrip:   cfg.Vehicle.WheelGrip,
		TrackWidth:  cfg.Vehicle.TrackWidth,
	}, r3.Vec{X: float64(x), Z: float64(y)}, float64(heading))

	input := g.inputFor(player)

	opts := drive.Options{Events: g.eventsFor(player)}
	if player {
		if g.camera != nil {
			opts.Camera = g.camera
		}
		opts.Skid = g.skid
	}

	ctl := drive.New(veh.Body(), input, veh.Actuators(), g.model, driveSettings(cfg), opts)
	g.rigs[id] = &vehicleRig{vehicle: veh, ctl: ctl, input: input}

	pos := components.Position{X: x, Y: y}
	vel := components.Velocity{}
	rot := components.Rotation{Heading: heading}
	vc := components.Vehicle{ID: id, Player: player}
	chassis := components.Chassis{
		Length: float32(cfg.Vehicle.Wheelbase) * 1.4,
		Width:  float32(cfg.Vehicle.TrackWidth) * 1.1,
		Hue:    g.rng.Float32() * 360,
	}
	pose := components.WheelPose{}

	entity := g.vehicleMapper.NewEntity(&pos, &vel, &rot, &vc, &chassis, &pose)
	if player {
		g.playerID = id
	}
	return entity
}

// inputFor selects the input source: keyboard for the player when a
// window exists, the scripted autopilot otherwise.
func (g *Game) inputFor(player bool) drive.InputSource {
	cfg := config.Cfg()
	if player && !g.headless {
		return NewKeyboardInput()
	}
	phase := g.rng.Float64() * 2 * math.Pi
	return NewAutopilot(cfg.Autopilot.Throttle, cfg.Autopilot.SteerPeriod, phase, cfg.Physics.DT)
}

// eventsFor routes player events through the stats collector; traffic
// only logs.
func (g *Game) eventsFor(player bool) telemetry.Recorder {
	if player {
		return g.events
	}
	return telemetry.NewLogRecorder()
}

// driveSettings maps the loaded config onto controller settings.
func driveSettings(cfg *config.Config) drive.Settings {
	return drive.Settings{
		MaxSteerAngle:        cfg.Derived.MaxSteerAngle,
		MaxHandbrakeTorque:   cfg.Drive.MaxHandbrakeTorque,
		DownforceCoefficient: cfg.Drive.Downforce,
		SlipLimit:            cfg.Drive.SlipLimit,
		ReverseMultiplier:    cfg.Drive.ReverseMultiplier,
		FOVMin:               cfg.CameraFX.FOVMin,
		FOVMax:               cfg.CameraFX.FOVMax,
		FOVMaxSpeed:          cfg.CameraFX.FOVMaxSpeed,
		CenterOfMass:         r3.Vec{Y: cfg.Drive.CenterOfMassY},
	}
}

// buildCurves converts configured gears into transmission curves.
func buildCurves(tc config.TransmissionConfig) []transmission.Curve {
	curves := make([]transmission.Curve, 0, len(tc.Gears))
	for _, gear := range tc.Gears {
		keys := make([]transmission.Key, 0, len(gear.Keys))
		for _, k := range gear.Keys {
			keys = append(keys, transmission.Key{Time: k.Speed, Value: k.Torque})
		}
		curves = append(curves, transmission.Curve{Name: gear.Name, Keys: keys})
	}
	return curves
}

// mirrorToECS copies physics state into the render components.
func (g *Game) mirrorToECS() {
	query := g.vehicleFilter.Query()
	for query.Next() {
		pos, vel, rot, vc, _, _ := query.Get()

		rig, ok := g.rigs[vc.ID]
		if !ok {
			continue
		}

		body := rig.vehicle.Body()
		p := body.Position()
		v := body.Velocity()

		// Physics is Y-up; the top-down view maps X,Z onto the plane.
		pos.X = float32(p.X)
		pos.Y = float32(p.Z)
		vel.X = float32(v.X)
		vel.Y = float32(v.Z)
		rot.Heading = float32(body.Heading())

		vc.SpeedKmh = float32(rig.ctl.Speed())
		vc.EngineFrac = float32(rig.ctl.EngineSpeedFraction())
		vc.Slipping = rig.ctl.Slipping()
		vc.Handbrake = rig.input.Handbrake()
		if gear, ok := g.model.Gear(rig.ctl.Speed()); ok {
			vc.Gear = int8(gear)
		} else {
			vc.Gear = -1
		}
	}
}
