package game

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/trackdrive/components"
	"github.com/pthm-cable/trackdrive/config"
	"github.com/pthm-cable/trackdrive/ui"
)

// Ground grid spacing in world units.
const gridSpacing = 50

var (
	groundColor = rl.Color{R: 34, G: 38, B: 42, A: 255}
	gridColor   = rl.Color{R: 48, G: 54, B: 60, A: 255}
	tyreColor   = rl.Color{R: 20, G: 20, B: 20, A: 255}
	playerColor = rl.Color{R: 120, G: 170, B: 230, A: 255}
)

// Draw renders one frame.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(groundColor)

	g.syncVisuals()
	g.followPlayer()

	g.drawGround()
	g.drawVehicles()
	g.drawHUD()

	g.perfCollector.RecordFrame()

	rl.EndDrawing()
}

// syncVisuals pulls render-side wheel state from the physics wheels.
// Runs once per frame, decoupled from the physics rate.
func (g *Game) syncVisuals() {
	query := g.vehicleFilter.Query()
	for query.Next() {
		_, _, _, vc, _, pose := query.Get()

		rig, ok := g.rigs[vc.ID]
		if !ok {
			continue
		}
		rig.ctl.RefreshVisuals()

		wheels := rig.vehicle.Wheels()
		for i, w := range wheels {
			pose.Steer[i] = float32(w.VisualSteer())
			pose.Spin[i] = float32(w.VisualSpin())
		}
	}
}

// followPlayer eases the camera onto the player vehicle.
func (g *Game) followPlayer() {
	if g.camera == nil {
		return
	}
	rig, ok := g.rigs[g.playerID]
	if !ok {
		return
	}
	cfg := config.Cfg()
	p := rig.vehicle.Body().Position()
	g.camera.Follow(float32(p.X), float32(p.Z), rl.GetFrameTime(), float32(cfg.CameraFX.FollowLag))
}

// drawGround renders the grid over the visible area.
func (g *Game) drawGround() {
	if g.camera == nil {
		return
	}
	minX, minY, maxX, maxY := g.camera.VisibleWorldBounds()

	startX := float32(math.Floor(float64(minX)/gridSpacing)) * gridSpacing
	for x := startX; x <= maxX; x += gridSpacing {
		sx1, sy1 := g.camera.WorldToScreen(x, minY)
		sx2, sy2 := g.camera.WorldToScreen(x, maxY)
		rl.DrawLine(int32(sx1), int32(sy1), int32(sx2), int32(sy2), gridColor)
	}
	startY := float32(math.Floor(float64(minY)/gridSpacing)) * gridSpacing
	for y := startY; y <= maxY; y += gridSpacing {
		sx1, sy1 := g.camera.WorldToScreen(minX, y)
		sx2, sy2 := g.camera.WorldToScreen(maxX, y)
		rl.DrawLine(int32(sx1), int32(sy1), int32(sx2), int32(sy2), gridColor)
	}
}

// drawVehicles renders each chassis as an oriented rectangle with its
// four wheels.
func (g *Game) drawVehicles() {
	if g.camera == nil {
		return
	}

	query := g.vehicleFilter.Query()
	for query.Next() {
		pos, _, rot, vc, chassis, pose := query.Get()

		if !g.camera.IsVisible(pos.X, pos.Y, chassis.Length) {
			continue
		}

		rig, ok := g.rigs[vc.ID]
		if !ok {
			continue
		}

		zoom := g.camera.Zoom
		sx, sy := g.camera.WorldToScreen(pos.X, pos.Y)
		headingDeg := rot.Heading * 180 / math.Pi

		// Wheels first so the body overlaps them
		wheels := rig.vehicle.Wheels()
		for i, w := range wheels {
			off := w.Offset()
			cos := float32(math.Cos(float64(rot.Heading)))
			sin := float32(math.Sin(float64(rot.Heading)))
			wx := pos.X + float32(off.X)*cos - float32(off.Z)*sin
			wy := pos.Y + float32(off.X)*sin + float32(off.Z)*cos
			wsx, wsy := g.camera.WorldToScreen(wx, wy)

			wheelDeg := headingDeg + pose.Steer[i]*180/math.Pi
			rl.DrawRectanglePro(
				rl.Rectangle{X: wsx, Y: wsy, Width: 0.7 * zoom, Height: 0.25 * zoom},
				rl.Vector2{X: 0.35 * zoom, Y: 0.125 * zoom},
				wheelDeg, tyreColor,
			)
		}

		color := playerColor
		if !vc.Player {
			color = rl.ColorFromHSV(chassis.Hue, 0.55, 0.85)
		}
		rl.DrawRectanglePro(
			rl.Rectangle{X: sx, Y: sy, Width: chassis.Length * zoom, Height: chassis.Width * zoom},
			rl.Vector2{X: chassis.Length * zoom / 2, Y: chassis.Width * zoom / 2},
			headingDeg, color,
		)

		if vc.Slipping {
			rl.DrawCircleLines(int32(sx), int32(sy), chassis.Length*zoom*0.7, rl.Red)
		}
	}
}

// drawHUD renders the player panel.
func (g *Game) drawHUD() {
	if g.hud == nil {
		return
	}
	rig, ok := g.rigs[g.playerID]
	if !ok {
		return
	}

	var vc components.Vehicle
	query := g.vehicleFilter.Query()
	for query.Next() {
		_, _, _, v, _, _ := query.Get()
		if v.ID == g.playerID {
			vc = *v
		}
	}

	gearName := ""
	if vc.Gear >= 0 {
		gearName = g.model.Curve(int(vc.Gear)).Name
	}

	g.hud.Draw(ui.HUDData{
		Title:        "Trackdrive",
		SpeedKmh:     vc.SpeedKmh,
		Gear:         int(vc.Gear),
		GearName:     gearName,
		EngineFrac:   vc.EngineFrac,
		SteerInput:   float32(rig.input.Rotation()),
		Slipping:     vc.Slipping,
		Handbrake:    vc.Handbrake,
		Tick:         g.tick,
		FPS:          rl.GetFPS(),
		Paused:       g.paused,
		ScreenWidth:  int32(g.width),
		ScreenHeight: int32(g.height),
	})
	g.hud.DrawControls(int32(g.width), int32(g.height),
		"WASD drive | Shift handbrake | R reset | Space pause | </> speed | Wheel zoom")
}
