package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/trackdrive/config"
)

// KeyboardInput reads the player's drive inputs from keyboard and, when
// present, the first gamepad. Axes are normalized to [-1, 1].
type KeyboardInput struct {
	accel     float64
	rot       float64
	handbrake bool
}

// NewKeyboardInput creates the player input source.
func NewKeyboardInput() *KeyboardInput {
	return &KeyboardInput{}
}

// Refresh samples the current input state.
func (k *KeyboardInput) Refresh() {
	k.accel = 0
	k.rot = 0

	if rl.IsKeyDown(rl.KeyW) || rl.IsKeyDown(rl.KeyUp) {
		k.accel = 1
	}
	if rl.IsKeyDown(rl.KeyS) || rl.IsKeyDown(rl.KeyDown) {
		k.accel = -1
	}
	if rl.IsKeyDown(rl.KeyA) || rl.IsKeyDown(rl.KeyLeft) {
		k.rot = -1
	}
	if rl.IsKeyDown(rl.KeyD) || rl.IsKeyDown(rl.KeyRight) {
		k.rot = 1
	}
	k.handbrake = rl.IsKeyDown(rl.KeyLeftShift)

	// Gamepad overrides keyboard when its sticks are deflected.
	if rl.IsGamepadAvailable(0) {
		if stick := float64(rl.GetGamepadAxisMovement(0, rl.GamepadAxisLeftX)); stick > 0.1 || stick < -0.1 {
			k.rot = stick
		}
		throttle := float64(rl.GetGamepadAxisMovement(0, rl.GamepadAxisRightTrigger)+1) / 2
		brake := float64(rl.GetGamepadAxisMovement(0, rl.GamepadAxisLeftTrigger)+1) / 2
		if throttle > 0.05 || brake > 0.05 {
			k.accel = throttle - brake
		}
		if rl.IsGamepadButtonDown(0, rl.GamepadButtonRightFaceDown) {
			k.handbrake = true
		}
	}
}

// Acceleration returns the throttle/brake axis in [-1, 1].
func (k *KeyboardInput) Acceleration() float64 { return k.accel }

// Rotation returns the steering axis in [-1, 1].
func (k *KeyboardInput) Rotation() float64 { return k.rot }

// Handbrake reports whether the handbrake is held.
func (k *KeyboardInput) Handbrake() bool { return k.handbrake }

// handleInput processes simulation-level keyboard input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < 10 {
		g.stepsPerUpdate++
	}

	// Reset the player back to the start position
	if rl.IsKeyPressed(rl.KeyR) {
		g.resetPlayer()
	}

	// Mouse wheel adjusts the base zoom; the speed-FOV feedback
	// scales relative to it.
	if g.camera != nil {
		if wheel := rl.GetMouseWheelMove(); wheel != 0 {
			g.camera.BaseZoom *= 1 + wheel*0.1
			if g.camera.BaseZoom < g.camera.MinZoom {
				g.camera.BaseZoom = g.camera.MinZoom
			}
			if g.camera.BaseZoom > g.camera.MaxZoom {
				g.camera.BaseZoom = g.camera.MaxZoom
			}
		}
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	g.width = float32(rl.GetScreenWidth())
	g.height = float32(rl.GetScreenHeight())
	if g.camera != nil {
		g.camera.Resize(g.width, g.height)
	}
}

// resetPlayer teleports the player chassis back to the world center.
func (g *Game) resetPlayer() {
	rig, ok := g.rigs[g.playerID]
	if !ok {
		return
	}
	cfg := config.Cfg()
	body := rig.vehicle.Body()
	pos := body.Position()
	pos.X = float64(cfg.Derived.WorldW32 / 2)
	pos.Z = float64(cfg.Derived.WorldH32 / 2)
	body.Teleport(pos, 0)
}
