package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	SpeedKmh     float32
	Gear         int
	GearName     string
	EngineFrac   float32
	SteerInput   float32
	Slipping     bool
	Handbrake    bool
	Tick         int32
	FPS          int32
	Paused       bool
	ScreenWidth  int32
	ScreenHeight int32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	pad := r.Theme.Padding

	// Title and simulation info
	rl.DrawText(data.Title, 10, 10, 20, rl.White)
	rl.DrawText(
		fmt.Sprintf("Tick: %d | FPS: %d", data.Tick, data.FPS),
		10, 35, 16, rl.LightGray,
	)
	if data.Paused {
		rl.DrawText("PAUSED", 10, 55, 16, rl.Yellow)
	}

	// Drive panel, bottom left
	panelW := int32(240)
	panelH := int32(110)
	px := pad
	py := data.ScreenHeight - panelH - pad
	r.DrawPanel(px, py, panelW, panelH)

	x := px + pad
	y := py + pad
	y = r.DrawSectionHeader(x, y, "Drive")
	gear := data.GearName
	if gear == "" {
		if data.Gear < 0 {
			gear = "-"
		} else {
			gear = fmt.Sprintf("%d", data.Gear+1)
		}
	}
	y = r.DrawLabelValue(x, y, "Speed", fmt.Sprintf("%.1f km/h", data.SpeedKmh))
	y = r.DrawLabelValue(x, y, "Gear", gear)
	y = r.DrawBar(x, y, "Engine", data.EngineFrac, panelW-2*pad, false)
	y = r.DrawCenteredBar(x, y, "Steer", data.SteerInput, panelW-2*pad)

	// Status flags, right of the panel
	if data.Slipping {
		rl.DrawText("SLIP", px+panelW+10, py+10, 20, rl.Red)
	}
	if data.Handbrake {
		rl.DrawText("HANDBRAKE", px+panelW+10, py+35, 16, rl.Orange)
	}
}

// DrawControls renders the control legend in the bottom right corner.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	w := rl.MeasureText(controls, 14)
	rl.DrawText(controls, screenWidth-w-10, screenHeight-25, 14, rl.Gray)
}
