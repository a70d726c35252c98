// Gear curve preview tool - interactive torque curve visualization.
//
// Usage: go run ./cmd/curvepreview [-config path]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/trackdrive/config"
	"github.com/pthm-cable/trackdrive/transmission"
)

const (
	windowWidth  = 1000
	windowHeight = 640
	plotW        = 620
	plotH        = 420
	panelWidth   = windowWidth - plotW - 40
)

var gearColors = []rl.Color{rl.SkyBlue, rl.Green, rl.Orange, rl.Pink, rl.Purple, rl.Yellow}

// sampleRow is one exported point of the torque map.
type sampleRow struct {
	Speed      float64 `csv:"speed_kmh"`
	Gear       string  `csv:"gear"`
	Torque     float64 `csv:"torque_nm"`
	EngineFrac float64 `csv:"engine_frac"`
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	config.MustInit(*configPath)
	cfg := config.Cfg()

	rl.InitWindow(windowWidth, windowHeight, "Gear Curve Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	// Per-gear multipliers applied on top of the configured keys
	base := cfg.Transmission
	gears := len(base.Gears)
	torqueScale := make([]float32, gears)
	speedScale := make([]float32, gears)
	for i := range torqueScale {
		torqueScale[i] = 1
		speedScale[i] = 1
	}

	selected := 0
	model := transmission.NewModel(scaledCurves(base, torqueScale, speedScale), nil)
	status := ""

	for !rl.WindowShouldClose() {
		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		curves := scaledCurves(base, torqueScale, speedScale)
		maxSpeed, maxTorque := plotExtents(curves)

		drawPlot(curves, selected, maxSpeed, maxTorque)

		// Readout under the cursor
		mouse := rl.GetMousePosition()
		if mouse.X >= 10 && mouse.X <= 10+plotW && mouse.Y >= 10 && mouse.Y <= 10+plotH {
			speed := float64((mouse.X - 10) / plotW * float32(maxSpeed))
			torque := model.Torque(speed)
			frac := model.EngineSpeedFraction(speed)
			gearText := "none"
			if idx, ok := model.Gear(speed); ok {
				gearText = model.Curve(idx).Name
			}
			rl.DrawText(
				fmt.Sprintf("%.1f km/h | %s | %.0f Nm | engine %.2f", speed, gearText, torque, frac),
				15, plotH+25, 16, rl.DarkGray,
			)
		}

		// Control panel
		panelX := float32(plotW + 30)
		panelY := float32(10)

		rl.DrawText("Gear Curves", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		// Gear selector
		name := "(none)"
		if gears > 0 {
			name = base.Gears[selected].Name
		}
		rl.DrawText(fmt.Sprintf("Gear: %s", name), int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 22
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 60, Height: 24}, "< Prev") && gears > 0 {
			selected = (selected + gears - 1) % gears
		}
		if gui.Button(rl.Rectangle{X: panelX + 70, Y: panelY, Width: 60, Height: 24}, "Next >") && gears > 0 {
			selected = (selected + 1) % gears
		}
		panelY += 40

		if gears > 0 {
			// Torque multiplier slider
			rl.DrawText("Torque scale", int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			newTorque := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				"0.5", "1.5",
				torqueScale[selected], 0.5, 1.5,
			)
			rl.DrawText(fmt.Sprintf("%.2f", torqueScale[selected]), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			if newTorque != torqueScale[selected] {
				torqueScale[selected] = newTorque
				model = transmission.NewModel(scaledCurves(base, torqueScale, speedScale), nil)
			}
			panelY += 35

			// Speed range multiplier slider
			rl.DrawText("Speed scale", int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			newSpeed := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				"0.5", "1.5",
				speedScale[selected], 0.5, 1.5,
			)
			rl.DrawText(fmt.Sprintf("%.2f", speedScale[selected]), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			if newSpeed != speedScale[selected] {
				speedScale[selected] = newSpeed
				model = transmission.NewModel(scaledCurves(base, torqueScale, speedScale), nil)
			}
			panelY += 35
		}

		rl.DrawLine(int32(panelX), int32(panelY), int32(panelX)+int32(panelWidth)-20, int32(panelY), rl.LightGray)
		panelY += 15

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			for i := range torqueScale {
				torqueScale[i] = 1
				speedScale[i] = 1
			}
			model = transmission.NewModel(scaledCurves(base, torqueScale, speedScale), nil)
			status = ""
		}
		panelY += 40
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Export YAML") {
			status = exportYAML(cfg, base, torqueScale, speedScale)
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Export CSV") {
			status = exportCSV(model, maxSpeed)
		}
		panelY += 40

		if status != "" {
			rl.DrawText(status, int32(panelX), int32(panelY), 14, rl.DarkGreen)
		}

		rl.EndDrawing()
	}
}

// scaledCurves applies the per-gear multipliers to the configured keys.
func scaledCurves(tc config.TransmissionConfig, torqueScale, speedScale []float32) []transmission.Curve {
	curves := make([]transmission.Curve, 0, len(tc.Gears))
	for i, gear := range tc.Gears {
		keys := make([]transmission.Key, 0, len(gear.Keys))
		for _, k := range gear.Keys {
			keys = append(keys, transmission.Key{
				Time:  k.Speed * float64(speedScale[i]),
				Value: k.Torque * float64(torqueScale[i]),
			})
		}
		curves = append(curves, transmission.Curve{Name: gear.Name, Keys: keys})
	}
	return curves
}

// plotExtents returns the axis ranges covering every curve.
func plotExtents(curves []transmission.Curve) (maxSpeed, maxTorque float64) {
	maxSpeed, maxTorque = 1, 1
	for _, c := range curves {
		for _, k := range c.Keys {
			if k.Time > maxSpeed {
				maxSpeed = k.Time
			}
			if k.Value > maxTorque {
				maxTorque = k.Value
			}
		}
	}
	return maxSpeed * 1.05, maxTorque * 1.1
}

// drawPlot renders the curve set into the plot area.
func drawPlot(curves []transmission.Curve, selected int, maxSpeed, maxTorque float64) {
	rl.DrawRectangle(10, 10, plotW, plotH, rl.Color{R: 245, G: 246, B: 248, A: 255})
	rl.DrawRectangleLines(10, 10, plotW, plotH, rl.DarkGray)

	toScreen := func(speed, torque float64) (int32, int32) {
		x := 10 + int32(speed/maxSpeed*plotW)
		y := 10 + plotH - int32(torque/maxTorque*plotH)
		return x, y
	}

	// Horizontal torque gridlines every 100 Nm
	for t := 100.0; t < maxTorque; t += 100 {
		_, y := toScreen(0, t)
		rl.DrawLine(10, y, 10+plotW, y, rl.LightGray)
		rl.DrawText(fmt.Sprintf("%.0f", t), 14, y-14, 10, rl.Gray)
	}

	for i, c := range curves {
		color := gearColors[i%len(gearColors)]
		if i == selected {
			color = rl.Red
		}
		for j := 0; j+1 < len(c.Keys); j++ {
			x1, y1 := toScreen(c.Keys[j].Time, c.Keys[j].Value)
			x2, y2 := toScreen(c.Keys[j+1].Time, c.Keys[j+1].Value)
			rl.DrawLine(x1, y1, x2, y2, color)
		}
		for _, k := range c.Keys {
			x, y := toScreen(k.Time, k.Value)
			rl.DrawCircle(x, y, 3, color)
		}
		lo, _ := c.Domain()
		x, _ := toScreen(lo, 0)
		rl.DrawText(c.Name, x+4, int32(20+14*i), 12, color)
	}
}

// exportYAML writes the config with the scaled curves applied.
func exportYAML(cfg *config.Config, base config.TransmissionConfig, torqueScale, speedScale []float32) string {
	out := *cfg
	out.Transmission.Gears = make([]config.GearConfig, len(base.Gears))
	for i, gear := range base.Gears {
		keys := make([]config.CurveKey, len(gear.Keys))
		for j, k := range gear.Keys {
			keys[j] = config.CurveKey{
				Speed:  k.Speed * float64(speedScale[i]),
				Torque: k.Torque * float64(torqueScale[i]),
			}
		}
		out.Transmission.Gears[i] = config.GearConfig{Name: gear.Name, Keys: keys}
	}

	path := "curvepreview_config.yaml"
	if err := out.WriteYAML(path); err != nil {
		slog.Error("yaml export failed", "error", err)
		return "YAML export failed"
	}
	return "Wrote " + path
}

// exportCSV samples the torque map in 1 km/h steps.
func exportCSV(model *transmission.Model, maxSpeed float64) string {
	var rows []sampleRow
	for speed := 0.0; speed <= maxSpeed; speed++ {
		row := sampleRow{
			Speed:      speed,
			Torque:     model.Torque(speed),
			EngineFrac: model.EngineSpeedFraction(speed),
			Gear:       "none",
		}
		if idx, ok := model.Gear(speed); ok {
			row.Gear = model.Curve(idx).Name
		}
		rows = append(rows, row)
	}

	path := "curve_samples.csv"
	f, err := os.Create(path)
	if err != nil {
		slog.Error("csv export failed", "error", err)
		return "CSV export failed"
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		slog.Error("csv export failed", "error", err)
		return "CSV export failed"
	}
	return "Wrote " + path
}
