// Package camera provides a 2D camera system for viewport control.
package camera

// Camera controls the viewport into the driving area.
// Supports pan, zoom, target following, and speed-driven field of view.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// World dimensions (for clamping)
	WorldW, WorldH float32

	// Zoom constraints
	MinZoom, MaxZoom float32

	// BaseZoom is the zoom at the narrowest field of view.
	BaseZoom float32

	// Field of view state driven by vehicle speed. The camera is
	// top-down, so FOV maps onto zoom: a wider angle pulls the view
	// out.
	fovMin, fovMax float32
	fov            float32
}

// New creates a camera centered on the world with 1:1 zoom.
func New(viewportW, viewportH, worldW, worldH float32) *Camera {
	// Compute minimum zoom so viewport never exceeds world bounds
	// At zoom Z, visible world area is (viewportW/Z, viewportH/Z)
	// We need viewportW/Z <= worldW AND viewportH/Z <= worldH
	// So Z >= viewportW/worldW AND Z >= viewportH/worldH
	minZoomX := viewportW / worldW
	minZoomY := viewportH / worldH
	minZoom := minZoomX
	if minZoomY > minZoom {
		minZoom = minZoomY
	}

	return &Camera{
		X:         worldW / 2,
		Y:         worldH / 2,
		Zoom:      1.0,
		BaseZoom:  1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		WorldW:    worldW,
		WorldH:    worldH,
		MinZoom:   minZoom,
		MaxZoom:   4.0,
	}
}

// ConfigureFOV sets the field-of-view range the speed feedback moves
// through. Until this is called SetFieldOfView is a no-op.
func (c *Camera) ConfigureFOV(min, max float32) {
	c.fovMin = min
	c.fovMax = max
	c.fov = min
}

// SetFieldOfView applies a new field of view in degrees. Wider angles
// zoom the top-down view out proportionally, scaled from BaseZoom at
// the narrow end.
func (c *Camera) SetFieldOfView(deg float64) {
	if c.fovMin <= 0 || c.fovMax <= c.fovMin {
		return
	}
	f := clamp(float32(deg), c.fovMin, c.fovMax)
	c.fov = f
	c.SetZoom(c.BaseZoom * c.fovMin / f)
}

// FieldOfView returns the current field of view in degrees.
func (c *Camera) FieldOfView() float32 { return c.fov }

// Follow eases the camera center toward the target. lag is the
// smoothing rate per second; higher values track tighter.
func (c *Camera) Follow(tx, ty float32, dt, lag float32) {
	if dt <= 0 {
		return
	}
	t := lag * dt
	if t > 1 {
		t = 1
	}
	c.X = clampToWorld(c.X+(tx-c.X)*t, c.ViewportW/(2*c.Zoom), c.WorldW)
	c.Y = clampToWorld(c.Y+(ty-c.Y)*t, c.ViewportH/(2*c.Zoom), c.WorldH)
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 + (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y + (sy-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// IsVisible returns true if a circle at (wx, wy) with given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	dx := wx - c.X
	dy := wy - c.Y

	// Half-extents of the visible area in world coords, plus margin for radius
	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius

	return absf(dx) <= halfW && absf(dy) <= halfH
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	minZoomX := viewportW / c.WorldW
	minZoomY := viewportH / c.WorldH
	c.MinZoom = minZoomX
	if minZoomY > c.MinZoom {
		c.MinZoom = minZoomY
	}
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
}

// Pan moves the camera by the given delta in screen pixels, clamped
// to the world bounds.
func (c *Camera) Pan(dx, dy float32) {
	c.X = clampToWorld(c.X+dx/c.Zoom, c.ViewportW/(2*c.Zoom), c.WorldW)
	c.Y = clampToWorld(c.Y+dy/c.Zoom, c.ViewportH/(2*c.Zoom), c.WorldH)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the default position and zoom.
func (c *Camera) Reset() {
	c.X = c.WorldW / 2
	c.Y = c.WorldH / 2
	c.Zoom = c.BaseZoom
	c.fov = c.fovMin
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
// Returns (minX, minY, maxX, maxY) in world coordinates.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)

	minX = c.X - halfW
	maxX = c.X + halfW
	minY = c.Y - halfH
	maxY = c.Y + halfH
	return
}

// clampToWorld keeps a camera axis inside [half, size-half]. A world
// smaller than the viewport centers instead.
func clampToWorld(x, half, size float32) float32 {
	if 2*half >= size {
		return size / 2
	}
	return clamp(x, half, size-half)
}

// absf returns the absolute value of a float32.
func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
