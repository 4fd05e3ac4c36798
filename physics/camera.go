package physics

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Camera maps world units (Y up) onto screen pixels (Y down), centered on
// PosX/PosY.
type Camera struct {
	PosX float64
	PosY float64

	screenW int
	screenH int
	ppu     float64

	// smoothing factor (0..1); higher follows faster
	smooth float64
}

func NewCamera(screenW, screenH int, ppu float64) *Camera {
	if ppu <= 0 {
		ppu = 1
	}
	return &Camera{screenW: screenW, screenH: screenH, ppu: ppu, smooth: 0.15}
}

func (c *Camera) SetSmooth(f float64) {
	if f < 0 {
		f = 0
	}
	c.smooth = f
}

func (c *Camera) PixelsPerUnit() float64 {
	return c.ppu
}

// Follow moves the camera toward target. Call once per tick for consistent
// smoothing.
func (c *Camera) Follow(target cp.Vector) {
	if c.smooth <= 0 {
		c.PosX = target.X
		c.PosY = target.Y
	} else {
		c.PosX += (target.X - c.PosX) * c.smooth
		c.PosY += (target.Y - c.PosY) * c.smooth
	}
	c.snap()
}

// SnapTo centers the camera on target without smoothing.
func (c *Camera) SnapTo(target cp.Vector) {
	c.PosX = target.X
	c.PosY = target.Y
	c.snap()
}

// snap aligns the center to the pixel grid.
func (c *Camera) snap() {
	c.PosX = math.Round(c.PosX*c.ppu) / c.ppu
	c.PosY = math.Round(c.PosY*c.ppu) / c.ppu
}

// WorldToScreen converts a world point to screen pixels.
func (c *Camera) WorldToScreen(v cp.Vector) (float64, float64) {
	x := (v.X-c.PosX)*c.ppu + float64(c.screenW)/2
	y := float64(c.screenH)/2 - (v.Y-c.PosY)*c.ppu
	return x, y
}

// ScreenToWorld is the inverse of WorldToScreen.
func (c *Camera) ScreenToWorld(x, y float64) cp.Vector {
	return cp.Vector{
		X: (x-float64(c.screenW)/2)/c.ppu + c.PosX,
		Y: (float64(c.screenH)/2-y)/c.ppu + c.PosY,
	}
}
