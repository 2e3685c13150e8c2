package ui

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Camera owns zoom & pan parameters and exposes a GeoM matrix. Zoom is
// applied around the centre of the view so beat bumps pulse in place.
type Camera struct {
	Zoom    float64
	Base    float64
	OffsetX float64
	OffsetY float64

	// Width and Height are the logical view size.
	Width, Height float64
	// Settle is how fast Zoom returns to Base, per second.
	Settle float64
}

func NewCamera(w, h int) *Camera {
	return &Camera{Zoom: 1, Base: 1, Width: float64(w), Height: float64(h), Settle: 3.125}
}

// ScreenPos converts world coordinates to screen-space using the current
// camera transform.
func (c *Camera) ScreenPos(x, y float64) (sx, sy float64) {
	cx, cy := c.Width/2, c.Height/2
	sx = (x+c.OffsetX-cx)*c.Zoom + cx
	sy = (y+c.OffsetY-cy)*c.Zoom + cy
	return
}

// GeoM returns the affine transform applied to all world-space drawings.
func (c *Camera) GeoM() ebiten.GeoM {
	var m ebiten.GeoM
	m.Translate(c.OffsetX-c.Width/2, c.OffsetY-c.Height/2)
	m.Scale(c.Zoom, c.Zoom)
	m.Translate(c.Width/2, c.Height/2)
	return m
}

// GeoMRounded returns a matrix like GeoM but rounds the translation
// to integer pixels so text does not shimmer while the camera settles.
func (c *Camera) GeoMRounded() ebiten.GeoM {
	m := c.GeoM()
	m.SetElement(0, 2, math.Round(m.Element(0, 2)))
	m.SetElement(1, 2, math.Round(m.Element(1, 2)))
	return m
}

// Bump adds amount to the zoom. Update eases it back to Base.
func (c *Camera) Bump(amount float64) {
	c.Zoom += amount
	c.clamp()
}

// Update eases Zoom toward Base over dt seconds.
func (c *Camera) Update(dt float64) {
	k := 1 - math.Exp(-c.Settle*dt)
	c.Zoom += (c.Base - c.Zoom) * k
	if math.Abs(c.Zoom-c.Base) < 1e-4 {
		c.Zoom = c.Base
	}
}

func (c *Camera) clamp() {
	const minZoom, maxZoom = 0.1, 10.0
	if c.Zoom < minZoom {
		c.Zoom = minZoom
	} else if c.Zoom > maxZoom {
		c.Zoom = maxZoom
	}
}
