package ui

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// Face is the bitmap font every screen draws with.
var Face = text.NewGoXFace(basicfont.Face7x13)

// Align selects how DrawText places a line relative to its anchor.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
)

// TextStyle describes one DrawText call.
type TextStyle struct {
	Scale   float64
	Color   color.Color
	Align   Align
	Spacing float64 // extra line spacing in unscaled px
}

// DrawRect draws a rectangle. It is defined as a variable so tests can
// override it to capture draw calls.
var DrawRect = func(dst *ebiten.Image, r image.Rectangle, c color.Color, filled bool) {
	if filled {
		vector.DrawFilledRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), c, false)
	} else {
		vector.StrokeRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), 1, c, false)
	}
}

// DrawText renders s with its anchor at (x,y) after applying geo. Multi-line
// strings are laid out top to bottom. Tests replace it to capture text.
var DrawText = func(dst *ebiten.Image, s string, x, y float64, geo ebiten.GeoM, st TextStyle) {
	scale := st.Scale
	if scale == 0 {
		scale = 1
	}
	op := &text.DrawOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	op.GeoM.Concat(geo)
	if st.Color != nil {
		op.ColorScale.ScaleWithColor(st.Color)
	}
	op.LineSpacing = Face.Metrics().HLineGap + Face.Metrics().HAscent + Face.Metrics().HDescent + st.Spacing
	if st.Align == AlignCenter {
		op.PrimaryAlign = text.AlignCenter
	}
	text.Draw(dst, s, Face, op)
}

// Fill covers r with c at alpha a.
func Fill(dst *ebiten.Image, r image.Rectangle, c color.RGBA, a uint8) {
	if a == 0 {
		return
	}
	DrawRect(dst, r, color.NRGBA{c.R, c.G, c.B, a}, true)
}
