// Package canvas maps between document units and canvas pixels and applies
// drag deltas back into the diagram model.
//
// Document units are the coordinates written in TikZ source (y up, arbitrary
// origin). Canvas pixels have their origin at the top-left with y pointing
// down. A [Mapper] holds the scale factor and origin offset shared by both
// directions; the same Mapper must be used for rendering and for converting
// drag positions back, or nodes would visibly jump mid-drag.
package canvas

import (
	"math"

	"github.com/okrause/tikzcanvas/pkg/diagram"
)

// Default mapping configuration: 50 pixels per document unit, with the
// document origin at canvas pixel (400,300).
const (
	DefaultScale   = 50.0
	DefaultOriginX = 400.0
	DefaultOriginY = 300.0
)

// Pixel is a position in canvas space. Kept as float64 so sub-pixel drag
// deltas survive the round trip; rounding happens only when a value is
// written back into source text.
type Pixel struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Mapper converts between document units and canvas pixels.
type Mapper struct {
	Scale  float64
	Origin Pixel
}

// DefaultMapper returns a Mapper with the default scale and origin.
func DefaultMapper() Mapper {
	return Mapper{Scale: DefaultScale, Origin: Pixel{X: DefaultOriginX, Y: DefaultOriginY}}
}

// ToPixels converts a document-unit position to canvas pixels.
// The y axis is flipped: document y grows upward, canvas y grows downward.
func (m Mapper) ToPixels(u diagram.Point) Pixel {
	return Pixel{
		X: u.X*m.Scale + m.Origin.X,
		Y: -u.Y*m.Scale + m.Origin.Y,
	}
}

// ToUnits converts a canvas pixel position back to document units.
// Inverse of ToPixels within floating-point tolerance.
func (m Mapper) ToUnits(p Pixel) diagram.Point {
	return diagram.Point{
		X: (p.X - m.Origin.X) / m.Scale,
		Y: -(p.Y - m.Origin.Y) / m.Scale,
	}
}

// RoundUnit rounds a document-unit value to the 2-decimal precision used in
// source text.
func RoundUnit(v float64) float64 {
	return math.Round(v*100) / 100
}
