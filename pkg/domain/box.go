package domain

import "fmt"

// Box is a coordinate rectangle: a viewBox (MinX, MinY, Width, Height)
// or a placement box (x, y, width, height).
type Box struct {
	MinX   float64 `json:"min_x"`
	MinY   float64 `json:"min_y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DefaultBox is the fallback intrinsic box of a document without usable geometry.
var DefaultBox = Box{Width: DefaultBoxSize, Height: DefaultBoxSize}

// Corners returns the four corners of the box, clockwise from (MinX, MinY).
func (b Box) Corners() [4][2]float64 {
	return [4][2]float64{
		{b.MinX, b.MinY},
		{b.MinX + b.Width, b.MinY},
		{b.MinX + b.Width, b.MinY + b.Height},
		{b.MinX, b.MinY + b.Height},
	}
}

func (b Box) String() string {
	return fmt.Sprintf("%g %g %g %g", b.MinX, b.MinY, b.Width, b.Height)
}
