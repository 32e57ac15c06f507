package pixel

import (
	"github.com/chewxy/math32"
)

// Pixel is the universal interchange value between typed pixel storage: four
// float32 lanes, missing components left at zero.
type Pixel struct {
	R, G, B, A float32
}

// Add returns the componentwise sum of two pixels.
func (p Pixel) Add(other Pixel) Pixel {
	return Pixel{p.R + other.R, p.G + other.G, p.B + other.B, p.A + other.A}
}

// Sub returns the componentwise difference of two pixels.
func (p Pixel) Sub(other Pixel) Pixel {
	return Pixel{p.R - other.R, p.G - other.G, p.B - other.B, p.A - other.A}
}

// Scale returns the pixel with every component multiplied by s.
func (p Pixel) Scale(s float32) Pixel {
	return Pixel{p.R * s, p.G * s, p.B * s, p.A * s}
}

// Div returns the pixel with every component divided by s.
func (p Pixel) Div(s float32) Pixel {
	return Pixel{p.R / s, p.G / s, p.B / s, p.A / s}
}

// Length returns the euclidean length of the RGB subvector. Alpha does not
// contribute.
func (p Pixel) Length() float32 {
	return math32.Sqrt(p.R*p.R + p.G*p.G + p.B*p.B)
}

// Normalized returns the pixel with its RGB subvector scaled to unit length.
// Alpha is carried over unchanged.
func (p Pixel) Normalized() Pixel {
	length := p.Length()
	return Pixel{p.R / length, p.G / length, p.B / length, p.A}
}

// Component returns lane i (0..3).
func (p Pixel) Component(i int) float32 {
	switch i {
	case 0:
		return p.R
	case 1:
		return p.G
	case 2:
		return p.B
	}
	return p.A
}

// SetComponent sets lane i (0..3).
func (p *Pixel) SetComponent(i int, v float32) {
	switch i {
	case 0:
		p.R = v
	case 1:
		p.G = v
	case 2:
		p.B = v
	default:
		p.A = v
	}
}

// HalfPixel is the half-precision counterpart of Pixel, used by F16 hot
// loops so accumulation can stay close to the stored representation.
type HalfPixel [4]Half

// ToPixel widens all four lanes to float32.
func (h HalfPixel) ToPixel() Pixel {
	return Pixel{
		R: HalfToFloat32(h[0]),
		G: HalfToFloat32(h[1]),
		B: HalfToFloat32(h[2]),
		A: HalfToFloat32(h[3]),
	}
}

// HalfPixelFrom narrows a Pixel to four half-precision lanes.
func HalfPixelFrom(p Pixel) HalfPixel {
	return HalfPixel{
		HalfFromFloat32(p.R),
		HalfFromFloat32(p.G),
		HalfFromFloat32(p.B),
		HalfFromFloat32(p.A),
	}
}

// Position is a transient 3-D sample coordinate.
type Position struct {
	X, Y, Z float32
}

// Add returns the componentwise sum of two positions.
func (p Position) Add(other Position) Position {
	return Position{p.X + other.X, p.Y + other.Y, p.Z + other.Z}
}

// Sub returns the componentwise difference of two positions.
func (p Position) Sub(other Position) Position {
	return Position{p.X - other.X, p.Y - other.Y, p.Z - other.Z}
}

// Scale returns the position with every coordinate multiplied by s.
func (p Position) Scale(s float32) Position {
	return Position{p.X * s, p.Y * s, p.Z * s}
}
