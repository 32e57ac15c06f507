package pixel

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

func TestPixelArithmetic(t *testing.T) {
	a := Pixel{R: 1, G: 2, B: 3, A: 4}
	b := Pixel{R: 0.5, G: 0.5, B: 0.5, A: 0.5}

	sum := a.Add(b)
	assert.Equal(t, Pixel{R: 1.5, G: 2.5, B: 3.5, A: 4.5}, sum)

	diff := a.Sub(b)
	assert.Equal(t, Pixel{R: 0.5, G: 1.5, B: 2.5, A: 3.5}, diff)

	scaled := b.Scale(2)
	assert.Equal(t, Pixel{R: 1, G: 1, B: 1, A: 1}, scaled)

	halved := a.Div(2)
	assert.Equal(t, Pixel{R: 0.5, G: 1, B: 1.5, A: 2}, halved)
}

func TestPixelLengthIgnoresAlpha(t *testing.T) {
	p := Pixel{R: 3, G: 4, B: 0, A: 100}
	assert.InDelta(t, 5.0, p.Length(), 1e-6, "length is over RGB only")
}

func TestPixelNormalized(t *testing.T) {
	p := Pixel{R: 2, G: 2, B: 2, A: 0.25}
	n := p.Normalized()
	assert.InDelta(t, 1.0, n.Length(), 1e-6)
	assert.InDelta(t, 1.0/math32.Sqrt(3), n.R, 1e-6)
	assert.Equal(t, float32(0.25), n.A, "alpha is carried over unchanged")
}

func TestPixelComponents(t *testing.T) {
	var p Pixel
	for i := 0; i < 4; i++ {
		p.SetComponent(i, float32(i)+1)
	}
	assert.Equal(t, Pixel{R: 1, G: 2, B: 3, A: 4}, p)
	for i := 0; i < 4; i++ {
		assert.Equal(t, float32(i)+1, p.Component(i))
	}
}

func TestHalfPixelRoundTrip(t *testing.T) {
	p := Pixel{R: 0.5, G: 0.25, B: 1, A: 0}
	h := HalfPixelFrom(p)
	back := h.ToPixel()
	// All lanes here are exactly representable in half precision.
	assert.Equal(t, p, back)
}

func TestPositionArithmetic(t *testing.T) {
	a := Position{X: 1, Y: 2, Z: 3}
	b := Position{X: 0.5, Y: 1, Z: 1.5}

	assert.Equal(t, Position{X: 1.5, Y: 3, Z: 4.5}, a.Add(b))
	assert.Equal(t, Position{X: 0.5, Y: 1, Z: 1.5}, a.Sub(b))
	assert.Equal(t, Position{X: 2, Y: 4, Z: 6}, a.Scale(2))
}

func TestHalfStoreLoad(t *testing.T) {
	buf := make([]byte, 2)
	StoreHalf(buf, HalfFromFloat32(0.375))
	assert.Equal(t, float32(0.375), HalfToFloat32(LoadHalf(buf)))
}
