package pixel

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

func TestTransferFunctionsKnownValues(t *testing.T) {
	// Below the linear segment threshold.
	assert.InDelta(t, 0.04/12.92, SRGBToLinear(0.04), 1e-7)
	assert.InDelta(t, 0.003*12.92, LinearToSRGB(0.003), 1e-7)

	// Endpoints are fixed.
	assert.Equal(t, float32(0), SRGBToLinear(0))
	assert.InDelta(t, 1.0, SRGBToLinear(1), 1e-6)
	assert.Equal(t, float32(0), LinearToSRGB(0))
	assert.InDelta(t, 1.0, LinearToSRGB(1), 1e-6)

	// Middle gray: sRGB 0.5 decodes to about 0.2140.
	assert.InDelta(t, 0.21404, SRGBToLinear(0.5), 1e-4)
}

func TestTransferFunctionsInverse(t *testing.T) {
	for i := 0; i <= 100; i++ {
		v := float32(i) / 100.0
		assert.InDelta(t, v, LinearToSRGB(SRGBToLinear(v)), 1e-5, "round trip at %g", v)
	}
}

func TestSRGBTableMatchesTransferFunctions(t *testing.T) {
	for i := 0; i < 256; i++ {
		value := float32(i) / 255.0
		entry := SRGBTable[i]

		wantLinear := math32.Floor(SRGBToLinear(value)*255.0 + 0.5)
		assert.Equal(t, uint8(wantLinear), entry.Linear, "linear byte for %d", i)

		wantSrgb := math32.Floor(LinearToSRGB(value)*255.0 + 0.5)
		if wantSrgb > 255 {
			wantSrgb = 255
		}
		assert.Equal(t, uint8(wantSrgb), entry.Srgb, "srgb byte for %d", i)

		assert.Equal(t, value, entry.F32Value, "f32 value for %d", i)
		assert.Equal(t, HalfFromFloat32(value), entry.F16Value, "f16 value for %d", i)

		assert.Equal(t, SRGBToLinear(value), entry.F32Linear)
		assert.Equal(t, LinearToSRGB(value), entry.F32SRGB)
	}
}

func TestSRGBTableMonotonic(t *testing.T) {
	for i := 1; i < 256; i++ {
		assert.GreaterOrEqual(t, SRGBTable[i].Linear, SRGBTable[i-1].Linear)
		assert.GreaterOrEqual(t, SRGBTable[i].Srgb, SRGBTable[i-1].Srgb)
	}
}

func TestSRGBTableKnownPoint(t *testing.T) {
	// sRGB 188 decodes to linear 128 give or take quantisation.
	assert.InDelta(t, 128, int(SRGBTable[188].Linear), 1)
	assert.InDelta(t, 188, int(SRGBTable[SRGBTable[188].Linear].Srgb), 1)
}
