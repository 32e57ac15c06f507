package pixel

import (
	"github.com/chewxy/math32"
)

// SRGBToLinear applies the IEC 61966-2-1 decoding function to one component.
func SRGBToLinear(c float32) float32 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math32.Pow((c+0.055)/1.055, 2.4)
}

// LinearToSRGB applies the IEC 61966-2-1 encoding function to one component.
func LinearToSRGB(c float32) float32 {
	if c < 0.0031308 {
		return c * 12.92
	}
	return math32.Pow(c, 1.0/2.4)*1.055 - 0.055
}

// SRGBEntry is one row of the 256-entry sRGB table.
//
// The index is the source byte. Reading Linear/F16Linear/F32Linear treats
// the source as sRGB encoded; reading Srgb/F16SRGB/F32SRGB treats the source
// as linear.
type SRGBEntry struct {
	// Srgb is the sRGB byte for a linear source byte.
	Srgb uint8
	// Linear is the linear byte for an sRGB source byte.
	Linear uint8

	// F16SRGB and F32SRGB are the unquantised sRGB value that Srgb rounds.
	F16SRGB Half
	F32SRGB float32

	// F16Linear and F32Linear are the unquantised linear value that Linear
	// rounds.
	F16Linear Half
	F32Linear float32

	// F16Value and F32Value are the plain i/255 value with no transfer
	// curve applied, used as zero-cost U8 to float promotions.
	F16Value Half
	F32Value float32
}

// SRGBTable maps every byte value to its sRGB/linear counterparts in all
// three component representations. Built once at process start, never
// mutated; any goroutine may read it.
var SRGBTable [256]SRGBEntry

func init() {
	for i := 0; i < 256; i++ {
		value := float32(i) / 255.0
		linear := SRGBToLinear(value)
		srgb := LinearToSRGB(value)

		SRGBTable[i] = SRGBEntry{
			Srgb:      quantize(srgb),
			Linear:    quantize(linear),
			F16SRGB:   HalfFromFloat32(srgb),
			F32SRGB:   srgb,
			F16Linear: HalfFromFloat32(linear),
			F32Linear: linear,
			F16Value:  HalfFromFloat32(value),
			F32Value:  value,
		}
	}
}

// quantize rounds a [0, 1] component to a byte, clamping overshoot.
func quantize(v float32) uint8 {
	scaled := math32.Floor(v*255.0 + 0.5)
	if scaled <= 0 {
		return 0
	}
	if scaled >= 255 {
		return 255
	}
	return uint8(scaled)
}
