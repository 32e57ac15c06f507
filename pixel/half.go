package pixel

import (
	"encoding/binary"

	"github.com/ajroetker/go-highway/hwy"
)

// Half is an IEEE-754 half-precision value as stored in F16 image buffers.
type Half = hwy.Float16

// HalfFromFloat32 narrows a float32 to half precision.
func HalfFromFloat32(f float32) Half {
	return hwy.NewFloat16(f)
}

// HalfToFloat32 widens a half-precision value to float32.
func HalfToFloat32(h Half) float32 {
	return hwy.Float16ToFloat32(h)
}

// LoadHalf reads a half-precision value from the first two bytes of b.
// Image buffers store components in host order; all supported targets are
// little endian.
func LoadHalf(b []byte) Half {
	return hwy.Float16FromBits(binary.LittleEndian.Uint16(b))
}

// StoreHalf writes a half-precision value into the first two bytes of b.
func StoreHalf(b []byte, h Half) {
	binary.LittleEndian.PutUint16(b, h.Bits())
}
