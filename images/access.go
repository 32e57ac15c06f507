package images

import (
	"encoding/binary"
	"math"

	"github.com/nvr-ai/go-imaging/pixel"
)

// Typed pixel access. Reads clamp coordinates to the image bounds (edge
// extension, which the resampling kernels rely on at borders); writes
// outside the bounds are dropped so kernel tails cannot pollute distant
// pixels.
//
// The hot paths go through a jump table monomorphised on
// (componentType, numComponents); the generic per-component path remains as
// the fallback for unexpected combinations.

// getFunc reads the pixel starting at byte offset off.
type getFunc func(c []byte, off int) pixel.Pixel

// setFunc writes the pixel starting at byte offset off.
type setFunc func(c []byte, off int, p pixel.Pixel)

func loadF32(c []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(c))
}

func storeF32(c []byte, v float32) {
	binary.LittleEndian.PutUint32(c, math.Float32bits(v))
}

// u8FromFloat saturates without rounding: min(255, v*255).
func u8FromFloat(v float32) uint8 {
	scaled := v * 255.0
	if scaled >= 255 {
		return 255
	}
	if scaled <= 0 {
		return 0
	}
	return uint8(scaled)
}

const inv255 = float32(1.0 / 255.0)

// U8 specialisations.

func getU8x1(c []byte, off int) pixel.Pixel {
	return pixel.Pixel{R: float32(c[off]) * inv255}
}

func getU8x2(c []byte, off int) pixel.Pixel {
	return pixel.Pixel{
		R: float32(c[off]) * inv255,
		G: float32(c[off+1]) * inv255,
	}
}

func getU8x3(c []byte, off int) pixel.Pixel {
	return pixel.Pixel{
		R: float32(c[off]) * inv255,
		G: float32(c[off+1]) * inv255,
		B: float32(c[off+2]) * inv255,
	}
}

func getU8x4(c []byte, off int) pixel.Pixel {
	return pixel.Pixel{
		R: float32(c[off]) * inv255,
		G: float32(c[off+1]) * inv255,
		B: float32(c[off+2]) * inv255,
		A: float32(c[off+3]) * inv255,
	}
}

func setU8x1(c []byte, off int, p pixel.Pixel) {
	c[off] = u8FromFloat(p.R)
}

func setU8x2(c []byte, off int, p pixel.Pixel) {
	c[off] = u8FromFloat(p.R)
	c[off+1] = u8FromFloat(p.G)
}

func setU8x3(c []byte, off int, p pixel.Pixel) {
	c[off] = u8FromFloat(p.R)
	c[off+1] = u8FromFloat(p.G)
	c[off+2] = u8FromFloat(p.B)
}

func setU8x4(c []byte, off int, p pixel.Pixel) {
	c[off] = u8FromFloat(p.R)
	c[off+1] = u8FromFloat(p.G)
	c[off+2] = u8FromFloat(p.B)
	c[off+3] = u8FromFloat(p.A)
}

// F16 specialisations.

func getF16x1(c []byte, off int) pixel.Pixel {
	return pixel.Pixel{R: pixel.HalfToFloat32(pixel.LoadHalf(c[off:]))}
}

func getF16x2(c []byte, off int) pixel.Pixel {
	return pixel.Pixel{
		R: pixel.HalfToFloat32(pixel.LoadHalf(c[off:])),
		G: pixel.HalfToFloat32(pixel.LoadHalf(c[off+2:])),
	}
}

func getF16x3(c []byte, off int) pixel.Pixel {
	return pixel.Pixel{
		R: pixel.HalfToFloat32(pixel.LoadHalf(c[off:])),
		G: pixel.HalfToFloat32(pixel.LoadHalf(c[off+2:])),
		B: pixel.HalfToFloat32(pixel.LoadHalf(c[off+4:])),
	}
}

func getF16x4(c []byte, off int) pixel.Pixel {
	h := pixel.HalfPixel{
		pixel.LoadHalf(c[off:]),
		pixel.LoadHalf(c[off+2:]),
		pixel.LoadHalf(c[off+4:]),
		pixel.LoadHalf(c[off+6:]),
	}
	return h.ToPixel()
}

func setF16x1(c []byte, off int, p pixel.Pixel) {
	pixel.StoreHalf(c[off:], pixel.HalfFromFloat32(p.R))
}

func setF16x2(c []byte, off int, p pixel.Pixel) {
	pixel.StoreHalf(c[off:], pixel.HalfFromFloat32(p.R))
	pixel.StoreHalf(c[off+2:], pixel.HalfFromFloat32(p.G))
}

func setF16x3(c []byte, off int, p pixel.Pixel) {
	pixel.StoreHalf(c[off:], pixel.HalfFromFloat32(p.R))
	pixel.StoreHalf(c[off+2:], pixel.HalfFromFloat32(p.G))
	pixel.StoreHalf(c[off+4:], pixel.HalfFromFloat32(p.B))
}

func setF16x4(c []byte, off int, p pixel.Pixel) {
	h := pixel.HalfPixelFrom(p)
	pixel.StoreHalf(c[off:], h[0])
	pixel.StoreHalf(c[off+2:], h[1])
	pixel.StoreHalf(c[off+4:], h[2])
	pixel.StoreHalf(c[off+6:], h[3])
}

// F32 specialisations.

func getF32x1(c []byte, off int) pixel.Pixel {
	return pixel.Pixel{R: loadF32(c[off:])}
}

func getF32x2(c []byte, off int) pixel.Pixel {
	return pixel.Pixel{
		R: loadF32(c[off:]),
		G: loadF32(c[off+4:]),
	}
}

func getF32x3(c []byte, off int) pixel.Pixel {
	return pixel.Pixel{
		R: loadF32(c[off:]),
		G: loadF32(c[off+4:]),
		B: loadF32(c[off+8:]),
	}
}

func getF32x4(c []byte, off int) pixel.Pixel {
	return pixel.Pixel{
		R: loadF32(c[off:]),
		G: loadF32(c[off+4:]),
		B: loadF32(c[off+8:]),
		A: loadF32(c[off+12:]),
	}
}

func setF32x1(c []byte, off int, p pixel.Pixel) {
	storeF32(c[off:], p.R)
}

func setF32x2(c []byte, off int, p pixel.Pixel) {
	storeF32(c[off:], p.R)
	storeF32(c[off+4:], p.G)
}

func setF32x3(c []byte, off int, p pixel.Pixel) {
	storeF32(c[off:], p.R)
	storeF32(c[off+4:], p.G)
	storeF32(c[off+8:], p.B)
}

func setF32x4(c []byte, off int, p pixel.Pixel) {
	storeF32(c[off:], p.R)
	storeF32(c[off+4:], p.G)
	storeF32(c[off+8:], p.B)
	storeF32(c[off+12:], p.A)
}

// Jump tables indexed by [componentType][numComponents].
var (
	getTable = [3][5]getFunc{
		pixel.U8:  {nil, getU8x1, getU8x2, getU8x3, getU8x4},
		pixel.F16: {nil, getF16x1, getF16x2, getF16x3, getF16x4},
		pixel.F32: {nil, getF32x1, getF32x2, getF32x3, getF32x4},
	}
	setTable = [3][5]setFunc{
		pixel.U8:  {nil, setU8x1, setU8x2, setU8x3, setU8x4},
		pixel.F16: {nil, setF16x1, setF16x2, setF16x3, setF16x4},
		pixel.F32: {nil, setF32x1, setF32x2, setF32x3, setF32x4},
	}
)

// lookupGet resolves the specialised reader, falling back to the generic
// path for combinations outside the table.
func lookupGet(ct pixel.ComponentType, n int) getFunc {
	if ct >= 0 && int(ct) < len(getTable) && n >= 1 && n <= 4 {
		if fn := getTable[ct][n]; fn != nil {
			return fn
		}
	}
	return func(c []byte, off int) pixel.Pixel {
		return genericGet(c, off, ct, n)
	}
}

func lookupSet(ct pixel.ComponentType, n int) setFunc {
	if ct >= 0 && int(ct) < len(setTable) && n >= 1 && n <= 4 {
		if fn := setTable[ct][n]; fn != nil {
			return fn
		}
	}
	return func(c []byte, off int, p pixel.Pixel) {
		genericSet(c, off, p, ct, n)
	}
}

// genericGet reads one pixel component by component. Never on the hot loop.
func genericGet(c []byte, off int, ct pixel.ComponentType, n int) pixel.Pixel {
	var p pixel.Pixel
	size := ct.Size()
	for i := 0; i < n && i < 4; i++ {
		at := off + i*size
		switch ct {
		case pixel.U8:
			p.SetComponent(i, float32(c[at])*inv255)
		case pixel.F16:
			p.SetComponent(i, pixel.HalfToFloat32(pixel.LoadHalf(c[at:])))
		case pixel.F32:
			p.SetComponent(i, loadF32(c[at:]))
		}
	}
	return p
}

// genericSet writes one pixel component by component. Never on the hot loop.
func genericSet(c []byte, off int, p pixel.Pixel, ct pixel.ComponentType, n int) {
	size := ct.Size()
	for i := 0; i < n && i < 4; i++ {
		at := off + i*size
		v := p.Component(i)
		switch ct {
		case pixel.U8:
			c[at] = u8FromFloat(v)
		case pixel.F16:
			pixel.StoreHalf(c[at:], pixel.HalfFromFloat32(v))
		case pixel.F32:
			storeF32(c[at:], v)
		}
	}
}

// GetPixel reads the pixel at (x, y, z). Coordinates outside the image are
// clamped to the nearest edge. U8 components arrive scaled to [0, 1];
// components the format does not carry stay zero.
func (img *Image) GetPixel(x, y, z int) pixel.Pixel {
	return img.GetPixelAs(img.format.NumComponents, img.format.ComponentType, x, y, z)
}

// GetPixelAs reads like GetPixel but with an explicit component count and
// type, for callers that are mutating the buffer shape in place.
func (img *Image) GetPixelAs(numComponents int, componentType pixel.ComponentType, x, y, z int) pixel.Pixel {
	x = clamp(x, img.width)
	y = clamp(y, img.height)
	z = clamp(z, img.depth)

	off := (z*img.width*img.height + y*img.width + x) * componentType.Size() * numComponents
	return lookupGet(componentType, numComponents)(img.contents, off)
}

// SetPixel writes the pixel at (x, y, z). Writes outside the image bounds
// are ignored. U8 components saturate to min(255, v*255) without rounding;
// F16/F32 narrow the float32 value.
func (img *Image) SetPixel(p pixel.Pixel, x, y, z int) {
	img.SetPixelAs(p, img.format.NumComponents, img.format.ComponentType, x, y, z)
}

// SetPixelAs writes like SetPixel but with an explicit component count and
// type, for callers that are mutating the buffer shape in place.
func (img *Image) SetPixelAs(p pixel.Pixel, numComponents int, componentType pixel.ComponentType, x, y, z int) {
	if x < 0 || x >= img.width || y < 0 || y >= img.height || z < 0 || z >= img.depth {
		return
	}

	off := (z*img.width*img.height + y*img.width + x) * componentType.Size() * numComponents
	lookupSet(componentType, numComponents)(img.contents, off, p)
}
