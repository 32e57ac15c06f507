package images

import (
	"sync/atomic"

	"github.com/nvr-ai/go-imaging/parallel"
	"github.com/nvr-ai/go-imaging/pixel"
)

// Component-type change. A fresh destination buffer is filled scanline by
// scanline, each of the nine ordered (source, destination) type pairs with
// a direct conversion; the image adopts the new buffer only after the fill
// succeeds. U8 to float promotions use the sRGB table's i/255 entries so
// the hot loop never divides.

// rowConvert converts the row of count pixels starting at src into dst.
type rowConvert func(src, dst []byte, count, numComponents int)

func convertRowU8ToF16(src, dst []byte, count, n int) {
	for i := 0; i < count*n; i++ {
		pixel.StoreHalf(dst[i*2:], pixel.SRGBTable[src[i]].F16Value)
	}
}

func convertRowU8ToF32(src, dst []byte, count, n int) {
	for i := 0; i < count*n; i++ {
		storeF32(dst[i*4:], pixel.SRGBTable[src[i]].F32Value)
	}
}

func convertRowF16ToU8(src, dst []byte, count, n int) {
	for i := 0; i < count*n; i++ {
		dst[i] = u8FromFloat(pixel.HalfToFloat32(pixel.LoadHalf(src[i*2:])))
	}
}

func convertRowF16ToF32(src, dst []byte, count, n int) {
	for i := 0; i < count*n; i++ {
		storeF32(dst[i*4:], pixel.HalfToFloat32(pixel.LoadHalf(src[i*2:])))
	}
}

func convertRowF32ToU8(src, dst []byte, count, n int) {
	for i := 0; i < count*n; i++ {
		dst[i] = u8FromFloat(loadF32(src[i*4:]))
	}
}

func convertRowF32ToF16(src, dst []byte, count, n int) {
	for i := 0; i < count*n; i++ {
		pixel.StoreHalf(dst[i*2:], pixel.HalfFromFloat32(loadF32(src[i*4:])))
	}
}

func convertRowCopy(src, dst []byte, count, n int) {
	copy(dst, src)
}

// rowConverter returns the direct converter for the ordered type pair.
func rowConverter(src, dst pixel.ComponentType) rowConvert {
	switch src {
	case pixel.U8:
		switch dst {
		case pixel.F16:
			return convertRowU8ToF16
		case pixel.F32:
			return convertRowU8ToF32
		}
	case pixel.F16:
		switch dst {
		case pixel.U8:
			return convertRowF16ToU8
		case pixel.F32:
			return convertRowF16ToF32
		}
	case pixel.F32:
		switch dst {
		case pixel.U8:
			return convertRowF32ToU8
		case pixel.F16:
			return convertRowF32ToF16
		}
	}
	return convertRowCopy
}

// ConvertComponentType changes the numeric representation of every
// component in place, keeping the channel count and all colour tags.
// Converting to the current type is a no-op.
//
// The fill runs row-parallel; progress is reported per processed scanline
// band and may cancel, in which case the image is left untouched.
func (img *Image) ConvertComponentType(target pixel.ComponentType, progress ProgressFunc) error {
	if target.Size() == 0 {
		return invalidArgument("unknown component type %d", target)
	}
	progress = progressOrDefault(progress)

	if target == img.format.ComponentType {
		progress(1)
		return nil
	}

	n := img.format.NumComponents
	srcSize := img.format.ComponentSize()
	dstSize := target.Size()

	dst := make([]byte, img.width*img.height*img.depth*dstSize*n)
	if len(dst) == 0 && img.width*img.height*img.depth > 0 {
		return ErrAllocationFailed
	}

	convert := rowConverter(img.format.ComponentType, target)

	rows := img.height * img.depth
	srcRow := img.width * n * srcSize
	dstRow := img.width * n * dstSize

	var cancelled atomic.Bool
	var done atomic.Int64
	step := rows / 10
	if step < 1 {
		step = 1
	}

	parallel.ForCancel(0, rows, &cancelled, func(row int) {
		convert(img.contents[row*srcRow:(row+1)*srcRow], dst[row*dstRow:(row+1)*dstRow], img.width, n)

		finished := done.Add(1)
		if finished%int64(step) == 0 {
			if progress(float32(finished) / float32(rows)) {
				cancelled.Store(true)
			}
		}
	})
	if cancelled.Load() {
		return ErrTaskCancelled
	}

	img.contents = dst
	img.owned = true
	img.format.ComponentType = target
	progress(1)
	return nil
}

// CreatePromoted returns a copy of the image converted to the target
// component type, leaving the receiver untouched.
func (img *Image) CreatePromoted(target pixel.ComponentType) (*Image, error) {
	clone := img.Clone()
	if err := clone.ConvertComponentType(target, nil); err != nil {
		clone.Release()
		return nil, err
	}
	return clone, nil
}
