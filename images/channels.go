package images

import (
	"github.com/nvr-ai/go-imaging/pixel"
)

// SetNumComponents changes the number of interleaved channels in place,
// keeping the component type.
//
// Growing reallocates first and then expands pixels in reverse (z, y, x)
// order so the read of a pixel never aliases the write of the same pixel;
// new channels receive fill. Shrinking compacts pixels in forward order and
// truncates afterwards. Passing the current count is a no-op.
func (img *Image) SetNumComponents(numComponents int, fill float32) error {
	if numComponents < 1 || numComponents > 4 {
		return invalidArgument("component count %d", numComponents)
	}

	oldN := img.format.NumComponents
	if numComponents == oldN {
		return nil
	}

	ct := img.format.ComponentType
	pixels := img.width * img.height * img.depth
	newSize := pixels * numComponents * ct.Size()

	if numComponents > oldN {
		// Grow the buffer first, then walk backwards.
		grown := make([]byte, newSize)
		if newSize > 0 && len(grown) != newSize {
			return ErrAllocationFailed
		}
		copy(grown, img.contents)
		img.contents = grown
		img.owned = true

		for z := img.depth - 1; z >= 0; z-- {
			for y := img.height - 1; y >= 0; y-- {
				for x := img.width - 1; x >= 0; x-- {
					p := img.GetPixelAs(oldN, ct, x, y, z)
					for i := oldN; i < numComponents; i++ {
						p.SetComponent(i, fill)
					}
					img.SetPixelAs(p, numComponents, ct, x, y, z)
				}
			}
		}
	} else {
		// Compact forward, truncate afterwards.
		for z := 0; z < img.depth; z++ {
			for y := 0; y < img.height; y++ {
				for x := 0; x < img.width; x++ {
					p := img.GetPixelAs(oldN, ct, x, y, z)
					img.SetPixelAs(p, numComponents, ct, x, y, z)
				}
			}
		}
		img.contents = img.contents[:newSize]
	}

	img.format = pixel.Format{
		ComponentType: ct,
		NumComponents: numComponents,
		HasAlpha:      numComponents == 2 || numComponents == 4,
	}
	return nil
}

// SetChannel copies one channel from an identically sized image into the
// receiver. Copying a channel onto itself within the same image is a no-op.
func (img *Image) SetChannel(channelIndex int, src *Image, srcChannelIndex int) error {
	if src == nil {
		return invalidArgument("source image is nil")
	}
	if channelIndex < 0 || channelIndex >= img.format.NumComponents {
		return invalidArgument("destination channel %d of %d", channelIndex, img.format.NumComponents)
	}
	if srcChannelIndex < 0 || srcChannelIndex >= src.format.NumComponents {
		return invalidArgument("source channel %d of %d", srcChannelIndex, src.format.NumComponents)
	}
	if img.width != src.width || img.height != src.height || img.depth != src.depth {
		return invalidArgument("image sizes differ: %dx%dx%d vs %dx%dx%d",
			img.width, img.height, img.depth, src.width, src.height, src.depth)
	}
	if img == src && channelIndex == srcChannelIndex {
		return nil
	}

	// Matching component types move raw bytes so the copy is lossless.
	if img.format.ComponentType == src.format.ComponentType {
		size := img.format.ComponentSize()
		dstPixel := img.format.PixelSize()
		srcPixel := src.format.PixelSize()
		pixels := img.width * img.height * img.depth
		for i := 0; i < pixels; i++ {
			dstOff := i*dstPixel + channelIndex*size
			srcOff := i*srcPixel + srcChannelIndex*size
			copy(img.contents[dstOff:dstOff+size], src.contents[srcOff:srcOff+size])
		}
		return nil
	}

	for z := 0; z < img.depth; z++ {
		for y := 0; y < img.height; y++ {
			for x := 0; x < img.width; x++ {
				value := src.GetPixel(x, y, z).Component(srcChannelIndex)
				p := img.GetPixel(x, y, z)
				p.SetComponent(channelIndex, value)
				img.SetPixel(p, x, y, z)
			}
		}
	}
	return nil
}
