package images

import (
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-imaging/icc"
	"github.com/nvr-ai/go-imaging/parallel"
	"github.com/nvr-ai/go-imaging/pixel"
)

// AssignProfile replaces the image's colour profile handle without touching
// pixel data. The srgb and linear tags are recomputed from the profile so
// they always describe the buffer's encoding.
func (img *Image) AssignProfile(p *icc.Profile) {
	old := img.profile
	img.profile = p.Retain()
	old.Release()

	img.srgb = p.IsSRGB()
	img.linear = p.IsLinear()
}

// ConvertProfile converts the pixel data to the target profile through the
// colour engine and assigns the target on success. Converting to the
// currently assigned profile is a no-op. On failure the image is unchanged
// and the error wraps ErrColourConversionFailed.
func (img *Image) ConvertProfile(target *icc.Profile) error {
	if target == nil {
		return invalidArgument("target profile is nil")
	}
	if target == img.profile {
		return nil
	}

	source := img.profile
	if source == nil {
		// An untagged buffer is assumed sRGB, mirroring the loader
		// contract.
		assumed, err := icc.NewSRGB()
		if err != nil {
			return errors.Wrap(ErrColourConversionFailed, err.Error())
		}
		defer assumed.Release()
		source = assumed
	}

	err := icc.Apply(img.contents,
		img.width, img.height*img.depth,
		img.format.NumComponents, img.format.ComponentSize(),
		img.hdr, source, target)
	if err != nil {
		return errors.Wrap(ErrColourConversionFailed, err.Error())
	}

	img.AssignProfile(target)
	return nil
}

// SRGBToLinear decodes sRGB data to linear light in place.
//
// U8 images resolve every component through the shared 256-entry table, so
// the conversion involves no floating point at all; F16 and F32 apply the
// piecewise transfer function per component. With preserveAlpha the fourth
// component of a 4-component image is left untouched; without it every
// component is transformed, treating alpha like any colour channel.
//
// The profile handle is dropped: once decoded the data no longer obeys a
// concrete profile. On return the image is tagged linear.
func (img *Image) SRGBToLinear(preserveAlpha bool) {
	img.transformTransfer(true, preserveAlpha)

	img.profile.Release()
	img.profile = nil
	img.srgb = false
	img.linear = true
}

// LinearToSRGB encodes linear-light data with the sRGB curve in place. The
// alpha handling and profile semantics match SRGBToLinear; on return the
// image is tagged sRGB.
func (img *Image) LinearToSRGB(preserveAlpha bool) {
	img.transformTransfer(false, preserveAlpha)

	img.profile.Release()
	img.profile = nil
	img.srgb = true
	img.linear = false
}

// transformTransfer runs the row-parallel transfer-curve pass.
func (img *Image) transformTransfer(toLinear, preserveAlpha bool) {
	n := img.format.NumComponents
	skipAlpha := preserveAlpha && n == 4

	rows := img.height * img.depth
	rowComponents := img.width * n

	switch img.format.ComponentType {
	case pixel.U8:
		parallel.For(0, rows, func(row int) {
			line := img.contents[row*rowComponents : (row+1)*rowComponents]
			for i, v := range line {
				if skipAlpha && i%n == 3 {
					continue
				}
				if toLinear {
					line[i] = pixel.SRGBTable[v].Linear
				} else {
					line[i] = pixel.SRGBTable[v].Srgb
				}
			}
		})

	case pixel.F16:
		parallel.For(0, rows, func(row int) {
			base := row * rowComponents * 2
			for i := 0; i < rowComponents; i++ {
				if skipAlpha && i%n == 3 {
					continue
				}
				at := base + i*2
				v := pixel.HalfToFloat32(pixel.LoadHalf(img.contents[at:]))
				v = applyTransfer(v, toLinear)
				pixel.StoreHalf(img.contents[at:], pixel.HalfFromFloat32(v))
			}
		})

	case pixel.F32:
		parallel.For(0, rows, func(row int) {
			base := row * rowComponents * 4
			for i := 0; i < rowComponents; i++ {
				if skipAlpha && i%n == 3 {
					continue
				}
				at := base + i*4
				v := applyTransfer(loadF32(img.contents[at:]), toLinear)
				storeF32(img.contents[at:], v)
			}
		})
	}
}

func applyTransfer(v float32, toLinear bool) float32 {
	if toLinear {
		return pixel.SRGBToLinear(v)
	}
	return pixel.LinearToSRGB(v)
}
