package icc

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
	gol "github.com/yzigangirova/lcms-go"

	"github.com/nvr-ai/go-imaging/pixel"
)

// formatWord builds the lcms pixel-layout word for an interleaved buffer of
// float32 samples with the given channel count. One- and two-component
// images travel as gray (plus one extra alpha channel), three and four as
// RGB(A).
func formatWord(components int) (uint32, error) {
	var word uint32
	switch components {
	case 1:
		word = gol.COLORSPACE_SH(gol.PT_GRAY) | gol.CHANNELS_SH(1)
	case 2:
		word = gol.COLORSPACE_SH(gol.PT_GRAY) | gol.CHANNELS_SH(1) | gol.EXTRA_SH(1)
	case 3:
		word = gol.COLORSPACE_SH(gol.PT_RGB) | gol.CHANNELS_SH(3)
	case 4:
		word = gol.COLORSPACE_SH(gol.PT_RGB) | gol.CHANNELS_SH(3) | gol.EXTRA_SH(1)
	default:
		return 0, errors.Errorf("unsupported component count %d", components)
	}
	return word | gol.FLOAT_SH(1) | gol.BYTES_SH(4), nil
}

// Apply converts the borrowed pixel buffer from src to dst in place.
//
// The buffer follows the engine's layout contract: interleaved components,
// row-major, no padding. componentSize selects how samples are stored
// (1 = unorm byte, 2 = IEEE half, 4 = float32); the conversion itself runs
// through an lcms float transform, so integer and half buffers are widened
// to float32 for the call and narrowed back afterwards. hdr buffers skip the
// [0, 1] clamp on the way back.
func Apply(buf []byte, width, height, components, componentSize int, hdr bool, src, dst *Profile) error {
	if src == nil || dst == nil {
		return errors.New("both source and destination profiles are required")
	}
	if components < 1 || components > 4 {
		return errors.Errorf("unsupported component count %d", components)
	}
	pixels := width * height
	if expected := pixels * components * componentSize; expected != len(buf) {
		return errors.Errorf("buffer is %d bytes, expected %d", len(buf), expected)
	}
	if pixels == 0 {
		return nil
	}

	word, err := formatWord(components)
	if err != nil {
		return err
	}

	xform := gol.CmsCreateTransform(mm,
		src.handle, word,
		dst.handle, word,
		gol.INTENT_PERCEPTUAL, gol.CmsFLAGS_BLACKPOINTCOMPENSATION)
	if xform == nil {
		return errors.New("lcms could not create the transform")
	}
	defer gol.CmsDeleteTransform(xform)

	samples := widen(buf, componentSize)
	gol.CmsDoTransform(mm, xform, samples, samples, uint32(pixels))
	narrow(buf, samples, componentSize, hdr)

	return nil
}

// widen lifts the stored samples into a float32 working buffer.
func widen(buf []byte, componentSize int) []float32 {
	count := len(buf) / componentSize
	samples := make([]float32, count)
	switch componentSize {
	case 1:
		for i := 0; i < count; i++ {
			samples[i] = float32(buf[i]) / 255.0
		}
	case 2:
		for i := 0; i < count; i++ {
			samples[i] = pixel.HalfToFloat32(pixel.LoadHalf(buf[i*2:]))
		}
	case 4:
		for i := 0; i < count; i++ {
			samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
		}
	}
	return samples
}

// narrow stores the converted samples back into the borrowed buffer.
func narrow(buf []byte, samples []float32, componentSize int, hdr bool) {
	switch componentSize {
	case 1:
		for i, v := range samples {
			scaled := v * 255.0
			if scaled >= 255 {
				scaled = 255
			}
			if scaled < 0 {
				scaled = 0
			}
			buf[i] = uint8(scaled)
		}
	case 2:
		for i, v := range samples {
			if !hdr {
				v = clamp01(v)
			}
			pixel.StoreHalf(buf[i*2:], pixel.HalfFromFloat32(v))
		}
	case 4:
		for i, v := range samples {
			if !hdr {
				v = clamp01(v)
			}
			binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
		}
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
