// Package loader - file ingestion glue around the pixel engine.
//
// Decoding is a silent fall-through: every known decoder gets a chance in a
// fixed order and the first one that succeeds wins. The engine itself never
// reads files; it only receives raw buffers through the images package's
// buffer contract.
package loader

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"os"

	"github.com/chai2010/webp"
	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/nvr-ai/go-imaging/icc"
	"github.com/nvr-ai/go-imaging/images"
	"github.com/nvr-ai/go-imaging/pixel"
)

// Options steer how colour metadata is assigned when the file itself does
// not carry any.
type Options struct {
	// AssumeSRGB tags the image as sRGB when no profile is embedded.
	AssumeSRGB bool
	// AssumeLinear tags the image as linear light instead.
	AssumeLinear bool
	// AssumedProfile is attached when the file has no embedded profile.
	AssumedProfile *icc.Profile
}

// DefaultOptions assumes sRGB, the convention for untagged 8-bit images.
func DefaultOptions() Options {
	return Options{AssumeSRGB: true}
}

// decoder tries to decode raw file bytes into a Go image.
type decoder struct {
	name   string
	decode func(data []byte) (image.Image, error)
}

// decoders in fall-through order. TGA goes first since nothing else will
// claim it, then the formats with proper signatures.
var decoders = []decoder{
	{"tga", decodeTGA},
	{"jpeg", func(data []byte) (image.Image, error) { return jpeg.Decode(bytes.NewReader(data)) }},
	{"png", func(data []byte) (image.Image, error) { return png.Decode(bytes.NewReader(data)) }},
	{"webp", func(data []byte) (image.Image, error) { return webp.Decode(bytes.NewReader(data)) }},
	{"tiff", func(data []byte) (image.Image, error) { return tiff.Decode(bytes.NewReader(data)) }},
	{"bmp", func(data []byte) (image.Image, error) { return bmp.Decode(bytes.NewReader(data)) }},
}

// Load reads and decodes an image file.
//
// Arguments:
// - path: Path of the image file.
// - opts: Colour metadata assumptions; use DefaultOptions for sRGB.
//
// Returns:
// - *images.Image: The decoded image, one reference owned by the caller.
// - error: Error if no decoder accepted the file.
func Load(path string, opts Options) (*images.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return Decode(data, opts)
}

// Decode decodes in-memory file bytes through the fall-through chain.
func Decode(data []byte, opts Options) (*images.Image, error) {
	for _, d := range decoders {
		decoded, err := d.decode(data)
		if err != nil {
			continue
		}
		return fromGoImage(decoded, opts)
	}
	return nil, errors.New("no decoder accepted the image data")
}

// hints translates the loader options into container colour tags.
func hints(opts Options, hdr bool) images.Hints {
	h := images.Hints{HDR: hdr}
	switch {
	case opts.AssumedProfile != nil:
		h.Profile = opts.AssumedProfile
	case opts.AssumeLinear:
		h.Linear = true
	case opts.AssumeSRGB:
		h.SRGB = true
	}
	return h
}

// fromGoImage repacks a decoded Go image into the engine's interleaved
// layout. 8-bit sources become U8 images; 16-bit gray and 16-bit NRGBA
// sources become F16. Any other layout, 16-bit premultiplied RGBA64
// included, goes through the 8-bit RGBA fallback below.
func fromGoImage(src image.Image, opts Options) (*images.Image, error) {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	switch img := src.(type) {
	case *image.Gray:
		contents := make([]byte, w*h)
		for y := 0; y < h; y++ {
			copy(contents[y*w:(y+1)*w], img.Pix[y*img.Stride:y*img.Stride+w])
		}
		return images.NewFromBytes(contents, pixel.NewFormat(pixel.U8, 1), w, h, 1, hints(opts, false))

	case *image.Gray16:
		contents := make([]byte, w*h*2)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				// Big-endian 16-bit sample to half float.
				raw := img.Pix[y*img.Stride+x*2:]
				value := float32(uint16(raw[0])<<8|uint16(raw[1])) / 65535.0
				pixel.StoreHalf(contents[(y*w+x)*2:], pixel.HalfFromFloat32(value))
			}
		}
		return images.NewFromBytes(contents, pixel.NewFormat(pixel.F16, 1), w, h, 1, hints(opts, false))

	case *image.NRGBA:
		contents := make([]byte, w*h*4)
		for y := 0; y < h; y++ {
			copy(contents[y*w*4:(y+1)*w*4], img.Pix[y*img.Stride:y*img.Stride+w*4])
		}
		return images.NewFromBytes(contents, pixel.NewFormat(pixel.U8, 4), w, h, 1, hints(opts, false))

	case *image.NRGBA64:
		contents := make([]byte, w*h*4*2)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				raw := img.Pix[y*img.Stride+x*8:]
				for c := 0; c < 4; c++ {
					value := float32(uint16(raw[c*2])<<8|uint16(raw[c*2+1])) / 65535.0
					pixel.StoreHalf(contents[((y*w+x)*4+c)*2:], pixel.HalfFromFloat32(value))
				}
			}
		}
		return images.NewFromBytes(contents, pixel.NewFormat(pixel.F16, 4), w, h, 1, hints(opts, false))
	}

	// Everything else (RGBA, YCbCr, paletted, ...) goes through the
	// generic colour model as 8-bit RGBA.
	contents := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := src.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			off := (y*w + x) * 4
			contents[off] = uint8(r >> 8)
			contents[off+1] = uint8(g >> 8)
			contents[off+2] = uint8(b >> 8)
			contents[off+3] = uint8(a >> 8)
		}
	}
	return images.NewFromBytes(contents, pixel.NewFormat(pixel.U8, 4), w, h, 1, hints(opts, false))
}
