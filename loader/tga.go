package loader

import (
	"image"
	"image/color"

	"github.com/pkg/errors"
)

// Minimal TGA decoder: uncompressed and RLE true-colour images, 24 or 32
// bits per pixel, plus 8-bit grayscale. TGA has no magic number, so the
// header fields themselves act as the sniff test and anything implausible
// is rejected quickly to let the next decoder try.

const tgaHeaderSize = 18

func decodeTGA(data []byte) (image.Image, error) {
	if len(data) < tgaHeaderSize {
		return nil, errors.New("tga: short header")
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	descriptor := data[17]

	if colorMapType != 0 {
		return nil, errors.New("tga: colour-mapped images not supported")
	}
	rle := false
	switch imageType {
	case 2, 3:
	case 10, 11:
		rle = true
	default:
		return nil, errors.Errorf("tga: image type %d not supported", imageType)
	}
	if width <= 0 || height <= 0 || width > 1<<15 || height > 1<<15 {
		return nil, errors.New("tga: implausible dimensions")
	}

	bytesPerPixel := 0
	switch {
	case (imageType == 3 || imageType == 11) && bpp == 8:
		bytesPerPixel = 1
	case bpp == 24:
		bytesPerPixel = 3
	case bpp == 32:
		bytesPerPixel = 4
	default:
		return nil, errors.Errorf("tga: %d bits per pixel not supported", bpp)
	}

	raw := data[tgaHeaderSize:]
	if len(raw) < idLength {
		return nil, errors.New("tga: truncated id field")
	}
	raw = raw[idLength:]

	pixels := make([]byte, width*height*bytesPerPixel)
	if rle {
		if err := tgaUnpackRLE(raw, pixels, bytesPerPixel); err != nil {
			return nil, err
		}
	} else {
		if len(raw) < len(pixels) {
			return nil, errors.New("tga: truncated pixel data")
		}
		copy(pixels, raw)
	}

	// Bit 5 of the descriptor: origin at the top. Otherwise rows are
	// stored bottom-up.
	topOrigin := descriptor&0x20 != 0

	if bytesPerPixel == 1 {
		img := image.NewGray(image.Rect(0, 0, width, height))
		for y := 0; y < height; y++ {
			srcY := y
			if !topOrigin {
				srcY = height - 1 - y
			}
			copy(img.Pix[y*img.Stride:y*img.Stride+width], pixels[srcY*width:(srcY+1)*width])
		}
		return img, nil
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		srcY := y
		if !topOrigin {
			srcY = height - 1 - y
		}
		for x := 0; x < width; x++ {
			// TGA stores BGR(A).
			p := pixels[(srcY*width+x)*bytesPerPixel:]
			a := uint8(0xFF)
			if bytesPerPixel == 4 {
				a = p[3]
			}
			img.SetNRGBA(x, y, color.NRGBA{R: p[2], G: p[1], B: p[0], A: a})
		}
	}
	return img, nil
}

// tgaUnpackRLE expands run-length packets into dst.
func tgaUnpackRLE(src, dst []byte, bytesPerPixel int) error {
	out := 0
	in := 0
	for out < len(dst) {
		if in >= len(src) {
			return errors.New("tga: truncated rle stream")
		}
		header := src[in]
		in++
		count := int(header&0x7F) + 1

		if header&0x80 != 0 {
			// Run packet: one pixel repeated count times.
			if in+bytesPerPixel > len(src) {
				return errors.New("tga: truncated rle run")
			}
			for i := 0; i < count && out < len(dst); i++ {
				copy(dst[out:out+bytesPerPixel], src[in:in+bytesPerPixel])
				out += bytesPerPixel
			}
			in += bytesPerPixel
		} else {
			// Literal packet: count raw pixels.
			n := count * bytesPerPixel
			if in+n > len(src) {
				return errors.New("tga: truncated rle literal")
			}
			copy(dst[out:], src[in:in+n])
			out += n
			in += n
		}
	}
	return nil
}
