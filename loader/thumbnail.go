package loader

import (
	"image"

	"github.com/nfnt/resize"

	"github.com/nvr-ai/go-imaging/images"
)

// Thumbnail decodes file bytes and scales the result down so its longest
// edge is at most maxEdge, preserving aspect ratio. This is preview-quality
// glue for pickers and galleries; the engine's own Resample is the path for
// quality-critical scaling.
func Thumbnail(data []byte, maxEdge int, opts Options) (*images.Image, error) {
	if maxEdge < 1 {
		maxEdge = 1
	}

	var decoded image.Image
	var err error
	for _, d := range decoders {
		decoded, err = d.decode(data)
		if err == nil {
			break
		}
	}
	if decoded == nil {
		return nil, err
	}

	bounds := decoded.Bounds()
	if bounds.Dx() > maxEdge || bounds.Dy() > maxEdge {
		decoded = resize.Thumbnail(uint(maxEdge), uint(maxEdge), decoded, resize.Lanczos3)
	}

	return fromGoImage(decoded, opts)
}
