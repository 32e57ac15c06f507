// Package astc - the collaborator surface for ASTC texture compression.
//
// The pixel engine does not encode ASTC itself; it hands a raw image
// descriptor to an external encoder and receives the compressed artifact
// back. Only the interface lives here.
package astc

import (
	"github.com/nvr-ai/go-imaging/images"
	"github.com/nvr-ai/go-imaging/pixel"
)

// BlockSize is the ASTC footprint, e.g. Block4x4 for 8 bpp.
type BlockSize int

const (
	Block4x4 BlockSize = iota
	Block5x5
	Block6x6
	Block8x8
	Block10x10
	Block12x12
)

// Quality is the encoder effort preset.
type Quality int

const (
	QualityFastest Quality = iota
	QualityFast
	QualityMedium
	QualityThorough
	QualityExhaustive
)

// RawImage describes the uncompressed input handed to an encoder: a
// borrowed interleaved buffer plus its geometry.
type RawImage struct {
	Contents      []byte
	Width         int
	Height        int
	Depth         int
	NumComponents int
	ComponentType pixel.ComponentType
	SRGB          bool
	HDR           bool
}

// CompressedImage is the encoder's artifact.
type CompressedImage struct {
	Data      []byte
	BlockSize BlockSize
	Width     int
	Height    int
	Depth     int
}

// Encoder compresses a raw image descriptor. LDRAlpha selects the
// LDR-with-alpha profile for 8-bit RGBA content. The progress callback
// follows the engine convention: fractions in [0, 1], true cancels.
type Encoder interface {
	Compress(img RawImage, blockSize BlockSize, quality Quality, ldrAlpha bool, progress func(float32) bool) (*CompressedImage, error)
}

// Describe borrows an image's buffer as an encoder input descriptor. The
// image must stay alive and unmodified while the descriptor is in use.
func Describe(img *images.Image) RawImage {
	return RawImage{
		Contents:      img.Contents(),
		Width:         img.Width(),
		Height:        img.Height(),
		Depth:         img.Depth(),
		NumComponents: img.Format().NumComponents,
		ComponentType: img.Format().ComponentType,
		SRGB:          img.SRGB(),
		HDR:           img.HDR(),
	}
}
