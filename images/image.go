// Package images - the in-memory image container and its editing
// operations: typed pixel access, component-type and channel-count
// transforms, colour management and separable Lanczos resampling.
package images

import (
	"sync/atomic"

	"github.com/nvr-ai/go-imaging/icc"
	"github.com/nvr-ai/go-imaging/pixel"
)

// Image is a mutable 2-D or 3-D raster image.
//
// The pixel at (x, y, z) starts at byte offset
// (z*width*height + y*width + x) * pixelSize with components interleaved in
// format order; rows carry no padding. The contents buffer is exclusively
// owned by the image: mutating operations must not run concurrently with
// any other operation on the same image, while reads on a settled image may
// come from any goroutine.
//
// The srgb, linear and hdr flags describe the data currently in the buffer.
// When a colour profile is attached, srgb and linear always mirror
// profile.IsSRGB() and profile.IsLinear().
type Image struct {
	format pixel.Format

	width  int
	height int
	depth  int

	contents []byte
	owned    bool

	profile *icc.Profile
	srgb    bool
	linear  bool
	hdr     bool

	refs atomic.Int64
}

// Hints carries the colour metadata a loader knows about a raw buffer.
type Hints struct {
	// Profile is an optional embedded colour profile. The image retains
	// its own reference.
	Profile *icc.Profile
	// SRGB marks the data as sRGB encoded when no profile is present.
	SRGB bool
	// Linear marks the data as linear light.
	Linear bool
	// HDR marks data that may exceed [0, 1]; meaningful for F16/F32 only.
	HDR bool
}

// clampDimension lifts non-positive dimensions to 1.
func clampDimension(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

func newImage(format pixel.Format, contents []byte, owned bool, width, height, depth int, hints Hints) *Image {
	img := &Image{
		format:   format,
		width:    width,
		height:   height,
		depth:    depth,
		contents: contents,
		owned:    owned,
		profile:  hints.Profile.Retain(),
		srgb:     hints.SRGB,
		linear:   hints.Linear,
		hdr:      hints.HDR,
	}
	if img.profile != nil {
		img.srgb = img.profile.IsSRGB()
		img.linear = img.profile.IsLinear()
	}
	img.refs.Store(1)
	return img
}

// New creates a blank, zero-filled image. Dimensions below 1 are clamped
// to 1.
func New(format pixel.Format, width, height, depth int, hints Hints) (*Image, error) {
	if !format.Validate() {
		return nil, invalidArgument("pixel format %s/%d", format.ComponentType, format.NumComponents)
	}
	width = clampDimension(width)
	height = clampDimension(height)
	depth = clampDimension(depth)

	contents := make([]byte, width*height*depth*format.PixelSize())
	return newImage(format, contents, true, width, height, depth, hints), nil
}

// NewFromBytes adopts a raw pixel buffer produced by a loader. The image
// takes ownership: the caller must not touch the buffer afterwards.
func NewFromBytes(contents []byte, format pixel.Format, width, height, depth int, hints Hints) (*Image, error) {
	return fromBytes(contents, format, width, height, depth, hints, true)
}

// NewBorrowed wraps a raw pixel buffer without taking ownership. The caller
// keeps the buffer alive and unmodified for the image's lifetime.
func NewBorrowed(contents []byte, format pixel.Format, width, height, depth int, hints Hints) (*Image, error) {
	return fromBytes(contents, format, width, height, depth, hints, false)
}

func fromBytes(contents []byte, format pixel.Format, width, height, depth int, hints Hints, owned bool) (*Image, error) {
	if !format.Validate() {
		return nil, invalidArgument("pixel format %s/%d", format.ComponentType, format.NumComponents)
	}
	width = clampDimension(width)
	height = clampDimension(height)
	depth = clampDimension(depth)

	if expected := width * height * depth * format.PixelSize(); len(contents) != expected {
		return nil, invalidArgument("contents is %d bytes, expected %d", len(contents), expected)
	}
	return newImage(format, contents, owned, width, height, depth, hints), nil
}

// RGBA8Unorm creates a white, fully opaque 8-bit RGBA image.
func RGBA8Unorm(width, height int) *Image {
	width = clampDimension(width)
	height = clampDimension(height)

	contents := make([]byte, width*height*4)
	for i := range contents {
		contents[i] = 0xFF
	}
	return newImage(pixel.RGBA8Unorm, contents, true, width, height, 1, Hints{Linear: true})
}

// Retain increments the reference count and returns the image. Safe on a
// nil receiver.
func (img *Image) Retain() *Image {
	if img != nil {
		img.refs.Add(1)
	}
	return img
}

// Release decrements the reference count. When the last reference goes
// away the colour profile handle is released and the buffer is dropped.
// Safe on a nil receiver.
func (img *Image) Release() {
	if img == nil {
		return
	}
	if img.refs.Add(-1) == 0 {
		img.profile.Release()
		img.profile = nil
		img.contents = nil
	}
}

// Clone returns a deep copy of the image with its own buffer and its own
// profile reference.
func (img *Image) Clone() *Image {
	contents := make([]byte, len(img.contents))
	copy(contents, img.contents)

	clone := &Image{
		format:   img.format,
		width:    img.width,
		height:   img.height,
		depth:    img.depth,
		contents: contents,
		owned:    true,
		profile:  img.profile.Retain(),
		srgb:     img.srgb,
		linear:   img.linear,
		hdr:      img.hdr,
	}
	clone.refs.Store(1)
	return clone
}

// Format returns the pixel format.
func (img *Image) Format() pixel.Format { return img.format }

// Width returns the image width in pixels.
func (img *Image) Width() int { return img.width }

// Height returns the image height in pixels.
func (img *Image) Height() int { return img.height }

// Depth returns the number of Z planes.
func (img *Image) Depth() int { return img.depth }

// Contents exposes the raw pixel buffer. The bytes are owned by the image
// unless it was created with NewBorrowed.
func (img *Image) Contents() []byte { return img.contents }

// OwnsContents reports whether the image owns its buffer. Borrowed buffers
// become owned as soon as an operation has to reallocate.
func (img *Image) OwnsContents() bool { return img.owned }

// ContentsSize returns the buffer size in bytes.
func (img *Image) ContentsSize() int {
	return img.width * img.height * img.depth * img.format.PixelSize()
}

// Profile returns the attached colour profile, or nil.
func (img *Image) Profile() *icc.Profile { return img.profile }

// SRGB reports whether the buffer currently holds sRGB encoded data.
func (img *Image) SRGB() bool { return img.srgb }

// Linear reports whether the buffer currently holds linear-light data.
func (img *Image) Linear() bool { return img.linear }

// HDR reports whether the data may contain values outside [0, 1].
func (img *Image) HDR() bool { return img.hdr }

// offset returns the byte offset of the pixel at (x, y, z) for the image's
// own format.
func (img *Image) offset(x, y, z int) int {
	return (z*img.width*img.height + y*img.width + x) * img.format.PixelSize()
}

// clamp returns the coordinate clamped to [0, limit-1].
func clamp(v, limit int) int {
	if v < 0 {
		return 0
	}
	if v >= limit {
		return limit - 1
	}
	return v
}
