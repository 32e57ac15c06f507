package images

import (
	"sync/atomic"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-imaging/icc"
	"github.com/nvr-ai/go-imaging/parallel"
	"github.com/nvr-ai/go-imaging/pixel"
)

// ResamplingAlgorithm selects the reconstruction filter.
type ResamplingAlgorithm int

const (
	// Lanczos is the windowed-sinc filter; quality is the kernel
	// half-width (2 or 3 are the usual choices).
	Lanczos ResamplingAlgorithm = iota
)

// sinc is the normalised sinc function.
func sinc(x float32) float32 {
	if x == 0 {
		return 1
	}
	px := math32.Pi * x
	return math32.Sin(px) / px
}

// lanczosWeight evaluates the Lanczos kernel sinc(x)*sinc(x/a) for |x| < a.
func lanczosWeight(x, a float32) float32 {
	if x <= -a || x >= a {
		return 0
	}
	return sinc(x) * sinc(x/a)
}

// axis identifies the direction of a one-dimensional resampling pass.
type axis int

const (
	axisX axis = iota
	axisY
	axisZ
)

// resamplePass is one separable 1-D convolution over a single axis. The
// source and destination are raw interleaved buffers; pixel fetch and store
// go through the monomorphised jump table for the image's
// (componentType, numComponents) pair, so the inner loop carries no
// per-component dispatch.
type resamplePass struct {
	src, dst []byte

	srcW, srcH, srcD int
	outW, outH, outD int

	pixelSize   int
	get         getFunc
	set         setFunc
	a           float32
	renormalize bool
}

// sample convolves one output pixel at output coordinate out along the
// pass axis, with the other two coordinates fixed.
func (p *resamplePass) sample(dir axis, out, fixed1, fixed2 int) pixel.Pixel {
	var srcLen, outLen int
	switch dir {
	case axisX:
		srcLen, outLen = p.srcW, p.outW
	case axisY:
		srcLen, outLen = p.srcH, p.outH
	default:
		srcLen, outLen = p.srcD, p.outD
	}

	scale := float32(srcLen) / float32(outLen)
	center := (float32(out)+0.5)*scale - 0.5

	first := int(math32.Floor(center - p.a + 1))
	last := int(math32.Floor(center + p.a))

	var acc pixel.Pixel
	var sum float32
	for i := first; i <= last; i++ {
		w := lanczosWeight(center-float32(i), p.a)
		if w == 0 {
			continue
		}

		// Edge clamp on the sampled axis.
		at := clamp(i, srcLen)

		var x, y, z int
		switch dir {
		case axisX:
			x, y, z = at, fixed1, fixed2
		case axisY:
			x, y, z = fixed1, at, fixed2
		default:
			x, y, z = fixed1, fixed2, at
		}

		off := (z*p.srcW*p.srcH + y*p.srcW + x) * p.pixelSize
		acc = acc.Add(p.get(p.src, off).Scale(w))
		sum += w
	}

	result := acc.Div(sum)
	if p.renormalize && result.Length() > 0 {
		result = result.Normalized()
	}
	return result
}

// run executes the pass row-parallel. Each claimed index is one output row
// (a span of outW pixels for X/Y passes, one (x, y) column for the Z pass).
// Returns false if cancelled.
func (p *resamplePass) run(dir axis, cancelled *atomic.Bool, tick func()) bool {
	switch dir {
	case axisX:
		// One index per (z, y) source row.
		return parallel.ForCancel(0, p.outH*p.outD, cancelled, func(row int) {
			z := row / p.outH
			y := row % p.outH
			rowBase := (z*p.outW*p.outH + y*p.outW) * p.pixelSize
			for x := 0; x < p.outW; x++ {
				p.set(p.dst, rowBase+x*p.pixelSize, p.sample(axisX, x, y, z))
			}
			tick()
		})

	case axisY:
		// One index per (z, y') output row.
		return parallel.ForCancel(0, p.outH*p.outD, cancelled, func(row int) {
			z := row / p.outH
			y := row % p.outH
			rowBase := (z*p.outW*p.outH + y*p.outW) * p.pixelSize
			for x := 0; x < p.outW; x++ {
				p.set(p.dst, rowBase+x*p.pixelSize, p.sample(axisY, y, x, z))
			}
			tick()
		})

	default:
		// One index per (z', y) output row, convolving along Z.
		return parallel.ForCancel(0, p.outH*p.outD, cancelled, func(row int) {
			z := row / p.outH
			y := row % p.outH
			rowBase := (z*p.outW*p.outH + y*p.outW) * p.pixelSize
			for x := 0; x < p.outW; x++ {
				p.set(p.dst, rowBase+x*p.pixelSize, p.sample(axisZ, z, x, y))
			}
			tick()
		})
	}
}

// Resample rescales the image to (width, height, depth) with a separable
// filter, one pass per axis in X, Y, Z order.
//
// Resampling happens in linear light: a non-linear image is converted
// before the passes (through its profile's linear sibling when a profile is
// attached, through the sRGB fast path when only the tag says sRGB) and
// converted back afterwards. An image with neither profile nor sRGB tag is
// resampled as-is even when hdr is set.
//
// quality is the Lanczos kernel half-width. renormalize projects every
// sampled RGB vector back to unit length after each axis, which keeps
// normal maps usable after scaling.
//
// progress receives fractions in [0, 1] and may cancel; see ProgressFunc.
// Resampling to the current dimensions reports 1.0 and returns without
// touching the buffer.
func (img *Image) Resample(algorithm ResamplingAlgorithm, quality float32, width, height, depth int, renormalize bool, progress ProgressFunc) error {
	if algorithm != Lanczos {
		return invalidArgument("unknown resampling algorithm %d", algorithm)
	}
	if quality < 1 {
		return invalidArgument("kernel half-width %g", quality)
	}
	progress = progressOrDefault(progress)

	width = clampDimension(width)
	height = clampDimension(height)
	depth = clampDimension(depth)

	if width == img.width && height == img.height && depth == img.depth {
		progress(1)
		return nil
	}

	// Linearisation pre-pass. Remember what to restore afterwards.
	var restoreProfile *icc.Profile
	restoreSRGBTag := false
	if !img.linear {
		switch {
		case img.profile != nil:
			linear, err := img.profile.CreateLinear()
			if err != nil {
				return errors.Wrap(ErrColourConversionFailed, err.Error())
			}
			restoreProfile = img.profile.Retain()
			err = img.ConvertProfile(linear)
			linear.Release()
			if err != nil {
				restoreProfile.Release()
				return err
			}
		case img.srgb:
			img.SRGBToLinear(true)
			restoreSRGBTag = true
		}
	}
	restore := func() error {
		if restoreProfile != nil {
			err := img.ConvertProfile(restoreProfile)
			restoreProfile.Release()
			return err
		}
		if restoreSRGBTag {
			img.LinearToSRGB(true)
		}
		return nil
	}

	pixelSize := img.format.PixelSize()
	sourceSize := img.width * img.height * img.depth * pixelSize
	targetSize := width * height * depth * pixelSize
	intermediateSize := width * img.height * img.depth * pixelSize
	temporarySize := intermediateSize
	if targetSize > temporarySize {
		temporarySize = targetSize
	}

	// Grow the primary buffer so it can hold any pass output, and allocate
	// one scratch; the two are swapped between passes.
	primary := img.contents
	primarySize := sourceSize
	if temporarySize > primarySize {
		primarySize = temporarySize
	}
	if len(primary) < primarySize {
		grown := make([]byte, primarySize)
		copy(grown, img.contents)
		primary = grown
		img.owned = true
	}
	scratch := make([]byte, temporarySize)

	src, dst := primary, scratch
	curW, curH, curD := img.width, img.height, img.depth

	// Progress bookkeeping across the up-to-three phases.
	totalSteps := img.height*img.depth + height*img.depth
	if depth > 1 {
		totalSteps += height * depth
	}
	progressStep := totalSteps / 10
	if progressStep < 1 {
		progressStep = 1
	}
	var done atomic.Int64
	var cancelled atomic.Bool
	tick := func() {
		finished := done.Add(1)
		if finished%int64(progressStep) == 0 {
			if progress(float32(finished) / float32(totalSteps)) {
				cancelled.Store(true)
			}
		}
	}

	get := lookupGet(img.format.ComponentType, img.format.NumComponents)
	set := lookupSet(img.format.ComponentType, img.format.NumComponents)

	runPass := func(dir axis, outW, outH, outD int) bool {
		pass := resamplePass{
			src: src, dst: dst,
			srcW: curW, srcH: curH, srcD: curD,
			outW: outW, outH: outH, outD: outD,
			pixelSize:   pixelSize,
			get:         get,
			set:         set,
			a:           quality,
			renormalize: renormalize,
		}
		ok := pass.run(dir, &cancelled, tick)
		if ok {
			src, dst = dst, src
			curW, curH, curD = outW, outH, outD
		}
		return ok
	}

	finish := func(applied bool) error {
		if !applied {
			// Dimensions stay as they were; trim the primary back to the
			// source extent so the layout invariant holds.
			img.contents = primary[:sourceSize]
			if restoreErr := restore(); restoreErr != nil {
				return restoreErr
			}
			return ErrTaskCancelled
		}

		// The final data must end up in the primary buffer.
		if &src[0] == &scratch[0] {
			copy(primary[:targetSize], src[:targetSize])
		}
		img.contents = primary[:targetSize]
		img.width = width
		img.height = height
		img.depth = depth

		if restoreErr := restore(); restoreErr != nil {
			return restoreErr
		}
		progress(1)
		return nil
	}

	// Horizontal, vertical, then depth.
	if !runPass(axisX, width, curH, curD) {
		return finish(false)
	}
	if !runPass(axisY, curW, height, curD) {
		return finish(false)
	}
	if depth > 1 {
		if !runPass(axisZ, curW, curH, depth) {
			return finish(false)
		}
	}

	return finish(true)
}

// Downsample halves every dimension (never below 1) with the given filter.
func (img *Image) Downsample(algorithm ResamplingAlgorithm, quality float32, renormalize bool, progress ProgressFunc) error {
	return img.Resample(algorithm, quality,
		clampDimension(img.width/2),
		clampDimension(img.height/2),
		clampDimension(img.depth/2),
		renormalize, progress)
}

// CreateResampled returns a rescaled copy, leaving the receiver untouched.
func (img *Image) CreateResampled(algorithm ResamplingAlgorithm, quality float32, width, height, depth int, renormalize bool, progress ProgressFunc) (*Image, error) {
	clone := img.Clone()
	if err := clone.Resample(algorithm, quality, width, height, depth, renormalize, progress); err != nil {
		clone.Release()
		return nil, err
	}
	return clone, nil
}
