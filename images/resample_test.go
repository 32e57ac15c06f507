package images

import (
	"sync"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-imaging/icc"
	"github.com/nvr-ai/go-imaging/pixel"
)

func TestResampleNoOpIsBitwiseIdentity(t *testing.T) {
	img := testRGBA2x2(t)
	before := append([]byte(nil), img.Contents()...)

	var last float32
	require.NoError(t, img.Resample(Lanczos, 2, 2, 2, 1, false, func(p float32) bool {
		last = p
		return false
	}))

	assert.Equal(t, before, img.Contents(), "resampling to the same size must not touch the buffer")
	assert.Equal(t, float32(1), last, "the short-circuit still reports completion")
}

func TestResampleRejectsUnknownAlgorithm(t *testing.T) {
	img := testRGBA2x2(t)
	assert.ErrorIs(t, img.Resample(ResamplingAlgorithm(42), 2, 4, 4, 1, false, nil), ErrInvalidArgument)
	assert.ErrorIs(t, img.Resample(Lanczos, 0, 4, 4, 1, false, nil), ErrInvalidArgument)
}

func TestResampleConstantStaysConstant(t *testing.T) {
	img, err := New(pixel.NewFormat(pixel.F32, 1), 4, 4, 1, Hints{Linear: true})
	require.NoError(t, err)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetPixel(pixel.Pixel{R: 0.625}, x, y, 0)
		}
	}

	require.NoError(t, img.Resample(Lanczos, 2, 8, 8, 1, false, nil))

	assert.Equal(t, 8, img.Width())
	assert.Equal(t, 8, img.Height())
	assert.Len(t, img.Contents(), 8*8*4)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			assert.InDelta(t, 0.625, img.GetPixel(x, y, 0).R, 1e-6,
				"kernel weights normalise, so a constant image stays constant at (%d,%d)", x, y)
		}
	}
}

func TestResampleScaleOneAxisIsExact(t *testing.T) {
	// Doubling the height of an image that is constant along Y: the X pass
	// runs at scale 1 (pure identity weights) and every vertical
	// convolution only ever sees one value.
	img, err := New(pixel.NewFormat(pixel.F32, 1), 4, 3, 1, Hints{Linear: true})
	require.NoError(t, err)
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			img.SetPixel(pixel.Pixel{R: float32(x)}, x, y, 0)
		}
	}

	require.NoError(t, img.Resample(Lanczos, 2, 4, 6, 1, false, nil))

	for y := 0; y < 6; y++ {
		for x := 0; x < 4; x++ {
			assert.InDelta(t, float32(x), img.GetPixel(x, y, 0).R, 1e-5,
				"column value at (%d,%d)", x, y)
		}
	}
}

// refLanczos1D mirrors the engine's per-axis convolution for the reference
// computation below.
func refLanczos1D(srcLen, outLen int, out int, a float64) (weights []float64, taps []int) {
	scale := float64(srcLen) / float64(outLen)
	center := (float64(out)+0.5)*scale - 0.5
	first := int(math32.Floor(float32(center - a + 1)))
	last := int(math32.Floor(float32(center + a)))
	for i := first; i <= last; i++ {
		x := center - float64(i)
		var w float64
		if x > -a && x < a {
			s := func(v float64) float64 {
				if v == 0 {
					return 1
				}
				pv := 3.14159265358979323846 * v
				return float64(math32.Sin(float32(pv))) / pv
			}
			w = s(x) * s(x/a)
		}
		at := i
		if at < 0 {
			at = 0
		}
		if at >= srcLen {
			at = srcLen - 1
		}
		weights = append(weights, w)
		taps = append(taps, at)
	}
	return
}

func TestResampleSeparabilityMatchesDirectConvolution(t *testing.T) {
	const srcW, srcH = 4, 4
	const dstW, dstH = 6, 5
	const a = 2.0

	img, err := New(pixel.NewFormat(pixel.F32, 1), srcW, srcH, 1, Hints{Linear: true})
	require.NoError(t, err)
	var src [srcH][srcW]float64
	for y := 0; y < srcH; y++ {
		for x := 0; x < srcW; x++ {
			v := float64(x + y)
			src[y][x] = v
			img.SetPixel(pixel.Pixel{R: float32(v)}, x, y, 0)
		}
	}

	require.NoError(t, img.Resample(Lanczos, a, dstW, dstH, 1, false, nil))

	// Direct 2-D convolution with the factored kernel: for a separable
	// filter the product form equals the sequential per-axis passes.
	for oy := 0; oy < dstH; oy++ {
		wy, tapsY := refLanczos1D(srcH, dstH, oy, a)
		for ox := 0; ox < dstW; ox++ {
			wx, tapsX := refLanczos1D(srcW, dstW, ox, a)

			var acc, sum float64
			for j, wj := range wy {
				for i, wi := range wx {
					acc += wi * wj * src[tapsY[j]][tapsX[i]]
					sum += wi * wj
				}
			}
			want := acc / sum

			assert.InDelta(t, want, img.GetPixel(ox, oy, 0).R, 1e-3,
				"separable result diverges from the direct convolution at (%d,%d)", ox, oy)
		}
	}
}

func TestResampleRenormalizeKeepsUnitNormals(t *testing.T) {
	inv := 1.0 / math32.Sqrt(3)
	img, err := New(pixel.NewFormat(pixel.F32, 3), 4, 4, 1, Hints{Linear: true})
	require.NoError(t, err)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetPixel(pixel.Pixel{R: inv, G: inv, B: inv}, x, y, 0)
		}
	}

	require.NoError(t, img.Resample(Lanczos, 2, 8, 8, 1, true, nil))

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			length := img.GetPixel(x, y, 0).Length()
			assert.InDelta(t, 1.0, length, 1e-5, "normal length at (%d,%d)", x, y)
		}
	}
}

func TestResampleDepthAxis(t *testing.T) {
	img, err := New(pixel.NewFormat(pixel.F32, 1), 2, 2, 4, Hints{Linear: true})
	require.NoError(t, err)
	for z := 0; z < 4; z++ {
		for y := 0; y < 2; y++ {
			for x := 0; x < 2; x++ {
				img.SetPixel(pixel.Pixel{R: 0.5}, x, y, z)
			}
		}
	}

	require.NoError(t, img.Resample(Lanczos, 2, 2, 2, 8, false, nil))

	assert.Equal(t, 8, img.Depth())
	assert.Len(t, img.Contents(), 2*2*8*4)
	for z := 0; z < 8; z++ {
		assert.InDelta(t, 0.5, img.GetPixel(0, 0, z).R, 1e-6, "plane %d", z)
	}
}

func TestResampleU8JumpTablePath(t *testing.T) {
	// U8 runs the passes end to end through its jump-table entries. Linear
	// tag keeps the transfer curve out of the comparison.
	img, err := New(pixel.NewFormat(pixel.U8, 4), 4, 4, 1, Hints{Linear: true})
	require.NoError(t, err)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetPixel(pixel.Pixel{R: 0.5, G: 0.5, B: 0.5, A: 1}, x, y, 0)
		}
	}

	require.NoError(t, img.Resample(Lanczos, 2, 8, 8, 1, false, nil))

	assert.Equal(t, 8, img.Width())
	got := img.GetPixel(3, 3, 0)
	assert.InDelta(t, 0.5, got.R, 0.01)
	assert.InDelta(t, 1.0, got.A, 0.01)
}

func TestResampleLineariseAroundByTag(t *testing.T) {
	img, err := New(pixel.NewFormat(pixel.U8, 3), 4, 4, 1, Hints{SRGB: true})
	require.NoError(t, err)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetPixel(pixel.Pixel{R: 0.7, G: 0.7, B: 0.7}, x, y, 0)
		}
	}

	require.NoError(t, img.Resample(Lanczos, 2, 2, 2, 1, false, nil))

	assert.True(t, img.SRGB(), "the sRGB tag is restored after the resample")
	assert.False(t, img.Linear())
	// A constant image survives linearise/resample/delinearise within
	// quantisation.
	assert.InDelta(t, 0.7, img.GetPixel(0, 0, 0).R, 2.0/255.0)
}

func TestResampleLineariseAroundByProfile(t *testing.T) {
	srgb, err := icc.NewSRGB()
	require.NoError(t, err)
	defer srgb.Release()

	img, err := New(pixel.NewFormat(pixel.F32, 3), 4, 4, 1, Hints{})
	require.NoError(t, err)
	img.AssignProfile(srgb)
	require.True(t, img.SRGB())
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetPixel(pixel.Pixel{R: 0.25, G: 0.5, B: 0.75}, x, y, 0)
		}
	}

	require.NoError(t, img.Resample(Lanczos, 2, 8, 8, 1, false, nil))

	assert.Equal(t, srgb, img.Profile(), "the original profile comes back after the resample")
	assert.True(t, img.SRGB())
}

func TestResampleCancellation(t *testing.T) {
	img, err := New(pixel.NewFormat(pixel.F32, 4), 64, 64, 1, Hints{Linear: true})
	require.NoError(t, err)

	err = img.Resample(Lanczos, 2, 32, 32, 1, false, func(float32) bool { return true })
	assert.ErrorIs(t, err, ErrTaskCancelled)
	assert.Equal(t, 64, img.Width(), "cancellation must not apply new dimensions")
	assert.Equal(t, 64, img.Height())
	assert.Len(t, img.Contents(), 64*64*16, "the buffer keeps the source extent")
}

func TestResampleProgressReporting(t *testing.T) {
	img, err := New(pixel.NewFormat(pixel.F32, 1), 16, 16, 1, Hints{Linear: true})
	require.NoError(t, err)

	var mu sync.Mutex
	var fractions []float32
	require.NoError(t, img.Resample(Lanczos, 2, 32, 32, 1, false, func(p float32) bool {
		mu.Lock()
		fractions = append(fractions, p)
		mu.Unlock()
		return false
	}))

	require.NotEmpty(t, fractions)
	for _, f := range fractions {
		assert.GreaterOrEqual(t, f, float32(0))
		assert.LessOrEqual(t, f, float32(1))
	}
	assert.Equal(t, float32(1), fractions[len(fractions)-1], "progress must finish at 1.0")
}

func TestDownsampleHalvesDimensions(t *testing.T) {
	img, err := New(pixel.NewFormat(pixel.F32, 1), 8, 8, 1, Hints{Linear: true})
	require.NoError(t, err)

	require.NoError(t, img.Downsample(Lanczos, 2, false, nil))

	assert.Equal(t, 4, img.Width())
	assert.Equal(t, 4, img.Height())
	assert.Equal(t, 1, img.Depth(), "depth 1 never drops below 1")
}

func TestCreateResampledLeavesReceiver(t *testing.T) {
	img, err := New(pixel.NewFormat(pixel.F32, 1), 4, 4, 1, Hints{Linear: true})
	require.NoError(t, err)

	resampled, err := img.CreateResampled(Lanczos, 2, 8, 8, 1, false, nil)
	require.NoError(t, err)

	assert.Equal(t, 4, img.Width())
	assert.Equal(t, 8, resampled.Width())
}

func TestResampleClampsTargetDimensions(t *testing.T) {
	img, err := New(pixel.NewFormat(pixel.F32, 1), 4, 4, 1, Hints{Linear: true})
	require.NoError(t, err)

	require.NoError(t, img.Resample(Lanczos, 2, 0, -3, 0, false, nil))
	assert.Equal(t, 1, img.Width())
	assert.Equal(t, 1, img.Height())
	assert.Equal(t, 1, img.Depth())
}
