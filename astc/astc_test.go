package astc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-imaging/images"
	"github.com/nvr-ai/go-imaging/pixel"
)

func TestDescribeBorrowsImage(t *testing.T) {
	img, err := images.New(pixel.NewFormat(pixel.F16, 4), 8, 4, 2, images.Hints{Linear: true, HDR: true})
	require.NoError(t, err)

	raw := Describe(img)

	assert.Equal(t, 8, raw.Width)
	assert.Equal(t, 4, raw.Height)
	assert.Equal(t, 2, raw.Depth)
	assert.Equal(t, 4, raw.NumComponents)
	assert.Equal(t, pixel.F16, raw.ComponentType)
	assert.True(t, raw.HDR)
	assert.False(t, raw.SRGB)

	// The descriptor borrows, it does not copy.
	assert.Same(t, &img.Contents()[0], &raw.Contents[0])
}
