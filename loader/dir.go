package loader

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/nvr-ai/go-imaging/images"
)

// Frame is one decoded image of a frame sequence.
type Frame struct {
	// Path is the path the frame was loaded from.
	Path string
	// Image is the decoded frame.
	Image *images.Image
	// Index is the frame number parsed from the file name.
	Index int
}

// LoadDirectory reads all image files from a directory.
//
// File names are expected to follow the frame-<n>.<ext> convention; frames
// come back ordered by their number. The caller owns one reference to every
// returned image.
//
// Arguments:
// - dir: Directory path containing image files.
// - opts: Colour metadata assumptions passed to every Load.
//
// Returns:
// - []Frame: Decoded frames in frame order.
// - error: Error if reading or decoding fails.
func LoadDirectory(dir string, opts Options) ([]Frame, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var frames []Frame
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		ext := filepath.Ext(file.Name())
		switch strings.ToLower(ext) {
		case ".jpg", ".jpeg", ".png", ".bmp", ".tga", ".tif", ".tiff", ".webp":
		default:
			continue
		}

		path := filepath.Join(dir, file.Name())
		index, err := strconv.Atoi(strings.TrimSuffix(strings.ReplaceAll(file.Name(), "frame-", ""), ext))
		if err != nil {
			continue
		}

		img, err := Load(path, opts)
		if err != nil {
			return nil, err
		}
		frames = append(frames, Frame{Path: path, Image: img, Index: index})
	}

	sort.Slice(frames, func(i, j int) bool {
		return frames[i].Index < frames[j].Index
	})

	return frames, nil
}
