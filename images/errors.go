package images

import (
	stderrors "errors"

	"github.com/pkg/errors"
)

// Error kinds for every operation that can fail. Callers match with
// errors.Is; messages wrapped around them stay short.
var (
	// ErrInvalidArgument reports a bad component count, channel index or
	// mismatched image sizes.
	ErrInvalidArgument = stderrors.New("invalid argument")

	// ErrAllocationFailed reports a refused buffer allocation.
	ErrAllocationFailed = stderrors.New("allocation failed")

	// ErrColourConversionFailed reports a failure in the colour engine.
	ErrColourConversionFailed = stderrors.New("colour conversion failed")

	// ErrUnsupportedBitDepth reports image data the engine cannot ingest.
	ErrUnsupportedBitDepth = stderrors.New("unsupported bit depth")

	// ErrTaskCancelled reports that the progress callback requested
	// cancellation.
	ErrTaskCancelled = stderrors.New("task cancelled")
)

// invalidArgument wraps ErrInvalidArgument with a short message.
func invalidArgument(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidArgument, format, args...)
}
