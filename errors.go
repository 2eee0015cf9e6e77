package gofft

import "errors"

// Sentinel errors returned by the FFT buffer API. Call sites that need to
// attach the offending dimension wrap one of these with fmt.Errorf and
// "%w" so errors.Is keeps working for callers that only care about the
// error kind.
var (
	// ErrInvalidLength is returned when a Plan1D or Plan2D is constructed
	// with a non-positive length.
	ErrInvalidLength = errors.New("gofft: invalid FFT length")

	// ErrDimensionMismatch is returned when a buffer's length is
	// incompatible with the plan it is passed to.
	ErrDimensionMismatch = errors.New("gofft: buffer dimension mismatch")

	// ErrInvalidPackedCoordinate is returned by Codec2D.CellValue and
	// Codec2D.SetCellValue when (r, c) falls outside the valid range for
	// the codec's dimensions, and by SetCellValue when it is given a value
	// with a nonzero imaginary part for one of the structurally real cells.
	ErrInvalidPackedCoordinate = errors.New("gofft: invalid packed coordinate")

	// ErrWorkerFailure is returned by a join Handle when the submitted
	// closure panicked instead of completing normally.
	ErrWorkerFailure = errors.New("gofft: worker failed to complete")
)
