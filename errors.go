package portal

import "errors"

// Sentinel errors returned by document, layer, and frame operations.
// Callers match with errors.Is; wrapped errors keep these as targets.
var (
	// ErrInvalidIndex reports a layer or frame operation with an
	// out-of-range index.
	ErrInvalidIndex = errors.New("portal: index out of range")

	// ErrLastLayer reports an attempt to remove the only remaining
	// layer of a frame.
	ErrLastLayer = errors.New("portal: cannot remove the last layer")

	// ErrLastFrame reports an attempt to delete frame 0 or the only
	// frame of the document.
	ErrLastFrame = errors.New("portal: cannot delete the last frame")

	// ErrKeyConflict reports a key move that would collide with an
	// existing key.
	ErrKeyConflict = errors.New("portal: key move collides with an existing key")

	// ErrDimensionMismatch reports a pasted image that cannot be
	// scaled to fit the document bounds.
	ErrDimensionMismatch = errors.New("portal: image does not fit document bounds")

	// ErrBackendMissing reports an AI operation invoked without a
	// configured generator backend.
	ErrBackendMissing = errors.New("portal: no AI backend configured")

	// ErrCancelled reports cooperative cancellation from a worker.
	ErrCancelled = errors.New("portal: operation cancelled")
)
