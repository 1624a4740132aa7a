// pkg/arraycow/errors.go
package arraycow

import "errors"

var (
	// ErrInvalidConfig is returned when stride is zero or the chunk
	// size is smaller than the stride.
	ErrInvalidConfig = errors.New("stride must be >= 1 and chunk size >= stride")

	// ErrUnknownState is returned when a state handle is not
	// registered in this store.
	ErrUnknownState = errors.New("unknown state handle")

	// ErrOutputBufferSize is returned when the buffer passed to
	// StateDataGet does not equal the state's length.
	ErrOutputBufferSize = errors.New("output buffer length does not match state size")

	// ErrUnalignedData is returned when an input length is not a
	// multiple of the store's stride.
	ErrUnalignedData = errors.New("data length is not a multiple of the stride")

	// ErrCorrupted is returned by Validate when the store's
	// bookkeeping no longer matches its contents.
	ErrCorrupted = errors.New("store bookkeeping is corrupted")
)
