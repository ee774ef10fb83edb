package chunk

import "errors"

var (
	// ErrInvalidChunkSize is returned when maxChunkSize is not positive.
	ErrInvalidChunkSize = errors.New("invalid chunk size")

	// ErrNoChunksGenerated is returned when non-empty input produced no
	// chunks. With the current splitter this cannot happen, but callers
	// rely on the guarantee being checked rather than assumed.
	ErrNoChunksGenerated = errors.New("no chunks generated")
)
