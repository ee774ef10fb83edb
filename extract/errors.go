package extract

import "errors"

var (
	// ErrUnsupportedFileType is returned when a document's extension is not
	// one of the ingestible formats.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrMalformedDocument is returned when a document cannot be parsed in
	// the format its extension claims.
	ErrMalformedDocument = errors.New("malformed document")
)
