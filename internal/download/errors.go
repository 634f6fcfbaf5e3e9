package download

import "errors"

var (
	// ErrFileNotFound is returned when a path lookup matches no file.
	ErrFileNotFound = errors.New("file not found")

	// ErrNoDestination is returned when a download is attempted without a
	// local destination directory.
	ErrNoDestination = errors.New("no download destination configured")

	// ErrContractViolation is returned when the server answers a single-file
	// lookup with more than one record.
	ErrContractViolation = errors.New("server returned an ambiguous file lookup")

	// ErrUnsafePath is returned when a record would be written outside the
	// destination directory.
	ErrUnsafePath = errors.New("file path escapes the download destination")
)
