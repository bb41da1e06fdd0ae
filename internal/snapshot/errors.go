package snapshot

import "errors"

var (
	// ErrIO indicates the document could not be read or written.
	ErrIO = errors.New("snapshot i/o error")
	// ErrParse indicates the document is not well-formed JSON or does not
	// describe a valid state.
	ErrParse = errors.New("snapshot parse error")
	// ErrIntegrity indicates the checksum is missing or does not match the payload.
	ErrIntegrity = errors.New("snapshot integrity error")
	// ErrNoProfile indicates an export was requested before a profile exists.
	ErrNoProfile = errors.New("no profile to export")
)
