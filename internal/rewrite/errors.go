package rewrite

import "errors"

var (
	// ErrMalformedInclude is returned for a line that opens a quoted include
	// path but never closes it.
	ErrMalformedInclude = errors.New("malformed include directive")

	// ErrNotText is returned for files that are not valid UTF-8 text.
	ErrNotText = errors.New("not a text file")

	// ErrEmptyToken is returned when a namespace rename is missing its
	// source or destination token.
	ErrEmptyToken = errors.New("namespace token must not be empty")
)
