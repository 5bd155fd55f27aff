package token

import "errors"

// Collection errors.
var (
	ErrZeroAddress    = errors.New("cannot issue to the zero address")
	ErrMetadataFrozen = errors.New("metadata is frozen")
	ErrUnknownToken   = errors.New("unknown token id")
)
