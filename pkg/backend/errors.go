package backend

import "errors"

// Backend errors.
var (
	ErrUnknownSale = errors.New("unknown sale symbol")
	ErrNoAllowlist = errors.New("sale has no allowlist configured")
)
