package royalty

import "errors"

// Royalty configuration errors.
var (
	ErrZeroReceiver       = errors.New("royalty receiver cannot be the zero address")
	ErrInvalidBasisPoints = errors.New("royalty basis points exceed 10000")
)
