package roles

import "errors"

// Capability store errors.
var (
	ErrZeroAddress      = errors.New("zero address cannot hold a capability")
	ErrTreasurerManaged = errors.New("treasurer capability is managed by the treasury setter")
)
