package allowlist

import "errors"

// Tree construction and proof errors.
var (
	ErrEmptySet = errors.New("allowlist set is empty")
	ErrNotInSet = errors.New("account not in allowlist set")
)
