package sale

import "errors"

// Configuration errors.
var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrAllocationMismatch   = errors.New("public and reserved allocations must sum to max supply")
	ErrZeroAddress          = errors.New("zero address not allowed")
)

// Authorization errors.
var (
	ErrUnauthorized = errors.New("caller lacks required capability")
)

// State errors.
var (
	ErrSaleNotActive        = errors.New("sale is not active")
	ErrPublicSaleNotStarted = errors.New("public sale has not started")
	ErrPaused               = errors.New("sale is paused")
	ErrMetadataFrozen       = errors.New("metadata is frozen")
)

// Allocation errors.
var (
	ErrInvalidAmount             = errors.New("mint amount must be greater than zero")
	ErrExceedsMaxSupply          = errors.New("exceeds max supply")
	ErrExceedsPublicAllocation   = errors.New("exceeds public allocation")
	ErrExceedsReservedAllocation = errors.New("exceeds reserved allocation")
	ErrExceedsWalletLimit        = errors.New("exceeds per-wallet limit")
)

// Eligibility errors.
var (
	ErrNotWhitelisted = errors.New("account is not whitelisted")
)
