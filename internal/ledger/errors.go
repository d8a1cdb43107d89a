package ledger

import "errors"

var (
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInconsistentOwnership = errors.New("inconsistent ownership")
	ErrAmbiguousBillingMode = errors.New("ambiguous billing mode")
)
