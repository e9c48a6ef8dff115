package types

import (
	"cosmossdk.io/errors"
)

// Module error codes
var (
	ErrUnknownPool         = errors.Register("vault", 1, "caller is not a registered pool")
	ErrZeroAmount          = errors.Register("vault", 2, "amount must be positive")
	ErrActiveDepositExists = errors.Register("vault", 3, "pool already has an active deposit")
	ErrNoActiveDeposit     = errors.Register("vault", 4, "no active deposit for pool")
	ErrNotDelayed          = errors.Register("vault", 5, "deposit is not flagged for retry")
	ErrSlippageExceeded    = errors.Register("vault", 6, "swap output below slippage bound")
	ErrYieldSourceRejected = errors.Register("vault", 7, "yield source rejected supply")
)
