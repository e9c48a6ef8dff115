package types

import (
	"cosmossdk.io/errors"
)

// Module error codes
var (
	ErrPoolNotFound        = errors.Register("savings", 1, "pool not found")
	ErrInvalidConfig       = errors.Register("savings", 2, "invalid pool configuration")
	ErrWrongPhase          = errors.Register("savings", 3, "operation not valid in current phase")
	ErrAlreadyMember       = errors.Register("savings", 4, "address is already a pool member")
	ErrNotMember           = errors.Register("savings", 5, "address is not a pool member")
	ErrMemberRemoved       = errors.Register("savings", 6, "member has been removed from the pool")
	ErrPoolFull            = errors.Register("savings", 7, "pool is at member capacity")
	ErrIdentityRequired    = errors.Register("savings", 8, "identity verification required to join")
	ErrBlacklisted         = errors.Register("savings", 9, "address is blacklisted")
	ErrEnrollmentClosed    = errors.Register("savings", 10, "enrollment window has closed")
	ErrTooFewCyclesLeft    = errors.Register("savings", 11, "fewer than three cycles remain")
	ErrRateCapExceeded     = errors.Register("savings", 12, "late joiner rate reaches twice the base rate")
	ErrCycleWindowClosed   = errors.Register("savings", 13, "contribution window for this cycle has closed")
	ErrCycleAlreadyPaid    = errors.Register("savings", 14, "current cycle already paid")
	ErrMissedCycles        = errors.Register("savings", 15, "unpaid prior cycles, use batch deposit or face eviction")
	ErrAllCyclesPaid       = errors.Register("savings", 16, "member has paid all cycles")
	ErrWrongDepositAmount  = errors.Register("savings", 17, "deposit amount does not match expected amount")
	ErrBatchNotEligible    = errors.Register("savings", 18, "batch deposit requires exactly one missed cycle")
	ErrMemberNotDelinquent = errors.Register("savings", 19, "member has not missed enough cycles for eviction")
	ErrSavingNotEnded      = errors.Register("savings", 20, "saving phase end time not reached")
	ErrYieldNotEnded       = errors.Register("savings", 21, "yield phase end time not reached")
	ErrUnauthorizedDraw    = errors.Register("savings", 22, "caller is not the randomness provider")
	ErrDrawAlreadyFilled   = errors.Register("savings", 23, "draw already fulfilled for this pool")
	ErrNothingToClaim      = errors.Register("savings", 24, "nothing to claim")

	// Economic engine domain errors
	ErrZeroCapacity     = errors.Register("savings", 30, "capacity must be positive")
	ErrZeroCycles       = errors.Register("savings", 31, "cycle count must be positive")
	ErrOverpaid         = errors.Register("savings", 32, "payments already exceed per-member target")
	ErrNoEligible       = errors.Register("savings", 33, "no eligible members for draw")
	ErrTooManyWinners   = errors.Register("savings", 34, "winner count exceeds eligible members")
	ErrUnsupportedMode  = errors.Register("savings", 35, "distribution mode not yet supported")
	ErrFundsNotReturned = errors.Register("savings", 36, "custody funds not yet returned")
)
