package types

import (
	"cosmossdk.io/math"
)

// Protocol fee taken from harvested yield, in basis points.
const (
	ProtocolFeeBps = 500
	BpsDenominator = 10000
)

// MinActiveMembers is the absolute floor of non-removed members a pool
// needs to proceed past the saving phase.
const MinActiveMembers = 3

// PerMemberTarget returns the share of the pool target each member must
// reach. Integer division; the remainder is absorbed by FinalCycleAmount.
func PerMemberTarget(target math.Int, capacity int64) (math.Int, error) {
	if capacity <= 0 {
		return math.ZeroInt(), ErrZeroCapacity
	}
	return target.QuoRaw(capacity), nil
}

// BaseRate returns the per-cycle contribution for a member present from
// cycle one.
func BaseRate(perMemberTarget math.Int, totalCycles int64) (math.Int, error) {
	if totalCycles <= 0 {
		return math.ZeroInt(), ErrZeroCycles
	}
	return perMemberTarget.QuoRaw(totalCycles), nil
}

// LateJoinerRate returns the per-cycle contribution for a member joining
// with remainingCycles cycles left. The result never exceeds the
// per-member target for remainingCycles >= 1.
func LateJoinerRate(perMemberTarget math.Int, remainingCycles int64) (math.Int, error) {
	if remainingCycles <= 0 {
		return math.ZeroInt(), ErrZeroCycles
	}
	return perMemberTarget.QuoRaw(remainingCycles), nil
}

// FinalCycleAmount returns the last contribution a member owes. It is the
// per-member target minus everything paid at the assigned rate, which
// absorbs integer-division dust so the lifetime total is exact.
func FinalCycleAmount(perMemberTarget, ratePerCycle math.Int, cyclesPaid int64) (math.Int, error) {
	paid := ratePerCycle.MulRaw(cyclesPaid)
	if paid.GT(perMemberTarget) {
		return math.ZeroInt(), ErrOverpaid
	}
	return perMemberTarget.Sub(paid), nil
}

// WithinTwoXCap reports whether a late joiner rate is strictly below twice
// the base rate. A rate exactly equal to twice the base is rejected.
func WithinTwoXCap(lateRate, baseRate math.Int) bool {
	return lateRate.LT(baseRate.MulRaw(2))
}

// AboveThreeCycleFloor reports whether enough cycles remain for a joiner.
func AboveThreeCycleFloor(remainingCycles int64) bool {
	return remainingCycles >= 3
}

// WithinEnrollmentWindow reports whether the current cycle is inside the
// pool's enrollment window policy. Integer division: a 10-cycle STANDARD
// pool closes enrollment after cycle 5.
func WithinEnrollmentWindow(currentCycle, totalCycles int64, policy string) bool {
	switch policy {
	case EnrollmentWindowStandard:
		return currentCycle <= totalCycles/2
	case EnrollmentWindowStrict:
		return currentCycle <= totalCycles/4
	case EnrollmentWindowFixed:
		return currentCycle == 1
	default:
		return false
	}
}

// MeetsMinFillThreshold reports whether a pool has enough active members
// to proceed: at least three, and at least half of capacity.
func MeetsMinFillThreshold(activeMembers, capacity int64) bool {
	return activeMembers >= MinActiveMembers && 2*activeMembers >= capacity
}

// AdjustedWinnerCount clamps the configured winner count against the
// number of active members. Zero signals forced cancellation.
func AdjustedWinnerCount(configured, activeMembers int64) int64 {
	if activeMembers <= 1 {
		return 0
	}
	if configured >= activeMembers {
		return activeMembers - 1
	}
	return configured
}

// ProtocolFee returns the protocol's cut of harvested yield.
func ProtocolFee(yield math.Int) math.Int {
	return yield.MulRaw(ProtocolFeeBps).QuoRaw(BpsDenominator)
}

// WinnersShare returns the yield left for winners after the protocol fee.
// ProtocolFee + WinnersShare == yield for all inputs.
func WinnersShare(yield math.Int) math.Int {
	return yield.Sub(ProtocolFee(yield))
}

// CurrentCycle returns the 1-based cycle number at time now, or 0 before
// the pool started.
func CurrentCycle(startTime, now, cycleDuration int64) int64 {
	if now < startTime || cycleDuration <= 0 {
		return 0
	}
	return (now-startTime)/cycleDuration + 1
}

// RemainingCycles returns how many cycles remain including the current
// one, or 0 once the pool has run past its last cycle.
func RemainingCycles(current, total int64) int64 {
	if current > total {
		return 0
	}
	return total - current + 1
}
