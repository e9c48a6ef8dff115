package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/susulabs/susu-chain/x/savings/types"
)

// evictIfDelinquent removes a member who has missed two or more full
// consecutive cycles. The member's contributions move to their claimable
// balance; the winner count shrinks, and the pool cancels if at most one
// active member remains. Returns true if the member was evicted.
func (k *Keeper) evictIfDelinquent(ctx sdk.Context, pool *types.Pool, m *types.Member) bool {
	cycle := pool.CurrentCycle(ctx.BlockTime().Unix())
	if cycle <= m.LastPaidCycle+2 {
		return false
	}

	m.Removed = true
	pool.ActiveMembers--
	if m.TotalPaid.IsPositive() {
		pool.AddClaimable(m.Address, m.TotalPaid)
	}
	pool.WinnerCount = types.AdjustedWinnerCount(pool.WinnerCount, pool.ActiveMembers)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"savings_member_removed",
			sdk.NewAttribute("pool_id", pool.Config.PoolID),
			sdk.NewAttribute("member", m.Address),
			sdk.NewAttribute("refund", m.TotalPaid.String()),
		),
	)

	k.logger.Info("Member evicted",
		"pool_id", pool.Config.PoolID,
		"member", m.Address,
		"refund_queued", m.TotalPaid.String(),
	)

	if pool.ActiveMembers <= 1 {
		k.cancelPool(ctx, pool, "too few active members after eviction")
	}
	return true
}

// CheckAndEvict triggers the lazy eviction check for an arbitrary member
// without requiring a deposit. Callable by anyone.
func (k *Keeper) CheckAndEvict(ctx sdk.Context, poolID, member string) (bool, error) {
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return false, types.ErrPoolNotFound
	}

	k.advancePhase(ctx, pool)
	if pool.Phase != types.PhaseEnrollment && pool.Phase != types.PhaseSaving {
		k.SetPool(ctx, pool)
		return false, types.ErrWrongPhase.Wrapf("pool is in %s", pool.Phase)
	}

	m, ok := pool.Members[member]
	if !ok {
		return false, types.ErrNotMember
	}
	if m.Removed {
		return false, types.ErrMemberRemoved
	}

	if !k.evictIfDelinquent(ctx, pool, m) {
		return false, types.ErrMemberNotDelinquent
	}
	k.SetPool(ctx, pool)
	return true, nil
}
