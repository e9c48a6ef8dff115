package keeper

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/susulabs/susu-chain/x/savings/types"
)

// EmergencyWithdraw exits a member from the pool with an immediate refund
// of everything they contributed. Valid only before funds are routed to
// the yield source.
func (k *Keeper) EmergencyWithdraw(ctx sdk.Context, member, poolID string) (math.Int, error) {
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return math.ZeroInt(), types.ErrPoolNotFound
	}

	k.advancePhase(ctx, pool)
	if pool.Phase != types.PhaseEnrollment && pool.Phase != types.PhaseSaving {
		k.SetPool(ctx, pool)
		return math.ZeroInt(), types.ErrWrongPhase.Wrapf("pool is in %s", pool.Phase)
	}

	m, ok := pool.Members[member]
	if !ok {
		return math.ZeroInt(), types.ErrNotMember
	}
	if m.Removed {
		return math.ZeroInt(), types.ErrMemberRemoved
	}

	refund := m.TotalPaid
	addr, err := sdk.AccAddressFromBech32(member)
	if err != nil {
		return math.ZeroInt(), err
	}
	if refund.IsPositive() {
		coins := sdk.NewCoins(sdk.NewCoin(pool.Config.DepositDenom, refund))
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, addr, coins); err != nil {
			return math.ZeroInt(), err
		}
		pool.Balance = pool.Balance.Sub(refund)
	}

	m.Removed = true
	m.Claimed = true
	pool.ActiveMembers--
	pool.WinnerCount = types.AdjustedWinnerCount(pool.WinnerCount, pool.ActiveMembers)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"savings_member_removed",
			sdk.NewAttribute("pool_id", poolID),
			sdk.NewAttribute("member", member),
			sdk.NewAttribute("refund", refund.String()),
		),
	)

	k.logger.Info("Emergency withdrawal",
		"pool_id", poolID,
		"member", member,
		"refund", refund.String(),
	)

	if pool.ActiveMembers <= 1 && !pool.IsTerminal() {
		k.cancelPool(ctx, pool, "too few active members after emergency withdrawal")
	}
	k.SetPool(ctx, pool)

	return refund, nil
}
