package keeper

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/susulabs/susu-chain/x/savings/types"
)

// Claim pays out and zeroes the member's claimable balance. Valid only
// once the pool has reached a terminal phase.
func (k *Keeper) Claim(ctx sdk.Context, member, poolID string) (math.Int, error) {
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return math.ZeroInt(), types.ErrPoolNotFound
	}
	if !pool.IsTerminal() {
		return math.ZeroInt(), types.ErrWrongPhase.Wrapf("pool is in %s", pool.Phase)
	}

	m, ok := pool.Members[member]
	if !ok {
		return math.ZeroInt(), types.ErrNotMember
	}

	amount := pool.ClaimableOf(member)
	if !amount.IsPositive() {
		return math.ZeroInt(), types.ErrNothingToClaim
	}

	addr, err := sdk.AccAddressFromBech32(member)
	if err != nil {
		return math.ZeroInt(), err
	}
	coins := sdk.NewCoins(sdk.NewCoin(pool.Config.DepositDenom, amount))
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, addr, coins); err != nil {
		return math.ZeroInt(), err
	}

	delete(pool.Claimable, member)
	m.Claimed = true
	pool.Balance = pool.Balance.Sub(amount)
	k.SetPool(ctx, pool)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"savings_claimed",
			sdk.NewAttribute("pool_id", poolID),
			sdk.NewAttribute("member", member),
			sdk.NewAttribute("amount", amount.String()),
		),
	)

	k.logger.Info("Claim paid", "pool_id", poolID, "member", member, "amount", amount.String())

	return amount, nil
}
