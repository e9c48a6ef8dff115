package keeper

import (
	"strconv"
	"strings"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/susulabs/susu-chain/x/savings/types"
)

// FulfillDraw delivers the random value for a drawing pool. Accepted
// exactly once per drawing episode, and only from the configured
// randomness provider. Settlement requires the custody funds to be back;
// if the yield source is still illiquid the seed is stored and the pool
// stays in drawing until a retry succeeds.
func (k *Keeper) FulfillDraw(ctx sdk.Context, provider, poolID string, randomValue uint64) (*types.Pool, error) {
	if provider != k.drawAuthority {
		return nil, types.ErrUnauthorizedDraw
	}

	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return nil, types.ErrPoolNotFound
	}
	if pool.Phase != types.PhaseDrawing {
		return nil, types.ErrWrongPhase.Wrapf("pool is in %s", pool.Phase)
	}
	if pool.SeedReceived {
		return nil, types.ErrDrawAlreadyFilled
	}

	pool.DrawSeed = randomValue
	pool.SeedReceived = true

	if pool.FundsReturned {
		if err := k.settle(ctx, pool); err != nil {
			return nil, err
		}
		k.SetPool(ctx, pool)
		return pool, nil
	}

	// Persist the seed before touching the vault; a delayed withdrawal
	// must not lose it.
	k.SetPool(ctx, pool)

	returned, err := k.vaultKeeper.WithdrawAndReturn(ctx, poolID)
	if err != nil {
		return nil, err
	}
	// On success the vault already called back into OnFundsReturned and
	// the pool settled there.
	pool = k.GetPool(ctx, poolID)
	if !returned {
		k.logger.Info("Draw pending on delayed custody withdrawal", "pool_id", poolID)
	}
	return pool, nil
}

// settle distributes the returned principal and yield and moves the pool
// to settled. Every eligible member gets their principal back; if the
// yield clears the minimum threshold, winners additionally split the
// winners' share after the protocol fee.
func (k *Keeper) settle(ctx sdk.Context, pool *types.Pool) error {
	if !pool.FundsReturned {
		return types.ErrFundsNotReturned
	}

	yield := pool.ReturnedYield
	winnerCount := types.AdjustedWinnerCount(pool.WinnerCount, pool.ActiveMembers)
	if yield.GTE(types.MinYieldForPrizes) && winnerCount == 0 {
		// Should have cancelled before reaching a draw; divert now,
		// before crediting principal (cancelPool does its own refund).
		k.cancelPool(ctx, pool, "no eligible winners at settlement")
		return nil
	}

	eligible := pool.EligibleMembers()
	for _, m := range eligible {
		pool.AddClaimable(m.Address, m.TotalPaid)
	}

	if yield.LT(types.MinYieldForPrizes) {
		// No-prize path: everyone settles at principal.
		k.setPhase(ctx, pool, types.PhaseSettled)
		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				"savings_winners_drawn",
				sdk.NewAttribute("pool_id", pool.Config.PoolID),
				sdk.NewAttribute("winners", ""),
				sdk.NewAttribute("prize", "0"),
				sdk.NewAttribute("yield", yield.String()),
			),
		)
		k.logger.Info("Pool settled without prizes", "pool_id", pool.Config.PoolID, "yield", yield.String())
		return nil
	}

	fee := types.ProtocolFee(yield)
	share := types.WinnersShare(yield)

	indices, err := types.SelectWinners(pool.DrawSeed, int64(len(eligible)), winnerCount)
	if err != nil {
		return err
	}

	prize := share.QuoRaw(winnerCount)
	remainder := share.Sub(prize.MulRaw(winnerCount))
	winners := make([]string, 0, len(indices))
	for _, idx := range indices {
		w := eligible[idx]
		pool.AddClaimable(w.Address, prize)
		winners = append(winners, w.Address)
	}
	pool.Winners = winners

	if pool.Config.Treasury != "" && fee.IsPositive() {
		treasury, err := sdk.AccAddressFromBech32(pool.Config.Treasury)
		if err != nil {
			return err
		}
		coins := sdk.NewCoins(sdk.NewCoin(pool.Config.DepositDenom, fee))
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, treasury, coins); err != nil {
			return err
		}
		pool.Balance = pool.Balance.Sub(fee)
	}

	k.setPhase(ctx, pool, types.PhaseSettled)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"savings_winners_drawn",
			sdk.NewAttribute("pool_id", pool.Config.PoolID),
			sdk.NewAttribute("winners", strings.Join(winners, ",")),
			sdk.NewAttribute("prize", prize.String()),
			sdk.NewAttribute("remainder", remainder.String()),
			sdk.NewAttribute("fee", fee.String()),
		),
	)

	k.logger.Info("Winners drawn",
		"pool_id", pool.Config.PoolID,
		"winner_count", strconv.FormatInt(winnerCount, 10),
		"prize", prize.String(),
		"fee", fee.String(),
	)

	return nil
}
