package keeper

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/susulabs/susu-chain/x/vault/types"
)

// DepositAndSupply routes a pool's principal into the yield source,
// converting it through a single-hop swap first when the pool saves in a
// different asset. One active deposit per pool.
func (k *Keeper) DepositAndSupply(ctx sdk.Context, poolID, assetIn string, amount math.Int) error {
	if k.registry == nil || !k.registry.IsRegisteredPool(ctx, poolID) {
		return types.ErrUnknownPool
	}
	if !amount.IsPositive() {
		return types.ErrZeroAmount
	}
	if rec := k.GetDepositRecord(ctx, poolID); rec != nil && rec.Active {
		return types.ErrActiveDepositExists
	}

	coins := sdk.NewCoins(sdk.NewCoin(assetIn, amount))
	if err := k.bankKeeper.SendCoinsFromModuleToModule(ctx, k.fundingModule, types.ModuleName, coins); err != nil {
		return err
	}

	supplied := amount
	if assetIn != k.yieldDenom {
		out, err := k.swap.SwapExactIn(ctx, assetIn, k.yieldDenom, amount, types.MinSwapOut(amount))
		if err != nil {
			return err
		}
		if out.LT(types.MinSwapOut(amount)) {
			return types.ErrSlippageExceeded
		}
		supplied = out
	}

	if err := k.source.Supply(ctx, k.yieldDenom, supplied); err != nil {
		return types.ErrYieldSourceRejected.Wrap(err.Error())
	}

	rec := types.NewDepositRecord(poolID, assetIn, supplied, ctx.BlockTime().Unix())
	k.SetDepositRecord(ctx, rec)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"vault_supplied",
			sdk.NewAttribute("pool_id", poolID),
			sdk.NewAttribute("asset_in", assetIn),
			sdk.NewAttribute("amount", amount.String()),
			sdk.NewAttribute("principal", supplied.String()),
		),
	)

	k.logger.Info("Principal supplied",
		"pool_id", poolID,
		"asset_in", assetIn,
		"amount", amount.String(),
		"principal", supplied.String(),
	)

	return nil
}

// WithdrawAndReturn attempts a full withdrawal for a pool. A temporarily
// illiquid yield source is a valid, non-fatal outcome: the record is
// flagged delayed, the result is false, and no surrounding state is
// touched.
func (k *Keeper) WithdrawAndReturn(ctx sdk.Context, poolID string) (bool, error) {
	if k.registry == nil || !k.registry.IsRegisteredPool(ctx, poolID) {
		return false, types.ErrUnknownPool
	}
	rec := k.GetDepositRecord(ctx, poolID)
	if rec == nil || !rec.Active {
		return false, types.ErrNoActiveDeposit
	}
	return k.attemptReturn(ctx, rec)
}

// RetryWithdrawal repeats a previously delayed withdrawal. Callable by
// anyone, safely, any number of times: on failure the record is left
// exactly as it was.
func (k *Keeper) RetryWithdrawal(ctx sdk.Context, poolID string) (bool, error) {
	rec := k.GetDepositRecord(ctx, poolID)
	if rec == nil || !rec.Active {
		return false, types.ErrNoActiveDeposit
	}
	if !rec.Delayed {
		return false, types.ErrNotDelayed
	}
	return k.attemptReturn(ctx, rec)
}

// attemptReturn performs one withdrawal attempt and, on success, sends
// principal plus yield back to the pool module and notifies the pool.
// Conversion losses and withdrawal shortfalls come out of yield first.
func (k *Keeper) attemptReturn(ctx sdk.Context, rec *types.DepositRecord) (bool, error) {
	withdrawn, ok := k.source.Withdraw(ctx, k.yieldDenom, rec.Principal)
	if !ok {
		rec.Delayed = true
		k.SetDepositRecord(ctx, rec)

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				"vault_liquidity_delayed",
				sdk.NewAttribute("pool_id", rec.PoolID),
				sdk.NewAttribute("principal", rec.Principal.String()),
			),
		)
		k.logger.Info("Yield source illiquid, withdrawal delayed", "pool_id", rec.PoolID)
		return false, nil
	}

	total := withdrawn
	if rec.AssetIn != k.yieldDenom {
		out, err := k.swap.SwapExactIn(ctx, k.yieldDenom, rec.AssetIn, withdrawn, types.MinSwapOut(withdrawn))
		if err != nil {
			return false, err
		}
		total = out
	}

	principal := math.MinInt(total, rec.Principal)
	yield := total.Sub(principal)

	rec.Active = false
	rec.Delayed = false
	k.SetDepositRecord(ctx, rec)

	coins := sdk.NewCoins(sdk.NewCoin(rec.AssetIn, total))
	if err := k.bankKeeper.SendCoinsFromModuleToModule(ctx, types.ModuleName, k.fundingModule, coins); err != nil {
		return false, err
	}
	if err := k.receiver.OnFundsReturned(ctx, rec.PoolID, principal, yield); err != nil {
		return false, err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"vault_returned",
			sdk.NewAttribute("pool_id", rec.PoolID),
			sdk.NewAttribute("principal", principal.String()),
			sdk.NewAttribute("yield", yield.String()),
		),
	)

	k.logger.Info("Principal and yield returned",
		"pool_id", rec.PoolID,
		"principal", principal.String(),
		"yield", yield.String(),
	)

	return true, nil
}
