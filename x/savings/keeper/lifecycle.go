package keeper

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/google/uuid"

	"github.com/susulabs/susu-chain/x/savings/types"
)

// EndSavingsPhase closes the contribution period once the saving-end
// timestamp has passed. A pool that failed to fill cancels with refunds;
// a filled pool moves to yielding and its entire balance is routed to
// the custody vault.
func (k *Keeper) EndSavingsPhase(ctx sdk.Context, poolID string) (*types.Pool, error) {
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return nil, types.ErrPoolNotFound
	}

	k.advancePhase(ctx, pool)
	if pool.Phase != types.PhaseSaving {
		k.SetPool(ctx, pool)
		return nil, types.ErrWrongPhase.Wrapf("pool is in %s", pool.Phase)
	}
	if ctx.BlockTime().Unix() < pool.SavingEnd {
		k.SetPool(ctx, pool)
		return nil, types.ErrSavingNotEnded
	}

	if !types.MeetsMinFillThreshold(pool.ActiveMembers, pool.Config.Capacity) {
		k.cancelPool(ctx, pool, "fill threshold not met")
		k.SetPool(ctx, pool)
		return pool, nil
	}

	k.setPhase(ctx, pool, types.PhaseYielding)

	routed := pool.Balance
	if routed.IsPositive() {
		if err := k.vaultKeeper.DepositAndSupply(ctx, poolID, pool.Config.DepositDenom, routed); err != nil {
			return nil, err
		}
		pool.Balance = math.ZeroInt()
	}
	k.SetPool(ctx, pool)

	k.logger.Info("Savings phase ended",
		"pool_id", poolID,
		"active_members", pool.ActiveMembers,
		"phase", pool.Phase,
	)

	return pool, nil
}

// EndYieldPhase closes the yield window and moves the pool to drawing.
// The randomness request is fire-and-forget: a failed request leaves the
// pool in drawing so the callback can still be delivered directly.
func (k *Keeper) EndYieldPhase(ctx sdk.Context, poolID string) (*types.Pool, error) {
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return nil, types.ErrPoolNotFound
	}
	if pool.Phase != types.PhaseYielding {
		return nil, types.ErrWrongPhase.Wrapf("pool is in %s", pool.Phase)
	}
	if ctx.BlockTime().Unix() < pool.YieldEnd {
		return nil, types.ErrYieldNotEnded
	}

	k.setPhase(ctx, pool, types.PhaseDrawing)
	pool.RandomnessRequestID = uuid.NewString()
	k.SetPool(ctx, pool)

	if err := k.randomness.RequestDraw(ctx, poolID, pool.RandomnessRequestID); err != nil {
		// Drawing was entered first; the provider (or anyone acting for
		// it) can still deliver the callback.
		k.logger.Error("Randomness request failed",
			"pool_id", poolID,
			"request_id", pool.RandomnessRequestID,
			"err", err,
		)
	}

	k.logger.Info("Yield phase ended",
		"pool_id", poolID,
		"request_id", pool.RandomnessRequestID,
	)

	return pool, nil
}
