package keeper

import (
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/susulabs/susu-chain/x/savings/types"
)

// EndBlocker sweeps pools whose phase clocks have lapsed and applies the
// same public transitions a caller could trigger. Lazy state derivation
// is unchanged; the sweep only saves callers the gas of doing it
// themselves.
func (k *Keeper) EndBlocker(ctx sdk.Context) error {
	start := time.Now()
	now := ctx.BlockTime().Unix()

	if k.deadlines.needsRebuild() {
		k.rebuildDeadlines(ctx)
	}

	advanced := 0
	for _, d := range k.deadlines.popDue(now) {
		pool := k.GetPool(ctx, d.PoolID)
		if pool == nil || pool.IsTerminal() {
			continue
		}
		switch pool.Phase {
		case types.PhaseEnrollment, types.PhaseSaving:
			if now >= pool.SavingEnd {
				if _, err := k.EndSavingsPhase(ctx, d.PoolID); err != nil {
					k.logger.Debug("Deferred saving-phase end", "pool_id", d.PoolID, "err", err)
					k.deadlines.add(pool.SavingEnd, d.PoolID)
					continue
				}
				// Idempotent re-add in case this pop consumed the
				// yield-end entry.
				k.deadlines.add(pool.YieldEnd, d.PoolID)
				advanced++
			}
		case types.PhaseYielding:
			if now >= pool.YieldEnd {
				if _, err := k.EndYieldPhase(ctx, d.PoolID); err != nil {
					k.logger.Debug("Deferred yield-phase end", "pool_id", d.PoolID, "err", err)
					k.deadlines.add(pool.YieldEnd, d.PoolID)
					continue
				}
				advanced++
			}
		}
	}

	if advanced > 0 {
		k.logger.Debug("Savings EndBlocker completed",
			"block", ctx.BlockHeight(),
			"pools_advanced", advanced,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
	return nil
}

// rebuildDeadlines repopulates the in-memory index from the store after a
// restart.
func (k *Keeper) rebuildDeadlines(ctx sdk.Context) {
	for _, pool := range k.GetAllPools(ctx) {
		if pool.IsTerminal() {
			continue
		}
		k.deadlines.add(pool.SavingEnd, pool.Config.PoolID)
		k.deadlines.add(pool.YieldEnd, pool.Config.PoolID)
	}
}
