package keeper

import (
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/susulabs/susu-chain/x/savings/types"
)

// CreatePool validates a configuration and creates a new pool in the
// enrollment phase.
func (k *Keeper) CreatePool(ctx sdk.Context, creator string, config types.PoolConfig) (*types.Pool, error) {
	if config.PoolID == "" {
		config.PoolID = types.GeneratePoolID()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if k.GetPool(ctx, config.PoolID) != nil {
		return nil, types.ErrInvalidConfig.Wrapf("pool %s already exists", config.PoolID)
	}

	pool := types.NewPool(config, creator, ctx.BlockTime().Unix())
	k.SetPool(ctx, pool)
	k.deadlines.add(pool.SavingEnd, pool.Config.PoolID)
	k.deadlines.add(pool.YieldEnd, pool.Config.PoolID)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"savings_pool_created",
			sdk.NewAttribute("pool_id", config.PoolID),
			sdk.NewAttribute("creator", creator),
			sdk.NewAttribute("target", config.TargetAmount.String()),
			sdk.NewAttribute("capacity", strconv.FormatInt(config.Capacity, 10)),
			sdk.NewAttribute("cycles", strconv.FormatInt(config.TotalCycles, 10)),
		),
	)

	k.logger.Info("Pool created",
		"pool_id", config.PoolID,
		"creator", creator,
		"capacity", config.Capacity,
		"cycles", config.TotalCycles,
		"saving_end", pool.SavingEnd,
	)

	return pool, nil
}

// advancePhase applies the time-lapse transitions that happen without an
// explicit trigger. Called at the top of every mutating operation; phase
// and cycle are functions of block time, never of a background timer.
func (k *Keeper) advancePhase(ctx sdk.Context, pool *types.Pool) {
	if pool.Phase == types.PhaseEnrollment && !pool.EnrollmentOpen(ctx.BlockTime().Unix()) {
		k.setPhase(ctx, pool, types.PhaseSaving)
	}
}

// setPhase moves a pool to a new phase and emits the transition. Phases
// only move forward; callers guard the direction.
func (k *Keeper) setPhase(ctx sdk.Context, pool *types.Pool, phase string) {
	from := pool.Phase
	pool.Phase = phase

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"savings_phase_changed",
			sdk.NewAttribute("pool_id", pool.Config.PoolID),
			sdk.NewAttribute("from", from),
			sdk.NewAttribute("to", phase),
		),
	)

	k.logger.Info("Pool phase changed",
		"pool_id", pool.Config.PoolID,
		"from", from,
		"to", phase,
	)
}

// cancelPool diverts a pool to the cancelled terminal phase, queueing
// every remaining member's contributions into their claimable balance.
func (k *Keeper) cancelPool(ctx sdk.Context, pool *types.Pool, reason string) {
	for _, addr := range pool.MemberOrder {
		m := pool.Members[addr]
		if m == nil || m.Removed || m.Claimed {
			continue
		}
		if m.TotalPaid.IsPositive() {
			pool.AddClaimable(addr, m.TotalPaid)
		}
	}
	pool.CancelReason = reason
	k.setPhase(ctx, pool, types.PhaseCancelled)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"savings_pool_cancelled",
			sdk.NewAttribute("pool_id", pool.Config.PoolID),
			sdk.NewAttribute("reason", reason),
		),
	)

	k.logger.Info("Pool cancelled", "pool_id", pool.Config.PoolID, "reason", reason)
}

// OnFundsReturned is the vault's callback when a pool's principal and
// yield come back from the yield source. If the draw seed has already
// been delivered the pool settles immediately; otherwise the amounts are
// recorded and settlement happens when the seed arrives.
func (k *Keeper) OnFundsReturned(ctx sdk.Context, poolID string, principal, yield math.Int) error {
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return types.ErrPoolNotFound
	}

	pool.FundsReturned = true
	pool.ReturnedPrincipal = principal
	pool.ReturnedYield = yield
	pool.Balance = pool.Balance.Add(principal).Add(yield)

	k.logger.Info("Custody funds returned",
		"pool_id", poolID,
		"principal", principal.String(),
		"yield", yield.String(),
	)

	if pool.Phase == types.PhaseDrawing && pool.SeedReceived {
		if err := k.settle(ctx, pool); err != nil {
			return err
		}
	}

	k.SetPool(ctx, pool)
	return nil
}
