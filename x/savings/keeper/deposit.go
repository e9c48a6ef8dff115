package keeper

import (
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/susulabs/susu-chain/x/savings/types"
)

// collectPayment pulls one cycle's expected contribution from the member
// and records it. The expected amount absorbs rounding dust on the
// member's final cycle.
func (k *Keeper) collectPayment(ctx sdk.Context, pool *types.Pool, m *types.Member, cycle int64) error {
	expected, err := pool.ExpectedDeposit(m)
	if err != nil {
		return err
	}

	addr, err := sdk.AccAddressFromBech32(m.Address)
	if err != nil {
		return err
	}
	coins := sdk.NewCoins(sdk.NewCoin(pool.Config.DepositDenom, expected))
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, addr, types.ModuleName, coins); err != nil {
		return err
	}

	m.CyclesPaid++
	m.TotalPaid = m.TotalPaid.Add(expected)
	m.LastPaidCycle = cycle
	pool.Balance = pool.Balance.Add(expected)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"savings_deposit",
			sdk.NewAttribute("pool_id", pool.Config.PoolID),
			sdk.NewAttribute("member", m.Address),
			sdk.NewAttribute("cycle", strconv.FormatInt(cycle, 10)),
			sdk.NewAttribute("amount", expected.String()),
		),
	)
	return nil
}

// Deposit pays the member's current cycle contribution. The amount must
// match the expected amount for the cycle exactly.
func (k *Keeper) Deposit(ctx sdk.Context, member, poolID string, amount math.Int) (*types.Member, error) {
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return nil, types.ErrPoolNotFound
	}

	k.advancePhase(ctx, pool)
	if pool.Phase != types.PhaseEnrollment && pool.Phase != types.PhaseSaving {
		k.SetPool(ctx, pool)
		return nil, types.ErrWrongPhase.Wrapf("pool is in %s", pool.Phase)
	}

	m, ok := pool.Members[member]
	if !ok {
		return nil, types.ErrNotMember
	}
	if m.Removed {
		return nil, types.ErrMemberRemoved
	}

	// Eviction is always evaluated before a deposit is accepted.
	if k.evictIfDelinquent(ctx, pool, m) {
		k.SetPool(ctx, pool)
		return nil, types.ErrMemberRemoved.Wrap("missed two or more consecutive cycles")
	}

	now := ctx.BlockTime().Unix()
	cycle := pool.CurrentCycle(now)
	if !pool.InCycleWindow(now) {
		return nil, types.ErrCycleWindowClosed
	}
	if cycle <= m.LastPaidCycle {
		return nil, types.ErrCycleAlreadyPaid
	}
	if cycle > m.LastPaidCycle+1 {
		return nil, types.ErrMissedCycles
	}

	expected, err := pool.ExpectedDeposit(m)
	if err != nil {
		return nil, err
	}
	if !amount.Equal(expected) {
		return nil, types.ErrWrongDepositAmount.Wrapf("expected %s, got %s", expected.String(), amount.String())
	}

	if err := k.collectPayment(ctx, pool, m, cycle); err != nil {
		return nil, err
	}
	k.SetPool(ctx, pool)

	k.logger.Info("Deposit accepted",
		"pool_id", poolID,
		"member", member,
		"cycle", cycle,
		"amount", expected.String(),
	)

	return m, nil
}

// BatchDeposit clears exactly one missed cycle together with the current
// one. A gap of two or more is not recoverable; eviction fires first.
func (k *Keeper) BatchDeposit(ctx sdk.Context, member, poolID string, amount math.Int) (*types.Member, error) {
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return nil, types.ErrPoolNotFound
	}

	k.advancePhase(ctx, pool)
	if pool.Phase != types.PhaseEnrollment && pool.Phase != types.PhaseSaving {
		k.SetPool(ctx, pool)
		return nil, types.ErrWrongPhase.Wrapf("pool is in %s", pool.Phase)
	}

	m, ok := pool.Members[member]
	if !ok {
		return nil, types.ErrNotMember
	}
	if m.Removed {
		return nil, types.ErrMemberRemoved
	}

	if k.evictIfDelinquent(ctx, pool, m) {
		k.SetPool(ctx, pool)
		return nil, types.ErrMemberRemoved.Wrap("missed two or more consecutive cycles")
	}

	now := ctx.BlockTime().Unix()
	cycle := pool.CurrentCycle(now)
	if !pool.InCycleWindow(now) {
		return nil, types.ErrCycleWindowClosed
	}
	// Eligible only with a gap of exactly one: the missed cycle plus the
	// current one.
	if cycle != m.LastPaidCycle+2 {
		return nil, types.ErrBatchNotEligible
	}

	first, err := pool.ExpectedDeposit(m)
	if err != nil {
		return nil, err
	}
	probe := *m
	probe.CyclesPaid++
	second, err := pool.ExpectedDeposit(&probe)
	if err != nil {
		return nil, err
	}
	total := first.Add(second)
	if !amount.Equal(total) {
		return nil, types.ErrWrongDepositAmount.Wrapf("expected %s, got %s", total.String(), amount.String())
	}

	// Missed cycle first, then the current one: two separate recorded
	// payments.
	if err := k.collectPayment(ctx, pool, m, cycle-1); err != nil {
		return nil, err
	}
	if err := k.collectPayment(ctx, pool, m, cycle); err != nil {
		return nil, err
	}
	k.SetPool(ctx, pool)

	k.logger.Info("Batch deposit accepted",
		"pool_id", poolID,
		"member", member,
		"cycles", strconv.FormatInt(cycle-1, 10)+","+strconv.FormatInt(cycle, 10),
		"amount", total.String(),
	)

	return m, nil
}
