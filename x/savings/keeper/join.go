package keeper

import (
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/susulabs/susu-chain/x/savings/types"
)

// JoinPool enrolls an address into a pool and immediately collects the
// first cycle's payment at the computed rate. Identity is checked only
// here; later revocation does not affect existing members.
func (k *Keeper) JoinPool(ctx sdk.Context, member, poolID string) (*types.Member, error) {
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return nil, types.ErrPoolNotFound
	}

	k.advancePhase(ctx, pool)
	if pool.Phase != types.PhaseEnrollment {
		k.SetPool(ctx, pool)
		return nil, types.ErrWrongPhase.Wrapf("pool is in %s", pool.Phase)
	}

	if _, exists := pool.Members[member]; exists {
		return nil, types.ErrAlreadyMember
	}
	if pool.ActiveMembers >= pool.Config.Capacity {
		return nil, types.ErrPoolFull
	}

	if pool.Config.RequireIdentity {
		if k.identity.IsBlacklisted(ctx, member) {
			return nil, types.ErrBlacklisted
		}
		if !k.identity.IsVerified(ctx, member) {
			return nil, types.ErrIdentityRequired
		}
	}

	now := ctx.BlockTime().Unix()
	cycle := pool.CurrentCycle(now)
	if !types.WithinEnrollmentWindow(cycle, pool.Config.TotalCycles, pool.Config.EnrollmentWindow) {
		return nil, types.ErrEnrollmentClosed
	}

	remaining := types.RemainingCycles(cycle, pool.Config.TotalCycles)
	if !types.AboveThreeCycleFloor(remaining) {
		return nil, types.ErrTooFewCyclesLeft
	}

	perMember, err := types.PerMemberTarget(pool.Config.TargetAmount, pool.Config.Capacity)
	if err != nil {
		return nil, err
	}
	baseRate, err := types.BaseRate(perMember, pool.Config.TotalCycles)
	if err != nil {
		return nil, err
	}
	rate, err := types.LateJoinerRate(perMember, remaining)
	if err != nil {
		return nil, err
	}
	if !types.WithinTwoXCap(rate, baseRate) {
		return nil, types.ErrRateCapExceeded
	}

	m := &types.Member{
		Address:   member,
		JoinCycle: cycle,
		Rate:      rate,
		TotalPaid: math.ZeroInt(),
	}

	pool.Members[member] = m
	pool.MemberOrder = append(pool.MemberOrder, member)
	pool.ActiveMembers++

	// First cycle payment is collected through the same deposit protocol
	// as every later cycle.
	if err := k.collectPayment(ctx, pool, m, cycle); err != nil {
		return nil, err
	}

	k.SetPool(ctx, pool)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"savings_member_joined",
			sdk.NewAttribute("pool_id", poolID),
			sdk.NewAttribute("member", member),
			sdk.NewAttribute("join_cycle", strconv.FormatInt(cycle, 10)),
			sdk.NewAttribute("rate", rate.String()),
		),
	)

	k.logger.Info("Member joined",
		"pool_id", poolID,
		"member", member,
		"join_cycle", cycle,
		"rate", rate.String(),
	)

	return m, nil
}
