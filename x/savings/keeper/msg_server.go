package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/susulabs/susu-chain/x/savings/types"
)

// MsgServer defines the savings MsgServer
type MsgServer struct {
	keeper *Keeper
}

// NewMsgServerImpl creates a new MsgServer instance
func NewMsgServerImpl(keeper *Keeper) *MsgServer {
	return &MsgServer{keeper: keeper}
}

// CreatePool handles MsgCreatePool
func (m *MsgServer) CreatePool(ctx context.Context, msg *types.MsgCreatePool) (*types.MsgCreatePoolResponse, error) {
	target, ok := math.NewIntFromString(msg.TargetAmount)
	if !ok {
		return nil, types.ErrInvalidConfig.Wrapf("invalid target amount %q", msg.TargetAmount)
	}

	config := types.PoolConfig{
		DepositDenom:     msg.DepositDenom,
		TargetAmount:     target,
		Capacity:         msg.Capacity,
		TotalCycles:      msg.TotalCycles,
		WinnerCount:      msg.WinnerCount,
		CycleDuration:    msg.CycleDuration,
		RequireIdentity:  msg.RequireIdentity,
		EnrollmentWindow: msg.EnrollmentWindow,
		DistributionMode: msg.DistributionMode,
		Treasury:         msg.Treasury,
	}

	pool, err := m.keeper.CreatePool(sdk.UnwrapSDKContext(ctx), msg.Creator, config)
	if err != nil {
		return nil, err
	}

	return &types.MsgCreatePoolResponse{
		PoolID:    pool.Config.PoolID,
		SavingEnd: pool.SavingEnd,
		YieldEnd:  pool.YieldEnd,
	}, nil
}

// JoinPool handles MsgJoinPool
func (m *MsgServer) JoinPool(ctx context.Context, msg *types.MsgJoinPool) (*types.MsgJoinPoolResponse, error) {
	member, err := m.keeper.JoinPool(sdk.UnwrapSDKContext(ctx), msg.Member, msg.PoolID)
	if err != nil {
		return nil, err
	}
	return &types.MsgJoinPoolResponse{
		JoinCycle: member.JoinCycle,
		Rate:      member.Rate.String(),
	}, nil
}

// Deposit handles MsgDeposit
func (m *MsgServer) Deposit(ctx context.Context, msg *types.MsgDeposit) (*types.MsgDepositResponse, error) {
	amount, ok := math.NewIntFromString(msg.Amount)
	if !ok {
		return nil, types.ErrWrongDepositAmount.Wrapf("invalid amount %q", msg.Amount)
	}
	member, err := m.keeper.Deposit(sdk.UnwrapSDKContext(ctx), msg.Member, msg.PoolID, amount)
	if err != nil {
		return nil, err
	}
	return &types.MsgDepositResponse{
		CyclePaid:  member.LastPaidCycle,
		TotalPaid:  member.TotalPaid.String(),
		CyclesPaid: member.CyclesPaid,
	}, nil
}

// BatchDeposit handles MsgBatchDeposit
func (m *MsgServer) BatchDeposit(ctx context.Context, msg *types.MsgBatchDeposit) (*types.MsgBatchDepositResponse, error) {
	amount, ok := math.NewIntFromString(msg.Amount)
	if !ok {
		return nil, types.ErrWrongDepositAmount.Wrapf("invalid amount %q", msg.Amount)
	}
	member, err := m.keeper.BatchDeposit(sdk.UnwrapSDKContext(ctx), msg.Member, msg.PoolID, amount)
	if err != nil {
		return nil, err
	}
	return &types.MsgBatchDepositResponse{
		CyclesPaid: member.CyclesPaid,
		TotalPaid:  member.TotalPaid.String(),
	}, nil
}

// EmergencyWithdraw handles MsgEmergencyWithdraw
func (m *MsgServer) EmergencyWithdraw(ctx context.Context, msg *types.MsgEmergencyWithdraw) (*types.MsgEmergencyWithdrawResponse, error) {
	refund, err := m.keeper.EmergencyWithdraw(sdk.UnwrapSDKContext(ctx), msg.Member, msg.PoolID)
	if err != nil {
		return nil, err
	}
	return &types.MsgEmergencyWithdrawResponse{Refunded: refund.String()}, nil
}

// EndSavingsPhase handles MsgEndSavingsPhase
func (m *MsgServer) EndSavingsPhase(ctx context.Context, msg *types.MsgEndSavingsPhase) (*types.MsgEndSavingsPhaseResponse, error) {
	pool, err := m.keeper.EndSavingsPhase(sdk.UnwrapSDKContext(ctx), msg.PoolID)
	if err != nil {
		return nil, err
	}
	return &types.MsgEndSavingsPhaseResponse{Phase: pool.Phase}, nil
}

// EndYieldPhase handles MsgEndYieldPhase
func (m *MsgServer) EndYieldPhase(ctx context.Context, msg *types.MsgEndYieldPhase) (*types.MsgEndYieldPhaseResponse, error) {
	pool, err := m.keeper.EndYieldPhase(sdk.UnwrapSDKContext(ctx), msg.PoolID)
	if err != nil {
		return nil, err
	}
	return &types.MsgEndYieldPhaseResponse{Phase: pool.Phase}, nil
}

// FulfillDraw handles MsgFulfillDraw
func (m *MsgServer) FulfillDraw(ctx context.Context, msg *types.MsgFulfillDraw) (*types.MsgFulfillDrawResponse, error) {
	pool, err := m.keeper.FulfillDraw(sdk.UnwrapSDKContext(ctx), msg.Provider, msg.PoolID, msg.RandomValue)
	if err != nil {
		return nil, err
	}
	return &types.MsgFulfillDrawResponse{
		Phase:   pool.Phase,
		Winners: pool.Winners,
	}, nil
}

// Claim handles MsgClaim
func (m *MsgServer) Claim(ctx context.Context, msg *types.MsgClaim) (*types.MsgClaimResponse, error) {
	amount, err := m.keeper.Claim(sdk.UnwrapSDKContext(ctx), msg.Member, msg.PoolID)
	if err != nil {
		return nil, err
	}
	return &types.MsgClaimResponse{Amount: amount.String()}, nil
}

// CheckAndEvict handles MsgCheckAndEvict
func (m *MsgServer) CheckAndEvict(ctx context.Context, msg *types.MsgCheckAndEvict) (*types.MsgCheckAndEvictResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	evicted, err := m.keeper.CheckAndEvict(sdkCtx, msg.PoolID, msg.Member)
	if err != nil {
		return nil, err
	}
	resp := &types.MsgCheckAndEvictResponse{Evicted: evicted}
	if evicted {
		if pool := m.keeper.GetPool(sdkCtx, msg.PoolID); pool != nil {
			resp.Refunded = pool.ClaimableOf(msg.Member).String()
		}
	}
	return resp, nil
}
