package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/susulabs/susu-chain/x/vault/types"
)

// MsgServer defines the vault MsgServer
type MsgServer struct {
	keeper *Keeper
}

// NewMsgServerImpl creates a new MsgServer instance
func NewMsgServerImpl(keeper *Keeper) *MsgServer {
	return &MsgServer{keeper: keeper}
}

// RetryWithdrawal handles MsgRetryWithdrawal
func (m *MsgServer) RetryWithdrawal(ctx context.Context, msg *types.MsgRetryWithdrawal) (*types.MsgRetryWithdrawalResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	returned, err := m.keeper.RetryWithdrawal(sdkCtx, msg.PoolID)
	if err != nil {
		return nil, err
	}

	resp := &types.MsgRetryWithdrawalResponse{Returned: returned}
	if rec := m.keeper.GetDepositRecord(sdkCtx, msg.PoolID); rec != nil && returned {
		resp.Principal = rec.Principal.String()
	}
	return resp, nil
}
