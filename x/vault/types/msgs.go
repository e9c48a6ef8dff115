package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Message types
const (
	TypeMsgRetryWithdrawal = "retry_withdrawal"
)

// MsgRetryWithdrawal repeats a delayed yield-source withdrawal for a
// pool. Callable by anyone.
type MsgRetryWithdrawal struct {
	Caller string `json:"caller"`
	PoolID string `json:"pool_id"`
}

func (msg MsgRetryWithdrawal) Route() string { return ModuleName }
func (msg MsgRetryWithdrawal) Type() string  { return TypeMsgRetryWithdrawal }

func (msg MsgRetryWithdrawal) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Caller); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrNoActiveDeposit
	}
	return nil
}

func (msg MsgRetryWithdrawal) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Caller)
	return []sdk.AccAddress{addr}
}

func (*MsgRetryWithdrawal) ProtoMessage() {}
func (msg *MsgRetryWithdrawal) Reset()    { *msg = MsgRetryWithdrawal{} }
func (msg MsgRetryWithdrawal) String() string {
	return fmt.Sprintf("MsgRetryWithdrawal{PoolID: %s}", msg.PoolID)
}

// MsgRetryWithdrawalResponse is the RetryWithdrawal response
type MsgRetryWithdrawalResponse struct {
	Returned  bool   `json:"returned"`
	Principal string `json:"principal,omitempty"`
	Yield     string `json:"yield,omitempty"`
}
