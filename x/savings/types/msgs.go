package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Message types
const (
	TypeMsgCreatePool        = "create_pool"
	TypeMsgJoinPool          = "join_pool"
	TypeMsgDeposit           = "deposit"
	TypeMsgBatchDeposit      = "batch_deposit"
	TypeMsgEmergencyWithdraw = "emergency_withdraw"
	TypeMsgEndSavingsPhase   = "end_savings_phase"
	TypeMsgEndYieldPhase     = "end_yield_phase"
	TypeMsgFulfillDraw       = "fulfill_draw"
	TypeMsgClaim             = "claim"
	TypeMsgCheckAndEvict     = "check_and_evict"
)

// MsgCreatePool creates a new savings pool
type MsgCreatePool struct {
	Creator          string `json:"creator"`
	DepositDenom     string `json:"deposit_denom"`
	TargetAmount     string `json:"target_amount"`
	Capacity         int64  `json:"capacity"`
	TotalCycles      int64  `json:"total_cycles"`
	WinnerCount      int64  `json:"winner_count"`
	CycleDuration    int64  `json:"cycle_duration"`
	RequireIdentity  bool   `json:"require_identity"`
	EnrollmentWindow string `json:"enrollment_window"`
	DistributionMode string `json:"distribution_mode"`
	Treasury         string `json:"treasury,omitempty"`
}

func (msg MsgCreatePool) Route() string { return ModuleName }
func (msg MsgCreatePool) Type() string  { return TypeMsgCreatePool }

func (msg MsgCreatePool) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Creator); err != nil {
		return err
	}
	if msg.DepositDenom == "" {
		return ErrInvalidConfig.Wrap("deposit denom must be set")
	}
	return nil
}

func (msg MsgCreatePool) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Creator)
	return []sdk.AccAddress{addr}
}

func (*MsgCreatePool) ProtoMessage() {}
func (msg *MsgCreatePool) Reset()    { *msg = MsgCreatePool{} }
func (msg MsgCreatePool) String() string {
	return fmt.Sprintf("MsgCreatePool{Creator: %s, Target: %s, Capacity: %d}", msg.Creator, msg.TargetAmount, msg.Capacity)
}

// MsgCreatePoolResponse is the CreatePool response
type MsgCreatePoolResponse struct {
	PoolID    string `json:"pool_id"`
	SavingEnd int64  `json:"saving_end"`
	YieldEnd  int64  `json:"yield_end"`
}

// MsgJoinPool enrolls the sender into a pool. The first cycle's payment
// is collected immediately at the computed rate.
type MsgJoinPool struct {
	Member string `json:"member"`
	PoolID string `json:"pool_id"`
}

func (msg MsgJoinPool) Route() string { return ModuleName }
func (msg MsgJoinPool) Type() string  { return TypeMsgJoinPool }

func (msg MsgJoinPool) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Member); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrPoolNotFound
	}
	return nil
}

func (msg MsgJoinPool) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Member)
	return []sdk.AccAddress{addr}
}

func (*MsgJoinPool) ProtoMessage() {}
func (msg *MsgJoinPool) Reset()    { *msg = MsgJoinPool{} }
func (msg MsgJoinPool) String() string {
	return fmt.Sprintf("MsgJoinPool{Member: %s, PoolID: %s}", msg.Member, msg.PoolID)
}

// MsgJoinPoolResponse is the JoinPool response
type MsgJoinPoolResponse struct {
	JoinCycle int64  `json:"join_cycle"`
	Rate      string `json:"rate"`
}

// MsgDeposit pays the sender's current cycle contribution
type MsgDeposit struct {
	Member string `json:"member"`
	PoolID string `json:"pool_id"`
	Amount string `json:"amount"`
}

func (msg MsgDeposit) Route() string { return ModuleName }
func (msg MsgDeposit) Type() string  { return TypeMsgDeposit }

func (msg MsgDeposit) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Member); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrPoolNotFound
	}
	return nil
}

func (msg MsgDeposit) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Member)
	return []sdk.AccAddress{addr}
}

func (*MsgDeposit) ProtoMessage() {}
func (msg *MsgDeposit) Reset()    { *msg = MsgDeposit{} }
func (msg MsgDeposit) String() string {
	return fmt.Sprintf("MsgDeposit{Member: %s, PoolID: %s, Amount: %s}", msg.Member, msg.PoolID, msg.Amount)
}

// MsgDepositResponse is the Deposit response
type MsgDepositResponse struct {
	CyclePaid  int64  `json:"cycle_paid"`
	TotalPaid  string `json:"total_paid"`
	CyclesPaid int64  `json:"cycles_paid"`
}

// MsgBatchDeposit recovers exactly one missed cycle together with the
// current one
type MsgBatchDeposit struct {
	Member string `json:"member"`
	PoolID string `json:"pool_id"`
	Amount string `json:"amount"`
}

func (msg MsgBatchDeposit) Route() string { return ModuleName }
func (msg MsgBatchDeposit) Type() string  { return TypeMsgBatchDeposit }

func (msg MsgBatchDeposit) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Member); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrPoolNotFound
	}
	return nil
}

func (msg MsgBatchDeposit) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Member)
	return []sdk.AccAddress{addr}
}

func (*MsgBatchDeposit) ProtoMessage() {}
func (msg *MsgBatchDeposit) Reset()    { *msg = MsgBatchDeposit{} }
func (msg MsgBatchDeposit) String() string {
	return fmt.Sprintf("MsgBatchDeposit{Member: %s, PoolID: %s, Amount: %s}", msg.Member, msg.PoolID, msg.Amount)
}

// MsgBatchDepositResponse is the BatchDeposit response
type MsgBatchDepositResponse struct {
	CyclesPaid int64  `json:"cycles_paid"`
	TotalPaid  string `json:"total_paid"`
}

// MsgEmergencyWithdraw exits the pool with a full refund of contributions
type MsgEmergencyWithdraw struct {
	Member string `json:"member"`
	PoolID string `json:"pool_id"`
}

func (msg MsgEmergencyWithdraw) Route() string { return ModuleName }
func (msg MsgEmergencyWithdraw) Type() string  { return TypeMsgEmergencyWithdraw }

func (msg MsgEmergencyWithdraw) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Member); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrPoolNotFound
	}
	return nil
}

func (msg MsgEmergencyWithdraw) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Member)
	return []sdk.AccAddress{addr}
}

func (*MsgEmergencyWithdraw) ProtoMessage() {}
func (msg *MsgEmergencyWithdraw) Reset()    { *msg = MsgEmergencyWithdraw{} }
func (msg MsgEmergencyWithdraw) String() string {
	return fmt.Sprintf("MsgEmergencyWithdraw{Member: %s, PoolID: %s}", msg.Member, msg.PoolID)
}

// MsgEmergencyWithdrawResponse is the EmergencyWithdraw response
type MsgEmergencyWithdrawResponse struct {
	Refunded string `json:"refunded"`
}

// MsgEndSavingsPhase advances a pool past its saving phase
type MsgEndSavingsPhase struct {
	Caller string `json:"caller"`
	PoolID string `json:"pool_id"`
}

func (msg MsgEndSavingsPhase) Route() string { return ModuleName }
func (msg MsgEndSavingsPhase) Type() string  { return TypeMsgEndSavingsPhase }

func (msg MsgEndSavingsPhase) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Caller); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrPoolNotFound
	}
	return nil
}

func (msg MsgEndSavingsPhase) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Caller)
	return []sdk.AccAddress{addr}
}

func (*MsgEndSavingsPhase) ProtoMessage() {}
func (msg *MsgEndSavingsPhase) Reset()    { *msg = MsgEndSavingsPhase{} }
func (msg MsgEndSavingsPhase) String() string {
	return fmt.Sprintf("MsgEndSavingsPhase{PoolID: %s}", msg.PoolID)
}

// MsgEndSavingsPhaseResponse is the EndSavingsPhase response
type MsgEndSavingsPhaseResponse struct {
	Phase string `json:"phase"`
}

// MsgEndYieldPhase advances a pool past its yield phase
type MsgEndYieldPhase struct {
	Caller string `json:"caller"`
	PoolID string `json:"pool_id"`
}

func (msg MsgEndYieldPhase) Route() string { return ModuleName }
func (msg MsgEndYieldPhase) Type() string  { return TypeMsgEndYieldPhase }

func (msg MsgEndYieldPhase) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Caller); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrPoolNotFound
	}
	return nil
}

func (msg MsgEndYieldPhase) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Caller)
	return []sdk.AccAddress{addr}
}

func (*MsgEndYieldPhase) ProtoMessage() {}
func (msg *MsgEndYieldPhase) Reset()    { *msg = MsgEndYieldPhase{} }
func (msg MsgEndYieldPhase) String() string {
	return fmt.Sprintf("MsgEndYieldPhase{PoolID: %s}", msg.PoolID)
}

// MsgEndYieldPhaseResponse is the EndYieldPhase response
type MsgEndYieldPhaseResponse struct {
	Phase string `json:"phase"`
}

// MsgFulfillDraw delivers the random value for a drawing pool. Only the
// configured randomness provider may send it.
type MsgFulfillDraw struct {
	Provider    string `json:"provider"`
	PoolID      string `json:"pool_id"`
	RandomValue uint64 `json:"random_value"`
}

func (msg MsgFulfillDraw) Route() string { return ModuleName }
func (msg MsgFulfillDraw) Type() string  { return TypeMsgFulfillDraw }

func (msg MsgFulfillDraw) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Provider); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrPoolNotFound
	}
	return nil
}

func (msg MsgFulfillDraw) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Provider)
	return []sdk.AccAddress{addr}
}

func (*MsgFulfillDraw) ProtoMessage() {}
func (msg *MsgFulfillDraw) Reset()    { *msg = MsgFulfillDraw{} }
func (msg MsgFulfillDraw) String() string {
	return fmt.Sprintf("MsgFulfillDraw{PoolID: %s, RandomValue: %d}", msg.PoolID, msg.RandomValue)
}

// MsgFulfillDrawResponse is the FulfillDraw response
type MsgFulfillDrawResponse struct {
	Phase   string   `json:"phase"`
	Winners []string `json:"winners,omitempty"`
}

// MsgClaim pays out the sender's claimable balance
type MsgClaim struct {
	Member string `json:"member"`
	PoolID string `json:"pool_id"`
}

func (msg MsgClaim) Route() string { return ModuleName }
func (msg MsgClaim) Type() string  { return TypeMsgClaim }

func (msg MsgClaim) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Member); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrPoolNotFound
	}
	return nil
}

func (msg MsgClaim) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Member)
	return []sdk.AccAddress{addr}
}

func (*MsgClaim) ProtoMessage() {}
func (msg *MsgClaim) Reset()    { *msg = MsgClaim{} }
func (msg MsgClaim) String() string {
	return fmt.Sprintf("MsgClaim{Member: %s, PoolID: %s}", msg.Member, msg.PoolID)
}

// MsgClaimResponse is the Claim response
type MsgClaimResponse struct {
	Amount string `json:"amount"`
}

// MsgCheckAndEvict triggers the lazy eviction check for an arbitrary
// member
type MsgCheckAndEvict struct {
	Caller string `json:"caller"`
	PoolID string `json:"pool_id"`
	Member string `json:"member"`
}

func (msg MsgCheckAndEvict) Route() string { return ModuleName }
func (msg MsgCheckAndEvict) Type() string  { return TypeMsgCheckAndEvict }

func (msg MsgCheckAndEvict) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Caller); err != nil {
		return err
	}
	if _, err := sdk.AccAddressFromBech32(msg.Member); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrPoolNotFound
	}
	return nil
}

func (msg MsgCheckAndEvict) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Caller)
	return []sdk.AccAddress{addr}
}

func (*MsgCheckAndEvict) ProtoMessage() {}
func (msg *MsgCheckAndEvict) Reset()    { *msg = MsgCheckAndEvict{} }
func (msg MsgCheckAndEvict) String() string {
	return fmt.Sprintf("MsgCheckAndEvict{PoolID: %s, Member: %s}", msg.PoolID, msg.Member)
}

// MsgCheckAndEvictResponse is the CheckAndEvict response
type MsgCheckAndEvictResponse struct {
	Evicted  bool   `json:"evicted"`
	Refunded string `json:"refunded,omitempty"`
}
