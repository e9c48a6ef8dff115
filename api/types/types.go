package types

import (
	"context"
	"time"
)

// PoolSummary is the listing view of a savings pool
type PoolSummary struct {
	PoolID        string `json:"pool_id"`
	Phase         string `json:"phase"`
	DepositDenom  string `json:"deposit_denom"`
	TargetAmount  string `json:"target_amount"`
	Capacity      int64  `json:"capacity"`
	ActiveMembers int64  `json:"active_members"`
	TotalCycles   int64  `json:"total_cycles"`
	CurrentCycle  int64  `json:"current_cycle"`
	CycleDuration int64  `json:"cycle_duration"`
	CreatedAt     int64  `json:"created_at"`
}

// PoolDetail is the full view of a savings pool
type PoolDetail struct {
	PoolSummary
	Creator          string   `json:"creator"`
	WinnerCount      int64    `json:"winner_count"`
	EnrollmentWindow string   `json:"enrollment_window"`
	EnrollmentOpen   bool     `json:"enrollment_open"`
	RequireIdentity  bool     `json:"require_identity"`
	SavingEnd        int64    `json:"saving_end"`
	YieldEnd         int64    `json:"yield_end"`
	Balance          string   `json:"balance"`
	Winners          []string `json:"winners,omitempty"`
	CancelReason     string   `json:"cancel_reason,omitempty"`
}

// MemberStanding is a member's view inside one pool
type MemberStanding struct {
	Address       string `json:"address"`
	PoolID        string `json:"pool_id"`
	JoinCycle     int64  `json:"join_cycle"`
	Rate          string `json:"rate"`
	CyclesPaid    int64  `json:"cycles_paid"`
	TotalCycles   int64  `json:"total_cycles"`
	TotalPaid     string `json:"total_paid"`
	LastPaidCycle int64  `json:"last_paid_cycle"`
	Removed       bool   `json:"removed"`
	Claimed       bool   `json:"claimed"`
}

// ClaimableBalance is an address's pending payout in one pool
type ClaimableBalance struct {
	Address string `json:"address"`
	PoolID  string `json:"pool_id"`
	Amount  string `json:"amount"`
	Denom   string `json:"denom"`
}

// VaultRecord is the custody view of a pool's principal
type VaultRecord struct {
	PoolID     string `json:"pool_id"`
	AssetIn    string `json:"asset_in"`
	Principal  string `json:"principal"`
	Active     bool   `json:"active"`
	Delayed    bool   `json:"delayed"`
	SuppliedAt int64  `json:"supplied_at"`
}

// PoolService exposes savings pool state to the API layer
type PoolService interface {
	ListPools(ctx context.Context, phase string) ([]*PoolSummary, error)
	GetPool(ctx context.Context, poolID string) (*PoolDetail, error)
	GetMember(ctx context.Context, poolID, address string) (*MemberStanding, error)
	GetClaimable(ctx context.Context, poolID, address string) (*ClaimableBalance, error)
	ListMembers(ctx context.Context, poolID string) ([]*MemberStanding, error)
}

// VaultService exposes vault custody state to the API layer
type VaultService interface {
	GetDeposit(ctx context.Context, poolID string) (*VaultRecord, error)
	ListDelayed(ctx context.Context) ([]*VaultRecord, error)
}

// NowMillis returns the current timestamp in milliseconds
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
