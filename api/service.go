package api

import (
	"github.com/susulabs/susu-chain/api/types"
)

// Re-export types for convenience
type (
	PoolSummary      = types.PoolSummary
	PoolDetail       = types.PoolDetail
	MemberStanding   = types.MemberStanding
	ClaimableBalance = types.ClaimableBalance
	VaultRecord      = types.VaultRecord
	PoolService      = types.PoolService
	VaultService     = types.VaultService
)

// nowMillis returns current timestamp in milliseconds
func nowMillis() int64 {
	return types.NowMillis()
}
