package keeper

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/susulabs/susu-chain/x/savings/types"
)

// GetMember returns a member record, or nil if the address never joined.
func (k *Keeper) GetMember(ctx sdk.Context, poolID, member string) *types.Member {
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return nil
	}
	return pool.Members[member]
}

// GetClaimable returns a member's claimable balance.
func (k *Keeper) GetClaimable(ctx sdk.Context, poolID, member string) math.Int {
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return math.ZeroInt()
	}
	return pool.ClaimableOf(member)
}

// GetPoolsByPhase returns pools filtered by phase.
func (k *Keeper) GetPoolsByPhase(ctx sdk.Context, phase string) []*types.Pool {
	var filtered []*types.Pool
	for _, pool := range k.GetAllPools(ctx) {
		if pool.Phase == phase {
			filtered = append(filtered, pool)
		}
	}
	return filtered
}
