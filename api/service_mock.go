package api

import (
	"context"
	"fmt"
	"sync"

	"github.com/susulabs/susu-chain/api/types"
)

// MockService implements the read services with in-memory data
type MockService struct {
	pools   map[string]*types.PoolDetail
	members map[string]*types.MemberStanding   // key: poolID:address
	claims  map[string]*types.ClaimableBalance // key: poolID:address
	vault   map[string]*types.VaultRecord
	mu      sync.RWMutex
}

// NewMockService creates a new mock service
func NewMockService() *MockService {
	return &MockService{
		pools:   make(map[string]*types.PoolDetail),
		members: make(map[string]*types.MemberStanding),
		claims:  make(map[string]*types.ClaimableBalance),
		vault:   make(map[string]*types.VaultRecord),
	}
}

func memberKey(poolID, address string) string {
	return poolID + ":" + address
}

// ============ Seeding (used by tests and the standalone API mode) ============

// SeedPool adds or replaces a pool
func (ms *MockService) SeedPool(pool *types.PoolDetail) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.pools[pool.PoolID] = pool
}

// SeedMember adds or replaces a member standing
func (ms *MockService) SeedMember(member *types.MemberStanding) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.members[memberKey(member.PoolID, member.Address)] = member
}

// SeedClaimable adds or replaces a claimable balance
func (ms *MockService) SeedClaimable(claim *types.ClaimableBalance) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.claims[memberKey(claim.PoolID, claim.Address)] = claim
}

// SeedVaultRecord adds or replaces a vault custody record
func (ms *MockService) SeedVaultRecord(record *types.VaultRecord) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.vault[record.PoolID] = record
}

// ============ PoolService Implementation ============

func (ms *MockService) ListPools(ctx context.Context, phase string) ([]*types.PoolSummary, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	result := make([]*types.PoolSummary, 0, len(ms.pools))
	for _, pool := range ms.pools {
		if phase != "" && pool.Phase != phase {
			continue
		}
		summary := pool.PoolSummary
		result = append(result, &summary)
	}
	return result, nil
}

func (ms *MockService) GetPool(ctx context.Context, poolID string) (*types.PoolDetail, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	pool, ok := ms.pools[poolID]
	if !ok {
		return nil, fmt.Errorf("pool not found: %s", poolID)
	}
	return pool, nil
}

func (ms *MockService) GetMember(ctx context.Context, poolID, address string) (*types.MemberStanding, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	member, ok := ms.members[memberKey(poolID, address)]
	if !ok {
		return nil, fmt.Errorf("member %s not found in pool %s", address, poolID)
	}
	return member, nil
}

func (ms *MockService) GetClaimable(ctx context.Context, poolID, address string) (*types.ClaimableBalance, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	claim, ok := ms.claims[memberKey(poolID, address)]
	if !ok {
		// No pending payout is a valid answer, not an error
		return &types.ClaimableBalance{
			Address: address,
			PoolID:  poolID,
			Amount:  "0",
		}, nil
	}
	return claim, nil
}

func (ms *MockService) ListMembers(ctx context.Context, poolID string) ([]*types.MemberStanding, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	if _, ok := ms.pools[poolID]; !ok {
		return nil, fmt.Errorf("pool not found: %s", poolID)
	}

	result := make([]*types.MemberStanding, 0)
	for _, member := range ms.members {
		if member.PoolID == poolID {
			result = append(result, member)
		}
	}
	return result, nil
}

// ============ VaultService Implementation ============

func (ms *MockService) GetDeposit(ctx context.Context, poolID string) (*types.VaultRecord, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	record, ok := ms.vault[poolID]
	if !ok {
		return nil, fmt.Errorf("no custody record for pool: %s", poolID)
	}
	return record, nil
}

func (ms *MockService) ListDelayed(ctx context.Context) ([]*types.VaultRecord, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	result := make([]*types.VaultRecord, 0)
	for _, record := range ms.vault {
		if record.Active && record.Delayed {
			result = append(result, record)
		}
	}
	return result, nil
}
