package api

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/susulabs/susu-chain/api/types"
	savingskeeper "github.com/susulabs/susu-chain/x/savings/keeper"
	savingstypes "github.com/susulabs/susu-chain/x/savings/types"
	vaultkeeper "github.com/susulabs/susu-chain/x/vault/keeper"
	vaulttypes "github.com/susulabs/susu-chain/x/vault/types"
)

// KeeperService implements PoolService and VaultService against real
// keepers backed by an in-memory store. Used by the standalone API server
// mode, where no node is running.
type KeeperService struct {
	savings *savingskeeper.Keeper
	vault   *vaultkeeper.Keeper
	ctx     sdk.Context
	mu      sync.RWMutex
}

// noopBankKeeper satisfies both modules' bank expectations without moving
// real coins. Balances only matter on a live chain.
type noopBankKeeper struct{}

func (noopBankKeeper) SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error {
	return nil
}

func (noopBankKeeper) SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error {
	return nil
}

func (noopBankKeeper) SendCoinsFromModuleToModule(ctx context.Context, senderModule, recipientModule string, amt sdk.Coins) error {
	return nil
}

// openIdentity verifies everyone and blacklists no one
type openIdentity struct{}

func (openIdentity) IsVerified(ctx sdk.Context, addr string) bool    { return true }
func (openIdentity) IsBlacklisted(ctx sdk.Context, addr string) bool { return false }

// loggedRandomness records draw requests; fulfilment comes through
// FulfillDraw like on a live chain
type loggedRandomness struct{}

func (loggedRandomness) RequestDraw(ctx sdk.Context, poolID, requestID string) error { return nil }

// parkedYieldSource holds principal and returns it without yield
type parkedYieldSource struct{}

func (parkedYieldSource) Supply(ctx sdk.Context, denom string, amount math.Int) error { return nil }

func (parkedYieldSource) Withdraw(ctx sdk.Context, denom string, principal math.Int) (math.Int, bool) {
	return principal, true
}

// sameDenomSwap passes same-denom amounts through unchanged
type sameDenomSwap struct{}

func (sameDenomSwap) SwapExactIn(ctx sdk.Context, denomIn, denomOut string, amountIn, minOut math.Int) (math.Int, error) {
	if denomIn != denomOut {
		return math.ZeroInt(), fmt.Errorf("no swap route from %s to %s", denomIn, denomOut)
	}
	return amountIn, nil
}

// NewKeeperService creates a KeeperService with in-memory keepers
func NewKeeperService() *KeeperService {
	interfaceRegistry := codectypes.NewInterfaceRegistry()
	cdc := codec.NewProtoCodec(interfaceRegistry)

	savingsKey := storetypes.NewKVStoreKey(savingstypes.StoreKey)
	vaultKey := storetypes.NewKVStoreKey(vaulttypes.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(savingsKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(vaultKey, storetypes.StoreTypeIAVL, db)
	if err := stateStore.LoadLatestVersion(); err != nil {
		panic(fmt.Sprintf("failed to load store: %v", err))
	}

	sdkCtx := sdk.NewContext(stateStore, cmtproto.Header{
		Time:   time.Now(),
		Height: 1,
	}, false, log.NewNopLogger())

	bank := noopBankKeeper{}

	savings := savingskeeper.NewKeeper(
		cdc,
		savingsKey,
		bank,
		openIdentity{},
		loggedRandomness{},
		"beacon", // standalone draw provider name
		log.NewNopLogger(),
	)
	vault := vaultkeeper.NewKeeper(
		cdc,
		vaultKey,
		bank,
		parkedYieldSource{},
		sameDenomSwap{},
		"uusdc",
		savingstypes.ModuleName,
		log.NewNopLogger(),
	)
	savings.SetVaultKeeper(vault)
	vault.SetPoolRegistry(savings)
	vault.SetFundsReceiver(savings)

	return &KeeperService{
		savings: savings,
		vault:   vault,
		ctx:     sdkCtx,
	}
}

// AdvanceTime moves the block clock forward, driving lazy phase
// transitions on the next keeper call
func (s *KeeperService) AdvanceTime(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctx = s.ctx.WithBlockTime(s.ctx.BlockTime().Add(d)).WithBlockHeight(s.ctx.BlockHeight() + 1)
}

// ============ Lifecycle passthroughs (standalone mode only) ============

func (s *KeeperService) CreatePool(creator string, config savingstypes.PoolConfig) (*types.PoolDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pool, err := s.savings.CreatePool(s.ctx, creator, config)
	if err != nil {
		return nil, err
	}
	return poolToDetail(pool, s.ctx.BlockTime().Unix()), nil
}

func (s *KeeperService) Join(member, poolID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.savings.JoinPool(s.ctx, member, poolID)
	return err
}

func (s *KeeperService) Deposit(member, poolID, amount string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	amt, ok := math.NewIntFromString(amount)
	if !ok {
		return fmt.Errorf("invalid amount: %s", amount)
	}
	_, err := s.savings.Deposit(s.ctx, member, poolID, amt)
	return err
}

// ============ PoolService Implementation ============

func (s *KeeperService) ListPools(ctx context.Context, phase string) ([]*types.PoolSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var pools []*savingstypes.Pool
	if phase == "" {
		pools = s.savings.GetAllPools(s.ctx)
	} else {
		pools = s.savings.GetPoolsByPhase(s.ctx, phase)
	}

	now := s.ctx.BlockTime().Unix()
	result := make([]*types.PoolSummary, 0, len(pools))
	for _, pool := range pools {
		result = append(result, poolToSummary(pool, now))
	}
	return result, nil
}

func (s *KeeperService) GetPool(ctx context.Context, poolID string) (*types.PoolDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pool := s.savings.GetPool(s.ctx, poolID)
	if pool == nil {
		return nil, fmt.Errorf("pool not found: %s", poolID)
	}
	return poolToDetail(pool, s.ctx.BlockTime().Unix()), nil
}

func (s *KeeperService) GetMember(ctx context.Context, poolID, address string) (*types.MemberStanding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pool := s.savings.GetPool(s.ctx, poolID)
	if pool == nil {
		return nil, fmt.Errorf("pool not found: %s", poolID)
	}
	member := pool.Members[address]
	if member == nil {
		return nil, fmt.Errorf("member %s not found in pool %s", address, poolID)
	}
	return memberToStanding(pool, member), nil
}

func (s *KeeperService) GetClaimable(ctx context.Context, poolID, address string) (*types.ClaimableBalance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pool := s.savings.GetPool(s.ctx, poolID)
	if pool == nil {
		return nil, fmt.Errorf("pool not found: %s", poolID)
	}
	return &types.ClaimableBalance{
		Address: address,
		PoolID:  poolID,
		Amount:  pool.ClaimableOf(address).String(),
		Denom:   pool.Config.DepositDenom,
	}, nil
}

func (s *KeeperService) ListMembers(ctx context.Context, poolID string) ([]*types.MemberStanding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pool := s.savings.GetPool(s.ctx, poolID)
	if pool == nil {
		return nil, fmt.Errorf("pool not found: %s", poolID)
	}

	result := make([]*types.MemberStanding, 0, len(pool.MemberOrder))
	for _, addr := range pool.MemberOrder {
		if member := pool.Members[addr]; member != nil {
			result = append(result, memberToStanding(pool, member))
		}
	}
	return result, nil
}

// ============ VaultService Implementation ============

func (s *KeeperService) GetDeposit(ctx context.Context, poolID string) (*types.VaultRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec := s.vault.GetDepositRecord(s.ctx, poolID)
	if rec == nil {
		return nil, fmt.Errorf("no custody record for pool: %s", poolID)
	}
	return recordToView(rec), nil
}

func (s *KeeperService) ListDelayed(ctx context.Context) ([]*types.VaultRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*types.VaultRecord, 0)
	for _, rec := range s.vault.GetAllDepositRecords(s.ctx) {
		if rec.Active && rec.Delayed {
			result = append(result, recordToView(rec))
		}
	}
	return result, nil
}

// ============ Conversions ============

func poolToSummary(pool *savingstypes.Pool, now int64) *types.PoolSummary {
	return &types.PoolSummary{
		PoolID:        pool.Config.PoolID,
		Phase:         pool.Phase,
		DepositDenom:  pool.Config.DepositDenom,
		TargetAmount:  pool.Config.TargetAmount.String(),
		Capacity:      pool.Config.Capacity,
		ActiveMembers: pool.ActiveMembers,
		TotalCycles:   pool.Config.TotalCycles,
		CurrentCycle:  pool.CurrentCycle(now),
		CycleDuration: pool.Config.CycleDuration,
		CreatedAt:     pool.CreatedAt,
	}
}

func poolToDetail(pool *savingstypes.Pool, now int64) *types.PoolDetail {
	return &types.PoolDetail{
		PoolSummary:      *poolToSummary(pool, now),
		Creator:          pool.Creator,
		WinnerCount:      pool.WinnerCount,
		EnrollmentWindow: pool.Config.EnrollmentWindow,
		EnrollmentOpen:   pool.EnrollmentOpen(now),
		RequireIdentity:  pool.Config.RequireIdentity,
		SavingEnd:        pool.SavingEnd,
		YieldEnd:         pool.YieldEnd,
		Balance:          pool.Balance.String(),
		Winners:          pool.Winners,
		CancelReason:     pool.CancelReason,
	}
}

func memberToStanding(pool *savingstypes.Pool, m *savingstypes.Member) *types.MemberStanding {
	return &types.MemberStanding{
		Address:       m.Address,
		PoolID:        pool.Config.PoolID,
		JoinCycle:     m.JoinCycle,
		Rate:          m.Rate.String(),
		CyclesPaid:    m.CyclesPaid,
		TotalCycles:   m.TotalCycles(pool.Config.TotalCycles),
		TotalPaid:     m.TotalPaid.String(),
		LastPaidCycle: m.LastPaidCycle,
		Removed:       m.Removed,
		Claimed:       m.Claimed,
	}
}

func recordToView(rec *vaulttypes.DepositRecord) *types.VaultRecord {
	return &types.VaultRecord{
		PoolID:     rec.PoolID,
		AssetIn:    rec.AssetIn,
		Principal:  rec.Principal.String(),
		Active:     rec.Active,
		Delayed:    rec.Delayed,
		SuppliedAt: rec.SuppliedAt,
	}
}
