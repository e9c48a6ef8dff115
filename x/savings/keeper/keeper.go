package keeper

import (
	"context"
	"encoding/json"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/susulabs/susu-chain/x/savings/types"
)

// Store key prefixes
var (
	PoolKeyPrefix = []byte{0x01}
)

// BankKeeper defines the expected interface for the bank module
type BankKeeper interface {
	SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
}

// VaultKeeper defines the expected interface for the custody vault. A
// non-nil error from WithdrawAndReturn is a real failure; a false result
// with nil error means the yield source is temporarily illiquid and the
// withdrawal was flagged for retry.
type VaultKeeper interface {
	DepositAndSupply(ctx sdk.Context, poolID, assetIn string, amount math.Int) error
	WithdrawAndReturn(ctx sdk.Context, poolID string) (bool, error)
}

// IdentityKeeper defines the expected interface for the identity oracle.
// Consulted only at join time.
type IdentityKeeper interface {
	IsVerified(ctx sdk.Context, addr string) bool
	IsBlacklisted(ctx sdk.Context, addr string) bool
}

// RandomnessRequester defines the expected interface for the randomness
// beacon. Requests are fire-and-forget; delivery happens through
// FulfillDraw.
type RandomnessRequester interface {
	RequestDraw(ctx sdk.Context, poolID, requestID string) error
}

// Keeper manages the savings module state
type Keeper struct {
	cdc           codec.BinaryCodec
	storeKey      storetypes.StoreKey
	bankKeeper    BankKeeper
	vaultKeeper   VaultKeeper
	identity      IdentityKeeper
	randomness    RandomnessRequester
	drawAuthority string
	logger        log.Logger

	deadlines *deadlineIndex
}

// NewKeeper creates a new savings keeper. The vault keeper is wired
// afterwards via SetVaultKeeper because the two modules reference each
// other.
func NewKeeper(
	cdc codec.BinaryCodec,
	storeKey storetypes.StoreKey,
	bankKeeper BankKeeper,
	identity IdentityKeeper,
	randomness RandomnessRequester,
	drawAuthority string,
	logger log.Logger,
) *Keeper {
	return &Keeper{
		cdc:           cdc,
		storeKey:      storeKey,
		bankKeeper:    bankKeeper,
		identity:      identity,
		randomness:    randomness,
		drawAuthority: drawAuthority,
		logger:        logger.With("module", "x/savings"),
		deadlines:     newDeadlineIndex(),
	}
}

// SetVaultKeeper wires the custody vault after both keepers exist.
func (k *Keeper) SetVaultKeeper(vk VaultKeeper) {
	k.vaultKeeper = vk
}

// Logger returns the module logger
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// GetStore returns the KVStore
func (k *Keeper) GetStore(ctx sdk.Context) storetypes.KVStore {
	return ctx.KVStore(k.storeKey)
}

// SetPool saves a pool to the store
func (k *Keeper) SetPool(ctx sdk.Context, pool *types.Pool) {
	store := k.GetStore(ctx)
	key := append(PoolKeyPrefix, []byte(pool.Config.PoolID)...)
	bz, _ := json.Marshal(pool)
	store.Set(key, bz)
}

// GetPool retrieves a pool from the store
func (k *Keeper) GetPool(ctx sdk.Context, poolID string) *types.Pool {
	store := k.GetStore(ctx)
	key := append(PoolKeyPrefix, []byte(poolID)...)
	bz := store.Get(key)
	if bz == nil {
		return nil
	}
	var pool types.Pool
	if err := json.Unmarshal(bz, &pool); err != nil {
		return nil
	}
	return &pool
}

// GetAllPools returns all pools
func (k *Keeper) GetAllPools(ctx sdk.Context) []*types.Pool {
	store := k.GetStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, PoolKeyPrefix)
	defer iterator.Close()

	var pools []*types.Pool
	for ; iterator.Valid(); iterator.Next() {
		var pool types.Pool
		if err := json.Unmarshal(iterator.Value(), &pool); err != nil {
			continue
		}
		pools = append(pools, &pool)
	}
	return pools
}

// IsRegisteredPool reports whether poolID names a pool created through
// this module. The vault consults it before accepting custody calls.
func (k *Keeper) IsRegisteredPool(ctx sdk.Context, poolID string) bool {
	return k.GetPool(ctx, poolID) != nil
}
