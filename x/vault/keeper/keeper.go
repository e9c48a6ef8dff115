package keeper

import (
	"context"
	"encoding/json"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/susulabs/susu-chain/x/vault/types"
)

// Store key prefixes
var (
	DepositRecordKeyPrefix = []byte{0x01}
)

// BankKeeper defines the expected interface for the bank module
type BankKeeper interface {
	SendCoinsFromModuleToModule(ctx context.Context, senderModule, recipientModule string, amt sdk.Coins) error
}

// YieldSource is the external protocol principal is supplied to. Withdraw
// reports temporary illiquidity through its second result instead of an
// error: false means try again later, with no funds moved.
type YieldSource interface {
	Supply(ctx sdk.Context, denom string, amount math.Int) error
	Withdraw(ctx sdk.Context, denom string, principal math.Int) (math.Int, bool)
}

// SwapRouter performs single-hop asset conversion.
type SwapRouter interface {
	SwapExactIn(ctx sdk.Context, denomIn, denomOut string, amountIn, minOut math.Int) (math.Int, error)
}

// PoolRegistry reports whether a caller is a legitimate savings pool.
type PoolRegistry interface {
	IsRegisteredPool(ctx sdk.Context, poolID string) bool
}

// FundsReceiver is notified when a pool's principal and yield come back
// from the yield source.
type FundsReceiver interface {
	OnFundsReturned(ctx sdk.Context, poolID string, principal, yield math.Int) error
}

// Keeper manages the vault module state
type Keeper struct {
	cdc           codec.BinaryCodec
	storeKey      storetypes.StoreKey
	bankKeeper    BankKeeper
	source        YieldSource
	swap          SwapRouter
	registry      PoolRegistry
	receiver      FundsReceiver
	yieldDenom    string
	fundingModule string // module account pools fund from and return to
	logger        log.Logger
}

// NewKeeper creates a new vault keeper. Registry and receiver are wired
// afterwards because the savings module references this keeper too.
func NewKeeper(
	cdc codec.BinaryCodec,
	storeKey storetypes.StoreKey,
	bankKeeper BankKeeper,
	source YieldSource,
	swap SwapRouter,
	yieldDenom string,
	fundingModule string,
	logger log.Logger,
) *Keeper {
	return &Keeper{
		cdc:           cdc,
		storeKey:      storeKey,
		bankKeeper:    bankKeeper,
		source:        source,
		swap:          swap,
		yieldDenom:    yieldDenom,
		fundingModule: fundingModule,
		logger:        logger.With("module", "x/vault"),
	}
}

// SetPoolRegistry wires the pool capability check.
func (k *Keeper) SetPoolRegistry(r PoolRegistry) {
	k.registry = r
}

// SetFundsReceiver wires the return callback.
func (k *Keeper) SetFundsReceiver(r FundsReceiver) {
	k.receiver = r
}

// Logger returns the module logger
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// GetStore returns the KVStore
func (k *Keeper) GetStore(ctx sdk.Context) storetypes.KVStore {
	return ctx.KVStore(k.storeKey)
}

// SetDepositRecord saves a deposit record to the store
func (k *Keeper) SetDepositRecord(ctx sdk.Context, rec *types.DepositRecord) {
	store := k.GetStore(ctx)
	key := append(DepositRecordKeyPrefix, []byte(rec.PoolID)...)
	bz, _ := json.Marshal(rec)
	store.Set(key, bz)
}

// GetDepositRecord retrieves a pool's deposit record
func (k *Keeper) GetDepositRecord(ctx sdk.Context, poolID string) *types.DepositRecord {
	store := k.GetStore(ctx)
	key := append(DepositRecordKeyPrefix, []byte(poolID)...)
	bz := store.Get(key)
	if bz == nil {
		return nil
	}
	var rec types.DepositRecord
	if err := json.Unmarshal(bz, &rec); err != nil {
		return nil
	}
	return &rec
}

// GetAllDepositRecords returns all deposit records
func (k *Keeper) GetAllDepositRecords(ctx sdk.Context) []*types.DepositRecord {
	store := k.GetStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, DepositRecordKeyPrefix)
	defer iterator.Close()

	var recs []*types.DepositRecord
	for ; iterator.Valid(); iterator.Next() {
		var rec types.DepositRecord
		if err := json.Unmarshal(iterator.Value(), &rec); err != nil {
			continue
		}
		recs = append(recs, &rec)
	}
	return recs
}
