package keeper

import (
	"context"
	"fmt"
	"testing"
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

	"github.com/susulabs/susu-chain/x/vault/types"
)

// moduleTransfer is one recorded module-to-module movement.
type moduleTransfer struct {
	From   string
	To     string
	Amount sdk.Coins
}

type recordingBank struct {
	transfers []moduleTransfer
}

func (b *recordingBank) SendCoinsFromModuleToModule(ctx context.Context, senderModule, recipientModule string, amt sdk.Coins) error {
	b.transfers = append(b.transfers, moduleTransfer{From: senderModule, To: recipientModule, Amount: amt})
	return nil
}

// stubRegistry admits a fixed set of pool IDs.
type stubRegistry struct {
	pools map[string]bool
}

func (r *stubRegistry) IsRegisteredPool(ctx sdk.Context, poolID string) bool {
	return r.pools[poolID]
}

// returnRecord is one captured OnFundsReturned callback.
type returnRecord struct {
	PoolID    string
	Principal math.Int
	Yield     math.Int
}

type stubReceiver struct {
	returns []returnRecord
}

func (r *stubReceiver) OnFundsReturned(ctx sdk.Context, poolID string, principal, yield math.Int) error {
	r.returns = append(r.returns, returnRecord{PoolID: poolID, Principal: principal, Yield: yield})
	return nil
}

// stubSource holds supplied principal and pays it back with a configured
// yield. Liquidity can be switched off to exercise the delayed path.
type stubSource struct {
	supplied math.Int
	yield    math.Int
	illiquid bool
}

func (s *stubSource) Supply(ctx sdk.Context, denom string, amount math.Int) error {
	s.supplied = s.supplied.Add(amount)
	return nil
}

func (s *stubSource) Withdraw(ctx sdk.Context, denom string, principal math.Int) (math.Int, bool) {
	if s.illiquid {
		return math.ZeroInt(), false
	}
	return principal.Add(s.yield), true
}

// stubSwap converts at a fixed basis-point rate.
type stubSwap struct {
	rateBps int64
	calls   int
}

func (s *stubSwap) SwapExactIn(ctx sdk.Context, denomIn, denomOut string, amountIn, minOut math.Int) (math.Int, error) {
	s.calls++
	if denomIn == denomOut {
		return math.ZeroInt(), fmt.Errorf("same-denom swap requested")
	}
	return amountIn.MulRaw(s.rateBps).QuoRaw(10000), nil
}

type vaultFixture struct {
	keeper   *Keeper
	ctx      sdk.Context
	bank     *recordingBank
	registry *stubRegistry
	receiver *stubReceiver
	source   *stubSource
	swap     *stubSwap
}

func setupVault(t *testing.T) *vaultFixture {
	t.Helper()

	interfaceRegistry := codectypes.NewInterfaceRegistry()
	cdc := codec.NewProtoCodec(interfaceRegistry)

	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	if err := stateStore.LoadLatestVersion(); err != nil {
		t.Fatalf("failed to load store: %v", err)
	}

	ctx := sdk.NewContext(stateStore, cmtproto.Header{
		Time:   time.Unix(1_700_000_000, 0),
		Height: 1,
	}, false, log.NewNopLogger())

	bank := &recordingBank{}
	source := &stubSource{supplied: math.ZeroInt(), yield: math.ZeroInt()}
	swap := &stubSwap{rateBps: 10000}

	k := NewKeeper(cdc, storeKey, bank, source, swap, "uusdc", "savings", log.NewNopLogger())

	registry := &stubRegistry{pools: map[string]bool{"pool-a": true}}
	receiver := &stubReceiver{}
	k.SetPoolRegistry(registry)
	k.SetFundsReceiver(receiver)

	return &vaultFixture{
		keeper:   k,
		ctx:      ctx,
		bank:     bank,
		registry: registry,
		receiver: receiver,
		source:   source,
		swap:     swap,
	}
}

// TestDepositAndSupply tests routing a same-asset principal to the yield
// source
func TestDepositAndSupply(t *testing.T) {
	f := setupVault(t)

	err := f.keeper.DepositAndSupply(f.ctx, "pool-a", "uusdc", math.NewInt(600))
	if err != nil {
		t.Fatalf("DepositAndSupply: %v", err)
	}

	rec := f.keeper.GetDepositRecord(f.ctx, "pool-a")
	if rec == nil {
		t.Fatal("deposit record missing")
	}
	if !rec.Active || rec.Delayed {
		t.Errorf("fresh record flags: active=%v delayed=%v", rec.Active, rec.Delayed)
	}
	if !rec.Principal.Equal(math.NewInt(600)) {
		t.Errorf("principal = %s, want 600", rec.Principal.String())
	}
	if !f.source.supplied.Equal(math.NewInt(600)) {
		t.Errorf("source received %s, want 600", f.source.supplied.String())
	}
	// Same asset as the yield denom: no conversion.
	if f.swap.calls != 0 {
		t.Errorf("unexpected swap calls: %d", f.swap.calls)
	}

	if len(f.bank.transfers) != 1 {
		t.Fatalf("expected 1 bank transfer, got %d", len(f.bank.transfers))
	}
	if f.bank.transfers[0].From != "savings" || f.bank.transfers[0].To != types.ModuleName {
		t.Errorf("transfer route %s -> %s", f.bank.transfers[0].From, f.bank.transfers[0].To)
	}
}

// TestDepositAndSupplyConverts tests the one-hop swap for pools saving in
// a different asset
func TestDepositAndSupplyConverts(t *testing.T) {
	f := setupVault(t)
	f.swap.rateBps = 9950

	err := f.keeper.DepositAndSupply(f.ctx, "pool-a", "uatom", math.NewInt(10000))
	if err != nil {
		t.Fatalf("DepositAndSupply: %v", err)
	}

	rec := f.keeper.GetDepositRecord(f.ctx, "pool-a")
	if !rec.Principal.Equal(math.NewInt(9950)) {
		t.Errorf("principal = %s, want 9950", rec.Principal.String())
	}
	if f.swap.calls != 1 {
		t.Errorf("swap calls = %d, want 1", f.swap.calls)
	}
}

// TestDepositAndSupplySlippage tests rejection below the 99% output bound
func TestDepositAndSupplySlippage(t *testing.T) {
	f := setupVault(t)
	f.swap.rateBps = 9800

	err := f.keeper.DepositAndSupply(f.ctx, "pool-a", "uatom", math.NewInt(10000))
	if !types.ErrSlippageExceeded.Is(err) {
		t.Errorf("expected slippage error, got %v", err)
	}
	if f.keeper.GetDepositRecord(f.ctx, "pool-a") != nil {
		t.Error("failed supply must not leave a record")
	}
}

// TestDepositAndSupplyGuards tests the capability and amount guards
func TestDepositAndSupplyGuards(t *testing.T) {
	f := setupVault(t)

	err := f.keeper.DepositAndSupply(f.ctx, "pool-x", "uusdc", math.NewInt(600))
	if !types.ErrUnknownPool.Is(err) {
		t.Errorf("expected unknown-pool error, got %v", err)
	}

	err = f.keeper.DepositAndSupply(f.ctx, "pool-a", "uusdc", math.ZeroInt())
	if !types.ErrZeroAmount.Is(err) {
		t.Errorf("expected zero-amount error, got %v", err)
	}

	if err := f.keeper.DepositAndSupply(f.ctx, "pool-a", "uusdc", math.NewInt(600)); err != nil {
		t.Fatalf("DepositAndSupply: %v", err)
	}
	err = f.keeper.DepositAndSupply(f.ctx, "pool-a", "uusdc", math.NewInt(600))
	if !types.ErrActiveDepositExists.Is(err) {
		t.Errorf("expected active-deposit error, got %v", err)
	}
}

// TestWithdrawAndReturn tests a full round trip with yield
func TestWithdrawAndReturn(t *testing.T) {
	f := setupVault(t)
	f.source.yield = math.NewInt(300)

	if err := f.keeper.DepositAndSupply(f.ctx, "pool-a", "uusdc", math.NewInt(600)); err != nil {
		t.Fatalf("DepositAndSupply: %v", err)
	}

	returned, err := f.keeper.WithdrawAndReturn(f.ctx, "pool-a")
	if err != nil {
		t.Fatalf("WithdrawAndReturn: %v", err)
	}
	if !returned {
		t.Fatal("expected immediate return")
	}

	if len(f.receiver.returns) != 1 {
		t.Fatalf("expected 1 callback, got %d", len(f.receiver.returns))
	}
	ret := f.receiver.returns[0]
	if !ret.Principal.Equal(math.NewInt(600)) || !ret.Yield.Equal(math.NewInt(300)) {
		t.Errorf("callback principal=%s yield=%s, want 600/300", ret.Principal.String(), ret.Yield.String())
	}

	rec := f.keeper.GetDepositRecord(f.ctx, "pool-a")
	if rec.Active {
		t.Error("record should be inactive after return")
	}

	// One transfer in, one back out.
	if len(f.bank.transfers) != 2 {
		t.Fatalf("expected 2 bank transfers, got %d", len(f.bank.transfers))
	}
	back := f.bank.transfers[1]
	if back.From != types.ModuleName || back.To != "savings" {
		t.Errorf("return route %s -> %s", back.From, back.To)
	}
	if got := back.Amount.AmountOf("uusdc"); !got.Equal(math.NewInt(900)) {
		t.Errorf("returned amount = %s, want 900", got.String())
	}
}

// TestWithdrawShortfallComesOutOfYield tests that a withdrawal below
// principal reports zero yield rather than negative
func TestWithdrawShortfallComesOutOfYield(t *testing.T) {
	f := setupVault(t)
	f.source.yield = math.NewInt(-50)

	if err := f.keeper.DepositAndSupply(f.ctx, "pool-a", "uusdc", math.NewInt(600)); err != nil {
		t.Fatalf("DepositAndSupply: %v", err)
	}
	if _, err := f.keeper.WithdrawAndReturn(f.ctx, "pool-a"); err != nil {
		t.Fatalf("WithdrawAndReturn: %v", err)
	}

	ret := f.receiver.returns[0]
	if !ret.Principal.Equal(math.NewInt(550)) {
		t.Errorf("principal = %s, want 550", ret.Principal.String())
	}
	if !ret.Yield.IsZero() {
		t.Errorf("yield = %s, want 0", ret.Yield.String())
	}
}

// TestWithdrawDelayed tests the illiquid yield source path
func TestWithdrawDelayed(t *testing.T) {
	f := setupVault(t)
	f.source.illiquid = true

	if err := f.keeper.DepositAndSupply(f.ctx, "pool-a", "uusdc", math.NewInt(600)); err != nil {
		t.Fatalf("DepositAndSupply: %v", err)
	}

	returned, err := f.keeper.WithdrawAndReturn(f.ctx, "pool-a")
	if err != nil {
		t.Fatalf("WithdrawAndReturn: %v", err)
	}
	if returned {
		t.Fatal("illiquid source must not return funds")
	}

	rec := f.keeper.GetDepositRecord(f.ctx, "pool-a")
	if !rec.Active || !rec.Delayed {
		t.Errorf("record flags after delay: active=%v delayed=%v", rec.Active, rec.Delayed)
	}
	if len(f.receiver.returns) != 0 {
		t.Error("no callback expected while delayed")
	}
}

// TestRetryWithdrawal tests recovery once liquidity comes back
func TestRetryWithdrawal(t *testing.T) {
	f := setupVault(t)
	f.source.illiquid = true
	f.source.yield = math.NewInt(300)

	if err := f.keeper.DepositAndSupply(f.ctx, "pool-a", "uusdc", math.NewInt(600)); err != nil {
		t.Fatalf("DepositAndSupply: %v", err)
	}
	if _, err := f.keeper.WithdrawAndReturn(f.ctx, "pool-a"); err != nil {
		t.Fatalf("WithdrawAndReturn: %v", err)
	}

	// Still illiquid: retry flags nothing new.
	returned, err := f.keeper.RetryWithdrawal(f.ctx, "pool-a")
	if err != nil || returned {
		t.Fatalf("retry while illiquid: returned=%v err=%v", returned, err)
	}

	f.source.illiquid = false
	returned, err = f.keeper.RetryWithdrawal(f.ctx, "pool-a")
	if err != nil {
		t.Fatalf("RetryWithdrawal: %v", err)
	}
	if !returned {
		t.Fatal("expected successful retry")
	}
	if len(f.receiver.returns) != 1 {
		t.Fatalf("expected 1 callback, got %d", len(f.receiver.returns))
	}

	// A completed record is no longer retryable.
	_, err = f.keeper.RetryWithdrawal(f.ctx, "pool-a")
	if !types.ErrNoActiveDeposit.Is(err) {
		t.Errorf("expected no-active-deposit error, got %v", err)
	}
}

// TestRetryWithdrawalNotDelayed tests retry gating on the delayed flag
func TestRetryWithdrawalNotDelayed(t *testing.T) {
	f := setupVault(t)

	if err := f.keeper.DepositAndSupply(f.ctx, "pool-a", "uusdc", math.NewInt(600)); err != nil {
		t.Fatalf("DepositAndSupply: %v", err)
	}

	_, err := f.keeper.RetryWithdrawal(f.ctx, "pool-a")
	if !types.ErrNotDelayed.Is(err) {
		t.Errorf("expected not-delayed error, got %v", err)
	}

	_, err = f.keeper.RetryWithdrawal(f.ctx, "pool-x")
	if !types.ErrNoActiveDeposit.Is(err) {
		t.Errorf("expected no-active-deposit error, got %v", err)
	}
}

// TestVaultEndBlockerRetries tests the block sweep over delayed records
func TestVaultEndBlockerRetries(t *testing.T) {
	f := setupVault(t)
	f.source.illiquid = true

	if err := f.keeper.DepositAndSupply(f.ctx, "pool-a", "uusdc", math.NewInt(600)); err != nil {
		t.Fatalf("DepositAndSupply: %v", err)
	}
	if _, err := f.keeper.WithdrawAndReturn(f.ctx, "pool-a"); err != nil {
		t.Fatalf("WithdrawAndReturn: %v", err)
	}

	// Sweep while illiquid: record survives untouched.
	if err := f.keeper.EndBlocker(f.ctx); err != nil {
		t.Fatalf("EndBlocker: %v", err)
	}
	if rec := f.keeper.GetDepositRecord(f.ctx, "pool-a"); !rec.Active || !rec.Delayed {
		t.Error("delayed record changed by failed sweep")
	}

	f.source.illiquid = false
	if err := f.keeper.EndBlocker(f.ctx); err != nil {
		t.Fatalf("EndBlocker: %v", err)
	}
	if rec := f.keeper.GetDepositRecord(f.ctx, "pool-a"); rec.Active {
		t.Error("sweep should have completed the withdrawal")
	}
	if len(f.receiver.returns) != 1 {
		t.Errorf("expected 1 callback, got %d", len(f.receiver.returns))
	}
}
