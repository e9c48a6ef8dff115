package keeper

import (
	"bytes"
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

	"github.com/susulabs/susu-chain/x/savings/types"
)

const testDrawAuthority = "beacon"

// testAddr returns a deterministic valid bech32 address for a test member.
func testAddr(i byte) string {
	return sdk.AccAddress(bytes.Repeat([]byte{i}, 20)).String()
}

// transfer is one recorded bank movement.
type transfer struct {
	From   string
	To     string
	Amount sdk.Coins
}

// recordingBank records coin movements instead of moving real balances.
type recordingBank struct {
	toModule   []transfer
	fromModule []transfer
	failSends  bool
}

func (b *recordingBank) SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error {
	if b.failSends {
		return fmt.Errorf("bank send rejected")
	}
	b.toModule = append(b.toModule, transfer{From: senderAddr.String(), To: recipientModule, Amount: amt})
	return nil
}

func (b *recordingBank) SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error {
	if b.failSends {
		return fmt.Errorf("bank send rejected")
	}
	b.fromModule = append(b.fromModule, transfer{From: senderModule, To: recipientAddr.String(), Amount: amt})
	return nil
}

// stubIdentity answers identity checks from fixed sets.
type stubIdentity struct {
	verified    map[string]bool
	blacklisted map[string]bool
}

func (s *stubIdentity) IsVerified(ctx sdk.Context, addr string) bool    { return s.verified[addr] }
func (s *stubIdentity) IsBlacklisted(ctx sdk.Context, addr string) bool { return s.blacklisted[addr] }

// stubRandomness records draw requests and can simulate provider outages.
type stubRandomness struct {
	requests []string
	fail     bool
}

func (s *stubRandomness) RequestDraw(ctx sdk.Context, poolID, requestID string) error {
	if s.fail {
		return fmt.Errorf("beacon unreachable")
	}
	s.requests = append(s.requests, poolID)
	return nil
}

// stubVault plays the custody side. On a successful withdrawal it calls
// back into the keeper the same way the real vault does.
type stubVault struct {
	keeper *Keeper

	supplied  map[string]math.Int
	yield     math.Int
	delayed   bool
	withdraws int
}

func (v *stubVault) DepositAndSupply(ctx sdk.Context, poolID, assetIn string, amount math.Int) error {
	v.supplied[poolID] = amount
	return nil
}

func (v *stubVault) WithdrawAndReturn(ctx sdk.Context, poolID string) (bool, error) {
	v.withdraws++
	if v.delayed {
		return false, nil
	}
	principal, ok := v.supplied[poolID]
	if !ok {
		return false, fmt.Errorf("no custody record for pool %s", poolID)
	}
	if err := v.keeper.OnFundsReturned(ctx, poolID, principal, v.yield); err != nil {
		return false, err
	}
	return true, nil
}

// testFixture bundles the keeper with its collaborator stubs.
type testFixture struct {
	keeper     *Keeper
	ctx        sdk.Context
	bank       *recordingBank
	identity   *stubIdentity
	randomness *stubRandomness
	vault      *stubVault
}

func setupKeeper(t *testing.T) *testFixture {
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
	identity := &stubIdentity{verified: map[string]bool{}, blacklisted: map[string]bool{}}
	randomness := &stubRandomness{}

	k := NewKeeper(cdc, storeKey, bank, identity, randomness, testDrawAuthority, log.NewNopLogger())

	vault := &stubVault{keeper: k, supplied: map[string]math.Int{}, yield: math.ZeroInt()}
	k.SetVaultKeeper(vault)

	return &testFixture{
		keeper:     k,
		ctx:        ctx,
		bank:       bank,
		identity:   identity,
		randomness: randomness,
		vault:      vault,
	}
}

// at returns a context whose block time sits offset seconds past the
// fixture's genesis time.
func (f *testFixture) at(offset int64) sdk.Context {
	base := time.Unix(1_700_000_000, 0)
	return f.ctx.WithBlockTime(base.Add(time.Duration(offset) * time.Second))
}

func testConfig(poolID string) types.PoolConfig {
	return types.PoolConfig{
		PoolID:           poolID,
		DepositDenom:     "uusdc",
		TargetAmount:     math.NewInt(12000),
		Capacity:         6,
		TotalCycles:      10,
		WinnerCount:      2,
		CycleDuration:    1000,
		EnrollmentWindow: types.EnrollmentWindowStandard,
		DistributionMode: types.DistributionEqual,
	}
}

// createWithMembers creates a pool and joins n members at cycle one. Each
// member pays the base rate of 200 on join.
func (f *testFixture) createWithMembers(t *testing.T, poolID string, n int) {
	t.Helper()
	if _, err := f.keeper.CreatePool(f.ctx, testAddr(0xff), testConfig(poolID)); err != nil {
		t.Fatalf("CreatePool: %v", err)
	}
	for i := 0; i < n; i++ {
		if _, err := f.keeper.JoinPool(f.ctx, testAddr(byte(i+1)), poolID); err != nil {
			t.Fatalf("JoinPool member %d: %v", i+1, err)
		}
	}
}
