package keeper

import (
	"testing"

	"cosmossdk.io/math"

	"github.com/susulabs/susu-chain/x/savings/types"
)

// TestCheckAndEvict tests the permissionless eviction trigger
func TestCheckAndEvict(t *testing.T) {
	f := setupKeeper(t)
	f.createWithMembers(t, "pool-a", 3)

	// Cycle 4 with only cycle 1 paid.
	evicted, err := f.keeper.CheckAndEvict(f.at(3000), "pool-a", testAddr(2))
	if err != nil {
		t.Fatalf("CheckAndEvict: %v", err)
	}
	if !evicted {
		t.Fatal("expected eviction")
	}

	pool := f.keeper.GetPool(f.ctx, "pool-a")
	if !pool.Members[testAddr(2)].Removed {
		t.Error("member not tombstoned")
	}
	if !pool.ClaimableOf(testAddr(2)).Equal(math.NewInt(200)) {
		t.Errorf("refund queued = %s, want 200", pool.ClaimableOf(testAddr(2)).String())
	}
}

// TestCheckAndEvictNotDelinquent tests the grace window
func TestCheckAndEvictNotDelinquent(t *testing.T) {
	f := setupKeeper(t)
	f.createWithMembers(t, "pool-a", 3)

	// Cycle 3: only one missed cycle, still recoverable by batch.
	_, err := f.keeper.CheckAndEvict(f.at(2000), "pool-a", testAddr(1))
	if !types.ErrMemberNotDelinquent.Is(err) {
		t.Errorf("expected not-delinquent error, got %v", err)
	}
}

// TestEvictionCancelsUnderfilledPool tests forced cancellation when
// evictions leave at most one active member
func TestEvictionCancelsUnderfilledPool(t *testing.T) {
	f := setupKeeper(t)
	f.createWithMembers(t, "pool-a", 2)

	evicted, err := f.keeper.CheckAndEvict(f.at(3000), "pool-a", testAddr(1))
	if err != nil {
		t.Fatalf("CheckAndEvict: %v", err)
	}
	if !evicted {
		t.Fatal("expected eviction")
	}

	pool := f.keeper.GetPool(f.ctx, "pool-a")
	if pool.Phase != types.PhaseCancelled {
		t.Fatalf("expected cancelled, got %s", pool.Phase)
	}
	// Both the evicted and the surviving member get their money back.
	if !pool.ClaimableOf(testAddr(1)).Equal(math.NewInt(200)) {
		t.Errorf("evicted claimable = %s, want 200", pool.ClaimableOf(testAddr(1)).String())
	}
	if !pool.ClaimableOf(testAddr(2)).Equal(math.NewInt(200)) {
		t.Errorf("survivor claimable = %s, want 200", pool.ClaimableOf(testAddr(2)).String())
	}
}

// TestEmergencyWithdraw tests the immediate-refund exit
func TestEmergencyWithdraw(t *testing.T) {
	f := setupKeeper(t)
	f.createWithMembers(t, "pool-a", 4)

	refund, err := f.keeper.EmergencyWithdraw(f.ctx, testAddr(1), "pool-a")
	if err != nil {
		t.Fatalf("EmergencyWithdraw: %v", err)
	}
	if !refund.Equal(math.NewInt(200)) {
		t.Errorf("refund = %s, want 200", refund.String())
	}

	if len(f.bank.fromModule) != 1 {
		t.Fatalf("expected 1 refund transfer, got %d", len(f.bank.fromModule))
	}
	if got := f.bank.fromModule[0].Amount.AmountOf("uusdc"); !got.Equal(math.NewInt(200)) {
		t.Errorf("refund transfer = %s, want 200", got.String())
	}

	pool := f.keeper.GetPool(f.ctx, "pool-a")
	m := pool.Members[testAddr(1)]
	if !m.Removed || !m.Claimed {
		t.Error("withdrawn member should be removed and marked claimed")
	}
	if pool.ActiveMembers != 3 {
		t.Errorf("ActiveMembers = %d, want 3", pool.ActiveMembers)
	}
	if !pool.Balance.Equal(math.NewInt(600)) {
		t.Errorf("pool balance = %s, want 600", pool.Balance.String())
	}

	// The exit is final.
	_, err = f.keeper.EmergencyWithdraw(f.ctx, testAddr(1), "pool-a")
	if !types.ErrMemberRemoved.Is(err) {
		t.Errorf("expected member-removed error, got %v", err)
	}
}

// TestEmergencyWithdrawPhaseLimit tests that exits stop once funds are
// routed to the yield source
func TestEmergencyWithdrawPhaseLimit(t *testing.T) {
	f := setupKeeper(t)
	f.createWithMembers(t, "pool-a", 3)

	if _, err := f.keeper.EndSavingsPhase(f.at(10000), "pool-a"); err != nil {
		t.Fatalf("EndSavingsPhase: %v", err)
	}

	_, err := f.keeper.EmergencyWithdraw(f.at(10000), testAddr(1), "pool-a")
	if !types.ErrWrongPhase.Is(err) {
		t.Errorf("expected wrong-phase error, got %v", err)
	}
}
