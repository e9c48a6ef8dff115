package keeper

import (
	"testing"

	"cosmossdk.io/math"

	"github.com/susulabs/susu-chain/x/savings/types"
)

// TestDeposit tests a normal second-cycle contribution
func TestDeposit(t *testing.T) {
	f := setupKeeper(t)
	f.createWithMembers(t, "pool-a", 3)

	ctx := f.at(1000)
	m, err := f.keeper.Deposit(ctx, testAddr(1), "pool-a", math.NewInt(200))
	if err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	if m.CyclesPaid != 2 || m.LastPaidCycle != 2 {
		t.Errorf("payment not recorded: paid=%d last=%d", m.CyclesPaid, m.LastPaidCycle)
	}
	if !m.TotalPaid.Equal(math.NewInt(400)) {
		t.Errorf("TotalPaid = %s, want 400", m.TotalPaid.String())
	}

	pool := f.keeper.GetPool(f.ctx, "pool-a")
	if !pool.Balance.Equal(math.NewInt(800)) {
		t.Errorf("pool balance = %s, want 800", pool.Balance.String())
	}
}

// TestDepositWrongAmount tests the exact-amount requirement
func TestDepositWrongAmount(t *testing.T) {
	f := setupKeeper(t)
	f.createWithMembers(t, "pool-a", 3)

	ctx := f.at(1000)
	_, err := f.keeper.Deposit(ctx, testAddr(1), "pool-a", math.NewInt(199))
	if !types.ErrWrongDepositAmount.Is(err) {
		t.Errorf("expected wrong-amount error, got %v", err)
	}
	_, err = f.keeper.Deposit(ctx, testAddr(1), "pool-a", math.NewInt(201))
	if !types.ErrWrongDepositAmount.Is(err) {
		t.Errorf("expected wrong-amount error, got %v", err)
	}
}

// TestDepositCycleAlreadyPaid tests double payment within one cycle
func TestDepositCycleAlreadyPaid(t *testing.T) {
	f := setupKeeper(t)
	f.createWithMembers(t, "pool-a", 3)

	// Cycle one was paid on join.
	_, err := f.keeper.Deposit(f.ctx, testAddr(1), "pool-a", math.NewInt(200))
	if !types.ErrCycleAlreadyPaid.Is(err) {
		t.Errorf("expected already-paid error, got %v", err)
	}

	ctx := f.at(1000)
	if _, err := f.keeper.Deposit(ctx, testAddr(1), "pool-a", math.NewInt(200)); err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	_, err = f.keeper.Deposit(ctx, testAddr(1), "pool-a", math.NewInt(200))
	if !types.ErrCycleAlreadyPaid.Is(err) {
		t.Errorf("expected already-paid error, got %v", err)
	}
}

// TestDepositMissedCycle tests that a single-cycle gap blocks plain
// deposits without evicting
func TestDepositMissedCycle(t *testing.T) {
	f := setupKeeper(t)
	f.createWithMembers(t, "pool-a", 3)

	// Cycle 3 with only cycle 1 paid: one full missed cycle.
	ctx := f.at(2000)
	_, err := f.keeper.Deposit(ctx, testAddr(1), "pool-a", math.NewInt(200))
	if !types.ErrMissedCycles.Is(err) {
		t.Errorf("expected missed-cycles error, got %v", err)
	}

	pool := f.keeper.GetPool(f.ctx, "pool-a")
	if pool.Members[testAddr(1)].Removed {
		t.Error("one missed cycle must not evict")
	}
}

// TestDepositWindowClosed tests the 75% cutoff inside a cycle
func TestDepositWindowClosed(t *testing.T) {
	f := setupKeeper(t)
	f.createWithMembers(t, "pool-a", 3)

	// 800s into cycle 2, past 75% of the 1000s cycle.
	ctx := f.at(1800)
	_, err := f.keeper.Deposit(ctx, testAddr(1), "pool-a", math.NewInt(200))
	if !types.ErrCycleWindowClosed.Is(err) {
		t.Errorf("expected window-closed error, got %v", err)
	}
}

// TestDepositFinalCycleDust tests that a late joiner's last contribution
// absorbs rounding dust to land exactly on the per-member target
func TestDepositFinalCycleDust(t *testing.T) {
	f := setupKeeper(t)
	f.createWithMembers(t, "pool-a", 2)

	// Joins at cycle 5: 6 cycles at rate 333, final cycle tops up to 2000.
	joinCtx := f.at(4000)
	m, err := f.keeper.JoinPool(joinCtx, testAddr(3), "pool-a")
	if err != nil {
		t.Fatalf("JoinPool: %v", err)
	}

	for cycle := int64(6); cycle <= 9; cycle++ {
		ctx := f.at((cycle - 1) * 1000)
		if m, err = f.keeper.Deposit(ctx, testAddr(3), "pool-a", math.NewInt(333)); err != nil {
			t.Fatalf("cycle %d deposit: %v", cycle, err)
		}
	}

	final := f.at(9000)
	_, err = f.keeper.Deposit(final, testAddr(3), "pool-a", math.NewInt(333))
	if !types.ErrWrongDepositAmount.Is(err) {
		t.Fatalf("expected the flat rate to be rejected on the final cycle, got %v", err)
	}

	m, err = f.keeper.Deposit(final, testAddr(3), "pool-a", math.NewInt(335))
	if err != nil {
		t.Fatalf("final deposit: %v", err)
	}
	if !m.TotalPaid.Equal(math.NewInt(2000)) {
		t.Errorf("lifetime total = %s, want 2000", m.TotalPaid.String())
	}

	_, err = f.keeper.Deposit(f.at(9000), testAddr(3), "pool-a", math.NewInt(335))
	if !types.ErrCycleAlreadyPaid.Is(err) {
		t.Errorf("expected already-paid after completing the schedule, got %v", err)
	}
}

// TestBatchDeposit tests recovering exactly one missed cycle
func TestBatchDeposit(t *testing.T) {
	f := setupKeeper(t)
	f.createWithMembers(t, "pool-a", 3)

	if _, err := f.keeper.Deposit(f.at(1000), testAddr(1), "pool-a", math.NewInt(200)); err != nil {
		t.Fatalf("cycle 2 deposit: %v", err)
	}

	// Cycle 3 skipped; batch at cycle 4 pays both.
	m, err := f.keeper.BatchDeposit(f.at(3000), testAddr(1), "pool-a", math.NewInt(400))
	if err != nil {
		t.Fatalf("BatchDeposit: %v", err)
	}
	if m.CyclesPaid != 4 || m.LastPaidCycle != 4 {
		t.Errorf("batch not recorded: paid=%d last=%d", m.CyclesPaid, m.LastPaidCycle)
	}
	if !m.TotalPaid.Equal(math.NewInt(800)) {
		t.Errorf("TotalPaid = %s, want 800", m.TotalPaid.String())
	}
}

// TestBatchDepositNotEligible tests batch rejection without a gap
func TestBatchDepositNotEligible(t *testing.T) {
	f := setupKeeper(t)
	f.createWithMembers(t, "pool-a", 3)

	// No missed cycle: cycle 2 with cycle 1 paid.
	_, err := f.keeper.BatchDeposit(f.at(1000), testAddr(1), "pool-a", math.NewInt(400))
	if !types.ErrBatchNotEligible.Is(err) {
		t.Errorf("expected batch-not-eligible error, got %v", err)
	}
}

// TestDepositEvictsDelinquent tests that a two-cycle gap evicts on the
// next deposit attempt
func TestDepositEvictsDelinquent(t *testing.T) {
	f := setupKeeper(t)
	f.createWithMembers(t, "pool-a", 3)

	// Cycle 4 with only cycle 1 paid: two full missed cycles.
	_, err := f.keeper.Deposit(f.at(3000), testAddr(1), "pool-a", math.NewInt(200))
	if !types.ErrMemberRemoved.Is(err) {
		t.Fatalf("expected eviction, got %v", err)
	}

	pool := f.keeper.GetPool(f.ctx, "pool-a")
	m := pool.Members[testAddr(1)]
	if !m.Removed {
		t.Fatal("member not tombstoned")
	}
	if pool.ActiveMembers != 2 {
		t.Errorf("ActiveMembers = %d, want 2", pool.ActiveMembers)
	}
	if !pool.ClaimableOf(testAddr(1)).Equal(math.NewInt(200)) {
		t.Errorf("refund queued = %s, want 200", pool.ClaimableOf(testAddr(1)).String())
	}
	// Two active members support at most one winner.
	if pool.WinnerCount != 1 {
		t.Errorf("WinnerCount = %d, want 1", pool.WinnerCount)
	}
}
