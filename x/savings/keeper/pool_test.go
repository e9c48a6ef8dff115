package keeper

import (
	"testing"

	"cosmossdk.io/math"

	"github.com/susulabs/susu-chain/x/savings/types"
)

// TestCreatePool tests pool creation and phase initialization
func TestCreatePool(t *testing.T) {
	f := setupKeeper(t)

	pool, err := f.keeper.CreatePool(f.ctx, testAddr(0xff), testConfig("pool-a"))
	if err != nil {
		t.Fatalf("CreatePool: %v", err)
	}
	if pool.Phase != types.PhaseEnrollment {
		t.Errorf("expected enrollment phase, got %s", pool.Phase)
	}
	if pool.SavingEnd != 1_700_000_000+10*1000 {
		t.Errorf("SavingEnd = %d, want %d", pool.SavingEnd, 1_700_000_000+10*1000)
	}

	stored := f.keeper.GetPool(f.ctx, "pool-a")
	if stored == nil {
		t.Fatal("pool not persisted")
	}
	if stored.Config.Capacity != 6 {
		t.Errorf("stored capacity = %d, want 6", stored.Config.Capacity)
	}
	if !f.keeper.IsRegisteredPool(f.ctx, "pool-a") {
		t.Error("created pool should be registered")
	}
}

// TestCreatePoolGeneratesID tests that an empty pool ID is filled in
func TestCreatePoolGeneratesID(t *testing.T) {
	f := setupKeeper(t)

	cfg := testConfig("")
	pool, err := f.keeper.CreatePool(f.ctx, testAddr(0xff), cfg)
	if err != nil {
		t.Fatalf("CreatePool: %v", err)
	}
	if pool.Config.PoolID == "" {
		t.Fatal("expected a generated pool ID")
	}
	if f.keeper.GetPool(f.ctx, pool.Config.PoolID) == nil {
		t.Error("generated pool not retrievable")
	}
}

// TestCreatePoolRejectsDuplicateID tests duplicate pool IDs
func TestCreatePoolRejectsDuplicateID(t *testing.T) {
	f := setupKeeper(t)

	if _, err := f.keeper.CreatePool(f.ctx, testAddr(0xff), testConfig("pool-a")); err != nil {
		t.Fatalf("CreatePool: %v", err)
	}
	if _, err := f.keeper.CreatePool(f.ctx, testAddr(0xff), testConfig("pool-a")); err == nil {
		t.Error("expected duplicate pool ID to be rejected")
	}
}

// TestCreatePoolRejectsInvalidConfig tests that validation runs at creation
func TestCreatePoolRejectsInvalidConfig(t *testing.T) {
	f := setupKeeper(t)

	cfg := testConfig("pool-bad")
	cfg.TargetAmount = math.NewInt(-5)
	if _, err := f.keeper.CreatePool(f.ctx, testAddr(0xff), cfg); err == nil {
		t.Error("expected invalid config to be rejected")
	}
	if f.keeper.GetPool(f.ctx, "pool-bad") != nil {
		t.Error("rejected pool must not be persisted")
	}
}
