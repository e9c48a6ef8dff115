package types

import (
	"testing"

	"cosmossdk.io/math"
)

func validConfig() PoolConfig {
	return PoolConfig{
		PoolID:           "pool-test",
		DepositDenom:     "uusdc",
		TargetAmount:     math.NewInt(12000),
		Capacity:         6,
		TotalCycles:      10,
		WinnerCount:      1,
		CycleDuration:    SecondsPerWeek,
		EnrollmentWindow: EnrollmentWindowStandard,
		DistributionMode: DistributionEqual,
	}
}

// TestConfigValidate tests the creation-time configuration checks
func TestConfigValidate(t *testing.T) {
	base := validConfig()
	if err := base.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*PoolConfig)
	}{
		{"empty denom", func(c *PoolConfig) { c.DepositDenom = "" }},
		{"zero target", func(c *PoolConfig) { c.TargetAmount = math.ZeroInt() }},
		{"negative target", func(c *PoolConfig) { c.TargetAmount = math.NewInt(-1) }},
		{"capacity below floor", func(c *PoolConfig) { c.Capacity = 2 }},
		{"capacity above cap", func(c *PoolConfig) { c.Capacity = 51 }},
		{"too few cycles", func(c *PoolConfig) { c.TotalCycles = 2 }},
		{"zero winners", func(c *PoolConfig) { c.WinnerCount = 0 }},
		{"winners at capacity", func(c *PoolConfig) { c.WinnerCount = 6 }},
		{"zero cycle duration", func(c *PoolConfig) { c.CycleDuration = 0 }},
		{"unknown window", func(c *PoolConfig) { c.EnrollmentWindow = "open" }},
		{"unknown mode", func(c *PoolConfig) { c.DistributionMode = "raffle" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := validConfig()
			tc.mutate(&c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

// TestConfigDeclaredModesRejected tests that declared but unimplemented
// distribution modes fail with the unsupported-mode error
func TestConfigDeclaredModesRejected(t *testing.T) {
	for _, mode := range []string{DistributionWeighted, DistributionGrandPrize} {
		c := validConfig()
		c.DistributionMode = mode
		err := c.Validate()
		if err == nil {
			t.Fatalf("mode %s: expected error", mode)
		}
		if !ErrUnsupportedMode.Is(err) {
			t.Errorf("mode %s: expected unsupported-mode error, got %v", mode, err)
		}
	}
}

// TestYieldWindow tests the cycle-granularity step function
func TestYieldWindow(t *testing.T) {
	cases := []struct {
		name     string
		duration int64
		want     int64
	}{
		{"hourly cycles", 3600, YieldWindowDaily},
		{"daily cycles", SecondsPerDay, YieldWindowDaily},
		{"weekly cycles", SecondsPerWeek, YieldWindowWeekly},
		{"biweekly cycles", 2 * SecondsPerWeek, YieldWindowDefault},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := validConfig()
			c.CycleDuration = tc.duration
			if got := c.YieldWindow(); got != tc.want {
				t.Errorf("YieldWindow() = %d, want %d", got, tc.want)
			}
		})
	}
}

// TestNewPoolSchedule tests the derived saving and yield deadlines
func TestNewPoolSchedule(t *testing.T) {
	c := validConfig()
	now := int64(1_700_000_000)
	pool := NewPool(c, "cosmos1creator", now)

	if pool.Phase != PhaseEnrollment {
		t.Errorf("expected enrollment phase, got %s", pool.Phase)
	}
	wantSavingEnd := now + c.TotalCycles*c.CycleDuration
	if pool.SavingEnd != wantSavingEnd {
		t.Errorf("SavingEnd = %d, want %d", pool.SavingEnd, wantSavingEnd)
	}
	if pool.YieldEnd != wantSavingEnd+YieldWindowWeekly {
		t.Errorf("YieldEnd = %d, want %d", pool.YieldEnd, wantSavingEnd+YieldWindowWeekly)
	}
	if pool.WinnerCount != c.WinnerCount {
		t.Errorf("WinnerCount = %d, want %d", pool.WinnerCount, c.WinnerCount)
	}
}

// TestInCycleWindow tests the 75% contribution window inside each cycle
func TestInCycleWindow(t *testing.T) {
	c := validConfig()
	c.CycleDuration = 1000
	pool := NewPool(c, "cosmos1creator", 0)

	cases := []struct {
		now  int64
		want bool
	}{
		{0, true},
		{750, true},  // exactly 75%
		{751, false}, // past the window
		{999, false},
		{1000, true}, // next cycle opens
		{1750, true},
		{1751, false},
	}

	for _, tc := range cases {
		if got := pool.InCycleWindow(tc.now); got != tc.want {
			t.Errorf("InCycleWindow(%d) = %v, want %v", tc.now, got, tc.want)
		}
	}
}

// TestExpectedDeposit tests rate scheduling including the dust-absorbing
// final cycle
func TestExpectedDeposit(t *testing.T) {
	c := validConfig()
	c.TargetAmount = math.NewInt(10000)
	c.Capacity = 3
	c.TotalCycles = 7
	pool := NewPool(c, "cosmos1creator", 0)

	// Per-member target 3333, base rate 476
	m := &Member{
		Address:   "cosmos1member",
		JoinCycle: 1,
		Rate:      math.NewInt(476),
		TotalPaid: math.ZeroInt(),
	}

	total := math.ZeroInt()
	for i := int64(0); i < 7; i++ {
		due, err := pool.ExpectedDeposit(m)
		if err != nil {
			t.Fatalf("cycle %d: unexpected error: %v", i+1, err)
		}
		total = total.Add(due)
		m.CyclesPaid++
	}

	if !total.Equal(math.NewInt(3333)) {
		t.Errorf("lifetime deposits %s, want 3333", total.String())
	}

	if _, err := pool.ExpectedDeposit(m); err == nil {
		t.Error("expected error once all cycles are paid")
	}
}
