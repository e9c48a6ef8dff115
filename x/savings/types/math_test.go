package types

import (
	"testing"

	"cosmossdk.io/math"
)

// TestPerMemberTarget tests the per-member share of the pool target
func TestPerMemberTarget(t *testing.T) {
	got, err := PerMemberTarget(math.NewInt(12000), 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(math.NewInt(2000)) {
		t.Errorf("expected 2000, got %s", got.String())
	}

	// Dust from integer division is absorbed by the final cycle, not here
	got, err = PerMemberTarget(math.NewInt(10000), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(math.NewInt(3333)) {
		t.Errorf("expected 3333, got %s", got.String())
	}

	if _, err := PerMemberTarget(math.NewInt(1), 0); err == nil {
		t.Error("expected error for zero capacity")
	}
}

// TestExactLifetimeTotal tests that rate*cycles plus the final cycle
// amount always equals the per-member target exactly
func TestExactLifetimeTotal(t *testing.T) {
	cases := []struct {
		name     string
		target   int64
		capacity int64
		cycles   int64
	}{
		{"even split", 12000, 6, 10},
		{"dusty target", 10000, 3, 7},
		{"prime everything", 9973, 7, 11},
		{"tiny pool", 100, 3, 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			perMember, err := PerMemberTarget(math.NewInt(tc.target), tc.capacity)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			rate, err := BaseRate(perMember, tc.cycles)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			paid := rate.MulRaw(tc.cycles - 1)
			final, err := FinalCycleAmount(perMember, rate, tc.cycles-1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			total := paid.Add(final)
			if !total.Equal(perMember) {
				t.Errorf("lifetime total %s != per-member target %s", total.String(), perMember.String())
			}
		})
	}
}

// TestFinalCycleAmountOverpaid tests the overpayment guard
func TestFinalCycleAmountOverpaid(t *testing.T) {
	_, err := FinalCycleAmount(math.NewInt(2000), math.NewInt(300), 7)
	if err == nil {
		t.Error("expected error when payments exceed per-member target")
	}
}

// TestLateJoinerRate tests the catch-up rate for late joiners
func TestLateJoinerRate(t *testing.T) {
	perMember := math.NewInt(2000)

	rate, err := LateJoinerRate(perMember, 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rate.Equal(math.NewInt(333)) {
		t.Errorf("expected 333, got %s", rate.String())
	}

	if _, err := LateJoinerRate(perMember, 0); err == nil {
		t.Error("expected error for zero remaining cycles")
	}
}

// TestWithinTwoXCap tests the strict 2x rate cap boundary
func TestWithinTwoXCap(t *testing.T) {
	base := math.NewInt(200)

	cases := []struct {
		name string
		late int64
		want bool
	}{
		{"below cap", 399, true},
		{"exactly twice is rejected", 400, false},
		{"above cap", 401, false},
		{"equal to base", 200, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := WithinTwoXCap(math.NewInt(tc.late), base); got != tc.want {
				t.Errorf("WithinTwoXCap(%d, 200) = %v, want %v", tc.late, got, tc.want)
			}
		})
	}
}

// TestWithinEnrollmentWindow tests each enrollment policy's cutoff
func TestWithinEnrollmentWindow(t *testing.T) {
	cases := []struct {
		name   string
		cycle  int64
		total  int64
		policy string
		want   bool
	}{
		{"standard midpoint open", 5, 10, EnrollmentWindowStandard, true},
		{"standard past midpoint", 6, 10, EnrollmentWindowStandard, false},
		{"standard odd cycles truncate", 3, 7, EnrollmentWindowStandard, true},
		{"standard odd cycles closed", 4, 7, EnrollmentWindowStandard, false},
		{"strict quarter open", 2, 10, EnrollmentWindowStrict, true},
		{"strict quarter closed", 3, 10, EnrollmentWindowStrict, false},
		{"fixed first cycle", 1, 10, EnrollmentWindowFixed, true},
		{"fixed second cycle", 2, 10, EnrollmentWindowFixed, false},
		{"unknown policy", 1, 10, "open", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := WithinEnrollmentWindow(tc.cycle, tc.total, tc.policy); got != tc.want {
				t.Errorf("WithinEnrollmentWindow(%d, %d, %s) = %v, want %v",
					tc.cycle, tc.total, tc.policy, got, tc.want)
			}
		})
	}
}

// TestMeetsMinFillThreshold tests the half-of-capacity fill rule with the
// absolute three-member floor
func TestMeetsMinFillThreshold(t *testing.T) {
	cases := []struct {
		active   int64
		capacity int64
		want     bool
	}{
		{2, 3, false}, // below absolute floor
		{3, 3, true},
		{3, 6, true}, // exactly half
		{2, 4, false},
		{9, 20, false}, // just under half
		{10, 20, true},
		{3, 7, false}, // half of 7 rounds up
		{4, 7, true},
	}

	for _, tc := range cases {
		if got := MeetsMinFillThreshold(tc.active, tc.capacity); got != tc.want {
			t.Errorf("MeetsMinFillThreshold(%d, %d) = %v, want %v",
				tc.active, tc.capacity, got, tc.want)
		}
	}
}

// TestAdjustedWinnerCount tests winner count clamping as members leave
func TestAdjustedWinnerCount(t *testing.T) {
	cases := []struct {
		configured int64
		active     int64
		want       int64
	}{
		{3, 10, 3},
		{3, 3, 2}, // clamp to active-1
		{3, 4, 3},
		{1, 2, 1},
		{5, 1, 0}, // cancellation signal
		{5, 0, 0},
	}

	for _, tc := range cases {
		if got := AdjustedWinnerCount(tc.configured, tc.active); got != tc.want {
			t.Errorf("AdjustedWinnerCount(%d, %d) = %d, want %d",
				tc.configured, tc.active, got, tc.want)
		}
	}
}

// TestFeeAndShareConservation tests that the protocol fee and winners
// share always reassemble the harvested yield exactly
func TestFeeAndShareConservation(t *testing.T) {
	yields := []int64{0, 1, 19, 20, 100, 300, 9999, 123456789}

	for _, y := range yields {
		yield := math.NewInt(y)
		fee := ProtocolFee(yield)
		share := WinnersShare(yield)
		if !fee.Add(share).Equal(yield) {
			t.Errorf("fee %s + share %s != yield %s", fee.String(), share.String(), yield.String())
		}
	}

	// 500 bps of 300 is exactly 15
	if fee := ProtocolFee(math.NewInt(300)); !fee.Equal(math.NewInt(15)) {
		t.Errorf("expected fee 15 on yield 300, got %s", fee.String())
	}
}

// TestCurrentCycle tests 1-based cycle derivation from block time
func TestCurrentCycle(t *testing.T) {
	start := int64(1000)
	duration := int64(100)

	cases := []struct {
		now  int64
		want int64
	}{
		{999, 0}, // before pool start
		{1000, 1},
		{1099, 1},
		{1100, 2},
		{1999, 10},
		{2000, 11},
	}

	for _, tc := range cases {
		if got := CurrentCycle(start, tc.now, duration); got != tc.want {
			t.Errorf("CurrentCycle(now=%d) = %d, want %d", tc.now, got, tc.want)
		}
	}

	if got := CurrentCycle(start, 1500, 0); got != 0 {
		t.Errorf("expected 0 for zero duration, got %d", got)
	}
}

// TestRemainingCycles tests remaining cycle counting, inclusive of the
// current cycle
func TestRemainingCycles(t *testing.T) {
	cases := []struct {
		current int64
		total   int64
		want    int64
	}{
		{1, 10, 10},
		{5, 10, 6},
		{10, 10, 1},
		{11, 10, 0},
	}

	for _, tc := range cases {
		if got := RemainingCycles(tc.current, tc.total); got != tc.want {
			t.Errorf("RemainingCycles(%d, %d) = %d, want %d", tc.current, tc.total, got, tc.want)
		}
	}
}
