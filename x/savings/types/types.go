package types

import (
	"crypto/rand"
	"encoding/hex"

	"cosmossdk.io/math"
)

// Module name and store key
const (
	ModuleName = "savings"
	StoreKey   = ModuleName
)

// Pool lifecycle phases
const (
	PhaseEnrollment = "enrollment"
	PhaseSaving     = "saving"
	PhaseYielding   = "yielding"
	PhaseDrawing    = "drawing"
	PhaseSettled    = "settled"
	PhaseCancelled  = "cancelled"
)

// Enrollment window policies
const (
	EnrollmentWindowStandard = "standard" // open through cycle totalCycles/2
	EnrollmentWindowStrict   = "strict"   // open through cycle totalCycles/4
	EnrollmentWindowFixed    = "fixed"    // open during cycle 1 only
)

// Prize distribution modes. Only EQUAL is implemented; the others are
// declared extension points and rejected at pool creation.
const (
	DistributionEqual      = "equal"
	DistributionWeighted   = "weighted"
	DistributionGrandPrize = "grand_prize"
)

// Capacity and cycle bounds
const (
	MinCapacity = 3
	MaxCapacity = 50
	MinCycles   = 3
)

// Yield phase windows, selected by cycle granularity
const (
	SecondsPerDay  = int64(24 * 60 * 60)
	SecondsPerWeek = 7 * SecondsPerDay

	YieldWindowDaily   = 7 * SecondsPerDay
	YieldWindowWeekly  = 14 * SecondsPerDay
	YieldWindowDefault = 28 * SecondsPerDay
)

// MinYieldForPrizes is the smallest harvested yield worth running a prize
// draw for. Below it everyone settles at principal.
var MinYieldForPrizes = math.NewInt(100)

// PoolConfig is immutable after pool creation.
type PoolConfig struct {
	PoolID           string   `json:"pool_id"`
	DepositDenom     string   `json:"deposit_denom"`
	TargetAmount     math.Int `json:"target_amount"`
	Capacity         int64    `json:"capacity"`
	TotalCycles      int64    `json:"total_cycles"`
	WinnerCount      int64    `json:"winner_count"`
	CycleDuration    int64    `json:"cycle_duration"` // seconds
	RequireIdentity  bool     `json:"require_identity"`
	EnrollmentWindow string   `json:"enrollment_window"`
	DistributionMode string   `json:"distribution_mode"`
	Treasury         string   `json:"treasury,omitempty"` // protocol fee recipient, optional
}

// Validate rejects fatally misconfigured pools before any lifecycle logic
// can run on them.
func (c *PoolConfig) Validate() error {
	if c.DepositDenom == "" {
		return ErrInvalidConfig.Wrap("deposit denom must be set")
	}
	if c.TargetAmount.IsNil() || !c.TargetAmount.IsPositive() {
		return ErrInvalidConfig.Wrap("target amount must be positive")
	}
	if c.Capacity < MinCapacity || c.Capacity > MaxCapacity {
		return ErrInvalidConfig.Wrapf("capacity must be between %d and %d", MinCapacity, MaxCapacity)
	}
	if c.TotalCycles < MinCycles {
		return ErrInvalidConfig.Wrapf("total cycles must be at least %d", MinCycles)
	}
	if c.WinnerCount < 1 || c.WinnerCount >= c.Capacity {
		return ErrInvalidConfig.Wrap("winner count must be at least 1 and below capacity")
	}
	if c.CycleDuration <= 0 {
		return ErrInvalidConfig.Wrap("cycle duration must be positive")
	}
	switch c.EnrollmentWindow {
	case EnrollmentWindowStandard, EnrollmentWindowStrict, EnrollmentWindowFixed:
	default:
		return ErrInvalidConfig.Wrapf("unknown enrollment window policy %q", c.EnrollmentWindow)
	}
	switch c.DistributionMode {
	case DistributionEqual:
	case DistributionWeighted, DistributionGrandPrize:
		return ErrUnsupportedMode.Wrapf("%s distribution is declared but not implemented", c.DistributionMode)
	default:
		return ErrInvalidConfig.Wrapf("unknown distribution mode %q", c.DistributionMode)
	}
	return nil
}

// YieldWindow maps the cycle granularity to a fixed yield phase length.
// Coarse step function, kept as designed.
func (c *PoolConfig) YieldWindow() int64 {
	switch {
	case c.CycleDuration <= SecondsPerDay:
		return YieldWindowDaily
	case c.CycleDuration <= SecondsPerWeek:
		return YieldWindowWeekly
	default:
		return YieldWindowDefault
	}
}

// Member is one joined address. Never physically deleted; tombstoned via
// Removed.
type Member struct {
	Address       string   `json:"address"`
	JoinCycle     int64    `json:"join_cycle"`
	CyclesPaid    int64    `json:"cycles_paid"`
	Rate          math.Int `json:"rate"` // fixed at join time
	TotalPaid     math.Int `json:"total_paid"`
	LastPaidCycle int64    `json:"last_paid_cycle"`
	Removed       bool     `json:"removed"`
	Claimed       bool     `json:"claimed"`
}

// TotalCycles returns how many cycles this member contributes over,
// counted from their join cycle.
func (m *Member) TotalCycles(poolCycles int64) int64 {
	return RemainingCycles(m.JoinCycle, poolCycles)
}

// Pool is the aggregate root for one savings pool.
type Pool struct {
	Config    PoolConfig `json:"config"`
	Creator   string     `json:"creator"`
	Phase     string     `json:"phase"`
	CreatedAt int64      `json:"created_at"`
	SavingEnd int64      `json:"saving_end"`
	YieldEnd  int64      `json:"yield_end"`

	// Join order drives deterministic iteration during settlement.
	MemberOrder []string            `json:"member_order"`
	Members     map[string]*Member  `json:"members"`
	Claimable   map[string]math.Int `json:"claimable"`

	ActiveMembers int64    `json:"active_members"`
	WinnerCount   int64    `json:"winner_count"` // shrinks as members leave
	Balance       math.Int `json:"balance"`      // deposit-asset units held for this pool

	// Draw episode state
	RandomnessRequestID string   `json:"randomness_request_id,omitempty"`
	DrawSeed            uint64   `json:"draw_seed,omitempty"`
	SeedReceived        bool     `json:"seed_received,omitempty"`
	FundsReturned       bool     `json:"funds_returned,omitempty"`
	ReturnedPrincipal   math.Int `json:"returned_principal"`
	ReturnedYield       math.Int `json:"returned_yield"`
	Winners             []string `json:"winners,omitempty"`
	CancelReason        string   `json:"cancel_reason,omitempty"`
}

// NewPool creates a pool in the enrollment phase. The config must already
// be validated.
func NewPool(config PoolConfig, creator string, now int64) *Pool {
	savingEnd := now + config.TotalCycles*config.CycleDuration
	return &Pool{
		Config:            config,
		Creator:           creator,
		Phase:             PhaseEnrollment,
		CreatedAt:         now,
		SavingEnd:         savingEnd,
		YieldEnd:          savingEnd + config.YieldWindow(),
		MemberOrder:       []string{},
		Members:           map[string]*Member{},
		Claimable:         map[string]math.Int{},
		WinnerCount:       config.WinnerCount,
		Balance:           math.ZeroInt(),
		ReturnedPrincipal: math.ZeroInt(),
		ReturnedYield:     math.ZeroInt(),
	}
}

// CurrentCycle returns the pool's 1-based cycle number at time now.
func (p *Pool) CurrentCycle(now int64) int64 {
	return CurrentCycle(p.CreatedAt, now, p.Config.CycleDuration)
}

// InCycleWindow reports whether deposits are still accepted in the cycle
// containing now. The window closes at 75% of the cycle's duration to
// leave room for eviction and batch settlement.
func (p *Pool) InCycleWindow(now int64) bool {
	if now < p.CreatedAt {
		return false
	}
	elapsed := (now - p.CreatedAt) % p.Config.CycleDuration
	return elapsed*4 <= p.Config.CycleDuration*3
}

// EnrollmentOpen reports whether the enrollment window policy still admits
// joiners at time now.
func (p *Pool) EnrollmentOpen(now int64) bool {
	return WithinEnrollmentWindow(p.CurrentCycle(now), p.Config.TotalCycles, p.Config.EnrollmentWindow)
}

// IsTerminal reports whether the pool reached a terminal phase.
func (p *Pool) IsTerminal() bool {
	return p.Phase == PhaseSettled || p.Phase == PhaseCancelled
}

// EligibleMembers returns non-removed members in join order.
func (p *Pool) EligibleMembers() []*Member {
	eligible := make([]*Member, 0, len(p.MemberOrder))
	for _, addr := range p.MemberOrder {
		m := p.Members[addr]
		if m != nil && !m.Removed {
			eligible = append(eligible, m)
		}
	}
	return eligible
}

// AddClaimable credits a member's claimable balance.
func (p *Pool) AddClaimable(addr string, amount math.Int) {
	cur, ok := p.Claimable[addr]
	if !ok {
		cur = math.ZeroInt()
	}
	p.Claimable[addr] = cur.Add(amount)
}

// ClaimableOf returns a member's claimable balance, zero if none.
func (p *Pool) ClaimableOf(addr string) math.Int {
	cur, ok := p.Claimable[addr]
	if !ok {
		return math.ZeroInt()
	}
	return cur
}

// ExpectedDeposit returns what a member owes for their next cycle. The
// final cycle amount absorbs integer-division dust so the lifetime total
// equals the per-member target exactly.
func (p *Pool) ExpectedDeposit(m *Member) (math.Int, error) {
	perMember, err := PerMemberTarget(p.Config.TargetAmount, p.Config.Capacity)
	if err != nil {
		return math.ZeroInt(), err
	}
	if m.CyclesPaid >= m.TotalCycles(p.Config.TotalCycles) {
		return math.ZeroInt(), ErrAllCyclesPaid
	}
	if m.CyclesPaid == m.TotalCycles(p.Config.TotalCycles)-1 {
		return FinalCycleAmount(perMember, m.Rate, m.CyclesPaid)
	}
	return m.Rate, nil
}

// GeneratePoolID returns a fresh pool identifier.
func GeneratePoolID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return "pool-" + hex.EncodeToString(b)
}
