package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Susu Metrics Collector
// Provides comprehensive metrics for monitoring

var (
	// Singleton collector
	collector     *Collector
	collectorOnce sync.Once
)

// Collector holds all Susu metrics
type Collector struct {
	// Pool lifecycle metrics
	PoolsTotal       *prometheus.CounterVec
	PoolsByPhase     *prometheus.GaugeVec
	PhaseTransitions *prometheus.CounterVec
	PoolsCancelled   *prometheus.CounterVec
	PoolFillRatio    *prometheus.HistogramVec

	// Membership metrics
	MembersJoined  *prometheus.CounterVec
	MembersEvicted *prometheus.CounterVec
	EmergencyExits *prometheus.CounterVec
	ActiveMembers  *prometheus.GaugeVec

	// Deposit metrics
	DepositsTotal   *prometheus.CounterVec
	DepositValue    *prometheus.CounterVec
	BatchRecoveries *prometheus.CounterVec
	DepositLatency  *prometheus.HistogramVec

	// Draw and settlement metrics
	DrawsRequested *prometheus.CounterVec
	DrawsFulfilled *prometheus.CounterVec
	PrizesAwarded  *prometheus.CounterVec
	PrizeValue     *prometheus.CounterVec
	ProtocolFees   *prometheus.CounterVec
	ClaimsTotal    *prometheus.CounterVec
	ClaimValue     *prometheus.CounterVec

	// Vault metrics
	VaultSupplied      *prometheus.CounterVec
	VaultReturned      *prometheus.CounterVec
	VaultYield         *prometheus.CounterVec
	VaultDelays        *prometheus.CounterVec
	VaultRetries       *prometheus.CounterVec
	VaultActiveRecords *prometheus.GaugeVec

	// WebSocket metrics
	WSConnectionsActive *prometheus.GaugeVec
	WSMessagesTotal     *prometheus.CounterVec
	WSMessageLatency    *prometheus.HistogramVec
	WSSubscriptions     *prometheus.GaugeVec

	// API metrics
	APIRequestsTotal  *prometheus.CounterVec
	APIRequestLatency *prometheus.HistogramVec
	APIErrorsTotal    *prometheus.CounterVec
	RateLimitHits     *prometheus.CounterVec

	// System metrics
	ActiveUsers prometheus.Gauge
	BlockHeight prometheus.Gauge
	BlockTime   *prometheus.HistogramVec
	TxPoolSize  prometheus.Gauge
	PeerCount   prometheus.Gauge
}

// GetCollector returns the singleton metrics collector
func GetCollector() *Collector {
	collectorOnce.Do(func() {
		collector = newCollector()
	})
	return collector
}

// newCollector creates a new metrics collector
func newCollector() *Collector {
	c := &Collector{}

	// Pool lifecycle metrics
	c.PoolsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "susu",
			Subsystem: "pools",
			Name:      "total",
			Help:      "Total number of pools created",
		},
		[]string{"denom", "enrollment_window"},
	)

	c.PoolsByPhase = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "susu",
			Subsystem: "pools",
			Name:      "by_phase",
			Help:      "Number of pools per lifecycle phase",
		},
		[]string{"phase"},
	)

	c.PhaseTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "susu",
			Subsystem: "pools",
			Name:      "phase_transitions_total",
			Help:      "Total phase transitions",
		},
		[]string{"from", "to"},
	)

	c.PoolsCancelled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "susu",
			Subsystem: "pools",
			Name:      "cancelled_total",
			Help:      "Total pools cancelled",
		},
		[]string{"reason"},
	)

	c.PoolFillRatio = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "susu",
			Subsystem: "pools",
			Name:      "fill_ratio",
			Help:      "Members enrolled over capacity when enrollment closes (0-1)",
			Buckets:   []float64{0.1, 0.25, 0.5, 0.75, 0.9, 1.0},
		},
		[]string{"enrollment_window"},
	)

	// Membership metrics
	c.MembersJoined = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "susu",
			Subsystem: "members",
			Name:      "joined_total",
			Help:      "Total members joined across pools",
		},
		[]string{"denom"},
	)

	c.MembersEvicted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "susu",
			Subsystem: "members",
			Name:      "evicted_total",
			Help:      "Total members evicted for missed cycles",
		},
		[]string{"denom"},
	)

	c.EmergencyExits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "susu",
			Subsystem: "members",
			Name:      "emergency_exits_total",
			Help:      "Total emergency withdrawals",
		},
		[]string{"denom"},
	)

	c.ActiveMembers = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "susu",
			Subsystem: "members",
			Name:      "active",
			Help:      "Active members per pool",
		},
		[]string{"pool_id"},
	)

	// Deposit metrics
	c.DepositsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "susu",
			Subsystem: "deposits",
			Name:      "total",
			Help:      "Total cycle deposits collected",
		},
		[]string{"denom"},
	)

	c.DepositValue = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "susu",
			Subsystem: "deposits",
			Name:      "value",
			Help:      "Total deposit value collected",
		},
		[]string{"denom"},
	)

	c.BatchRecoveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "susu",
			Subsystem: "deposits",
			Name:      "batch_recoveries_total",
			Help:      "Total missed cycles recovered through batch deposits",
		},
		[]string{"denom"},
	)

	c.DepositLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "susu",
			Subsystem: "deposits",
			Name:      "latency_ms",
			Help:      "Deposit processing latency in milliseconds",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250},
		},
		[]string{"denom"},
	)

	// Draw and settlement metrics
	c.DrawsRequested = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "susu",
			Subsystem: "draws",
			Name:      "requested_total",
			Help:      "Total randomness requests issued",
		},
		[]string{"denom"},
	)

	c.DrawsFulfilled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "susu",
			Subsystem: "draws",
			Name:      "fulfilled_total",
			Help:      "Total draws fulfilled by the randomness provider",
		},
		[]string{"denom"},
	)

	c.PrizesAwarded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "susu",
			Subsystem: "draws",
			Name:      "prizes_total",
			Help:      "Total prizes awarded",
		},
		[]string{"denom"},
	)

	c.PrizeValue = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "susu",
			Subsystem: "draws",
			Name:      "prize_value",
			Help:      "Total prize value distributed",
		},
		[]string{"denom"},
	)

	c.ProtocolFees = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "susu",
			Subsystem: "draws",
			Name:      "protocol_fees",
			Help:      "Total protocol fees taken from yield",
		},
		[]string{"denom"},
	)

	c.ClaimsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "susu",
			Subsystem: "claims",
			Name:      "total",
			Help:      "Total claims paid out",
		},
		[]string{"denom"},
	)

	c.ClaimValue = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "susu",
			Subsystem: "claims",
			Name:      "value",
			Help:      "Total claim value paid out",
		},
		[]string{"denom"},
	)

	// Vault metrics
	c.VaultSupplied = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "susu",
			Subsystem: "vault",
			Name:      "supplied",
			Help:      "Total principal supplied to the yield source",
		},
		[]string{"denom"},
	)

	c.VaultReturned = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "susu",
			Subsystem: "vault",
			Name:      "returned",
			Help:      "Total principal returned from the yield source",
		},
		[]string{"denom"},
	)

	c.VaultYield = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "susu",
			Subsystem: "vault",
			Name:      "yield",
			Help:      "Total yield harvested",
		},
		[]string{"denom"},
	)

	c.VaultDelays = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "susu",
			Subsystem: "vault",
			Name:      "delays_total",
			Help:      "Total withdrawals delayed by yield source illiquidity",
		},
		[]string{"denom"},
	)

	c.VaultRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "susu",
			Subsystem: "vault",
			Name:      "retries_total",
			Help:      "Total withdrawal retries attempted",
		},
		[]string{"denom", "outcome"},
	)

	c.VaultActiveRecords = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "susu",
			Subsystem: "vault",
			Name:      "active_records",
			Help:      "Number of active custody records",
		},
		[]string{"denom"},
	)

	// WebSocket metrics
	c.WSConnectionsActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "susu",
			Subsystem: "websocket",
			Name:      "connections_active",
			Help:      "Number of active WebSocket connections",
		},
		[]string{},
	)

	c.WSMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "susu",
			Subsystem: "websocket",
			Name:      "messages_total",
			Help:      "Total WebSocket messages sent",
		},
		[]string{"channel"},
	)

	c.WSMessageLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "susu",
			Subsystem: "websocket",
			Name:      "message_latency_ms",
			Help:      "WebSocket message latency in milliseconds",
			Buckets:   []float64{1, 5, 10, 25, 50, 100},
		},
		[]string{"channel"},
	)

	c.WSSubscriptions = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "susu",
			Subsystem: "websocket",
			Name:      "subscriptions",
			Help:      "Number of active subscriptions per channel",
		},
		[]string{"channel"},
	)

	// API metrics
	c.APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "susu",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total API requests",
		},
		[]string{"method", "path", "status"},
	)

	c.APIRequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "susu",
			Subsystem: "api",
			Name:      "request_latency_ms",
			Help:      "API request latency in milliseconds",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"method", "path"},
	)

	c.APIErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "susu",
			Subsystem: "api",
			Name:      "errors_total",
			Help:      "Total API errors",
		},
		[]string{"method", "path", "error_type"},
	)

	c.RateLimitHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "susu",
			Subsystem: "api",
			Name:      "rate_limit_hits",
			Help:      "Total rate limit hits",
		},
		[]string{"limit_type"},
	)

	// System metrics
	c.ActiveUsers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "susu",
			Subsystem: "system",
			Name:      "active_users",
			Help:      "Number of active users",
		},
	)

	c.BlockHeight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "susu",
			Subsystem: "system",
			Name:      "block_height",
			Help:      "Current block height",
		},
	)

	c.BlockTime = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "susu",
			Subsystem: "system",
			Name:      "block_time_ms",
			Help:      "Block time in milliseconds",
			Buckets:   []float64{100, 250, 500, 1000, 2000, 5000},
		},
		[]string{},
	)

	c.TxPoolSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "susu",
			Subsystem: "system",
			Name:      "tx_pool_size",
			Help:      "Transaction pool size",
		},
	)

	c.PeerCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "susu",
			Subsystem: "system",
			Name:      "peer_count",
			Help:      "Number of connected peers",
		},
	)

	// Register all metrics
	c.registerAll()

	return c
}

// registerAll registers all metrics with Prometheus
func (c *Collector) registerAll() {
	// Pool lifecycle metrics
	prometheus.MustRegister(c.PoolsTotal)
	prometheus.MustRegister(c.PoolsByPhase)
	prometheus.MustRegister(c.PhaseTransitions)
	prometheus.MustRegister(c.PoolsCancelled)
	prometheus.MustRegister(c.PoolFillRatio)

	// Membership metrics
	prometheus.MustRegister(c.MembersJoined)
	prometheus.MustRegister(c.MembersEvicted)
	prometheus.MustRegister(c.EmergencyExits)
	prometheus.MustRegister(c.ActiveMembers)

	// Deposit metrics
	prometheus.MustRegister(c.DepositsTotal)
	prometheus.MustRegister(c.DepositValue)
	prometheus.MustRegister(c.BatchRecoveries)
	prometheus.MustRegister(c.DepositLatency)

	// Draw and settlement metrics
	prometheus.MustRegister(c.DrawsRequested)
	prometheus.MustRegister(c.DrawsFulfilled)
	prometheus.MustRegister(c.PrizesAwarded)
	prometheus.MustRegister(c.PrizeValue)
	prometheus.MustRegister(c.ProtocolFees)
	prometheus.MustRegister(c.ClaimsTotal)
	prometheus.MustRegister(c.ClaimValue)

	// Vault metrics
	prometheus.MustRegister(c.VaultSupplied)
	prometheus.MustRegister(c.VaultReturned)
	prometheus.MustRegister(c.VaultYield)
	prometheus.MustRegister(c.VaultDelays)
	prometheus.MustRegister(c.VaultRetries)
	prometheus.MustRegister(c.VaultActiveRecords)

	// WebSocket metrics
	prometheus.MustRegister(c.WSConnectionsActive)
	prometheus.MustRegister(c.WSMessagesTotal)
	prometheus.MustRegister(c.WSMessageLatency)
	prometheus.MustRegister(c.WSSubscriptions)

	// API metrics
	prometheus.MustRegister(c.APIRequestsTotal)
	prometheus.MustRegister(c.APIRequestLatency)
	prometheus.MustRegister(c.APIErrorsTotal)
	prometheus.MustRegister(c.RateLimitHits)

	// System metrics
	prometheus.MustRegister(c.ActiveUsers)
	prometheus.MustRegister(c.BlockHeight)
	prometheus.MustRegister(c.BlockTime)
	prometheus.MustRegister(c.TxPoolSize)
	prometheus.MustRegister(c.PeerCount)
}

// ============ Recording Helpers ============

// RecordPoolCreated records a pool creation
func (c *Collector) RecordPoolCreated(denom, enrollmentWindow string) {
	c.PoolsTotal.WithLabelValues(denom, enrollmentWindow).Inc()
}

// RecordPhaseTransition records a lifecycle transition
func (c *Collector) RecordPhaseTransition(from, to string) {
	c.PhaseTransitions.WithLabelValues(from, to).Inc()
}

// RecordCancellation records a pool cancellation
func (c *Collector) RecordCancellation(reason string) {
	c.PoolsCancelled.WithLabelValues(reason).Inc()
}

// RecordDeposit records a collected cycle deposit
func (c *Collector) RecordDeposit(denom string, value float64, latencyMs float64) {
	c.DepositsTotal.WithLabelValues(denom).Inc()
	c.DepositValue.WithLabelValues(denom).Add(value)
	c.DepositLatency.WithLabelValues(denom).Observe(latencyMs)
}

// RecordEviction records a member eviction
func (c *Collector) RecordEviction(denom string) {
	c.MembersEvicted.WithLabelValues(denom).Inc()
}

// RecordDraw records a fulfilled draw and the prizes it distributed
func (c *Collector) RecordDraw(denom string, winners int, prizeValue, fee float64) {
	c.DrawsFulfilled.WithLabelValues(denom).Inc()
	c.PrizesAwarded.WithLabelValues(denom).Add(float64(winners))
	c.PrizeValue.WithLabelValues(denom).Add(prizeValue)
	if fee > 0 {
		c.ProtocolFees.WithLabelValues(denom).Add(fee)
	}
}

// RecordClaim records a paid claim
func (c *Collector) RecordClaim(denom string, value float64) {
	c.ClaimsTotal.WithLabelValues(denom).Inc()
	c.ClaimValue.WithLabelValues(denom).Add(value)
}

// RecordVaultSupply records principal handed to the yield source
func (c *Collector) RecordVaultSupply(denom string, value float64) {
	c.VaultSupplied.WithLabelValues(denom).Add(value)
	c.VaultActiveRecords.WithLabelValues(denom).Inc()
}

// RecordVaultReturn records principal and yield coming back
func (c *Collector) RecordVaultReturn(denom string, principal, yield float64) {
	c.VaultReturned.WithLabelValues(denom).Add(principal)
	c.VaultYield.WithLabelValues(denom).Add(yield)
	c.VaultActiveRecords.WithLabelValues(denom).Dec()
}

// RecordVaultDelay records an illiquidity delay
func (c *Collector) RecordVaultDelay(denom string) {
	c.VaultDelays.WithLabelValues(denom).Inc()
}

// RecordAPIRequest records an API request
func (c *Collector) RecordAPIRequest(method, path, status string, latencyMs float64) {
	c.APIRequestsTotal.WithLabelValues(method, path, status).Inc()
	c.APIRequestLatency.WithLabelValues(method, path).Observe(latencyMs)
}

// RecordWSConnection records WebSocket connection changes
func (c *Collector) RecordWSConnection(delta int) {
	c.WSConnectionsActive.WithLabelValues().Add(float64(delta))
}

// RecordWSMessage records a WebSocket message
func (c *Collector) RecordWSMessage(channel string, latencyMs float64) {
	c.WSMessagesTotal.WithLabelValues(channel).Inc()
	c.WSMessageLatency.WithLabelValues(channel).Observe(latencyMs)
}

// UpdateSystemMetrics updates system-level metrics
func (c *Collector) UpdateSystemMetrics(blockHeight int64, txPoolSize int, peerCount int) {
	c.BlockHeight.Set(float64(blockHeight))
	c.TxPoolSize.Set(float64(txPoolSize))
	c.PeerCount.Set(float64(peerCount))
}

// ============ HTTP Handler ============

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for measuring latency
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ElapsedMs returns the elapsed time in milliseconds
func (t *Timer) ElapsedMs() float64 {
	return float64(time.Since(t.start).Microseconds()) / 1000.0
}
