package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/susulabs/susu-chain/api/handlers"
	"github.com/susulabs/susu-chain/api/middleware"
	"github.com/susulabs/susu-chain/api/types"
	"github.com/susulabs/susu-chain/api/websocket"
	"github.com/susulabs/susu-chain/metrics"
)

// Server represents the API server
type Server struct {
	httpServer *http.Server
	wsServer   *websocket.Server
	config     *Config
	mockMode   bool

	// Services
	poolService  types.PoolService
	vaultService types.VaultService

	// Handlers
	poolHandler  *handlers.PoolHandler
	vaultHandler *handlers.VaultHandler

	// Rate limiter
	rateLimiter *middleware.RateLimiter
}

// Config contains server configuration
type Config struct {
	Host             string
	Port             int
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	MockMode         bool
	DisableRateLimit bool // For testing purposes
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		MockMode:     false,
	}
}

// NewServer creates an API server backed by in-memory keepers
func NewServer(config *Config) *Server {
	if config == nil {
		config = DefaultConfig()
	}

	keeperService := NewKeeperService()
	return newServer(config, keeperService, keeperService)
}

// NewMockServer creates an API server backed by the seedable mock service
func NewMockServer(config *Config) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	config.MockMode = true

	mockService := NewMockService()
	return newServer(config, mockService, mockService)
}

// NewServerWithServices creates an API server with custom services
func NewServerWithServices(config *Config, poolSvc types.PoolService, vaultSvc types.VaultService) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	return newServer(config, poolSvc, vaultSvc)
}

func newServer(config *Config, poolSvc types.PoolService, vaultSvc types.VaultService) *Server {
	wsConfig := websocket.DefaultServerConfig()
	wsConfig.Port = config.Port

	s := &Server{
		config:       config,
		wsServer:     websocket.NewServer(wsConfig),
		mockMode:     config.MockMode,
		poolService:  poolSvc,
		vaultService: vaultSvc,
		rateLimiter:  middleware.NewRateLimiter(middleware.DefaultRateLimitConfig()),
	}

	s.poolHandler = handlers.NewPoolHandler(s.poolService)
	s.vaultHandler = handlers.NewVaultHandler(s.vaultService)

	return s
}

// WSServer exposes the WebSocket server for broadcasters
func (s *Server) WSServer() *websocket.Server {
	return s.wsServer
}

// Start starts the API server
func (s *Server) Start() error {
	mux := http.NewServeMux()

	// Health check (support both /health and /v1/health for compatibility)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/v1/health", s.handleHealth)

	// Pool endpoints (read-only)
	mux.HandleFunc("/v1/pools", s.poolHandler.HandlePools)
	mux.HandleFunc("/v1/pools/", s.poolHandler.HandlePool)

	// Vault custody endpoints (read-only)
	mux.HandleFunc("/v1/vault/deposits/", s.vaultHandler.HandleDeposits)
	mux.HandleFunc("/v1/vault/delayed", s.vaultHandler.HandleDelayed)

	// WebSocket
	mux.HandleFunc("/ws", s.wsServer.GetHub().ServeWS)

	// Prometheus metrics
	mux.Handle("/metrics", metrics.Handler())

	// Apply middleware chain: CORS -> RateLimit -> Handler
	var handler http.Handler
	if s.config.DisableRateLimit {
		handler = corsMiddleware(mux)
	} else {
		handler = corsMiddleware(
			middleware.RateLimitMiddleware(s.rateLimiter)(mux),
		)
	}

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	// Start WebSocket hub
	go s.wsServer.GetHub().Run()

	log.Printf("API server starting on %s (mock mode: %v)", addr, s.mockMode)
	if s.config.DisableRateLimit {
		log.Printf("Rate limiting DISABLED (for testing)")
	} else {
		log.Printf("Rate limiting enabled: %d req/s per IP", 100)
	}
	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	mode := "standalone"
	modeDescription := "Using in-memory keepers (standalone mode)"
	if s.mockMode {
		mode = "mock"
		modeDescription = "Using seedable mock data for development/testing"
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":           "healthy",
		"timestamp":        time.Now().Unix(),
		"mode":             mode,
		"mode_description": modeDescription,
		"warning":          "This API uses in-memory storage. For production, connect to a running chain.",
	})
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key, X-Member-Address")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
