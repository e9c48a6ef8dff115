package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/susulabs/susu-chain/api/types"
)

// stubPoolService serves a fixed pool set for handler tests.
type stubPoolService struct {
	pools map[string]*types.PoolDetail
}

func newStubPoolService() *stubPoolService {
	return &stubPoolService{
		pools: map[string]*types.PoolDetail{
			"pool-1": {
				PoolSummary: types.PoolSummary{
					PoolID:        "pool-1",
					Phase:         "saving",
					DepositDenom:  "uusdc",
					TargetAmount:  "12000",
					Capacity:      6,
					ActiveMembers: 4,
					TotalCycles:   10,
					CurrentCycle:  3,
				},
				Creator:     "cosmos1creator",
				WinnerCount: 2,
				Balance:     "2400",
			},
			"pool-2": {
				PoolSummary: types.PoolSummary{
					PoolID:        "pool-2",
					Phase:         "settled",
					DepositDenom:  "uusdc",
					TargetAmount:  "9000",
					Capacity:      3,
					ActiveMembers: 3,
					TotalCycles:   6,
				},
				Winners: []string{"cosmos1winner"},
			},
		},
	}
}

func (s *stubPoolService) ListPools(ctx context.Context, phase string) ([]*types.PoolSummary, error) {
	var out []*types.PoolSummary
	for _, p := range s.pools {
		if phase != "" && p.Phase != phase {
			continue
		}
		summary := p.PoolSummary
		out = append(out, &summary)
	}
	return out, nil
}

func (s *stubPoolService) GetPool(ctx context.Context, poolID string) (*types.PoolDetail, error) {
	p, ok := s.pools[poolID]
	if !ok {
		return nil, fmt.Errorf("pool not found: %s", poolID)
	}
	return p, nil
}

func (s *stubPoolService) GetMember(ctx context.Context, poolID, address string) (*types.MemberStanding, error) {
	if _, ok := s.pools[poolID]; !ok || address != "cosmos1member" {
		return nil, fmt.Errorf("member %s not found in pool %s", address, poolID)
	}
	return &types.MemberStanding{Address: address, PoolID: poolID, JoinCycle: 1, Rate: "200"}, nil
}

func (s *stubPoolService) GetClaimable(ctx context.Context, poolID, address string) (*types.ClaimableBalance, error) {
	if _, ok := s.pools[poolID]; !ok {
		return nil, fmt.Errorf("pool not found: %s", poolID)
	}
	return &types.ClaimableBalance{Address: address, PoolID: poolID, Amount: "0", Denom: "uusdc"}, nil
}

func (s *stubPoolService) ListMembers(ctx context.Context, poolID string) ([]*types.MemberStanding, error) {
	if _, ok := s.pools[poolID]; !ok {
		return nil, fmt.Errorf("pool not found: %s", poolID)
	}
	return []*types.MemberStanding{
		{Address: "cosmos1member", PoolID: poolID, JoinCycle: 1, Rate: "200"},
	}, nil
}

// TestHandlePools tests the pool list endpoint with and without a phase
// filter
func TestHandlePools(t *testing.T) {
	h := NewPoolHandler(newStubPoolService())

	testCases := []struct {
		name  string
		url   string
		count int
	}{
		{"all pools", "/v1/pools", 2},
		{"saving only", "/v1/pools?phase=saving", 1},
		{"no matches", "/v1/pools?phase=drawing", 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.url, nil)
			w := httptest.NewRecorder()
			h.HandlePools(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", w.Code)
			}
			var body struct {
				Count int `json:"count"`
			}
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if body.Count != tc.count {
				t.Errorf("count = %d, want %d", body.Count, tc.count)
			}
		})
	}
}

// TestHandlePoolsMethodNotAllowed tests the method guard
func TestHandlePoolsMethodNotAllowed(t *testing.T) {
	h := NewPoolHandler(newStubPoolService())

	req := httptest.NewRequest(http.MethodPost, "/v1/pools", nil)
	w := httptest.NewRecorder()
	h.HandlePools(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}

// TestHandlePool tests the pool detail endpoint
func TestHandlePool(t *testing.T) {
	h := NewPoolHandler(newStubPoolService())

	req := httptest.NewRequest(http.MethodGet, "/v1/pools/pool-1", nil)
	w := httptest.NewRecorder()
	h.HandlePool(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var detail types.PoolDetail
	if err := json.NewDecoder(w.Body).Decode(&detail); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if detail.PoolID != "pool-1" || detail.Phase != "saving" {
		t.Errorf("unexpected pool: %+v", detail)
	}
	if detail.Creator != "cosmos1creator" {
		t.Errorf("creator = %s, want cosmos1creator", detail.Creator)
	}
}

// TestHandlePoolNotFound tests the 404 path
func TestHandlePoolNotFound(t *testing.T) {
	h := NewPoolHandler(newStubPoolService())

	req := httptest.NewRequest(http.MethodGet, "/v1/pools/pool-x", nil)
	w := httptest.NewRecorder()
	h.HandlePool(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

// TestHandlePoolMembers tests the member list and detail routes
func TestHandlePoolMembers(t *testing.T) {
	h := NewPoolHandler(newStubPoolService())

	req := httptest.NewRequest(http.MethodGet, "/v1/pools/pool-1/members", nil)
	w := httptest.NewRecorder()
	h.HandlePool(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("member list status = %d, want 200", w.Code)
	}
	var list struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(w.Body).Decode(&list); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if list.Count != 1 {
		t.Errorf("member count = %d, want 1", list.Count)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/pools/pool-1/members/cosmos1member", nil)
	w = httptest.NewRecorder()
	h.HandlePool(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("member detail status = %d, want 200", w.Code)
	}
	var m types.MemberStanding
	if err := json.NewDecoder(w.Body).Decode(&m); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if m.Address != "cosmos1member" || m.Rate != "200" {
		t.Errorf("unexpected member: %+v", m)
	}
}

// TestHandlePoolClaimable tests the claimable balance route, including
// the zero-balance answer
func TestHandlePoolClaimable(t *testing.T) {
	h := NewPoolHandler(newStubPoolService())

	req := httptest.NewRequest(http.MethodGet, "/v1/pools/pool-1/claimable/cosmos1member", nil)
	w := httptest.NewRecorder()
	h.HandlePool(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var claim types.ClaimableBalance
	if err := json.NewDecoder(w.Body).Decode(&claim); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if claim.Amount != "0" {
		t.Errorf("amount = %s, want 0", claim.Amount)
	}
}
