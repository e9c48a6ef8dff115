package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/susulabs/susu-chain/api/types"
)

// PoolHandler handles savings pool HTTP requests
type PoolHandler struct {
	service types.PoolService
}

// NewPoolHandler creates a new pool handler
func NewPoolHandler(service types.PoolService) *PoolHandler {
	return &PoolHandler{service: service}
}

// HandlePools handles /v1/pools endpoint (GET for list)
func (h *PoolHandler) HandlePools(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listPools(w, r)
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
	}
}

// HandlePool handles /v1/pools/{id} and its subresources:
//
//	GET /v1/pools/{id}
//	GET /v1/pools/{id}/members
//	GET /v1/pools/{id}/members/{address}
//	GET /v1/pools/{id}/claimable/{address}
func (h *PoolHandler) HandlePool(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	prefix := "/v1/pools/"
	if !strings.HasPrefix(path, prefix) {
		writeError(w, http.StatusBadRequest, "invalid_path", "Invalid path")
		return
	}
	rest := strings.TrimPrefix(path, prefix)
	parts := strings.Split(rest, "/")
	poolID := parts[0]
	if poolID == "" {
		writeError(w, http.StatusBadRequest, "missing_pool_id", "Pool ID is required")
		return
	}

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	switch {
	case len(parts) == 1:
		h.getPool(w, r, poolID)
	case len(parts) == 2 && parts[1] == "members":
		h.listMembers(w, r, poolID)
	case len(parts) == 3 && parts[1] == "members":
		h.getMember(w, r, poolID, parts[2])
	case len(parts) == 3 && parts[1] == "claimable":
		h.getClaimable(w, r, poolID, parts[2])
	default:
		writeError(w, http.StatusNotFound, "not_found", "Unknown pool resource")
	}
}

// listPools handles GET /v1/pools?phase=saving
func (h *PoolHandler) listPools(w http.ResponseWriter, r *http.Request) {
	phase := r.URL.Query().Get("phase")

	pools, err := h.service.ListPools(r.Context(), phase)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list_pools_failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"pools": pools,
		"count": len(pools),
	})
}

func (h *PoolHandler) getPool(w http.ResponseWriter, r *http.Request, poolID string) {
	pool, err := h.service.GetPool(r.Context(), poolID)
	if err != nil {
		writeError(w, http.StatusNotFound, "pool_not_found", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, pool)
}

func (h *PoolHandler) listMembers(w http.ResponseWriter, r *http.Request, poolID string) {
	members, err := h.service.ListMembers(r.Context(), poolID)
	if err != nil {
		writeError(w, http.StatusNotFound, "pool_not_found", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"members": members,
		"count":   len(members),
	})
}

func (h *PoolHandler) getMember(w http.ResponseWriter, r *http.Request, poolID, address string) {
	if address == "" {
		writeError(w, http.StatusBadRequest, "missing_address", "Member address is required")
		return
	}
	member, err := h.service.GetMember(r.Context(), poolID, address)
	if err != nil {
		writeError(w, http.StatusNotFound, "member_not_found", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, member)
}

func (h *PoolHandler) getClaimable(w http.ResponseWriter, r *http.Request, poolID, address string) {
	if address == "" {
		writeError(w, http.StatusBadRequest, "missing_address", "Member address is required")
		return
	}
	claim, err := h.service.GetClaimable(r.Context(), poolID, address)
	if err != nil {
		writeError(w, http.StatusNotFound, "pool_not_found", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, claim)
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   code,
		"message": message,
	})
}
