package handlers

import (
	"net/http"
	"strings"

	"github.com/susulabs/susu-chain/api/types"
)

// VaultHandler handles vault custody HTTP requests
type VaultHandler struct {
	service types.VaultService
}

// NewVaultHandler creates a new vault handler
func NewVaultHandler(service types.VaultService) *VaultHandler {
	return &VaultHandler{service: service}
}

// HandleDeposits handles /v1/vault/deposits/{poolID}
func (h *VaultHandler) HandleDeposits(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	path := r.URL.Path
	prefix := "/v1/vault/deposits/"
	if !strings.HasPrefix(path, prefix) {
		writeError(w, http.StatusBadRequest, "invalid_path", "Invalid path")
		return
	}
	poolID := strings.TrimPrefix(path, prefix)
	if poolID == "" {
		writeError(w, http.StatusBadRequest, "missing_pool_id", "Pool ID is required")
		return
	}

	record, err := h.service.GetDeposit(r.Context(), poolID)
	if err != nil {
		writeError(w, http.StatusNotFound, "record_not_found", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// HandleDelayed handles /v1/vault/delayed (GET)
func (h *VaultHandler) HandleDelayed(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	records, err := h.service.ListDelayed(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list_delayed_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"records": records,
		"count":   len(records),
	})
}
