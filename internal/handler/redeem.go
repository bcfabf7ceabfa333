package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/foxden/kitsune/internal/redemption"
)

// defaultSource tags visits recorded through the staff API when the request
// does not name a source itself.
const defaultSource = "staff_api"

type RedeemHandler struct {
	svc    *redemption.Service
	logger *slog.Logger
}

func NewRedeemHandler(svc *redemption.Service, logger *slog.Logger) *RedeemHandler {
	return &RedeemHandler{svc: svc, logger: logger}
}

type redeemRequest struct {
	Code   string `json:"code"`
	Source string `json:"source"`
}

func (h *RedeemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req redeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Code = strings.TrimSpace(req.Code)
	if req.Code == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "code is required"})
		return
	}
	if req.Source == "" {
		req.Source = defaultSource
	}

	receipt, err := h.svc.Redeem(req.Code, req.Source)
	if errors.Is(err, redemption.ErrCodeNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "guest not found"})
		return
	}
	if err != nil {
		h.logger.Error("redeem failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to redeem code"})
		return
	}

	writeJSON(w, http.StatusCreated, receipt)
}
