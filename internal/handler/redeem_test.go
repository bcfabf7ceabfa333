package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/foxden/kitsune/internal/database"
	"github.com/foxden/kitsune/internal/loyalty"
	"github.com/foxden/kitsune/internal/redemption"
	"github.com/foxden/kitsune/internal/store"
)

func setupRedeemHandler(t *testing.T) (*RedeemHandler, *store.GuestStore, *store.VisitStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	vs := store.NewVisitStore(db)
	svc := redemption.NewService(vs, loyalty.DefaultLadder(), nil, slog.Default())
	return NewRedeemHandler(svc, slog.Default()), store.NewGuestStore(db), vs
}

func postRedeem(h *RedeemHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/redeem", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Create(rec, req)
	return rec
}

func TestRedeemCreate(t *testing.T) {
	h, gs, _ := setupRedeemHandler(t)

	guest, _ := gs.GetOrCreate(1001, "Tea Lover")

	rec := postRedeem(h, `{"code": "`+guest.RedemptionCode+`"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var receipt redemption.Receipt
	if err := json.Unmarshal(rec.Body.Bytes(), &receipt); err != nil {
		t.Fatalf("unmarshal receipt: %v", err)
	}
	if receipt.ExternalID != 1001 {
		t.Errorf("external_id = %d, want 1001", receipt.ExternalID)
	}
	if receipt.Visits != 1 || receipt.Points != 10 {
		t.Errorf("receipt = %+v", receipt)
	}
	if receipt.Source != "staff_api" {
		t.Errorf("source = %q, want default staff_api", receipt.Source)
	}
}

func TestRedeemCreateCustomSource(t *testing.T) {
	h, gs, _ := setupRedeemHandler(t)

	guest, _ := gs.GetOrCreate(1001, "Tea Lover")

	rec := postRedeem(h, `{"code": "`+guest.RedemptionCode+`", "source": "front_desk"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	var receipt redemption.Receipt
	json.Unmarshal(rec.Body.Bytes(), &receipt)
	if receipt.Source != "front_desk" {
		t.Errorf("source = %q, want front_desk", receipt.Source)
	}
}

func TestRedeemCreateUnknownCode(t *testing.T) {
	h, gs, vs := setupRedeemHandler(t)

	gs.GetOrCreate(1001, "Tea Lover")

	rec := postRedeem(h, `{"code": "UNKNOWN"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "guest not found") {
		t.Errorf("body = %s", rec.Body.String())
	}

	if n, _ := vs.CountByGuest(1001); n != 0 {
		t.Errorf("count = %d, want 0", n)
	}
}

func TestRedeemCreateMissingCode(t *testing.T) {
	h, _, _ := setupRedeemHandler(t)

	rec := postRedeem(h, `{"code": "   "}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRedeemCreateInvalidJSON(t *testing.T) {
	h, _, _ := setupRedeemHandler(t)

	rec := postRedeem(h, `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
