package redemption

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/foxden/kitsune/internal/database"
	"github.com/foxden/kitsune/internal/loyalty"
	"github.com/foxden/kitsune/internal/store"
)

func setupService(t *testing.T, notify func(Receipt)) (*Service, *store.GuestStore, *store.VisitStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	vs := store.NewVisitStore(db)
	svc := NewService(vs, loyalty.DefaultLadder(), notify, slog.Default())
	return svc, store.NewGuestStore(db), vs
}

func TestRedeem(t *testing.T) {
	svc, gs, _ := setupService(t, nil)

	guest, _ := gs.GetOrCreate(1001, "Tea Lover")

	receipt, err := svc.Redeem(guest.RedemptionCode, "admin_scan")
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if receipt.ExternalID != 1001 {
		t.Errorf("external_id = %d, want 1001", receipt.ExternalID)
	}
	if receipt.Visits != 1 {
		t.Errorf("visits = %d, want 1", receipt.Visits)
	}
	if receipt.Points != 10 {
		t.Errorf("points = %d, want 10", receipt.Points)
	}
	if receipt.Tier.Name != "Sprout" {
		t.Errorf("tier = %q, want Sprout", receipt.Tier.Name)
	}
}

func TestRedeemTrimsCode(t *testing.T) {
	svc, gs, _ := setupService(t, nil)

	guest, _ := gs.GetOrCreate(1001, "Tea Lover")

	receipt, err := svc.Redeem("  "+guest.RedemptionCode+"  ", "admin_scan")
	if err != nil {
		t.Fatalf("redeem with padding: %v", err)
	}
	if receipt.ExternalID != 1001 {
		t.Errorf("external_id = %d, want 1001", receipt.ExternalID)
	}
}

func TestRedeemUnknownCode(t *testing.T) {
	svc, gs, vs := setupService(t, nil)

	gs.GetOrCreate(1001, "Tea Lover")

	_, err := svc.Redeem("UNKNOWN", "admin_scan")
	if !errors.Is(err, ErrCodeNotFound) {
		t.Fatalf("err = %v, want ErrCodeNotFound", err)
	}

	n, _ := vs.CountByGuest(1001)
	if n != 0 {
		t.Errorf("count = %d, want 0 after failed redeem", n)
	}
}

func TestRedeemNotifies(t *testing.T) {
	var got []Receipt
	svc, gs, _ := setupService(t, func(r Receipt) { got = append(got, r) })

	guest, _ := gs.GetOrCreate(1001, "Tea Lover")

	if _, err := svc.Redeem(guest.RedemptionCode, "staff_api"); err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("notify called %d times, want 1", len(got))
	}
	if got[0].ExternalID != 1001 || got[0].Source != "staff_api" {
		t.Errorf("notify receipt = %+v", got[0])
	}

	// Unknown codes never notify.
	svc.Redeem("UNKNOWN", "staff_api")
	if len(got) != 1 {
		t.Errorf("notify called on failed redeem")
	}
}

// Mirrors the full product walkthrough: sticky name, one note, one redeem,
// one miss.
func TestLoyaltyScenario(t *testing.T) {
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	gs := store.NewGuestStore(db)
	ns := store.NewTastingNoteStore(db)
	vs := store.NewVisitStore(db)
	svc := NewService(vs, loyalty.DefaultLadder(), nil, slog.Default())

	first, err := gs.GetOrCreate(1001, "Tea Lover")
	if err != nil {
		t.Fatalf("create guest: %v", err)
	}
	again, err := gs.GetOrCreate(1001, "Ignored Name")
	if err != nil {
		t.Fatalf("repeat get or create: %v", err)
	}
	if again.RedemptionCode != first.RedemptionCode || again.DisplayName != "Tea Lover" {
		t.Fatalf("guest changed on repeat contact: %+v", again)
	}

	if _, err := ns.Add(1001, "Da Hong Pao", "mineral", "deep and sweet"); err != nil {
		t.Fatalf("add note: %v", err)
	}
	notes, err := ns.ListRecent(1001, 10)
	if err != nil {
		t.Fatalf("list notes: %v", err)
	}
	if len(notes) != 1 || notes[0].TeaName != "Da Hong Pao" || notes[0].Taste != "mineral" || notes[0].Impression != "deep and sweet" {
		t.Fatalf("notes = %+v", notes)
	}

	receipt, err := svc.Redeem(first.RedemptionCode, "admin_scan")
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if receipt.ExternalID != 1001 || receipt.Visits != 1 {
		t.Fatalf("receipt = %+v", receipt)
	}

	if _, err := svc.Redeem("UNKNOWN", "admin_scan"); !errors.Is(err, ErrCodeNotFound) {
		t.Fatalf("unknown code err = %v", err)
	}
	if n, _ := vs.CountByGuest(1001); n != 1 {
		t.Fatalf("count = %d, want 1 after failed redeem", n)
	}
}
