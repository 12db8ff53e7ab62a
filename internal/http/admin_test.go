package handlers_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"offerbytes/internal/repos"
)

func TestAdminGuardRequiresAdmin(t *testing.T) {
	s := newShop(t)

	if resp, _ := s.get(t, "/admin", ""); resp.StatusCode != http.StatusFound && resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected redirect/forbidden, got %d", resp.StatusCode)
	}

	s.login(t, "sid-user", "u-alice")
	if resp, _ := s.get(t, "/admin", "sid-user"); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected forbidden for non-admin, got %d", resp.StatusCode)
	}

	s.login(t, "sid-admin", "u-admin")
	if resp, _ := s.get(t, "/admin", "sid-admin"); resp.StatusCode != http.StatusOK {
		t.Fatalf("admin expected 200, got %d", resp.StatusCode)
	}
}

func TestAdminUpdatesProductOfferSettings(t *testing.T) {
	s := newShop(t)
	s.login(t, "sid-admin", "u-admin")

	_, body := s.get(t, "/admin/products", "sid-admin")
	if !strings.Contains(body, "Philco 1939") {
		t.Fatalf("product list missing; body=%s", body)
	}

	var entries []logEntry
	entries = captureLogs(t, func() {
		form := url.Values{"enable_suggested_price": {"yes"}, "min_suggested_price": {"300.50"}}
		resp := s.post(t, "/admin/products/radio-001/offer", "sid-admin", form)
		if resp.StatusCode != http.StatusFound {
			t.Errorf("expected redirect after save, got %d", resp.StatusCode)
		}
	})
	e, ok := findLog(entries, "admin.products.offer")
	if !ok {
		t.Fatal("admin.products.offer audit log missing")
	}
	if e.Level != "audit" {
		t.Fatalf("expected audit level, got %q", e.Level)
	}

	p, err := repos.NewProductRepo(s.db).Get("radio-001")
	if err != nil {
		t.Fatal(err)
	}
	if !p.SuggestedPriceEnabled || !p.MinSuggestedPrice.Equal(decimal.RequireFromString("300.5")) {
		t.Fatalf("settings not saved: enabled=%v min=%s", p.SuggestedPriceEnabled, p.MinSuggestedPrice)
	}

	// the product page now takes offers
	s.login(t, "sid-alice", "u-alice")
	_, body = s.get(t, "/product/radio-001", "sid-alice")
	if !strings.Contains(body, `name="suggested_price"`) {
		t.Fatalf("offer form missing after enabling; body=%s", body)
	}
}

func TestAdminRejectsBadOfferSettings(t *testing.T) {
	s := newShop(t)
	s.login(t, "sid-admin", "u-admin")

	cases := []url.Values{
		{"enable_suggested_price": {"yes"}, "min_suggested_price": {"-1"}},
		{"enable_suggested_price": {"yes"}, "min_suggested_price": {"abc"}},
		{"enable_suggested_price": {"maybe"}, "min_suggested_price": {"10"}},
	}
	for _, form := range cases {
		resp := s.post(t, "/admin/products/gbc-001/offer", "sid-admin", form)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("form %v: expected 400, got %d", form, resp.StatusCode)
		}
	}

	resp := s.post(t, "/admin/products/nope-001/offer", "sid-admin", url.Values{"enable_suggested_price": {"no"}, "min_suggested_price": {"0"}})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown product: expected 404, got %d", resp.StatusCode)
	}

	s.login(t, "sid-user", "u-bob")
	resp = s.post(t, "/admin/products/gbc-001/offer", "sid-user", url.Values{"enable_suggested_price": {"no"}, "min_suggested_price": {"0"}})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("non-admin: expected 403, got %d", resp.StatusCode)
	}
}
