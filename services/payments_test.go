package services

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"rental-manager-server/models"
	"rental-manager-server/utils"
)

func paymentsFixture(t *testing.T, p *Portfolio) *models.Tenant {
	t.Helper()
	unit := mustSaveUnit(t, p, UnitInput{BuildingName: "Maple", UnitNumber: "101"})
	return mustAddTenant(t, p, TenantInput{
		TenantName:   "Alice",
		Email:        "alice@example.com",
		MonthlyRent:  8500,
		LeaseStart:   "2024-01-01",
		LeaseEnd:     "2024-12-31",
		LinkedUnitID: unit.ID,
	})
}

func TestMarkPaidAsAdmin(t *testing.T) {
	p := newTestPortfolio()
	tenant := paymentsFixture(t, p)

	result, err := p.MarkPaid(tenant.ID, "2024-03", utils.RoleAdmin, "2024-03-05")
	if err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	if result.Status != models.PaymentPaid {
		t.Fatalf("status: got %q", result.Status)
	}
	if result.Payment.PaidDate != "2024-03-05" {
		t.Fatalf("paid date: got %q", result.Payment.PaidDate)
	}

	state := p.Snapshot()
	if got := state.TenantByID(tenant.ID).PaymentStatus("2024-03"); got != models.PaymentPaid {
		t.Fatalf("stored status: got %q", got)
	}
}

func TestMarkPaidAsManagerGoesToReview(t *testing.T) {
	p := newTestPortfolio()
	tenant := paymentsFixture(t, p)

	result, err := p.MarkPaid(tenant.ID, "2024-03", utils.RoleManager, "2024-03-05")
	if err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	if result.Status != models.PaymentReview {
		t.Fatalf("status: got %q", result.Status)
	}
	if result.Payment.ReviewDate != "2024-03-05" {
		t.Fatalf("review date: got %q", result.Payment.ReviewDate)
	}

	// An admin can then confirm, overwriting the review.
	confirmed, err := p.MarkPaid(tenant.ID, "2024-03", utils.RoleAdmin, "2024-03-07")
	if err != nil {
		t.Fatalf("admin confirm: %v", err)
	}
	if confirmed.Status != models.PaymentPaid || confirmed.Payment.PaidDate != "2024-03-07" {
		t.Fatalf("confirmation: got %+v", confirmed)
	}

	// A manager cannot touch a month that is verified paid.
	if _, err := p.MarkPaid(tenant.ID, "2024-03", utils.RoleManager, "2024-03-08"); !errors.Is(err, ErrAlreadyPaid) {
		t.Fatalf("expected ErrAlreadyPaid, got %v", err)
	}
}

func TestMarkPaidManagerNotifiesAdmins(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	p := newTestPortfolio()
	p.notifier = &NotificationService{Endpoint: server.URL, Client: server.Client()}
	tenant := paymentsFixture(t, p)
	p.SaveNotifyConfig(models.NotifyConfig{
		Admins:            []string{"owner@example.com", "backup@example.com"},
		EmailJSPublicKey:  "pk",
		EmailJSServiceID:  "svc",
		EmailJSTemplateID: "tpl",
	})

	result, err := p.MarkPaid(tenant.ID, "2024-03", utils.RoleManager, "2024-03-05")
	if err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	if result.NotifyWarning != "" {
		t.Fatalf("unexpected warning: %q", result.NotifyWarning)
	}
	if requests != 2 {
		t.Fatalf("expected one email per admin, got %d requests", requests)
	}
}

func TestMarkPaidManagerEmailFailureIsAWarning(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	p := newTestPortfolio()
	p.notifier = &NotificationService{Endpoint: server.URL, Client: server.Client()}
	tenant := paymentsFixture(t, p)
	p.SaveNotifyConfig(models.NotifyConfig{
		Admins:            []string{"owner@example.com"},
		EmailJSPublicKey:  "pk",
		EmailJSServiceID:  "svc",
		EmailJSTemplateID: "tpl",
	})

	result, err := p.MarkPaid(tenant.ID, "2024-03", utils.RoleManager, "2024-03-05")
	if err != nil {
		t.Fatalf("the status change must survive an email failure: %v", err)
	}
	if result.Status != models.PaymentReview {
		t.Fatalf("status: got %q", result.Status)
	}
	if result.NotifyWarning == "" {
		t.Fatal("expected a notify warning")
	}

	state := p.Snapshot()
	if got := state.TenantByID(tenant.ID).PaymentStatus("2024-03"); got != models.PaymentReview {
		t.Fatalf("stored status: got %q", got)
	}
}

func TestMarkPaidGuards(t *testing.T) {
	p := newTestPortfolio()
	tenant := paymentsFixture(t, p)

	if _, err := p.MarkPaid(tenant.ID, "2024-03", utils.RoleViewer, "2024-03-05"); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("viewer: expected ErrPermissionDenied, got %v", err)
	}
	if _, err := p.MarkPaid(tenant.ID, "2024-13", utils.RoleAdmin, "2024-03-05"); !errors.Is(err, ErrInvalidMonthKey) {
		t.Errorf("bad month: expected ErrInvalidMonthKey, got %v", err)
	}
	if _, err := p.MarkPaid("no-such-tenant", "2024-03", utils.RoleAdmin, "2024-03-05"); !errors.Is(err, ErrTenantNotFound) {
		t.Errorf("missing tenant: expected ErrTenantNotFound, got %v", err)
	}
	// 2025-06 is outside the 2024 lease.
	if _, err := p.MarkPaid(tenant.ID, "2025-06", utils.RoleAdmin, "2024-03-05"); !errors.Is(err, ErrInactiveLease) {
		t.Errorf("inactive month: expected ErrInactiveLease, got %v", err)
	}
}

func TestMarkUnpaidResetsToDue(t *testing.T) {
	p := newTestPortfolio()
	tenant := paymentsFixture(t, p)

	if _, err := p.MarkPaid(tenant.ID, "2024-03", utils.RoleAdmin, "2024-03-05"); err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}

	if _, err := p.MarkUnpaid(tenant.ID, "2024-03", utils.RoleManager); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("manager cannot mark unpaid, got %v", err)
	}

	payment, err := p.MarkUnpaid(tenant.ID, "2024-03", utils.RoleAdmin)
	if err != nil {
		t.Fatalf("MarkUnpaid: %v", err)
	}
	if payment.Canonical() != models.PaymentDue || payment.PaidDate != "" {
		t.Fatalf("payment should be reset, got %+v", payment)
	}
}
