package services

import (
	"rental-manager-server/models"
	"rental-manager-server/utils"
)

// MarkPaidResult reports the payment record after a mark-paid action.
// NotifyWarning is set when the action succeeded but the admin review email
// could not be sent.
type MarkPaidResult struct {
	Status        string         `json:"status"`
	Payment       models.Payment `json:"payment"`
	NotifyWarning string         `json:"notifyWarning,omitempty"`
}

// MarkPaid records a rent payment for one month. An admin marks the month
// paid outright, overwriting any prior status with paid date = today. A
// manager can only move the month into review; the record keeps its review
// date and admins are emailed to confirm. Managers cannot touch a month
// that is already verified paid.
func (p *Portfolio) MarkPaid(tenantID, monthKey string, role utils.Role, today string) (*MarkPaidResult, error) {
	if !utils.Can(role, utils.PermMarkPaid) {
		return nil, ErrPermissionDenied
	}
	if !utils.IsValidMonthKey(monthKey) {
		return nil, ErrInvalidMonthKey
	}

	p.mu.Lock()
	tenant := p.state.TenantByID(tenantID)
	if tenant == nil {
		p.mu.Unlock()
		return nil, ErrTenantNotFound
	}
	if !tenant.ActiveInMonth(monthKey) {
		p.mu.Unlock()
		return nil, ErrInactiveLease
	}
	if tenant.Payments == nil {
		tenant.Payments = map[string]models.Payment{}
	}
	existing := tenant.Payments[monthKey]

	if role == utils.RoleManager {
		if tenant.PaymentStatus(monthKey) == models.PaymentPaid {
			p.mu.Unlock()
			return nil, ErrAlreadyPaid
		}
		existing.Status = models.PaymentReview
		existing.ReviewDate = today
		existing.Paid = false
		tenant.Payments[monthKey] = existing

		tenantCopy := tenant.Clone()
		label := p.state.TenantPropertyLabel(tenant)
		config := p.state.NotifyConfig.Clone()
		p.mu.Unlock()

		result := &MarkPaidResult{Status: models.PaymentReview, Payment: existing}
		if p.notifier != nil {
			if err := p.notifier.NotifyAdminsForReview(config, tenantCopy, label, monthKey); err != nil {
				result.NotifyWarning = "Payment marked as Review, but failed to send admin review email."
			}
		}
		return result, nil
	}

	existing.Status = models.PaymentPaid
	existing.PaidDate = today
	existing.Paid = true
	tenant.Payments[monthKey] = existing
	p.mu.Unlock()
	return &MarkPaidResult{Status: models.PaymentPaid, Payment: existing}, nil
}

// MarkUnpaid resets a month back to due, clearing the paid date.
func (p *Portfolio) MarkUnpaid(tenantID, monthKey string, role utils.Role) (*models.Payment, error) {
	if !utils.Can(role, utils.PermMarkUnpaid) {
		return nil, ErrPermissionDenied
	}
	if !utils.IsValidMonthKey(monthKey) {
		return nil, ErrInvalidMonthKey
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	tenant := p.state.TenantByID(tenantID)
	if tenant == nil {
		return nil, ErrTenantNotFound
	}
	if !tenant.ActiveInMonth(monthKey) {
		return nil, ErrInactiveLease
	}
	if tenant.Payments == nil {
		tenant.Payments = map[string]models.Payment{}
	}
	payment := models.Payment{Status: models.PaymentDue, Paid: false, PaidDate: ""}
	tenant.Payments[monthKey] = payment
	return &payment, nil
}
