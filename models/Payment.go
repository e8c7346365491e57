package models

// Payment statuses. "review" is the intermediate state a manager's mark-paid
// produces until an admin confirms it.
const (
	PaymentDue    = "due"
	PaymentReview = "review"
	PaymentPaid   = "paid"
)

// Payment is one month's rent record for a tenant, keyed by YYYY-MM in
// Tenant.Payments. Older state blobs only carried the boolean Paid flag,
// newer ones carry the tri-state Status; Canonical resolves both.
type Payment struct {
	Status     string `json:"status"`
	Paid       bool   `json:"paid"`
	PaidDate   string `json:"paidDate"`
	ReviewDate string `json:"reviewDate,omitempty"`
	RefNo      string `json:"refNo,omitempty"`
}

// Canonical returns exactly one of due, review or paid. A nil record is due.
// The explicit status wins when it is a recognized value, otherwise the
// legacy boolean decides.
func (p *Payment) Canonical() string {
	if p == nil {
		return PaymentDue
	}
	switch p.Status {
	case PaymentDue, PaymentReview, PaymentPaid:
		return p.Status
	}
	if p.Paid {
		return PaymentPaid
	}
	return PaymentDue
}

// NormalizePayments rewrites a loaded payment map so every record carries a
// canonical status and a legacy Paid flag consistent with it.
func NormalizePayments(payments map[string]Payment) map[string]Payment {
	normalized := map[string]Payment{}
	for monthKey, payment := range payments {
		p := payment
		p.Status = p.Canonical()
		p.Paid = p.Status == PaymentPaid
		normalized[monthKey] = p
	}
	return normalized
}
