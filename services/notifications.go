package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"rental-manager-server/models"
	"rental-manager-server/utils"
)

const defaultEmailEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

var (
	ErrEmailNotConfigured = errors.New("email service is not configured")
	ErrNoAdminEmails      = errors.New("no admin emails configured")
)

// NotificationService sends outbound email through the EmailJS relay. Any
// 2xx response is success, anything else is a hard failure surfaced to the
// caller.
type NotificationService struct {
	Endpoint string
	Client   *http.Client
}

func NewNotificationService() *NotificationService {
	return &NotificationService{
		Endpoint: defaultEmailEndpoint,
		Client:   &http.Client{Timeout: 15 * time.Second},
	}
}

type emailPayload struct {
	ServiceID      string      `json:"service_id"`
	TemplateID     string      `json:"template_id"`
	UserID         string      `json:"user_id"`
	TemplateParams emailParams `json:"template_params"`
}

type emailParams struct {
	ToEmail  string `json:"to_email"`
	ToName   string `json:"to_name"`
	CCEmails string `json:"cc_emails"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
}

func (ns *NotificationService) send(config models.NotifyConfig, params emailParams) error {
	payload := emailPayload{
		ServiceID:      config.EmailJSServiceID,
		TemplateID:     config.EmailJSTemplateID,
		UserID:         config.EmailJSPublicKey,
		TemplateParams: params,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	res, err := ns.Client.Post(ns.Endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("email send failed with status %d", res.StatusCode)
	}
	return nil
}

// SendRentReminder emails a tenant that rent for the month is pending,
// copying the configured admin and manager lists.
func (ns *NotificationService) SendRentReminder(config models.NotifyConfig, tenant models.Tenant, propertyLabel, monthKey string) error {
	if !config.EmailConfigured() {
		return ErrEmailNotConfigured
	}
	if tenant.Email == "" {
		return errors.New("tenant email is missing")
	}

	monthLabel := utils.FormatMonth(monthKey)
	subject := fmt.Sprintf("Rent Reminder - %s - %s", monthLabel, tenant.TenantName)
	message := fmt.Sprintf(
		"Hello %s,\n\nThis is a reminder that rent for %s is still pending.\nAmount: %s\nProperty: %s\n\nPlease complete payment at the earliest.\n\nThank you,\n%s",
		tenant.TenantName, monthLabel, utils.FormatINR(tenant.MonthlyRent.Float()), propertyLabel, config.SenderName,
	)

	return ns.send(config, emailParams{
		ToEmail:  tenant.Email,
		ToName:   tenant.TenantName,
		CCEmails: strings.Join(append(append([]string{}, config.Admins...), config.Managers...), ","),
		Subject:  subject,
		Message:  message,
	})
}

// NotifyAdminsForReview emails every configured admin that a manager marked
// a payment as review. One request per recipient; the first failure aborts.
func (ns *NotificationService) NotifyAdminsForReview(config models.NotifyConfig, tenant models.Tenant, propertyLabel, monthKey string) error {
	if !config.EmailConfigured() {
		return ErrEmailNotConfigured
	}
	if len(config.Admins) == 0 {
		return ErrNoAdminEmails
	}

	subject := FormatReviewSubject(config, tenant, propertyLabel, monthKey)
	message := fmt.Sprintf(
		"A manager marked rent as Review.\n\nTenant: %s\nProperty: %s\nMonth: %s\nAmount: %s\n\nPlease review and verify payment.",
		tenant.TenantName, propertyLabel, utils.FormatMonth(monthKey), utils.FormatINR(tenant.MonthlyRent.Float()),
	)

	for _, adminEmail := range config.Admins {
		err := ns.send(config, emailParams{
			ToEmail: adminEmail,
			ToName:  "Admin",
			Subject: subject,
			Message: message,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// FormatReviewSubject expands the configured subject template. Both the
// spaced placeholders ({tenant name}) and the older underscore/brace
// variants are honored, and the unit label is appended when the template
// leaves it out so admins can tell reviews apart.
func FormatReviewSubject(config models.NotifyConfig, tenant models.Tenant, propertyLabel, monthKey string) string {
	template := config.ReviewSubjectTemplate
	if template == "" {
		template = models.DefaultReviewSubjectTemplate
	}
	monthLabel := utils.FormatMonth(monthKey)
	amount := utils.FormatINR(tenant.MonthlyRent.Float())

	replacer := strings.NewReplacer(
		"{{tenant_name}}", tenant.TenantName,
		"{{month}}", monthLabel,
		"{{property}}", propertyLabel,
		"{{amount}}", amount,
		"{unit}", propertyLabel,
		"{property unit}", propertyLabel,
		"{property}", propertyLabel,
		"{tenant name}", tenant.TenantName,
		"{tenant_name}", tenant.TenantName,
		"{tenant}", tenant.TenantName,
		"{month}", monthLabel,
		"{month_name}", monthLabel,
		"{amount}", amount,
	)
	subject := replacer.Replace(template)

	if propertyLabel != "" && !strings.Contains(strings.ToLower(subject), strings.ToLower(propertyLabel)) {
		subject = subject + " - " + propertyLabel
	}
	return subject
}
