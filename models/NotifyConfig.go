package models

import "rental-manager-server/utils"

const (
	DefaultSenderName            = "Rental Management"
	DefaultReviewSubjectTemplate = "Payment Review Required: {unit} {tenant name}"
)

// NotifyConfig holds the portfolio-wide notification settings. It is not
// transactional: the settings form overwrites it wholesale on save.
type NotifyConfig struct {
	Admins                []string          `json:"admins"`
	Managers              []string          `json:"managers"`
	EmailJSPublicKey      string            `json:"emailjsPublicKey"`
	EmailJSServiceID      string            `json:"emailjsServiceId"`
	EmailJSTemplateID     string            `json:"emailjsTemplateId"`
	SenderName            string            `json:"senderName"`
	ReviewSubjectTemplate string            `json:"reviewSubjectTemplate"`
	BuildingAddresses     map[string]string `json:"buildingAddresses"`
	BuildingLandlords     map[string]string `json:"buildingLandlords"`
}

// Clone returns a deep copy of the config's slices and maps.
func (c *NotifyConfig) Clone() NotifyConfig {
	out := *c
	out.Admins = append([]string{}, c.Admins...)
	out.Managers = append([]string{}, c.Managers...)
	out.BuildingAddresses = make(map[string]string, len(c.BuildingAddresses))
	for building, value := range c.BuildingAddresses {
		out.BuildingAddresses[building] = value
	}
	out.BuildingLandlords = make(map[string]string, len(c.BuildingLandlords))
	for building, value := range c.BuildingLandlords {
		out.BuildingLandlords[building] = value
	}
	return out
}

// Normalize backfills defaults and drops empty entries so downstream code
// never deals with nil maps or blank email addresses.
func (c *NotifyConfig) Normalize() {
	c.Admins = compactEmails(c.Admins)
	c.Managers = compactEmails(c.Managers)
	if c.SenderName == "" {
		c.SenderName = DefaultSenderName
	}
	if c.ReviewSubjectTemplate == "" {
		c.ReviewSubjectTemplate = DefaultReviewSubjectTemplate
	}
	c.BuildingAddresses = normalizeBuildingMap(c.BuildingAddresses)
	c.BuildingLandlords = normalizeBuildingMap(c.BuildingLandlords)
}

// EmailConfigured reports whether all three EmailJS identifiers are present.
func (c *NotifyConfig) EmailConfigured() bool {
	return c.EmailJSPublicKey != "" && c.EmailJSServiceID != "" && c.EmailJSTemplateID != ""
}

func compactEmails(entries []string) []string {
	out := []string{}
	for _, entry := range entries {
		if entry != "" {
			out = append(out, entry)
		}
	}
	return out
}

func normalizeBuildingMap(entries map[string]string) map[string]string {
	out := map[string]string{}
	for building, value := range entries {
		key := utils.NormalizeUnitText(building)
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}
	return out
}
