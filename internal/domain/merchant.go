package domain

// MerchantStatus gates whether a merchant may authenticate at all
type MerchantStatus string

const (
	MerchantActive   MerchantStatus = "ACTIVE"
	MerchantInactive MerchantStatus = "INACTIVE"
)

// Merchant is a read-only directory record. The gateway never mutates it.
type Merchant struct {
	ID         int64
	Name       string
	WebhookURL *string
	Status     MerchantStatus
}

func (m *Merchant) IsActive() bool {
	return m.Status == MerchantActive
}

// HasWebhook reports whether the merchant can receive callbacks. A missing
// or blank URL means notifications are silently skipped.
func (m *Merchant) HasWebhook() bool {
	return m.WebhookURL != nil && *m.WebhookURL != ""
}
