package dto

// WebhookEvent is the identity provider's event envelope. Only user events
// are read; other payloads are decoded loosely and ignored.
type WebhookEvent struct {
	Type string          `json:"type"`
	Data WebhookUserData `json:"data"`
}

type WebhookUserData struct {
	ID                    string         `json:"id"`
	EmailAddresses        []WebhookEmail `json:"email_addresses"`
	PrimaryEmailAddressID string         `json:"primary_email_address_id"`
}

type WebhookEmail struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

// PrimaryEmail returns the address whose id is primary_email_address_id, or
// "" when it is absent.
func (d WebhookUserData) PrimaryEmail() string {
	if d.PrimaryEmailAddressID == "" {
		return ""
	}
	for _, e := range d.EmailAddresses {
		if e.ID == d.PrimaryEmailAddressID {
			return e.EmailAddress
		}
	}
	return ""
}
