package auth

import (
	"errors"
	"fmt"
	"net/http"

	svix "github.com/svix/svix-webhooks/go"
)

var ErrBadSignature = errors.New("webhook signature verification failed")

// WebhookVerifier checks svix signatures on identity provider webhooks.
type WebhookVerifier struct {
	wh *svix.Webhook
}

// NewWebhookVerifier accepts the signing secret as shown by the provider
// ("whsec_..." base64).
func NewWebhookVerifier(secret string) (*WebhookVerifier, error) {
	wh, err := svix.NewWebhook(secret)
	if err != nil {
		return nil, fmt.Errorf("webhook secret: %w", err)
	}
	return &WebhookVerifier{wh: wh}, nil
}

// Verify checks the svix-id, svix-timestamp and svix-signature headers
// against the raw request body.
func (v *WebhookVerifier) Verify(body []byte, headers http.Header) error {
	if err := v.wh.Verify(body, headers); err != nil {
		return fmt.Errorf("%w: %v", ErrBadSignature, err)
	}
	return nil
}
