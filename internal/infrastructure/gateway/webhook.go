package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// webhookTolerance bounds how stale a webhook timestamp may be. Replays of
// captured payloads outside this window are rejected.
const webhookTolerance = 5 * time.Minute

// WebhookVerifier checks PortOne webhook signatures. The signed content is
// "<webhook-id>.<webhook-timestamp>.<body>", HMAC-SHA256 with the shared
// secret, and the signature header holds space-separated "v1,<base64>"
// candidates.
type WebhookVerifier struct {
	secret []byte
}

// NewWebhookVerifier builds a verifier from the configured secret. The
// secret arrives base64-encoded with a "whsec_" prefix.
func NewWebhookVerifier(secret string) (*WebhookVerifier, error) {
	trimmed := strings.TrimPrefix(secret, "whsec_")
	if trimmed == "" {
		return nil, fmt.Errorf("webhook secret is empty")
	}
	key, err := base64.StdEncoding.DecodeString(trimmed)
	if err != nil {
		return nil, fmt.Errorf("webhook secret is not valid base64: %w", err)
	}
	return &WebhookVerifier{secret: key}, nil
}

// Verify checks the signature and timestamp of a webhook delivery.
func (v *WebhookVerifier) Verify(webhookID, timestamp, signatureHeader string, body []byte) error {
	if webhookID == "" || timestamp == "" || signatureHeader == "" {
		return fmt.Errorf("missing webhook signature headers")
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid webhook timestamp: %w", err)
	}
	age := time.Since(time.Unix(ts, 0))
	if age > webhookTolerance || age < -webhookTolerance {
		return fmt.Errorf("webhook timestamp outside tolerance")
	}

	mac := hmac.New(sha256.New, v.secret)
	fmt.Fprintf(mac, "%s.%s.", webhookID, timestamp)
	mac.Write(body)
	expected := mac.Sum(nil)

	for _, candidate := range strings.Fields(signatureHeader) {
		parts := strings.SplitN(candidate, ",", 2)
		if len(parts) != 2 || parts[0] != "v1" {
			continue
		}
		sig, err := base64.StdEncoding.DecodeString(parts[1])
		if err != nil {
			continue
		}
		if hmac.Equal(sig, expected) {
			return nil
		}
	}
	return fmt.Errorf("no matching webhook signature")
}
