package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testSecretRaw = "0123456789abcdef0123456789abcdef"

func testSecret() string {
	return "whsec_" + base64.StdEncoding.EncodeToString([]byte(testSecretRaw))
}

func sign(t *testing.T, webhookID, timestamp string, body []byte) string {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(testSecretRaw))
	fmt.Fprintf(mac, "%s.%s.", webhookID, timestamp)
	mac.Write(body)
	return "v1," + base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestWebhookVerifier_ValidSignature(t *testing.T) {
	v, err := NewWebhookVerifier(testSecret())
	assert.NoError(t, err)

	body := []byte(`{"type":"Transaction.Paid"}`)
	ts := strconv.FormatInt(time.Now().Unix(), 10)

	err = v.Verify("wh-1", ts, sign(t, "wh-1", ts, body), body)
	assert.NoError(t, err)
}

func TestWebhookVerifier_MultipleCandidates(t *testing.T) {
	v, _ := NewWebhookVerifier(testSecret())

	body := []byte(`{"type":"Transaction.Paid"}`)
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	header := "v1,Zm9yZ2VkLXNpZ25hdHVyZQ== " + sign(t, "wh-1", ts, body)

	err := v.Verify("wh-1", ts, header, body)
	assert.NoError(t, err)
}

func TestWebhookVerifier_TamperedBody(t *testing.T) {
	v, _ := NewWebhookVerifier(testSecret())

	body := []byte(`{"type":"Transaction.Paid"}`)
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	header := sign(t, "wh-1", ts, body)

	err := v.Verify("wh-1", ts, header, []byte(`{"type":"Transaction.Paid","amount":1}`))
	assert.Error(t, err)
}

func TestWebhookVerifier_StaleTimestamp(t *testing.T) {
	v, _ := NewWebhookVerifier(testSecret())

	body := []byte(`{}`)
	ts := strconv.FormatInt(time.Now().Add(-time.Hour).Unix(), 10)

	err := v.Verify("wh-1", ts, sign(t, "wh-1", ts, body), body)
	assert.Error(t, err)
}

func TestWebhookVerifier_MissingHeaders(t *testing.T) {
	v, _ := NewWebhookVerifier(testSecret())

	err := v.Verify("", "", "", []byte(`{}`))
	assert.Error(t, err)
}

func TestNewWebhookVerifier_BadSecret(t *testing.T) {
	_, err := NewWebhookVerifier("whsec_%%%not-base64%%%")
	assert.Error(t, err)

	_, err = NewWebhookVerifier("whsec_")
	assert.Error(t, err)
}
