package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"postpilot/internal/httputil"
	"postpilot/internal/model"
)

// WebhookVerifier authenticates inbound automation callbacks by HMAC.
//
// With no secret configured, requests pass through with a warning: that is
// the intentional insecure mode for local development. Otherwise the request
// must carry signature and timestamp headers, the timestamp must be within
// the 300-second staleness window, and the signature must be the hex
// HMAC-SHA256 of the raw body concatenated with the timestamp.
type WebhookVerifier struct {
	secret []byte
	log    logrus.FieldLogger
	now    func() time.Time
}

func NewWebhookVerifier(secret string, log logrus.FieldLogger) *WebhookVerifier {
	return &WebhookVerifier{
		secret: []byte(secret),
		log:    log,
		now:    time.Now,
	}
}

// Middleware wraps a handler with signature verification. The body is read
// for signing and restored for the downstream handler.
func (v *WebhookVerifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(v.secret) == 0 {
			v.log.Warn("webhook secret not configured, accepting unsigned callback")
			next.ServeHTTP(w, r)
			return
		}

		signature := r.Header.Get(model.WebhookSignatureHeader)
		timestamp := r.Header.Get(model.WebhookTimestampHeader)
		if signature == "" || timestamp == "" {
			httputil.WriteUnauthorized(w, "Missing webhook signature or timestamp")
			return
		}

		ts, err := strconv.ParseInt(timestamp, 10, 64)
		if err != nil {
			httputil.WriteUnauthorized(w, "Invalid webhook timestamp")
			return
		}

		delta := v.now().Unix() - ts
		if delta < 0 {
			delta = -delta
		}
		if delta > model.WebhookMaxSkewSeconds {
			httputil.WriteUnauthorized(w, "Webhook timestamp outside allowed window")
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			httputil.WriteBadRequest(w, "Failed to read request body")
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		if !hmac.Equal([]byte(v.Sign(body, timestamp)), []byte(signature)) {
			httputil.WriteUnauthorized(w, "Invalid webhook signature")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Sign computes the expected hex signature for a body and timestamp.
func (v *WebhookVerifier) Sign(body []byte, timestamp string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(body)
	mac.Write([]byte(timestamp))
	return hex.EncodeToString(mac.Sum(nil))
}
