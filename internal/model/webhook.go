package model

import "time"

// Webhook signature headers and staleness window for inbound callbacks.
const (
	WebhookSignatureHeader = "X-Webhook-Signature"
	WebhookTimestampHeader = "X-Webhook-Timestamp"

	// WebhookMaxSkewSeconds is the replay window: a timestamp further than
	// this from server time (in either direction) is rejected. Exactly 300
	// seconds is still accepted.
	WebhookMaxSkewSeconds = 300
)

// WebhookCallbackRequest is the body for POST /api/webhook/n8n/callback,
// sent by the automation system after it attempts a publish.
type WebhookCallbackRequest struct {
	PostID      string     `json:"postId" validate:"required"`
	Status      string     `json:"status" validate:"required"`
	PublishedAt *time.Time `json:"publishedAt"`
	Error       string     `json:"error"`
}

// PublishPayload is the body sent to the external automation webhook. It
// carries the post content together with the credentials of every account
// the automation should publish to.
type PublishPayload struct {
	Post     *Post            `json:"post"`
	Accounts []PublishAccount `json:"accounts"`
}

// PublishAccount is the per-connection slice of a publish payload. Unlike
// API responses, tokens are serialized here: the automation system needs
// them to act on the user's behalf.
type PublishAccount struct {
	Platform     string `json:"platform"`
	AccountID    string `json:"accountId"`
	AccountName  string `json:"accountName"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
