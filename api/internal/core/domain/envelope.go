package domain

import (
	"context"
	"time"
)

// Envelope is the structured plaintext that gets encrypted.
// 🛡️ SLA: Field order is the serialization order; keep it stable.
type Envelope struct {
	Text    string `json:"text,omitempty"`
	Image   string `json:"image,omitempty"`   // data URI
	Expires *int64 `json:"expires,omitempty"` // Unix milliseconds
}

// HasContent reports whether the envelope carries anything worth encrypting.
func (e *Envelope) HasContent() bool {
	return e.Text != "" || e.Image != ""
}

// ExpiresAt returns the expiry instant, if any.
func (e *Envelope) ExpiresAt() (time.Time, bool) {
	if e.Expires == nil {
		return time.Time{}, false
	}
	return time.UnixMilli(*e.Expires), true
}

// IsExpired reports whether now is strictly past the expiry instant.
func (e *Envelope) IsExpired(now time.Time) bool {
	if e.Expires == nil {
		return false
	}
	return now.UnixMilli() > *e.Expires
}

// EncryptRequest carries everything Encode needs. It replaces reading form state directly.
type EncryptRequest struct {
	Text      string
	Image     string
	Password  string
	ExpiresAt *time.Time
}

// DecryptRequest carries the ciphertext and the password to open it with.
type DecryptRequest struct {
	Ciphertext string
	Password   string
}

// DecodeResult is the outcome of a successful Decode.
// When Expired is true, Envelope is nil and nothing may be shown.
type DecodeResult struct {
	Envelope *Envelope
	Expired  bool
}

// EnvelopeService is the payload envelope codec.
type EnvelopeService interface {
	Encode(ctx context.Context, req EncryptRequest) (string, error)
	Decode(ctx context.Context, req DecryptRequest) (*DecodeResult, error)
}
