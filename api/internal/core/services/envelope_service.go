package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Poojareddy2809/shadowshare/api/internal/core/domain"
)

// EnvelopeService builds, seals and opens payload envelopes.
// It retains no state between calls.
type EnvelopeService struct {
	cipher domain.PasswordCipher
	logger *slog.Logger
	now    func() time.Time
}

// EnvelopeOption customizes an EnvelopeService.
type EnvelopeOption func(*EnvelopeService)

// WithClock replaces time.Now, mainly for expiry tests.
func WithClock(now func() time.Time) EnvelopeOption {
	return func(s *EnvelopeService) {
		s.now = now
	}
}

func NewEnvelopeService(cipher domain.PasswordCipher, logger *slog.Logger, opts ...EnvelopeOption) *EnvelopeService {
	s := &EnvelopeService{
		cipher: cipher,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Encode validates the request, serializes the envelope and seals it.
func (s *EnvelopeService) Encode(ctx context.Context, req domain.EncryptRequest) (string, error) {
	// 1. Reject missing input before any cryptographic work
	if req.Password == "" {
		return "", domain.ErrPasswordRequired
	}

	env := domain.Envelope{Text: req.Text, Image: req.Image}
	if !env.HasContent() {
		return "", domain.ErrEmptyEnvelope
	}
	if req.ExpiresAt != nil {
		ms := req.ExpiresAt.UnixMilli()
		env.Expires = &ms
	}

	// 2. Serialize, then seal
	plaintext, err := json.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("failed to serialize envelope: %w", err)
	}

	ciphertext, err := s.cipher.Seal(ctx, plaintext, req.Password)
	if err != nil {
		s.logger.Error("Envelope encryption failure", slog.String("error", err.Error()))
		return "", fmt.Errorf("cryptographic failure: %w", err)
	}

	s.logger.Debug("Envelope sealed",
		slog.Bool("has_text", env.Text != ""),
		slog.Bool("has_image", env.Image != ""),
		slog.Bool("expires", env.Expires != nil),
	)
	return ciphertext, nil
}

// Decode opens the ciphertext and checks expiry. Authentication always
// happens first, so a wrong password is reported even for an expired envelope.
func (s *EnvelopeService) Decode(ctx context.Context, req domain.DecryptRequest) (*domain.DecodeResult, error) {
	if req.Password == "" {
		return nil, domain.ErrPasswordRequired
	}
	if req.Ciphertext == "" {
		return nil, domain.ErrCiphertextRequired
	}

	plaintext, err := s.cipher.Open(ctx, req.Ciphertext, req.Password)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrDecryptFailed, err)
	}

	var env domain.Envelope
	if err := json.Unmarshal(plaintext, &env); err != nil {
		return nil, fmt.Errorf("%w: malformed envelope", domain.ErrDecryptFailed)
	}
	if !env.HasContent() {
		return nil, fmt.Errorf("%w: empty envelope", domain.ErrDecryptFailed)
	}

	if env.IsExpired(s.now()) {
		return &domain.DecodeResult{Expired: true}, nil
	}

	return &domain.DecodeResult{Envelope: &env}, nil
}
