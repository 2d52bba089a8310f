package services_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Poojareddy2809/shadowshare/api/internal/core/domain"
	"github.com/Poojareddy2809/shadowshare/api/internal/core/services"
	"github.com/Poojareddy2809/shadowshare/api/internal/infrastructure/crypto"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// spyCipher counts calls so tests can prove validation happens first.
type spyCipher struct {
	inner     domain.PasswordCipher
	seals     int
	opens     int
	plaintext []byte
}

func (s *spyCipher) Seal(ctx context.Context, plaintext []byte, password string) (string, error) {
	s.seals++
	s.plaintext = plaintext
	return s.inner.Seal(ctx, plaintext, password)
}

func (s *spyCipher) Open(ctx context.Context, ciphertext string, password string) ([]byte, error) {
	s.opens++
	return s.inner.Open(ctx, ciphertext, password)
}

func newCodec(t *testing.T, opts ...services.EnvelopeOption) (*services.EnvelopeService, *spyCipher) {
	t.Helper()
	c, err := crypto.NewPasswordCipher(crypto.KDFParams{Time: 1, MemoryKiB: 8, Threads: 1})
	require.NoError(t, err)
	spy := &spyCipher{inner: c}
	return services.NewEnvelopeService(spy, discard, opts...), spy
}

func TestEnvelopeService_RoundTrip(t *testing.T) {
	codec, _ := newCodec(t)
	ctx := context.Background()
	expiresAt := time.Now().Add(10 * time.Minute)

	ciphertext, err := codec.Encode(ctx, domain.EncryptRequest{
		Text:      "hello",
		Image:     "data:image/png;base64,iVBORw0KGgo=",
		Password:  "pw",
		ExpiresAt: &expiresAt,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, ciphertext)

	res, err := codec.Decode(ctx, domain.DecryptRequest{Ciphertext: ciphertext, Password: "pw"})
	require.NoError(t, err)
	require.False(t, res.Expired)
	require.NotNil(t, res.Envelope)

	assert.Equal(t, "hello", res.Envelope.Text)
	assert.Equal(t, "data:image/png;base64,iVBORw0KGgo=", res.Envelope.Image)
	require.NotNil(t, res.Envelope.Expires)
	assert.Equal(t, expiresAt.UnixMilli(), *res.Envelope.Expires)
}

func TestEnvelopeService_TextOnly(t *testing.T) {
	codec, spy := newCodec(t)
	ctx := context.Background()

	ciphertext, err := codec.Encode(ctx, domain.EncryptRequest{Text: "hi", Password: "pw"})
	require.NoError(t, err)

	// Absent fields are omitted from the serialized envelope.
	assert.JSONEq(t, `{"text":"hi"}`, string(spy.plaintext))

	res, err := codec.Decode(ctx, domain.DecryptRequest{Ciphertext: ciphertext, Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, &domain.Envelope{Text: "hi"}, res.Envelope)
}

func TestEnvelopeService_WrongPassword(t *testing.T) {
	codec, _ := newCodec(t)
	ctx := context.Background()

	ciphertext, err := codec.Encode(ctx, domain.EncryptRequest{Text: "T", Password: "P1"})
	require.NoError(t, err)

	res, err := codec.Decode(ctx, domain.DecryptRequest{Ciphertext: ciphertext, Password: "P2"})
	assert.ErrorIs(t, err, domain.ErrDecryptFailed)
	assert.Nil(t, res)
}

func TestEnvelopeService_Expiry(t *testing.T) {
	codec, _ := newCodec(t)
	ctx := context.Background()
	past := time.Now().Add(-1000 * time.Millisecond)

	ciphertext, err := codec.Encode(ctx, domain.EncryptRequest{Text: "secret", Password: "pw", ExpiresAt: &past})
	require.NoError(t, err)

	t.Run("correct password yields expired outcome", func(t *testing.T) {
		res, err := codec.Decode(ctx, domain.DecryptRequest{Ciphertext: ciphertext, Password: "pw"})
		require.NoError(t, err)
		assert.True(t, res.Expired)
		assert.Nil(t, res.Envelope, "expired content must never be returned")
	})

	t.Run("wrong password wins over expiry", func(t *testing.T) {
		res, err := codec.Decode(ctx, domain.DecryptRequest{Ciphertext: ciphertext, Password: "nope"})
		assert.ErrorIs(t, err, domain.ErrDecryptFailed)
		assert.Nil(t, res)
	})
}

func TestEnvelopeService_ExpiryBoundary(t *testing.T) {
	expiresAt := time.UnixMilli(1_700_000_000_000)
	clock := expiresAt

	codec, _ := newCodec(t, services.WithClock(func() time.Time { return clock }))
	ctx := context.Background()

	ciphertext, err := codec.Encode(ctx, domain.EncryptRequest{Text: "x", Password: "pw", ExpiresAt: &expiresAt})
	require.NoError(t, err)

	// Exactly at the instant the envelope is still readable.
	res, err := codec.Decode(ctx, domain.DecryptRequest{Ciphertext: ciphertext, Password: "pw"})
	require.NoError(t, err)
	assert.False(t, res.Expired)

	clock = expiresAt.Add(time.Millisecond)
	res, err = codec.Decode(ctx, domain.DecryptRequest{Ciphertext: ciphertext, Password: "pw"})
	require.NoError(t, err)
	assert.True(t, res.Expired)
}

func TestEnvelopeService_MissingInputs(t *testing.T) {
	codec, spy := newCodec(t)
	ctx := context.Background()

	_, err := codec.Encode(ctx, domain.EncryptRequest{Password: "pw"})
	assert.ErrorIs(t, err, domain.ErrEmptyEnvelope)

	_, err = codec.Encode(ctx, domain.EncryptRequest{Text: "hi"})
	assert.ErrorIs(t, err, domain.ErrPasswordRequired)

	_, err = codec.Decode(ctx, domain.DecryptRequest{Password: "pw"})
	assert.ErrorIs(t, err, domain.ErrCiphertextRequired)

	_, err = codec.Decode(ctx, domain.DecryptRequest{Ciphertext: "abc"})
	assert.ErrorIs(t, err, domain.ErrPasswordRequired)

	// Password is reported first when both are missing, as the form did
	_, err = codec.Decode(ctx, domain.DecryptRequest{})
	assert.ErrorIs(t, err, domain.ErrPasswordRequired)

	_, err = codec.Encode(ctx, domain.EncryptRequest{})
	assert.ErrorIs(t, err, domain.ErrPasswordRequired)

	assert.Zero(t, spy.seals, "cipher must not run for invalid encrypt input")
	assert.Zero(t, spy.opens, "cipher must not run for invalid decrypt input")
}

func TestEnvelopeService_RejectsNonEnvelopePlaintext(t *testing.T) {
	codec, spy := newCodec(t)
	ctx := context.Background()

	for name, plaintext := range map[string]string{
		"not json":     "definitely not json",
		"json array":   `["text"]`,
		"json null":    "null",
		"empty object": "{}",
	} {
		t.Run(name, func(t *testing.T) {
			ciphertext, err := spy.inner.Seal(ctx, []byte(plaintext), "pw")
			require.NoError(t, err)

			res, err := codec.Decode(ctx, domain.DecryptRequest{Ciphertext: ciphertext, Password: "pw"})
			assert.ErrorIs(t, err, domain.ErrDecryptFailed)
			assert.Nil(t, res)
		})
	}
}

func TestEnvelopeService_CorruptCiphertext(t *testing.T) {
	codec, _ := newCodec(t)

	res, err := codec.Decode(context.Background(), domain.DecryptRequest{Ciphertext: "U2FsdGVkX1+garbage", Password: "pw"})
	assert.ErrorIs(t, err, domain.ErrDecryptFailed)
	assert.Nil(t, res)
}
