package crypto

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

// Wire layout: magic | version | time | memory | threads | salt | nonce | sealed.
// Everything before the nonce is authenticated as associated data.
const (
	magic       = "SHSH"
	version     = byte(1)
	saltSize    = 16
	keySize     = 32 // AES-256
	headerSize  = len(magic) + 1 + 4 + 4 + 1 + saltSize
	gcmNonceLen = 12
	gcmTagLen   = 16
)

// KDF bounds. Applied to our own settings and to headers read off the wire.
// Open additionally caps wire parameters at the cipher's configured cost.
const (
	minTime      = 1
	maxTime      = 10
	minMemoryKiB = 8
	maxMemoryKiB = 1 << 20 // 1 GiB
	minThreads   = 1
	maxThreads   = 16
)

var (
	// ErrIntegrity is returned for every failure to open a ciphertext.
	ErrIntegrity = errors.New("crypto: integrity violation")

	ErrInvalidParams = errors.New("crypto: argon2 parameters out of bounds")
)

// KDFParams are the Argon2id cost settings.
type KDFParams struct {
	Time      uint32
	MemoryKiB uint32
	Threads   uint8
}

// DefaultKDFParams follows the RFC 9106 second recommended option.
func DefaultKDFParams() KDFParams {
	return KDFParams{Time: 3, MemoryKiB: 64 * 1024, Threads: 2}
}

func (p KDFParams) validate() error {
	if p.Time < minTime || p.Time > maxTime ||
		p.MemoryKiB < minMemoryKiB || p.MemoryKiB > maxMemoryKiB ||
		p.Threads < minThreads || p.Threads > maxThreads {
		return fmt.Errorf("%w: t=%d m=%d p=%d", ErrInvalidParams, p.Time, p.MemoryKiB, p.Threads)
	}
	return nil
}

// exceeds reports whether any cost dimension of p is above ceiling.
func (p KDFParams) exceeds(ceiling KDFParams) bool {
	return p.Time > ceiling.Time || p.MemoryKiB > ceiling.MemoryKiB || p.Threads > ceiling.Threads
}

// PasswordCipher implements domain.PasswordCipher with Argon2id and AES-256-GCM.
// It is stateless apart from its KDF settings and safe for concurrent use.
type PasswordCipher struct {
	params KDFParams
	rand   io.Reader
}

func NewPasswordCipher(params KDFParams) (*PasswordCipher, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	return &PasswordCipher{params: params, rand: rand.Reader}, nil
}

// Params returns the KDF settings used for new ciphertexts.
func (c *PasswordCipher) Params() KDFParams {
	return c.params
}

func (c *PasswordCipher) Seal(ctx context.Context, plaintext []byte, password string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	header := make([]byte, headerSize)
	writeHeader(header, c.params)
	salt := header[headerSize-saltSize:]
	if _, err := io.ReadFull(c.rand, salt); err != nil {
		return "", fmt.Errorf("crypto: salt generation failure: %w", err)
	}

	aead, err := newAEAD(password, salt, c.params)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(c.rand, nonce); err != nil {
		return "", fmt.Errorf("crypto: nonce generation failure: %w", err)
	}

	out := make([]byte, 0, headerSize+len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, header...)
	out = append(out, nonce...)
	out = aead.Seal(out, nonce, plaintext, header)

	return base64.URLEncoding.EncodeToString(out), nil
}

func (c *PasswordCipher) Open(ctx context.Context, ciphertext string, password string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := base64.URLEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: base64 decode failure", ErrIntegrity)
	}
	if len(data) < headerSize+gcmNonceLen+gcmTagLen {
		return nil, fmt.Errorf("%w: ciphertext too short", ErrIntegrity)
	}

	header := data[:headerSize]
	params, err := readHeader(header)
	if err != nil {
		return nil, err
	}
	// 🛡️ DoS: never spend more on an unauthenticated header than on our own ciphertexts
	if params.exceeds(c.params) {
		return nil, fmt.Errorf("%w: kdf cost t=%d m=%d p=%d above configured ceiling",
			ErrIntegrity, params.Time, params.MemoryKiB, params.Threads)
	}
	salt := header[headerSize-saltSize:]

	aead, err := newAEAD(password, salt, params)
	if err != nil {
		return nil, err
	}

	nonce := data[headerSize : headerSize+gcmNonceLen]
	plaintext, err := aead.Open(nil, nonce, data[headerSize+gcmNonceLen:], header)
	if err != nil {
		return nil, fmt.Errorf("%w: authentication failed", ErrIntegrity)
	}

	return plaintext, nil
}

func newAEAD(password string, salt []byte, p KDFParams) (cipher.AEAD, error) {
	key := argon2.IDKey([]byte(password), salt, p.Time, p.MemoryKiB, p.Threads, keySize)
	defer zeroize(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("crypto: block cipher failure: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("crypto: GCM failure: %w", err)
	}
	return aead, nil
}

func writeHeader(b []byte, p KDFParams) {
	copy(b, magic)
	off := len(magic)
	b[off] = version
	off++
	binary.BigEndian.PutUint32(b[off:], p.Time)
	off += 4
	binary.BigEndian.PutUint32(b[off:], p.MemoryKiB)
	off += 4
	b[off] = p.Threads
}

func readHeader(b []byte) (KDFParams, error) {
	if string(b[:len(magic)]) != magic {
		return KDFParams{}, fmt.Errorf("%w: unknown format", ErrIntegrity)
	}
	off := len(magic)
	if b[off] != version {
		return KDFParams{}, fmt.Errorf("%w: unsupported version %d", ErrIntegrity, b[off])
	}
	off++
	p := KDFParams{
		Time:      binary.BigEndian.Uint32(b[off:]),
		MemoryKiB: binary.BigEndian.Uint32(b[off+4:]),
		Threads:   b[off+8],
	}
	if err := p.validate(); err != nil {
		return KDFParams{}, fmt.Errorf("%w: %v", ErrIntegrity, err)
	}
	return p, nil
}

// 🛡️ Privacy: scrub derived keys once the cipher has been keyed
func zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
