package domain

import "context"

// PasswordCipher defines the contract for password-based authenticated encryption.
// Implementations derive the key from the password on every call and hold no per-message state.
type PasswordCipher interface {
	// Seal encrypts plaintext under a key derived from password and returns
	// a self-describing textual ciphertext.
	Seal(ctx context.Context, plaintext []byte, password string) (string, error)

	// Open authenticates and decrypts. A wrong password and a corrupted
	// ciphertext are indistinguishable and both return an error.
	Open(ctx context.Context, ciphertext string, password string) ([]byte, error)
}
