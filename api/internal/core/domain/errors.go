package domain

import "errors"

var (
	// Missing input. Validated before any cryptographic or network work.
	ErrPasswordRequired      = errors.New("password is required")
	ErrEmptyEnvelope         = errors.New("please enter text or upload an image")
	ErrCiphertextRequired    = errors.New("please enter ciphertext to decrypt")
	ErrTranslateTextRequired = errors.New("enter text to translate")
	ErrTargetLangRequired    = errors.New("target language is required")

	// ErrDecryptFailed covers wrong passwords, corrupted ciphertext and
	// plaintext that is not a valid envelope. Callers must not tell them apart.
	ErrDecryptFailed = errors.New("unable to decrypt payload")

	// ErrTranslationFailed is returned for any upstream or network failure.
	ErrTranslationFailed = errors.New("translation failed")

	// ErrTranslatorUnavailable means no translation credential is configured.
	ErrTranslatorUnavailable = errors.New("translation is not configured")
)
