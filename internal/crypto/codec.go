// Package crypto implements field-level encryption for stored credentials:
// AES-256-GCM with a fresh random 16-byte IV per call, emitted as
// base64(IV || authTag || ciphertext).
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
)

const (
	ivLen      = 16
	tagLen     = 16
	minSecret  = 32
	maskedTail = 4
)

// devSecret is the documented development escape hatch used when no usable
// encryption secret is configured. It must never survive into production;
// NewCodec in strict mode refuses it.
const devSecret = "insecure-dev-encryption-secret!!"

// Sentinel errors for codec failures.
var (
	ErrWeakSecret = errors.New("encryption secret missing or shorter than 32 characters")
	ErrDecryption = errors.New("decryption failed")
)

// Codec encrypts and decrypts single credential values. It holds no mutable
// state and is safe for concurrent use.
type Codec struct {
	aead cipher.AEAD
}

// NewCodec derives a 256-bit key by hashing the configured secret. If the
// secret is absent or too short, the codec falls back to a clearly-marked
// insecure development key and logs a warning; pass strict=true to fail
// instead (production).
func NewCodec(secret string, strict bool) (*Codec, error) {
	if len(secret) < minSecret {
		if strict {
			return nil, ErrWeakSecret
		}
		slog.Warn("encryption secret missing or too short, using insecure development key",
			"min_length", minSecret)
		secret = devSecret
	}

	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	aead, err := cipher.NewGCMWithNonceSize(block, ivLen)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return &Codec{aead: aead}, nil
}

// Encrypt encrypts a single value. Empty input maps to empty output. The
// result is non-deterministic: every call draws a fresh IV.
func (c *Codec) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	iv := make([]byte, ivLen)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("generate iv: %w", err)
	}

	// Seal appends the auth tag after the ciphertext; the wire layout puts
	// the tag between IV and ciphertext, so split and reorder.
	sealed := c.aead.Seal(nil, iv, []byte(plaintext), nil)
	ct := sealed[:len(sealed)-tagLen]
	tag := sealed[len(sealed)-tagLen:]

	buf := make([]byte, 0, ivLen+tagLen+len(ct))
	buf = append(buf, iv...)
	buf = append(buf, tag...)
	buf = append(buf, ct...)
	return base64.StdEncoding.EncodeToString(buf), nil
}

// Decrypt reverses Encrypt. Empty input maps to empty output. Returns
// ErrDecryption on malformed input or auth-tag failure; corrupted plaintext
// is never returned.
func (c *Codec) Decrypt(ciphertext string) (string, error) {
	if ciphertext == "" {
		return "", nil
	}

	buf, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: invalid base64", ErrDecryption)
	}
	if len(buf) < ivLen+tagLen {
		return "", fmt.Errorf("%w: buffer too short", ErrDecryption)
	}

	iv := buf[:ivLen]
	tag := buf[ivLen : ivLen+tagLen]
	ct := buf[ivLen+tagLen:]

	sealed := make([]byte, 0, len(ct)+tagLen)
	sealed = append(sealed, ct...)
	sealed = append(sealed, tag...)

	plaintext, err := c.aead.Open(nil, iv, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: authentication failed", ErrDecryption)
	}
	return string(plaintext), nil
}

// Mask returns a redacted display form showing only the trailing 4
// characters. Display only; never feed the result back into storage.
func Mask(value string) string {
	if value == "" {
		return ""
	}
	if len(value) <= maskedTail {
		return "****"
	}
	return "****" + value[len(value)-maskedTail:]
}
