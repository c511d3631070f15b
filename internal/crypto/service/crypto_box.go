// Package service implements the cryptographic services of the compliance
// core: authenticated encryption for short-lived sensitive blobs, webhook
// signature verification, and KMS-based secret unwrapping.
package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"github.com/allisson/paytrust/internal/crypto/domain"
)

// keySize is the AES-256 key size in bytes.
const keySize = 32

// CryptoBox provides AES-256-GCM authenticated encryption for sensitive
// payloads that must be held temporarily (e.g., pending tokenization).
//
// Security properties:
//   - 256-bit key taken from the first 32 bytes of the configured secret;
//     secrets providing fewer usable bytes are rejected at construction
//     rather than silently truncated into weak key material
//   - 12-byte IV randomly generated per encryption, never reused
//   - 16-byte authentication tag; decryption fails closed on any tampering
//
// The instance is stateless after construction and safe for concurrent use.
type CryptoBox struct {
	defaultKey []byte
}

// NewCryptoBox creates a CryptoBox keyed by the configured secret. The secret
// must provide at least 32 bytes; only the first 32 are used as key material.
// Returns ErrMissingKey for an empty secret and ErrWeakKey for a short one.
// Both are configuration errors that must abort process startup.
func NewCryptoBox(secret []byte) (*CryptoBox, error) {
	if len(secret) == 0 {
		return nil, domain.ErrMissingKey
	}
	if len(secret) < keySize {
		return nil, domain.ErrWeakKey
	}

	key := make([]byte, keySize)
	copy(key, secret[:keySize])

	return &CryptoBox{defaultKey: key}, nil
}

// Encrypt encrypts plaintext with the given key, or with the configured
// default secret when key is nil. A fresh random 12-byte IV is generated per
// call. The returned blob serializes as "ivHex:authTagHex:cipherHex".
func (c *CryptoBox) Encrypt(plaintext, key []byte) (domain.EncryptedBlob, error) {
	aead, err := c.newAEAD(key)
	if err != nil {
		return domain.EncryptedBlob{}, err
	}

	iv := make([]byte, domain.IVSize)
	if _, err := rand.Read(iv); err != nil {
		return domain.EncryptedBlob{}, fmt.Errorf("failed to generate iv: %w", err)
	}

	// Seal appends the authentication tag to the ciphertext; split them so
	// the blob carries the tag as its own segment.
	sealed := aead.Seal(nil, iv, plaintext, nil)
	tagStart := len(sealed) - domain.TagSize

	return domain.EncryptedBlob{
		IV:         iv,
		AuthTag:    sealed[tagStart:],
		Ciphertext: sealed[:tagStart],
	}, nil
}

// Decrypt decrypts the blob with the given key, or with the configured
// default secret when key is nil. Fails closed: any authentication tag
// mismatch returns ErrDecryptionFailed and never partial plaintext.
func (c *CryptoBox) Decrypt(blob domain.EncryptedBlob, key []byte) ([]byte, error) {
	aead, err := c.newAEAD(key)
	if err != nil {
		return nil, err
	}

	sealed := make([]byte, 0, len(blob.Ciphertext)+len(blob.AuthTag))
	sealed = append(sealed, blob.Ciphertext...)
	sealed = append(sealed, blob.AuthTag...)

	plaintext, err := aead.Open(nil, blob.IV, sealed, nil)
	if err != nil {
		return nil, domain.ErrDecryptionFailed
	}
	return plaintext, nil
}

// DecryptString parses the serialized blob and decrypts it. Malformed
// serializations and tag mismatches both fail closed with an error.
func (c *CryptoBox) DecryptString(content string, key []byte) ([]byte, error) {
	blob, err := domain.NewEncryptedBlob(content)
	if err != nil {
		return nil, err
	}
	return c.Decrypt(blob, key)
}

// newAEAD builds the AES-256-GCM cipher for the effective key.
func (c *CryptoBox) newAEAD(key []byte) (cipher.AEAD, error) {
	effective := key
	if effective == nil {
		effective = c.defaultKey
	}
	if len(effective) == 0 {
		return nil, domain.ErrMissingKey
	}
	if len(effective) < keySize {
		return nil, domain.ErrWeakKey
	}

	block, err := aes.NewCipher(effective[:keySize])
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCMWithNonceSize(block, domain.IVSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aead, nil
}
