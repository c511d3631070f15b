package domain

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Expected component sizes for AES-256-GCM blobs.
const (
	// IVSize is the GCM nonce size in bytes.
	IVSize = 12
	// TagSize is the GCM authentication tag size in bytes.
	TagSize = 16
)

// EncryptedBlob represents a short-lived encrypted payload produced by the
// crypto box.
//
// The blob serializes to the format: "ivHex:authTagHex:cipherHex". Any
// tampering with any of the three segments causes decryption to fail closed
// through the authentication tag check; the blob never silently yields
// corrupted plaintext. A blob is always a temporary holding format, never the
// permanent record.
type EncryptedBlob struct {
	IV         []byte
	AuthTag    []byte
	Ciphertext []byte
}

// NewEncryptedBlob parses an EncryptedBlob from its string representation.
//
// The input must contain exactly 3 colon-separated hex segments:
// "ivHex:authTagHex:cipherHex". The IV and tag segments must decode to their
// expected AES-256-GCM sizes. Returns ErrInvalidBlobFormat for any malformed
// input.
func NewEncryptedBlob(content string) (EncryptedBlob, error) {
	parts := strings.Split(content, ":")
	if len(parts) != 3 {
		return EncryptedBlob{}, fmt.Errorf(
			"%w: expected format 'iv:tag:ciphertext', got %d parts",
			ErrInvalidBlobFormat,
			len(parts),
		)
	}

	iv, err := hex.DecodeString(parts[0])
	if err != nil {
		return EncryptedBlob{}, fmt.Errorf("%w: iv is not valid hex", ErrInvalidBlobFormat)
	}
	if len(iv) != IVSize {
		return EncryptedBlob{}, fmt.Errorf("%w: iv must be %d bytes", ErrInvalidBlobFormat, IVSize)
	}

	authTag, err := hex.DecodeString(parts[1])
	if err != nil {
		return EncryptedBlob{}, fmt.Errorf("%w: auth tag is not valid hex", ErrInvalidBlobFormat)
	}
	if len(authTag) != TagSize {
		return EncryptedBlob{}, fmt.Errorf("%w: auth tag must be %d bytes", ErrInvalidBlobFormat, TagSize)
	}

	ciphertext, err := hex.DecodeString(parts[2])
	if err != nil {
		return EncryptedBlob{}, fmt.Errorf("%w: ciphertext is not valid hex", ErrInvalidBlobFormat)
	}

	return EncryptedBlob{
		IV:         iv,
		AuthTag:    authTag,
		Ciphertext: ciphertext,
	}, nil
}

// String serializes the EncryptedBlob to "ivHex:authTagHex:cipherHex".
// Round-trips with NewEncryptedBlob.
func (eb EncryptedBlob) String() string {
	return fmt.Sprintf(
		"%s:%s:%s",
		hex.EncodeToString(eb.IV),
		hex.EncodeToString(eb.AuthTag),
		hex.EncodeToString(eb.Ciphertext),
	)
}
