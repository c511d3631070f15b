// Package domain defines the payment artifact model.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentArtifact is a sensitive payload held temporarily in encrypted form,
// e.g. a payment instrument awaiting tokenization. The stored representation
// is always an encrypted blob; artifacts are deleted by the retention sweep
// and are never the permanent record.
type PaymentArtifact struct {
	ID   uuid.UUID
	Kind string
	// Blob is the serialized encrypted payload ("ivHex:authTagHex:cipherHex").
	Blob      string
	CreatedAt time.Time

	// Plaintext is the decrypted payload, populated only on retrieval and
	// never persisted.
	Plaintext []byte `json:"-"`
}
