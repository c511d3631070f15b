package domain

import "context"

// KMSKeeper is the subset of a gocloud.dev secrets keeper used to unwrap the
// service encryption secret at startup. *secrets.Keeper implements it.
type KMSKeeper interface {
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}
