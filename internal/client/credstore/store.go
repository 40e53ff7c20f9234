// Package credstore is the client's persistent credential storage — the Go
// counterpart of the browser cookie jar the backend writes into. It backs
// onto a local sqlite database so that credentials survive restarts and are
// visible to every concurrently running client process.
//
// Readers must not cache values: the store is process-external shared
// state, so every lookup goes back to the database.
package credstore

import "context"

// Store holds opaque named secrets: the full credential, the temporary
// MFA-scoped credential, and the local TOTP secret.
type Store interface {
	// Get returns the value for key, or nil when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// SetFull stores the full credential and discards any temporary one in
	// a single transaction: once a full credential exists, the temporary
	// credential has no remaining purpose.
	SetFull(ctx context.Context, credential []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear wipes every stored secret (logout).
	Clear(ctx context.Context) error

	// Close releases the underlying database handle.
	Close() error
}
