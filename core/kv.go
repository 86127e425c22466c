package core

import "context"

// KVStore is a minimal persistent key-value contract. Collections are stored
// as JSON-encoded blobs under well-known keys and every mutation is a full
// read-modify-write cycle; concurrent writers are not coordinated (last
// writer wins).
type KVStore interface {
	// Get returns the blob stored under key; ok is false when the key is absent.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}
