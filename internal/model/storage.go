package model

import (
	"context"
	"time"
)

// StoredFile is the content store's unit of storage. The revision tag is
// required to overwrite an existing path and is invalidated by any write.
type StoredFile struct {
	Path     string
	Content  []byte
	Revision string
}

// FileEntry describes one entry of a content-store directory listing.
type FileEntry struct {
	Name     string
	Path     string
	Revision string
}

// ContentStore is a versioned file store keyed by path. A write presenting
// a stale revision tag fails with ErrConflict, distinct from ErrNotFound
// for an absent path.
type ContentStore interface {
	Read(ctx context.Context, path string) (StoredFile, error)
	List(ctx context.Context, dir string) ([]FileEntry, error)
	Write(ctx context.Context, path string, content []byte, revision string, message string) error
	Delete(ctx context.Context, path string, revision string, message string) error
}

// KVStore is durable key-value storage with per-key expiry, used for
// magic-link tokens and rate-limit counters. TTL enforcement belongs to
// the store itself.
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string, ttl time.Duration) error
}

// Mailer dispatches transactional email. Delivery failures are logged by
// callers, never surfaced to the requester.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}
