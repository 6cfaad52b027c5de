// Package contentstore abstracts the content-addressed blob store records
// are anchored to. The reference returned by Put is derived from the bytes
// themselves, so storing the same content twice yields the same reference.
package contentstore

import "context"

// ContentStore is the content-store capability consumed by the anchoring
// pipeline.
type ContentStore interface {
	// Put stores data and returns its content reference.
	Put(ctx context.Context, data []byte) (string, error)

	// Get retrieves the bytes behind a reference, or common.ErrNotFound.
	Get(ctx context.Context, contentRef string) ([]byte, error)
}
