// Package store implements the object storage layer.
//
// Objects are opaque framed byte blobs addressed by the SHA-1 of their
// content. The Store interface is the boundary the tree core talks to:
// - Get/Put/Has for single objects
// - GetMulti/PutMulti for batches
// - GetRef/PutRef for named pointers to root objects
package store

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
)

// HashSize is the length in bytes of an object identifier.
const HashSize = sha1.Size

// Hash is a 20-byte content identifier.
type Hash [HashSize]byte

// ZeroHash is the all-zero identifier. It never names a stored object.
var ZeroHash Hash

// ErrNotFound reports a missing object or ref.
var ErrNotFound = errors.New("glip: not found")

// String returns the 40-character hex form.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// IsZero reports whether h is the zero identifier.
func (h Hash) IsZero() bool {
	return h == ZeroHash
}

// ParseHash parses a 40-character hex identifier.
func ParseHash(s string) (Hash, error) {
	var h Hash
	if len(s) != HashSize*2 {
		return h, fmt.Errorf("invalid hash %q: want %d hex chars", s, HashSize*2)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("invalid hash %q: %w", s, err)
	}
	copy(h[:], b)
	return h, nil
}

// HashBytes returns the identifier of data.
func HashBytes(data []byte) Hash {
	return sha1.Sum(data)
}

// Store handles object storage.
type Store interface {
	// Get retrieves an object by identifier.
	Get(ctx context.Context, id Hash) ([]byte, error)

	// Put stores an object and returns its identifier. Storing the same
	// bytes twice is a no-op.
	Put(ctx context.Context, data []byte) (Hash, error)

	// Has checks whether an object exists.
	Has(ctx context.Context, id Hash) (bool, error)

	// GetMulti retrieves multiple objects.
	GetMulti(ctx context.Context, ids []Hash) (map[Hash][]byte, error)

	// PutMulti stores multiple objects.
	PutMulti(ctx context.Context, objects map[Hash][]byte) error

	// GetRef retrieves the identifier a ref points at.
	GetRef(name string) (Hash, error)

	// PutRef points a ref at an identifier.
	PutRef(name string, id Hash) error
}
