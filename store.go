package glip

import (
	"github.com/uml-digitalinitiatives/glip/internal/remote"
	"github.com/uml-digitalinitiatives/glip/internal/store"
)

// Hash is a 20-byte content identifier.
// Re-exported from internal/store for convenience.
type Hash = store.Hash

// Store is the object and ref storage interface.
// Re-exported from internal/store for convenience.
type Store = store.Store

// Remote moves snapshots between a store and an OCI registry.
// Re-exported from internal/remote for convenience.
type Remote = remote.Remote

// Authenticator supplies registry credentials for remote operations.
type Authenticator = remote.Authenticator

// HashSize is the length of a Hash in bytes.
const HashSize = store.HashSize

// ZeroHash is the all-zero identifier. No object hashes to it.
var ZeroHash = store.ZeroHash

// ParseHash parses a 40-character hex identifier.
func ParseHash(s string) (Hash, error) { return store.ParseHash(s) }

// NewMemStore returns an empty in-memory store, handy for tests and
// ephemeral repos.
func NewMemStore() Store { return store.NewMem() }
