// Package remote syncs snapshots with OCI registries.
//
// A snapshot travels as an image: packed object layers plus a config
// label naming the root tree. Layer packing is deterministic, so
// unchanged shards produce byte-identical layers and registries skip
// re-uploading them.
package remote

import (
	"context"

	"github.com/uml-digitalinitiatives/glip/internal/store"
)

// Remote moves snapshots between a local store and a registry.
type Remote interface {
	// Push uploads a snapshot. objects must contain every object
	// reachable from root.
	Push(ctx context.Context, root store.Hash, objects map[store.Hash][]byte) error

	// Pull downloads a snapshot and returns its root and objects.
	Pull(ctx context.Context) (store.Hash, map[store.Hash][]byte, error)
}
