package glip

import (
	"context"
	"errors"
	"fmt"

	"github.com/uml-digitalinitiatives/glip/internal/remote"
	"github.com/uml-digitalinitiatives/glip/internal/store"
)

// Repo ties an object store and an optional registry remote together
// behind the operations the CLI and examples build on.
type Repo struct {
	store  Store
	local  *store.Local // nil when the caller supplied the store
	remote Remote
}

// Open opens a repo over a local store at dir, creating the store
// layout on first use. An empty dir means DefaultDir. WithStore
// bypasses the local store entirely.
func Open(dir string, opts ...OpenOption) (*Repo, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	r := &Repo{store: options.Store}
	var cfg *store.Config
	if r.store == nil {
		if dir == "" {
			dir = DefaultDir()
		}
		var err error
		cfg, err = store.LoadConfig(dir)
		if err != nil {
			return nil, err
		}
		if options.CacheSize > 0 {
			cfg.CacheSize = options.CacheSize
		}
		if options.Compression != nil {
			cfg.Compression = *options.Compression
		}
		local, err := store.NewLocal(dir, cfg)
		if err != nil {
			return nil, err
		}
		local.SetConcurrency(options.Concurrency)
		r.store = local
		r.local = local
	}

	r.remote = options.Remote
	if r.remote == nil {
		imageRef := options.RemoteRef
		if imageRef == "" && cfg != nil {
			imageRef = cfg.RemoteURL
		}
		if imageRef != "" {
			rem, err := remote.NewOCIRemote(imageRef, options.Auth)
			if err != nil {
				return nil, err
			}
			rem.SetConcurrency(options.Concurrency)
			r.remote = rem
		}
	}

	return r, nil
}

// Store exposes the underlying object store for direct tree
// operations such as Find, ListRecursive, Update and Diff.
func (r *Repo) Store() Store { return r.store }

// Close releases the underlying store when Open created it.
func (r *Repo) Close() error {
	if r.local != nil {
		return r.local.Close()
	}
	return nil
}

// TreeAt fetches and decodes the tree stored under id.
func (r *Repo) TreeAt(ctx context.Context, id Hash) (*Tree, error) {
	return loadTree(ctx, r.store, id)
}

// PutTree persists a tree and returns its identifier.
func (r *Repo) PutTree(ctx context.Context, t *Tree) (Hash, error) {
	return putTree(ctx, r.store, t)
}

// BlobAt fetches the blob content stored under id.
func (r *Repo) BlobAt(ctx context.Context, id Hash) ([]byte, error) {
	typ, content, err := r.Object(ctx, id)
	if err != nil {
		return nil, err
	}
	if typ != TypeBlob {
		return nil, fmt.Errorf("%w: object %s is a %s, want blob", ErrFormat, id, typ)
	}
	return content, nil
}

// PutBlob persists content as a blob and returns its identifier.
func (r *Repo) PutBlob(ctx context.Context, content []byte) (Hash, error) {
	return r.store.Put(ctx, EncodeObject(TypeBlob, content))
}

// Object fetches any stored object, returning its type and content.
func (r *Repo) Object(ctx context.Context, id Hash) (ObjectType, []byte, error) {
	data, err := r.store.Get(ctx, id)
	if err != nil {
		return "", nil, err
	}
	return DecodeObject(data)
}

// Ref returns the identifier a ref points at.
func (r *Repo) Ref(name string) (Hash, error) {
	return r.store.GetRef(name)
}

// SetRef points a ref at an identifier.
func (r *Repo) SetRef(name string, id Hash) error {
	return r.store.PutRef(name, id)
}

// RootTree loads the tree ref points at. A missing ref yields an
// empty tree so fresh repos start from nothing.
func (r *Repo) RootTree(ctx context.Context, ref string) (*Tree, error) {
	id, err := r.store.GetRef(ref)
	if errors.Is(err, ErrNotFound) {
		return NewTree(), nil
	}
	if err != nil {
		return nil, err
	}
	return r.TreeAt(ctx, id)
}

// SaveRoot persists root and points ref at it.
func (r *Repo) SaveRoot(ctx context.Context, ref string, root *Tree) (Hash, error) {
	id, err := r.PutTree(ctx, root)
	if err != nil {
		return ZeroHash, err
	}
	if err := r.SetRef(ref, id); err != nil {
		return ZeroHash, err
	}
	return id, nil
}

// ResolveTree loads a tree named either by a 40-character identifier
// or by a ref name.
func (r *Repo) ResolveTree(ctx context.Context, name string) (*Tree, error) {
	if id, err := ParseHash(name); err == nil {
		return r.TreeAt(ctx, id)
	}
	id, err := r.store.GetRef(name)
	if err != nil {
		return nil, err
	}
	return r.TreeAt(ctx, id)
}

// Push uploads the snapshot at ref to the remote: the root identifier
// plus every object reachable from it.
func (r *Repo) Push(ctx context.Context, ref string) error {
	if r.remote == nil {
		return ErrNoRemote
	}
	rootID, err := r.store.GetRef(ref)
	if err != nil {
		return err
	}
	objects := make(map[Hash][]byte)
	if err := r.collectObjects(ctx, rootID, objects); err != nil {
		return err
	}
	return r.remote.Push(ctx, rootID, objects)
}

// Pull downloads the remote snapshot, stores its objects and points
// ref at its root.
func (r *Repo) Pull(ctx context.Context, ref string) error {
	if r.remote == nil {
		return ErrNoRemote
	}
	rootID, objects, err := r.remote.Pull(ctx)
	if err != nil {
		return err
	}
	if err := r.store.PutMulti(ctx, objects); err != nil {
		return err
	}
	return r.SetRef(ref, rootID)
}

// collectObjects walks the graph under id, gathering framed object
// bytes. Submodule links reference commits outside the store and are
// skipped.
func (r *Repo) collectObjects(ctx context.Context, id Hash, objects map[Hash][]byte) error {
	if _, ok := objects[id]; ok {
		return nil
	}
	data, err := r.store.Get(ctx, id)
	if err != nil {
		return err
	}
	objects[id] = data

	typ, content, err := DecodeObject(data)
	if err != nil {
		return err
	}
	if typ != TypeTree {
		return nil
	}
	tree, err := DecodeTree(content)
	if err != nil {
		return err
	}
	for _, e := range tree.Entries() {
		if e.IsSubmodule() {
			continue
		}
		if err := r.collectObjects(ctx, e.ID, objects); err != nil {
			return err
		}
	}
	return nil
}
