package glip

import (
	"os"
	"path/filepath"

	"github.com/uml-digitalinitiatives/glip/internal/remote"
)

// OpenOptions configures a repo.
type OpenOptions struct {
	Store       Store
	Remote      Remote
	RemoteRef   string
	Auth        Authenticator
	Concurrency int
	CacheSize   int
	Compression *bool
}

// OpenOption is a functional option for Open.
type OpenOption func(*OpenOptions)

func defaultOptions() *OpenOptions {
	return &OpenOptions{
		Concurrency: remote.DefaultConcurrency,
	}
}

// WithStore uses a caller-provided store instead of opening a local
// one at the directory Open was given.
func WithStore(s Store) OpenOption {
	return func(o *OpenOptions) { o.Store = s }
}

// WithRemote sets the registry image ref snapshots sync against
// (e.g. "ttl.sh/myteam/site:main").
func WithRemote(imageRef string) OpenOption {
	return func(o *OpenOptions) { o.RemoteRef = imageRef }
}

// WithRemoteClient uses a caller-provided remote instead of building
// an OCI remote from an image ref.
func WithRemoteClient(r Remote) OpenOption {
	return func(o *OpenOptions) { o.Remote = r }
}

// WithAuth sets custom registry authentication.
func WithAuth(auth Authenticator) OpenOption {
	return func(o *OpenOptions) { o.Auth = auth }
}

// WithCacheSize caps the local store's in-memory object cache, in
// entries, overriding the store config.
func WithCacheSize(n int) OpenOption {
	return func(o *OpenOptions) { o.CacheSize = n }
}

// WithCompression turns object compression at rest on or off,
// overriding the store config. Existing compressed objects stay
// readable either way.
func WithCompression(enabled bool) OpenOption {
	return func(o *OpenOptions) { o.Compression = &enabled }
}

// WithConcurrency sets the number of parallel store and transfer
// operations.
func WithConcurrency(n int) OpenOption {
	return func(o *OpenOptions) {
		if n > 0 {
			o.Concurrency = n
		}
	}
}

// DefaultDir returns the default store location, honoring
// XDG_DATA_HOME.
func DefaultDir() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "glip")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "glip")
	}
	return ".glip"
}
