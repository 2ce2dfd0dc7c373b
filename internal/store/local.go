package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sourcegraph/conc/pool"

	"github.com/uml-digitalinitiatives/glip/internal/compression"
)

// DefaultConcurrency bounds parallel batch operations.
const DefaultConcurrency = 4

// Local implements Store on the local filesystem.
//
// Storage layout:
//
//	dir/
//	  config          (INI settings, see Config)
//	  objects/
//	    ab/cd123...   (content-addressed objects, zstd-compressed)
//	  refs/
//	    main          (plain text: 40-char hex identifier)
type Local struct {
	dir         string
	cache       *lru.Cache[Hash, []byte]
	compressor  *compression.Compressor
	concurrency int
}

// NewLocal opens (creating if needed) a store rooted at dir. A nil cfg
// loads the store's config file.
func NewLocal(dir string, cfg *Config) (*Local, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig(dir)
		if err != nil {
			return nil, err
		}
	}

	for _, sub := range []string{"objects", "refs"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0755); err != nil {
			return nil, fmt.Errorf("create store dir %s: %w", sub, err)
		}
	}

	size := cfg.CacheSize
	if size < 1 {
		size = DefaultConfig().CacheSize
	}
	cache, err := lru.New[Hash, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}

	compressor, err := compression.NewCompressor(cfg.CompressionLevel, cfg.Compression)
	if err != nil {
		return nil, fmt.Errorf("create compressor: %w", err)
	}

	return &Local{
		dir:         dir,
		cache:       cache,
		compressor:  compressor,
		concurrency: DefaultConcurrency,
	}, nil
}

// SetConcurrency sets the number of parallel goroutines for batch operations.
func (s *Local) SetConcurrency(n int) {
	if n > 0 {
		s.concurrency = n
	}
}

// Dir returns the store's root directory.
func (s *Local) Dir() string { return s.dir }

// Get retrieves an object by identifier.
func (s *Local) Get(ctx context.Context, id Hash) ([]byte, error) {
	if data, ok := s.cache.Get(id); ok {
		return data, nil
	}

	compressed, err := os.ReadFile(s.objectPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("object %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("read object %s: %w", id, err)
	}

	data, err := s.compressor.Decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("decompress object %s: %w", id, err)
	}

	s.cache.Add(id, data)
	return data, nil
}

// Put stores an object and returns its identifier.
func (s *Local) Put(ctx context.Context, data []byte) (Hash, error) {
	id := HashBytes(data)

	path := s.objectPath(id)
	if _, err := os.Stat(path); err == nil {
		return id, nil
	}

	compressed, err := s.compressor.Compress(data)
	if err != nil {
		return ZeroHash, fmt.Errorf("compress object: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return ZeroHash, fmt.Errorf("create object dir: %w", err)
	}
	if err := os.WriteFile(path, compressed, 0644); err != nil {
		return ZeroHash, fmt.Errorf("write object %s: %w", id, err)
	}

	s.cache.Add(id, data)
	return id, nil
}

// Has checks whether an object exists.
func (s *Local) Has(ctx context.Context, id Hash) (bool, error) {
	if s.cache.Contains(id) {
		return true, nil
	}
	_, err := os.Stat(s.objectPath(id))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// GetMulti retrieves multiple objects in parallel.
func (s *Local) GetMulti(ctx context.Context, ids []Hash) (map[Hash][]byte, error) {
	var mu sync.Mutex
	result := make(map[Hash][]byte, len(ids))

	p := pool.New().WithMaxGoroutines(s.concurrency).WithContext(ctx).WithCancelOnError()
	for _, id := range ids {
		id := id
		p.Go(func(ctx context.Context) error {
			data, err := s.Get(ctx, id)
			if err != nil {
				return err
			}
			mu.Lock()
			result[id] = data
			mu.Unlock()
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// PutMulti stores multiple objects in parallel.
func (s *Local) PutMulti(ctx context.Context, objects map[Hash][]byte) error {
	p := pool.New().WithMaxGoroutines(s.concurrency).WithContext(ctx).WithCancelOnError()
	for _, data := range objects {
		data := data
		p.Go(func(ctx context.Context) error {
			_, err := s.Put(ctx, data)
			return err
		})
	}
	return p.Wait()
}

// GetRef retrieves the identifier a ref points at.
func (s *Local) GetRef(name string) (Hash, error) {
	path, err := s.refPath(name)
	if err != nil {
		return ZeroHash, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ZeroHash, fmt.Errorf("ref %s: %w", name, ErrNotFound)
		}
		return ZeroHash, fmt.Errorf("read ref %s: %w", name, err)
	}
	return ParseHash(strings.TrimSpace(string(data)))
}

// PutRef points a ref at an identifier.
func (s *Local) PutRef(name string, id Hash) error {
	path, err := s.refPath(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create ref dir: %w", err)
	}
	return os.WriteFile(path, []byte(id.String()+"\n"), 0644)
}

// Close releases the store's compressor resources.
func (s *Local) Close() error {
	return s.compressor.Close()
}

// objectPath returns the filesystem path for an object.
// Git-style sharding: objects/ab/cd123...
func (s *Local) objectPath(id Hash) string {
	hex := id.String()
	return filepath.Join(s.dir, "objects", hex[:2], hex[2:])
}

// refPath returns the filesystem path for a ref, rejecting names that
// would escape the refs directory.
func (s *Local) refPath(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty ref name")
	}
	clean := filepath.Clean(name)
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("invalid ref name %q", name)
	}
	return filepath.Join(s.dir, "refs", clean), nil
}
