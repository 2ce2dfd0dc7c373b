package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/go-containerregistry/pkg/authn"
	"github.com/google/go-containerregistry/pkg/name"
	v1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/google/go-containerregistry/pkg/v1/empty"
	"github.com/google/go-containerregistry/pkg/v1/mutate"
	"github.com/google/go-containerregistry/pkg/v1/remote"
	"github.com/google/go-containerregistry/pkg/v1/types"
	"github.com/klauspost/compress/zstd"
	"github.com/sourcegraph/conc/pool"

	"github.com/uml-digitalinitiatives/glip/internal/store"
)

const DefaultConcurrency = 4

// RootLabel is the image config label carrying the snapshot root
// identifier. Images without it are not snapshots.
const RootLabel = "dev.glip.root"

// OCIRemote stores snapshots as images in an OCI registry.
type OCIRemote struct {
	ref         name.Reference
	auth        Authenticator
	concurrency int
}

// NewOCIRemote creates a remote from a standard image ref
// (e.g. "ttl.sh/myteam/site:main").
func NewOCIRemote(imageRef string, auth Authenticator) (*OCIRemote, error) {
	ref, err := name.ParseReference(imageRef, name.WithDefaultTag("latest"))
	if err != nil {
		return nil, fmt.Errorf("invalid image ref %q: %w", imageRef, err)
	}
	return &OCIRemote{ref: ref, auth: auth, concurrency: DefaultConcurrency}, nil
}

// SetConcurrency sets the number of parallel layer transfers.
func (r *OCIRemote) SetConcurrency(n int) {
	if n > 0 {
		r.concurrency = n
	}
}

func (r *OCIRemote) String() string   { return r.ref.String() }
func (r *OCIRemote) Registry() string { return r.ref.Context().RegistryStr() }
func (r *OCIRemote) Tag() string      { return r.ref.Identifier() }

// WithTag returns a new OCIRemote addressing a different tag.
func (r *OCIRemote) WithTag(tag string) (*OCIRemote, error) {
	ref, err := name.NewTag(r.ref.Context().String() + ":" + tag)
	if err != nil {
		return nil, err
	}
	return &OCIRemote{ref: ref, auth: r.auth, concurrency: r.concurrency}, nil
}

var layerEncoder, _ = zstd.NewWriter(nil,
	zstd.WithEncoderLevel(zstd.SpeedDefault),
	zstd.WithEncoderConcurrency(1),
)

// packedLayer implements v1.Layer over a packed shard payload,
// compressed with zstd for transfer.
type packedLayer struct {
	compressed   []byte
	uncompressed []byte
}

func newPackedLayer(payload []byte) *packedLayer {
	return &packedLayer{
		compressed:   layerEncoder.EncodeAll(payload, nil),
		uncompressed: payload,
	}
}

func (l *packedLayer) Digest() (v1.Hash, error) {
	h, _, err := v1.SHA256(bytes.NewReader(l.compressed))
	return h, err
}

func (l *packedLayer) DiffID() (v1.Hash, error) {
	h, _, err := v1.SHA256(bytes.NewReader(l.uncompressed))
	return h, err
}

func (l *packedLayer) Compressed() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(l.compressed)), nil
}

func (l *packedLayer) Uncompressed() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(l.uncompressed)), nil
}

func (l *packedLayer) Size() (int64, error)                { return int64(len(l.compressed)), nil }
func (l *packedLayer) MediaType() (types.MediaType, error) { return types.OCILayerZStd, nil }

// Push uploads a snapshot. Objects are sharded, packed into layers and
// uploaded; the root identifier rides on the image config.
func (r *OCIRemote) Push(ctx context.Context, root store.Hash, objects map[store.Hash][]byte) error {
	shards := ShardObjects(objects)
	plan := PlanLayers(shards)

	fmt.Fprintf(os.Stderr, "[push] %d objects in %d shards, %d layers\n",
		len(objects), len(shards), len(plan))

	layers := make([]v1.Layer, 0, len(plan))
	var totalRaw, totalCompressed int64
	for _, group := range plan {
		payload := PackLayer(CollectShards(group, shards))
		layer := newPackedLayer(payload)
		totalRaw += int64(len(payload))
		totalCompressed += int64(len(layer.compressed))
		layers = append(layers, layer)
	}

	if totalRaw > 0 {
		fmt.Fprintf(os.Stderr, "[push] uploading %.1fKB (%.1fKB compressed)\n",
			float64(totalRaw)/1024, float64(totalCompressed)/1024)
	}

	img, err := r.buildImage(layers, root)
	if err != nil {
		return fmt.Errorf("build image: %w", err)
	}
	if err := r.pushImage(ctx, img); err != nil {
		return fmt.Errorf("push image: %w", err)
	}

	fmt.Fprintf(os.Stderr, "[push] done: %s\n", r.ref)
	return nil
}

func (r *OCIRemote) buildImage(layers []v1.Layer, root store.Hash) (v1.Image, error) {
	img := empty.Image

	if len(layers) > 0 {
		var err error
		img, err = mutate.AppendLayers(img, layers...)
		if err != nil {
			return nil, err
		}
	}

	cfg, err := img.ConfigFile()
	if err != nil {
		return nil, err
	}
	cfg.Config.Labels = map[string]string{RootLabel: root.String()}

	return mutate.ConfigFile(img, cfg)
}

func (r *OCIRemote) pushImage(ctx context.Context, img v1.Image) error {
	options := r.remoteOptions()
	options = append(options, remote.WithJobs(r.concurrency))
	_, err := retry(ctx, 3, func() (struct{}, error) {
		return struct{}{}, remote.Write(r.ref, img, options...)
	})
	return err
}

// Pull downloads a snapshot: the root identifier from the image config
// and every object from the packed layers.
func (r *OCIRemote) Pull(ctx context.Context) (store.Hash, map[store.Hash][]byte, error) {
	img, err := retry(ctx, 3, func() (v1.Image, error) {
		return remote.Image(r.ref, r.remoteOptions()...)
	})
	if err != nil {
		return store.ZeroHash, nil, fmt.Errorf("fetch image: %w", err)
	}

	cfg, err := img.ConfigFile()
	if err != nil {
		return store.ZeroHash, nil, fmt.Errorf("get config: %w", err)
	}

	label := cfg.Config.Labels[RootLabel]
	if label == "" {
		return store.ZeroHash, nil, fmt.Errorf("image %s: missing %s label", r.ref, RootLabel)
	}
	root, err := store.ParseHash(label)
	if err != nil {
		return store.ZeroHash, nil, fmt.Errorf("image %s: %w", r.ref, err)
	}

	layers, err := img.Layers()
	if err != nil {
		return store.ZeroHash, nil, fmt.Errorf("get layers: %w", err)
	}

	fmt.Fprintf(os.Stderr, "[pull] downloading %d layers\n", len(layers))

	var mu sync.Mutex
	objects := make(map[store.Hash][]byte)

	p := pool.New().WithMaxGoroutines(r.concurrency).WithContext(ctx).WithCancelOnError()
	for _, layer := range layers {
		layer := layer
		p.Go(func(ctx context.Context) error {
			rc, err := layer.Uncompressed()
			if err != nil {
				return fmt.Errorf("open layer: %w", err)
			}
			data, err := io.ReadAll(rc)
			if cerr := rc.Close(); cerr != nil {
				return fmt.Errorf("close layer: %w", cerr)
			}
			if err != nil {
				return fmt.Errorf("read layer: %w", err)
			}

			parsed, err := UnpackLayer(data)
			if err != nil {
				return fmt.Errorf("unpack layer: %w", err)
			}

			mu.Lock()
			for id, obj := range parsed {
				objects[id] = obj
			}
			mu.Unlock()
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return store.ZeroHash, nil, err
	}

	fmt.Fprintf(os.Stderr, "[pull] done, %d objects\n", len(objects))
	return root, objects, nil
}

func (r *OCIRemote) remoteOptions() []remote.Option {
	if r.auth != nil {
		username, password, err := r.auth.Authenticate(r.Registry())
		if err == nil && username != "" {
			return []remote.Option{remote.WithAuth(&authn.Basic{
				Username: username,
				Password: password,
			})}
		}
	}
	return []remote.Option{remote.WithAuthFromKeychain(authn.DefaultKeychain)}
}

func retry[T any](ctx context.Context, maxAttempts int, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
		if i < maxAttempts-1 {
			delay := time.Duration(1<<i) * 500 * time.Millisecond
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return zero, lastErr
}
