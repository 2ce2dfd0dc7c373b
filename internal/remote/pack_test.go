package remote

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/uml-digitalinitiatives/glip/internal/store"
)

// packHash builds an identifier with a chosen shard byte.
func packHash(shard, fill byte) store.Hash {
	var h store.Hash
	h[0] = shard
	for i := 1; i < len(h); i++ {
		h[i] = fill
	}
	return h
}

func TestPackUnpackRoundTrip(t *testing.T) {
	objects := map[store.Hash][]byte{
		packHash(0x00, 0x01): []byte("first"),
		packHash(0x00, 0x02): {},
		packHash(0x7f, 0x03): []byte("third object, a bit longer"),
		packHash(0xff, 0x04): {0x00, 0xff, 0x00},
	}

	got, err := UnpackLayer(PackLayer(objects))
	if err != nil {
		t.Fatalf("UnpackLayer failed: %v", err)
	}
	if diff := cmp.Diff(objects, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestPackLayerDeterministic(t *testing.T) {
	// Map iteration order must not leak into the payload; identical
	// layer bytes are what lets registries dedup unchanged shards.
	objects := map[store.Hash][]byte{
		packHash(0x02, 0x01): []byte("b"),
		packHash(0x01, 0x01): []byte("a"),
		packHash(0x03, 0x01): []byte("c"),
	}

	first := PackLayer(objects)
	for i := 0; i < 10; i++ {
		if !bytes.Equal(PackLayer(objects), first) {
			t.Fatal("PackLayer output varies across calls")
		}
	}
}

func TestPackLayerLayout(t *testing.T) {
	id := packHash(0xab, 0xcd)
	data := []byte("payload")

	var want []byte
	want = append(want, id[:]...)
	want = binary.BigEndian.AppendUint64(want, uint64(len(data)))
	want = append(want, data...)

	got := PackLayer(map[store.Hash][]byte{id: data})
	if !bytes.Equal(got, want) {
		t.Errorf("PackLayer = %x, want %x", got, want)
	}
}

func TestUnpackLayerEmpty(t *testing.T) {
	got, err := UnpackLayer(nil)
	if err != nil {
		t.Fatalf("UnpackLayer(nil) failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("UnpackLayer(nil) = %d objects, want 0", len(got))
	}
}

func TestUnpackLayerErrors(t *testing.T) {
	valid := PackLayer(map[store.Hash][]byte{packHash(0x01, 0x01): []byte("data")})

	tests := []struct {
		name string
		data []byte
	}{
		{"truncated header", valid[:entryHeaderSize-1]},
		{"truncated body", valid[:len(valid)-1]},
		{"trailing header fragment", append(append([]byte{}, valid...), 0x01)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := UnpackLayer(tt.data); err == nil {
				t.Error("UnpackLayer succeeded, want error")
			}
		})
	}
}

func TestShardObjects(t *testing.T) {
	objects := map[store.Hash][]byte{
		packHash(0x00, 0x01): []byte("a"),
		packHash(0x00, 0x02): []byte("b"),
		packHash(0x01, 0x03): []byte("c"),
	}

	shards := ShardObjects(objects)
	if len(shards) != 2 {
		t.Fatalf("got %d shards, want 2", len(shards))
	}
	if len(shards[0x00]) != 2 {
		t.Errorf("shard 0x00 has %d objects, want 2", len(shards[0x00]))
	}
	if len(shards[0x01]) != 1 {
		t.Errorf("shard 0x01 has %d objects, want 1", len(shards[0x01]))
	}
}

func TestPlanLayersCombinesSmallShards(t *testing.T) {
	shards := map[byte]map[store.Hash][]byte{
		0x00: {packHash(0x00, 0x01): make([]byte, 100)},
		0x01: {packHash(0x01, 0x01): make([]byte, 100)},
		0x02: {packHash(0x02, 0x01): make([]byte, 100)},
	}

	want := [][]byte{{0x00, 0x01, 0x02}}
	if diff := cmp.Diff(want, PlanLayers(shards)); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}
}

func TestPlanLayersSplitsLargeShards(t *testing.T) {
	shards := map[byte]map[store.Hash][]byte{
		0x00: {packHash(0x00, 0x01): make([]byte, 6<<20)},
		0x01: {packHash(0x01, 0x01): make([]byte, 6<<20)},
	}

	want := [][]byte{{0x00}, {0x01}}
	if diff := cmp.Diff(want, PlanLayers(shards)); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}
}

func TestPlanLayersStretchesForTinyLayer(t *testing.T) {
	// An undersized layer absorbs the next shard even past the soft
	// cap rather than uploading a near-empty layer.
	shards := map[byte]map[store.Hash][]byte{
		0x00: {packHash(0x00, 0x01): make([]byte, 1<<20)},
		0x01: {packHash(0x01, 0x01): make([]byte, 10<<20)},
	}

	want := [][]byte{{0x00, 0x01}}
	if diff := cmp.Diff(want, PlanLayers(shards)); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectShards(t *testing.T) {
	shards := map[byte]map[store.Hash][]byte{
		0x00: {packHash(0x00, 0x01): []byte("a")},
		0x01: {packHash(0x01, 0x01): []byte("b")},
		0x02: {packHash(0x02, 0x01): []byte("c")},
	}

	got := CollectShards([]byte{0x00, 0x02}, shards)
	want := map[store.Hash][]byte{
		packHash(0x00, 0x01): []byte("a"),
		packHash(0x02, 0x01): []byte("c"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("collected objects mismatch (-want +got):\n%s", diff)
	}
}
