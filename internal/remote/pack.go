package remote

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/uml-digitalinitiatives/glip/internal/store"
)

// Layer sizing for packed shards. Undersized shards are combined so a
// push does not degrade into hundreds of tiny uploads.
const (
	LayerMinSize = 2 * 1024 * 1024
	LayerSoftMax = 10 * 1024 * 1024
)

const entryHeaderSize = store.HashSize + 8

// ShardObjects groups objects by the leading byte of their identifier.
// Shards are the unit of layer packing: a shard whose content did not
// change between pushes packs to the same layer bytes.
func ShardObjects(objects map[store.Hash][]byte) map[byte]map[store.Hash][]byte {
	shards := make(map[byte]map[store.Hash][]byte)
	for id, data := range objects {
		s := shards[id[0]]
		if s == nil {
			s = make(map[store.Hash][]byte)
			shards[id[0]] = s
		}
		s[id] = data
	}
	return shards
}

// PlanLayers groups shard keys into layers by accumulated size. Shards
// are visited in key order so the plan is deterministic.
func PlanLayers(shards map[byte]map[store.Hash][]byte) [][]byte {
	keys := make([]byte, 0, len(shards))
	for k := range shards {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	var layers [][]byte
	var current []byte
	var size int64

	for _, k := range keys {
		n := shardSize(shards[k])
		switch {
		case len(current) == 0:
		case size+n <= LayerSoftMax:
		case size < LayerMinSize && size+n <= 2*LayerSoftMax:
		default:
			layers = append(layers, current)
			current = nil
			size = 0
		}
		current = append(current, k)
		size += n
	}
	if len(current) > 0 {
		layers = append(layers, current)
	}
	return layers
}

func shardSize(objects map[store.Hash][]byte) int64 {
	var total int64
	for _, data := range objects {
		total += int64(len(data))
	}
	return total
}

// CollectShards merges the named shards into one object set.
func CollectShards(keys []byte, shards map[byte]map[store.Hash][]byte) map[store.Hash][]byte {
	objects := make(map[store.Hash][]byte)
	for _, k := range keys {
		for id, data := range shards[k] {
			objects[id] = data
		}
	}
	return objects
}

// PackLayer serializes objects as repeated [20-byte id][8-byte
// big-endian length][data] entries, sorted by identifier.
func PackLayer(objects map[store.Hash][]byte) []byte {
	ids := make([]store.Hash, 0, len(objects))
	for id := range objects {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})

	var buf bytes.Buffer
	lenBuf := make([]byte, 8)
	for _, id := range ids {
		data := objects[id]
		buf.Write(id[:])
		binary.BigEndian.PutUint64(lenBuf, uint64(len(data)))
		buf.Write(lenBuf)
		buf.Write(data)
	}
	return buf.Bytes()
}

// UnpackLayer parses a packed layer payload.
func UnpackLayer(data []byte) (map[store.Hash][]byte, error) {
	objects := make(map[store.Hash][]byte)
	for off := 0; off < len(data); {
		if len(data)-off < entryHeaderSize {
			return nil, fmt.Errorf("pack: truncated header at offset %d", off)
		}
		var id store.Hash
		copy(id[:], data[off:off+store.HashSize])
		length := binary.BigEndian.Uint64(data[off+store.HashSize : off+entryHeaderSize])
		off += entryHeaderSize
		if length > uint64(len(data)-off) {
			return nil, fmt.Errorf("pack: truncated body for object %s", id)
		}
		end := off + int(length)
		objects[id] = data[off:end:end]
		off = end
	}
	return objects, nil
}
