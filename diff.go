package glip

import (
	"context"
	"sort"
)

// ChangeKind classifies one path's difference between two snapshots.
type ChangeKind int

const (
	ChangeAdded ChangeKind = iota
	ChangeRemoved
	ChangeChanged
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeAdded:
		return "added"
	case ChangeRemoved:
		return "removed"
	case ChangeChanged:
		return "changed"
	}
	return "unknown"
}

// Diff computes per-path changes from snapshot a to snapshot b. A nil
// tree is treated as empty, so a one-sided diff reports the whole
// other snapshot as added or removed. Both trees are flattened via
// ListRecursive and merged over their byte-sorted paths; unchanged
// paths are omitted. Key order in the result carries no meaning.
func Diff(ctx context.Context, s Store, a, b *Tree) (map[string]ChangeKind, error) {
	flatA, err := flatten(ctx, s, a)
	if err != nil {
		return nil, err
	}
	flatB, err := flatten(ctx, s, b)
	if err != nil {
		return nil, err
	}

	keysA := sortedKeys(flatA)
	keysB := sortedKeys(flatB)

	changes := make(map[string]ChangeKind)
	i, j := 0, 0
	for i < len(keysA) && j < len(keysB) {
		switch {
		case keysA[i] < keysB[j]:
			changes[keysA[i]] = ChangeRemoved
			i++
		case keysA[i] > keysB[j]:
			changes[keysB[j]] = ChangeAdded
			j++
		default:
			if flatA[keysA[i]] != flatB[keysB[j]] {
				changes[keysA[i]] = ChangeChanged
			}
			i++
			j++
		}
	}
	for ; i < len(keysA); i++ {
		changes[keysA[i]] = ChangeRemoved
	}
	for ; j < len(keysB); j++ {
		changes[keysB[j]] = ChangeAdded
	}
	return changes, nil
}

func flatten(ctx context.Context, s Store, t *Tree) (map[string]Hash, error) {
	if t == nil {
		return nil, nil
	}
	return t.ListRecursive(ctx, s)
}

func sortedKeys(m map[string]Hash) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
