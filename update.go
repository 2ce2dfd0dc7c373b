package glip

import (
	"context"
	"fmt"
)

// Update sets or removes the entry at path, rebuilding every tree
// along the way copy-on-write: fetched subtrees are cloned before
// mutation, so instances already hashed elsewhere stay intact. A zero
// mode removes the entry; removing a missing entry is a no-op.
// Subtrees left empty by a removal are pruned from their parent.
//
// Every rebuilt subtree is persisted to s and returned deepest-first.
// The receiver itself is mutated in place and is the caller's to
// persist; missing interior directories are created on the way down.
func (t *Tree) Update(ctx context.Context, s Store, path string, mode FileMode, id Hash) ([]*Tree, error) {
	segments := splitPath(path)
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	return t.update(ctx, s, segments, mode, id)
}

func (t *Tree) update(ctx context.Context, s Store, segments []string, mode FileMode, id Hash) ([]*Tree, error) {
	name := segments[0]

	if len(segments) == 1 {
		if mode == 0 {
			t.Remove(name)
			return nil, nil
		}
		if err := t.Insert(TreeEntry{Mode: mode, Name: name, ID: id}); err != nil {
			return nil, err
		}
		return nil, nil
	}

	subtreeMode := ModeDir
	var subtree *Tree
	entry, ok := t.Entry(name)
	switch {
	case !ok:
		subtree = NewTree()
	case !entry.IsDir():
		return nil, fmt.Errorf("%w: cannot descend into %q", ErrInvalidPath, name)
	default:
		subtreeMode = entry.Mode
		fetched, err := loadTree(ctx, s, entry.ID)
		if err != nil {
			return nil, err
		}
		subtree = fetched.Clone()
	}

	created, err := subtree.update(ctx, s, segments[1:], mode, id)
	if err != nil {
		return nil, err
	}

	if subtree.Len() == 0 {
		t.Remove(name)
		return created, nil
	}

	subtreeID, err := putTree(ctx, s, subtree)
	if err != nil {
		return nil, err
	}
	if err := t.Insert(TreeEntry{Mode: subtreeMode, Name: name, ID: subtreeID}); err != nil {
		return nil, err
	}
	return append(created, subtree), nil
}
