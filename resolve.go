package glip

import (
	"context"
	"fmt"
	"strings"
)

// splitPath splits a slash-separated path into segments, discarding
// empty ones so leading, trailing and repeated slashes are harmless.
func splitPath(path string) []string {
	var segments []string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments
}

// Find resolves path within the tree, fetching subtrees from s as it
// descends. An empty path resolves to the tree itself, reported as a
// synthetic directory entry with no name and no identifier. A missing
// entry returns (nil, nil): absence is an answer, not an error.
// Descending through a non-directory returns ErrInvalidPath; submodule
// links are never descended into.
func (t *Tree) Find(ctx context.Context, s Store, path string) (*TreeEntry, error) {
	segments := splitPath(path)
	if len(segments) == 0 {
		return &TreeEntry{Mode: ModeDir}, nil
	}
	return t.find(ctx, s, segments)
}

func (t *Tree) find(ctx context.Context, s Store, segments []string) (*TreeEntry, error) {
	entry, ok := t.Entry(segments[0])
	if !ok {
		return nil, nil
	}
	if len(segments) == 1 {
		return &entry, nil
	}
	if !entry.IsDir() {
		return nil, fmt.Errorf("%w: cannot descend into %q", ErrInvalidPath, segments[0])
	}
	subtree, err := loadTree(ctx, s, entry.ID)
	if err != nil {
		return nil, err
	}
	return subtree.find(ctx, s, segments[1:])
}
