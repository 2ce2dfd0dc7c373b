package glip

import "context"

// SubmoduleTag is appended to a submodule's key in ListRecursive
// output. Entry names cannot contain NUL, so tagged keys never collide
// with blob paths.
const SubmoduleTag = "\x00submodule"

// ListRecursive flattens the tree into a full-path to identifier
// mapping, fetching every subtree from s. Submodule links are emitted
// under their path plus SubmoduleTag, valued at the linked commit
// identifier, and are not descended into. Key order carries no
// meaning; callers needing determinism must sort.
func (t *Tree) ListRecursive(ctx context.Context, s Store) (map[string]Hash, error) {
	leaves := make(map[string]Hash)
	if err := t.listInto(ctx, s, "", leaves); err != nil {
		return nil, err
	}
	return leaves, nil
}

func (t *Tree) listInto(ctx context.Context, s Store, prefix string, leaves map[string]Hash) error {
	for _, e := range t.Entries() {
		switch {
		case e.IsSubmodule():
			leaves[prefix+e.Name+SubmoduleTag] = e.ID
		case e.IsDir():
			subtree, err := loadTree(ctx, s, e.ID)
			if err != nil {
				return err
			}
			if err := subtree.listInto(ctx, s, prefix+e.Name+"/", leaves); err != nil {
				return err
			}
		default:
			leaves[prefix+e.Name] = e.ID
		}
	}
	return nil
}
