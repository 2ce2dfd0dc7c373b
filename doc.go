// Package glip implements a content-addressed directory-tree object
// model: trees map names to blobs, nested subtrees and submodule
// links, and a tree's canonical encoding is bit-exact, so semantically
// identical directories always hash identically.
//
// Trees are immutable once hashed. Update rebuilds the spine from the
// changed leaf up copy-on-write and returns the freshly created
// subtrees; everything off the changed path stays shared. Snapshots
// live in a local object store and can sync with any OCI registry.
//
// Basic usage:
//
//	repo, _ := glip.Open("")
//	defer repo.Close()
//
//	// Store a file under a nested path
//	blobID, _ := repo.PutBlob(ctx, []byte("hello\n"))
//	root, _ := repo.RootTree(ctx, "main")
//	root.Update(ctx, repo.Store(), "docs/hello.txt", glip.ModeFile, blobID)
//	repo.SaveRoot(ctx, "main", root)
//
//	// Look things up
//	entry, _ := root.Find(ctx, repo.Store(), "docs/hello.txt")
//	paths, _ := root.ListRecursive(ctx, repo.Store())
//
//	// Compare two snapshots
//	changes, _ := glip.Diff(ctx, repo.Store(), oldRoot, root)
//
// With remote sync:
//
//	repo, _ := glip.Open("", glip.WithRemote("ttl.sh/myteam/site:main"))
//	repo.Push(ctx, "main")
//	repo.Pull(ctx, "main")
package glip
