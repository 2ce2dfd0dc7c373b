package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/uml-digitalinitiatives/glip"
)

var lsRecursive bool

var lsCmd = &cobra.Command{
	Use:   "ls [path]",
	Short: "List snapshot entries",
	Long:  "List the entries of the snapshot at --ref, optionally under a subpath or recursively.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLs,
}

func init() {
	lsCmd.Flags().BoolVarP(&lsRecursive, "recursive", "r", false, "descend into subtrees")
	rootCmd.AddCommand(lsCmd)
}

func runLs(cmd *cobra.Command, args []string) (err error) {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}

	repo, err := openRepo()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := repo.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	ctx := context.Background()
	root, err := repo.RootTree(ctx, refName())
	if err != nil {
		return err
	}

	tree := root
	if path != "" {
		entry, ferr := root.Find(ctx, repo.Store(), path)
		if ferr != nil {
			return ferr
		}
		switch {
		case entry == nil:
			return fmt.Errorf("%s: no such path", path)
		case !entry.IsDir():
			fmt.Printf("%6s %s\t%s\n", entry.Mode, entry.ID, entry.Name)
			return nil
		}
		tree, err = repo.TreeAt(ctx, entry.ID)
		if err != nil {
			return err
		}
	}

	if lsRecursive {
		leaves, err := tree.ListRecursive(ctx, repo.Store())
		if err != nil {
			return err
		}
		keys := make([]string, 0, len(leaves))
		for k := range leaves {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if name, ok := strings.CutSuffix(k, glip.SubmoduleTag); ok {
				fmt.Printf("%s\t%s (submodule)\n", leaves[k], name)
				continue
			}
			fmt.Printf("%s\t%s\n", leaves[k], k)
		}
		return nil
	}

	for _, e := range tree.Entries() {
		fmt.Printf("%6s %s\t%s\n", e.Mode, e.ID, e.Name)
	}
	return nil
}
