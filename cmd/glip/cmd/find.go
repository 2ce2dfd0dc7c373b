package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var findCmd = &cobra.Command{
	Use:   "find <path>",
	Short: "Resolve a path to an identifier",
	Long:  "Resolve a slash-separated path in the snapshot at --ref and print the identifier it refers to.",
	Args:  cobra.ExactArgs(1),
	RunE:  runFind,
}

func init() {
	rootCmd.AddCommand(findCmd)
}

func runFind(cmd *cobra.Command, args []string) (err error) {
	path := args[0]

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

	entry, err := root.Find(ctx, repo.Store(), path)
	if err != nil {
		return err
	}
	if entry == nil {
		return fmt.Errorf("%s: no such path", path)
	}
	if entry.Name == "" {
		// The empty path resolves to the snapshot root itself.
		id, err := repo.Ref(refName())
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil
	}

	fmt.Println(entry.ID)
	return nil
}
