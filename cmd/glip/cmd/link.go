package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uml-digitalinitiatives/glip"
)

var linkCmd = &cobra.Command{
	Use:   "link <path> <commit-id>",
	Short: "Link a submodule at a path",
	Long:  "Record an external commit identifier as a submodule link at the given path in the snapshot at --ref.",
	Args:  cobra.ExactArgs(2),
	RunE:  runLink,
}

func init() {
	rootCmd.AddCommand(linkCmd)
}

func runLink(cmd *cobra.Command, args []string) (err error) {
	path := args[0]
	commitID, err := glip.ParseHash(args[1])
	if err != nil {
		return err
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

	if _, err := root.Update(ctx, repo.Store(), path, glip.ModeSubmodule, commitID); err != nil {
		return err
	}

	rootID, err := repo.SaveRoot(ctx, refName(), root)
	if err != nil {
		return err
	}

	fmt.Println(rootID)
	return nil
}
