package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uml-digitalinitiatives/glip"
)

var rmCmd = &cobra.Command{
	Use:   "rm <path>",
	Short: "Remove a path from the snapshot",
	Long:  "Remove the entry at the given path from the snapshot at --ref. Directories emptied by the removal are pruned.",
	Args:  cobra.ExactArgs(1),
	RunE:  runRm,
}

func init() {
	rootCmd.AddCommand(rmCmd)
}

func runRm(cmd *cobra.Command, args []string) (err error) {
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

	if _, err := root.Update(ctx, repo.Store(), path, 0, glip.ZeroHash); err != nil {
		return err
	}

	rootID, err := repo.SaveRoot(ctx, refName(), root)
	if err != nil {
		return err
	}

	fmt.Println(rootID)
	return nil
}
