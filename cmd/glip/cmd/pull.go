package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Pull a snapshot from the remote registry",
	Long:  "Download the remote snapshot into the local store and point --ref at its root.",
	Args:  cobra.NoArgs,
	RunE:  runPull,
}

func init() {
	rootCmd.AddCommand(pullCmd)
}

func runPull(cmd *cobra.Command, args []string) (err error) {
	repo, err := openRepo()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := repo.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	fmt.Fprintf(os.Stderr, "Pulling %s...\n", refName())

	if err := repo.Pull(context.Background(), refName()); err != nil {
		return fmt.Errorf("pull failed: %w", err)
	}

	id, err := repo.Ref(refName())
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Done. Root: %s\n", id)
	return nil
}
