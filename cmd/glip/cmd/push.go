package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Push the snapshot to the remote registry",
	Long:  "Upload the snapshot at --ref and every object reachable from it to the configured registry.",
	Args:  cobra.NoArgs,
	RunE:  runPush,
}

func init() {
	rootCmd.AddCommand(pushCmd)
}

func runPush(cmd *cobra.Command, args []string) (err error) {
	repo, err := openRepo()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := repo.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	fmt.Fprintf(os.Stderr, "Pushing %s...\n", refName())

	if err := repo.Push(context.Background(), refName()); err != nil {
		return fmt.Errorf("push failed: %w", err)
	}

	id, err := repo.Ref(refName())
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Done. Root: %s\n", id)
	return nil
}
