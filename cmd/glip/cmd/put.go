package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/uml-digitalinitiatives/glip"
)

var putExec bool

var putCmd = &cobra.Command{
	Use:   "put <path> [file]",
	Short: "Store a file at a path in the snapshot",
	Long:  "Store content (from a file, or stdin if omitted) as a blob and link it at the given path, rebuilding the snapshot at --ref.",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runPut,
}

func init() {
	putCmd.Flags().BoolVarP(&putExec, "exec", "x", false, "mark the entry executable")
	rootCmd.AddCommand(putCmd)
}

func runPut(cmd *cobra.Command, args []string) (err error) {
	path := args[0]

	var content []byte
	if len(args) > 1 {
		content, err = os.ReadFile(args[1])
	} else {
		content, err = io.ReadAll(os.Stdin)
	}
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

	blobID, err := repo.PutBlob(ctx, content)
	if err != nil {
		return err
	}

	mode := glip.ModeFile
	if putExec {
		mode = glip.ModeExec
	}
	if _, err := root.Update(ctx, repo.Store(), path, mode, blobID); err != nil {
		return err
	}

	rootID, err := repo.SaveRoot(ctx, refName(), root)
	if err != nil {
		return err
	}

	fmt.Println(rootID)
	return nil
}
