package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/uml-digitalinitiatives/glip"
)

var catCmd = &cobra.Command{
	Use:   "cat <id>",
	Short: "Print a stored object",
	Long:  "Print a blob's content, or a tree's entries, to stdout.",
	Args:  cobra.ExactArgs(1),
	RunE:  runCat,
}

func init() {
	rootCmd.AddCommand(catCmd)
}

func runCat(cmd *cobra.Command, args []string) (err error) {
	id, err := glip.ParseHash(args[0])
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

	typ, content, err := repo.Object(context.Background(), id)
	if err != nil {
		return err
	}

	if typ == glip.TypeTree {
		tree, err := glip.DecodeTree(content)
		if err != nil {
			return err
		}
		for _, e := range tree.Entries() {
			fmt.Printf("%6s %s\t%s\n", e.Mode, e.ID, e.Name)
		}
		return nil
	}

	_, err = os.Stdout.Write(content)
	return err
}
