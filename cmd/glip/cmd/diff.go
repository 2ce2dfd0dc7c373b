package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/uml-digitalinitiatives/glip"
)

var diffPatch bool

var diffCmd = &cobra.Command{
	Use:   "diff <from> <to>",
	Short: "Compare two snapshots",
	Long:  "Compare two snapshots named by ref or identifier, listing added, removed and changed paths.",
	Args:  cobra.ExactArgs(2),
	RunE:  runDiff,
}

func init() {
	diffCmd.Flags().BoolVarP(&diffPatch, "patch", "p", false, "show content changes for modified files")
	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) (err error) {
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
	from, err := repo.ResolveTree(ctx, args[0])
	if err != nil {
		return fmt.Errorf("resolve %s: %w", args[0], err)
	}
	to, err := repo.ResolveTree(ctx, args[1])
	if err != nil {
		return fmt.Errorf("resolve %s: %w", args[1], err)
	}

	changes, err := glip.Diff(ctx, repo.Store(), from, to)
	if err != nil {
		return err
	}

	paths := make([]string, 0, len(changes))
	for p := range changes {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	added := color.New(color.FgGreen)
	removed := color.New(color.FgRed)
	changed := color.New(color.FgYellow)

	for _, p := range paths {
		display, sub := strings.CutSuffix(p, glip.SubmoduleTag)
		if sub {
			display += " (submodule)"
		}
		switch changes[p] {
		case glip.ChangeAdded:
			added.Printf("A\t%s\n", display)
		case glip.ChangeRemoved:
			removed.Printf("D\t%s\n", display)
		case glip.ChangeChanged:
			changed.Printf("M\t%s\n", display)
			if diffPatch && !sub {
				if err := printPatch(ctx, repo, from, to, p); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func printPatch(ctx context.Context, repo *glip.Repo, from, to *glip.Tree, path string) error {
	oldEntry, err := from.Find(ctx, repo.Store(), path)
	if err != nil || oldEntry == nil {
		return err
	}
	newEntry, err := to.Find(ctx, repo.Store(), path)
	if err != nil || newEntry == nil {
		return err
	}

	oldContent, err := repo.BlobAt(ctx, oldEntry.ID)
	if err != nil {
		return err
	}
	newContent, err := repo.BlobAt(ctx, newEntry.ID)
	if err != nil {
		return err
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(string(oldContent), string(newContent), false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	fmt.Print(dmp.DiffPrettyText(diffs))
	if len(newContent) > 0 && newContent[len(newContent)-1] != '\n' {
		fmt.Println()
	}
	return nil
}
