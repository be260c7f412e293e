package cli

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gocarve/gocarve/internal/carve"
	"github.com/gocarve/gocarve/internal/system"
	"github.com/spf13/cobra"
)

// RecoverCommand handles deleted-file recovery from carved partitions
type RecoverCommand struct {
	ctx        *GlobalContext
	partitions string
	output     string
	carvedDir  string
}

// NewRecoverCommand creates the recover command
func NewRecoverCommand(ctx *GlobalContext) *cobra.Command {
	cmd := &RecoverCommand{ctx: ctx}

	cobraCmd := &cobra.Command{
		Use:   "recover <image-path>",
		Short: "Recover deleted files from carved partitions",
		Long: `Run the deleted-file recoverer against each selected carved partition
and show the recovered files with their content hashes. Partitions must be
carved first (see "carve"); --carved-dir points at that run's output.`,
		Args: cobra.ExactArgs(1),
		RunE: cmd.Run,
	}

	cobraCmd.Flags().StringVarP(&cmd.partitions, "partitions", "p", "", "Comma-separated partition indices (default: all filesystem-bearing)")
	cobraCmd.Flags().StringVarP(&cmd.output, "output", "o", "", "Output directory (required)")
	cobraCmd.Flags().StringVar(&cmd.carvedDir, "carved-dir", "", "Directory holding carved partition files (required)")
	cobraCmd.MarkFlagRequired("output")
	cobraCmd.MarkFlagRequired("carved-dir")

	return cobraCmd
}

// Run executes the recover command
func (c *RecoverCommand) Run(cmd *cobra.Command, args []string) error {
	if err := c.ctx.CheckDependencies(
		c.ctx.Tools.Lister,
		c.ctx.Tools.Recoverer,
		c.ctx.Tools.Hasher,
	); err != nil {
		return err
	}

	reg, err := c.ctx.Scan(args[0])
	if err != nil {
		return fmt.Errorf("failed to scan image: %w", err)
	}

	if err := c.ctx.MarkCarved(reg, c.carvedDir); err != nil {
		return err
	}

	var indices []int
	if c.partitions != "" {
		indices, err = parseIndices(c.partitions, len(reg.Partitions))
		if err != nil {
			return err
		}
	} else {
		indices = reg.FilesystemIndices()
		if len(indices) == 0 {
			return fmt.Errorf("no filesystem-bearing partitions in %s", args[0])
		}
	}

	destDir, err := filepath.Abs(c.output)
	if err != nil {
		return fmt.Errorf("invalid output directory: %w", err)
	}
	if err := system.EnsureDir(destDir); err != nil {
		return err
	}

	recoverer := carve.NewRecoverer(c.ctx.Executor, c.ctx.Tools)
	results, err := recoverer.Recover(reg, indices, destDir, c.ctx.PrintProgress)
	if err != nil {
		return err
	}

	for _, res := range results {
		c.printResult(res)
	}
	return nil
}

func (c *RecoverCommand) printResult(res carve.RecoverResult) {
	switch res.Status {
	case carve.StatusNotCarved:
		c.ctx.Logger.Warning("Partition %d (%s): not carved yet, run \"carve\" first",
			res.Index, res.Partition.Description)
	case carve.StatusNoFiles:
		c.ctx.Logger.Info("Partition %d (%s): no deleted files recovered",
			res.Index, res.Partition.Description)
	case carve.StatusFailed:
		c.ctx.Logger.Error("Partition %d (%s): recovery failed: %v",
			res.Index, res.Partition.Description, res.Err)
	case carve.StatusRecovered:
		c.ctx.Logger.Success("Partition %d (%s): %d file(s) recovered into %s",
			res.Index, res.Partition.Description, res.FilesRecovered, res.OutputDir)
		printTree(res.Tree)
	}
}

// printTree renders a hashed directory tree, roots first, children
// indented under their parents
func printTree(nodes map[string]*carve.DirNode) {
	roots := make([]string, 0, len(nodes))
	for path := range nodes {
		roots = append(roots, path)
	}
	sort.Strings(roots)

	for _, path := range roots {
		printNode(nodes[path], 0)
	}
}

func printNode(node *carve.DirNode, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Printf("%s%s/\n", indent, filepath.Base(node.Path))

	files := append([]carve.FileEntry(nil), node.Files...)
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	for _, f := range files {
		if f.Digest != "" {
			fmt.Printf("%s  %s  %s\n", indent, filepath.Base(f.Path), f.Digest)
		} else {
			fmt.Printf("%s  %s\n", indent, filepath.Base(f.Path))
		}
	}

	children := make([]string, 0, len(node.Children))
	for path := range node.Children {
		children = append(children, path)
	}
	sort.Strings(children)
	for _, path := range children {
		printNode(node.Children[path], depth+1)
	}
}
