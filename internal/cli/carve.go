package cli

import (
	"fmt"
	"path/filepath"

	"github.com/gocarve/gocarve/internal/carve"
	"github.com/gocarve/gocarve/internal/image"
	"github.com/gocarve/gocarve/internal/system"
	"github.com/gocarve/gocarve/internal/ui"
	"github.com/spf13/cobra"
)

// CarveCommand handles partition carving
type CarveCommand struct {
	ctx        *GlobalContext
	partitions string
	all        bool
	output     string
	workers    int
	yes        bool
}

// NewCarveCommand creates the carve command
func NewCarveCommand(ctx *GlobalContext) *cobra.Command {
	cmd := &CarveCommand{ctx: ctx}

	cobraCmd := &cobra.Command{
		Use:   "carve <image-path>",
		Short: "Carve selected partitions out of a disk image",
		Long: `Extract the byte range of each selected partition into a standalone
file, probing the filesystem type and hashing the result.`,
		Args: cobra.ExactArgs(1),
		RunE: cmd.Run,
	}

	cobraCmd.Flags().StringVarP(&cmd.partitions, "partitions", "p", "", "Comma-separated partition indices (e.g. 0,2)")
	cobraCmd.Flags().BoolVar(&cmd.all, "all", false, "Carve every partition")
	cobraCmd.Flags().StringVarP(&cmd.output, "output", "o", "", "Output directory (required)")
	cobraCmd.Flags().IntVarP(&cmd.workers, "workers", "w", 0, "Max concurrent carve jobs (0 = one per partition)")
	cobraCmd.Flags().BoolVarP(&cmd.yes, "yes", "y", false, "Skip confirmation prompts")
	cobraCmd.MarkFlagRequired("output")

	return cobraCmd
}

// Run executes the carve command
func (c *CarveCommand) Run(cmd *cobra.Command, args []string) error {
	if err := c.ctx.CheckDependencies(
		c.ctx.Tools.Lister,
		c.ctx.Tools.Copier,
		c.ctx.Tools.Prober,
		c.ctx.Tools.Hasher,
	); err != nil {
		return err
	}

	reg, err := c.ctx.Scan(args[0])
	if err != nil {
		return fmt.Errorf("failed to scan image: %w", err)
	}
	if len(reg.Partitions) == 0 {
		return fmt.Errorf("no partitions found in %s", args[0])
	}

	indices, err := c.selection(reg)
	if err != nil {
		return err
	}

	destDir, err := c.prepareOutput(reg, indices)
	if err != nil {
		return err
	}

	c.ctx.Logger.Info("Carving %d partition(s)...", len(indices))

	carver := carve.NewCarver(c.ctx.Executor, c.ctx.Tools, c.workers)
	summary, err := carver.Carve(reg, indices, destDir, c.ctx.PrintProgress)
	if err != nil {
		return err
	}

	return c.printSummary(summary)
}

func (c *CarveCommand) selection(reg *image.Registry) ([]int, error) {
	if c.all {
		indices := make([]int, len(reg.Partitions))
		for i := range indices {
			indices[i] = i
		}
		return indices, nil
	}
	if c.partitions == "" {
		return nil, fmt.Errorf("no partitions selected (use --partitions or --all)")
	}
	return parseIndices(c.partitions, len(reg.Partitions))
}

// prepareOutput creates the destination directory, asks before reusing a
// non-empty one, and warns when the filesystem lacks room for the
// selected partitions
func (c *CarveCommand) prepareOutput(reg *image.Registry, indices []int) (string, error) {
	destDir, err := filepath.Abs(c.output)
	if err != nil {
		return "", fmt.Errorf("invalid output directory: %w", err)
	}

	if err := system.EnsureDir(destDir); err != nil {
		return "", err
	}

	empty, err := system.IsEmptyDir(destDir)
	if err != nil {
		return "", err
	}
	if !empty && !c.yes {
		if !ui.PromptConfirm(fmt.Sprintf("Output directory %s is not empty. Continue?", destDir)) {
			return "", fmt.Errorf("aborted")
		}
	}

	var needed uint64
	for _, idx := range indices {
		needed += reg.Partitions[idx].Length * uint64(reg.BlockSize)
	}
	available, err := system.AvailableSpace(destDir)
	if err != nil {
		c.ctx.Logger.Debug("Could not check available space: %v", err)
	} else if available < needed {
		c.ctx.Logger.Warning("Selected partitions need %s but %s has only %s available",
			system.FormatSize(needed), destDir, system.FormatSize(available))
	}

	return destDir, nil
}

func (c *CarveCommand) printSummary(summary *carve.Summary) error {
	for _, part := range summary.Succeeded {
		if size, err := system.FileSize(part.OutputPath); err == nil {
			c.ctx.Logger.Success("Carved %s -> %s (%s)", part.Description, part.OutputPath, system.FormatSize(size))
		} else {
			c.ctx.Logger.Success("Carved %s -> %s", part.Description, part.OutputPath)
		}
		if part.FilesystemType != "" {
			c.ctx.Logger.Info("  Filesystem type: %s", part.FilesystemType)
		}
		if part.Digest != "" {
			c.ctx.Logger.Info("  Digest: %s", part.Digest)
		}
	}
	for _, part := range summary.Failed {
		c.ctx.Logger.Error("Failed to carve %s", part.Description)
	}

	if len(summary.Succeeded) == 0 {
		return fmt.Errorf("all %d partition(s) failed to carve", len(summary.Failed))
	}

	c.ctx.Logger.Info("%d partition(s) carved, %d failed", len(summary.Succeeded), len(summary.Failed))
	return nil
}
