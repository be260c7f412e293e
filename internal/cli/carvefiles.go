package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gocarve/gocarve/internal/carve"
	"github.com/gocarve/gocarve/internal/system"
	"github.com/spf13/cobra"
)

const defaultCarverConfig = "/etc/scalpel/scalpel.conf"

// CarveFilesCommand handles signature-based file carving from one carved
// partition
type CarveFilesCommand struct {
	ctx       *GlobalContext
	partition int
	types     string
	output    string
	carvedDir string
	config    string
}

// NewCarveFilesCommand creates the carvefiles command
func NewCarveFilesCommand(ctx *GlobalContext) *cobra.Command {
	cmd := &CarveFilesCommand{ctx: ctx}

	cobraCmd := &cobra.Command{
		Use:   "carvefiles <image-path>",
		Short: "Carve files of selected types from a carved partition",
		Long: `Run the block carver against one carved, filesystem-bearing partition,
extracting files of the selected types by signature and hashing the results.`,
		Args: cobra.ExactArgs(1),
		RunE: cmd.Run,
	}

	cobraCmd.Flags().IntVarP(&cmd.partition, "partition", "p", -1, "Partition index (required)")
	cobraCmd.Flags().StringVarP(&cmd.types, "types", "t", "jpg,gif,png,pdf", "Comma-separated file types to carve")
	cobraCmd.Flags().StringVarP(&cmd.output, "output", "o", "", "Output directory (required)")
	cobraCmd.Flags().StringVar(&cmd.carvedDir, "carved-dir", "", "Directory holding carved partition files (required)")
	cobraCmd.Flags().StringVar(&cmd.config, "config", defaultCarverConfig, "Stock block-carver configuration file")
	cobraCmd.MarkFlagRequired("partition")
	cobraCmd.MarkFlagRequired("output")
	cobraCmd.MarkFlagRequired("carved-dir")

	return cobraCmd
}

// Run executes the carvefiles command
func (c *CarveFilesCommand) Run(cmd *cobra.Command, args []string) error {
	if err := c.ctx.CheckDependencies(
		c.ctx.Tools.Lister,
		c.ctx.Tools.Carver,
		c.ctx.Tools.Hasher,
	); err != nil {
		return err
	}

	reg, err := c.ctx.Scan(args[0])
	if err != nil {
		return fmt.Errorf("failed to scan image: %w", err)
	}

	if c.partition < 0 || c.partition >= len(reg.Partitions) {
		return fmt.Errorf("partition index %d out of range (0-%d)", c.partition, len(reg.Partitions)-1)
	}

	if err := c.ctx.MarkCarved(reg, c.carvedDir); err != nil {
		return err
	}

	part := reg.Partitions[c.partition]
	if !part.IsFilesystem {
		return fmt.Errorf("partition %d (%s) is not filesystem-bearing", c.partition, part.Description)
	}
	if part.OutputPath == "" {
		return fmt.Errorf("partition %d (%s) is not carved yet, run \"carve\" first", c.partition, part.Description)
	}

	var types []string
	for _, t := range strings.Split(c.types, ",") {
		if t = strings.TrimSpace(t); t != "" {
			types = append(types, t)
		}
	}

	destDir, err := filepath.Abs(c.output)
	if err != nil {
		return fmt.Errorf("invalid output directory: %w", err)
	}
	if err := system.EnsureDir(destDir); err != nil {
		return err
	}

	c.ctx.Logger.Info("Carving %s files from partition %d (%s)...",
		strings.Join(types, ", "), c.partition, part.Description)

	fileCarver := carve.NewFileCarver(c.ctx.Executor, c.ctx.Tools)
	res, err := fileCarver.CarveFiles(part, types, c.config, destDir, c.ctx.PrintProgress)
	if err != nil {
		return err
	}

	if res.FilesCarved == 0 {
		c.ctx.Logger.Info("No files carved from partition %d", c.partition)
		return nil
	}

	c.ctx.Logger.Success("%d file(s) carved into %s", res.FilesCarved, res.OutputDir)
	printTree(res.Tree)
	return nil
}
