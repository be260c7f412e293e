package cli

import (
	"fmt"
	"strconv"

	"github.com/gocarve/gocarve/internal/image"
	"github.com/gocarve/gocarve/internal/system"
	"github.com/gocarve/gocarve/internal/ui"
	"github.com/spf13/cobra"
)

// ScanCommand handles partition listing
type ScanCommand struct {
	ctx     *GlobalContext
	verbose bool
	json    bool
}

// NewScanCommand creates the scan command
func NewScanCommand(ctx *GlobalContext) *cobra.Command {
	cmd := &ScanCommand{ctx: ctx}

	cobraCmd := &cobra.Command{
		Use:   "scan <image-path>",
		Short: "List the partitions of a disk image",
		Long:  `Run the partition lister against a disk image and show the identified partitions.`,
		Args:  cobra.MaximumNArgs(1),
		RunE:  cmd.Run,
	}

	cobraCmd.Flags().BoolVarP(&cmd.verbose, "verbose", "v", false, "Verbose output")
	cobraCmd.Flags().BoolVarP(&cmd.json, "json", "j", false, "JSON output")

	return cobraCmd
}

// Run executes the scan command
func (c *ScanCommand) Run(cmd *cobra.Command, args []string) error {
	if err := c.ctx.CheckDependencies(c.ctx.Tools.Lister); err != nil {
		return err
	}

	var imagePath string
	if len(args) > 0 {
		imagePath = args[0]
	} else {
		imagePath = ui.PromptString("Disk image path")
	}

	reg, err := c.ctx.Scan(imagePath)
	if err != nil {
		return fmt.Errorf("failed to scan image: %w", err)
	}

	if len(reg.Partitions) == 0 {
		fmt.Println("No partitions found")
		return nil
	}

	if c.json {
		return ui.PrintJSON(reg)
	}

	fmt.Printf("Units are %d-byte blocks\n\n", reg.BlockSize)
	if c.verbose {
		c.printVerbose(reg)
	} else {
		c.printTable(reg)
	}

	return nil
}

func (c *ScanCommand) printTable(reg *image.Registry) {
	table := ui.NewTable("#", "SLOT", "START", "END", "LENGTH", "SIZE", "FS", "DESCRIPTION")

	for i, part := range reg.Partitions {
		fs := "-"
		if part.IsFilesystem {
			fs = "yes"
		}

		table.AddRow(
			strconv.Itoa(i),
			part.Slot,
			strconv.FormatUint(part.Start, 10),
			strconv.FormatUint(part.End, 10),
			strconv.FormatUint(part.Length, 10),
			system.FormatSize(part.Length*uint64(reg.BlockSize)),
			fs,
			part.Description,
		)
	}

	table.Print()
}

func (c *ScanCommand) printVerbose(reg *image.Registry) {
	for i, part := range reg.Partitions {
		if i > 0 {
			fmt.Println()
		}

		fmt.Printf("Partition %d: %s\n", i, part.Description)
		fmt.Printf("  Slot: %s\n", part.Slot)
		fmt.Printf("  Blocks: %d - %d (%d blocks)\n", part.Start, part.End, part.Length)
		fmt.Printf("  Bytes: %d - %d (%s)\n",
			part.Start*uint64(reg.BlockSize),
			(part.End+1)*uint64(reg.BlockSize)-1,
			system.FormatSize(part.Length*uint64(reg.BlockSize)))

		if part.IsFilesystem {
			fmt.Printf("  Filesystem-bearing: yes\n")
		}
	}
}
