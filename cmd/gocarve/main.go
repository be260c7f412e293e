package main

import (
	"os"
	"sync"

	"github.com/gocarve/gocarve/internal/cli"
	"github.com/gocarve/gocarve/internal/system"
	"github.com/gocarve/gocarve/internal/ui"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool
	noColor bool
	debug   bool

	tools = system.DefaultTools()

	ctx  *cli.GlobalContext
	once sync.Once
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gocarve",
	Short: "GoCarve - disk image triage front-end",
	Long: `GoCarve is a CLI front-end for triaging disk images with the standard
forensic tools (mmls, dd, fsstat, tsk_recover, scalpel).

It lists the partitions of an image, carves selected partitions into
standalone files, recovers deleted files from carved partitions, and
carves individual files by signature - hashing everything it produces.`,
	Version: "0.1.0",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Update context components with parsed flag values
		once.Do(func() {
			ctx.Executor = system.NewExecutor(debug)
			ctx.Logger = ui.NewLogger(verbose, quiet, noColor)
			ctx.Tools = tools
		})
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (suppress non-error output)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable color output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Debug mode (show commands)")

	// Tool path overrides
	rootCmd.PersistentFlags().StringVar(&tools.Lister, "mmls", tools.Lister, "Path to the partition lister")
	rootCmd.PersistentFlags().StringVar(&tools.Copier, "dd", tools.Copier, "Path to the byte-range copier")
	rootCmd.PersistentFlags().StringVar(&tools.Prober, "fsstat", tools.Prober, "Path to the filesystem prober")
	rootCmd.PersistentFlags().StringVar(&tools.Recoverer, "tsk-recover", tools.Recoverer, "Path to the deleted-file recoverer")
	rootCmd.PersistentFlags().StringVar(&tools.Carver, "scalpel", tools.Carver, "Path to the block carver")
	rootCmd.PersistentFlags().StringVar(&tools.Hasher, "hash-tool", tools.Hasher, "Path to the hash tool")

	// Create initial context with default values
	// Will be updated in PersistentPreRun with parsed flag values
	ctx = cli.NewGlobalContext(false, false, false, false)

	// Register commands
	rootCmd.AddCommand(cli.NewScanCommand(ctx))
	rootCmd.AddCommand(cli.NewCarveCommand(ctx))
	rootCmd.AddCommand(cli.NewRecoverCommand(ctx))
	rootCmd.AddCommand(cli.NewCarveFilesCommand(ctx))

	// Set up help templates
	rootCmd.SetHelpCommand(&cobra.Command{
		Use:    "no-help",
		Hidden: true,
	})

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
