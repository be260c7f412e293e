package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gocarve/gocarve/internal/carve"
	"github.com/gocarve/gocarve/internal/image"
	"github.com/gocarve/gocarve/internal/system"
	"github.com/gocarve/gocarve/internal/ui"
)

// GlobalContext holds shared resources for all commands
type GlobalContext struct {
	Executor *system.Executor
	Logger   *ui.Logger
	Tools    system.Tools
}

// NewGlobalContext creates a new global context
func NewGlobalContext(verbose, quiet, noColor, debug bool) *GlobalContext {
	return &GlobalContext{
		Executor: system.NewExecutor(debug),
		Logger:   ui.NewLogger(verbose, quiet, noColor),
		Tools:    system.DefaultTools(),
	}
}

// CheckDependencies verifies the given tool paths are executable
func (ctx *GlobalContext) CheckDependencies(tools ...string) error {
	return ctx.Executor.CheckDependencies(tools)
}

// PrintProgress routes orchestrator progress messages to the console
func (ctx *GlobalContext) PrintProgress(p carve.Progress) {
	ctx.Logger.Console(p.Prefix, p.Text)
}

// Scan resolves the image path and seeds a partition registry from the
// partition lister's output
func (ctx *GlobalContext) Scan(imagePath string) (*image.Registry, error) {
	absPath, err := filepath.Abs(imagePath)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	scanner := image.NewScanner(ctx.Executor, ctx.Tools.Lister)
	reg, err := scanner.Scan(absPath)
	if err != nil {
		return nil, err
	}

	ctx.Logger.Debug("Found %d partitions, block size %d", len(reg.Partitions), reg.BlockSize)
	return reg, nil
}

// MarkCarved flags partitions whose carved output from an earlier run is
// present in carvedDir, so recovery and file carving can pick them up
// across invocations
func (ctx *GlobalContext) MarkCarved(reg *image.Registry, carvedDir string) error {
	absDir, err := filepath.Abs(carvedDir)
	if err != nil {
		return fmt.Errorf("invalid carved dir: %w", err)
	}

	for _, part := range reg.Partitions {
		candidate := filepath.Join(absDir, part.Name)
		info, err := os.Stat(candidate)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		part.Carved = image.FlagYes
		part.OutputPath = candidate
		ctx.Logger.Debug("Partition %s already carved: %s", part.Name, candidate)
	}
	return nil
}

// parseIndices parses a comma-separated partition selection ("0,2,5")
// against the registry size. Duplicates collapse, order is preserved.
func parseIndices(spec string, registrySize int) ([]int, error) {
	var indices []int
	seen := make(map[int]bool)

	for _, field := range strings.Split(spec, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		idx, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("invalid partition index %q", field)
		}
		if idx < 0 || idx >= registrySize {
			return nil, fmt.Errorf("partition index %d out of range (0-%d)", idx, registrySize-1)
		}
		if !seen[idx] {
			seen[idx] = true
			indices = append(indices, idx)
		}
	}

	if len(indices) == 0 {
		return nil, fmt.Errorf("no partitions selected")
	}
	return indices, nil
}
