package carve

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gocarve/gocarve/internal/image"
	"github.com/gocarve/gocarve/internal/system"
)

// Recoverer extracts deleted files from carved partitions, one partition
// at a time on the caller's goroutine
type Recoverer struct {
	executor *system.Executor
	tools    system.Tools
	hasher   *Hasher
}

// NewRecoverer creates a new recoverer
func NewRecoverer(executor *system.Executor, tools system.Tools) *Recoverer {
	return &Recoverer{
		executor: executor,
		tools:    tools,
		hasher:   NewHasher(executor, tools.Hasher),
	}
}

// RecoverStatus is the per-partition outcome of a recovery run
type RecoverStatus int

// Recovery outcomes
const (
	StatusRecovered RecoverStatus = iota
	StatusNoFiles                 // the tool ran and recovered nothing; not an error
	StatusNotCarved               // partition has no carved output yet; tool never ran
	StatusFailed
)

// RecoverResult is the outcome for one partition
type RecoverResult struct {
	Index          int
	Partition      *image.Partition
	Status         RecoverStatus
	FilesRecovered int
	OutputDir      string
	Tree           map[string]*DirNode // per-file digests filled in
	Err            error
}

// Recover runs the deleted-file recoverer for each selected partition in
// order. Partitions that were never carved are skipped with a NotCarved
// outcome; a failure on one partition never stops the rest.
func (r *Recoverer) Recover(reg *image.Registry, indices []int, destDir string, onProgress func(Progress)) ([]RecoverResult, error) {
	if len(indices) == 0 {
		return nil, fmt.Errorf("no partitions selected")
	}
	if err := reg.Validate(indices); err != nil {
		return nil, err
	}

	emit := func(idx int, prefix, text string) {
		if onProgress != nil {
			onProgress(Progress{Index: idx, Prefix: prefix, Text: text})
		}
	}

	results := make([]RecoverResult, 0, len(indices))
	for _, idx := range indices {
		results = append(results, r.recoverOne(reg, idx, destDir, emit))
	}
	return results, nil
}

func (r *Recoverer) recoverOne(reg *image.Registry, idx int, destDir string, emit func(idx int, prefix, text string)) RecoverResult {
	part := reg.Partitions[idx]
	res := RecoverResult{Index: idx, Partition: part}

	name := recoverDirName(part.Description, idx)
	emit(idx, PrefixMessage, fmt.Sprintf("Attempting to recover files from %s partition...", name))

	if part.OutputPath == "" {
		emit(idx, PrefixMessage, "Partition not carved. Carve the partition first and try again.")
		res.Status = StatusNotCarved
		return res
	}

	outDir := filepath.Join(destDir, "out_"+name)
	res.OutputDir = outDir

	emit(idx, PrefixCommand, r.tools.Recoverer+" "+part.OutputPath+" "+outDir)
	stdout, stderr, err := r.executor.RunSplit(r.tools.Recoverer, part.OutputPath, outDir)
	if err != nil {
		res.Status = StatusFailed
		res.Err = err
		return res
	}

	if stdout == "" {
		res.Status = StatusFailed
		res.Err = &ToolFailureError{Tool: r.tools.Recoverer, Stderr: strings.TrimSpace(stderr)}
		return res
	}

	count, err := ParseRecoveredCount(stdout)
	if err != nil {
		res.Status = StatusFailed
		res.Err = err
		return res
	}
	res.FilesRecovered = count

	if count == 0 {
		emit(idx, PrefixMessage, "No deleted files were recovered for partition: "+part.Name)
		res.Status = StatusNoFiles
		return res
	}

	part.Recovered = image.FlagYes

	tree, err := BuildTree(outDir)
	if err != nil {
		res.Status = StatusFailed
		res.Err = err
		return res
	}
	r.hasher.AnnotateTree(tree, func(path string, err error) {
		emit(idx, PrefixMessage, "Hashing failed: "+err.Error())
	})

	res.Tree = tree
	res.Status = StatusRecovered
	return res
}

// ParseRecoveredCount extracts the recovered-file count from the tool's
// summary line, which is free text followed by ":" and an integer.
func ParseRecoveredCount(output string) (int, error) {
	_, rest, ok := strings.Cut(output, ":")
	if !ok {
		return 0, fmt.Errorf("no recovered-file count in %q", strings.TrimSpace(output))
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return 0, fmt.Errorf("no recovered-file count in %q", strings.TrimSpace(output))
	}
	count, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, fmt.Errorf("bad recovered-file count %q: %w", fields[0], err)
	}
	return count, nil
}

// recoverDirName derives a directory-safe name for a partition's recovery
// output: the description up to any parenthesized suffix, spaces removed,
// slashes flattened, suffixed with the partition index.
func recoverDirName(description string, index int) string {
	name := description
	if i := strings.Index(name, "("); i >= 0 {
		name = name[:i]
	}
	name = strings.ReplaceAll(name, " ", "")
	name = strings.ReplaceAll(name, "/", "_")
	return fmt.Sprintf("%s_%d", name, index)
}
