package carve

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gocarve/gocarve/internal/image"
	"github.com/gocarve/gocarve/internal/system"
)

// FileCarver runs signature-based extraction of selected file types from
// a carved partition's raw bytes
type FileCarver struct {
	executor *system.Executor
	tools    system.Tools
	hasher   *Hasher
}

// NewFileCarver creates a new file carver
func NewFileCarver(executor *system.Executor, tools system.Tools) *FileCarver {
	return &FileCarver{
		executor: executor,
		tools:    tools,
		hasher:   NewHasher(executor, tools.Hasher),
	}
}

// FileCarveResult is the outcome of one file-carving run
type FileCarveResult struct {
	Partition   *image.Partition
	FilesCarved int
	OutputDir   string
	Tree        map[string]*DirNode
}

// CarveFiles extracts files of the selected types from a carved partition.
// The carver's stock configuration at confPath is trimmed down to the
// selected types, the tool runs against the partition's carved output, and
// on a non-zero count the result carries the hashed output tree.
func (f *FileCarver) CarveFiles(part *image.Partition, types []string, confPath, destDir string, onProgress func(Progress)) (*FileCarveResult, error) {
	if part.OutputPath == "" {
		return nil, fmt.Errorf("partition %s is not carved yet", part.Name)
	}
	if len(types) == 0 {
		return nil, fmt.Errorf("no file types selected")
	}

	emit := func(prefix, text string) {
		if onProgress != nil {
			onProgress(Progress{Prefix: prefix, Text: text})
		}
	}

	cfgPath, err := writeTypeConfig(confPath, types)
	if err != nil {
		return nil, err
	}
	defer os.Remove(cfgPath)

	outDir := filepath.Join(destDir, "carvedFiles_"+part.Name)

	args := []string{"-c", cfgPath, part.OutputPath, "-o", outDir}
	emit(PrefixCommand, f.tools.Carver+" "+strings.Join(args, " "))

	stdout, stderr, err := f.executor.RunSplit(f.tools.Carver, args...)
	if err != nil {
		return nil, err
	}

	if stdout == "" {
		return nil, &ToolFailureError{Tool: f.tools.Carver, Stderr: strings.TrimSpace(stderr)}
	}
	if strings.Contains(stderr, "ERROR") {
		return nil, &ToolFailureError{Tool: f.tools.Carver, Stderr: strings.TrimSpace(stderr)}
	}

	count, err := ParseCarvedCount(stdout)
	if err != nil {
		return nil, err
	}

	res := &FileCarveResult{
		Partition:   part,
		FilesCarved: count,
		OutputDir:   outDir,
	}
	if count == 0 {
		return res, nil
	}

	part.CarvedFiles = image.FlagYes

	tree, err := BuildTree(outDir)
	if err != nil {
		return nil, err
	}
	f.hasher.AnnotateTree(tree, func(path string, err error) {
		emit(PrefixMessage, "Hashing failed: "+err.Error())
	})
	res.Tree = tree

	return res, nil
}

// ParseCarvedCount extracts the file count from the block carver's
// "files carved = N," summary.
func ParseCarvedCount(output string) (int, error) {
	const marker = "files carved = "
	_, rest, ok := strings.Cut(output, marker)
	if !ok {
		return 0, fmt.Errorf("no carved-file count in tool output")
	}
	numStr, _, ok := strings.Cut(rest, ",")
	if !ok {
		return 0, fmt.Errorf("no carved-file count in tool output")
	}
	count, err := strconv.Atoi(strings.TrimSpace(numStr))
	if err != nil {
		return 0, fmt.Errorf("bad carved-file count %q: %w", numStr, err)
	}
	return count, nil
}

// writeTypeConfig copies the lines of the stock carver configuration that
// mention one of the selected types into a temp file, uncommenting them so
// the tool carves exactly those types. The caller removes the file.
func writeTypeConfig(confPath string, types []string) (string, error) {
	src, err := os.Open(confPath)
	if err != nil {
		return "", fmt.Errorf("failed to open carver config %s: %w", confPath, err)
	}
	defer src.Close()

	dst, err := os.CreateTemp("", "gocarve-*.conf")
	if err != nil {
		return "", fmt.Errorf("failed to create temp config: %w", err)
	}

	scanner := bufio.NewScanner(src)
	for scanner.Scan() {
		line := scanner.Text()
		for _, t := range types {
			if strings.Contains(line, t) {
				fmt.Fprintln(dst, strings.ReplaceAll(line, "#", " "))
				break
			}
		}
	}
	if err := scanner.Err(); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to read carver config: %w", err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write temp config: %w", err)
	}
	return dst.Name(), nil
}
