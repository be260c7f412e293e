package carve

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gocarve/gocarve/internal/image"
	"github.com/gocarve/gocarve/internal/system"
)

// Carver extracts selected partitions from a disk image by running one
// byte-range copier job per partition
type Carver struct {
	executor *system.Executor
	tools    system.Tools
	hasher   *Hasher
	workers  int // max concurrent jobs; 0 means one goroutine per partition
}

// NewCarver creates a new carver
func NewCarver(executor *system.Executor, tools system.Tools, workers int) *Carver {
	return &Carver{
		executor: executor,
		tools:    tools,
		hasher:   NewHasher(executor, tools.Hasher),
		workers:  workers,
	}
}

// Summary is the aggregate outcome of one carve run
type Summary struct {
	Succeeded []*image.Partition
	Failed    []*image.Partition
}

// Carve runs one job per selected partition. Jobs run concurrently and
// write only their own JobResult; progress is funneled through a single
// channel drained here, so per-job message order is preserved and nothing
// is lost, with no ordering guarantee across jobs. Once every job has
// joined, registry mutations and content hashing happen on the calling
// goroutine only.
func (c *Carver) Carve(reg *image.Registry, indices []int, destDir string, onProgress func(Progress)) (*Summary, error) {
	if len(indices) == 0 {
		return nil, fmt.Errorf("no partitions selected")
	}
	if err := reg.Validate(indices); err != nil {
		return nil, err
	}

	progress := make(chan Progress, 64)
	results := make(chan *JobResult, len(indices))

	var sem chan struct{}
	if c.workers > 0 {
		sem = make(chan struct{}, c.workers)
	}

	var wg sync.WaitGroup
	for _, idx := range indices {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}
			results <- c.runJob(reg, idx, destDir, progress)
		}(idx)
	}

	go func() {
		wg.Wait()
		close(progress)
		close(results)
	}()

	// Drain until all jobs have joined; the close above guarantees any
	// remainder is still delivered.
	for p := range progress {
		if onProgress != nil {
			onProgress(p)
		}
	}

	byIndex := make(map[int]*JobResult, len(indices))
	for res := range results {
		byIndex[res.Index] = res
	}

	// Single-threaded reduction: all registry writes happen here.
	summary := &Summary{}
	for _, idx := range indices {
		res := byIndex[idx]
		part := reg.Partitions[idx]

		if res.FilesystemType != "" {
			part.FilesystemType = res.FilesystemType
		}

		if !res.Success {
			summary.Failed = append(summary.Failed, part)
			continue
		}

		part.Carved = image.FlagYes
		part.OutputPath = res.OutputPath

		digest, err := c.hasher.Sum(part.OutputPath)
		if err != nil {
			if onProgress != nil {
				onProgress(Progress{Index: idx, Prefix: PrefixMessage, Text: "Hashing failed: " + err.Error()})
			}
		} else {
			part.Digest = digest
		}

		summary.Succeeded = append(summary.Succeeded, part)
	}

	return summary, nil
}

// runJob carves one partition. All state lands in the returned JobResult;
// the registry is never touched from here.
func (c *Carver) runJob(reg *image.Registry, idx int, destDir string, progress chan<- Progress) *JobResult {
	part := reg.Partitions[idx]
	res := &JobResult{Index: idx}

	emit := func(prefix, text string) {
		p := Progress{Index: idx, Prefix: prefix, Text: text}
		res.Messages = append(res.Messages, p)
		progress <- p
	}

	outPath := filepath.Join(destDir, part.Name)

	cleanup := system.NewCleanupStack()
	cleanup.Add(func() error { return os.Remove(outPath) })
	defer func() {
		if res.Success {
			cleanup.Clear()
			return
		}
		// Drop the partial output file; it may not exist at all.
		_ = cleanup.Execute()
	}()

	emit(PrefixMessage, fmt.Sprintf("Attempting to carve partition %s...", part.Name))

	args := []string{
		"if=" + reg.Image,
		"of=" + outPath,
		fmt.Sprintf("bs=%d", reg.BlockSize),
		fmt.Sprintf("skip=%d", part.Start),
		fmt.Sprintf("count=%d", part.Length),
	}
	emit(PrefixCommand, c.tools.Copier+" "+strings.Join(args, " "))

	stdout, stderr, err := c.executor.RunSplit(c.tools.Copier, args...)
	if err != nil {
		res.Err = err
		emit(PrefixMessage, "Failure: "+part.Name)
		return res
	}

	if classifyCopierOutput(stdout, stderr) {
		res.Success = true
		res.OutputPath = outPath
		emit(PrefixMessage, "Success: "+part.Name)
	} else {
		res.Err = &ToolFailureError{Tool: c.tools.Copier, Stderr: strings.TrimSpace(stderr)}
		emit(PrefixMessage, "Failure: "+part.Name)
	}

	if part.IsFilesystem {
		c.probeFilesystem(res, outPath, emit)
	}

	return res
}

// probeFilesystem asks the prober for the filesystem type of a carved
// partition file and records it on the job result
func (c *Carver) probeFilesystem(res *JobResult, outPath string, emit func(prefix, text string)) {
	emit(PrefixCommand, c.tools.Prober+" "+outPath)

	stdout, stderr, err := c.executor.RunSplit(c.tools.Prober, outPath)
	if err != nil {
		emit(PrefixMessage, "Filesystem probe failed: "+err.Error())
		return
	}

	if stdout == "" {
		emit(PrefixMessage, "Filesystem type: "+strings.TrimSpace(stderr))
		return
	}

	fsType, ok := image.ParseFilesystemType(stdout)
	if !ok {
		emit(PrefixMessage, "Filesystem type not reported")
		return
	}

	res.FilesystemType = fsType
	emit(PrefixMessage, "Filesystem type: "+fsType)
}
