package image

import (
	"fmt"
	"strings"

	"github.com/gocarve/gocarve/internal/system"
)

// Scanner runs the partition lister against a disk image and seeds a
// registry from its output
type Scanner struct {
	executor *system.Executor
	lister   string
}

// NewScanner creates a new scanner
func NewScanner(executor *system.Executor, lister string) *Scanner {
	return &Scanner{
		executor: executor,
		lister:   lister,
	}
}

// Scan lists the partitions of a disk image. An image the lister cannot
// read (empty stdout) is an error; the stderr text is surfaced to the
// caller.
func (s *Scanner) Scan(imagePath string) (*Registry, error) {
	stdout, stderr, err := s.executor.RunSplit(s.lister, imagePath)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(stdout) == "" {
		msg := strings.TrimSpace(stderr)
		if msg == "" {
			msg = "no output"
		}
		return nil, fmt.Errorf("not a valid disk image %s: %s", imagePath, msg)
	}

	partitions, blockSize, err := ParseTable(strings.Split(stdout, "\n"))
	if err != nil {
		return nil, err
	}

	return &Registry{
		Image:      imagePath,
		BlockSize:  blockSize,
		Partitions: partitions,
	}, nil
}
