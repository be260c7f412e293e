package carve

import (
	"strings"

	"github.com/gocarve/gocarve/internal/system"
)

// Hasher computes content fingerprints by calling the external hash tool
type Hasher struct {
	executor *system.Executor
	tool     string
}

// NewHasher creates a new hasher
func NewHasher(executor *system.Executor, tool string) *Hasher {
	return &Hasher{
		executor: executor,
		tool:     tool,
	}
}

// Sum hashes one file. The digest is the first whitespace-delimited token
// of the tool's stdout; empty output is a HashError carrying the tool's
// stderr.
func (h *Hasher) Sum(path string) (string, error) {
	stdout, stderr, err := h.executor.RunSplit(h.tool, path)
	if err != nil {
		return "", err
	}

	fields := strings.Fields(stdout)
	if len(fields) == 0 {
		return "", &HashError{Path: path, Stderr: strings.TrimSpace(stderr)}
	}
	return fields[0], nil
}

// AnnotateTree fills per-file digests into a built tree. Hash errors are
// reported per file through onError and never stop the remaining files.
func (h *Hasher) AnnotateTree(nodes map[string]*DirNode, onError func(path string, err error)) {
	for _, node := range nodes {
		h.annotateNode(node, onError)
	}
}

func (h *Hasher) annotateNode(node *DirNode, onError func(path string, err error)) {
	for i := range node.Files {
		digest, err := h.Sum(node.Files[i].Path)
		if err != nil {
			if onError != nil {
				onError(node.Files[i].Path, err)
			}
			continue
		}
		node.Files[i].Digest = digest
	}
	for _, child := range node.Children {
		h.annotateNode(child, onError)
	}
}
