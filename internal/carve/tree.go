package carve

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// FileEntry is one file inside a directory node. Digest is filled in by
// the hasher after the tree is built.
type FileEntry struct {
	Path   string
	Digest string
}

// DirNode is one directory in a reconstructed tree: the files directly
// inside it and its child directories keyed by path. A built tree holds
// every walked directory exactly once, either as a top-level root or
// under exactly one ancestor.
type DirNode struct {
	Path     string
	Files    []FileEntry
	Children map[string]*DirNode
}

// BuildTree walks the filesystem rooted at root and folds the flat walk
// into a nested tree keyed by top-level path. Folding runs deepest-first,
// so every directory attaches to its nearest surviving ancestor; the
// result is the same regardless of walk order.
func BuildTree(root string) (map[string]*DirNode, error) {
	flat := make(map[string]*DirNode)
	var order []string // walk discovery order, parents before children

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			flat[path] = &DirNode{Path: path, Children: make(map[string]*DirNode)}
			order = append(order, path)
			return nil
		}
		parent := flat[filepath.Dir(path)]
		if parent == nil {
			return fmt.Errorf("file %s outside any walked directory", path)
		}
		parent.Files = append(parent.Files, FileEntry{Path: path})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	// Reverse of discovery order visits children before their parents, so
	// each directory is claimed by its nearest ancestor first.
	folded := make(map[string]bool)
	for i := len(order) - 1; i >= 0; i-- {
		dir := order[i]
		for _, sub := range order {
			if sub == dir || folded[sub] {
				continue
			}
			if isAncestor(dir, sub) {
				flat[dir].Children[sub] = flat[sub]
				folded[sub] = true
				delete(flat, sub)
			}
		}
	}

	// Whatever was not claimed by an ancestor is a top-level root.
	return flat, nil
}

// isAncestor reports whether sub lives somewhere under dir. The test is
// path-segment aware: "foo" is not an ancestor of "foobar".
func isAncestor(dir, sub string) bool {
	rel, err := filepath.Rel(dir, sub)
	if err != nil {
		return false
	}
	if rel == "." || rel == ".." {
		return false
	}
	return !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// CountFiles returns the number of files in a built tree
func CountFiles(nodes map[string]*DirNode) int {
	total := 0
	for _, n := range nodes {
		total += countNodeFiles(n)
	}
	return total
}

func countNodeFiles(n *DirNode) int {
	total := len(n.Files)
	for _, c := range n.Children {
		total += countNodeFiles(c)
	}
	return total
}
