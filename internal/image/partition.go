package image

import "fmt"

// Flag is a forward-only progress marker on a partition. Within one
// session a flag moves from No to Yes and never back.
type Flag string

// Flag values
const (
	FlagNo  Flag = "No"
	FlagYes Flag = "Yes"
)

// Partition is one identified region of the disk image. Start, End and
// Length are expressed in table units (the registry's block size), not
// bytes.
type Partition struct {
	Slot           string // slot label from the table tool
	Start          uint64
	End            uint64
	Length         uint64
	Description    string
	Name           string // description with spaces replaced, filesystem-safe
	IsFilesystem   bool   // type field carried a colon-qualified filesystem tag
	Carved         Flag
	Recovered      Flag
	CarvedFiles    Flag
	OutputPath     string // set once carved
	FilesystemType string // set once probed
	Digest         string // set once hashed
}

// Registry is the ordered partition list for one triage session. Indices
// are stable identities for the session; the list is never reordered.
type Registry struct {
	Image      string
	BlockSize  int // unit size in bytes, as reported by the table tool
	Partitions []*Partition
}

// Validate checks that every index addresses a partition in the registry
func (r *Registry) Validate(indices []int) error {
	for _, i := range indices {
		if i < 0 || i >= len(r.Partitions) {
			return fmt.Errorf("partition index %d out of range (0-%d)", i, len(r.Partitions)-1)
		}
	}
	return nil
}

// FilesystemIndices returns the indices of all filesystem-bearing
// partitions, in registry order
func (r *Registry) FilesystemIndices() []int {
	var indices []int
	for i, p := range r.Partitions {
		if p.IsFilesystem {
			indices = append(indices, i)
		}
	}
	return indices
}
