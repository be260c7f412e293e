package carve

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gocarve/gocarve/internal/image"
	"github.com/gocarve/gocarve/internal/system"
)

func recoverTools(t *testing.T, dir, recovererBody string) system.Tools {
	t.Helper()
	return system.Tools{
		Recoverer: writeScript(t, dir, "tsk_recover", recovererBody),
		Hasher:    fakeHasher(t, dir),
	}
}

func TestRecover(t *testing.T) {
	dir := t.TempDir()
	tools := recoverTools(t, dir, `mkdir -p "$2/sub"
echo hi > "$2/f1.txt"
echo there > "$2/sub/f2.txt"
echo "Files Recovered: 2"`)

	reg := newTestRegistry("NTFS (0x07)_fs0")
	reg.Partitions[0].IsFilesystem = true
	reg.Partitions[0].OutputPath = filepath.Join(dir, "NTFS (0x07)_fs0")

	recoverer := NewRecoverer(testExecutor(), tools)
	results, err := recoverer.Recover(reg, []int{0}, t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}

	res := results[0]
	if res.Status != StatusRecovered {
		t.Fatalf("Status = %v, want Recovered (err: %v)", res.Status, res.Err)
	}
	if res.FilesRecovered != 2 {
		t.Errorf("FilesRecovered = %d, want 2", res.FilesRecovered)
	}
	if reg.Partitions[0].Recovered != image.FlagYes {
		t.Errorf("Recovered flag = %q, want Yes", reg.Partitions[0].Recovered)
	}
	if got := CountFiles(res.Tree); got != 2 {
		t.Errorf("tree holds %d files, want 2", got)
	}

	var digests []string
	var visit func(n *DirNode)
	visit = func(n *DirNode) {
		for _, f := range n.Files {
			digests = append(digests, f.Digest)
		}
		for _, c := range n.Children {
			visit(c)
		}
	}
	for _, n := range res.Tree {
		visit(n)
	}
	for _, d := range digests {
		if d != "cafebabe0123" {
			t.Errorf("digest = %q", d)
		}
	}

	base := filepath.Base(res.OutputDir)
	if base != "out_NTFS_0" {
		t.Errorf("output dir = %q, want out_NTFS_0", base)
	}
}

func TestRecoverNotCarved(t *testing.T) {
	dir := t.TempDir()
	sentinel := filepath.Join(dir, "ran")
	tools := recoverTools(t, dir, `touch `+sentinel+`
echo "Files Recovered: 0"`)

	reg := newTestRegistry("Linux (0x83)_fs1")

	recoverer := NewRecoverer(testExecutor(), tools)
	results, err := recoverer.Recover(reg, []int{0}, t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}

	if results[0].Status != StatusNotCarved {
		t.Errorf("Status = %v, want NotCarved", results[0].Status)
	}
	if _, err := os.Stat(sentinel); !os.IsNotExist(err) {
		t.Error("recoverer ran for an uncarved partition")
	}
}

func TestRecoverNoFiles(t *testing.T) {
	dir := t.TempDir()
	tools := recoverTools(t, dir, `echo "Files Recovered: 0"`)

	reg := newTestRegistry("Linux (0x83)_fs1")
	reg.Partitions[0].OutputPath = filepath.Join(dir, "Linux (0x83)_fs1")

	recoverer := NewRecoverer(testExecutor(), tools)
	results, err := recoverer.Recover(reg, []int{0}, t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}

	res := results[0]
	if res.Status != StatusNoFiles {
		t.Errorf("Status = %v, want NoFiles", res.Status)
	}
	if reg.Partitions[0].Recovered != image.FlagNo {
		t.Errorf("Recovered flag = %q, want No", reg.Partitions[0].Recovered)
	}
}

func TestRecoverToolFailure(t *testing.T) {
	dir := t.TempDir()
	tools := recoverTools(t, dir, `echo "tsk_recover: cannot determine file system type" >&2`)

	reg := newTestRegistry("Linux (0x83)_fs1")
	reg.Partitions[0].OutputPath = filepath.Join(dir, "Linux (0x83)_fs1")

	recoverer := NewRecoverer(testExecutor(), tools)
	results, err := recoverer.Recover(reg, []int{0}, t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}

	res := results[0]
	if res.Status != StatusFailed {
		t.Fatalf("Status = %v, want Failed", res.Status)
	}
	var toolErr *ToolFailureError
	if !errors.As(res.Err, &toolErr) {
		t.Fatalf("error %v is not a ToolFailureError", res.Err)
	}
	if toolErr.Stderr != "tsk_recover: cannot determine file system type" {
		t.Errorf("Stderr = %q", toolErr.Stderr)
	}
}

func TestParseRecoveredCount(t *testing.T) {
	tests := []struct {
		output  string
		want    int
		wantErr bool
	}{
		{"Files Recovered: 42\n", 42, false},
		{"Files Recovered: 0", 0, false},
		{"Files Recovered:\t7 items", 7, false},
		{"no separator here", 0, true},
		{"Files Recovered: many", 0, true},
		{"Files Recovered:", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseRecoveredCount(tt.output)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseRecoveredCount(%q): expected error", tt.output)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRecoveredCount(%q): %v", tt.output, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRecoveredCount(%q) = %d, want %d", tt.output, got, tt.want)
		}
	}
}

func TestRecoverDirName(t *testing.T) {
	tests := []struct {
		description string
		index       int
		want        string
	}{
		{"NTFS (0x07)_fs0", 2, "NTFS_2"},
		{"Linux (0x83)_fs1", 3, "Linux_3"},
		{"Win95 FAT32 (0x0b)", 0, "Win95FAT32_0"},
		{"DOS/Windows", 1, "DOS_Windows_1"},
		{"Unallocated", 4, "Unallocated_4"},
	}
	for _, tt := range tests {
		if got := recoverDirName(tt.description, tt.index); got != tt.want {
			t.Errorf("recoverDirName(%q, %d) = %q, want %q", tt.description, tt.index, got, tt.want)
		}
	}
}
