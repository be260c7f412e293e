package carve

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gocarve/gocarve/internal/image"
	"github.com/gocarve/gocarve/internal/system"
)

const stockCarverConf = `# Extension  Case  Size  Header  Footer
# jpg  y  200000000  \xff\xd8\xff\xe0\x00\x10  \xff\xd9
# png  y  20000000  \x50\x4e\x47?  \xff\xfc\xfd\xfe
# doc  y  10000000  \xd0\xcf\x11\xe0\xa1\xb1\x1a\xe1\x00\x00
# mov  y  10000000  ????moov  ????moov
`

func writeStockConf(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scalpel.conf")
	if err := os.WriteFile(path, []byte(stockCarverConf), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestWriteTypeConfig(t *testing.T) {
	confPath := writeStockConf(t)

	cfgPath, err := writeTypeConfig(confPath, []string{"jpg", "png"})
	if err != nil {
		t.Fatalf("writeTypeConfig: %v", err)
	}
	defer os.Remove(cfgPath)

	data, err := os.ReadFile(cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)

	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d config lines, want 2:\n%s", len(lines), text)
	}
	if strings.Contains(text, "#") {
		t.Errorf("config still commented out:\n%s", text)
	}
	if !strings.Contains(lines[0], "jpg") || !strings.Contains(lines[1], "png") {
		t.Errorf("unexpected type lines:\n%s", text)
	}
}

func TestWriteTypeConfigMissingStock(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.conf")
	if _, err := writeTypeConfig(missing, []string{"jpg"}); err == nil {
		t.Fatal("expected error for missing stock config")
	}
}

func fileCarveTools(t *testing.T, dir, carverBody string) system.Tools {
	t.Helper()
	return system.Tools{
		Carver: writeScript(t, dir, "scalpel", carverBody),
		Hasher: fakeHasher(t, dir),
	}
}

// The fake carver reads the output directory from the -o flag's argument,
// which is the fifth positional parameter in the invocation.
func TestCarveFiles(t *testing.T) {
	dir := t.TempDir()
	tools := fileCarveTools(t, dir, `mkdir -p "$5/jpg-0-0"
echo data > "$5/jpg-0-0/00000001.jpg"
echo "Scalpel is done, files carved = 1, elapsed = 1 secs."`)

	reg := newTestRegistry("NTFS_fs0")
	part := reg.Partitions[0]
	part.IsFilesystem = true
	part.OutputPath = filepath.Join(dir, "NTFS_fs0")

	carver := NewFileCarver(testExecutor(), tools)
	res, err := carver.CarveFiles(part, []string{"jpg"}, writeStockConf(t), t.TempDir(), nil)
	if err != nil {
		t.Fatalf("CarveFiles: %v", err)
	}

	if res.FilesCarved != 1 {
		t.Errorf("FilesCarved = %d, want 1", res.FilesCarved)
	}
	if part.CarvedFiles != image.FlagYes {
		t.Errorf("CarvedFiles flag = %q, want Yes", part.CarvedFiles)
	}
	if got := CountFiles(res.Tree); got != 1 {
		t.Errorf("tree holds %d files, want 1", got)
	}
	if base := filepath.Base(res.OutputDir); base != "carvedFiles_NTFS_fs0" {
		t.Errorf("output dir = %q", base)
	}
}

func TestCarveFilesZeroCount(t *testing.T) {
	dir := t.TempDir()
	tools := fileCarveTools(t, dir, `echo "Scalpel is done, files carved = 0, elapsed = 1 secs."`)

	reg := newTestRegistry("NTFS_fs0")
	part := reg.Partitions[0]
	part.OutputPath = filepath.Join(dir, "NTFS_fs0")

	carver := NewFileCarver(testExecutor(), tools)
	res, err := carver.CarveFiles(part, []string{"jpg"}, writeStockConf(t), t.TempDir(), nil)
	if err != nil {
		t.Fatalf("CarveFiles: %v", err)
	}

	if res.FilesCarved != 0 {
		t.Errorf("FilesCarved = %d, want 0", res.FilesCarved)
	}
	if part.CarvedFiles != image.FlagNo {
		t.Errorf("CarvedFiles flag = %q, want No", part.CarvedFiles)
	}
	if res.Tree != nil {
		t.Error("zero-count run should carry no tree")
	}
}

func TestCarveFilesToolError(t *testing.T) {
	dir := t.TempDir()
	tools := fileCarveTools(t, dir, `echo "Scalpel is done, files carved = 1, elapsed = 1 secs."
echo "ERROR: Couldn't open config file" >&2`)

	reg := newTestRegistry("NTFS_fs0")
	part := reg.Partitions[0]
	part.OutputPath = filepath.Join(dir, "NTFS_fs0")

	carver := NewFileCarver(testExecutor(), tools)
	_, err := carver.CarveFiles(part, []string{"jpg"}, writeStockConf(t), t.TempDir(), nil)

	var toolErr *ToolFailureError
	if !errors.As(err, &toolErr) {
		t.Fatalf("error %v is not a ToolFailureError", err)
	}
}

func TestCarveFilesRequiresCarvedPartition(t *testing.T) {
	dir := t.TempDir()
	tools := fileCarveTools(t, dir, `echo unused`)

	reg := newTestRegistry("NTFS_fs0")
	part := reg.Partitions[0]

	carver := NewFileCarver(testExecutor(), tools)
	if _, err := carver.CarveFiles(part, []string{"jpg"}, writeStockConf(t), t.TempDir(), nil); err == nil {
		t.Error("uncarved partition should fail")
	}

	part.OutputPath = filepath.Join(dir, "NTFS_fs0")
	if _, err := carver.CarveFiles(part, nil, writeStockConf(t), t.TempDir(), nil); err == nil {
		t.Error("empty type selection should fail")
	}
}

func TestParseCarvedCount(t *testing.T) {
	tests := []struct {
		output  string
		want    int
		wantErr bool
	}{
		{"Scalpel is done, files carved = 17, elapsed = 2 secs.\n", 17, false},
		{"files carved = 0, elapsed = 0 secs.", 0, false},
		{"nothing useful here", 0, true},
		{"files carved = 5 with no comma", 0, true},
		{"files carved = lots, elapsed = 1 secs.", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseCarvedCount(tt.output)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseCarvedCount(%q): expected error", tt.output)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseCarvedCount(%q): %v", tt.output, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCarvedCount(%q) = %d, want %d", tt.output, got, tt.want)
		}
	}
}
