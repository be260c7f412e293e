package carve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gocarve/gocarve/internal/image"
	"github.com/gocarve/gocarve/internal/system"
)

// writeScript drops an executable shell script standing in for one of the
// external tools
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	return path
}

// fakeHasher is a hash tool printing a fixed digest followed by the path
func fakeHasher(t *testing.T, dir string) string {
	t.Helper()
	return writeScript(t, dir, "md5sum", `echo "cafebabe0123  $1"`)
}

func newTestRegistry(descriptions ...string) *image.Registry {
	reg := &image.Registry{
		Image:     "/evidence/disk.img",
		BlockSize: 512,
	}
	for i, desc := range descriptions {
		name := desc
		part := &image.Partition{
			Slot:        "000:00" + string(rune('0'+i)),
			Start:       uint64(i * 100),
			End:         uint64(i*100 + 99),
			Length:      100,
			Description: desc,
			Name:        name,
			Carved:      image.FlagNo,
			Recovered:   image.FlagNo,
			CarvedFiles: image.FlagNo,
		}
		reg.Partitions = append(reg.Partitions, part)
	}
	return reg
}

func testExecutor() *system.Executor {
	return system.NewExecutor(false)
}
