package carve

import "testing"

func TestClassifyCopierOutput(t *testing.T) {
	tests := []struct {
		name   string
		stdout string
		stderr string
		want   bool
	}{
		{"records on stdout", "1000 records in\n1000 records out\n", "", true},
		{"both streams empty", "", "", false},
		{"records on stderr only", "", "0+1 records out\n", true},
		{"stdout without records wins over stderr", "copy complete", "188+1 records in", false},
		{"stdout noise only", "something else entirely", "", false},
		{"stderr noise only", "", "dd: error reading input", false},
		{"records on both", "10 records in", "10 records out", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyCopierOutput(tt.stdout, tt.stderr); got != tt.want {
				t.Errorf("classifyCopierOutput(%q, %q) = %v, want %v", tt.stdout, tt.stderr, got, tt.want)
			}
		})
	}
}
