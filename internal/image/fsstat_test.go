package image

import "testing"

func TestParseFilesystemType(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  string
		found bool
	}{
		{
			"ntfs",
			"FILE SYSTEM INFORMATION\n--------------------------------------------\nFile System Type: NTFS\nVolume Serial Number: 4E0A\n",
			"NTFS", true,
		},
		{
			"trailing whitespace",
			"File System Type: Ext4  \n",
			"Ext4", true,
		},
		{
			"absent",
			"Cannot determine file system type\n",
			"", false,
		},
		{
			"empty",
			"",
			"", false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := ParseFilesystemType(tt.text)
			if got != tt.want || found != tt.found {
				t.Errorf("ParseFilesystemType() = (%q, %v), want (%q, %v)", got, found, tt.want, tt.found)
			}
		})
	}
}
