package pdf

import (
	"path/filepath"
	"testing"
)

func TestFindDOI(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain", "doi: 10.1117/12.2666202", "10.1117/12.2666202"},
		{"url form", "https://doi.org/10.3233/FAIA200586.", "10.3233/FAIA200586"},
		{"trailing paren", "(see 10.1145/3379174.3392318)", "10.1145/3379174.3392318"},
		{"first of many", "10.1007/978-3-030-38919-2_32 and 10.1007/978-3-030-63007-2_32", "10.1007/978-3-030-38919-2_32"},
		{"too short registrant", "10.12/abc", ""},
		{"none", "no identifier here", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := findDOI(tt.text); got != tt.want {
				t.Errorf("findDOI(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestIsValidDOI(t *testing.T) {
	tests := []struct {
		doi  string
		want bool
	}{
		{"10.1117/12.2666202", true},
		{"10.1117/", false},
		{"11.1117/12.2666", false},
		{"10.1", false},
	}

	for _, tt := range tests {
		if got := isValidDOI(tt.doi); got != tt.want {
			t.Errorf("isValidDOI(%q) = %v, want %v", tt.doi, got, tt.want)
		}
	}
}

func TestTitleLine(t *testing.T) {
	text := `Journal of Visual Communication and Image Representation 95 (2023)
Short
Multiple transformation function estimation for image enhancement
Jaemin Park, An Gia Vien`

	want := "Multiple transformation function estimation for image enhancement"
	if got := titleLine(text); got != want {
		t.Errorf("titleLine() = %q, want %q", got, want)
	}
	if got := titleLine("tiny\nlines"); got != "" {
		t.Errorf("titleLine() = %q, want empty", got)
	}
}

func TestExtract_MissingFile(t *testing.T) {
	if _, err := Extract(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Error("Extract() should fail for a missing file")
	}
}
