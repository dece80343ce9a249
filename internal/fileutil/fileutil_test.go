package fileutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alnah/go-slidedeck/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestFileExists / TestDirExists - Existence checks
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()

	testFile := filepath.Join(tempDir, "deck.html")
	if err := os.WriteFile(testFile, []byte("<div class=\"slide\"></div>"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	testDir := filepath.Join(tempDir, "assets")
	if err := os.Mkdir(testDir, 0755); err != nil {
		t.Fatalf("failed to create test dir: %v", err)
	}

	tests := []struct {
		name     string
		path     string
		wantFile bool
		wantDir  bool
	}{
		{
			name:     "existing file",
			path:     testFile,
			wantFile: true,
			wantDir:  false,
		},
		{
			name:     "directory",
			path:     testDir,
			wantFile: false,
			wantDir:  true,
		},
		{
			name:     "nonexistent path",
			path:     filepath.Join(tempDir, "nonexistent"),
			wantFile: false,
			wantDir:  false,
		},
		{
			name:     "empty path",
			path:     "",
			wantFile: false,
			wantDir:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.FileExists(tt.path); got != tt.wantFile {
				t.Errorf("FileExists(%q) = %v, want %v", tt.path, got, tt.wantFile)
			}
			if got := fileutil.DirExists(tt.path); got != tt.wantDir {
				t.Errorf("DirExists(%q) = %v, want %v", tt.path, got, tt.wantDir)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestIsFilePath - File path detection
// ---------------------------------------------------------------------------

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"simple name returns false", "config", false},
		{"relative path returns true", "./deck.json", true},
		{"parent path returns true", "../shared/config.yaml", true},
		{"absolute path returns true", "/etc/slidedeck/config.toml", true},
		{"Windows path returns true", "C:\\decks\\config.json", true},
		{"name with extension returns false", "config.json", false},
		{"empty string returns false", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.IsFilePath(tt.input); got != tt.want {
				t.Errorf("IsFilePath(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestIsURL - URL detection
// ---------------------------------------------------------------------------

func TestIsURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"http://example.com/config.json", true},
		{"https://example.com", true},
		{"/path/to/file", false},
		{"./file.txt", false},
		{"ftp://example.com", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := fileutil.IsURL(tt.input); got != tt.want {
			t.Errorf("IsURL(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestDeckKinds - Deck source detection
// ---------------------------------------------------------------------------

func TestDeckKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path         string
		wantMarkdown bool
		wantHTML     bool
	}{
		{"talk.md", true, false},
		{"talk.MARKDOWN", true, false},
		{"index.html", false, true},
		{"index.HTM", false, true},
		{"notes.txt", false, false},
		{"noext", false, false},
	}

	for _, tt := range tests {
		if got := fileutil.IsMarkdown(tt.path); got != tt.wantMarkdown {
			t.Errorf("IsMarkdown(%q) = %v, want %v", tt.path, got, tt.wantMarkdown)
		}
		if got := fileutil.IsHTML(tt.path); got != tt.wantHTML {
			t.Errorf("IsHTML(%q) = %v, want %v", tt.path, got, tt.wantHTML)
		}
	}
}
