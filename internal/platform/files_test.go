package platform

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCreateDirectoryIfNotExists(t *testing.T) {
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "test_dir", "nested")

	if _, err := os.Stat(testDir); !os.IsNotExist(err) {
		t.Fatalf("Test directory already exists: %s", testDir)
	}

	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	if _, err := os.Stat(testDir); os.IsNotExist(err) {
		t.Fatalf("Directory was not created: %s", testDir)
	}

	// Second call should not fail
	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to handle existing directory: %v", err)
	}
}

func TestGetHomeDownloadsDir(t *testing.T) {
	downloadsDir, err := GetHomeDownloadsDir()
	if err != nil {
		t.Fatalf("Failed to get downloads directory: %v", err)
	}

	if filepath.Base(downloadsDir) != DownloadsDirName {
		t.Errorf("Expected directory to end with 'Downloads', got: %s", downloadsDir)
	}
}

func TestDefaultDownloadDir(t *testing.T) {
	dir := DefaultDownloadDir()
	if filepath.Base(dir) != AppDirName {
		t.Errorf("Expected directory to end with %q, got: %s", AppDirName, dir)
	}
}

func TestMimeTypeForExt(t *testing.T) {
	tests := []struct {
		ext  string
		want string
	}{
		{"mp4", "video/mp4"},
		{".m4a", "audio/mp4"},
		{"MP3", "audio/mpeg"},
		{"webm", "video/webm"},
		{"mkv", "video/x-matroska"},
		{"wav", "audio/wav"},
		{"aac", "audio/aac"},
		{"opus", "audio/opus"},
		{"flv", DefaultMimeType},
		{"", DefaultMimeType},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			if got := MimeTypeForExt(tt.ext); got != tt.want {
				t.Errorf("MimeTypeForExt(%q) = %q, want %q", tt.ext, got, tt.want)
			}
		})
	}
}

func TestFindFileWithFallback_ExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "existing file.mp4")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	foundPath, err := FindFileWithFallback(path)
	if err != nil {
		t.Fatalf("Failed to find existing file: %v", err)
	}
	if foundPath != path {
		t.Errorf("Expected path %s, got %s", path, foundPath)
	}
}

func TestFindFileWithFallback_RestrictedName(t *testing.T) {
	tempDir := t.TempDir()
	actual := filepath.Join(tempDir, "Never_Gonna_Give_You_Up.mp4")
	if err := os.WriteFile(actual, []byte("x"), 0o644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	foundPath, err := FindFileWithFallback(filepath.Join(tempDir, "Never Gonna Give You Up.mp4"))
	if err != nil {
		t.Fatalf("Expected to find restricted-name file, got %v", err)
	}
	if foundPath != actual {
		t.Errorf("Expected path %s, got %s", actual, foundPath)
	}
}

func TestFindFileWithFallback_PrefersNewest(t *testing.T) {
	tempDir := t.TempDir()
	older := filepath.Join(tempDir, "-some long video title.mp4")
	newer := filepath.Join(tempDir, "some long video title-.mp4")
	for _, p := range []string{older, newer} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatalf("Failed to create file: %v", err)
		}
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(older, past, past); err != nil {
		t.Fatalf("Failed to set mtime: %v", err)
	}

	foundPath, err := FindFileWithFallback(filepath.Join(tempDir, "some long video title.mp4"))
	if err != nil {
		t.Fatalf("Expected a match, got %v", err)
	}
	if foundPath != newer {
		t.Errorf("Expected newest candidate %s, got %s", newer, foundPath)
	}
}

func TestFindFileWithFallback_SkipsScratchFiles(t *testing.T) {
	tempDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tempDir, "some long video title.mp4.part"), []byte("x"), 0o644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	if _, err := FindFileWithFallback(filepath.Join(tempDir, "some long video title.mp4")); err == nil {
		t.Error("Expected error when only a partial download exists")
	}
}

func TestFindFileWithFallback_Errors(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"empty", ""},
		{"url", "https://example.com/video.mp4"},
		{"no separators", "video.mp4"},
		{"missing dir", filepath.Join(t.TempDir(), "nope", "video.mp4")},
		{"different extension", filepath.Join(t.TempDir(), "video.mkv")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FindFileWithFallback(tt.path); err == nil {
				t.Errorf("Expected error for %q", tt.path)
			}
		})
	}
}

func TestIsSimilarFileName(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"video", "video", true},
		{" video ", "video", true},
		{"my video", "my_video", true},
		{"a long video title", "a long video title (1)", true},
		{"a long video title", "completely different name", false},
		{"short", "shorter", false},
	}

	for _, tt := range tests {
		if got := isSimilarFileName(tt.a, tt.b); got != tt.want {
			t.Errorf("isSimilarFileName(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
