package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Default download location under the user's Downloads folder
const (
	DownloadsDirName = "Downloads"
	AppDirName       = "ytweb"
)

// File name similarity thresholds
const (
	MinFileNameLength = 10
	MaxNameDifference = 10
)

// Extensions of yt-dlp scratch files that are never the final output
var (
	SkippedExtensions = []string{".part", ".ytdl", ".temp"}
)

// DefaultMimeType is served when the extension is unknown
const DefaultMimeType = "application/octet-stream"

// mimeTypes maps container extensions to the Content-Type sent on delivery
var mimeTypes = map[string]string{
	"mp4":  "video/mp4",
	"m4a":  "audio/mp4",
	"mp3":  "audio/mpeg",
	"webm": "video/webm",
	"mkv":  "video/x-matroska",
	"wav":  "audio/wav",
	"aac":  "audio/aac",
	"opus": "audio/opus",
}

// MimeTypeForExt returns the Content-Type for a container extension, with or
// without the leading dot
func MimeTypeForExt(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	if mt, ok := mimeTypes[ext]; ok {
		return mt
	}
	return DefaultMimeType
}

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// GetHomeDownloadsDir returns the standard Downloads directory for the user
func GetHomeDownloadsDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, DownloadsDirName), nil
}

// DefaultDownloadDir returns the directory fetched files are written to when
// none is configured. Falls back to the system temp dir for users without a home.
func DefaultDownloadDir() string {
	dir, err := GetHomeDownloadsDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppDirName)
	}
	return filepath.Join(dir, AppDirName)
}

// FindFileWithFallback tries to find a file by its original path, and if not found,
// searches for files with similar names and the same extension in the same directory.
// yt-dlp may sanitize or re-extension the name it reported, so the reported path is
// only a hint.
func FindFileWithFallback(filePath string) (string, error) {
	if filePath == "" {
		return "", fmt.Errorf("file path is empty")
	}

	if strings.HasPrefix(filePath, "http") {
		return "", fmt.Errorf("file path appears to be a URL: %s", filePath)
	}

	if !strings.Contains(filePath, "/") && !strings.Contains(filePath, "\\") {
		return "", fmt.Errorf("file path does not contain path separators: %s", filePath)
	}

	if _, err := os.Stat(filePath); err == nil {
		return filePath, nil
	}

	dir := filepath.Dir(filePath)
	originalName := filepath.Base(filePath)
	originalExt := filepath.Ext(originalName)
	baseName := strings.TrimSuffix(originalName, originalExt)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var candidates []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		entryName := entry.Name()
		entryExt := filepath.Ext(entryName)
		if entryExt != originalExt || isScratchFile(entryName) {
			continue
		}
		if isSimilarFileName(strings.TrimSuffix(entryName, entryExt), baseName) {
			candidates = append(candidates, filepath.Join(dir, entryName))
		}
	}

	if len(candidates) == 0 {
		return "", fmt.Errorf("file not found: %s", filePath)
	}

	// Newest first: the file we just fetched beats older leftovers
	sort.SliceStable(candidates, func(i, j int) bool {
		infoI, errI := os.Stat(candidates[i])
		infoJ, errJ := os.Stat(candidates[j])
		if errI != nil || errJ != nil {
			return candidates[i] < candidates[j]
		}
		return infoI.ModTime().After(infoJ.ModTime())
	})
	return candidates[0], nil
}

// isSimilarFileName checks if two file names are similar enough to be considered the same file
func isSimilarFileName(name1, name2 string) bool {
	clean1 := strings.TrimSpace(name1)
	clean2 := strings.TrimSpace(name2)

	if clean1 == clean2 {
		return true
	}

	// --restrict-filenames swaps spaces for underscores
	if strings.ReplaceAll(clean1, " ", "_") == strings.ReplaceAll(clean2, " ", "_") {
		return true
	}

	if len(clean1) < MinFileNameLength && len(clean2) < MinFileNameLength {
		return false
	}

	// One contained in the other covers truncated and prefixed names
	if strings.Contains(clean1, clean2) || strings.Contains(clean2, clean1) {
		diff := len(clean1) - len(clean2)
		if diff < 0 {
			diff = -diff
		}
		return diff <= MaxNameDifference
	}

	return false
}

func isScratchFile(filename string) bool {
	for _, ext := range SkippedExtensions {
		if strings.HasSuffix(filename, ext) {
			return true
		}
	}
	return false
}
