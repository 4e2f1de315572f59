package utils

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// FileTimestampLayout is the timestamp embedded in generated file names.
const FileTimestampLayout = "20060102_150405"

// OutputManager handles output file naming and download paths
type OutputManager struct {
	DownloadPrefix string
}

// NewOutputManager creates a new output manager
func NewOutputManager(downloadPrefix string) *OutputManager {
	if downloadPrefix == "" {
		downloadPrefix = "/download"
	}
	return &OutputManager{
		DownloadPrefix: strings.TrimSuffix(downloadPrefix, "/"),
	}
}

// FileName builds "<system>_data_<YYYYmmdd_HHMMSS>_<job8>.<ext>". The job
// suffix keeps two files from the same second apart.
func (om *OutputManager) FileName(system string, at time.Time, jobID, ext string) string {
	suffix := strings.ReplaceAll(jobID, "-", "")
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	name := fmt.Sprintf("%s_data_%s", system, at.Format(FileTimestampLayout))
	if suffix != "" {
		name += "_" + suffix
	}
	return SanitizeFilename(name + "." + strings.TrimPrefix(ext, "."))
}

// GetDownloadURL generates a download URL for a file
func (om *OutputManager) GetDownloadURL(fileName string) string {
	return fmt.Sprintf("%s/%s", om.DownloadPrefix, SanitizeFilename(fileName))
}

// GetFileType determines the file type based on extension
func (om *OutputManager) GetFileType(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".csv":
		return "csv"
	case ".json":
		return "json"
	case ".parquet":
		return "parquet"
	default:
		return "unknown"
	}
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// SanitizeFilename reduces name to a single safe path element. Directory
// parts are stripped, spaces become underscores and any other character
// outside [A-Za-z0-9_.-] is dropped, as are leading dots.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	name = strings.TrimLeft(name, "._")
	if name == "" || name == "." {
		return ""
	}
	return name
}
