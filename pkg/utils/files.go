// =============================================================================
// CSV Field Rewriter - File Utilities
// =============================================================================
//
// Small helpers for inspecting the files the pipeline reads and writes.
//
// =============================================================================

package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// SourceKind identifies the decoder used for an input file.
type SourceKind string

const (
	// SourceCSV is delimited text; the default for any unknown extension.
	SourceCSV SourceKind = "csv"

	// SourceXLSX is an Office Open XML workbook.
	SourceXLSX SourceKind = "xlsx"
)

// DetectSourceKind picks the decoder from the file extension.
func DetectSourceKind(path string) SourceKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return SourceXLSX
	default:
		return SourceCSV
	}
}

// GetFileSize returns the size of a file in bytes.
func GetFileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// SamePath reports whether two paths name the same file. Paths that do not
// exist yet are compared lexically after cleaning.
func SamePath(a, b string) bool {
	infoA, errA := os.Stat(a)
	infoB, errB := os.Stat(b)
	if errA == nil && errB == nil {
		return os.SameFile(infoA, infoB)
	}

	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
