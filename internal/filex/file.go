// Package filex contains small filesystem helpers for the multipart upload
// staging area.
package filex

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// EnsureSubDir creates dirName if it does not exist yet and returns its
// absolute path. A relative dirName is resolved against the current working
// directory.
func EnsureSubDir(dirName string) (string, error) {
	dir := dirName
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, dirName)
	}

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// StagingPath returns a unique path inside dir for an uploaded file,
// preserving the original file extension.
func StagingPath(dir, originalName string) string {
	return filepath.Join(dir, uuid.NewString()+filepath.Ext(originalName))
}

// RemoveQuietly deletes path and reports whether the file was actually
// removed. A missing file is not an error.
func RemoveQuietly(path string) bool {
	return os.Remove(path) == nil
}
