package utils

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

func ExtractFileFromVSIX(vsixPath, filePath string) ([]byte, error) {
	reader, err := zip.OpenReader(vsixPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open .vsix file: %w", err)
	}
	defer reader.Close()

	for _, file := range reader.File {
		if file.Name != filePath {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
		}
		defer rc.Close()

		content, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
		}
		return content, nil
	}

	return nil, fmt.Errorf("file %s not found in .vsix archive", filePath)
}

func EnsureDirectory(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, 0755)
	}
	return nil
}

func IsVSIXFile(filePath string) bool {
	return strings.HasSuffix(strings.ToLower(filePath), VSIXExtension)
}

func FileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return !os.IsNotExist(err)
}

// RemoveFile deletes path, treating a missing file as success.
func RemoveFile(path string) error {
	if path == "" || !FileExists(path) {
		return nil
	}
	return os.Remove(path)
}

// SafeFileName flattens a download name into the target directory.
func SafeFileName(dir, name string) string {
	return filepath.Join(dir, filepath.Base(filepath.Clean("/"+name)))
}
