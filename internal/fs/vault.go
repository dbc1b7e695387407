// Package fs provides file system utilities for the autocomplete application.
// It owns the vault directory, the candidates file and its change watcher.
package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureVaultExists makes sure path is a writable directory, creating it (0755) if needed.
//
// Example:
//
//	if err := fs.EnsureVaultExists(config.VaultPath()); err != nil {
//	    log.Fatalf("Failed to initialize vault: %v", err)
//	}
func EnsureVaultExists(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("failed to create vault directory: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check vault directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("vault path exists but is not a directory: %s", path)
	}
	if info.Mode().Perm()&0200 == 0 {
		return fmt.Errorf("insufficient permissions to write to vault directory: %s", path)
	}
	return nil
}

// fileExists reports whether path exists and is not a directory.
func fileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("error checking file: %w", err)
	}
	return !info.IsDir(), nil
}

// EnsureCandidatesFile creates the candidates file with seed as its content,
// one candidate per line. An existing file is left untouched.
//
// Returns:
//   - bool: true if the file was created by this call
//   - error: An error if the file cannot be checked or written
func EnsureCandidatesFile(path string, seed []string) (bool, error) {
	exists, err := fileExists(path)
	if err != nil {
		return false, fmt.Errorf("error checking file existence: %w", err)
	}
	if exists {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("failed to create parent directories: %w", err)
	}

	var content string
	if len(seed) > 0 {
		content = strings.Join(seed, "\n") + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return false, fmt.Errorf("failed to create file: %w", err)
	}
	return true, nil
}
