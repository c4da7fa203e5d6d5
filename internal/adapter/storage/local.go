package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// LocalStorage is a working directory on local disk, e.g. <cwd>/backups.
type LocalStorage struct {
	basePath string
}

func NewLocal(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", basePath, err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

func (l *LocalStorage) BasePath() string {
	return l.basePath
}

func (l *LocalStorage) GetPath(name string) string {
	return filepath.Join(l.basePath, name)
}

func (l *LocalStorage) Exists(name string) bool {
	_, err := os.Stat(l.GetPath(name))
	return err == nil
}

// Remove deletes name and everything below it. Removing a missing entry is not an error.
func (l *LocalStorage) Remove(name string) error {
	if name == "" || name == "." {
		return fmt.Errorf("refusing to remove the working directory itself")
	}
	if err := os.RemoveAll(l.GetPath(name)); err != nil {
		return fmt.Errorf("failed to remove %s: %w", name, err)
	}
	return nil
}

// List returns the names of the directories directly under the base path.
func (l *LocalStorage) List() ([]string, error) {
	entries, err := os.ReadDir(l.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		}
	}
	sort.Strings(dirs)

	return dirs, nil
}
