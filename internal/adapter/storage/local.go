package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/semmidev/robobak/internal/domain"
)

// LocalStorage is the backup tree of one user on one machine:
// <backup_directory>/<username>/<computername>.
type LocalStorage struct {
	basePath string
}

// NewLocal never touches the filesystem; the copy tool creates directories as needed.
func NewLocal(backupDirectory string, id domain.Identity) (*LocalStorage, error) {
	if id.Username == "" || id.ComputerName == "" {
		return nil, fmt.Errorf("username and computer name are required: %w", domain.ErrMissingIdentity)
	}
	return &LocalStorage{
		basePath: filepath.Join(backupDirectory, id.Username, id.ComputerName),
	}, nil
}

func (l *LocalStorage) Root() string {
	return l.basePath
}

// GetPath maps an absolute source directory into the backup tree, turning the
// drive letter into a plain directory name (C:\Users -> <root>\C\Users).
func (l *LocalStorage) GetPath(sourceDir string) (string, error) {
	if !filepath.IsAbs(sourceDir) {
		return "", fmt.Errorf("%s: %w", sourceDir, domain.ErrNotAbsolute)
	}
	return filepath.Join(l.basePath, strings.ReplaceAll(sourceDir, ":", "")), nil
}

func (l *LocalStorage) Inspect(ctx context.Context, path string) (domain.Entry, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return domain.Entry{Path: path}, nil
	}
	if err != nil {
		return domain.Entry{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	return domain.Entry{
		Path:    path,
		Exists:  true,
		IsDir:   info.IsDir(),
		ModTime: info.ModTime(),
	}, nil
}

// List returns the top-level entries of the backup tree, typically one per source drive.
func (l *LocalStorage) List(ctx context.Context) ([]domain.Entry, error) {
	entries, err := os.ReadDir(l.basePath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var out []domain.Entry
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to get file info for %s: %w", entry.Name(), err)
		}
		out = append(out, domain.Entry{
			Path:    filepath.Join(l.basePath, entry.Name()),
			Exists:  true,
			IsDir:   entry.IsDir(),
			ModTime: info.ModTime(),
		})
	}

	return out, nil
}
