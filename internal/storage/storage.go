package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrInvalidName is returned for file names that are not plain names inside the
// output directory.
var ErrInvalidName = errors.New("invalid file name")

// Storage writes and lists files in one output directory.
type Storage struct {
	dir string
}

// New creates a Storage rooted at dir, creating the directory if needed.
func New(dir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, dir[2:])
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Storage{
		dir: dir,
	}, nil
}

// Dir returns the resolved output directory.
func (s *Storage) Dir() string {
	return s.dir
}

// Path returns the full path of name inside the output directory.
func (s *Storage) Path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(s.dir, name), nil
}

// WriteFile truncates or creates name and streams write into it. The returned path
// is set even when write fails, since a partial file may be left behind.
func (s *Storage) WriteFile(name string, write func(io.Writer) error) (string, error) {
	path, err := s.Path(name)
	if err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return path, fmt.Errorf("creating %s: %w", name, err)
	}

	if err := write(f); err != nil {
		f.Close()
		return path, fmt.Errorf("writing %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return path, fmt.Errorf("closing %s: %w", name, err)
	}
	return path, nil
}

// List returns the names of regular files with the given extension, sorted.
func (s *Storage) List(ext string) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading output directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if ext != "" && !strings.EqualFold(filepath.Ext(e.Name()), ext) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}
