package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrTooLarge is returned by SaveStream when the stream exceeds the size limit.
var ErrTooLarge = errors.New("file exceeds size limit")

// LocalStorage keeps uploaded assets and rendered briefs under a base directory. Names are relative
// to the base directory and may not escape it.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage ensures the base directory exists and returns a handle.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("storage directory is required")
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolve storage directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &LocalStorage{baseDir: abs}, nil
}

// Save writes data to name.
func (s *LocalStorage) Save(name string, data []byte) (string, error) {
	path, err := s.prepare(name)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return name, nil
}

// SaveStream copies r into name, stopping with ErrTooLarge once more than maxBytes were read. A
// non-positive maxBytes disables the limit. The partial file is removed on failure.
func (s *LocalStorage) SaveStream(name string, r io.Reader, maxBytes int64) (int64, error) {
	path, err := s.prepare(name)
	if err != nil {
		return 0, err
	}
	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", name, err)
	}

	src := r
	if maxBytes > 0 {
		src = io.LimitReader(r, maxBytes+1)
	}
	written, copyErr := io.Copy(file, src)
	closeErr := file.Close()
	switch {
	case copyErr != nil:
		_ = os.Remove(path)
		return 0, fmt.Errorf("write %s: %w", name, copyErr)
	case maxBytes > 0 && written > maxBytes:
		_ = os.Remove(path)
		return 0, ErrTooLarge
	case closeErr != nil:
		_ = os.Remove(path)
		return 0, fmt.Errorf("close %s: %w", name, closeErr)
	}
	return written, nil
}

// Open returns a read-only handle for a stored file.
func (s *LocalStorage) Open(name string) (*os.File, error) {
	path, err := s.resolve(name)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return file, nil
}

// Delete removes a stored file if present.
func (s *LocalStorage) Delete(name string) error {
	path, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	return nil
}

func (s *LocalStorage) prepare(name string) (string, error) {
	path, err := s.resolve(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("prepare directory for %s: %w", name, err)
	}
	return path, nil
}

func (s *LocalStorage) resolve(name string) (string, error) {
	if name == "" || filepath.IsAbs(name) {
		return "", fmt.Errorf("invalid storage name %q", name)
	}
	path := filepath.Join(s.baseDir, filepath.Clean(name))
	if path != s.baseDir && !strings.HasPrefix(path, s.baseDir+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage name %q escapes base directory", name)
	}
	return path, nil
}
