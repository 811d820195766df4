// Package fsstore provides whole-file text access for the version
// propagator. Files are read and written in one piece; there is no
// streaming and no locking.
package fsstore

import (
	"errors"
	"fmt"
	"os"
	"sync"
)

// Store reads and writes whole text files.
type Store interface {
	// Read returns the full content of path. It fails if path does not
	// exist or cannot be read.
	Read(path string) (string, error)

	// Write replaces the content of path. It fails if path cannot be written.
	Write(path, content string) error
}

// OS is the Store backed by the local filesystem.
type OS struct{}

// NewOS creates a filesystem-backed Store.
func NewOS() *OS {
	return &OS{}
}

// Read returns the contents of path.
func (s *OS) Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// Write replaces the contents of path, keeping the file's existing
// permission bits. New files are created with mode 0644.
func (s *OS) Write(path, content string) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Memory is an in-memory Store. It is useful for tests and dry runs.
type Memory struct {
	mu     sync.Mutex
	files  map[string]string
	writes []string
}

// NewMemory creates a Memory store seeded with files (path → content).
func NewMemory(files map[string]string) *Memory {
	m := &Memory{files: make(map[string]string, len(files))}
	for path, content := range files {
		m.files[path] = content
	}
	return m
}

// Read returns the stored content for path.
func (m *Memory) Read(path string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	content, ok := m.files[path]
	if !ok {
		return "", fmt.Errorf("failed to read %s: %w", path, os.ErrNotExist)
	}
	return content, nil
}

// Write stores content for path and records the write.
func (m *Memory) Write(path, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.files[path] = content
	m.writes = append(m.writes, path)
	return nil
}

// Content returns the stored content and whether path exists.
func (m *Memory) Content(path string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	content, ok := m.files[path]
	return content, ok
}

// Writes returns the paths written so far, in order.
func (m *Memory) Writes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, len(m.writes))
	copy(out, m.writes)
	return out
}
