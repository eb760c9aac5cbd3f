package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/natefinch/atomic"
)

// File permission constants
const (
	// FileModeDir is the permission for directories (rwxr-xr-x)
	FileModeDir os.FileMode = 0755
	// FileModeFile is the permission for data files (rw-r--r--)
	FileModeFile os.FileMode = 0644
)

// FileKV stores all keys in a single JSON document. Every write replaces the
// document atomically and is serialized across processes with a Lock.
type FileKV struct {
	path   string
	mu     sync.Mutex
	closed bool
}

// NewFileKV opens the store at path, creating its directory if needed.
func NewFileKV(path string) (*FileKV, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("file storage: path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), FileModeDir); err != nil {
		return nil, fmt.Errorf("file storage: create directory: %w", err)
	}
	return &FileKV{path: path}, nil
}

// Path returns the location of the backing file.
func (f *FileKV) Path() string {
	return f.path
}

// Get returns the value for key.
func (f *FileKV) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return "", false, ErrClosed
	}
	data, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := data[key]
	return v, ok, nil
}

// Set stores value under key.
func (f *FileKV) Set(key, value string) error {
	return f.update(func(data map[string]string) { data[key] = value })
}

// Delete removes key.
func (f *FileKV) Delete(key string) error {
	return f.update(func(data map[string]string) { delete(data, key) })
}

// Close marks the store closed. The backing file is left in place.
func (f *FileKV) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *FileKV) update(mutate func(map[string]string)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	return WithLock(f.path+".lock", func() error {
		data, err := f.read()
		if err != nil {
			return err
		}
		mutate(data)
		payload, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return fmt.Errorf("file storage: encode: %w", err)
		}
		if err := atomic.WriteFile(f.path, bytes.NewReader(payload)); err != nil {
			return fmt.Errorf("file storage: write %s: %w", f.path, err)
		}
		return nil
	})
}

// read loads the document. A missing file is an empty store; a file that is
// not a JSON object is an error.
func (f *FileKV) read() (map[string]string, error) {
	raw, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file storage: read %s: %w", f.path, err)
	}
	data := map[string]string{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("file storage: decode %s: %w", f.path, err)
	}
	if data == nil {
		// A literal null document.
		data = map[string]string{}
	}
	return data, nil
}
