package export

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileSaver stores an exported payload under a file name
type FileSaver interface {
	Save(name string, payload []byte) (string, error)
}

// DirSaver writes exports into a directory
type DirSaver struct {
	Dir string
}

// Save writes payload to Dir/name and returns the written path
func (s DirSaver) Save(name string, payload []byte) (string, error) {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export dir: %w", err)
	}

	path := filepath.Join(dir, filepath.Base(name))
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return path, nil
}

// Save hands payload to saver under the standard file name for f
func Save(saver FileSaver, f Format, payload []byte) (string, error) {
	return saver.Save(f.FileName(), payload)
}
