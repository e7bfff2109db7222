package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Staging is the local temp area where processed media is written before
// upload. Every file it hands out must be released with Remove.
type Staging struct {
	rootAbs string
}

func NewStaging(root string) (*Staging, error) {
	if strings.TrimSpace(root) == "" {
		root = filepath.Join(os.TempDir(), "social-uploads")
	}

	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve staging root: %w", err)
	}

	if err := os.MkdirAll(rootAbs, 0o700); err != nil {
		return nil, fmt.Errorf("create staging root: %w", err)
	}

	return &Staging{rootAbs: rootAbs}, nil
}

func (s *Staging) RootAbs() string {
	return s.rootAbs
}

// Create opens a new uniquely named file in the staging area.
func (s *Staging) Create(ext string) (*os.File, error) {
	file, err := os.CreateTemp(s.rootAbs, "media-*"+ext)
	if err != nil {
		return nil, fmt.Errorf("create staged file: %w", err)
	}
	return file, nil
}

// Remove deletes a staged file. Paths outside the staging root are refused.
func (s *Staging) Remove(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve staged file: %w", err)
	}
	if !isWithinRoot(s.rootAbs, abs) || abs == s.rootAbs {
		return fmt.Errorf("refusing to remove %q outside staging root", path)
	}

	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove staged file: %w", err)
	}
	return nil
}

func isWithinRoot(rootAbs string, candidateAbs string) bool {
	if candidateAbs == rootAbs {
		return true
	}

	rootWithSeparator := rootAbs + string(filepath.Separator)
	return strings.HasPrefix(candidateAbs, rootWithSeparator)
}
