package sdk

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/frederic-klein/gvm/internal/version"
)

// Scanner enumerates the toolchains installed in a bin directory.
// It is read-only and rebuilds its view from the filesystem on every call.
type Scanner struct {
	binDir string
}

// NewScanner creates a scanner over binDir.
func NewScanner(binDir string) *Scanner {
	return &Scanner{binDir: binDir}
}

// BinDir returns the directory being scanned.
func (s *Scanner) BinDir() string {
	return s.binDir
}

// Scan enumerates binDir and resolves the active pointer. Entries that
// do not follow the go<version> naming convention are not toolchain
// wrappers and are skipped. A missing directory yields an empty snapshot.
func (s *Scanner) Scan() (Snapshot, error) {
	entries, err := os.ReadDir(s.binDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Snapshot{}, nil
		}
		return Snapshot{}, fmt.Errorf("reading %s: %w", s.binDir, err)
	}

	var installed []Installed
	for _, entry := range entries {
		name := entry.Name()
		if name == PointerName || !strings.HasPrefix(name, "go") {
			continue
		}
		v, err := version.Parse(name)
		if err != nil {
			continue
		}
		installed = append(installed, Installed{
			Version:    v,
			BinaryPath: filepath.Join(s.binDir, name),
		})
	}

	sort.Slice(installed, func(i, j int) bool {
		return version.Compare(installed[i].Version, installed[j].Version) < 0
	})

	snap := Snapshot{Installed: installed}

	target, err := os.Readlink(filepath.Join(s.binDir, PointerName))
	if err != nil {
		// No pointer, or not a symlink: nothing is active.
		return snap, nil
	}
	snap.ActiveTarget = filepath.Base(target)
	for i := range installed {
		if filepath.Base(installed[i].BinaryPath) == snap.ActiveTarget {
			snap.Active = &installed[i]
			break
		}
	}
	return snap, nil
}
