package sdk

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/frederic-klein/gvm/internal/version"
)

// Switcher replaces the active-version pointer. The replacement is a
// symlink created under a temporary name and renamed over the old
// pointer in one step, so concurrent readers never observe a missing or
// half-written pointer.
type Switcher struct {
	binDir  string
	scanner *Scanner
}

// NewSwitcher creates a switcher for binDir.
func NewSwitcher(binDir string) *Switcher {
	return &Switcher{binDir: binDir, scanner: NewScanner(binDir)}
}

// SwitchTo points the active symlink at ver's binary. The version must
// already be installed; switching to the already-active version is a
// no-op success.
func (s *Switcher) SwitchTo(ver version.Version) error {
	snap, err := s.scanner.Scan()
	if err != nil {
		return &SwitchError{Version: ver.String(), Err: err}
	}

	target, ok := snap.Find(ver)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotInstalled, ver)
	}

	if snap.Active != nil && version.Compare(snap.Active.Version, ver) == 0 {
		return nil
	}

	link := filepath.Join(s.binDir, PointerName)
	tmp := link + ".tmp"

	// A stale tmp link from an interrupted earlier run would make the
	// Symlink below fail, so clear it first.
	_ = os.Remove(tmp)

	if err := os.Symlink(target.BinaryPath, tmp); err != nil {
		return &SwitchError{Version: ver.String(), Err: err}
	}
	if err := os.Rename(tmp, link); err != nil {
		_ = os.Remove(tmp)
		return &SwitchError{Version: ver.String(), Err: err}
	}
	return nil
}
