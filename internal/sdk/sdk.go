// Package sdk manages the directory of installed Go toolchains and the
// symlink that selects the active one.
package sdk

import (
	"errors"
	"fmt"

	"github.com/frederic-klein/gvm/internal/version"
)

// PointerName is the fixed name of the active-version symlink inside the
// bin directory. It shadows the real go binary on PATH.
const PointerName = "go"

// ErrNotInstalled reports a switch to a version absent from the bin dir.
var ErrNotInstalled = errors.New("version not installed")

// Installed is a toolchain wrapper binary present in the bin directory.
type Installed struct {
	Version    version.Version
	BinaryPath string
}

// Snapshot is the result of one scan of the bin directory. It is never
// cached; every operation that needs the installed set takes a fresh one.
type Snapshot struct {
	// Installed is sorted ascending by version.
	Installed []Installed
	// Active is the installed toolchain the pointer resolves to, or nil
	// when there is no pointer or its target is not among Installed.
	Active *Installed
	// ActiveTarget is the base name of the pointer's target, "" when no
	// pointer exists. A non-empty ActiveTarget with a nil Active means
	// the pointer dangles at a toolchain that is no longer present.
	ActiveTarget string
}

// Find returns the installed toolchain matching v.
func (s Snapshot) Find(v version.Version) (Installed, bool) {
	for _, inst := range s.Installed {
		if version.Compare(inst.Version, v) == 0 {
			return inst, true
		}
	}
	return Installed{}, false
}

// ActiveUnresolved reports whether the pointer exists but its target is
// not among the scanned toolchains.
func (s Snapshot) ActiveUnresolved() bool {
	return s.ActiveTarget != "" && s.Active == nil
}

// SwitchError wraps a filesystem failure while replacing the pointer.
// Permission problems remain reachable through errors.Is(err, fs.ErrPermission).
type SwitchError struct {
	Version string
	Err     error
}

func (e *SwitchError) Error() string {
	return fmt.Sprintf("switching to %s: %v", e.Version, e.Err)
}

func (e *SwitchError) Unwrap() error { return e.Err }
