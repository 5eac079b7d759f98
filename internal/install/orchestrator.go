// Package install drives the two-phase toolchain install sequence.
package install

import (
	"context"
	"fmt"

	"github.com/frederic-klein/gvm/internal/sdk"
	"github.com/frederic-klein/gvm/internal/toolchain"
	"github.com/frederic-klein/gvm/internal/version"
)

// AcquireError reports a failure of the wrapper-package fetch step.
// Nothing was downloaded; a retry redoes the whole install.
type AcquireError struct {
	Version string
	Err     error
}

func (e *AcquireError) Error() string {
	return fmt.Sprintf("installing %s: fetching wrapper package: %v", e.Version, e.Err)
}

func (e *AcquireError) Unwrap() error { return e.Err }

// DownloadError reports a failure of the payload download step. The
// wrapper package from the first step persists on disk, so a retried
// install re-enters cheaply.
type DownloadError struct {
	Version string
	Err     error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("installing %s: downloading payload: %v", e.Version, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// VerifyError reports a version that both acquisition steps claimed to
// install but that a rescan of the bin directory could not find.
type VerifyError struct {
	Version string
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("installing %s: acquisition reported success but go%s is not in the bin directory", e.Version, e.Version)
}

// Result is the outcome of a successful install.
type Result struct {
	Installed sdk.Installed
	// Reused is true when the version was already present and no
	// acquisition step ran.
	Reused bool
}

// Orchestrator runs the install state machine. It never retries a
// failed step; callers re-invoke Install, which skips work already done.
type Orchestrator struct {
	scanner  *sdk.Scanner
	acquirer toolchain.Acquirer
}

// NewOrchestrator creates an orchestrator over the given scanner and
// acquisition mechanism.
func NewOrchestrator(scanner *sdk.Scanner, acquirer toolchain.Acquirer) *Orchestrator {
	return &Orchestrator{scanner: scanner, acquirer: acquirer}
}

// Install makes ver present in the bin directory. Already-installed
// versions return immediately with zero side effects. Otherwise the
// wrapper package is fetched, the payload downloaded, and the result
// verified by a fresh scan.
func (o *Orchestrator) Install(ctx context.Context, ver version.Version) (Result, error) {
	snap, err := o.scanner.Scan()
	if err != nil {
		return Result{}, err
	}
	if inst, ok := snap.Find(ver); ok {
		return Result{Installed: inst, Reused: true}, nil
	}

	if err := o.acquirer.FetchPackage(ctx, ver); err != nil {
		return Result{}, &AcquireError{Version: ver.String(), Err: err}
	}
	if err := o.acquirer.DownloadPayload(ctx, ver); err != nil {
		return Result{}, &DownloadError{Version: ver.String(), Err: err}
	}

	snap, err = o.scanner.Scan()
	if err != nil {
		return Result{}, err
	}
	inst, ok := snap.Find(ver)
	if !ok {
		return Result{}, &VerifyError{Version: ver.String()}
	}
	return Result{Installed: inst}, nil
}
