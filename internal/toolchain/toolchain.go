// Package toolchain invokes the golang.org/dl wrapper mechanism that
// materializes a toolchain binary for a requested version.
package toolchain

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"

	"github.com/frederic-klein/gvm/internal/version"
)

// Acquirer is the two-step vendor mechanism behind an install. Step one
// fetches the version's wrapper package, step two downloads the SDK
// payload through it. Both steps are idempotent at the vendor level.
type Acquirer interface {
	FetchPackage(ctx context.Context, v version.Version) error
	DownloadPayload(ctx context.Context, v version.Version) error
}

// ExecAcquirer shells out to the go tool and the installed wrapper
// binaries. Vendor output is forwarded so download progress stays
// visible to the user.
type ExecAcquirer struct {
	binDir string
	stdout io.Writer
	stderr io.Writer
}

var _ Acquirer = (*ExecAcquirer)(nil)

// NewExecAcquirer creates an acquirer whose wrappers land in binDir.
func NewExecAcquirer(binDir string, stdout, stderr io.Writer) *ExecAcquirer {
	return &ExecAcquirer{binDir: binDir, stdout: stdout, stderr: stderr}
}

// FetchPackage runs `go install golang.org/dl/go<v>@latest`.
func (a *ExecAcquirer) FetchPackage(ctx context.Context, v version.Version) error {
	pkg := fmt.Sprintf("golang.org/dl/%s@latest", v.DistName())
	cmd := exec.CommandContext(ctx, "go", "install", pkg)
	cmd.Stdout = a.stdout
	cmd.Stderr = a.stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("go install %s: %w", pkg, err)
	}
	return nil
}

// DownloadPayload runs `go<v> download` through the wrapper that
// FetchPackage installed.
func (a *ExecAcquirer) DownloadPayload(ctx context.Context, v version.Version) error {
	wrapper := filepath.Join(a.binDir, v.DistName())
	cmd := exec.CommandContext(ctx, wrapper, "download")
	cmd.Stdout = a.stdout
	cmd.Stderr = a.stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s download: %w", wrapper, err)
	}
	return nil
}
