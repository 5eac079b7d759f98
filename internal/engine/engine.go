// Package engine composes the version lifecycle operations behind the
// four CLI commands.
package engine

import (
	"context"
	"io"
	"net/http"

	"github.com/frederic-klein/gvm/internal/catalog"
	"github.com/frederic-klein/gvm/internal/config"
	"github.com/frederic-klein/gvm/internal/install"
	"github.com/frederic-klein/gvm/internal/sdk"
	"github.com/frederic-klein/gvm/internal/toolchain"
	"github.com/frederic-klein/gvm/internal/version"
)

// Engine wires the scanner, catalog fetcher, install orchestrator and
// switcher over one bin directory.
type Engine struct {
	Scanner      *sdk.Scanner
	Fetcher      *catalog.Fetcher
	Orchestrator *install.Orchestrator
	Switcher     *sdk.Switcher
}

// New builds an engine from cfg. Acquisition output is forwarded to
// stdout and stderr.
func New(cfg config.Config, stdout, stderr io.Writer) *Engine {
	scanner := sdk.NewScanner(cfg.BinDir)
	return &Engine{
		Scanner: scanner,
		Fetcher: catalog.NewFetcher(
			catalog.WithIndexURL(cfg.IndexURL),
			catalog.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		),
		Orchestrator: install.NewOrchestrator(scanner, toolchain.NewExecAcquirer(cfg.BinDir, stdout, stderr)),
		Switcher:     sdk.NewSwitcher(cfg.BinDir),
	}
}

// List returns the installed versions and the active pointer state.
func (e *Engine) List() (sdk.Snapshot, error) {
	return e.Scanner.Scan()
}

// ListAll returns the remote catalog, ascending.
func (e *Engine) ListAll(ctx context.Context) ([]catalog.Entry, error) {
	return e.Fetcher.FetchAll(ctx)
}

// Install runs the two-phase install for ver.
func (e *Engine) Install(ctx context.Context, ver version.Version) (install.Result, error) {
	return e.Orchestrator.Install(ctx, ver)
}

// Use switches the active pointer to ver and returns the now-active
// toolchain from a fresh scan.
func (e *Engine) Use(ver version.Version) (sdk.Installed, error) {
	if err := e.Switcher.SwitchTo(ver); err != nil {
		return sdk.Installed{}, err
	}
	snap, err := e.Scanner.Scan()
	if err != nil {
		return sdk.Installed{}, err
	}
	if snap.Active != nil {
		return *snap.Active, nil
	}
	// A concurrent process may have moved the pointer between the
	// switch and the rescan; report the version we just installed it for.
	inst, _ := snap.Find(ver)
	return inst, nil
}
