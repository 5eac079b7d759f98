package install

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/frederic-klein/gvm/internal/sdk"
	"github.com/frederic-klein/gvm/internal/version"
)

// fakeAcquirer counts step invocations and injects failures. On a
// successful download it drops the wrapper binary into binDir, the way
// the real mechanism does.
type fakeAcquirer struct {
	binDir       string
	fetchErr     error
	downloadErr  error
	fetchCalls   int
	downloadCall int
	// writeOnDownload controls whether a successful download actually
	// materializes the binary; false simulates a lying mechanism.
	writeOnDownload bool
}

func (f *fakeAcquirer) FetchPackage(ctx context.Context, v version.Version) error {
	f.fetchCalls++
	return f.fetchErr
}

func (f *fakeAcquirer) DownloadPayload(ctx context.Context, v version.Version) error {
	f.downloadCall++
	if f.downloadErr != nil {
		return f.downloadErr
	}
	if f.writeOnDownload {
		path := filepath.Join(f.binDir, v.DistName())
		if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0755); err != nil {
			return err
		}
	}
	return nil
}

func mustParse(t *testing.T, s string) version.Version {
	t.Helper()
	v, err := version.Parse(s)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestOrchestrator_Install(t *testing.T) {
	dir := t.TempDir()
	acq := &fakeAcquirer{binDir: dir, writeOnDownload: true}
	o := NewOrchestrator(sdk.NewScanner(dir), acq)

	res, err := o.Install(context.Background(), mustParse(t, "1.22.11"))
	if err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	if res.Reused {
		t.Error("Reused = true on a fresh install")
	}
	if res.Installed.Version.String() != "1.22.11" {
		t.Errorf("installed %s, want 1.22.11", res.Installed.Version)
	}
	if acq.fetchCalls != 1 || acq.downloadCall != 1 {
		t.Errorf("fetch=%d download=%d, want 1 and 1", acq.fetchCalls, acq.downloadCall)
	}
}

func TestOrchestrator_Install_Idempotent(t *testing.T) {
	dir := t.TempDir()
	acq := &fakeAcquirer{binDir: dir, writeOnDownload: true}
	o := NewOrchestrator(sdk.NewScanner(dir), acq)

	first, err := o.Install(context.Background(), mustParse(t, "1.22.11"))
	if err != nil {
		t.Fatal(err)
	}

	second, err := o.Install(context.Background(), mustParse(t, "1.22.11"))
	if err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	if !second.Reused {
		t.Error("Reused = false on the second install")
	}
	if second.Installed != first.Installed {
		t.Errorf("second install = %+v, want %+v", second.Installed, first.Installed)
	}
	// The second call performs zero acquisition steps.
	if acq.fetchCalls != 1 || acq.downloadCall != 1 {
		t.Errorf("fetch=%d download=%d after second install, want 1 and 1", acq.fetchCalls, acq.downloadCall)
	}
}

func TestOrchestrator_Install_FetchFails(t *testing.T) {
	dir := t.TempDir()
	acq := &fakeAcquirer{binDir: dir, fetchErr: errors.New("no network")}
	o := NewOrchestrator(sdk.NewScanner(dir), acq)

	_, err := o.Install(context.Background(), mustParse(t, "1.22.11"))
	var acqErr *AcquireError
	if !errors.As(err, &acqErr) {
		t.Fatalf("Install() error = %v, want *AcquireError", err)
	}
	if acqErr.Version != "1.22.11" {
		t.Errorf("Version = %q, want 1.22.11", acqErr.Version)
	}
	// Step two must not have run.
	if acq.downloadCall != 0 {
		t.Errorf("downloadCall = %d, want 0", acq.downloadCall)
	}
}

func TestOrchestrator_Install_DownloadFailsThenRetrySucceeds(t *testing.T) {
	dir := t.TempDir()
	acq := &fakeAcquirer{binDir: dir, downloadErr: errors.New("connection reset"), writeOnDownload: true}
	o := NewOrchestrator(sdk.NewScanner(dir), acq)

	_, err := o.Install(context.Background(), mustParse(t, "1.22.11"))
	var dlErr *DownloadError
	if !errors.As(err, &dlErr) {
		t.Fatalf("Install() error = %v, want *DownloadError", err)
	}

	// The caller retries; the orchestrator re-enters at the scan and
	// redoes both steps against the persisted partial state.
	acq.downloadErr = nil
	res, err := o.Install(context.Background(), mustParse(t, "1.22.11"))
	if err != nil {
		t.Fatalf("retried Install() error = %v", err)
	}
	if res.Installed.Version.String() != "1.22.11" {
		t.Errorf("installed %s, want 1.22.11", res.Installed.Version)
	}
}

func TestOrchestrator_Install_VerifyFails(t *testing.T) {
	dir := t.TempDir()
	// Acquirer reports success for both steps but writes nothing.
	acq := &fakeAcquirer{binDir: dir}
	o := NewOrchestrator(sdk.NewScanner(dir), acq)

	_, err := o.Install(context.Background(), mustParse(t, "1.22.11"))
	var verErr *VerifyError
	if !errors.As(err, &verErr) {
		t.Fatalf("Install() error = %v, want *VerifyError", err)
	}
}
