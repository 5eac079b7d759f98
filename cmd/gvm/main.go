package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/frederic-klein/gvm/internal/config"
	"github.com/frederic-klein/gvm/internal/engine"
	"github.com/frederic-klein/gvm/internal/install"
	"github.com/frederic-klein/gvm/internal/sdk"
	"github.com/frederic-klein/gvm/internal/version"
)

// listAllLimit caps how many catalog entries list-all prints.
const listAllLimit = 30

var (
	bold  = color.New(color.Bold)
	green = color.New(color.FgGreen)
	cyan  = color.New(color.FgCyan)
	dim   = color.New(color.Faint)
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "gvm",
		Short:        "Manage multiple Go toolchain versions",
		Long:         "gvm installs Go toolchains through the golang.org/dl wrappers and switches the active one via the go symlink.",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List installed Go versions",
			Args:  cobra.NoArgs,
			RunE:  runList,
		},
		&cobra.Command{
			Use:   "list-all",
			Short: "List Go versions available upstream",
			Args:  cobra.NoArgs,
			RunE:  runListAll,
		},
		&cobra.Command{
			Use:   "install <version>",
			Short: "Install a Go version",
			Args:  cobra.ExactArgs(1),
			RunE:  runInstall,
		},
		&cobra.Command{
			Use:   "use <version>",
			Short: "Switch the active Go version",
			Args:  cobra.ExactArgs(1),
			RunE:  runUse,
		},
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newEngine() (*engine.Engine, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, config.Config{}, err
	}
	return engine.New(cfg, os.Stdout, os.Stderr), cfg, nil
}

func runList(cmd *cobra.Command, args []string) error {
	eng, _, err := newEngine()
	if err != nil {
		return err
	}
	snap, err := eng.List()
	if err != nil {
		return err
	}

	if len(snap.Installed) == 0 && !snap.ActiveUnresolved() {
		color.Yellow("No Go versions installed.")
		fmt.Printf("Use %s to install a version.\n", green.Sprint("gvm install <version>"))
		return nil
	}

	bold.Println("Installed Go versions:")
	for _, inst := range snap.Installed {
		if snap.Active != nil && version.Compare(inst.Version, snap.Active.Version) == 0 {
			fmt.Printf("  %s %s %s\n", green.Sprint("->"), green.Sprint(inst.Version), dim.Sprint("(current)"))
		} else {
			fmt.Printf("     %s\n", inst.Version)
		}
	}
	if snap.ActiveUnresolved() {
		name := strings.TrimPrefix(snap.ActiveTarget, "go")
		fmt.Printf("  %s %s %s\n", green.Sprint("->"), name, dim.Sprint("(current, missing from bin dir)"))
	}
	return nil
}

func runListAll(cmd *cobra.Command, args []string) error {
	eng, _, err := newEngine()
	if err != nil {
		return err
	}

	dim.Println("Fetching available Go versions...")
	entries, err := eng.ListAll(cmd.Context())
	if err != nil {
		return err
	}
	snap, err := eng.List()
	if err != nil {
		return err
	}

	shown := entries
	if len(shown) > listAllLimit {
		shown = shown[len(shown)-listAllLimit:]
	}

	bold.Println("Available Go versions:")
	dim.Println("(stable versions marked with *, installed versions marked with ✓)")
	fmt.Println()
	for _, entry := range shown {
		installMarker := " "
		if _, ok := snap.Find(entry.Version); ok {
			installMarker = green.Sprint("✓")
		}
		if entry.Stable {
			fmt.Printf("  %s %s %s\n", installMarker, cyan.Sprint("*"), cyan.Sprint(entry.Version))
		} else {
			fmt.Printf("  %s   %s\n", installMarker, entry.Version)
		}
	}
	fmt.Println()
	dim.Printf("Showing latest %d of %d versions.\n", len(shown), len(entries))
	return nil
}

func runInstall(cmd *cobra.Command, args []string) error {
	ver, err := version.Parse(args[0])
	if err != nil {
		return err
	}
	eng, _, err := newEngine()
	if err != nil {
		return err
	}

	bold.Printf("Installing Go version: %s\n", green.Sprint(ver))
	res, err := eng.Install(cmd.Context(), ver)
	if err != nil {
		var dlErr *install.DownloadError
		if errors.As(err, &dlErr) {
			fmt.Fprintln(os.Stderr, dim.Sprint("The wrapper package is in place; re-run the install to retry the download."))
		}
		return err
	}

	if res.Reused {
		fmt.Printf("%s Go %s is already installed.\n", green.Sprint("✓"), green.Sprint(ver))
	} else {
		fmt.Printf("%s Go %s installed successfully!\n", green.Sprint("✓"), green.Sprint(ver))
	}
	fmt.Printf("Use %s to switch to this version.\n", cyan.Sprintf("gvm use %s", ver))
	return nil
}

func runUse(cmd *cobra.Command, args []string) error {
	ver, err := version.Parse(args[0])
	if err != nil {
		return err
	}
	eng, cfg, err := newEngine()
	if err != nil {
		return err
	}

	if _, err := eng.Use(ver); err != nil {
		if errors.Is(err, sdk.ErrNotInstalled) {
			fmt.Fprintf(os.Stderr, "Run %s to install it first.\n", cyan.Sprintf("gvm install %s", ver))
		}
		if errors.Is(err, os.ErrPermission) {
			fmt.Fprintf(os.Stderr, "The bin directory %s is not writable.\n", cfg.BinDir)
		}
		return err
	}

	fmt.Printf("%s Now using Go %s\n", green.Sprint("✓"), green.Sprint(ver))
	echoActiveVersion(cfg.BinDir)
	return nil
}

// echoActiveVersion runs `go version` through the fresh pointer as a
// sanity check. Best effort only; the switch already succeeded.
func echoActiveVersion(binDir string) {
	out, err := exec.Command(filepath.Join(binDir, sdk.PointerName), "version").Output()
	if err != nil {
		return
	}
	dim.Println(strings.TrimSpace(string(out)))
}
