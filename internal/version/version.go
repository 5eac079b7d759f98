// Package version parses and orders Go toolchain version strings.
package version

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ErrMalformed reports a string that does not follow the N.N.N or
// N.N.N-label grammar used by toolchain releases.
var ErrMalformed = errors.New("malformed version")

var versionPattern = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)(?:-([a-zA-Z0-9]+))?$`)

// Version is a parsed toolchain version such as 1.22.0 or 1.22.0-rc1.
// The zero value is not a valid version; construct one via Parse.
type Version struct {
	Major uint64
	Minor uint64
	Patch uint64
	Pre   string // prerelease label without the leading dash, "" for stable
}

// Parse parses a toolchain version string. A leading "go" prefix is
// accepted and stripped, so "go1.22.0" and "1.22.0" are equivalent.
func Parse(s string) (Version, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(s), "go")
	m := versionPattern.FindStringSubmatch(trimmed)
	if m == nil {
		return Version{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}

	major, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	minor, err := strconv.ParseUint(m[2], 10, 64)
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	patch, err := strconv.ParseUint(m[3], 10, 64)
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}

	return Version{Major: major, Minor: minor, Patch: patch, Pre: m[4]}, nil
}

// String renders the version without the "go" prefix, e.g. "1.22.0-rc1".
func (v Version) String() string {
	if v.Pre != "" {
		return fmt.Sprintf("%d.%d.%d-%s", v.Major, v.Minor, v.Patch, v.Pre)
	}
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// DistName renders the name used by the golang.org/dl wrappers and the
// binaries they install, e.g. "go1.22.0".
func (v Version) DistName() string {
	return "go" + v.String()
}

// IsPrerelease reports whether the version carries a prerelease label.
func (v Version) IsPrerelease() bool {
	return v.Pre != ""
}

func (v Version) sem() *semver.Version {
	return semver.New(v.Major, v.Minor, v.Patch, v.Pre, "")
}

// Compare returns -1, 0, or 1 when a is less than, equal to, or greater
// than b. A stable release orders after any prerelease of the same
// (major, minor, patch) triple, so 1.22.0 > 1.22.0-rc1.
func Compare(a, b Version) int {
	return a.sem().Compare(b.sem())
}

// Sort orders versions ascending in place.
func Sort(vs []Version) {
	sort.Slice(vs, func(i, j int) bool {
		return Compare(vs[i], vs[j]) < 0
	})
}
