// Package catalog queries the upstream index of announced Go toolchain
// versions.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/frederic-klein/gvm/internal/version"
)

// DefaultIndexURL is the go.dev download index, including unstable releases.
const DefaultIndexURL = "https://go.dev/dl/?mode=json&include=all"

const defaultTimeout = 30 * time.Second

// Entry is one announced toolchain version. Entries are rebuilt from the
// index on every fetch, never persisted.
type Entry struct {
	Version version.Version
	Stable  bool
}

// NetworkError reports a transport failure or a non-success status from
// the index endpoint.
type NetworkError struct {
	URL        string
	StatusCode int // 0 when the request never completed
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching catalog %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching catalog %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError reports an index body that could not be decoded or that
// yielded no valid versions. The upstream index is never legitimately
// empty, so zero entries after filtering is a parse failure.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing catalog %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Fetcher retrieves and parses the remote index.
type Fetcher struct {
	indexURL string
	client   *http.Client
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithIndexURL overrides the index endpoint.
func WithIndexURL(u string) Option {
	return func(f *Fetcher) {
		if u != "" {
			f.indexURL = u
		}
	}
}

// WithHTTPClient overrides the HTTP client, primarily for tests and for
// callers that want a different timeout.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// NewFetcher creates a fetcher against the go.dev index.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		indexURL: DefaultIndexURL,
		client:   &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// release mirrors one element of the index's JSON array.
type release struct {
	Version string `json:"version"`
	Stable  bool   `json:"stable"`
}

// FetchAll performs one query against the index and returns its entries
// sorted ascending. Index entries whose name does not parse as a
// toolchain version are dropped; duplicates are collapsed. An entry is
// unstable when the index says so or when it carries a prerelease label.
func (f *Fetcher) FetchAll(ctx context.Context) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.indexURL, nil)
	if err != nil {
		return nil, &NetworkError{URL: f.indexURL, Err: err}
	}
	req.Header.Set("User-Agent", "gvm")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: f.indexURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &NetworkError{URL: f.indexURL, StatusCode: resp.StatusCode}
	}

	var releases []release
	if err := json.NewDecoder(resp.Body).Decode(&releases); err != nil {
		return nil, &ParseError{URL: f.indexURL, Err: err}
	}

	seen := make(map[string]bool, len(releases))
	entries := make([]Entry, 0, len(releases))
	for _, r := range releases {
		v, err := version.Parse(r.Version)
		if err != nil {
			continue
		}
		if seen[v.String()] {
			continue
		}
		seen[v.String()] = true
		entries = append(entries, Entry{
			Version: v,
			Stable:  r.Stable && !v.IsPrerelease(),
		})
	}

	if len(entries) == 0 {
		return nil, &ParseError{URL: f.indexURL, Err: errors.New("no valid versions in index")}
	}

	sort.Slice(entries, func(i, j int) bool {
		return version.Compare(entries[i].Version, entries[j].Version) < 0
	})
	return entries, nil
}
