// Package fetcher retrieves quiz documents over HTTP with an ordered fallback
// chain. GitHub Pages serves folder names case-sensitively and Git LFS can
// replace file bodies with pointer stubs, so a single URL is never trusted:
// candidates are probed in order and the first real payload wins.
package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"veda-quiz/internal/logger"

	"go.uber.org/zap"
)

// lfsPointerPrefix opens every Git LFS pointer file. A body starting with it
// is a stub, not the document.
var lfsPointerPrefix = []byte("version https://git-lfs.github.com/spec")

// IsLFSPointer reports whether data is a Git LFS pointer stub rather than
// real file content.
func IsLFSPointer(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimSpace(data), lfsPointerPrefix)
}

// HTTPFetcher implements domain.DocumentFetcher by probing candidate URLs
// built from the configured base URLs and folder-name variants.
type HTTPFetcher struct {
	client  *http.Client
	bases   []string
	folders []string
}

// New creates an HTTPFetcher. A nil client gets a default with a sane
// timeout.
func New(client *http.Client, bases, folders []string) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &HTTPFetcher{client: client, bases: bases, folders: folders}
}

// Fetch tries every candidate URL for name in order and returns the first
// non-empty, non-pointer payload. Only exhaustion of the whole chain is an
// error.
func (f *HTTPFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	candidates := f.candidates(name)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no candidate URLs configured for %s", name)
	}

	var lastErr error
	for _, u := range candidates {
		data, err := f.fetchOne(ctx, u)
		if err != nil {
			logger.Get().Debug("document candidate failed",
				zap.String("url", u),
				zap.Error(err),
			)
			lastErr = err
			continue
		}
		return data, nil
	}
	return nil, fmt.Errorf("all %d candidates failed for %s: %w", len(candidates), name, lastErr)
}

func (f *HTTPFetcher) candidates(name string) []string {
	escaped := url.PathEscape(name)
	out := make([]string, 0, len(f.bases)*len(f.folders))
	for _, base := range f.bases {
		base = strings.TrimRight(base, "/")
		for _, folder := range f.folders {
			out = append(out, base+"/"+strings.Trim(folder, "/")+"/"+escaped)
		}
	}
	return out
}

func (f *HTTPFetcher) fetchOne(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty body")
	}
	if IsLFSPointer(data) {
		return nil, fmt.Errorf("body is a git-lfs pointer stub")
	}
	return data, nil
}
