// Package fetch implements ports.Fetcher over net/http.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.trai.ch/quarry/internal/build"
	"go.trai.ch/quarry/internal/core/domain"
	"go.trai.ch/quarry/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultBatchSize is the number of downloads running concurrently in one batch.
	DefaultBatchSize = 50
	// DefaultProgressInterval is the number of completions between progress reports.
	DefaultProgressInterval = 10

	httpClientTimeout = 10 * time.Minute
)

// UserAgent is sent with every request.
var UserAgent = "Mozilla/5.0 (compatible; quarry/" + build.Version + "; +https://go.trai.ch/quarry)"

// Fetcher downloads files into the cache tree.
type Fetcher struct {
	httpClient       *http.Client
	logger           ports.Logger
	batchSize        int
	progressInterval int
	requestGroup     singleflight.Group
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.httpClient = c
	}
}

// WithBatchSize sets how many downloads of a batch run concurrently.
func WithBatchSize(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.batchSize = n
		}
	}
}

// WithProgressInterval sets the number of completions between progress reports.
func WithProgressInterval(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.progressInterval = n
		}
	}
}

// New creates a Fetcher.
func New(logger ports.Logger, opts ...Option) *Fetcher {
	f := &Fetcher{
		httpClient:       &http.Client{Timeout: httpClientTimeout},
		logger:           logger,
		batchSize:        DefaultBatchSize,
		progressInterval: DefaultProgressInterval,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Download fetches url into target unless target already exists.
// Concurrent calls for the same target share one request.
func (f *Fetcher) Download(ctx context.Context, url, target string) error {
	if exists(target) {
		return nil
	}

	_, err, _ := f.requestGroup.Do(target, func() (any, error) {
		if exists(target) {
			return nil, nil
		}
		return nil, f.download(ctx, url, target)
	})
	return err
}

func (f *Fetcher) download(ctx context.Context, url, target string) error {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrDownloadFailed.Error()), "path", target)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return requestFailed(url, err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return requestFailed(url, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &domain.DownloadError{URL: url, StatusCode: resp.StatusCode}
	}

	return atomicWrite(target, resp.Body)
}

// FetchBatch downloads items in batches of the configured size.
// Each batch is a barrier: the next starts once every download of the
// current one has finished. Existing targets count as completed.
func (f *Fetcher) FetchBatch(
	ctx context.Context,
	items []domain.FetchItem,
	onProgress func(done, total int),
) (domain.BatchResult, error) {
	var (
		mu   sync.Mutex
		res  domain.BatchResult
		done int
	)
	total := len(items)

	record := func(counter *int) {
		mu.Lock()
		defer mu.Unlock()
		*counter++
		done++
		if onProgress != nil && done%f.progressInterval == 0 && done != total {
			onProgress(done, total)
		}
	}

	for start := 0; start < total; start += f.batchSize {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		end := min(start+f.batchSize, total)
		g, gctx := errgroup.WithContext(ctx)
		for _, item := range items[start:end] {
			g.Go(func() error {
				if exists(item.Target) {
					record(&res.Skipped)
					return nil
				}
				if err := f.Download(gctx, item.URL, item.Target); err != nil {
					if ctxErr := ctx.Err(); ctxErr != nil {
						return ctxErr
					}
					f.logger.Warn(fmt.Sprintf("skipping %s: %v", item.URL, err))
					record(&res.Failed)
					return nil
				}
				record(&res.Downloaded)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return res, err
		}
	}

	if onProgress != nil && total > 0 {
		onProgress(total, total)
	}
	return res, nil
}

func requestFailed(url string, err error) error {
	return errors.Join(domain.ErrDownloadFailed, zerr.With(zerr.Wrap(err, "request failed"), "url", url))
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// atomicWrite streams r into a temp file next to path and renames it into place.
func atomicWrite(path string, r io.Reader) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrDownloadFailed.Error()), "path", path)
	}
	tmpName := tmpFile.Name()

	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := io.Copy(tmpFile, r); err != nil {
		_ = tmpFile.Close()
		return zerr.With(zerr.Wrap(err, domain.ErrDownloadFailed.Error()), "path", path)
	}
	if err := tmpFile.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrDownloadFailed.Error()), "path", path)
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrDownloadFailed.Error()), "path", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrDownloadFailed.Error()), "path", path)
	}
	return nil
}
