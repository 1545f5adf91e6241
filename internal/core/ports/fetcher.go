package ports

import (
	"context"

	"go.trai.ch/quarry/internal/core/domain"
)

// Fetcher downloads remote files into the cache tree.
// A target that already exists is never downloaded again.
//
//go:generate mockgen -source=fetcher.go -destination=mocks/mock_fetcher.go -package=mocks
type Fetcher interface {
	// Download fetches url into target, creating parent directories.
	Download(ctx context.Context, url, target string) error

	// FetchBatch downloads items in fixed-size concurrent batches.
	// Per-item failures are logged and counted, not returned.
	// onProgress may be nil; it is never called concurrently.
	FetchBatch(ctx context.Context, items []domain.FetchItem, onProgress func(done, total int)) (domain.BatchResult, error)
}
