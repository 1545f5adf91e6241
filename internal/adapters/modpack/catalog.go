package modpack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/quarry/internal/adapters/archive"
	"go.trai.ch/quarry/internal/adapters/fetch"
	"go.trai.ch/quarry/internal/core/domain"
	"go.trai.ch/quarry/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultCatalogMinecraftVersion is assumed for catalog entries that do not
// name a game version.
const DefaultCatalogMinecraftVersion = "1.20.1"

const catalogTimeout = 30 * time.Second

// HTTPDoer sends HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type catalogDocument struct {
	Modpacks []domain.RemoteModpack `json:"modpacks"`
}

type catalogClient struct {
	layout domain.Layout
	logger ports.Logger
	client HTTPDoer
}

func newCatalogClient(layout domain.Layout, logger ports.Logger) *catalogClient {
	return &catalogClient{
		layout: layout,
		logger: logger,
		client: &http.Client{Timeout: catalogTimeout},
	}
}

// Catalog fetches the modpack catalog from the configured repository URL.
// When the repository is unreachable the last cached copy is used.
func (i *Installer) Catalog(ctx context.Context) ([]domain.RemoteModpack, error) {
	url := strings.TrimSpace(i.settings.Settings().RepoURL)
	if url == "" {
		return nil, nil
	}
	return i.catalog.fetch(ctx, strings.ReplaceAll(url, " ", "%20"))
}

func (c *catalogClient) fetch(ctx context.Context, url string) ([]domain.RemoteModpack, error) {
	cachePath := filepath.Join(c.layout.CacheDir(), "catalog-"+strconv.FormatUint(xxhash.Sum64String(url), 16)+".json")

	data, err := c.get(ctx, url)
	fresh := err == nil
	if err != nil {
		cached, readErr := os.ReadFile(cachePath) //nolint:gosec // path is derived from the cache layout
		if readErr != nil {
			return nil, errors.Join(domain.ErrCatalogUnavailable, err)
		}
		c.logger.Warn("modpack catalog unreachable, using cached copy")
		data = cached
	}

	var doc catalogDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Join(domain.ErrCatalogUnavailable, zerr.With(zerr.Wrap(err, "decode catalog"), "url", url))
	}
	if fresh {
		if writeErr := archive.WriteFile(cachePath, bytes.NewReader(data), domain.FilePerm); writeErr != nil {
			c.logger.Warn(fmt.Sprintf("could not cache modpack catalog: %v", writeErr))
		}
	}

	for idx := range doc.Modpacks {
		if doc.Modpacks[idx].MinecraftVersion == "" {
			doc.Modpacks[idx].MinecraftVersion = DefaultCatalogMinecraftVersion
		}
	}
	return doc.Modpacks, nil
}

func (c *catalogClient) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrDownloadFailed.Error()), "url", url)
	}
	req.Header.Set("User-Agent", fetch.UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrDownloadFailed.Error()), "url", url)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.DownloadError{URL: url, StatusCode: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}

// Find returns the catalog entry with the given id.
func Find(packs []domain.RemoteModpack, id string) (domain.RemoteModpack, error) {
	for _, p := range packs {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.RemoteModpack{}, domain.With(domain.ErrModpackNotInCatalog, "modpack", id)
}
