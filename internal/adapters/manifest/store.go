// Package manifest implements ports.ManifestStore on the cache tree.
package manifest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/quarry/internal/adapters/atomicfile"
	"go.trai.ch/quarry/internal/adapters/fetch"
	"go.trai.ch/quarry/internal/core/domain"
	"go.trai.ch/quarry/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// VersionListURL is the published index of all game versions.
	VersionListURL = "https://piston-meta.mojang.com/mc/game/version_manifest.json"

	httpClientTimeout = 30 * time.Second
)

// Store reads manifests from the cache tree, downloading missing ones.
type Store struct {
	layout         domain.Layout
	fetcher        ports.Fetcher
	logger         ports.Logger
	httpClient     *http.Client
	versionListURL string

	mu   sync.Mutex
	list *domain.VersionList
}

// Option configures a Store.
type Option func(*Store)

// WithHTTPClient replaces the client used for the version list.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Store) {
		s.httpClient = c
	}
}

// WithVersionListURL replaces the version list endpoint.
func WithVersionListURL(url string) Option {
	return func(s *Store) {
		s.versionListURL = url
	}
}

// NewStore creates a Store rooted at layout.
func NewStore(layout domain.Layout, fetcher ports.Fetcher, logger ports.Logger, opts ...Option) *Store {
	s := &Store{
		layout:         layout,
		fetcher:        fetcher,
		logger:         logger,
		httpClient:     &http.Client{Timeout: httpClientTimeout},
		versionListURL: VersionListURL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve returns the manifest of d merged with its inheritsFrom ancestors.
func (s *Store) Resolve(ctx context.Context, d domain.VersionDescriptor) (*domain.Manifest, error) {
	merged, owner, err := s.resolveRaw(ctx, d, map[string]bool{})
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(merged)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrManifestParseFailed.Error())
	}
	var m domain.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Join(domain.ErrManifestParseFailed, zerr.With(zerr.Wrap(err, "decode merged manifest"), "version", d.ID))
	}
	if m.ID == "" {
		m.ID = d.ID
	}
	m.ClientOwner = owner
	return &m, nil
}

// resolveRaw loads the document of d and merges it over its parent chain.
// It returns the merged document and the id of the manifest declaring the client jar.
func (s *Store) resolveRaw(ctx context.Context, d domain.VersionDescriptor, seen map[string]bool) (document, string, error) {
	seen[d.ID] = true

	doc, err := s.load(ctx, d)
	if err != nil {
		return nil, "", err
	}

	owner := ""
	if doc.declaresClient() {
		owner = d.ID
	}

	parentID := doc.inheritsFrom()
	if parentID == "" {
		return doc, owner, nil
	}
	if seen[parentID] {
		return nil, "", zerr.With(domain.With(domain.ErrParentVersionNotFound, "version", parentID), "reason", "inheritance cycle")
	}

	parent, err := s.parentDescriptor(ctx, parentID)
	if err != nil {
		return nil, "", err
	}
	parentDoc, parentOwner, err := s.resolveRaw(ctx, parent, seen)
	if err != nil {
		if errors.Is(err, domain.ErrManifestUnavailable) {
			return nil, "", errors.Join(domain.ErrParentVersionNotFound, err)
		}
		return nil, "", err
	}

	if owner == "" {
		owner = parentOwner
	}
	return merge(doc, parentDoc), owner, nil
}

func (s *Store) parentDescriptor(ctx context.Context, id string) (domain.VersionDescriptor, error) {
	if fileExists(s.layout.VersionJSON(id)) {
		return domain.VersionDescriptor{ID: id, Kind: domain.KindRelease}, nil
	}

	list, err := s.Versions(ctx)
	if err != nil {
		return domain.VersionDescriptor{}, errors.Join(domain.ErrParentVersionNotFound, err)
	}
	parent, ok := list.Find(id)
	if !ok {
		return domain.VersionDescriptor{}, zerr.With(domain.With(domain.ErrParentVersionNotFound, "version", id), "reason", "not published")
	}
	return parent, nil
}

// load reads the cached document of d, downloading it from d.SourceURL when missing.
func (s *Store) load(ctx context.Context, d domain.VersionDescriptor) (document, error) {
	path := s.layout.ManifestPath(d)
	if !fileExists(path) {
		if d.SourceURL == "" {
			return nil, zerr.With(domain.With(domain.ErrManifestUnavailable, "version", d.ID), "reason", "not cached and no source")
		}
		if err := s.fetcher.Download(ctx, d.SourceURL, path); err != nil {
			return nil, errors.Join(domain.ErrManifestUnavailable, err)
		}
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is derived from the cache layout
	if err != nil {
		return nil, errors.Join(domain.ErrManifestUnavailable, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Join(domain.ErrManifestParseFailed, zerr.With(zerr.Wrap(err, "decode manifest"), "path", path))
	}
	return doc, nil
}

// Describe returns the descriptor for id, preferring installed copies.
func (s *Store) Describe(ctx context.Context, id string) (domain.VersionDescriptor, error) {
	if fileExists(s.layout.ModpackJSON(id)) {
		return domain.VersionDescriptor{ID: id, Kind: domain.KindModpack}, nil
	}
	if path := s.layout.VersionJSON(id); fileExists(path) {
		return domain.VersionDescriptor{ID: id, Kind: s.cachedKind(path)}, nil
	}

	list, err := s.Versions(ctx)
	if err != nil {
		return domain.VersionDescriptor{}, errors.Join(domain.ErrVersionNotFound, err)
	}
	d, ok := list.Find(id)
	if !ok {
		return domain.VersionDescriptor{}, domain.With(domain.ErrVersionNotFound, "version", id)
	}
	return d, nil
}

func (s *Store) cachedKind(path string) domain.VersionKind {
	data, err := os.ReadFile(path) //nolint:gosec // path is derived from the cache layout
	if err != nil {
		return domain.KindRelease
	}
	var head struct {
		Type domain.VersionKind `json:"type"`
	}
	if json.Unmarshal(data, &head) != nil || head.Type == "" {
		return domain.KindRelease
	}
	return head.Type
}

// Versions returns the version list. A fresh copy is fetched once per Store;
// when the endpoint is unreachable the cached copy is used.
func (s *Store) Versions(ctx context.Context) (*domain.VersionList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.list != nil {
		return s.list, nil
	}

	cachePath := s.cachePath(s.versionListURL)
	data, err := s.get(ctx, s.versionListURL)
	if err != nil {
		cached, readErr := os.ReadFile(cachePath) //nolint:gosec // path is derived from the cache layout
		if readErr != nil {
			return nil, errors.Join(domain.ErrVersionListUnavailable, err)
		}
		s.logger.Warn("version list unreachable, using cached copy")
		data = cached
	} else if writeErr := atomicfile.Write(cachePath, data, domain.FilePerm); writeErr != nil {
		s.logger.Warn(fmt.Sprintf("could not cache version list: %v", writeErr))
	}

	var list domain.VersionList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, errors.Join(domain.ErrVersionListUnavailable, zerr.Wrap(err, "decode version list"))
	}
	s.list = &list
	return s.list, nil
}

// Installed lists versions and modpacks whose terminal files exist.
func (s *Store) Installed() ([]domain.VersionDescriptor, error) {
	var out []domain.VersionDescriptor

	versions, err := readDirNames(s.layout.VersionsDir())
	if err != nil {
		return nil, err
	}
	for _, id := range versions {
		if fileExists(s.layout.VersionJSON(id)) && fileExists(s.layout.VersionJar(id)) {
			out = append(out, domain.VersionDescriptor{ID: id, Kind: s.cachedKind(s.layout.VersionJSON(id))})
		}
	}

	packs, err := readDirNames(s.layout.ModpacksDir())
	if err != nil {
		return nil, err
	}
	for _, id := range packs {
		if fileExists(s.layout.ModpackJSON(id)) {
			out = append(out, domain.VersionDescriptor{ID: id, Kind: domain.KindModpack})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrDownloadFailed.Error())
	}
	req.Header.Set("User-Agent", fetch.UserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrDownloadFailed.Error()), "url", url)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.DownloadError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrDownloadFailed.Error()), "url", url)
	}
	return body, nil
}

// cachePath names the cache file of a remote index by the hash of its URL.
func (s *Store) cachePath(url string) string {
	return filepath.Join(s.layout.CacheDir(), strconv.FormatUint(xxhash.Sum64String(url), 16)+".json")
}

func readDirNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "path", dir)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
