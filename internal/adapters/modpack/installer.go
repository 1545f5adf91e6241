package modpack

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.trai.ch/quarry/internal/adapters/archive"
	"go.trai.ch/quarry/internal/core/domain"
	"go.trai.ch/quarry/internal/core/ports"
	"go.trai.ch/zerr"
)

// Install stages reported on the status channel.
const (
	StageAnalyze   = "analyze"
	StageExtract   = "extract"
	StageFiles     = "files"
	StageManifest  = "manifest"
	StageInstalled = "installed"
	StageFailed    = "failed"
	StageDownload  = "download"
)

// Installer implements ports.ModpackInstaller.
type Installer struct {
	layout    domain.Layout
	fetcher   ports.Fetcher
	settings  ports.SettingsStore
	logger    ports.Logger
	catalog   *catalogClient
	fabricURL string
	quiltURL  string
}

// Option configures an Installer.
type Option func(*Installer)

// WithProfileURLs overrides the Fabric and Quilt profile endpoints.
func WithProfileURLs(fabric, quilt string) Option {
	return func(i *Installer) {
		i.fabricURL = fabric
		i.quiltURL = quilt
	}
}

// WithCatalogClient replaces the HTTP client used for the remote catalog.
func WithCatalogClient(c HTTPDoer) Option {
	return func(i *Installer) {
		i.catalog.client = c
	}
}

// NewInstaller creates an Installer writing into layout.
func NewInstaller(
	layout domain.Layout,
	fetcher ports.Fetcher,
	settings ports.SettingsStore,
	logger ports.Logger,
	opts ...Option,
) *Installer {
	i := &Installer{
		layout:    layout,
		fetcher:   fetcher,
		settings:  settings,
		logger:    logger,
		catalog:   newCatalogClient(layout, logger),
		fabricURL: FabricProfileURL,
		quiltURL:  QuiltProfileURL,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Install installs the archive at src as the modpack destID. An archive
// without a dialect marker is rejected with domain.ErrUnknownModpackDialect.
// A failed install removes the destination folder.
func (i *Installer) Install(
	ctx context.Context,
	src, destID string,
	events chan<- domain.StatusEvent,
) (domain.VersionDescriptor, error) {
	run := newRun(ctx, events)
	d, err := i.install(ctx, run, src, destID, domain.ModpackInfo{}, false)
	if err != nil {
		run.fail(err)
		return domain.VersionDescriptor{}, errors.Join(domain.ErrInstallFailed, err)
	}
	return d, nil
}

// InstallRemote downloads a catalog entry to modpacks/<id>.zip and installs
// it. The downloaded archive is always deleted. Archives without a dialect
// marker are installed with the catalog's game version and root stripping only.
func (i *Installer) InstallRemote(
	ctx context.Context,
	pack domain.RemoteModpack,
	events chan<- domain.StatusEvent,
) (domain.VersionDescriptor, error) {
	run := newRun(ctx, events)
	if pack.ID == "" || pack.DownloadURL == "" {
		err := zerr.With(domain.With(domain.ErrModpackManifestInvalid, "modpack", pack.Name), "reason", "catalog entry lacks id or download url")
		run.fail(err)
		return domain.VersionDescriptor{}, errors.Join(domain.ErrInstallFailed, err)
	}

	tmp := filepath.Join(i.layout.ModpacksDir(), pack.ID+".zip")
	defer func() {
		_ = os.Remove(tmp)
	}()

	run.send(StageDownload, "Downloading "+displayName(pack)+"...")
	_ = os.Remove(tmp)
	if err := i.fetcher.Download(ctx, pack.DownloadURL, tmp); err != nil {
		run.fail(err)
		return domain.VersionDescriptor{}, errors.Join(domain.ErrInstallFailed, err)
	}

	fallback := domain.ModpackInfo{Name: pack.Name, MinecraftVersion: pack.MinecraftVersion}
	d, err := i.install(ctx, run, tmp, pack.ID, fallback, true)
	if err != nil {
		run.fail(err)
		return domain.VersionDescriptor{}, errors.Join(domain.ErrInstallFailed, err)
	}
	return d, nil
}

func (i *Installer) install(
	ctx context.Context,
	run *run,
	src, destID string,
	fallback domain.ModpackInfo,
	allowUnknown bool,
) (d domain.VersionDescriptor, err error) {
	if _, err := archive.SafeJoin(i.layout.ModpacksDir(), destID); err != nil || filepath.Base(destID) != destID {
		return d, domain.With(domain.ErrArchiveTraversal, "modpack", destID)
	}

	run.send(StageAnalyze, "Analyzing "+filepath.Base(src)+"...")
	zr, err := zip.OpenReader(src)
	if err != nil {
		return d, zerr.With(zerr.Wrap(err, domain.ErrArchiveOpenFailed.Error()), "path", src)
	}
	defer func() {
		_ = zr.Close()
	}()

	dialect := Detect(&zr.Reader)
	if dialect == domain.DialectUnknown && !allowUnknown {
		return d, domain.With(domain.ErrUnknownModpackDialect, "archive", filepath.Base(src))
	}

	info, err := Analyze(&zr.Reader, dialect)
	if err != nil {
		return d, err
	}
	if info.MinecraftVersion == "" {
		info.MinecraftVersion = fallback.MinecraftVersion
	}
	i.logger.Info(fmt.Sprintf("detected %s modpack (game %s, loader %s %s)",
		dialect, orDash(info.MinecraftVersion), orDash(info.Modloader), info.ModloaderVersion))

	dest := i.layout.ModpackDir(destID)
	if err := os.RemoveAll(dest); err != nil {
		return d, zerr.With(zerr.Wrap(err, domain.ErrArchiveExtractFailed.Error()), "path", dest)
	}
	defer func() {
		if err != nil {
			_ = os.RemoveAll(dest)
		}
	}()
	if err := os.MkdirAll(dest, domain.DirPerm); err != nil {
		return d, zerr.With(zerr.Wrap(err, domain.ErrArchiveExtractFailed.Error()), "path", dest)
	}

	run.send(StageExtract, "Extracting "+destID+"...")
	if _, err := Extract(&zr.Reader, dest, dialect); err != nil {
		return d, err
	}

	if dialect == domain.DialectModrinth {
		if err := i.fetchModrinthFiles(ctx, run, &zr.Reader, dest); err != nil {
			return d, err
		}
	}
	if dialect == domain.DialectCurseForge {
		i.warnCurseForgeFiles(&zr.Reader)
	}

	run.send(StageManifest, "Writing manifest...")
	if err := i.Synthesize(ctx, info, destID); err != nil {
		return d, err
	}

	run.send(StageInstalled, "Installed "+destID)
	return domain.VersionDescriptor{ID: destID, Kind: domain.KindModpack}, nil
}

// fetchModrinthFiles downloads every client-side files[] entry by its
// first URL. Individual download failures are logged by the fetcher.
func (i *Installer) fetchModrinthFiles(ctx context.Context, run *run, zr *zip.Reader, dest string) error {
	files, err := modrinthFiles(zr)
	if err != nil {
		return err
	}

	items := make([]domain.FetchItem, 0, len(files))
	for _, f := range files {
		if f.Env != nil && f.Env.Client == "unsupported" {
			continue
		}
		target, err := archive.SafeJoin(dest, f.Path)
		if err != nil {
			return err
		}
		if len(f.Downloads) == 0 {
			i.logger.Warn("no download url for " + f.Path)
			continue
		}
		items = append(items, domain.FetchItem{URL: f.Downloads[0], Target: target})
	}
	if len(items) == 0 {
		return nil
	}

	run.send(StageFiles, fmt.Sprintf("Downloading mods (0/%d)...", len(items)))
	res, err := i.fetcher.FetchBatch(ctx, items, func(done, total int) {
		run.progress(StageFiles, fmt.Sprintf("Downloading mods (%d/%d)...", done, total), done, total)
	})
	if err != nil {
		return err
	}
	if res.Failed > 0 {
		i.logger.Warn(fmt.Sprintf("%d of %d mod files could not be downloaded", res.Failed, res.Total()))
	}
	return nil
}

func (i *Installer) warnCurseForgeFiles(zr *zip.Reader) {
	var m curseForgeManifest
	if err := decodeMarker(zr, CurseForgeIndex, &m); err != nil || len(m.Files) == 0 {
		return
	}
	i.logger.Warn(fmt.Sprintf("%d CurseForge project files are not downloaded; only overrides are installed", len(m.Files)))
}

// run reports the events of one install.
type run struct {
	ctx    context.Context
	id     string
	events chan<- domain.StatusEvent
}

func newRun(ctx context.Context, events chan<- domain.StatusEvent) *run {
	return &run{ctx: ctx, id: uuid.NewString(), events: events}
}

func (r *run) send(stage, msg string) {
	domain.Send(r.ctx, r.events, domain.StatusEvent{RunID: r.id, Stage: stage, Message: msg})
}

func (r *run) progress(stage, msg string, done, total int) {
	domain.Send(r.ctx, r.events, domain.StatusEvent{RunID: r.id, Stage: stage, Message: msg, Done: done, Total: total})
}

func (r *run) fail(err error) {
	domain.Send(r.ctx, r.events, domain.StatusEvent{RunID: r.id, Stage: StageFailed, Message: "Error: " + err.Error(), Err: err})
}

func displayName(p domain.RemoteModpack) string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
