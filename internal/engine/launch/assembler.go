// Package launch drives a version from an empty cache to a running game.
package launch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.trai.ch/quarry/internal/core/domain"
	"go.trai.ch/quarry/internal/core/ports"
	"go.trai.ch/quarry/internal/engine/libraries"
	"go.trai.ch/zerr"
)

// DefaultAssetBaseURL serves asset objects by hash.
const DefaultAssetBaseURL = "https://resources.download.minecraft.net"

// Stages returns the stage names a run reports, in order.
func Stages() []string {
	return []string{
		domain.StateDirectoriesReady.String(),
		domain.StateManifestReady.String(),
		domain.StateLibrariesReady.String(),
		domain.StateAssetsReady.String(),
		domain.StateJavaReady.String(),
		domain.StateCommandBuilt.String(),
		domain.StateRunning.String(),
	}
}

// Request is one launch.
type Request struct {
	// Version is a version id, a modpack id or a latest-* alias.
	Version  string
	Session  domain.Session
	Settings domain.Settings
}

// Assembler runs the launch state machine.
type Assembler struct {
	layout       domain.Layout
	manifests    ports.ManifestStore
	libraries    *libraries.Resolver
	fetcher      ports.Fetcher
	runtime      ports.RuntimeProvisioner
	launcher     ports.ProcessLauncher
	logger       ports.Logger
	assetBaseURL string
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithAssetBaseURL overrides the asset object host.
func WithAssetBaseURL(url string) Option {
	return func(a *Assembler) {
		a.assetBaseURL = url
	}
}

// NewAssembler creates an Assembler.
func NewAssembler(
	layout domain.Layout,
	manifests ports.ManifestStore,
	libs *libraries.Resolver,
	fetcher ports.Fetcher,
	runtime ports.RuntimeProvisioner,
	launcher ports.ProcessLauncher,
	logger ports.Logger,
	opts ...Option,
) *Assembler {
	a := &Assembler{
		layout:       layout,
		manifests:    manifests,
		libraries:    libs,
		fetcher:      fetcher,
		runtime:      runtime,
		launcher:     launcher,
		logger:       logger,
		assetBaseURL: DefaultAssetBaseURL,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// run carries the state of one launch between transitions.
type run struct {
	id     string
	req    Request
	events chan<- domain.StatusEvent
	state  domain.LaunchState

	descriptor domain.VersionDescriptor
	manifest   *domain.Manifest
	nativesDir string
	classpath  []string
	java       string
	spec       domain.ProcessSpec
	process    ports.Process
}

type transition struct {
	to      domain.LaunchState
	message func(*run) string
	do      func(context.Context, *run) error
}

// Launch attempts every transition once, reporting progress on events, and
// returns the started game process. On failure the run ends in the failed
// state, a final "Error: <message>" event is sent and no process is
// returned. The caller owns the returned process.
func (a *Assembler) Launch(ctx context.Context, req Request, events chan<- domain.StatusEvent) (ports.Process, error) {
	r := &run{id: uuid.NewString(), req: req, events: events, state: domain.StateIdle}

	transitions := []transition{
		{domain.StateDirectoriesReady, func(r *run) string { return "Preparing to launch " + r.req.Version + "..." }, a.prepareDirectories},
		{domain.StateManifestReady, constant("Fetching version info..."), a.resolveManifest},
		{domain.StateLibrariesReady, constant("Downloading game client..."), a.resolveLibraries},
		{domain.StateAssetsReady, constant("Downloading assets..."), a.fetchAssets},
		{domain.StateJavaReady, func(r *run) string { return fmt.Sprintf("Preparing Java %d runtime...", r.manifest.JavaMajor()) }, a.selectJava},
		{domain.StateCommandBuilt, constant("Starting game..."), a.buildCommand},
		{domain.StateRunning, constant("Game running!"), a.start},
	}

	for _, t := range transitions {
		a.send(ctx, r, t.to, t.message(r), nil)
		if err := ctx.Err(); err != nil {
			return nil, a.fail(ctx, r, err)
		}
		if err := t.do(ctx, r); err != nil {
			return nil, a.fail(ctx, r, err)
		}
		r.state = t.to
	}
	return r.process, nil
}

func constant(msg string) func(*run) string {
	return func(*run) string { return msg }
}

func (a *Assembler) send(ctx context.Context, r *run, stage domain.LaunchState, msg string, err error) {
	domain.Send(ctx, r.events, domain.StatusEvent{RunID: r.id, Stage: stage.String(), Message: msg, Err: err})
}

func (a *Assembler) progress(ctx context.Context, r *run, stage domain.LaunchState, msg string, done, total int) {
	domain.Send(ctx, r.events, domain.StatusEvent{RunID: r.id, Stage: stage.String(), Message: msg, Done: done, Total: total})
}

func (a *Assembler) fail(ctx context.Context, r *run, err error) error {
	failedIn := r.state
	r.state = domain.StateFailed
	a.send(context.WithoutCancel(ctx), r, domain.StateFailed, "Error: "+err.Error(), err)
	a.logger.Error(zerr.With(zerr.Wrap(err, "launch of "+r.req.Version+" failed after "+failedIn.String()), "version", r.req.Version))
	return errors.Join(domain.ErrLaunchFailed, err)
}

func (a *Assembler) prepareDirectories(_ context.Context, r *run) error {
	if r.req.Session.Username == "" {
		return domain.ErrNotLoggedIn
	}
	for _, dir := range []string{
		a.layout.VersionsDir(),
		a.layout.LibrariesDir(),
		filepath.Join(a.layout.AssetsDir(), domain.AssetIndexesDirName),
		filepath.Join(a.layout.AssetsDir(), domain.AssetObjectsDirName),
		a.layout.RuntimesDir(),
		a.layout.ModpacksDir(),
	} {
		if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
			return zerr.With(zerr.Wrap(err, "create cache directory"), "path", dir)
		}
	}
	return nil
}

func (a *Assembler) resolveManifest(ctx context.Context, r *run) error {
	d, err := a.manifests.Describe(ctx, r.req.Version)
	if err != nil {
		return err
	}
	m, err := a.manifests.Resolve(ctx, d)
	if err != nil {
		return err
	}
	if m.MainClass == "" {
		return zerr.With(domain.With(domain.ErrManifestParseFailed, "version", d.ID), "reason", "no main class")
	}

	r.descriptor = d
	r.manifest = m
	r.nativesDir = a.layout.NativesDir(d)
	return os.MkdirAll(r.nativesDir, domain.DirPerm)
}

func (a *Assembler) resolveLibraries(ctx context.Context, r *run) error {
	owner := r.manifest.ClientOwner
	if owner == "" {
		owner = r.descriptor.ID
	}
	clientJar := a.layout.VersionJar(owner)
	if url := r.manifest.ClientURL(); url != "" {
		if err := a.fetcher.Download(ctx, url, clientJar); err != nil {
			return err
		}
	}

	a.send(ctx, r, domain.StateLibrariesReady, "Downloading libraries...", nil)
	res, err := a.libraries.Resolve(ctx, libraries.Request{
		Manifest:   r.manifest,
		NativesDir: r.nativesDir,
		ClientJar:  clientJar,
		Progress: func(done, total int) {
			a.progress(ctx, r, domain.StateLibrariesReady, fmt.Sprintf("Downloading libraries (%d/%d)...", done, total), done, total)
		},
	})
	if err != nil {
		return err
	}
	if res.Skipped > 0 {
		a.logger.Warn(fmt.Sprintf("%d libraries could not be fetched", res.Skipped))
	}
	r.classpath = res.Classpath
	return nil
}

// fetchAssets downloads the asset index and every missing object. An
// unavailable index is logged and the stage completes without assets.
func (a *Assembler) fetchAssets(ctx context.Context, r *run) error {
	ref := r.manifest.AssetIndex
	if ref == nil || ref.ID == "" || ref.URL == "" {
		return nil
	}

	indexPath := a.layout.AssetIndexPath(ref.ID)
	if err := a.fetcher.Download(ctx, ref.URL, indexPath); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		a.logger.Warn(fmt.Sprintf("asset index %s unavailable: %v", ref.ID, err))
		return nil
	}

	data, err := os.ReadFile(indexPath) //nolint:gosec // path is derived from the cache layout
	if err != nil {
		a.logger.Warn(fmt.Sprintf("asset index %s unreadable: %v", ref.ID, err))
		return nil
	}
	var index domain.AssetIndex
	if err := json.Unmarshal(data, &index); err != nil {
		a.logger.Warn(fmt.Sprintf("asset index %s malformed: %v", ref.ID, err))
		return nil
	}

	items := make([]domain.FetchItem, 0, len(index.Objects))
	seen := make(map[string]bool, len(index.Objects))
	for _, obj := range index.Objects {
		if seen[obj.Hash] {
			continue
		}
		if !domain.ValidAssetHash(obj.Hash) {
			a.logger.Warn(fmt.Sprintf("asset index %s: skipping object with invalid hash %q", ref.ID, obj.Hash))
			continue
		}
		seen[obj.Hash] = true
		items = append(items, domain.FetchItem{
			URL:    a.assetBaseURL + "/" + obj.Hash[:2] + "/" + obj.Hash,
			Target: a.layout.AssetObjectPath(obj.Hash),
		})
	}

	res, err := a.fetcher.FetchBatch(ctx, items, func(done, total int) {
		a.progress(ctx, r, domain.StateAssetsReady, fmt.Sprintf("Downloading assets (%d/%d)...", done, total), done, total)
	})
	if err != nil {
		return err
	}
	if res.Failed > 0 {
		a.logger.Warn(fmt.Sprintf("%d of %d assets could not be fetched", res.Failed, res.Total()))
	}
	return nil
}

func (a *Assembler) selectJava(ctx context.Context, r *run) error {
	if override := r.req.Settings.JavaOverride(); override != "" {
		r.java = override
		return nil
	}
	java, err := a.runtime.Resolve(ctx, r.manifest.JavaMajor())
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	r.java = java
	return nil
}

func (a *Assembler) buildCommand(_ context.Context, r *run) error {
	r.spec = BuildCommand(CommandInput{
		Java:       r.java,
		NativesDir: r.nativesDir,
		Classpath:  r.classpath,
		MainClass:  r.manifest.MainClass,
		VersionID:  r.descriptor.ID,
		GameDir:    a.layout.InstanceDir(r.descriptor),
		AssetsDir:  a.layout.AssetsDir(),
		AssetIndex: r.manifest.AssetIndexID(),
		Session:    r.req.Session,
		Settings:   r.req.Settings,
	})
	return nil
}

func (a *Assembler) start(_ context.Context, r *run) error {
	p, err := a.launcher.Start(r.spec)
	if err != nil {
		return err
	}
	r.process = p
	return nil
}
