// Package app implements the application layer for quarry.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/quarry/internal/adapters/config"  //nolint:depguard // Wired in app layer
	"go.trai.ch/quarry/internal/adapters/modpack" //nolint:depguard // Wired in app layer
	"go.trai.ch/quarry/internal/core/domain"
	"go.trai.ch/quarry/internal/core/ports"
	"go.trai.ch/quarry/internal/engine/launch"
	"go.trai.ch/zerr"
)

// Assembler runs the launch pipeline.
type Assembler interface {
	Launch(ctx context.Context, req launch.Request, events chan<- domain.StatusEvent) (ports.Process, error)
}

// App represents the main application logic.
type App struct {
	layout    domain.Layout
	assembler Assembler
	manifests ports.ManifestStore
	installer ports.ModpackInstaller
	settings  ports.SettingsStore
	sessions  ports.SessionStore
	metadata  ports.MetadataStore
	logger    ports.Logger

	stdout     io.Writer
	stderr     io.Writer
	teaOptions []tea.ProgramOption
}

// New creates a new App instance.
func New(
	layout domain.Layout,
	assembler Assembler,
	manifests ports.ManifestStore,
	installer ports.ModpackInstaller,
	settings ports.SettingsStore,
	sessions ports.SessionStore,
	metadata ports.MetadataStore,
	log ports.Logger,
) *App {
	return &App{
		layout:    layout,
		assembler: assembler,
		manifests: manifests,
		installer: installer,
		settings:  settings,
		sessions:  sessions,
		metadata:  metadata,
		logger:    log,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
	}
}

// WithOutput redirects the renderers.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// WithTeaOptions adds bubbletea program options to the App.
// This is primarily used for testing to disable input/output.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// LaunchOptions configures the Launch method.
type LaunchOptions struct {
	// Username logs in offline before launching when set.
	Username   string
	Wait       bool
	OutputMode string
}

// Launch provisions version and starts the game. An empty version selects
// the last launched one, or the latest release.
func (a *App) Launch(ctx context.Context, version string, opts LaunchOptions) error {
	settings := a.settings.Settings()
	if version == "" {
		version = settings.LastVersionID
	}
	if version == "" {
		version = domain.LatestRelease
	}

	session, err := a.session(opts.Username)
	if err != nil {
		return err
	}

	var proc ports.Process
	err = a.track(ctx, opts.OutputMode, launch.Stages(), func(ctx context.Context, events chan<- domain.StatusEvent) error {
		p, err := a.assembler.Launch(ctx, launch.Request{Version: version, Session: session, Settings: settings}, events)
		proc = p
		return err
	})
	if err != nil {
		return err
	}

	if err := a.settings.Set(config.KeyLastVersionID, version); err == nil {
		if err := a.settings.Save(); err != nil {
			a.logger.Warn(fmt.Sprintf("could not remember last version: %v", err))
		}
	}

	if !opts.Wait && !settings.AutoClose {
		return nil
	}
	return waitProcess(ctx, proc)
}

func (a *App) session(username string) (domain.Session, error) {
	if username != "" {
		return a.sessions.Login(username)
	}
	if s, ok := a.sessions.Current(); ok {
		return s, nil
	}
	return domain.Session{}, nil
}

// waitProcess blocks until p exits. A done context kills the game.
func waitProcess(ctx context.Context, p ports.Process) error {
	done := make(chan error, 1)
	go func() {
		done <- p.Wait()
	}()

	select {
	case err := <-done:
		if err != nil {
			return errors.Join(domain.ErrGameExited, err)
		}
		return nil
	case <-ctx.Done():
		_ = p.Kill()
		<-done
		return ctx.Err()
	}
}

// VersionsOptions filters the Versions listing.
type VersionsOptions struct {
	// Kind keeps only versions of this type when set.
	Kind domain.VersionKind
	// Installed lists the local cache instead of the remote list.
	Installed bool
}

// Versions lists published or installed versions.
func (a *App) Versions(ctx context.Context, opts VersionsOptions) ([]domain.VersionDescriptor, error) {
	var versions []domain.VersionDescriptor
	if opts.Installed {
		installed, err := a.manifests.Installed()
		if err != nil {
			return nil, err
		}
		versions = installed
	} else {
		list, err := a.manifests.Versions(ctx)
		if err != nil {
			return nil, err
		}
		versions = list.Versions
	}

	if opts.Kind == "" {
		return versions, nil
	}
	return slices.DeleteFunc(slices.Clone(versions), func(d domain.VersionDescriptor) bool {
		return d.Kind != opts.Kind
	}), nil
}

// InstallOptions configures modpack installation.
type InstallOptions struct {
	// Name is the display name recorded for the instance.
	Name       string
	OutputMode string
}

// Install installs a local modpack archive. The instance id is the archive
// file name without its extension.
func (a *App) Install(ctx context.Context, archivePath string, opts InstallOptions) (domain.VersionDescriptor, error) {
	destID := InstanceID(archivePath)

	var d domain.VersionDescriptor
	err := a.track(ctx, opts.OutputMode, installStages(false), func(ctx context.Context, events chan<- domain.StatusEvent) error {
		var err error
		d, err = a.installer.Install(ctx, archivePath, destID, events)
		return err
	})
	if err != nil {
		return domain.VersionDescriptor{}, err
	}
	return d, a.recordName(d, opts.Name)
}

// InstanceID derives an instance id from an archive path.
func InstanceID(archivePath string) string {
	base := filepath.Base(archivePath)
	for _, ext := range []string{".zip", ".mrpack"} {
		if strings.HasSuffix(strings.ToLower(base), ext) {
			return base[:len(base)-len(ext)]
		}
	}
	return base
}

// Modpacks lists the remote catalog.
func (a *App) Modpacks(ctx context.Context) ([]domain.RemoteModpack, error) {
	return a.installer.Catalog(ctx)
}

// InstallModpack installs the catalog entry id.
func (a *App) InstallModpack(ctx context.Context, id string, opts InstallOptions) (domain.VersionDescriptor, error) {
	packs, err := a.installer.Catalog(ctx)
	if err != nil {
		return domain.VersionDescriptor{}, err
	}
	pack, err := modpack.Find(packs, id)
	if err != nil {
		return domain.VersionDescriptor{}, err
	}

	var d domain.VersionDescriptor
	err = a.track(ctx, opts.OutputMode, installStages(true), func(ctx context.Context, events chan<- domain.StatusEvent) error {
		var err error
		d, err = a.installer.InstallRemote(ctx, pack, events)
		return err
	})
	if err != nil {
		return domain.VersionDescriptor{}, err
	}

	name := opts.Name
	if name == "" {
		name = pack.Name
	}
	return d, a.recordName(d, name)
}

func installStages(remote bool) []string {
	stages := []string{
		modpack.StageAnalyze,
		modpack.StageExtract,
		modpack.StageFiles,
		modpack.StageManifest,
		modpack.StageInstalled,
	}
	if remote {
		return append([]string{modpack.StageDownload}, stages...)
	}
	return stages
}

func (a *App) recordName(d domain.VersionDescriptor, name string) error {
	if name == "" {
		return nil
	}
	return a.metadata.Set(d.ID, domain.InstanceMetadata{CustomName: name, Type: d.Kind})
}

// Instances lists installed versions with their display names.
func (a *App) Instances() ([]domain.Instance, error) {
	installed, err := a.manifests.Installed()
	if err != nil {
		return nil, err
	}
	out := make([]domain.Instance, 0, len(installed))
	for _, d := range installed {
		out = append(out, domain.Instance{Descriptor: d, DisplayName: a.metadata.Name(d.ID)})
	}
	return out, nil
}

func (a *App) instance(id string) (domain.VersionDescriptor, error) {
	installed, err := a.manifests.Installed()
	if err != nil {
		return domain.VersionDescriptor{}, err
	}
	for _, d := range installed {
		if d.ID == id {
			return d, nil
		}
	}
	return domain.VersionDescriptor{}, domain.With(domain.ErrInstanceNotFound, "instance", id)
}

// RenameInstance sets the display name of an installed version.
func (a *App) RenameInstance(id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ErrInvalidInstanceName
	}
	d, err := a.instance(id)
	if err != nil {
		return err
	}
	return a.metadata.Set(d.ID, domain.InstanceMetadata{CustomName: name, Type: d.Kind})
}

// DeleteInstance removes an installed version's folder and its metadata.
// Shared libraries and assets are kept.
func (a *App) DeleteInstance(id string) error {
	d, err := a.instance(id)
	if err != nil {
		return err
	}

	dir := a.layout.VersionDir(d.ID)
	if d.Kind == domain.KindModpack {
		dir = a.layout.ModpackDir(d.ID)
	}
	if err := os.RemoveAll(dir); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to remove instance"), "path", dir)
	}
	a.logger.Info("removed " + a.metadata.Name(d.ID))
	return a.metadata.Remove(d.ID)
}

// Login persists an offline session.
func (a *App) Login(username string) (domain.Session, error) {
	return a.sessions.Login(username)
}

// Logout forgets the session.
func (a *App) Logout() error {
	return a.sessions.Logout()
}

// Session returns the persisted session, if any.
func (a *App) Session() (domain.Session, bool) {
	return a.sessions.Current()
}

// Settings returns the current settings.
func (a *App) Settings() domain.Settings {
	return a.settings.Settings()
}

// SetSetting updates and saves one setting.
func (a *App) SetSetting(key, value string) error {
	if err := a.settings.Set(key, value); err != nil {
		return err
	}
	return a.settings.Save()
}
