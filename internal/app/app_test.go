package app_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/quarry/internal/app"
	"go.trai.ch/quarry/internal/core/domain"
	"go.trai.ch/quarry/internal/core/ports"
	"go.trai.ch/quarry/internal/core/ports/mocks"
	"go.trai.ch/quarry/internal/engine/launch"
	"go.uber.org/mock/gomock"
)

type fakeAssembler struct {
	launch func(ctx context.Context, req launch.Request, events chan<- domain.StatusEvent) (ports.Process, error)
}

func (f *fakeAssembler) Launch(ctx context.Context, req launch.Request, events chan<- domain.StatusEvent) (ports.Process, error) {
	return f.launch(ctx, req, events)
}

type fixture struct {
	layout    domain.Layout
	assembler *fakeAssembler
	manifests *mocks.MockManifestStore
	installer *mocks.MockModpackInstaller
	settings  *mocks.MockSettingsStore
	sessions  *mocks.MockSessionStore
	metadata  *mocks.MockMetadataStore
	logger    *mocks.MockLogger
	stdout    *bytes.Buffer
	stderr    *bytes.Buffer
	app       *app.App
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	ctrl := gomock.NewController(t)
	f := &fixture{
		layout:    domain.NewLayout(t.TempDir()),
		assembler: &fakeAssembler{},
		manifests: mocks.NewMockManifestStore(ctrl),
		installer: mocks.NewMockModpackInstaller(ctrl),
		settings:  mocks.NewMockSettingsStore(ctrl),
		sessions:  mocks.NewMockSessionStore(ctrl),
		metadata:  mocks.NewMockMetadataStore(ctrl),
		logger:    mocks.NewMockLogger(ctrl),
		stdout:    new(bytes.Buffer),
		stderr:    new(bytes.Buffer),
	}
	f.app = app.New(f.layout, f.assembler, f.manifests, f.installer, f.settings, f.sessions, f.metadata, f.logger).
		WithOutput(f.stdout, f.stderr)
	return f
}

func defaultSettings() domain.Settings {
	return domain.Settings{RAM: 4096, Width: 854, Height: 480}
}

// succeed reports every launch stage and returns proc.
func succeed(proc ports.Process, got *launch.Request) func(context.Context, launch.Request, chan<- domain.StatusEvent) (ports.Process, error) {
	return func(ctx context.Context, req launch.Request, events chan<- domain.StatusEvent) (ports.Process, error) {
		*got = req
		messages := []string{
			"Preparing to launch " + req.Version + "...",
			"Fetching version info...",
			"Downloading libraries...",
			"Downloading assets...",
			"Preparing Java 17 runtime...",
			"Starting game...",
			"Game running!",
		}
		for i, stage := range launch.Stages() {
			domain.Send(ctx, events, domain.StatusEvent{RunID: "run", Stage: stage, Message: messages[i]})
		}
		return proc, nil
	}
}

func TestLaunch_RendersStagesAndRemembersVersion(t *testing.T) {
	f := newFixture(t)
	proc := mocks.NewMockProcess(gomock.NewController(t))

	var req launch.Request
	f.assembler.launch = succeed(proc, &req)
	f.settings.EXPECT().Settings().Return(defaultSettings())
	f.sessions.EXPECT().Current().Return(domain.Session{Username: "Steve"}, true)
	f.settings.EXPECT().Set("last_version_id", "1.20.1").Return(nil)
	f.settings.EXPECT().Save().Return(nil)

	err := f.app.Launch(context.Background(), "1.20.1", app.LaunchOptions{OutputMode: "linear"})
	require.NoError(t, err)

	assert.Equal(t, "1.20.1", req.Version)
	assert.Equal(t, "Steve", req.Session.Username)
	assert.Contains(t, f.stderr.String(), "Running 7 stage(s)")
	assert.Contains(t, f.stderr.String(), "[directories] Starting...")
	assert.Contains(t, f.stderr.String(), "[running] ✓ Completed")
	assert.Contains(t, f.stdout.String(), "[manifest] Fetching version info...")
	assert.Contains(t, f.stdout.String(), "[running] Game running!")
}

func TestLaunch_DefaultsToLastVersion(t *testing.T) {
	f := newFixture(t)
	settings := defaultSettings()
	settings.LastVersionID = "fabric-pack"

	var req launch.Request
	f.assembler.launch = succeed(mocks.NewMockProcess(gomock.NewController(t)), &req)
	f.settings.EXPECT().Settings().Return(settings)
	f.sessions.EXPECT().Current().Return(domain.Session{Username: "Steve"}, true)
	f.settings.EXPECT().Set("last_version_id", "fabric-pack").Return(nil)
	f.settings.EXPECT().Save().Return(nil)

	require.NoError(t, f.app.Launch(context.Background(), "", app.LaunchOptions{OutputMode: "linear"}))
	assert.Equal(t, "fabric-pack", req.Version)
}

func TestLaunch_DefaultsToLatestRelease(t *testing.T) {
	f := newFixture(t)

	var req launch.Request
	f.assembler.launch = succeed(mocks.NewMockProcess(gomock.NewController(t)), &req)
	f.settings.EXPECT().Settings().Return(defaultSettings())
	f.sessions.EXPECT().Current().Return(domain.Session{Username: "Steve"}, true)
	f.settings.EXPECT().Set(gomock.Any(), gomock.Any()).Return(nil)
	f.settings.EXPECT().Save().Return(nil)

	require.NoError(t, f.app.Launch(context.Background(), "", app.LaunchOptions{OutputMode: "linear"}))
	assert.Equal(t, domain.LatestRelease, req.Version)
}

func TestLaunch_UsernameFlagLogsIn(t *testing.T) {
	f := newFixture(t)

	var req launch.Request
	f.assembler.launch = succeed(mocks.NewMockProcess(gomock.NewController(t)), &req)
	f.settings.EXPECT().Settings().Return(defaultSettings())
	f.sessions.EXPECT().Login("Alex").Return(domain.Session{Username: "Alex", Offline: true}, nil)
	f.settings.EXPECT().Set(gomock.Any(), gomock.Any()).Return(nil)
	f.settings.EXPECT().Save().Return(nil)

	require.NoError(t, f.app.Launch(context.Background(), "1.20.1", app.LaunchOptions{Username: "Alex", OutputMode: "linear"}))
	assert.Equal(t, "Alex", req.Session.Username)
}

func TestLaunch_FailureIsRendered(t *testing.T) {
	f := newFixture(t)
	cause := errors.Join(domain.ErrLaunchFailed, domain.ErrNotLoggedIn)

	f.assembler.launch = func(ctx context.Context, req launch.Request, events chan<- domain.StatusEvent) (ports.Process, error) {
		domain.Send(ctx, events, domain.StatusEvent{Stage: "directories", Message: "Preparing to launch 1.20.1..."})
		domain.Send(ctx, events, domain.StatusEvent{Stage: "failed", Message: "Error: no user logged in", Err: domain.ErrNotLoggedIn})
		return nil, cause
	}
	f.settings.EXPECT().Settings().Return(defaultSettings())
	f.sessions.EXPECT().Current().Return(domain.Session{}, false)

	err := f.app.Launch(context.Background(), "1.20.1", app.LaunchOptions{OutputMode: "linear"})
	require.ErrorIs(t, err, domain.ErrLaunchFailed)
	assert.Contains(t, f.stdout.String(), "[directories] Error: no user logged in")
	assert.Contains(t, f.stderr.String(), "[directories] ✗ Failed after")
}

func TestLaunch_WaitReportsExitStatus(t *testing.T) {
	f := newFixture(t)
	proc := mocks.NewMockProcess(gomock.NewController(t))
	proc.EXPECT().Wait().Return(errors.New("exit status 1"))

	var req launch.Request
	f.assembler.launch = succeed(proc, &req)
	f.settings.EXPECT().Settings().Return(defaultSettings())
	f.sessions.EXPECT().Current().Return(domain.Session{Username: "Steve"}, true)
	f.settings.EXPECT().Set(gomock.Any(), gomock.Any()).Return(nil)
	f.settings.EXPECT().Save().Return(nil)

	err := f.app.Launch(context.Background(), "1.20.1", app.LaunchOptions{Wait: true, OutputMode: "linear"})
	require.ErrorIs(t, err, domain.ErrGameExited)
}

func TestLaunch_AutoCloseWaitsForExit(t *testing.T) {
	f := newFixture(t)
	proc := mocks.NewMockProcess(gomock.NewController(t))
	proc.EXPECT().Wait().Return(nil)

	settings := defaultSettings()
	settings.AutoClose = true

	var req launch.Request
	f.assembler.launch = succeed(proc, &req)
	f.settings.EXPECT().Settings().Return(settings)
	f.sessions.EXPECT().Current().Return(domain.Session{Username: "Steve"}, true)
	f.settings.EXPECT().Set(gomock.Any(), gomock.Any()).Return(nil)
	f.settings.EXPECT().Save().Return(nil)

	require.NoError(t, f.app.Launch(context.Background(), "1.20.1", app.LaunchOptions{OutputMode: "linear"}))
}

func TestLaunch_CancelKillsWaitedGame(t *testing.T) {
	f := newFixture(t)
	proc := mocks.NewMockProcess(gomock.NewController(t))
	killed := make(chan struct{})
	proc.EXPECT().Wait().DoAndReturn(func() error {
		<-killed
		return errors.New("signal: killed")
	})
	proc.EXPECT().Kill().DoAndReturn(func() error {
		close(killed)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	f.assembler.launch = func(_ context.Context, _ launch.Request, _ chan<- domain.StatusEvent) (ports.Process, error) {
		return proc, nil
	}
	f.settings.EXPECT().Settings().Return(defaultSettings())
	f.sessions.EXPECT().Current().Return(domain.Session{Username: "Steve"}, true)
	f.settings.EXPECT().Set(gomock.Any(), gomock.Any()).DoAndReturn(func(string, string) error {
		cancel()
		return nil
	})
	f.settings.EXPECT().Save().Return(nil)

	err := f.app.Launch(ctx, "1.20.1", app.LaunchOptions{Wait: true, OutputMode: "linear"})
	require.ErrorIs(t, err, context.Canceled)
}

func TestVersions_FiltersByKind(t *testing.T) {
	f := newFixture(t)
	list := &domain.VersionList{Versions: []domain.VersionDescriptor{
		{ID: "24w14a", Kind: domain.KindSnapshot},
		{ID: "1.20.1", Kind: domain.KindRelease},
		{ID: "b1.7.3", Kind: domain.KindOldBeta},
	}}
	f.manifests.EXPECT().Versions(gomock.Any()).Return(list, nil).Times(2)

	all, err := f.app.Versions(context.Background(), app.VersionsOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	releases, err := f.app.Versions(context.Background(), app.VersionsOptions{Kind: domain.KindRelease})
	require.NoError(t, err)
	assert.Equal(t, []domain.VersionDescriptor{{ID: "1.20.1", Kind: domain.KindRelease}}, releases)
	assert.Len(t, list.Versions, 3, "filtering must not modify the cached list")
}

func TestVersions_Installed(t *testing.T) {
	f := newFixture(t)
	f.manifests.EXPECT().Installed().Return([]domain.VersionDescriptor{
		{ID: "1.20.1", Kind: domain.KindRelease},
		{ID: "pack", Kind: domain.KindModpack},
	}, nil)

	got, err := f.app.Versions(context.Background(), app.VersionsOptions{Installed: true, Kind: domain.KindModpack})
	require.NoError(t, err)
	assert.Equal(t, []domain.VersionDescriptor{{ID: "pack", Kind: domain.KindModpack}}, got)
}

func TestInstanceID(t *testing.T) {
	tests := map[string]string{
		"/tmp/All The Mods.zip":  "All The Mods",
		"packs/fabulous.mrpack":  "fabulous",
		"packs/UPPER.ZIP":        "UPPER",
		"packs/no-extension":     "no-extension",
		"packs/archive.tar.gz":   "archive.tar.gz",
		"relative/pack.v2.zip":   "pack.v2",
	}
	for in, want := range tests {
		assert.Equal(t, want, app.InstanceID(in), in)
	}
}

func TestInstall_RecordsName(t *testing.T) {
	f := newFixture(t)
	d := domain.VersionDescriptor{ID: "pack", Kind: domain.KindModpack}
	f.installer.EXPECT().Install(gomock.Any(), "/downloads/pack.zip", "pack", gomock.Any()).
		DoAndReturn(func(ctx context.Context, _, _ string, events chan<- domain.StatusEvent) (domain.VersionDescriptor, error) {
			domain.Send(ctx, events, domain.StatusEvent{Stage: "analyze", Message: "Analyzing modpack..."})
			domain.Send(ctx, events, domain.StatusEvent{Stage: "installed", Message: "Installed pack"})
			return d, nil
		})
	f.metadata.EXPECT().Set("pack", domain.InstanceMetadata{CustomName: "My Pack", Type: domain.KindModpack}).Return(nil)

	got, err := f.app.Install(context.Background(), "/downloads/pack.zip", app.InstallOptions{Name: "My Pack", OutputMode: "linear"})
	require.NoError(t, err)
	assert.Equal(t, d, got)
	assert.Contains(t, f.stdout.String(), "[analyze] Analyzing modpack...")
}

func TestInstall_WithoutNameSkipsMetadata(t *testing.T) {
	f := newFixture(t)
	f.installer.EXPECT().Install(gomock.Any(), "pack.mrpack", "pack", gomock.Any()).
		Return(domain.VersionDescriptor{ID: "pack", Kind: domain.KindModpack}, nil)

	_, err := f.app.Install(context.Background(), "pack.mrpack", app.InstallOptions{OutputMode: "linear"})
	require.NoError(t, err)
}

func TestInstall_Failure(t *testing.T) {
	f := newFixture(t)
	f.installer.EXPECT().Install(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(domain.VersionDescriptor{}, errors.Join(domain.ErrInstallFailed, domain.ErrUnknownModpackDialect))

	_, err := f.app.Install(context.Background(), "junk.zip", app.InstallOptions{Name: "x", OutputMode: "linear"})
	require.ErrorIs(t, err, domain.ErrUnknownModpackDialect)
}

func TestInstallModpack(t *testing.T) {
	f := newFixture(t)
	pack := domain.RemoteModpack{ID: "skyblock", Name: "Skyblock", DownloadURL: "https://packs.example/skyblock.zip"}
	f.installer.EXPECT().Catalog(gomock.Any()).Return([]domain.RemoteModpack{pack}, nil)
	f.installer.EXPECT().InstallRemote(gomock.Any(), pack, gomock.Any()).
		Return(domain.VersionDescriptor{ID: "skyblock", Kind: domain.KindModpack}, nil)
	f.metadata.EXPECT().Set("skyblock", domain.InstanceMetadata{CustomName: "Skyblock", Type: domain.KindModpack}).Return(nil)

	d, err := f.app.InstallModpack(context.Background(), "skyblock", app.InstallOptions{OutputMode: "linear"})
	require.NoError(t, err)
	assert.Equal(t, "skyblock", d.ID)
}

func TestInstallModpack_NotInCatalog(t *testing.T) {
	f := newFixture(t)
	f.installer.EXPECT().Catalog(gomock.Any()).Return(nil, nil)

	_, err := f.app.InstallModpack(context.Background(), "missing", app.InstallOptions{OutputMode: "linear"})
	require.ErrorIs(t, err, domain.ErrModpackNotInCatalog)
}

func installed() []domain.VersionDescriptor {
	return []domain.VersionDescriptor{
		{ID: "1.20.1", Kind: domain.KindRelease},
		{ID: "pack", Kind: domain.KindModpack},
	}
}

func TestInstances(t *testing.T) {
	f := newFixture(t)
	f.manifests.EXPECT().Installed().Return(installed(), nil)
	f.metadata.EXPECT().Name("1.20.1").Return("1.20.1")
	f.metadata.EXPECT().Name("pack").Return("My Pack")

	got, err := f.app.Instances()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "My Pack", got[1].DisplayName)
}

func TestRenameInstance(t *testing.T) {
	f := newFixture(t)
	f.manifests.EXPECT().Installed().Return(installed(), nil).Times(2)
	f.metadata.EXPECT().Set("pack", domain.InstanceMetadata{CustomName: "Renamed", Type: domain.KindModpack}).Return(nil)

	require.NoError(t, f.app.RenameInstance("pack", "  Renamed "))
	require.ErrorIs(t, f.app.RenameInstance("ghost", "x"), domain.ErrInstanceNotFound)
	require.ErrorIs(t, f.app.RenameInstance("pack", " "), domain.ErrInvalidInstanceName)
}

func TestDeleteInstance(t *testing.T) {
	f := newFixture(t)
	f.manifests.EXPECT().Installed().Return(installed(), nil).Times(3)
	f.metadata.EXPECT().Name(gomock.Any()).Return("x").AnyTimes()
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	f.metadata.EXPECT().Remove("pack").Return(nil)
	f.metadata.EXPECT().Remove("1.20.1").Return(nil)

	require.NoError(t, os.MkdirAll(f.layout.ModpackDir("pack"), domain.DirPerm))
	require.NoError(t, os.MkdirAll(f.layout.VersionDir("1.20.1"), domain.DirPerm))
	require.NoError(t, os.MkdirAll(f.layout.LibrariesDir(), domain.DirPerm))

	require.NoError(t, f.app.DeleteInstance("pack"))
	assert.NoDirExists(t, f.layout.ModpackDir("pack"))

	require.NoError(t, f.app.DeleteInstance("1.20.1"))
	assert.NoDirExists(t, f.layout.VersionDir("1.20.1"))
	assert.DirExists(t, f.layout.LibrariesDir())
	assert.DirExists(t, f.layout.Root)

	require.ErrorIs(t, f.app.DeleteInstance("ghost"), domain.ErrInstanceNotFound)
}

func TestSessionOperations(t *testing.T) {
	f := newFixture(t)
	s := domain.Session{Username: "Steve", Offline: true}
	f.sessions.EXPECT().Login("Steve").Return(s, nil)
	f.sessions.EXPECT().Current().Return(s, true)
	f.sessions.EXPECT().Logout().Return(nil)

	got, err := f.app.Login("Steve")
	require.NoError(t, err)
	assert.Equal(t, s, got)

	current, ok := f.app.Session()
	assert.True(t, ok)
	assert.Equal(t, s, current)

	require.NoError(t, f.app.Logout())
}

func TestSetSetting(t *testing.T) {
	f := newFixture(t)
	gomock.InOrder(
		f.settings.EXPECT().Set("ram", "8192").Return(nil),
		f.settings.EXPECT().Save().Return(nil),
	)
	require.NoError(t, f.app.SetSetting("ram", "8192"))

	f.settings.EXPECT().Set("colour", "blue").Return(domain.ErrUnknownSetting)
	require.ErrorIs(t, f.app.SetSetting("colour", "blue"), domain.ErrUnknownSetting)
}
