package jre_test

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/quarry/internal/adapters/jre"
	"go.trai.ch/quarry/internal/core/domain"
	"go.trai.ch/quarry/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

var linux = domain.Platform{OS: domain.OSLinux, Arch: "amd64"}

func tarGz(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for name, body := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name: name, Mode: 0o755, Size: int64(len(body)), Typeflag: tar.TypeReg,
		}))
		_, err := tw.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func zipBytes(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func mockLogger(ctrl *gomock.Controller) *mocks.MockLogger {
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	return log
}

// serve makes the fetcher write payload to whatever target it is asked for.
func serve(fetcher *mocks.MockFetcher, wantURL string, payload []byte) {
	fetcher.EXPECT().Download(gomock.Any(), wantURL, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, target string) error {
			if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
				return err
			}
			return os.WriteFile(target, payload, domain.FilePerm)
		})
}

func TestResolve_CacheHitMakesNoDownload(t *testing.T) {
	ctrl := gomock.NewController(t)
	layout := domain.NewLayout(t.TempDir())
	exe := filepath.Join(layout.RuntimeDir(17), "jdk-17.0.9+9-jre", "bin", "java")
	require.NoError(t, os.MkdirAll(filepath.Dir(exe), domain.DirPerm))
	require.NoError(t, os.WriteFile(exe, []byte("#!"), 0o755))

	p := jre.New(layout, mocks.NewMockFetcher(ctrl), mockLogger(ctrl), jre.WithPlatform(linux))
	got, err := p.Resolve(context.Background(), 17)
	require.NoError(t, err)
	assert.Equal(t, exe, got)
}

func TestResolve_DownloadsAndUnpacks(t *testing.T) {
	ctrl := gomock.NewController(t)
	layout := domain.NewLayout(t.TempDir())
	fetcher := mocks.NewMockFetcher(ctrl)

	p := jre.New(layout, fetcher, mockLogger(ctrl), jre.WithPlatform(linux))
	serve(fetcher, p.URL(21), tarGz(t, map[string]string{
		"jdk-21.0.1+12-jre/bin/java":    "#!",
		"jdk-21.0.1+12-jre/lib/modules": "mods",
	}))

	got, err := p.Resolve(context.Background(), 21)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(layout.RuntimeDir(21), "jdk-21.0.1+12-jre", "bin", "java"), got)

	info, err := os.Stat(got)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0o100, "executable bit is preserved")
	assert.NoFileExists(t, filepath.Join(layout.RuntimesDir(), "java-21.tar.gz"), "archive is deleted")
}

func TestResolve_WindowsUsesZip(t *testing.T) {
	ctrl := gomock.NewController(t)
	layout := domain.NewLayout(t.TempDir())
	fetcher := mocks.NewMockFetcher(ctrl)
	windows := domain.Platform{OS: domain.OSWindows, Arch: "amd64"}

	p := jre.New(layout, fetcher, mockLogger(ctrl), jre.WithPlatform(windows))
	serve(fetcher, p.URL(8), zipBytes(t, map[string]string{"jdk8u392-b08-jre/bin/java.exe": "MZ"}))

	got, err := p.Resolve(context.Background(), 8)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(layout.RuntimeDir(8), "jdk8u392-b08-jre", "bin", "java.exe"), got)
	assert.NoFileExists(t, filepath.Join(layout.RuntimesDir(), "java-8.zip"))
}

func TestResolve_FallsBackOnDownloadFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	layout := domain.NewLayout(t.TempDir())
	fetcher := mocks.NewMockFetcher(ctrl)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).Times(1)

	fetcher.EXPECT().Download(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&domain.DownloadError{URL: "https://api.adoptium.net", StatusCode: 503})

	p := jre.New(layout, fetcher, log, jre.WithPlatform(linux))
	got, err := p.Resolve(context.Background(), 17)
	assert.Equal(t, jre.FallbackCommand, got)
	require.ErrorIs(t, err, domain.ErrRuntimeProvisionFailed)
	require.ErrorIs(t, err, domain.ErrDownloadFailed)
}

func TestResolve_FallsBackWhenArchiveHasNoJava(t *testing.T) {
	ctrl := gomock.NewController(t)
	layout := domain.NewLayout(t.TempDir())
	fetcher := mocks.NewMockFetcher(ctrl)

	p := jre.New(layout, fetcher, mockLogger(ctrl), jre.WithPlatform(linux))
	serve(fetcher, p.URL(17), tarGz(t, map[string]string{"README": "empty"}))

	got, err := p.Resolve(context.Background(), 17)
	assert.Equal(t, jre.FallbackCommand, got)
	require.ErrorIs(t, err, domain.ErrRuntimeProvisionFailed)
}

func TestResolve_FallsBackOnTraversal(t *testing.T) {
	ctrl := gomock.NewController(t)
	layout := domain.NewLayout(t.TempDir())
	fetcher := mocks.NewMockFetcher(ctrl)

	p := jre.New(layout, fetcher, mockLogger(ctrl), jre.WithPlatform(linux))
	serve(fetcher, p.URL(17), tarGz(t, map[string]string{"../../evil/bin/java": "#!"}))

	got, err := p.Resolve(context.Background(), 17)
	assert.Equal(t, jre.FallbackCommand, got)
	require.ErrorIs(t, err, domain.ErrRuntimeProvisionFailed)
	require.ErrorIs(t, err, domain.ErrArchiveTraversal)
	assert.NoFileExists(t, filepath.Join(layout.Root, "evil", "bin", "java"))
}

func TestURL(t *testing.T) {
	layout := domain.NewLayout(t.TempDir())
	tests := []struct {
		platform domain.Platform
		want     string
	}{
		{linux, "https://api.adoptium.net/v3/binary/latest/17/ga/linux/x64/jre/hotspot/normal/eclipse"},
		{domain.Platform{OS: domain.OSMac, Arch: "arm64"}, "https://api.adoptium.net/v3/binary/latest/17/ga/mac/aarch64/jre/hotspot/normal/eclipse"},
		{domain.Platform{OS: domain.OSWindows, Arch: "386"}, "https://api.adoptium.net/v3/binary/latest/17/ga/windows/x32/jre/hotspot/normal/eclipse"},
	}
	for _, tt := range tests {
		p := jre.New(layout, nil, nil, jre.WithPlatform(tt.platform))
		assert.Equal(t, tt.want, p.URL(17))
	}
}

