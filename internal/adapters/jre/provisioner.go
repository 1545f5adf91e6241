// Package jre provisions Java runtimes under the runtimes cache folder.
package jre

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/quarry/internal/adapters/archive"
	"go.trai.ch/quarry/internal/core/domain"
	"go.trai.ch/quarry/internal/core/ports"
	"go.trai.ch/zerr"
)

// FallbackCommand is returned whenever provisioning fails.
const FallbackCommand = "java"

// DefaultVendorURL is the Adoptium binary endpoint. Its verbs are major
// version, os and architecture.
const DefaultVendorURL = "https://api.adoptium.net/v3/binary/latest/%d/ga/%s/%s/jre/hotspot/normal/eclipse"

// errNoExecutable is joined into the failure when an unpacked runtime has no java binary.
var errNoExecutable = errors.New("no java executable in unpacked runtime")

// Provisioner implements ports.RuntimeProvisioner.
type Provisioner struct {
	layout    domain.Layout
	fetcher   ports.Fetcher
	logger    ports.Logger
	platform  domain.Platform
	vendorURL string
}

// Option configures a Provisioner.
type Option func(*Provisioner)

// WithPlatform overrides the platform runtimes are provisioned for.
func WithPlatform(p domain.Platform) Option {
	return func(r *Provisioner) {
		r.platform = p
	}
}

// WithVendorURL overrides the vendor URL format.
func WithVendorURL(format string) Option {
	return func(r *Provisioner) {
		r.vendorURL = format
	}
}

// New creates a Provisioner for the current platform.
func New(layout domain.Layout, fetcher ports.Fetcher, logger ports.Logger, opts ...Option) *Provisioner {
	r := &Provisioner{
		layout:    layout,
		fetcher:   fetcher,
		logger:    logger,
		platform:  domain.CurrentPlatform(),
		vendorURL: DefaultVendorURL,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the java executable for major, downloading the runtime on
// a cache miss. Failures are logged and degrade to FallbackCommand together
// with domain.ErrRuntimeProvisionFailed.
func (r *Provisioner) Resolve(ctx context.Context, major int) (string, error) {
	dir := r.layout.RuntimeDir(major)
	if exe := r.findExecutable(dir); exe != "" {
		return exe, nil
	}

	exe, err := r.install(ctx, major, dir)
	if err != nil {
		err = zerr.With(errors.Join(domain.ErrRuntimeProvisionFailed, err), "java_major", major)
		r.logger.Warn(fmt.Sprintf("java %d runtime unavailable, falling back to %q: %v", major, FallbackCommand, err))
		return FallbackCommand, err
	}
	r.logger.Info(fmt.Sprintf("installed java %d runtime", major))
	return exe, nil
}

// URL returns the vendor download URL for major on the provisioner's platform.
func (r *Provisioner) URL(major int) string {
	return fmt.Sprintf(r.vendorURL, major, vendorOS(r.platform.OS), vendorArch(r.platform.Arch))
}

func (r *Provisioner) install(ctx context.Context, major int, dir string) (string, error) {
	ext := ".tar.gz"
	if r.platform.OS == domain.OSWindows {
		ext = ".zip"
	}
	archivePath := filepath.Join(r.layout.RuntimesDir(), fmt.Sprintf("java-%d%s", major, ext))
	defer func() {
		_ = os.Remove(archivePath)
	}()

	if err := r.fetcher.Download(ctx, r.URL(major), archivePath); err != nil {
		return "", err
	}

	// A partial unpack from an earlier attempt is discarded.
	if err := os.RemoveAll(dir); err != nil {
		return "", err
	}
	var err error
	if ext == ".zip" {
		err = archive.Unzip(archivePath, dir)
	} else {
		err = archive.UntarGz(archivePath, dir)
	}
	if err != nil {
		_ = os.RemoveAll(dir)
		return "", err
	}

	exe := r.findExecutable(dir)
	if exe == "" {
		return "", errNoExecutable
	}
	return exe, nil
}

// findExecutable walks dir for bin/java, since vendor archives nest the
// runtime under a versioned folder.
func (r *Provisioner) findExecutable(dir string) string {
	suffix := string(filepath.Separator) + filepath.FromSlash(r.platform.JavaExecutable())

	var found string
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // unreadable subtrees are skipped
		}
		if !d.IsDir() && strings.HasSuffix(path, suffix) {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if found == "" {
		return ""
	}
	if abs, err := filepath.Abs(found); err == nil {
		return abs
	}
	return found
}

func vendorOS(name string) string {
	if name == domain.OSMac {
		return "mac"
	}
	return name
}

func vendorArch(arch string) string {
	switch arch {
	case "amd64":
		return "x64"
	case "arm64":
		return "aarch64"
	case "386":
		return "x32"
	default:
		return arch
	}
}
