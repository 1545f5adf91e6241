package domain

import (
	"fmt"

	"go.trai.ch/zerr"
)

var (
	// ErrManifestUnavailable is returned when a version manifest is neither cached nor downloadable.
	ErrManifestUnavailable = zerr.New("version manifest unavailable")

	// ErrParentVersionNotFound is returned when an inheritsFrom chain cannot be closed.
	ErrParentVersionNotFound = zerr.New("parent version not found")

	// ErrDownloadFailed is returned when a download does not complete with a 2xx response.
	ErrDownloadFailed = zerr.New("download failed")

	// ErrArchiveTraversal is returned when an archive entry would be written outside its target directory.
	ErrArchiveTraversal = zerr.New("archive entry escapes target directory")

	// ErrUnknownModpackDialect is returned when an archive carries no known modpack marker.
	ErrUnknownModpackDialect = zerr.New("unknown modpack format")

	// ErrRuntimeProvisionFailed is returned when a Java runtime could not be provisioned.
	// It is never fatal: the provisioner falls back to the bare java command.
	ErrRuntimeProvisionFailed = zerr.New("java runtime provisioning failed")

	// ErrProcessStartFailed is returned when the game process cannot be started.
	ErrProcessStartFailed = zerr.New("failed to start game process")

	// ErrLaunchFailed is returned when a launch pipeline run ends in the failed state.
	ErrLaunchFailed = zerr.New("launch failed")

	// ErrInstallFailed is returned when a modpack installation is rolled back.
	ErrInstallFailed = zerr.New("modpack installation failed")

	// ErrInvalidCoordinate is returned when a library name is not a Maven coordinate.
	ErrInvalidCoordinate = zerr.New("invalid maven coordinate")

	// ErrManifestParseFailed is returned when a manifest document cannot be decoded.
	ErrManifestParseFailed = zerr.New("failed to parse version manifest")

	// ErrVersionListUnavailable is returned when the version list can neither be fetched nor read from cache.
	ErrVersionListUnavailable = zerr.New("version list unavailable")

	// ErrVersionNotFound is returned when a version id is not known locally or remotely.
	ErrVersionNotFound = zerr.New("version not found")

	// ErrArchiveOpenFailed is returned when an archive cannot be opened.
	ErrArchiveOpenFailed = zerr.New("failed to open archive")

	// ErrArchiveExtractFailed is returned when an archive entry cannot be written.
	ErrArchiveExtractFailed = zerr.New("failed to extract archive entry")

	// ErrModpackManifestInvalid is returned when a modpack marker file cannot be parsed.
	ErrModpackManifestInvalid = zerr.New("invalid modpack manifest")

	// ErrCatalogUnavailable is returned when the remote modpack catalog cannot be fetched.
	ErrCatalogUnavailable = zerr.New("modpack catalog unavailable")

	// ErrModpackNotInCatalog is returned when a requested modpack id is not in the catalog.
	ErrModpackNotInCatalog = zerr.New("modpack not found in catalog")

	// ErrInstanceNotFound is returned when an instance to rename or delete is not installed.
	ErrInstanceNotFound = zerr.New("instance not found")

	// ErrStoreReadFailed is returned when a persisted JSON store cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read store")

	// ErrStoreWriteFailed is returned when a persisted JSON store cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write store")

	// ErrSettingsLoadFailed is returned when the settings file cannot be loaded.
	ErrSettingsLoadFailed = zerr.New("failed to load settings")

	// ErrSettingsSaveFailed is returned when the settings file cannot be saved.
	ErrSettingsSaveFailed = zerr.New("failed to save settings")

	// ErrUnknownSetting is returned when a settings key is not recognized.
	ErrUnknownSetting = zerr.New("unknown setting")

	// ErrInvalidSettingValue is returned when a settings value cannot be parsed.
	ErrInvalidSettingValue = zerr.New("invalid setting value")

	// ErrGameExited is returned when a waited-on game process exits unsuccessfully.
	ErrGameExited = zerr.New("game exited with an error")

	// ErrInvalidInstanceName is returned when renaming an instance to an empty name.
	ErrInvalidInstanceName = zerr.New("instance name must not be empty")

	// ErrNotLoggedIn is returned when a launch has no username from flags or session.
	ErrNotLoggedIn = zerr.New("no user logged in")
)

// DownloadError describes a download that completed with a non-2xx status.
// errors.Is reports it as ErrDownloadFailed.
type DownloadError struct {
	URL        string
	StatusCode int
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("%s: %s returned status %d", ErrDownloadFailed.Error(), e.URL, e.StatusCode)
}

// Is reports whether target is ErrDownloadFailed.
func (e *DownloadError) Is(target error) bool {
	return target == ErrDownloadFailed
}

// With attaches key and value to sentinel as zerr metadata. The sentinel
// stays the cause of the result, so errors.Is keeps matching it; calling
// zerr.With on the sentinel directly would return an unrelated copy.
func With(sentinel error, key string, value any) error {
	return zerr.With(zerr.Wrap(sentinel, ""), key, value)
}
