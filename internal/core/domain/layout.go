package domain

import (
	"os"
	"path/filepath"
	"strconv"
)

const (
	// GameDirName is the name of the default game directory under the user's home.
	GameDirName = ".quarry"

	// VersionsDirName holds one folder per vanilla version.
	VersionsDirName = "versions"

	// LibrariesDirName holds library jars in Maven layout.
	LibrariesDirName = "libraries"

	// AssetsDirName holds asset indexes and objects.
	AssetsDirName = "assets"

	// AssetIndexesDirName is the asset index folder under assets.
	AssetIndexesDirName = "indexes"

	// AssetObjectsDirName is the hash-addressed object folder under assets.
	AssetObjectsDirName = "objects"

	// RuntimesDirName holds one Java runtime per major version.
	RuntimesDirName = "runtimes"

	// ModpacksDirName holds one folder per installed modpack.
	ModpacksDirName = "modpacks"

	// CacheDirName holds cached remote indexes.
	CacheDirName = "cache"

	// NativesDirName is the flat native library folder inside an instance.
	NativesDirName = "natives"

	// SettingsFileName is the settings file inside the game directory.
	SettingsFileName = "settings.yaml"

	// SessionFileName is the persisted session inside the game directory.
	SessionFileName = "session.json"

	// InstancesFileName is the instance metadata map inside the game directory.
	InstancesFileName = "instances.json"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultGameDir returns the default game directory, ~/.quarry.
// It falls back to a relative .quarry when the home directory is unknown.
func DefaultGameDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return GameDirName
	}
	return filepath.Join(home, GameDirName)
}

// Layout is the on-disk cache tree rooted at a single game directory.
// Presence of the terminal files it names is the only installation record.
type Layout struct {
	Root string
}

// NewLayout returns a Layout rooted at root.
func NewLayout(root string) Layout {
	return Layout{Root: filepath.Clean(root)}
}

// VersionsDir returns <root>/versions.
func (l Layout) VersionsDir() string {
	return filepath.Join(l.Root, VersionsDirName)
}

// VersionDir returns <root>/versions/<id>.
func (l Layout) VersionDir(id string) string {
	return filepath.Join(l.Root, VersionsDirName, id)
}

// VersionJSON returns <root>/versions/<id>/<id>.json.
func (l Layout) VersionJSON(id string) string {
	return filepath.Join(l.VersionDir(id), id+".json")
}

// VersionJar returns <root>/versions/<id>/<id>.jar.
func (l Layout) VersionJar(id string) string {
	return filepath.Join(l.VersionDir(id), id+".jar")
}

// LibrariesDir returns <root>/libraries.
func (l Layout) LibrariesDir() string {
	return filepath.Join(l.Root, LibrariesDirName)
}

// LibraryPath returns the location of a library given its Maven-relative path.
func (l Layout) LibraryPath(mavenPath string) string {
	return filepath.Join(l.LibrariesDir(), filepath.FromSlash(mavenPath))
}

// AssetsDir returns <root>/assets.
func (l Layout) AssetsDir() string {
	return filepath.Join(l.Root, AssetsDirName)
}

// AssetIndexPath returns <root>/assets/indexes/<id>.json.
func (l Layout) AssetIndexPath(id string) string {
	return filepath.Join(l.AssetsDir(), AssetIndexesDirName, id+".json")
}

// AssetObjectPath returns <root>/assets/objects/<hash[0:2]>/<hash>.
func (l Layout) AssetObjectPath(hash string) string {
	return filepath.Join(l.AssetsDir(), AssetObjectsDirName, hashPrefix(hash), hash)
}

// RuntimesDir returns <root>/runtimes.
func (l Layout) RuntimesDir() string {
	return filepath.Join(l.Root, RuntimesDirName)
}

// RuntimeDir returns <root>/runtimes/java-<major>.
func (l Layout) RuntimeDir(major int) string {
	return filepath.Join(l.RuntimesDir(), "java-"+strconv.Itoa(major))
}

// ModpacksDir returns <root>/modpacks.
func (l Layout) ModpacksDir() string {
	return filepath.Join(l.Root, ModpacksDirName)
}

// ModpackDir returns <root>/modpacks/<id>.
func (l Layout) ModpackDir(id string) string {
	return filepath.Join(l.ModpacksDir(), id)
}

// ModpackJSON returns <root>/modpacks/<id>/<id>.json.
func (l Layout) ModpackJSON(id string) string {
	return filepath.Join(l.ModpackDir(id), id+".json")
}

// CacheDir returns <root>/cache.
func (l Layout) CacheDir() string {
	return filepath.Join(l.Root, CacheDirName)
}

// SettingsPath returns <root>/settings.yaml.
func (l Layout) SettingsPath() string {
	return filepath.Join(l.Root, SettingsFileName)
}

// SessionPath returns <root>/session.json.
func (l Layout) SessionPath() string {
	return filepath.Join(l.Root, SessionFileName)
}

// InstancesPath returns <root>/instances.json.
func (l Layout) InstancesPath() string {
	return filepath.Join(l.Root, InstancesFileName)
}

// InstanceDir returns the directory a version runs in: the game root for
// vanilla versions and the modpack folder for modpacks.
func (l Layout) InstanceDir(d VersionDescriptor) string {
	if d.Kind == KindModpack {
		return l.ModpackDir(d.ID)
	}
	return l.Root
}

// NativesDir returns the flat native library directory for a version.
func (l Layout) NativesDir(d VersionDescriptor) string {
	if d.Kind == KindModpack {
		return filepath.Join(l.ModpackDir(d.ID), NativesDirName)
	}
	return filepath.Join(l.VersionDir(d.ID), NativesDirName)
}

// ManifestPath returns where the descriptor's own manifest JSON lives.
func (l Layout) ManifestPath(d VersionDescriptor) string {
	if d.Kind == KindModpack {
		return l.ModpackJSON(d.ID)
	}
	return l.VersionJSON(d.ID)
}

func hashPrefix(hash string) string {
	if len(hash) < 2 {
		return hash
	}
	return hash[:2]
}
