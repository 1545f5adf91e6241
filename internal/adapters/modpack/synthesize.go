package modpack

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.trai.ch/quarry/internal/adapters/archive"
	"go.trai.ch/quarry/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	// FabricProfileURL is the Fabric loader profile endpoint. Its verbs are
	// the game version and loader version.
	FabricProfileURL = "https://meta.fabricmc.net/v2/versions/loader/%s/%s/profile/json"
	// QuiltProfileURL is the Quilt loader profile endpoint.
	QuiltProfileURL = "https://meta.quiltmc.org/v3/versions/loader/%s/%s/profile/json"
	// DefaultFabricLoader is used when Fabric is inferred from the mods folder.
	DefaultFabricLoader = "0.15.7"
)

// stub is the manifest written for packs whose loader is not installed
// from a vendor profile. It inherits everything from the base version.
type stub struct {
	ID               string             `json:"id"`
	InheritsFrom     string             `json:"inheritsFrom"`
	Type             domain.VersionKind `json:"type"`
	Modloader        string             `json:"modloader,omitempty"`
	ModloaderVersion string             `json:"modloaderVersion,omitempty"`
}

// Synthesize writes the manifest of the modpack destID into its instance
// folder.
//
// Fabric and Quilt packs get the vendor loader profile, rewritten to carry
// the modpack id and type. Forge and NeoForge packs get a stub that records
// the loader identity and inherits the base version; the loader's installer
// libraries are not resolved, so they launch on the vanilla main class.
// Everything else gets a plain stub, unless no loader was detected and a
// jar in mods/ carries a Fabric marker, in which case Fabric is installed
// with DefaultFabricLoader.
func (i *Installer) Synthesize(ctx context.Context, info domain.ModpackInfo, destID string) error {
	dir := i.layout.ModpackDir(destID)
	target := i.layout.ModpackJSON(destID)

	base := info.MinecraftVersion
	if base == "" {
		base = domain.LatestRelease
	}

	loader, version := strings.ToLower(info.Modloader), info.ModloaderVersion
	if loader == "" {
		loader = scanMods(filepath.Join(dir, "mods"))
		switch loader {
		case domain.LoaderFabric:
			version = DefaultFabricLoader
			i.logger.Warn("no loader declared, Fabric mods found: installing Fabric " + DefaultFabricLoader)
		case "":
			i.logger.Warn("no loader declared, installing as vanilla " + base)
		default:
			i.logger.Warn("no loader declared, " + loader + " mods found")
		}
	}

	switch loader {
	case domain.LoaderFabric, domain.LoaderQuilt:
		if version == "" || base == domain.LatestRelease {
			i.logger.Warn(fmt.Sprintf("cannot fetch %s profile without game and loader versions, installing as vanilla", loader))
			return writeStub(target, stub{ID: destID, InheritsFrom: base, Type: domain.KindModpack})
		}
		return i.installProfile(ctx, loader, base, version, destID, target)
	case domain.LoaderForge, domain.LoaderNeoForge:
		return writeStub(target, stub{
			ID:               destID,
			InheritsFrom:     base,
			Type:             domain.KindModpack,
			Modloader:        loader,
			ModloaderVersion: version,
		})
	default:
		return writeStub(target, stub{ID: destID, InheritsFrom: base, Type: domain.KindModpack})
	}
}

func (i *Installer) installProfile(ctx context.Context, loader, base, version, destID, target string) error {
	format := i.fabricURL
	if loader == domain.LoaderQuilt {
		format = i.quiltURL
	}
	url := fmt.Sprintf(format, base, version)

	_ = os.Remove(target)
	if err := i.fetcher.Download(ctx, url, target); err != nil {
		return err
	}

	data, err := os.ReadFile(target) //nolint:gosec // path is derived from the cache layout
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "path", target)
	}
	var profile map[string]json.RawMessage
	if err := json.Unmarshal(data, &profile); err != nil {
		return zerr.With(errors.Join(domain.ErrManifestParseFailed, err), "loader", loader)
	}

	set := func(key, value string) {
		raw, _ := json.Marshal(value)
		profile[key] = raw
	}
	set("id", destID)
	set("type", string(domain.KindModpack))
	if _, ok := profile["inheritsFrom"]; !ok {
		set("inheritsFrom", base)
	}
	set("modloader", loader)
	set("modloaderVersion", version)

	out, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrManifestParseFailed.Error())
	}
	return archive.WriteFile(target, bytes.NewReader(out), domain.FilePerm)
}

func writeStub(target string, s stub) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrManifestParseFailed.Error())
	}
	return archive.WriteFile(target, bytes.NewReader(data), domain.FilePerm)
}

// modsToml is the part of META-INF/mods.toml that names the loader.
type modsToml struct {
	ModLoader    string `toml:"modLoader"`
	Dependencies map[string][]struct {
		ModID string `toml:"modId"`
	} `toml:"dependencies"`
}

// scanMods inspects the jars of a mods folder for loader markers. Fabric
// wins over any other loader.
func scanMods(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	found := ""
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".jar") {
			continue
		}
		loader := jarLoader(filepath.Join(dir, e.Name()))
		if loader == domain.LoaderFabric {
			return loader
		}
		if found == "" {
			found = loader
		}
	}
	return found
}

func jarLoader(path string) string {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return ""
	}
	defer func() {
		_ = zr.Close()
	}()

	var modsTOML *zip.File
	for _, f := range zr.File {
		switch f.Name {
		case "fabric.mod.json":
			return domain.LoaderFabric
		case "META-INF/neoforge.mods.toml":
			return domain.LoaderNeoForge
		case "META-INF/mods.toml":
			modsTOML = f
		}
	}
	if modsTOML == nil {
		return ""
	}
	return forgeFamily(modsTOML)
}

// forgeFamily reads mods.toml to tell NeoForge mods from Forge mods.
func forgeFamily(f *zip.File) string {
	rc, err := f.Open()
	if err != nil {
		return domain.LoaderForge
	}
	defer func() {
		_ = rc.Close()
	}()

	data, err := io.ReadAll(rc)
	if err != nil {
		return domain.LoaderForge
	}
	var m modsToml
	if err := toml.Unmarshal(data, &m); err != nil {
		return domain.LoaderForge
	}
	for _, deps := range m.Dependencies {
		for _, d := range deps {
			if d.ModID == domain.LoaderNeoForge {
				return domain.LoaderNeoForge
			}
		}
	}
	return domain.LoaderForge
}
