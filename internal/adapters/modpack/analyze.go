package modpack

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"go.trai.ch/quarry/internal/core/domain"
	"go.trai.ch/zerr"
)

type curseForgeManifest struct {
	Name      string `json:"name"`
	Minecraft struct {
		Version    string `json:"version"`
		ModLoaders []struct {
			ID      string `json:"id"`
			Primary bool   `json:"primary"`
		} `json:"modLoaders"`
	} `json:"minecraft"`
	Files []struct {
		ProjectID int  `json:"projectID"`
		FileID    int  `json:"fileID"`
		Required  bool `json:"required"`
	} `json:"files"`
}

type modrinthIndex struct {
	Name         string            `json:"name"`
	VersionID    string            `json:"versionId"`
	Files        []modrinthFile    `json:"files"`
	Dependencies map[string]string `json:"dependencies"`
}

type modrinthFile struct {
	Path      string   `json:"path"`
	Downloads []string `json:"downloads"`
	Env       *struct {
		Client string `json:"client"`
	} `json:"env,omitempty"`
	FileSize int64 `json:"fileSize"`
}

type multiMCPack struct {
	Components []struct {
		UID     string `json:"uid"`
		Version string `json:"version"`
	} `json:"components"`
}

// modrinthLoaders maps Modrinth dependency keys to loader names, in lookup order.
var modrinthLoaders = []struct{ key, loader string }{
	{"fabric-loader", domain.LoaderFabric},
	{"forge", domain.LoaderForge},
	{"neoforge", domain.LoaderNeoForge},
	{"quilt-loader", domain.LoaderQuilt},
}

// multiMCLoaders maps MultiMC component uids to loader names.
var multiMCLoaders = map[string]string{
	"net.fabricmc.fabric-loader": domain.LoaderFabric,
	"net.minecraftforge":         domain.LoaderForge,
	"net.neoforged":              domain.LoaderNeoForge,
	"org.quiltmc.quilt-loader":   domain.LoaderQuilt,
}

// Analyze reads the game version and loader an archive targets. Dialects
// without a machine-readable index yield an empty ModpackInfo.
func Analyze(zr *zip.Reader, d domain.Dialect) (domain.ModpackInfo, error) {
	switch d {
	case domain.DialectCurseForge:
		var m curseForgeManifest
		if err := decodeMarker(zr, CurseForgeIndex, &m); err != nil {
			return domain.ModpackInfo{}, err
		}
		info := domain.ModpackInfo{Name: m.Name, MinecraftVersion: m.Minecraft.Version}
		if len(m.Minecraft.ModLoaders) > 0 {
			info.Modloader, info.ModloaderVersion = SplitLoaderID(m.Minecraft.ModLoaders[0].ID)
		}
		return info, nil

	case domain.DialectModrinth:
		var idx modrinthIndex
		if err := decodeMarker(zr, ModrinthIndex, &idx); err != nil {
			return domain.ModpackInfo{}, err
		}
		info := domain.ModpackInfo{Name: idx.Name, MinecraftVersion: idx.Dependencies["minecraft"]}
		for _, l := range modrinthLoaders {
			if v, ok := idx.Dependencies[l.key]; ok {
				info.Modloader, info.ModloaderVersion = l.loader, v
				break
			}
		}
		return info, nil

	case domain.DialectMultiMC:
		if find(zr, MultiMCPack) == nil {
			return domain.ModpackInfo{}, nil
		}
		var pack multiMCPack
		if err := decodeMarker(zr, MultiMCPack, &pack); err != nil {
			return domain.ModpackInfo{}, err
		}
		var info domain.ModpackInfo
		for _, c := range pack.Components {
			if c.UID == "net.minecraft" {
				info.MinecraftVersion = c.Version
			} else if loader, ok := multiMCLoaders[c.UID]; ok && info.Modloader == "" {
				info.Modloader, info.ModloaderVersion = loader, c.Version
			}
		}
		return info, nil

	default:
		return domain.ModpackInfo{}, nil
	}
}

// SplitLoaderID splits a CurseForge loader id such as forge-47.2.0 into
// its loader name and version.
func SplitLoaderID(id string) (loader, version string) {
	name, ver, _ := strings.Cut(id, "-")
	return strings.ToLower(name), ver
}

func modrinthFiles(zr *zip.Reader) ([]modrinthFile, error) {
	var idx modrinthIndex
	if err := decodeMarker(zr, ModrinthIndex, &idx); err != nil {
		return nil, err
	}
	return idx.Files, nil
}

func decodeMarker(zr *zip.Reader, marker string, v any) error {
	f := find(zr, marker)
	if f == nil {
		return zerr.With(domain.With(domain.ErrModpackManifestInvalid, "marker", marker), "reason", "not found")
	}
	rc, err := f.Open()
	if err != nil {
		return zerr.With(errors.Join(domain.ErrModpackManifestInvalid, err), "marker", marker)
	}
	defer func() {
		_ = rc.Close()
	}()

	data, err := io.ReadAll(rc)
	if err != nil {
		return zerr.With(errors.Join(domain.ErrModpackManifestInvalid, err), "marker", marker)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return zerr.With(errors.Join(domain.ErrModpackManifestInvalid, err), "marker", marker)
	}
	return nil
}
