package domain

// Dialect is the archive convention a modpack was packaged with.
type Dialect int

const (
	// DialectUnknown carries no recognized marker.
	DialectUnknown Dialect = iota
	// DialectModrinth is marked by modrinth.index.json.
	DialectModrinth
	// DialectCurseForge is marked by manifest.json.
	DialectCurseForge
	// DialectMultiMC is marked by mmc-pack.json or instance.cfg.
	DialectMultiMC
	// DialectTechnic is marked by bin/modpack.jar.
	DialectTechnic
)

func (d Dialect) String() string {
	switch d {
	case DialectModrinth:
		return "modrinth"
	case DialectCurseForge:
		return "curseforge"
	case DialectMultiMC:
		return "multimc"
	case DialectTechnic:
		return "technic"
	default:
		return "unknown"
	}
}

// Mod loader identities.
const (
	LoaderFabric   = "fabric"
	LoaderForge    = "forge"
	LoaderNeoForge = "neoforge"
	LoaderQuilt    = "quilt"
)

// ModpackInfo is what an archive says about the game it targets.
// Empty loader fields describe a vanilla pack.
type ModpackInfo struct {
	Name             string `json:"name,omitempty"`
	MinecraftVersion string `json:"minecraftVersion,omitempty"`
	Modloader        string `json:"modloader,omitempty"`
	ModloaderVersion string `json:"modloaderVersion,omitempty"`
}

// RemoteModpack is one entry of a remote modpack catalog.
type RemoteModpack struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Version          string `json:"version"`
	MinecraftVersion string `json:"minecraftVersion,omitempty"`
	Description      string `json:"description"`
	DownloadURL      string `json:"downloadUrl"`
	IconURL          string `json:"iconUrl,omitempty"`
}

// InstanceMetadata is the cosmetic record of an installed version.
type InstanceMetadata struct {
	CustomName string      `json:"customName"`
	VersionID  string      `json:"versionId"`
	Type       VersionKind `json:"type"`
}

// Instance is an installed version together with its display name.
type Instance struct {
	Descriptor  VersionDescriptor
	DisplayName string
}
