package domain

import "encoding/json"

// DefaultJavaMajor is used when a manifest does not declare a Java version.
const DefaultJavaMajor = 8

// Manifest is a resolved version manifest, after inheritsFrom merging.
type Manifest struct {
	ID               string         `json:"id"`
	InheritsFrom     string         `json:"inheritsFrom,omitempty"`
	Type             VersionKind    `json:"type,omitempty"`
	MainClass        string         `json:"mainClass,omitempty"`
	JavaVersion      *JavaVersion   `json:"javaVersion,omitempty"`
	AssetIndex       *AssetIndexRef `json:"assetIndex,omitempty"`
	Assets           string         `json:"assets,omitempty"`
	Downloads        *Downloads     `json:"downloads,omitempty"`
	Libraries        []Library      `json:"libraries,omitempty"`
	Modloader        string         `json:"modloader,omitempty"`
	ModloaderVersion string         `json:"modloaderVersion,omitempty"`

	// ClientOwner is the id of the manifest in the inheritance chain that
	// declares downloads.client. The client jar is stored under that id.
	ClientOwner string `json:"-"`
}

// JavaVersion declares the runtime a version needs.
type JavaVersion struct {
	Component    string `json:"component,omitempty"`
	MajorVersion int    `json:"majorVersion"`
}

// AssetIndexRef points at the asset index of a version.
type AssetIndexRef struct {
	ID        string      `json:"id"`
	URL       string      `json:"url"`
	Sha1      string      `json:"sha1,omitempty"`
	Size      json.Number `json:"size,omitempty"`
	TotalSize json.Number `json:"totalSize,omitempty"`
}

// Downloads holds the version's own downloadable jars.
type Downloads struct {
	Client *Artifact `json:"client,omitempty"`
	Server *Artifact `json:"server,omitempty"`
}

// Artifact describes a downloadable file: a library jar or the client itself.
type Artifact struct {
	// Path relative to the libraries folder. Not set for the client jar.
	Path string `json:"path,omitempty"`
	Sha1 string `json:"sha1,omitempty"`
	// Size in bytes.
	Size json.Number `json:"size,omitempty"`
	URL  string      `json:"url"`
}

// JavaMajor returns the required Java major version.
func (m *Manifest) JavaMajor() int {
	if m.JavaVersion == nil || m.JavaVersion.MajorVersion <= 0 {
		return DefaultJavaMajor
	}
	return m.JavaVersion.MajorVersion
}

// ClientURL returns the client jar download URL, if any.
func (m *Manifest) ClientURL() string {
	if m.Downloads == nil || m.Downloads.Client == nil {
		return ""
	}
	return m.Downloads.Client.URL
}

// AssetIndexID returns the asset index id, falling back to the legacy assets field.
func (m *Manifest) AssetIndexID() string {
	if m.AssetIndex != nil && m.AssetIndex.ID != "" {
		return m.AssetIndex.ID
	}
	return m.Assets
}

// AssetIndex is the downloaded index mapping asset names to content hashes.
type AssetIndex struct {
	Objects map[string]AssetObject `json:"objects"`
}

// AssetObject is one content-addressed asset.
type AssetObject struct {
	Hash string `json:"hash"`
	Size int64  `json:"size"`
}

// ValidAssetHash reports whether hash is a lowercase hex SHA-1 digest.
// Only valid hashes may name a file under the asset object store.
func ValidAssetHash(hash string) bool {
	if len(hash) != 40 {
		return false
	}
	for i := range len(hash) {
		c := hash[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
