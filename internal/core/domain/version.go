package domain

// VersionKind classifies a version descriptor.
type VersionKind string

const (
	// KindRelease is a stable game release.
	KindRelease VersionKind = "release"
	// KindSnapshot is a development snapshot.
	KindSnapshot VersionKind = "snapshot"
	// KindOldAlpha is a historic alpha build.
	KindOldAlpha VersionKind = "old_alpha"
	// KindOldBeta is a historic beta build.
	KindOldBeta VersionKind = "old_beta"
	// KindModpack is a locally installed modpack.
	KindModpack VersionKind = "modpack"
)

const (
	// LatestRelease is an alias resolved through the version list.
	LatestRelease = "latest-release"
	// LatestSnapshot is an alias resolved through the version list.
	LatestSnapshot = "latest-snapshot"
)

// VersionDescriptor identifies one launchable version.
type VersionDescriptor struct {
	ID        string      `json:"id"`
	Kind      VersionKind `json:"type"`
	SourceURL string      `json:"url,omitempty"`
}

// VersionList is the remote index of all published versions.
type VersionList struct {
	Latest struct {
		Release  string `json:"release"`
		Snapshot string `json:"snapshot"`
	} `json:"latest"`
	Versions []VersionDescriptor `json:"versions"`
}

// Find returns the descriptor for id, resolving the latest-* aliases.
func (l *VersionList) Find(id string) (VersionDescriptor, bool) {
	switch id {
	case LatestRelease:
		id = l.Latest.Release
	case LatestSnapshot:
		id = l.Latest.Snapshot
	}
	for _, v := range l.Versions {
		if v.ID == id {
			return v, true
		}
	}
	return VersionDescriptor{}, false
}
