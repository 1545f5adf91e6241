package domain

import "strings"

// Library is one entry of a manifest's libraries array.
type Library struct {
	// Name is the Maven coordinate group:artifact:version[:classifier].
	Name      string            `json:"name"`
	Downloads *LibraryDownloads `json:"downloads,omitempty"`
	Rules     []Rule            `json:"rules,omitempty"`
	// Natives maps an OS name to the classifier holding its native binaries.
	Natives map[string]string `json:"natives,omitempty"`
	// URL is the Maven repository base for libraries without pre-resolved downloads.
	URL string `json:"url,omitempty"`
}

// LibraryDownloads holds the pre-resolved downloads of a library.
type LibraryDownloads struct {
	Artifact    *Artifact            `json:"artifact,omitempty"`
	Classifiers map[string]*Artifact `json:"classifiers,omitempty"`
}

// Artifact returns the pre-resolved primary artifact, or nil.
func (l *Library) Artifact() *Artifact {
	if l.Downloads == nil || l.Downloads.Artifact == nil || l.Downloads.Artifact.URL == "" {
		return nil
	}
	return l.Downloads.Artifact
}

// NativeClassifier returns the classifier download carrying native binaries
// for the given platform, or nil when the library exposes none.
func (l *Library) NativeClassifier(p Platform) *Artifact {
	if l.Downloads == nil || len(l.Downloads.Classifiers) == 0 {
		return nil
	}
	key := "natives-" + p.OS
	if classifier, ok := l.Natives[p.OS]; ok {
		key = strings.ReplaceAll(classifier, "${arch}", p.Bits())
	}
	a, ok := l.Downloads.Classifiers[key]
	if !ok || a.URL == "" {
		return nil
	}
	return a
}

// Coordinate is a parsed Maven coordinate.
type Coordinate struct {
	Group      string
	Artifact   string
	Version    string
	Classifier string
	Extension  string
}

// ParseCoordinate parses group:artifact:version[:classifier][@extension].
func ParseCoordinate(name string) (Coordinate, error) {
	ext := "jar"
	if base, e, ok := strings.Cut(name, "@"); ok {
		name, ext = base, e
	}

	parts := strings.Split(name, ":")
	if len(parts) < 3 || len(parts) > 4 {
		return Coordinate{}, invalidCoordinate(name)
	}
	for _, p := range parts {
		if p == "" {
			return Coordinate{}, invalidCoordinate(name)
		}
	}

	c := Coordinate{
		Group:     parts[0],
		Artifact:  parts[1],
		Version:   parts[2],
		Extension: ext,
	}
	if len(parts) == 4 {
		c.Classifier = parts[3]
	}
	return c, nil
}

func invalidCoordinate(name string) error {
	return With(ErrInvalidCoordinate, "library", name)
}

// Key returns the deduplication identity group:artifact[:classifier].
// The version is excluded so the first seen version wins.
func (c Coordinate) Key() string {
	key := c.Group + ":" + c.Artifact
	if c.Classifier != "" {
		key += ":" + c.Classifier
	}
	return key
}

// MavenPath returns the standard repository-relative path of the coordinate.
func (c Coordinate) MavenPath() string {
	file := c.Artifact + "-" + c.Version
	if c.Classifier != "" {
		file += "-" + c.Classifier
	}
	file += "." + c.Extension

	return strings.ReplaceAll(c.Group, ".", "/") + "/" + c.Artifact + "/" + c.Version + "/" + file
}

// IsNatives reports whether the coordinate names a natives bundle.
func (c Coordinate) IsNatives() bool {
	return strings.HasPrefix(c.Classifier, "natives")
}
