// Package modpack ingests modpack archives of the common dialects into
// installed modpack folders with a launchable manifest.
package modpack

import (
	"archive/zip"
	"strings"

	"go.trai.ch/quarry/internal/adapters/archive"
	"go.trai.ch/quarry/internal/core/domain"
)

// Marker files.
const (
	ModrinthIndex    = "modrinth.index.json"
	CurseForgeIndex  = "manifest.json"
	MultiMCPack      = "mmc-pack.json"
	MultiMCInstance  = "instance.cfg"
	TechnicModpack   = "bin/modpack.jar"
	overridesPrefix  = "overrides/"
	multiMCGameDir   = ".minecraft/"
	multiMCGameDirV2 = "minecraft/"
)

// precedence is the fixed order in which dialect markers are checked.
var precedence = []struct {
	dialect domain.Dialect
	markers []string
}{
	{domain.DialectModrinth, []string{ModrinthIndex}},
	{domain.DialectCurseForge, []string{CurseForgeIndex}},
	{domain.DialectMultiMC, []string{MultiMCPack, MultiMCInstance}},
	{domain.DialectTechnic, []string{TechnicModpack}},
}

// metadataMarkers are never extracted as game files.
var metadataMarkers = map[string]bool{
	ModrinthIndex:   true,
	CurseForgeIndex: true,
	MultiMCPack:     true,
	MultiMCInstance: true,
}

// Detect returns the dialect of an archive. Markers count at the archive
// root or directly under its common root folder, and are checked in the
// order Modrinth, CurseForge, MultiMC, Technic.
func Detect(zr *zip.Reader) domain.Dialect {
	root := commonRoot(zr.File)
	names := make(map[string]bool, len(zr.File))
	for _, f := range zr.File {
		name := entryName(f)
		names[name] = true
		if root != "" {
			names[strings.TrimPrefix(name, root)] = true
		}
	}

	for _, p := range precedence {
		for _, marker := range p.markers {
			if names[marker] {
				return p.dialect
			}
		}
	}
	return domain.DialectUnknown
}

// commonRoot returns the top-level folder shared by every file entry,
// including its trailing slash, or "" when entries disagree or a file sits
// at the root.
func commonRoot(files []*zip.File) string {
	root := ""
	for _, f := range files {
		name := entryName(f)
		if f.FileInfo().IsDir() || archive.Ignored(name) {
			continue
		}
		slash := strings.IndexByte(name, '/')
		if slash < 0 {
			return ""
		}
		if root == "" {
			root = name[:slash+1]
			continue
		}
		if !strings.HasPrefix(name, root) {
			return ""
		}
	}
	return root
}

// find returns the entry named marker at the root or under root.
func find(zr *zip.Reader, marker string) *zip.File {
	root := commonRoot(zr.File)
	var nested *zip.File
	for _, f := range zr.File {
		name := entryName(f)
		if name == marker {
			return f
		}
		if root != "" && name == root+marker {
			nested = f
		}
	}
	return nested
}

func entryName(f *zip.File) string {
	return strings.TrimPrefix(strings.ReplaceAll(f.Name, `\`, "/"), "./")
}
