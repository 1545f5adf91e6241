package domain_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/quarry/internal/core/domain"
)

func TestLayoutPaths(t *testing.T) {
	root := filepath.Join("game")
	l := domain.NewLayout(root)
	vanilla := domain.VersionDescriptor{ID: "1.20.1", Kind: domain.KindRelease}
	pack := domain.VersionDescriptor{ID: "pack", Kind: domain.KindModpack}

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"VersionJSON", l.VersionJSON("1.20.1"), filepath.Join(root, "versions", "1.20.1", "1.20.1.json")},
		{"VersionJar", l.VersionJar("1.20.1"), filepath.Join(root, "versions", "1.20.1", "1.20.1.jar")},
		{
			"LibraryPath",
			l.LibraryPath("org/ow2/asm/asm/9.6/asm-9.6.jar"),
			filepath.Join(root, "libraries", "org", "ow2", "asm", "asm", "9.6", "asm-9.6.jar"),
		},
		{"AssetIndexPath", l.AssetIndexPath("5"), filepath.Join(root, "assets", "indexes", "5.json")},
		{"AssetObjectPath", l.AssetObjectPath("abcdef"), filepath.Join(root, "assets", "objects", "ab", "abcdef")},
		{"RuntimeDir", l.RuntimeDir(17), filepath.Join(root, "runtimes", "java-17")},
		{"ModpackJSON", l.ModpackJSON("pack"), filepath.Join(root, "modpacks", "pack", "pack.json")},
		{"InstanceDirVanilla", l.InstanceDir(vanilla), root},
		{"InstanceDirModpack", l.InstanceDir(pack), filepath.Join(root, "modpacks", "pack")},
		{"NativesDirVanilla", l.NativesDir(vanilla), filepath.Join(root, "versions", "1.20.1", "natives")},
		{"NativesDirModpack", l.NativesDir(pack), filepath.Join(root, "modpacks", "pack", "natives")},
		{"ManifestPathModpack", l.ManifestPath(pack), filepath.Join(root, "modpacks", "pack", "pack.json")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.got)
		})
	}
}
