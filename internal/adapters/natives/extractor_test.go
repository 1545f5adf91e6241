package natives_test

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/quarry/internal/adapters/natives"
	"go.trai.ch/quarry/internal/core/domain"
)

var linux = domain.Platform{OS: domain.OSLinux, Arch: "amd64"}

// writeJar writes entries in the given order so traversal tests are deterministic.
func writeJar(t *testing.T, path string, entries ...[2]string) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e[0])
		require.NoError(t, err)
		_, err = w.Write([]byte(e[1]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), domain.FilePerm))
}

func TestExtract_FlattensNativeEntries(t *testing.T) {
	dir := t.TempDir()
	jar := filepath.Join(dir, "lwjgl-natives-linux.jar")
	writeJar(t, jar,
		[2]string{"linux/x64/org/lwjgl/liblwjgl.so", "elf"},
		[2]string{"liblwjgl_opengl.so", "elf"},
		[2]string{"windows/lwjgl.dll", "pe"},
		[2]string{"META-INF/MANIFEST.MF", "Manifest-Version: 1.0"},
		[2]string{"META-INF/liblwjgl.so.sha1", "abc"},
		[2]string{"org/lwjgl/Version.class", "cafebabe"},
	)

	target := filepath.Join(dir, "natives")
	ex := natives.New(linux)
	n, err := ex.Extract(jar, target)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	entries, err := os.ReadDir(target)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"liblwjgl.so", "liblwjgl_opengl.so"}, names)
	assert.True(t, ex.HasRenderingLibrary(target))
}

func TestExtract_RejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	jar := filepath.Join(dir, "evil.jar")
	writeJar(t, jar,
		[2]string{"../../escape.so", "elf"},
		[2]string{"liblwjgl.so", "elf"},
	)

	target := filepath.Join(dir, "deep", "natives")
	_, err := natives.New(linux).Extract(jar, target)
	require.ErrorIs(t, err, domain.ErrArchiveTraversal)

	assert.NoFileExists(t, filepath.Join(dir, "escape.so"))
	assert.NoFileExists(t, filepath.Join(dir, "deep", "escape.so"))
	assert.NoFileExists(t, filepath.Join(target, "liblwjgl.so"))
}

func TestExtract_MissingArchive(t *testing.T) {
	_, err := natives.New(linux).Extract(filepath.Join(t.TempDir(), "nope.jar"), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrArchiveOpenFailed.Error())
}

func TestHasRenderingLibrary(t *testing.T) {
	tests := []struct {
		name     string
		platform domain.Platform
		files    []string
		want     bool
	}{
		{"linux present", linux, []string{"liblwjgl64.so"}, true},
		{"linux absent", linux, []string{"libopenal.so"}, false},
		{"windows present", domain.Platform{OS: domain.OSWindows}, []string{"lwjgl64.dll"}, true},
		{"mac present", domain.Platform{OS: domain.OSMac}, []string{"liblwjgl.dylib"}, true},
		{"empty", linux, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, f := range tt.files {
				require.NoError(t, os.WriteFile(filepath.Join(dir, f), nil, domain.FilePerm))
			}
			assert.Equal(t, tt.want, natives.New(tt.platform).HasRenderingLibrary(dir))
		})
	}
}
