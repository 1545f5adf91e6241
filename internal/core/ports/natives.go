package ports

//go:generate mockgen -source=natives.go -destination=mocks/mock_natives.go -package=mocks

// NativeExtractor extracts platform native binaries from library archives.
type NativeExtractor interface {
	// Extract writes every native entry of archive into targetDir by basename.
	// It returns the number of files written.
	Extract(archive, targetDir string) (int, error)

	// HasRenderingLibrary reports whether dir holds the rendering library
	// the game cannot start without.
	HasRenderingLibrary(dir string) bool
}
