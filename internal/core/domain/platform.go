package domain

import (
	"runtime"
	"strings"
)

// Operating system names as they appear in manifest rules.
const (
	OSWindows = "windows"
	OSLinux   = "linux"
	OSMac     = "osx"
)

// RuleAction is the effect of a library rule.
type RuleAction string

const (
	// RuleAllow includes the library.
	RuleAllow RuleAction = "allow"
	// RuleDisallow excludes the library.
	RuleDisallow RuleAction = "disallow"
)

// Rule gates a library on the current platform.
type Rule struct {
	Action RuleAction `json:"action"`
	OS     *OSRule    `json:"os,omitempty"`
}

// OSRule is the OS constraint of a rule.
type OSRule struct {
	Name    string `json:"name,omitempty"`
	Arch    string `json:"arch,omitempty"`
	Version string `json:"version,omitempty"`
}

// Platform is the OS and architecture libraries are resolved for.
type Platform struct {
	OS   string
	Arch string
}

// CurrentPlatform maps the running GOOS and GOARCH to manifest names.
func CurrentPlatform() Platform {
	return PlatformFor(runtime.GOOS, runtime.GOARCH)
}

// PlatformFor maps a GOOS and GOARCH pair to manifest names.
func PlatformFor(goos, goarch string) Platform {
	p := Platform{Arch: goarch}
	switch goos {
	case "windows":
		p.OS = OSWindows
	case "darwin":
		p.OS = OSMac
	default:
		p.OS = OSLinux
	}
	return p
}

// Bits returns the value substituted for ${arch} in native classifiers.
func (p Platform) Bits() string {
	switch p.Arch {
	case "386", "arm":
		return "32"
	default:
		return "64"
	}
}

// NativeSuffixes returns the file suffixes of loadable native libraries.
func (p Platform) NativeSuffixes() []string {
	switch p.OS {
	case OSWindows:
		return []string{".dll"}
	case OSMac:
		return []string{".dylib", ".jnilib"}
	default:
		return []string{".so"}
	}
}

// IsNative reports whether name is a native library for this platform.
func (p Platform) IsNative(name string) bool {
	lower := strings.ToLower(name)
	for _, suffix := range p.NativeSuffixes() {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

// RenderingLibraries returns the file names of the rendering library the game cannot start without.
func (p Platform) RenderingLibraries() []string {
	switch p.OS {
	case OSWindows:
		return []string{"lwjgl.dll", "lwjgl64.dll"}
	case OSMac:
		return []string{"liblwjgl.dylib", "liblwjgl.jnilib"}
	default:
		return []string{"liblwjgl.so", "liblwjgl64.so"}
	}
}

// JavaExecutable returns the runtime executable path relative to a JRE root.
func (p Platform) JavaExecutable() string {
	if p.OS == OSWindows {
		return "bin/java.exe"
	}
	return "bin/java"
}
