package platform

import (
	"fmt"
	"runtime"
	"slices"
	"strings"
)

// Platform represents a target platform with OS and Architecture, using Go's GOOS/GOARCH names.
type Platform struct {
	OS   string `yaml:"os" json:"os" mapstructure:"os"`
	Arch string `yaml:"arch" json:"arch" mapstructure:"arch"`
}

// CurrentPlatform returns the current platform (OS and architecture)
func CurrentPlatform() Platform {
	return Platform{
		OS:   NormalizeOS(runtime.GOOS),
		Arch: NormalizeArch(runtime.GOARCH),
	}
}

// String returns a string representation of the platform
func (p Platform) String() string {
	return fmt.Sprintf("%s/%s", p.OS, p.Arch)
}

// ManifestOS returns the OS name used by version manifest rules.
// Platforms without a manifest name of their own (the BSDs) return their Go name, which no rule matches.
func (p Platform) ManifestOS() string {
	switch p.OS {
	case OSLinux:
		return ManifestOSLinux
	case OSWindows:
		return ManifestOSWindows
	case OSDarwin:
		return ManifestOSMac
	default:
		return p.OS
	}
}

// NativeExtensions returns the shared-object file extensions loaded by the JVM on this platform.
func (p Platform) NativeExtensions() []string {
	switch {
	case p.OS == OSWindows:
		return []string{".dll"}
	case p.OS == OSDarwin:
		return []string{".dylib", ".jnilib"}
	default:
		return []string{".so"}
	}
}

// IsNativeLibrary reports whether name carries one of the platform's native extensions.
func (p Platform) IsNativeLibrary(name string) bool {
	lower := strings.ToLower(name)
	return slices.ContainsFunc(p.NativeExtensions(), func(ext string) bool {
		return strings.HasSuffix(lower, ext)
	})
}

// DiscoOS returns the operating_system value understood by the foojay Disco API.
func (p Platform) DiscoOS() string {
	if p.OS == OSDarwin {
		return "macos"
	}
	return p.OS
}

// DiscoArch returns the architecture value understood by the foojay Disco API.
func (p Platform) DiscoArch() string {
	switch p.Arch {
	case ArchAMD64:
		return "x86-64"
	case Arch386:
		return "x86"
	case ArchARM64:
		return "aarch64"
	default:
		return p.Arch
	}
}

// NativeArch returns the architecture tag native jars use in classifiers and entry paths,
// such as natives-windows-arm64 or linux/x64/.
func (p Platform) NativeArch() string {
	switch p.Arch {
	case ArchAMD64:
		return "x64"
	case Arch386:
		return "x86"
	case ArchARM:
		return "arm32"
	default:
		return p.Arch
	}
}

// ArchiveType returns the JDK archive format published for the platform.
func (p Platform) ArchiveType() string {
	if p.OS == OSWindows {
		return "zip"
	}
	return "tar.gz"
}

// ExecutableSuffix returns ".exe" on Windows and an empty string elsewhere.
func (p Platform) ExecutableSuffix() string {
	if p.OS == OSWindows {
		return ".exe"
	}
	return ""
}

// NormalizeOS normalizes OS names to Go's GOOS spelling
func NormalizeOS(os string) string {
	os = strings.ToLower(strings.TrimSpace(os))
	switch os {
	case "macos", "osx", "mac":
		return OSDarwin
	case "win":
		return OSWindows
	default:
		return os
	}
}

// NormalizeArch normalizes architecture names to Go's GOARCH spelling
func NormalizeArch(arch string) string {
	arch = strings.ToLower(strings.TrimSpace(arch))
	switch arch {
	case "x86_64", "x64", "x86-64":
		return ArchAMD64
	case "x86", "i386", "i486", "i586", "i686":
		return Arch386
	case "aarch64":
		return ArchARM64
	}
	if strings.HasPrefix(arch, "armv") {
		return ArchARM
	}
	return arch
}
