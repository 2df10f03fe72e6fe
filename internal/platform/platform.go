// Package platform identifies build targets as (OS, architecture) pairs and
// maps them to the naming conventions used by the agent build tooling.
package platform

import (
	"fmt"
	"runtime"
)

// Supported operating systems.
const (
	Linux   = "linux"
	Darwin  = "darwin"
	Windows = "windows"
)

// Supported architectures, in GOARCH form.
const (
	Amd64 = "amd64"
	Arm64 = "arm64"
)

// BinaryBaseName is the file name of the agent binary, without extension.
const BinaryBaseName = "datadog-agent"

// Platform identifies a build or runtime target. Values are normalized at
// construction; downstream code only ever sees the canonical OS/Arch strings.
type Platform struct {
	OS   string
	Arch string
}

// All is the fixed set of supported platforms.
var All = []Platform{
	{Linux, Amd64},
	{Linux, Arm64},
	{Darwin, Amd64},
	{Darwin, Arm64},
	{Windows, Amd64},
	{Windows, Arm64},
}

// UnsupportedError is returned for OS/arch combinations outside the
// supported set.
type UnsupportedError struct {
	OS   string
	Arch string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported platform: %s/%s", e.OS, e.Arch)
}

// Current detects the host platform. It fails with an UnsupportedError for
// any OS/arch combination outside the supported set.
func Current() (Platform, error) {
	p := Platform{OS: runtime.GOOS, Arch: runtime.GOARCH}
	if !p.Supported() {
		return Platform{}, &UnsupportedError{OS: runtime.GOOS, Arch: runtime.GOARCH}
	}
	return p, nil
}

// osAliases maps OS names as reported by external tooling to canonical form.
var osAliases = map[string]string{
	"macos": Darwin,
	"osx":   Darwin,
	"win":   Windows,
	"win32": Windows,
}

// archAliases maps uname-style architecture names to GOARCH form.
var archAliases = map[string]string{
	"x86_64":  Amd64,
	"aarch64": Arm64,
}

// Parse parses a canonical "os-arch" name, accepting common aliases such as
// "macos-x86_64". The returned Platform is always in canonical form.
func Parse(name string) (Platform, error) {
	var osName, archName string
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '-' {
			osName, archName = name[:i], name[i+1:]
			break
		}
	}
	if osName == "" || archName == "" {
		return Platform{}, fmt.Errorf("invalid platform name %q (expected os-arch)", name)
	}
	if canonical, ok := osAliases[osName]; ok {
		osName = canonical
	}
	if canonical, ok := archAliases[archName]; ok {
		archName = canonical
	}
	p := Platform{OS: osName, Arch: archName}
	if !p.Supported() {
		return Platform{}, &UnsupportedError{OS: osName, Arch: archName}
	}
	return p, nil
}

// Supported reports whether the platform is in the supported set.
func (p Platform) Supported() bool {
	for _, s := range All {
		if s == p {
			return true
		}
	}
	return false
}

// Name returns the canonical "os-arch" name. Names are unique across All.
func (p Platform) Name() string {
	return p.OS + "-" + p.Arch
}

// GoArch returns the architecture string consumed by the build tooling.
func (p Platform) GoArch() string {
	return p.Arch
}

// xarch maps GOARCH names to the hardware names used in cross-toolchain
// triples (e.g. aarch64-linux-gnu-gcc).
var xarch = map[string]string{
	Amd64: "x86_64",
	Arm64: "aarch64",
}

// XArch returns the hardware architecture name used by cross toolchains.
func (p Platform) XArch() string {
	return xarch[p.Arch]
}

// BinaryName returns the platform-specific agent binary file name. Only
// Windows binaries carry an extension.
func (p Platform) BinaryName() string {
	if p.OS == Windows {
		return BinaryBaseName + ".exe"
	}
	return BinaryBaseName
}

func (p Platform) String() string {
	return p.Name()
}
