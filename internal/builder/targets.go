package builder

import (
	"os/exec"

	"github.com/DataDog/agent-packager/internal/platform"
)

// targetSpec is the per-OS-family capability record the shared build
// pipeline is parameterized with. The set of specs is closed; adding a new
// OS family means adding a spec here.
type targetSpec struct {
	os string

	// envOverrides returns OS-specific environment on top of the base
	// cross-compilation set (compiler selection, cross toolchain prefixes).
	envOverrides func(host, target platform.Platform) map[string]string

	// precondition validates the (host, target) pair before any work starts.
	precondition func(host, target platform.Platform) error

	// crossPrefix returns the cross-toolchain command prefix for building
	// target natively on a host with a different OS, and whether such a
	// toolchain exists for this OS family at all.
	crossPrefix func(target platform.Platform) (string, bool)

	// dockerfile is the container build definition used when the host has no
	// usable cross toolchain. Empty means the containerized path is not
	// available for this family.
	dockerfile string
}

const linuxDockerfile = `FROM ubuntu:22.04
ENV DEBIAN_FRONTEND=noninteractive
RUN apt-get update && apt-get install -y --no-install-recommends \
    build-essential ca-certificates curl git golang-go \
    gcc-aarch64-linux-gnu g++-aarch64-linux-gnu \
    python3 python3-pip \
    && rm -rf /var/lib/apt/lists/*
RUN pip3 install invoke
WORKDIR /src
`

const windowsDockerfile = `FROM ubuntu:22.04
ENV DEBIAN_FRONTEND=noninteractive
RUN apt-get update && apt-get install -y --no-install-recommends \
    build-essential ca-certificates curl git golang-go \
    mingw-w64 \
    python3 python3-pip \
    && rm -rf /var/lib/apt/lists/*
RUN pip3 install invoke
WORKDIR /src
`

var targetSpecs = map[string]*targetSpec{
	platform.Linux: {
		os:         platform.Linux,
		dockerfile: linuxDockerfile,
		envOverrides: func(host, target platform.Platform) map[string]string {
			if host.OS == platform.Linux && host.Arch == target.Arch {
				return nil
			}
			prefix := target.XArch() + "-linux-gnu-"
			return map[string]string{
				"CC":  prefix + "gcc",
				"CXX": prefix + "g++",
			}
		},
		precondition: func(host, target platform.Platform) error { return nil },
		crossPrefix: func(target platform.Platform) (string, bool) {
			return target.XArch() + "-linux-gnu-", true
		},
	},
	platform.Darwin: {
		os: platform.Darwin,
		envOverrides: func(host, target platform.Platform) map[string]string {
			return map[string]string{
				"CC":  "clang",
				"CXX": "clang++",
			}
		},
		precondition: func(host, target platform.Platform) error {
			if host.OS != platform.Darwin {
				return &PreconditionError{
					Platform: target.Name(),
					Reason:   "macOS binaries can only be built on a macOS host",
					Hint:     "run this build on a macOS machine or CI runner",
				}
			}
			if _, err := lookPath("clang"); err != nil {
				return &PreconditionError{
					Platform: target.Name(),
					Reason:   "clang not found",
					Hint:     "install the Xcode Command Line Tools: xcode-select --install",
				}
			}
			return nil
		},
		// No cross toolchain targets darwin from another OS, and no
		// container image can satisfy the Apple toolchain license.
		crossPrefix: func(target platform.Platform) (string, bool) { return "", false },
	},
	platform.Windows: {
		os:         platform.Windows,
		dockerfile: windowsDockerfile,
		envOverrides: func(host, target platform.Platform) map[string]string {
			if host.OS == platform.Windows {
				return nil
			}
			prefix := target.XArch() + "-w64-mingw32-"
			return map[string]string{
				"CC":  prefix + "gcc",
				"CXX": prefix + "g++",
			}
		},
		precondition: func(host, target platform.Platform) error { return nil },
		crossPrefix: func(target platform.Platform) (string, bool) {
			return target.XArch() + "-w64-mingw32-", true
		},
	},
}

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// specFor maps an OS-family tag to its build spec. Unknown tags fail fast;
// this is the single extension point for new OS families.
func specFor(osName string) (*targetSpec, error) {
	spec, ok := targetSpecs[osName]
	if !ok {
		return nil, &platform.UnsupportedError{OS: osName, Arch: "*"}
	}
	return spec, nil
}

// useContainer reports whether the build for target must run in a container:
// host and target OS differ and no native cross toolchain for the target is
// installed. Same-OS builds never use the container path.
func useContainer(host, target platform.Platform, spec *targetSpec) bool {
	if host.OS == target.OS {
		return false
	}
	if spec.dockerfile == "" {
		return false
	}
	prefix, ok := spec.crossPrefix(target)
	if !ok {
		return true
	}
	if _, err := lookPath(prefix + "gcc"); err != nil {
		return true
	}
	return false
}
