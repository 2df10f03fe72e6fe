package builder

import (
	"errors"
	"testing"

	"github.com/DataDog/agent-packager/internal/platform"
)

func withLookPath(t *testing.T, fn func(string) (string, error)) {
	t.Helper()
	orig := lookPath
	lookPath = fn
	t.Cleanup(func() { lookPath = orig })
}

func TestSpecForUnknownOS(t *testing.T) {
	_, err := specFor("plan9")
	var unsupported *platform.UnsupportedError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedError, got %v", err)
	}
}

func TestUseContainerSameOSNever(t *testing.T) {
	withLookPath(t, func(string) (string, error) { return "", errors.New("not found") })

	host := platform.Platform{OS: platform.Linux, Arch: platform.Amd64}
	target := platform.Platform{OS: platform.Linux, Arch: platform.Arm64}
	spec, _ := specFor(platform.Linux)

	if useContainer(host, target, spec) {
		t.Error("same-OS build must never use the container path")
	}
}

func TestUseContainerCrossOSWithoutToolchain(t *testing.T) {
	withLookPath(t, func(string) (string, error) { return "", errors.New("not found") })

	host := platform.Platform{OS: platform.Darwin, Arch: platform.Arm64}
	target := platform.Platform{OS: platform.Windows, Arch: platform.Amd64}
	spec, _ := specFor(platform.Windows)

	if !useContainer(host, target, spec) {
		t.Error("cross-OS build without a toolchain must use the container path")
	}
}

func TestUseContainerCrossOSWithToolchain(t *testing.T) {
	withLookPath(t, func(tool string) (string, error) {
		if tool == "x86_64-w64-mingw32-gcc" {
			return "/usr/bin/" + tool, nil
		}
		return "", errors.New("not found")
	})

	host := platform.Platform{OS: platform.Linux, Arch: platform.Amd64}
	target := platform.Platform{OS: platform.Windows, Arch: platform.Amd64}
	spec, _ := specFor(platform.Windows)

	if useContainer(host, target, spec) {
		t.Error("installed cross toolchain must keep the build native")
	}
}

func TestDarwinPreconditionOnForeignHost(t *testing.T) {
	spec, _ := specFor(platform.Darwin)
	host := platform.Platform{OS: platform.Linux, Arch: platform.Amd64}
	target := platform.Platform{OS: platform.Darwin, Arch: platform.Arm64}

	err := spec.precondition(host, target)
	var pre *PreconditionError
	if !errors.As(err, &pre) {
		t.Fatalf("expected PreconditionError, got %v", err)
	}
	if pre.Hint == "" {
		t.Error("precondition error must carry a remediation hint")
	}
}

func TestDarwinPreconditionMissingClang(t *testing.T) {
	withLookPath(t, func(string) (string, error) { return "", errors.New("not found") })

	spec, _ := specFor(platform.Darwin)
	host := platform.Platform{OS: platform.Darwin, Arch: platform.Arm64}

	err := spec.precondition(host, host)
	var pre *PreconditionError
	if !errors.As(err, &pre) {
		t.Fatalf("expected PreconditionError, got %v", err)
	}
}
