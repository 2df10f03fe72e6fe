package platform

import (
	"runtime"
	"testing"
)

func TestNamesAreUnique(t *testing.T) {
	seen := make(map[string]Platform)
	for _, p := range All {
		if prev, ok := seen[p.Name()]; ok {
			t.Errorf("name %q shared by %v and %v", p.Name(), prev, p)
		}
		seen[p.Name()] = p
	}
}

func TestCurrentMatchesRuntime(t *testing.T) {
	p, err := Current()
	if err != nil {
		t.Skipf("host platform not in supported set: %v", err)
	}
	if p.OS != runtime.GOOS || p.Arch != runtime.GOARCH {
		t.Errorf("Current() = %v, want %s/%s", p, runtime.GOOS, runtime.GOARCH)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		want    Platform
		wantErr bool
	}{
		{"linux-amd64", Platform{Linux, Amd64}, false},
		{"linux-arm64", Platform{Linux, Arm64}, false},
		{"macos-arm64", Platform{Darwin, Arm64}, false},
		{"darwin-x86_64", Platform{Darwin, Amd64}, false},
		{"windows-amd64", Platform{Windows, Amd64}, false},
		{"linux-aarch64", Platform{Linux, Arm64}, false},
		{"freebsd-amd64", Platform{}, true},
		{"linux-riscv64", Platform{}, true},
		{"linux", Platform{}, true},
		{"", Platform{}, true},
	}

	for _, tt := range tests {
		got, err := Parse(tt.name)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Parse(%q) succeeded, want error", tt.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestBinaryName(t *testing.T) {
	if got := (Platform{Linux, Amd64}).BinaryName(); got != "datadog-agent" {
		t.Errorf("linux binary name = %q", got)
	}
	if got := (Platform{Windows, Arm64}).BinaryName(); got != "datadog-agent.exe" {
		t.Errorf("windows binary name = %q", got)
	}
}

func TestXArch(t *testing.T) {
	if got := (Platform{Linux, Arm64}).XArch(); got != "aarch64" {
		t.Errorf("arm64 xarch = %q, want aarch64", got)
	}
	if got := (Platform{Linux, Amd64}).XArch(); got != "x86_64" {
		t.Errorf("amd64 xarch = %q, want x86_64", got)
	}
}

func TestUnsupportedErrorMessage(t *testing.T) {
	err := &UnsupportedError{OS: "plan9", Arch: "386"}
	if err.Error() != "unsupported platform: plan9/386" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}
