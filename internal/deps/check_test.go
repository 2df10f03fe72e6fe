package deps

import (
	"errors"
	"testing"

	"github.com/DataDog/agent-packager/internal/output"
	"github.com/DataDog/agent-packager/internal/platform"
)

func TestCheckReportsMissingWithoutFailing(t *testing.T) {
	orig := lookPath
	defer func() { lookPath = orig }()

	lookPath = func(tool string) (string, error) {
		if tool == "python3" || tool == "gcc" {
			return "", errors.New("not found")
		}
		return "/usr/bin/" + tool, nil
	}

	missing := Check(platform.Platform{OS: platform.Linux, Arch: platform.Amd64}, output.NewLogger())

	want := map[string]bool{"python3": true, "gcc": true}
	if len(missing) != len(want) {
		t.Fatalf("missing = %v, want python3 and gcc", missing)
	}
	for _, tool := range missing {
		if !want[tool] {
			t.Errorf("unexpected missing tool %q", tool)
		}
	}
}

func TestCheckAllPresent(t *testing.T) {
	orig := lookPath
	defer func() { lookPath = orig }()

	lookPath = func(tool string) (string, error) { return "/usr/bin/" + tool, nil }

	if missing := Check(platform.Platform{OS: platform.Darwin, Arch: platform.Arm64}, output.NewLogger()); missing != nil {
		t.Errorf("missing = %v, want none", missing)
	}
}
