package source

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"
)

// writeTestTarball creates a gzip tarball with the given entries, all nested
// under a single top-level directory the way GitHub tag archives are.
func writeTestTarball(t *testing.T, path, topDir string, files map[string]string) {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	if err := tw.WriteHeader(&tar.Header{
		Name:     topDir + "/",
		Typeflag: tar.TypeDir,
		Mode:     0755,
	}); err != nil {
		t.Fatalf("write dir header: %v", err)
	}
	for name, content := range files {
		hdr := &tar.Header{
			Name: topDir + "/" + name,
			Mode: 0644,
			Size: int64(len(content)),
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("write header: %v", err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatalf("write content: %v", err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("close tar: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("close gzip: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("write tarball: %v", err)
	}
}

func TestExtractArchiveStripsTopDir(t *testing.T) {
	dir := t.TempDir()
	tarball := filepath.Join(dir, "src.tar.gz")
	writeTestTarball(t, tarball, "datadog-agent-7.55.2", map[string]string{
		"go.mod":            "module github.com/DataDog/datadog-agent\n",
		"tasks/agent.py":    "# build task\n",
		"cmd/agent/main.go": "package main\n",
	})

	dest := filepath.Join(dir, "out")
	if err := os.MkdirAll(dest, 0755); err != nil {
		t.Fatal(err)
	}
	if err := extractArchive(tarball, dest); err != nil {
		t.Fatalf("extractArchive failed: %v", err)
	}

	for _, name := range []string{"go.mod", "tasks/agent.py", "cmd/agent/main.go"} {
		if _, err := os.Stat(filepath.Join(dest, name)); err != nil {
			t.Errorf("expected %s after extraction: %v", name, err)
		}
	}
	// The wrapper directory itself must not survive.
	if _, err := os.Stat(filepath.Join(dest, "datadog-agent-7.55.2")); err == nil {
		t.Error("top-level wrapper directory was not stripped")
	}
}

func TestExtractArchiveRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	tarball := filepath.Join(dir, "evil.tar.gz")
	writeTestTarball(t, tarball, "pkg", map[string]string{
		"../../escape.txt": "nope",
	})

	dest := filepath.Join(dir, "out")
	if err := os.MkdirAll(dest, 0755); err != nil {
		t.Fatal(err)
	}
	if err := extractArchive(tarball, dest); err == nil {
		t.Fatal("expected traversal error")
	}
}

func TestExtractArchiveUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "src.zip")
	if err := os.WriteFile(path, []byte("not a tarball"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := extractArchive(path, dir); err == nil {
		t.Fatal("expected unsupported format error")
	}
}

func TestStripTopDir(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"datadog-agent-7.55.2/go.mod", "go.mod"},
		{"datadog-agent-7.55.2/tasks/agent.py", "tasks/agent.py"},
		{"file-at-root", ""},
		{"./wrapped/inner.txt", "inner.txt"},
	}
	for _, tt := range tests {
		if got := stripTopDir(tt.in); got != tt.want {
			t.Errorf("stripTopDir(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
