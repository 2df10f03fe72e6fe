package source

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/DataDog/agent-packager/internal/output"
	"github.com/DataDog/agent-packager/internal/release"
)

// Downloader fetches a tagged upstream source tree into a target directory.
type Downloader struct {
	client     *release.Client
	httpClient *http.Client
	logger     *output.Logger
}

// NewDownloader creates a Downloader using the given release client.
func NewDownloader(client *release.Client, logger *output.Logger) *Downloader {
	if logger == nil {
		logger = output.DefaultLogger
	}
	return &Downloader{
		client:     client,
		httpClient: &http.Client{Timeout: 30 * time.Minute},
		logger:     logger,
	}
}

// Download places the source tree for version into targetDir and returns the
// resolved path. A pre-existing targetDir is removed entirely first; partial
// trees are never reused, so the result is the fresh tree regardless of
// prior state. Clone failures fall back to the tagged source archive; if the
// fallback fails too, the error is fatal for this build.
func (d *Downloader) Download(ctx context.Context, version, targetDir string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(targetDir), 0755); err != nil {
		return "", fmt.Errorf("failed to create source parent directory: %w", err)
	}
	if _, err := os.Lstat(targetDir); err == nil {
		d.logger.Debug("Removing stale source tree at %s", targetDir)
		if err := os.RemoveAll(targetDir); err != nil {
			return "", fmt.Errorf("failed to remove stale source tree: %w", err)
		}
	}

	repoURL := d.client.RepoURL()
	d.logger.Info("Cloning %s at %s...", repoURL, version)
	cloneErr := Clone(ctx, repoURL, version, targetDir)
	if cloneErr == nil {
		return targetDir, nil
	}

	d.logger.Warn("Clone failed (%v), falling back to source archive", cloneErr)
	if err := os.RemoveAll(targetDir); err != nil {
		return "", fmt.Errorf("failed to clean partial clone: %w", err)
	}
	if err := d.downloadAndExtract(ctx, version, targetDir); err != nil {
		return "", fmt.Errorf("source archive fallback failed: %w", err)
	}

	// The upstream build tooling reads git state for version stamping.
	if err := InitAndTag(ctx, targetDir, version); err != nil {
		return "", fmt.Errorf("failed to synthesize git metadata: %w", err)
	}

	return targetDir, nil
}

func (d *Downloader) downloadAndExtract(ctx context.Context, version, targetDir string) error {
	url := d.client.TarballURL(version)

	tmp, err := os.CreateTemp("", "datadog-agent-*.tar.gz")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := downloadFile(ctx, d.httpClient, url, tmpPath); err != nil {
		return err
	}

	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return fmt.Errorf("failed to create source directory: %w", err)
	}
	d.logger.Debug("Extracting %s into %s", tmpPath, targetDir)
	if err := extractArchive(tmpPath, targetDir); err != nil {
		return err
	}
	return nil
}
