// Package source acquires a tagged version of the upstream agent source
// tree, preferring a shallow git clone with a source-archive fallback.
package source

import (
	"context"
	"fmt"
	"os"

	"github.com/DataDog/agent-packager/internal/executor"
)

// gitEnv returns the environment snapshot for git invocations. Interactive
// credential prompts are disabled so clones fail fast in CI.
func gitEnv() []string {
	return append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
}

// Clone performs a shallow, tag-pinned clone of repoURL into destDir.
func Clone(ctx context.Context, repoURL, tag, destDir string) error {
	_, err := executor.Run(ctx, executor.Command{
		Name: "git",
		Args: []string{"clone", "--depth", "1", "--branch", tag, repoURL, destDir},
		Env:  gitEnv(),
	})
	if err != nil {
		return fmt.Errorf("git clone of %s at %s failed: %w", repoURL, tag, err)
	}
	return nil
}

// InitAndTag synthesizes minimal git metadata in an extracted source tree:
// an initialized repository with one commit tagged as the requested version.
// Build steps in the upstream tooling read tag and commit state, so an
// archive-sourced tree has to look like a clone.
func InitAndTag(ctx context.Context, dir, tag string) error {
	steps := [][]string{
		{"init"},
		{"config", "user.email", "build@localhost"},
		{"config", "user.name", "agent-packager"},
		{"add", "-A"},
		{"commit", "-q", "-m", "import " + tag},
		{"tag", tag},
	}
	for _, args := range steps {
		if _, err := executor.Run(ctx, executor.Command{
			Name: "git",
			Args: args,
			Dir:  dir,
			Env:  gitEnv(),
		}); err != nil {
			return fmt.Errorf("git %s failed in %s: %w", args[0], dir, err)
		}
	}
	return nil
}
