// Package git reads repository metadata used to seed project values. It uses
// the go-git library so no git binary is required.
package git

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
)

// DefaultRemote is the remote consulted for owner and repository names.
const DefaultRemote = "origin"

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// openRepo opens the repository containing path, walking up to find .git.
// If path is empty, the current working directory is used.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}
	return repo, nil
}

// IsGitRepository reports whether dir is inside a git repository.
func IsGitRepository(dir string) bool {
	_, err := openRepo(dir)
	logDebug("[git] IsGitRepository(%s): %v", dir, err == nil)
	return err == nil
}

// GetRepositoryRoot returns the absolute path of the worktree containing dir.
func GetRepositoryRoot(dir string) (string, error) {
	repo, err := openRepo(dir)
	if err != nil {
		return "", err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}
	return worktree.Filesystem.Root(), nil
}

// RemoteURL returns the first URL configured for the named remote.
func RemoteURL(dir, name string) (string, error) {
	repo, err := openRepo(dir)
	if err != nil {
		return "", err
	}

	remote, err := repo.Remote(name)
	if err != nil {
		if errors.Is(err, git.ErrRemoteNotFound) {
			return "", fmt.Errorf("remote %q not found", name)
		}
		return "", fmt.Errorf("reading remote %q: %w", name, err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %q has no URL", name)
	}
	return urls[0], nil
}

// RemoteRepository returns the owner and repository name of the origin
// remote. ok is false when dir is not a repository, has no origin, or the
// URL is not owner/repository shaped.
func RemoteRepository(dir string) (owner, repo string, ok bool) {
	remoteURL, err := RemoteURL(dir, DefaultRemote)
	if err != nil {
		logDebug("[git] RemoteRepository: %v", err)
		return "", "", false
	}
	owner, repo, ok = ParseRemoteURL(remoteURL)
	logDebug("[git] RemoteRepository: %s -> %s/%s (%v)", remoteURL, owner, repo, ok)
	return owner, repo, ok
}

// ParseRemoteURL extracts owner and repository from https, ssh:// and
// scp-style (git@host:owner/repo.git) remote URLs.
func ParseRemoteURL(raw string) (owner, repo string, ok bool) {
	raw = strings.TrimSpace(raw)
	var path string

	switch {
	case strings.Contains(raw, "://"):
		u, err := url.Parse(raw)
		if err != nil {
			return "", "", false
		}
		path = u.Path
	case strings.Contains(raw, ":"):
		_, path, _ = strings.Cut(raw, ":")
	default:
		return "", "", false
	}

	path = strings.Trim(strings.TrimSuffix(strings.TrimSuffix(path, "/"), ".git"), "/")
	parts := strings.Split(path, "/")
	if len(parts) < 2 {
		return "", "", false
	}
	owner, repo = parts[len(parts)-2], parts[len(parts)-1]
	if owner == "" || repo == "" {
		return "", "", false
	}
	return owner, repo, true
}
