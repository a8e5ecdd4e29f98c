package git

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/byterings/figgit/internal/platform"
)

var (
	// ErrNotAGitRepository indicates a directory outside any git working tree.
	ErrNotAGitRepository = errors.New("not a git repository")
	// ErrGitNotInstalled indicates the git executable is not on PATH.
	ErrGitNotInstalled = errors.New("git is not installed")
)

// Repo is a git working tree
type Repo struct {
	Root string
}

// Open returns the repository containing dir
func Open(dir string) (*Repo, error) {
	root, err := RepoRoot(dir)
	if err != nil {
		return nil, err
	}
	return &Repo{Root: root}, nil
}

// RepoRoot returns the top-level directory of the working tree containing dir
func RepoRoot(dir string) (string, error) {
	if !IsGitInstalled() {
		return "", ErrGitNotInstalled
	}
	out, err := output(dir, "rev-parse", "--show-toplevel")
	if err != nil {
		slog.Debug("rev-parse failed", "dir", dir, "err", err)
		return "", fmt.Errorf("%s: %w", dir, ErrNotAGitRepository)
	}
	root := strings.TrimSpace(out)
	if root == "" {
		return "", fmt.Errorf("%s: %w", dir, ErrNotAGitRepository)
	}
	return root, nil
}

// GitDir returns the absolute path of the repository's git directory
func (r *Repo) GitDir() (string, error) {
	out, err := output(r.Root, "rev-parse", "--absolute-git-dir")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// OriginURL returns remote.origin.url, or empty string when there is no origin
func (r *Repo) OriginURL() string {
	v, _, err := r.GetLocal("remote.origin.url")
	if err != nil {
		return ""
	}
	return v
}

// Clone clones url into dest, streaming git's progress to the terminal
func Clone(url, dest string) error {
	args := []string{"clone", url}
	if dest != "" {
		args = append(args, dest)
	}
	if err := run(".", args...); err != nil {
		return fmt.Errorf("cloning %s: %w", url, err)
	}
	return nil
}

// IsGitInstalled returns true if git is available on the system PATH
func IsGitInstalled() bool {
	return platform.HasCommand("git")
}

// run executes a git command in dir with the user's terminal attached
func run(dir string, args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// output executes a git command and returns its stdout. Stderr is captured
// and included in the error.
func output(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", &CommandError{
			Args:   args,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}
	return stdout.String(), nil
}

// CommandError is returned when a git invocation fails
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("git %s: %v", strings.Join(e.Args, " "), e.Err)
	}
	return fmt.Sprintf("git %s: %v: %s", strings.Join(e.Args, " "), e.Err, e.Stderr)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExitCode returns git's exit status, or -1 when git did not run
func (e *CommandError) ExitCode() int {
	var exitErr *exec.ExitError
	if errors.As(e.Err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
