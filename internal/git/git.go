package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"strconv"
	"strings"
)

// Command is a typed child process specification. Arguments are passed to the
// program as-is; nothing is ever interpreted by a shell.
type Command struct {
	Program string
	Args    []string
	// Dir is the working directory for the child. Empty means the current
	// process working directory.
	Dir string
}

// String renders the command line with any URL credentials redacted.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Program)
	for _, arg := range c.Args {
		parts = append(parts, RedactURL(arg))
	}
	return strings.Join(parts, " ")
}

// RedactURL masks the password of a URL with userinfo. Anything else is
// returned unchanged.
func RedactURL(arg string) string {
	if !strings.Contains(arg, "://") || !strings.Contains(arg, "@") {
		return arg
	}
	u, err := url.Parse(arg)
	if err != nil || u.User == nil {
		return arg
	}
	if _, ok := u.User.Password(); !ok {
		return arg
	}
	return u.Redacted()
}

// Git builds git commands bound to a working directory.
type Git struct {
	// WorkDir is the filesystem path where git commands should run.
	// If empty, commands run in the current process working directory.
	WorkDir string
}

// NewWithWorkDir creates a Git bound to the provided working directory.
func NewWithWorkDir(dir string) *Git { return &Git{WorkDir: dir} }

func (g *Git) command(args ...string) Command {
	return Command{Program: "git", Args: args, Dir: g.WorkDir}
}

// AddRemote adds a remote with the given name and URL.
func (g *Git) AddRemote(name, remoteURL string) Command {
	return g.command("remote", "add", name, remoteURL)
}

// SetRemoteURL overwrites the URL of an existing remote.
func (g *Git) SetRemoteURL(name, remoteURL string) Command {
	return g.command("remote", "set-url", name, remoteURL)
}

// RenameBranch force-renames the current branch.
func (g *Git) RenameBranch(name string) Command {
	return g.command("branch", "-M", name)
}

func (g *Git) Status() Command {
	return g.command("status")
}

// PushUpstream pushes branch to remote and sets upstream tracking.
func (g *Git) PushUpstream(remote, branch string) Command {
	return g.command("push", "-u", remote, branch)
}

// LogOneline shows the n most recent commits, one line each.
func (g *Git) LogOneline(n int) Command {
	return g.command("log", "--oneline", "-n", strconv.Itoa(n))
}

// GetRemoteURL returns the URL configured for remote.
func (g *Git) GetRemoteURL(remote string) Command {
	return g.command("remote", "get-url", remote)
}

// Result is the outcome of one executed command.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	// Err is set when the child could not be started at all.
	Err error
}

// CommandLaunchError reports that a child process could not be started.
type CommandLaunchError struct {
	Command string
	Err     error
}

func (e *CommandLaunchError) Error() string {
	return fmt.Sprintf("git: unable to run %s: %v", e.Command, e.Err)
}

func (e *CommandLaunchError) Unwrap() error { return e.Err }

// Executor runs command specifications.
type Executor interface {
	Execute(ctx context.Context, c Command) Result
}

type runnerFunc func(ctx context.Context, dir, name string, args ...string) (stdout string, stderr string, err error)

// ExecRunner executes commands as child processes. It never returns an error for a
// nonzero exit; callers inspect Result.ExitCode.
type ExecRunner struct {
	run runnerFunc
}

func NewExecRunner() *ExecRunner { return &ExecRunner{run: defaultRunner} }

func (r *ExecRunner) Execute(ctx context.Context, c Command) Result {
	stdout, stderr, err := r.run(ctx, c.Dir, c.Program, c.Args...)
	res := Result{Stdout: stdout, Stderr: stderr}
	if err == nil {
		return res
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		// Killed by a signal reports -1.
		if res.ExitCode <= 0 {
			res.ExitCode = 1
		}
		return res
	}
	res.ExitCode = 1
	res.Err = &CommandLaunchError{Command: c.String(), Err: err}
	return res
}

func defaultRunner(ctx context.Context, dir, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}
