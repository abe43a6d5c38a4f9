package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"git-publish/internal/config"
	"git-publish/internal/credentials"
	"git-publish/internal/git"
)

const totalSteps = 5

// TokenSaver persists a token after a successful push.
type TokenSaver interface {
	Remember(account string, token []byte) error
}

// Runner links a local repository to GitHub and pushes it: collect credentials,
// resolve the project directory, then add (or update) the remote, rename the
// branch, show status, push with upstream tracking and show recent history.
// Only the push gates success; the other steps report and continue.
type Runner struct {
	Config      config.Config
	Credentials credentials.Provider
	Executor    git.Executor
	Out         io.Writer
	Err         io.Writer
	Log         *zap.Logger
	// Saver, when set, receives the token once the push succeeded.
	Saver TokenSaver
}

func (r *Runner) logger() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}

// Run executes the publish flow. A nil error means the push succeeded; a
// context.Canceled error means the user interrupted the run.
func (r *Runner) Run(ctx context.Context) error {
	rep := newReporter(r.Out, r.Err)
	log := r.logger()

	rep.banner(fmt.Sprintf("%s - GitHub Push", r.Config.GitHub.Repository))

	creds, err := r.collectCredentials(ctx)
	if err != nil {
		return err
	}
	defer creds.Discard()
	if err := ctx.Err(); err != nil {
		return err
	}

	rep.banner("Starting Automated Push...")

	dir, err := ResolveWorkDir(r.Config.Project.Dir)
	if err != nil {
		return err
	}
	rep.printf("📁 Working directory: %s\n", dir)
	log.Debug("resolved working directory", zap.String("dir", dir))

	repo := r.Config.Repo(creds.Account)
	if err := repo.Validate(); err != nil {
		return err
	}
	g := git.NewWithWorkDir(dir)
	remote, branch := r.Config.Git.Remote, r.Config.Git.Branch

	rep.step(1, totalSteps, "Linking repository to GitHub...")
	remoteURL := repo.RemoteURL(creds.Account, creds.Token)
	if code := r.execute(ctx, rep, g.AddRemote(remote, remoteURL)); code != 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		rep.println("Remote already exists, updating...")
		r.execute(ctx, rep, g.SetRemoteURL(remote, remoteURL))
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	rep.ok("Repository linked")

	rep.step(2, totalSteps, fmt.Sprintf("Renaming branch to '%s'...", branch))
	r.execute(ctx, rep, g.RenameBranch(branch))
	if err := ctx.Err(); err != nil {
		return err
	}
	rep.ok("Branch renamed to " + branch)

	rep.step(3, totalSteps, "Checking git status...")
	r.execute(ctx, rep, g.Status())
	if err := ctx.Err(); err != nil {
		return err
	}

	rep.step(4, totalSteps, "Pushing code to GitHub...")
	push := g.PushUpstream(remote, branch)
	code := r.execute(ctx, rep, push)
	if err := ctx.Err(); err != nil {
		return err
	}
	if code != 0 {
		rep.println()
		rep.fail("Push failed!")
		rep.println("Please check your credentials and try again.")
		return &StepFailure{Step: "push", Command: push.String(), ExitCode: code}
	}
	rep.ok("Code pushed successfully")

	rep.step(5, totalSteps, "Verifying push...")
	r.execute(ctx, rep, g.LogOneline(r.Config.Git.LogCount))
	if err := ctx.Err(); err != nil {
		return err
	}

	rep.banner("✅ SUCCESS! Project pushed to GitHub!")
	rep.println("Your repository is now live at:")
	rep.printf("%s\n\n", repo.WebURL())
	rep.println("Next steps:")
	rep.println("1. Visit the repository URL above")
	rep.println("2. Add a description (Settings → About)")
	rep.println("3. Add topics so others can find it")
	rep.println("4. Check the Actions tab for workflow runs")
	rep.println()
	rep.println("You can now:")
	rep.println("- Share the link with others")
	rep.println("- Make updates and push with: git push")

	if r.Saver != nil {
		if err := r.Saver.Remember(creds.Account, creds.Token); err != nil {
			log.Warn("unable to store token", zap.String("account", creds.Account), zap.Error(err))
			rep.warning(fmt.Sprintf("token not stored: %v", err))
		} else {
			log.Debug("stored token", zap.String("account", creds.Account))
		}
	}
	return nil
}

func (r *Runner) collectCredentials(ctx context.Context) (*credentials.Credentials, error) {
	account, err := r.Credentials.Account(ctx)
	if err != nil {
		return nil, err
	}
	account = strings.TrimSpace(account)
	if account == "" {
		return nil, &EmptyInputError{Field: "GitHub username"}
	}
	token, err := r.Credentials.Token(ctx, account)
	if err != nil {
		return nil, err
	}
	creds := &credentials.Credentials{Account: account, Token: bytes.TrimSpace(token)}
	if len(creds.Token) == 0 {
		creds.Discard()
		return nil, &EmptyInputError{Field: "Personal Access Token"}
	}
	return creds, nil
}

// execute runs one step: stdout is always printed, stderr only as a warning on
// a nonzero exit. It returns the exit code and never fails; a command that could
// not be started counts as exit code 1.
func (r *Runner) execute(ctx context.Context, rep *reporter, c git.Command) int {
	log := r.logger().With(zap.Stringer("command", c))
	log.Debug("running step")

	res := r.Executor.Execute(ctx, c)
	rep.output(res.Stdout)
	if res.Err != nil {
		log.Warn("step did not start", zap.Error(res.Err))
		rep.launchError(res.Err)
	}
	if res.ExitCode != 0 && res.Stderr != "" {
		rep.warning(res.Stderr)
	}
	log.Debug("step finished", zap.Int("exit_code", res.ExitCode))
	return res.ExitCode
}

// ResolveWorkDir returns the absolute form of dir after checking that it exists
// and is a directory.
func ResolveWorkDir(dir string) (string, error) {
	if dir == "" {
		return "", &DirectoryNotFoundError{Path: dir}
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("publish: resolve %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &DirectoryNotFoundError{Path: abs}
		}
		return "", fmt.Errorf("publish: stat %s: %w", abs, err)
	}
	if !info.IsDir() {
		return "", &DirectoryNotFoundError{Path: abs}
	}
	return abs, nil
}
