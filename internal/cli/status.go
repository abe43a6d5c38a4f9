package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	appconfig "git-publish/internal/config"
	"git-publish/internal/git"
	"git-publish/internal/github"
	"git-publish/internal/publish"
	"git-publish/internal/secrets"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the publish target and whether it is ready",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runStatus(cmd.Context(), cfg, git.NewExecRunner(), secrets.Keyring{}, cmd.OutOrStdout())
	},
}

type tokenGetter interface {
	Get(account string) (string, error)
}

func runStatus(ctx context.Context, cfg appconfig.Config, exec git.Executor, store tokenGetter, out io.Writer) error {
	dir, err := publish.ResolveWorkDir(cfg.Project.Dir)
	var notFound *publish.DirectoryNotFoundError
	switch {
	case errors.As(err, &notFound):
		fmt.Fprintf(out, "Project directory: %s (missing)\n", notFound.Path)
		return nil
	case err != nil:
		return err
	}
	fmt.Fprintf(out, "Project directory: %s\n", dir)

	remote := cfg.Git.Remote
	res := exec.Execute(ctx, git.NewWithWorkDir(dir).GetRemoteURL(remote))
	if res.Err != nil {
		return res.Err
	}
	if res.ExitCode != 0 {
		fmt.Fprintf(out, "Remote %s: not configured\n", remote)
		fmt.Fprintf(out, "Target: %s/<username>/%s\n", cfg.GitHub.Host, cfg.GitHub.Repository)
		return nil
	}
	remoteURL := strings.TrimSpace(res.Stdout)
	fmt.Fprintf(out, "Remote %s: %s\n", remote, git.RedactURL(remoteURL))

	repo, ok := github.ParseRepo(remoteURL)
	if !ok {
		return nil
	}
	fmt.Fprintf(out, "Repository: %s\n", repo.WebURL())
	if _, err := store.Get(repo.Owner); err == nil {
		fmt.Fprintf(out, "Stored token for %s: yes\n", repo.Owner)
	} else {
		fmt.Fprintf(out, "Stored token for %s: no\n", repo.Owner)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
