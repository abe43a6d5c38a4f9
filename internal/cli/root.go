package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	appconfig "git-publish/internal/config"
	"git-publish/internal/publish"
)

var (
	cfgPath    string
	projectDir string
	useKeyring bool
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:   "git-publish",
	Short: "Link a local project to GitHub and push it",
	Long: "git-publish asks for a GitHub username and personal access token, points the\n" +
		"project's origin remote at github.com/<username>/<repository>, renames the current\n" +
		"branch to main and pushes it with upstream tracking.",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPublish(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

// Execute runs the root command and exits. Interrupts cancel the running step
// and exit cleanly with status 0.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	os.Exit(exitCode(err, os.Stderr))
}

// exitCode reports err on w and maps it to the process exit status.
func exitCode(err error, w io.Writer) int {
	switch publish.Outcome(err) {
	case publish.Succeeded:
		return 0
	case publish.Cancelled:
		fmt.Fprintln(w, "\n\nOperation cancelled by user.")
		return 0
	}
	// The runner already reported a failed push.
	var failure *publish.StepFailure
	if errors.As(err, &failure) {
		return 1
	}
	fmt.Fprintf(w, "\nError: %v\n", err)
	return 1
}

func loadConfig() (appconfig.Config, error) {
	cfg, err := appconfig.LoadEffectiveConfig(cfgPath)
	if err != nil {
		return appconfig.Config{}, fmt.Errorf("load config: %w", err)
	}
	if projectDir != "" {
		cfg.Project.Dir = projectDir
	}
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Config file (defaults to the XDG config location)")
	rootCmd.PersistentFlags().StringVar(&projectDir, "dir", "", "Project directory to publish (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.Flags().BoolVar(&useKeyring, "keyring", false, "Read the token from the OS keyring and store it after a successful push")
}
