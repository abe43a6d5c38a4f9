package cli

import (
	"context"
	"io"

	"go.uber.org/zap"

	appconfig "git-publish/internal/config"
	"git-publish/internal/credentials"
	"git-publish/internal/git"
	"git-publish/internal/logger"
	"git-publish/internal/publish"
	"git-publish/internal/secrets"
)

func runPublish(ctx context.Context, in io.Reader, out, errOut io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := logger.New(debug)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	var store credentials.TokenStore
	if useKeyring {
		store = secrets.Keyring{}
	}
	runner := newRunner(cfg, credentials.NewPrompter(in, out), store, git.NewExecRunner(), out, errOut, log)
	err = runner.Run(ctx)
	log.Debug("publish finished", zap.Stringer("state", publish.Outcome(err)))
	return err
}

// newRunner wires the publish runner. A non-nil store puts the keyring in front
// of the prompt and saves the token after a successful push.
func newRunner(
	cfg appconfig.Config,
	prompt credentials.Provider,
	store credentials.TokenStore,
	exec git.Executor,
	out, errOut io.Writer,
	log *zap.Logger,
) *publish.Runner {
	r := &publish.Runner{
		Config:      cfg,
		Credentials: prompt,
		Executor:    exec,
		Out:         out,
		Err:         errOut,
		Log:         log,
	}
	if store != nil {
		kp := &credentials.KeyringProvider{Fallback: prompt, Store: store, Log: log}
		r.Credentials = kp
		r.Saver = kp
	}
	return r
}
