package credentials

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"git-publish/internal/github"
)

// Credentials is a GitHub account and its personal access token.
type Credentials struct {
	Account string
	Token   []byte
}

// Discard zeroes the token bytes. Copies already handed to child processes are
// out of reach.
func (c *Credentials) Discard() {
	for i := range c.Token {
		c.Token[i] = 0
	}
	c.Token = nil
}

// Provider supplies credentials for a publish run.
type Provider interface {
	Account(ctx context.Context) (string, error)
	Token(ctx context.Context, account string) ([]byte, error)
}

// TokenStore persists tokens per account.
type TokenStore interface {
	Get(account string) (string, error)
	Set(account, token string) error
}

// Prompter reads credentials interactively: the account on a visible line and
// the token with echo disabled when the input is a terminal.
// A Prompter must not be reused after a read was cancelled.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer

	fd           int
	isTerminal   bool
	readPassword func(fd int) ([]byte, error)
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{
		in:           bufio.NewReader(in),
		out:          out,
		fd:           -1,
		readPassword: term.ReadPassword,
	}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.fd = int(f.Fd())
		p.isTerminal = true
	}
	return p
}

// Account prompts for the GitHub username and returns it trimmed.
func (p *Prompter) Account(ctx context.Context) (string, error) {
	fmt.Fprint(p.out, "Enter your GitHub username: ")
	line, err := p.readLine(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Token prints where to create a token and reads it without echo.
func (p *Prompter) Token(ctx context.Context, account string) ([]byte, error) {
	rule := strings.Repeat("─", 40)
	fmt.Fprintf(p.out, "\n%s\n", rule)
	fmt.Fprintf(p.out, "IMPORTANT: Go to %s\n", github.TokenSettingsURL)
	fmt.Fprintln(p.out, "Click 'Generate new token (classic)'")
	fmt.Fprintln(p.out, "Check 'repo' scope and click 'Generate token'")
	fmt.Fprintln(p.out, "Copy the token from GitHub (you won't see it again)")
	fmt.Fprintf(p.out, "%s\n\n", rule)
	fmt.Fprint(p.out, "Paste your Personal Access Token: ")

	if p.isTerminal {
		b, err := p.readSecret(ctx)
		fmt.Fprintln(p.out)
		if err != nil {
			return nil, err
		}
		return bytes.TrimSpace(b), nil
	}
	line, err := p.readLine(ctx)
	if err != nil {
		return nil, err
	}
	return []byte(strings.TrimSpace(line)), nil
}

type readResult struct {
	data []byte
	err  error
}

// readLine returns one line without its terminator. EOF ends the line.
func (p *Prompter) readLine(ctx context.Context) (string, error) {
	ch := make(chan readResult, 1)
	go func() {
		line, err := p.in.ReadString('\n')
		ch <- readResult{data: []byte(line), err: err}
	}()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		if r.err != nil && !errors.Is(r.err, io.EOF) {
			return "", fmt.Errorf("credentials: read input: %w", r.err)
		}
		return strings.TrimRight(string(r.data), "\r\n"), nil
	}
}

func (p *Prompter) readSecret(ctx context.Context) ([]byte, error) {
	// Restoring on cancel brings echo back when the read is abandoned.
	state, _ := term.GetState(p.fd)
	ch := make(chan readResult, 1)
	go func() {
		b, err := p.readPassword(p.fd)
		ch <- readResult{data: b, err: err}
	}()
	select {
	case <-ctx.Done():
		if state != nil {
			_ = term.Restore(p.fd, state)
		}
		return nil, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("credentials: read token: %w", r.err)
		}
		return r.data, nil
	}
}

// KeyringProvider returns tokens from a TokenStore when one is stored and
// otherwise asks Fallback.
type KeyringProvider struct {
	Fallback Provider
	Store    TokenStore
	Log      *zap.Logger
}

func (k *KeyringProvider) logger() *zap.Logger {
	if k.Log == nil {
		return zap.NewNop()
	}
	return k.Log
}

func (k *KeyringProvider) Account(ctx context.Context) (string, error) {
	return k.Fallback.Account(ctx)
}

func (k *KeyringProvider) Token(ctx context.Context, account string) ([]byte, error) {
	token, err := k.Store.Get(account)
	if err == nil && strings.TrimSpace(token) != "" {
		k.logger().Debug("using stored token", zap.String("account", account))
		return []byte(strings.TrimSpace(token)), nil
	}
	if err != nil {
		k.logger().Debug("no stored token", zap.String("account", account), zap.Error(err))
	}
	return k.Fallback.Token(ctx, account)
}

// Remember stores token for account.
func (k *KeyringProvider) Remember(account string, token []byte) error {
	return k.Store.Set(account, string(token))
}
