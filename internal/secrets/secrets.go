package secrets

import (
	"errors"
	"fmt"

	keyring "github.com/zalando/go-keyring"
)

// A single keyring service to store all secrets for git-publish.
// Keys within the service are namespaced (e.g., "github:<account>").
const serviceName = "git-publish"

// ErrNotFound is returned when no token is stored for an account.
var ErrNotFound = errors.New("secrets: token not found")

func githubAccountKey(account string) string {
	return "github:" + account
}

// GetGitHubToken retrieves the GitHub token stored for account.
func GetGitHubToken(account string) (string, error) {
	token, err := keyring.Get(serviceName, githubAccountKey(account))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("secrets: unable to get github token: %w", err)
	}
	if token == "" {
		return "", errors.New("secrets: empty github token in keyring")
	}
	return token, nil
}

// SetGitHubToken stores the GitHub token for account.
func SetGitHubToken(account, token string) error {
	if token == "" {
		return errors.New("secrets: empty github token provided")
	}
	return keyring.Set(serviceName, githubAccountKey(account), token)
}

// DeleteGitHubToken removes the stored token for account.
func DeleteGitHubToken(account string) error {
	err := keyring.Delete(serviceName, githubAccountKey(account))
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// Keyring adapts the package functions to a token store value.
type Keyring struct{}

func (Keyring) Get(account string) (string, error) { return GetGitHubToken(account) }
func (Keyring) Set(account, token string) error { return SetGitHubToken(account, token) }
func (Keyring) Delete(account string) error { return DeleteGitHubToken(account) }
