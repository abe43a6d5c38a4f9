package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"git-publish/internal/secrets"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage tokens stored in the OS keyring",
}

var authForgetCmd = &cobra.Command{
	Use:   "forget <username>",
	Short: "Delete the stored token for a GitHub username",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAuthForget(args[0], cmd.OutOrStdout())
	},
}

func runAuthForget(account string, out io.Writer) error {
	err := secrets.Keyring{}.Delete(account)
	if errors.Is(err, secrets.ErrNotFound) {
		fmt.Fprintf(out, "No stored token for %s\n", account)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Removed stored token for %s\n", account)
	return nil
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authForgetCmd)
}
