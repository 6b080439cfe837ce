// Package auth implements the login, register, and logout commands. The
// bearer token lands in the session store; every other command picks it up
// from there.
package auth

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/taskflowpro/taskflow/internal/api"
	"github.com/taskflowpro/taskflow/internal/cli"
	"github.com/taskflowpro/taskflow/internal/session"
)

// NewLoginCmd instantiates and returns the login command.
func NewLoginCmd(client *api.Client, sessions *session.Store) *cobra.Command {
	var opts struct {
		Email    string
		Password string
	}
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, password, err := cli.PromptCredentials(opts.Email, opts.Password)
			if err != nil {
				return err
			}

			response, err := client.Login(cmd.Context(), email, password)
			if err != nil {
				return errors.Wrap(err, "logging in")
			}
			if err := sessions.SetToken(response.Token); err != nil {
				return errors.Wrap(err, "storing session token")
			}

			cli.Success("Logged in as %s", email)
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.Email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&opts.Password, "password", "p", "", "account password (prompted when omitted)")
	return cmd
}

// NewRegisterCmd instantiates and returns the register command.
func NewRegisterCmd(client *api.Client, sessions *session.Store) *cobra.Command {
	var opts struct {
		Name     string
		Email    string
		Password string
	}
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			name := opts.Name
			if name == "" {
				var err error
				if name, err = cli.PromptInput("Name:"); err != nil {
					return err
				}
			}
			email, password, err := cli.PromptCredentials(opts.Email, opts.Password)
			if err != nil {
				return err
			}

			response, err := client.Register(cmd.Context(), name, email, password)
			if err != nil {
				return errors.Wrap(err, "registering")
			}
			if err := sessions.SetToken(response.Token); err != nil {
				return errors.Wrap(err, "storing session token")
			}

			cli.Success("Registered and logged in as %s", email)
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.Name, "name", "n", "", "display name")
	cmd.Flags().StringVarP(&opts.Email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&opts.Password, "password", "p", "", "account password (prompted when omitted)")
	return cmd
}

// NewLogoutCmd instantiates and returns the logout command.
func NewLogoutCmd(sessions *session.Store) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !sessions.Authenticated() {
				cli.Success("Already logged out")
				return nil
			}
			if !cli.QueryUser("Log out and clear the stored token?") {
				return nil
			}
			if err := sessions.Clear(); err != nil {
				return errors.Wrap(err, "clearing session token")
			}
			cli.Success("Logged out")
			return nil
		},
	}
}
