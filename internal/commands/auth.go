package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"journal/internal/domain"

	"github.com/spf13/cobra"
)

type credentialOptions struct {
	Email    string
	Password string
}

func addCredentialFlags(cmd *cobra.Command, c *credentialOptions) {
	cmd.Flags().StringVarP(&c.Email, "email", "e", "",
		"Account email.")
	cmd.Flags().StringVarP(&c.Password, "password", "p", "",
		"Account password. Read from stdin when omitted.")
}

// resolve fills a missing password from the first line of in.
func (c *credentialOptions) resolve(in io.Reader) error {
	if strings.TrimSpace(c.Email) == "" {
		return errors.New("--email is required")
	}
	if c.Password != "" {
		return nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read password: %w", err)
	}
	c.Password = strings.TrimRight(line, "\r\n")
	return nil
}

func addLogin(topLevel *cobra.Command, o *globalOptions) {
	c := &credentialOptions{}
	var token string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		Example: `
journal login --email ana@example.com
echo secret | journal login -e ana@example.com
journal login --token <token from the SSO callback>
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, auth := o.client()
			var (
				id  *domain.Identity
				err error
			)
			if token != "" {
				id, err = auth.UseToken(cmd.Context(), token)
			} else {
				if err := c.resolve(cmd.InOrStdin()); err != nil {
					return err
				}
				id, err = auth.SignIn(cmd.Context(), c.Email, c.Password)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", id.Email)
			return nil
		},
	}
	addCredentialFlags(cmd, c)
	cmd.Flags().StringVar(&token, "token", "",
		"Adopt a session token issued by single sign-on.")

	topLevel.AddCommand(cmd)
}

func addRegister(topLevel *cobra.Command, o *globalOptions) {
	c := &credentialOptions{}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Example: `
journal register --email ana@example.com
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.resolve(cmd.InOrStdin()); err != nil {
				return err
			}
			_, auth := o.client()
			id, err := auth.Register(cmd.Context(), c.Email, c.Password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s\n", id.Email)
			return nil
		},
	}
	addCredentialFlags(cmd, c)

	topLevel.AddCommand(cmd)
}

func addLogout(topLevel *cobra.Command, o *globalOptions) {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, auth := o.client()
			_ = auth.Restore(cmd.Context())
			if err := auth.SignOut(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
