// Package commands implements the journal command line client.
package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"journal/internal/adapter/apiclient"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	defaultServer   = "http://localhost:8080"
	defaultStateDir = "~/.journal"
)

var errNotSignedIn = errors.New("not signed in, run `journal login` first")

// globalOptions are resolved from flags, JOURNAL_* env vars and
// ~/.journal.yaml, in that order of precedence.
type globalOptions struct {
	v *viper.Viper

	ConfigFile string
	Server     string
	StateDir   string
}

// New returns the root command. Running it without a subcommand opens the
// terminal UI.
func New() *cobra.Command {
	o := &globalOptions{v: viper.New()}

	cmd := &cobra.Command{
		Use:           "journal",
		Short:         "A personal journal in your terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd.Context(), o)
		},
	}
	cmd.PersistentFlags().StringVar(&o.ConfigFile, "config", "",
		"Config file (default ~/.journal.yaml).")
	cmd.PersistentFlags().String("server", defaultServer,
		"Base URL of the journal server.")
	cmd.PersistentFlags().String("state-dir", defaultStateDir,
		"Directory holding the session token and logs.")

	addCommands(cmd, o)
	return cmd
}

func addCommands(topLevel *cobra.Command, o *globalOptions) {
	addUI(topLevel, o)
	addLogin(topLevel, o)
	addRegister(topLevel, o)
	addLogout(topLevel, o)
	addList(topLevel, o)
	addNew(topLevel, o)
	addShow(topLevel, o)
	addActivity(topLevel, o)
}

func (o *globalOptions) load(cmd *cobra.Command) error {
	v := o.v
	v.SetDefault("server", defaultServer)
	v.SetDefault("state_dir", defaultStateDir)
	v.SetEnvPrefix("JOURNAL")
	v.AutomaticEnv()
	if err := v.BindPFlag("server", cmd.Flags().Lookup("server")); err != nil {
		return err
	}
	if err := v.BindPFlag("state_dir", cmd.Flags().Lookup("state-dir")); err != nil {
		return err
	}

	if o.ConfigFile != "" {
		v.SetConfigFile(o.ConfigFile)
	} else {
		home, err := homedir.Dir()
		if err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigName(".journal")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	o.Server = v.GetString("server")
	dir, err := homedir.Expand(v.GetString("state_dir"))
	if err != nil {
		return fmt.Errorf("state dir: %w", err)
	}
	o.StateDir = dir
	return os.MkdirAll(dir, 0o700)
}

// client builds the API client and auth provider for the configured server.
func (o *globalOptions) client() (*apiclient.Client, *apiclient.Auth) {
	tokens := apiclient.NewDiskTokenStore(o.StateDir)
	c := apiclient.New(o.Server, tokens)
	return c, apiclient.NewAuth(c)
}

// signedIn restores the stored session and returns the user id.
func (o *globalOptions) signedIn(ctx context.Context) (*apiclient.Client, string, error) {
	c, auth := o.client()
	if err := auth.Restore(ctx); err != nil {
		return nil, "", err
	}
	id := auth.Identity()
	if id == nil {
		return nil, "", errNotSignedIn
	}
	return c, id.UserID, nil
}
