package main

import (
	"errors"
	"fmt"
	"strings"

	"contactmanager/client"
	"contactmanager/pkg/credentials"
	"contactmanager/view"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultServer = "http://localhost:8080/api"

// app is the state shared by every subcommand. It is filled in
// PersistentPreRunE once flags and environment are known.
type app struct {
	v        *viper.Viper
	api      *client.Client
	tokens   *credentials.FileStore
	contacts *view.Contacts
	auth     *view.Auth
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Manage your contacts from the terminal",
		Long: `Manage your contacts from the terminal.

The server URL is read from --server or CONTACTS_SERVER.

Examples:
  contacts signup --name "Ada Lovelace" --email ada@example.com
  contacts login --email ada@example.com
  contacts add --name "Charles Babbage" --phone +441234567890
  contacts list
  contacts edit <id> --email charles@example.com
  contacts delete <id>
`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	cmd.PersistentFlags().String("server", defaultServer, "API base URL")
	cmd.PersistentFlags().String("credentials", "", "credentials file (default ~/.contactmanager/credentials.json)")
	_ = a.v.BindPFlag("server", cmd.PersistentFlags().Lookup("server"))
	_ = a.v.BindPFlag("credentials", cmd.PersistentFlags().Lookup("credentials"))
	a.v.SetEnvPrefix("CONTACTS")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	cmd.AddCommand(
		newSignupCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newListCmd(a),
		newAddCmd(a),
		newEditCmd(a),
		newDeleteCmd(a),
	)
	return cmd
}

func (a *app) init(cmd *cobra.Command) error {
	path := a.v.GetString("credentials")
	if path == "" {
		p, err := credentials.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	a.tokens = credentials.NewFileStore(path)
	a.api = client.New(a.v.GetString("server"))
	a.auth = view.NewAuth(a.api, a.tokens)
	a.contacts = view.NewContacts(a.api, a.tokens, view.OnAuthRejected(func() {
		fmt.Fprintln(cmd.ErrOrStderr(), "Session expired or missing.")
	}))
	return nil
}

var errLoginRequired = errors.New("not logged in, run: contacts login")

// userError turns a failed view action into the message the user sees.
func (a *app) userError(err error) error {
	if err == nil {
		return nil
	}
	var fe view.FieldErrors
	if errors.As(err, &fe) {
		return fe
	}
	if client.IsAuthRejected(err) {
		return errLoginRequired
	}
	if st := a.contacts.Status(); st.Kind == view.StatusError {
		return errors.New(st.Message)
	}
	return err
}

// printStatus writes the current transient status, if any.
func (a *app) printStatus(cmd *cobra.Command) {
	if st := a.contacts.Status(); st.Kind != view.StatusNone {
		fmt.Fprintln(cmd.OutOrStdout(), st.Message)
	}
}
