package main

import (
	"fmt"
	"text/tabwriter"

	"contactmanager/contact"

	"github.com/spf13/cobra"
)

func newSignupCmd(a *app) *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := readPassword(cmd, "Password: ")
			if err != nil {
				return err
			}
			if err := a.auth.Signup(cmd.Context(), name, email, password); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed up and logged in.")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLoginCmd(a *app) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := readPassword(cmd, "Password: ")
			if err != nil {
				return err
			}
			if err := a.auth.Login(cmd.Context(), email, password); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged in.")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.auth.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your contacts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.contacts.Load(cmd.Context()); err != nil {
				return a.userError(err)
			}
			printContacts(cmd, a.contacts.Contacts())
			return nil
		},
	}
}

func newAddCmd(a *app) *cobra.Command {
	var in contact.Input

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a contact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.contacts.SetForm(in)
			if err := a.contacts.Submit(cmd.Context()); err != nil {
				return a.userError(err)
			}
			a.printStatus(cmd)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "full name")
	cmd.Flags().StringVar(&in.Email, "email", "", "email address")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "phone number")
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var in contact.Input

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a contact; fields not given keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.contacts.Load(cmd.Context()); err != nil {
				return a.userError(err)
			}
			current, ok := findContact(a.contacts.Contacts(), args[0])
			if !ok {
				return fmt.Errorf("contact %s not found", args[0])
			}

			a.contacts.Edit(current)
			form := a.contacts.Form()
			flags := cmd.Flags()
			if flags.Changed("name") {
				form.Name = in.Name
			}
			if flags.Changed("email") {
				form.Email = in.Email
			}
			if flags.Changed("phone") {
				form.Phone = in.Phone
			}
			a.contacts.SetForm(form)

			if err := a.contacts.Submit(cmd.Context()); err != nil {
				return a.userError(err)
			}
			a.printStatus(cmd)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "full name")
	cmd.Flags().StringVar(&in.Email, "email", "", "email address")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "phone number")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			confirm := func() bool {
				return yes || askConfirm(cmd, "Are you sure you want to delete this contact? [y/N] ")
			}
			sent, err := a.contacts.Delete(cmd.Context(), args[0], confirm)
			if err != nil {
				return a.userError(err)
			}
			if !sent {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
			a.printStatus(cmd)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func findContact(contacts []contact.Contact, id string) (contact.Contact, bool) {
	for _, c := range contacts {
		if c.ID == id {
			return c, true
		}
	}
	return contact.Contact{}, false
}

func printContacts(cmd *cobra.Command, contacts []contact.Contact) {
	out := cmd.OutOrStdout()
	if len(contacts) == 0 {
		fmt.Fprintln(out, "No contacts yet.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPHONE")
	for _, c := range contacts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Email, c.Phone)
	}
	_ = w.Flush()

	noun := "Contacts"
	if len(contacts) == 1 {
		noun = "Contact"
	}
	fmt.Fprintf(out, "%d %s\n", len(contacts), noun)
}
