package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/microcourse/internal/identity"
)

const accountPasswordEnv = "MICROCOURSE_ACCOUNT_PASSWORD"

func newAccountCommand() *cobra.Command {
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Admin account commands",
	}
	accountCmd.AddCommand(newAccountCreateCommand())
	return accountCmd
}

// newAccountCreateCommand creates accounts directly, which is how the first super-admin is made.
func newAccountCreateCommand() *cobra.Command {
	var name, email, phone, role string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an admin or super-admin account (password from $" + accountPasswordEnv + ")",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := identity.Role(role)
			if !r.IsAdmin() {
				return fmt.Errorf("--role must be admin or superadmin, got %q", role)
			}
			password := os.Getenv(accountPasswordEnv)
			if len(password) < 8 {
				return fmt.Errorf("set %s to a password of at least 8 characters", accountPasswordEnv)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			existing, err := a.accounts.FindByEmail(cmd.Context(), email)
			if err != nil {
				return err
			}
			if existing != nil {
				return fmt.Errorf("an account for %s already exists", email)
			}
			hash, err := identity.HashPassword(password)
			if err != nil {
				return err
			}
			account := &identity.Account{
				Name:         name,
				Email:        email,
				Phone:        phone,
				PasswordHash: hash,
				Role:         r,
				Status:       "active",
			}
			if err := a.accounts.Create(cmd.Context(), account); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s account %d for %s\n", account.Role, account.ID, email)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login e-mail")
	cmd.Flags().StringVar(&phone, "phone", "", "contact phone")
	cmd.Flags().StringVar(&role, "role", string(identity.RoleAdmin), "admin or superadmin")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
