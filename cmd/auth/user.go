package main

import (
	"fmt"

	"github.com/aussiebroadwan/tokenauth/internal/auth/app"
	"github.com/aussiebroadwan/tokenauth/internal/auth/service"
	"github.com/aussiebroadwan/tokenauth/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/tokenauth/pkg/cryptox"
	"github.com/spf13/cobra"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}
	cmd.AddCommand(newUserCreateCmd())
	return cmd
}

func newUserCreateCmd() *cobra.Command {
	var req service.CreateUserRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Long:  "Create a user. A random password is generated and printed when --password is omitted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			generated := req.Password == ""
			if generated {
				pw, err := cryptox.GeneratePassword()
				if err != nil {
					return err
				}
				req.Password = pw
			}

			if err := cryptox.LoadPepper(app.LoadConfig().PepperFile); err != nil {
				return fmt.Errorf("load pepper: %w", err)
			}

			return withDatabase(func(db *sqlite.Store) error {
				users := &service.UserService{Store: db}
				u, err := users.CreateUser(cmd.Context(), req)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "created user %s (%s)\n", u.ID, u.Email)
				if generated {
					fmt.Fprintf(out, "password: %s\n", req.Password)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "password (generated when empty)")
	cmd.Flags().IntVar(&req.AccessLevel, "access-level", 0, "access level carried in tokens")
	cmd.Flags().BoolVar(&req.EmailConfirmed, "email-confirmed", false, "mark the email as confirmed")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
