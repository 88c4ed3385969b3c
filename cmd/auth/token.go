package main

import (
	"fmt"
	"time"

	"github.com/aussiebroadwan/tokenauth/internal/auth/app"
	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue tokens out of band",
	}
	cmd.AddCommand(newSystemTokenCmd())
	return cmd
}

func newSystemTokenCmd() *cobra.Command {
	var (
		userID string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "system",
		Short: "Issue a single-use SYSTEM access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := app.LoadConfig()

			application, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() { _ = application.Close() }()

			if cfg.CacheDriver == app.CacheMemory {
				application.Logger().Warn("memory cache driver: the token only exists in this process and no server will accept it")
			}

			tok, err := application.Sessions().IssueSystemToken(cmd.Context(), userID, ttl)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, tok.AccessToken)
			fmt.Fprintf(out, "expires %s\n", tok.Claims.Expiry().Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user-id", "", "subject of the token")
	cmd.Flags().DurationVar(&ttl, "ttl", 5*time.Minute, "token lifetime")
	_ = cmd.MarkFlagRequired("user-id")

	return cmd
}
