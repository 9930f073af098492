package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/finance-tracker/ledger/config"
	"github.com/finance-tracker/ledger/internal/integration/adapters"
)

func tokenCmd() *cobra.Command {
	var (
		userFlag string
		email    string
		ttl      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign an access token for local testing",
		Long:  `Sign a bearer token with JWT_SECRET that the API accepts for the given user.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			userID, err := uuid.Parse(userFlag)
			if err != nil {
				return fmt.Errorf("invalid user id %q: %w", userFlag, err)
			}

			cfg := config.Load()
			token, err := adapters.SignAccessToken(cfg.JWT.Secret, userID, email, ttl)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userFlag, "user", "", "user id to embed in the token")
	cmd.Flags().StringVar(&email, "email", "", "email to embed in the token")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
