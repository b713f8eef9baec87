package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/xavierca1/leadsync/internal/config"
	"github.com/xavierca1/leadsync/internal/infra/auth"
)

// token emite uma sessão local para testar as rotas autenticadas com curl.
func newTokenCmd() *cobra.Command {
	var (
		userID string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a session token signed with SESSION_JWT_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := os.Getenv("SESSION_JWT_SECRET")
			if secret == "" {
				return errors.New("SESSION_JWT_SECRET is required")
			}
			if len(secret) < auth.MinSecretLength {
				return fmt.Errorf("SESSION_JWT_SECRET must be at least %d bytes (HS256)", auth.MinSecretLength)
			}

			verifier := auth.NewSessionVerifier([]byte(secret), config.GetEnv("SESSION_AUDIENCE", ""))
			token, err := verifier.Issue(userID, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id (sub claim)")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	cmd.MarkFlagRequired("user")
	return cmd
}
