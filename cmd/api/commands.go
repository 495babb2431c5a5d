package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/srgjo27/garage_booking/internal/adapter/handler"
	"github.com/srgjo27/garage_booking/internal/platform/database"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the booking tables and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}

			db, err := openDB(cfg, log)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.Migrate(cmd.Context(), db); err != nil {
				return err
			}
			log.Info("schema is up to date")
			return nil
		},
	}
}

func newReconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Remove pending appointments left without service lines, once",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}

			db, err := openDB(cfg, log)
			if err != nil {
				return err
			}
			defer db.Close()

			removed, err := newBookingService(cfg, db, nil, log).ReconcileOrphans(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d orphaned appointments\n", removed)
			return nil
		},
	}
}

func newTokenCmd() *cobra.Command {
	var userID string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for a user (development)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}

			id := uuid.New()
			if userID != "" {
				if id, err = uuid.Parse(userID); err != nil {
					return fmt.Errorf("invalid --user-id: %w", err)
				}
			}
			if ttl <= 0 {
				ttl = cfg.JWT.AccessTTL
			}

			token, err := handler.NewAuthenticator(cfg.JWT.Secret, ttl, log).IssueToken(id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user_id: %s\ntoken: %s\n", id, token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user-id", "", "user id to embed (random when empty)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to JWT_ACCESS_TTL)")
	return cmd
}
