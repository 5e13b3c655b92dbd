// Package admin builds the liftboard-admin command tree: schema migrations,
// user listing, moderator grants and session pruning against the board
// database.
package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	entrypoint "github.com/louisbranch/liftboard/internal/platform/cmd"
	"github.com/louisbranch/liftboard/internal/platform/config"
	"github.com/louisbranch/liftboard/internal/platform/logging"
	"github.com/louisbranch/liftboard/internal/platform/password"
	boardapp "github.com/louisbranch/liftboard/internal/services/board/app"
	"github.com/louisbranch/liftboard/internal/services/board/storage/blob"
	"github.com/louisbranch/liftboard/internal/services/board/storage/sqlite"
)

// Config holds settings shared by every subcommand. Variables carry the
// LIFTBOARD_ prefix.
type Config struct {
	DBPath string `env:"DB_PATH" envDefault:"data/liftboard.db"`
	Blob   blob.Config
	Log    logging.Config
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.ParseEnvWithPrefix(&cfg, config.Prefix); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NewCommand returns the root command. Output goes to out.
func NewCommand(cfg Config, out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           entrypoint.ServiceAdmin,
		Short:         "Administer a liftboard database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)
	cmd.PersistentFlags().StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite database path")
	cmd.PersistentFlags().StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newMigrateCmd(&cfg),
		newUsersCmd(&cfg),
		newModeratorCmd(&cfg),
		newSessionsCmd(&cfg),
	)
	return cmd
}

// Execute runs the command tree with args under telemetry.
func Execute(ctx context.Context, cfg Config, args []string, out io.Writer) error {
	cmd := NewCommand(cfg, out)
	cmd.SetArgs(args)
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceAdmin, func(ctx context.Context) error {
		return cmd.ExecuteContext(ctx)
	})
}

func newMigrateCmd(cfg *Config) *cobra.Command {
	var status bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sqlDB, err := sqlite.OpenDB(cfg.DBPath)
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			if status {
				migrations, err := sqlite.MigrationStatus(cmd.Context(), sqlDB)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "MIGRATION\tAPPLIED\tAT")
				for _, m := range migrations {
					at := "-"
					if m.Applied {
						at = m.AppliedAt.UTC().Format(time.RFC3339)
					}
					fmt.Fprintf(w, "%s\t%t\t%s\n", m.Name, m.Applied, at)
				}
				return w.Flush()
			}

			applied, err := sqlite.Migrate(cmd.Context(), sqlDB)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no pending migrations")
				return nil
			}
			for _, name := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&status, "status", false, "list migrations without applying them")
	return cmd
}

func newUsersCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Inspect board users",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every user ordered by handle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd.Context(), *cfg, func(service *boardapp.Service) error {
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tHANDLE\tNAME\tMODERATOR\tCREATED")
				token := ""
				for {
					page, err := service.ListUsers(cmd.Context(), token)
					if err != nil {
						return err
					}
					for _, user := range page.Items {
						fmt.Fprintf(w, "%s\t@%s\t%s\t%t\t%s\n", user.ID, user.Handle, user.Name, user.Moderator, user.CreatedAt.UTC().Format(time.RFC3339))
					}
					if page.NextPageToken == "" {
						break
					}
					token = page.NextPageToken
				}
				return w.Flush()
			})
		},
	})
	return cmd
}

func newModeratorCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "moderator",
		Short: "Grant or revoke moderator rights",
	}
	set := func(use string, moderator bool, short string) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <handle>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withService(cmd.Context(), *cfg, func(service *boardapp.Service) error {
					user, err := service.SetModerator(cmd.Context(), args[0], moderator)
					if err != nil {
						if errors.Is(err, boardapp.ErrUserNotFound) {
							return fmt.Errorf("user %s not found", strings.TrimSpace(args[0]))
						}
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "@%s moderator=%t\n", user.Handle, user.Moderator)
					return nil
				})
			},
		}
	}
	cmd.AddCommand(
		set("grant", true, "Make a user a moderator"),
		set("revoke", false, "Remove a user's moderator rights"),
	)
	return cmd
}

func newSessionsCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Maintain sign-in sessions",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "prune",
		Short: "Delete expired sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd.Context(), *cfg, func(service *boardapp.Service) error {
				deleted, err := service.PruneSessions(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "pruned %d sessions\n", deleted)
				return nil
			})
		},
	})
	return cmd
}

// withService opens the store and blob backend, runs fn and closes both.
func withService(ctx context.Context, cfg Config, fn func(*boardapp.Service) error) error {
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open board store: %w", err)
	}
	defer store.Close()

	blobs, err := blob.Open(ctx, cfg.Blob, logger.Named("blob"))
	if err != nil {
		return fmt.Errorf("open blob store: %w", err)
	}
	defer func() {
		if err := blobs.Close(); err != nil {
			logger.Warn("close blob store", zap.Error(err))
		}
	}()

	service, err := boardapp.New(boardapp.Config{
		Store:  store,
		Blobs:  blobs,
		Hasher: password.NewHasher(),
		Logger: logger.Named("board"),
	})
	if err != nil {
		return err
	}
	return fn(service)
}
