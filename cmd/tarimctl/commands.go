package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stwalsh4118/ciftlik/internal/auth"
	"github.com/stwalsh4118/ciftlik/internal/config"
	"github.com/stwalsh4118/ciftlik/internal/database"
	"github.com/stwalsh4118/ciftlik/internal/logger"
	"github.com/stwalsh4118/ciftlik/internal/models"
	"github.com/stwalsh4118/ciftlik/internal/report"
	"github.com/stwalsh4118/ciftlik/internal/repository"
	"github.com/stwalsh4118/ciftlik/internal/services"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tarimctl",
		Short:         "Operator tool for the Çiftlik API database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(migrateCmd(), userCmd(), analysisCmd())
	return root
}

// env is the configuration, logger and open database shared by commands.
type env struct {
	cfg *config.Config
	log *logger.Logger
	db  *database.Database
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg.Server.Env).WithComponent("tarimctl")

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &env{cfg: cfg, log: log, db: db}, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.db.Close()

			if err := e.db.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema is up to date (%d tables).\n", len(models.All()))
			return nil
		},
	}
}

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage login accounts",
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a login account",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			name, _ := cmd.Flags().GetString("name")
			password, _ := cmd.Flags().GetString("password")
			role, _ := cmd.Flags().GetString("role")

			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.db.Close()
			if err := e.db.Migrate(cmd.Context()); err != nil {
				return err
			}

			svc := auth.NewService(repository.New(e.db), e.cfg.Session.TTL, e.log)
			user, err := svc.CreateUser(cmd.Context(), email, name, password, role)
			if err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s user %s (%s)\n", user.Role, user.Email, user.ID)
			return nil
		},
	}
	create.Flags().String("email", "", "login email")
	create.Flags().String("name", "", "display name")
	create.Flags().String("password", "", "password, at least 8 characters")
	create.Flags().String("role", models.RoleUser, "admin or kullanici")
	_ = create.MarkFlagRequired("email")
	_ = create.MarkFlagRequired("password")

	cmd.AddCommand(create)
	return cmd
}

func analysisCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analysis",
		Short: "Irrigation cost analysis",
	}

	export := &cobra.Command{
		Use:   "export",
		Short: "Write an irrigation cost analysis to an XLSX file",
		RunE: func(cmd *cobra.Command, args []string) error {
			well, _ := cmd.Flags().GetString("well")
			start, _ := cmd.Flags().GetString("start")
			end, _ := cmd.Flags().GetString("end")
			out, _ := cmd.Flags().GetString("out")

			q, err := services.ParseAnalysisQuery(well, start, end)
			if err != nil {
				return err
			}

			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.db.Close()

			res, err := services.NewAnalysisService(repository.New(e.db), e.log).Analyze(cmd.Context(), q)
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			if err := report.WriteAnalysis(f, res); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to close %s: %w", out, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote analysis of %s (%d owners) to %s\n", res.WellName, len(res.Owners), out)
			return nil
		},
	}
	export.Flags().String("well", services.AllWells, "well id, or total for every well")
	export.Flags().String("start", "", "window start, YYYY-MM-DD")
	export.Flags().String("end", "", "window end, YYYY-MM-DD (inclusive)")
	export.Flags().String("out", "sulama-analizi.xlsx", "output file")
	_ = export.MarkFlagRequired("start")
	_ = export.MarkFlagRequired("end")

	cmd.AddCommand(export)
	return cmd
}
