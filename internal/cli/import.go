package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jask/ynab4import/internal/config"
	"github.com/jask/ynab4import/internal/database"
	"github.com/jask/ynab4import/internal/importer"
	"github.com/jask/ynab4import/internal/logger"
	"github.com/jask/ynab4import/internal/service"
	"github.com/jask/ynab4import/internal/tui"
	"github.com/jask/ynab4import/internal/ynab4"
)

func RunImport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := applyImportFlags(cmd, &cfg); err != nil {
		return err
	}
	ctx, log := commandContext(cmd, cfg)

	dir, err := resolveBudgetDir(args[0], cfg.Import.BudgetName)
	if err != nil {
		return err
	}
	snap, err := ynab4.Load(ctx, dir)
	if err != nil {
		return fmt.Errorf("load budget: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return fmt.Errorf("mkdir db dir: %w", err)
	}
	if err := database.RunMigrations(cfg.Database.Path); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()
	if err := database.SeedDefaults(ctx, db); err != nil {
		return fmt.Errorf("seed defaults: %w", err)
	}

	reset, err := cmd.Flags().GetBool("reset")
	if err != nil {
		return fmt.Errorf("failed to read --reset flag: %w", err)
	}
	if reset {
		if err := (&service.MaintenanceService{DB: db}).Reset(ctx); err != nil {
			return fmt.Errorf("reset ledger: %w", err)
		}
		log.Info().Str("db", cfg.Database.Path).Msg("ledger reset")
	}

	progress, err := cmd.Flags().GetBool("progress")
	if err != nil {
		return fmt.Errorf("failed to read --progress flag: %w", err)
	}

	log.Info().Str("budget", snap.Name).Str("db", cfg.Database.Path).Int("concurrency", cfg.Import.Concurrency).Msg("import started")
	ledgerSvc := service.NewLedgerService(db)
	var summary importer.Summary
	if progress {
		// Console logs would tear the progress view.
		ctx = logger.WithContext(ctx, log.Level(zerolog.ErrorLevel))
		summary, err = tui.Run(ctx, snap.Name, func(ctx context.Context, obs importer.Observer) (importer.Summary, error) {
			return importer.Run(ctx, ledgerSvc, snap.Budget, cfg.Import.Concurrency, obs)
		}, tea.WithOutput(cmd.ErrOrStderr()))
	} else {
		summary, err = importer.Run(ctx, ledgerSvc, snap.Budget, cfg.Import.Concurrency)
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderSummary(snap, summary, err))
	if err != nil {
		return fmt.Errorf("import %s: %w", snap.Name, err)
	}
	return nil
}

func applyImportFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("db") {
		path, err := flags.GetString("db")
		if err != nil {
			return fmt.Errorf("failed to read --db flag: %w", err)
		}
		cfg.Database.Path = path
	}
	if flags.Changed("concurrency") {
		n, err := flags.GetInt("concurrency")
		if err != nil {
			return fmt.Errorf("failed to read --concurrency flag: %w", err)
		}
		if n < 1 {
			return fmt.Errorf("--concurrency must be at least 1")
		}
		cfg.Import.Concurrency = n
	}
	if flags.Changed("budget") {
		name, err := flags.GetString("budget")
		if err != nil {
			return fmt.Errorf("failed to read --budget flag: %w", err)
		}
		cfg.Import.BudgetName = name
	}
	return nil
}

// resolveBudgetDir accepts either a .ynab4 folder or a directory of them.
func resolveBudgetDir(path, budgetName string) (string, error) {
	if _, err := os.Stat(filepath.Join(path, "Budget.ymeta")); err == nil {
		return path, nil
	}
	if budgetName == "" {
		return "", fmt.Errorf("%s is not a .ynab4 budget folder (pass the folder or set a budget name)", path)
	}
	return ynab4.LocateBudget(path, budgetName)
}

func commandContext(cmd *cobra.Command, cfg config.Config) (context.Context, zerolog.Logger) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	return logger.WithContext(ctx, log), log
}
