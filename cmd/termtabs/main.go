package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	"termtabs/internal/config"
	"termtabs/internal/database"
	"termtabs/internal/database/repository"
	"termtabs/internal/term"
	"termtabs/internal/tui"
	"termtabs/internal/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx := context.Background()
	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "termtabs: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "termtabs",
		Short:         "Terminal tab manager",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApp(cmd.Context())
		},
	}
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "termtabs %s\n", version.Current())
			return err
		},
	}
}

func runApp(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	dataDir := filepath.Dir(cfg.Database.Path)
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("mkdir data dir: %w", err)
	}

	// The TUI owns the terminal, so logs go to a file in the data dir.
	logFile, err := os.OpenFile(filepath.Join(dataDir, "termtabs.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	logger := pslog.NewWithOptions(logFile, pslog.Options{
		Mode:    pslog.ModeStructured,
		NoColor: true,
	})
	ctx = pslog.ContextWithLogger(ctx, logger)

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	svc := term.NewService(term.Options{
		Logger: logger,
		Defaults: term.ShellLaunchConfig{
			Executable: cfg.Shell.Program,
			Args:       cfg.Shell.Args,
			Type:       term.ShellType(cfg.Shell.Type),
		},
		Store: repository.NewSessionRepo(db),
	})
	defer svc.Close()

	if err := svc.Restore(ctx); err != nil {
		logger.Warn("session restore failed", "err", err)
	}
	if len(svc.Instances()) == 0 {
		if _, err := svc.CreateTerminal(ctx, nil); err != nil {
			return fmt.Errorf("create initial terminal: %w", err)
		}
	}

	p := tea.NewProgram(tui.New(ctx, cfg, svc, logger),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
