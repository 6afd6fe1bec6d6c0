package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tgienger/todo/internal/config"
	"github.com/tgienger/todo/internal/db"
	"github.com/tgienger/todo/internal/logging"
	"github.com/tgienger/todo/internal/repository"
	"github.com/tgienger/todo/internal/ui"
	"github.com/tgienger/todo/internal/ui/keys"
	"github.com/tgienger/todo/internal/viewmodel"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "todo",
		Short:        "Todo - a terminal todo list",
		Long:         `Todo keeps a local list of todos in SQLite and edits it in the terminal.`,
		Version:      version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd)
		},
	}
	cmd.SetVersionTemplate(fmt.Sprintf("todo %s (commit: %s, built: %s)\n", version, commit, date))

	cmd.PersistentFlags().String("db", "", "Database file (default $XDG_DATA_HOME/todo/todo.db)")
	cmd.PersistentFlags().String("config", "", "Config file (default $XDG_CONFIG_HOME/todo/config.yaml)")
	cmd.PersistentFlags().String("log-file", "", "Log file (default $XDG_STATE_HOME/todo/todo.log)")

	return cmd
}

// options resolves the configuration with command line flags on top
func options(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if dbPath, _ := cmd.Flags().GetString("db"); dbPath != "" {
		cfg.DatabasePath = dbPath
	}
	if logFile, _ := cmd.Flags().GetString("log-file"); logFile != "" {
		cfg.LogFile = logFile
	}
	if cfg.LogFile == "" {
		if cfg.LogFile, err = logging.DefaultPath(); err != nil {
			return nil, fmt.Errorf("resolve log file: %w", err)
		}
	}
	return cfg, nil
}

func run(ctx context.Context, cmd *cobra.Command) error {
	cfg, err := options(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return err
	}

	logFile, err := logging.Init(cfg.LogFile, cfg.Level())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		return err
	}
	defer logFile.Close()

	slog.Info("starting", "version", version, "commit", commit)

	provider := db.PathProvider(db.DefaultPath)
	if cfg.DatabasePath != "" {
		provider = db.StaticPath(cfg.DatabasePath)
	}

	database, err := db.New(ctx, provider)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing database: %v\n", err)
		return err
	}
	defer database.Close()

	if n, err := database.Count(ctx); err == nil {
		slog.Info("database opened", "todos", n)
	}

	opts := []viewmodel.Option{viewmodel.WithInitialFilter(cfg.Filter())}
	if cfg.RememberFilter {
		opts = append(opts, viewmodel.WithFilterStore(database))
	}
	vm := viewmodel.NewTodoViewModel(repository.New(database), opts...)
	defer vm.Close()

	app := ui.NewApp(vm, keys.New(cfg.KeyMappings))
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		slog.Error("program exited", "error", err)
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		return err
	}
	return nil
}
