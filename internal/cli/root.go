package cli

import (
	"context"
	"fmt"

	"github.com/kallinyester/jato/internal/board"
	"github.com/kallinyester/jato/internal/config"
	"github.com/kallinyester/jato/internal/logger"
	"github.com/kallinyester/jato/internal/tui"
	"github.com/spf13/cobra"
)

var (
	logLevel   string
	logFile    string
	logConsole bool
	apiURL     string

	// Loaded once per invocation by the root pre-run hook
	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "jato",
	Short: "Jato - project board for small agencies",
	Long: `Jato tracks client projects: their stage, priority, progress,
technology stack and deadlines.

Run 'jato' without arguments to launch the interactive dashboard. Without a
session ('jato auth login') the dashboard works in memory only.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load config from file (or defaults if not exists)
		cfg, err := config.Load()
		if err != nil {
			logger.Warn("Failed to load config, using defaults", logger.F("error", err))
			cfg = config.DefaultConfig()
		}

		// Override with CLI flags if provided
		configChanged := false
		if cmd.Flags().Changed("api-url") {
			cfg.APIURL = apiURL
			configChanged = true
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
			configChanged = true
		}
		if cmd.Flags().Changed("log-file") {
			cfg.LogFile = logFile
			configChanged = true
		}
		if cmd.Flags().Changed("log-console") {
			cfg.LogConsole = logConsole
			configChanged = true
		}

		// Save config if changed via CLI flags
		if configChanged {
			if err := cfg.Save(); err != nil {
				logger.Warn("Failed to save config", logger.F("error", err))
			}
		}

		logConfig := logger.Config{
			Level:      logger.ParseLevel(cfg.LogLevel),
			FilePath:   cfg.LogFile,
			MaxSize:    10 * 1024 * 1024, // 10MB
			MaxAge:     7,
			MaxBackups: 5,
			Console:    cfg.LogConsole,
		}

		if err := logger.Init(logConfig); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		appConfig = cfg
		logger.Info("Jato started", logger.F("command", cmd.Name()), logger.F("api_url", cfg.APIURL))
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		rt := newRuntime()

		var opts []board.Option
		if authed, err := rt.authed(); err == nil {
			opts = append(opts, board.WithBackend(authed))
		} else {
			logger.Info("Starting dashboard without backend", logger.F("reason", err.Error()))
		}

		gate := tui.NewConfirmGate()
		opts = append(opts, board.WithConfirmer(gate))
		ctrl := rt.controller(opts...)
		defer ctrl.Close()

		return tui.Run(cmd.Context(), ctrl, gate)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Info("Jato exiting", logger.F("command", cmd.Name()))
		logger.Close()
	},
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend base URL (saved to config)")

	// Add logging flags
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Enable console logging")

	// Add subcommands
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(alertsCmd)
}
