package cmd

import (
	"fmt"
	"os"

	"winamp7/config"
	"winamp7/logger"

	"github.com/spf13/cobra"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "winamp7",
	Short: "winamp7 is a browser music player with a pop-out mini player.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setup(true)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

// setup loads the configuration and starts logging.
func setup(console bool) {
	cfg = config.Load()
	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogFile,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
		Compress:   true,
		NoConsole:  !console,
	})
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
