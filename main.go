package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/tphakala/foodchain-go/cmd"
	"github.com/tphakala/foodchain-go/internal/conf"
	"github.com/tphakala/foodchain-go/internal/logging"
)

func main() {
	logging.Init()

	settings := conf.Setting()

	if settings.Log.File != "" {
		fileLogger, closeLogger, err := logging.NewFileLogger(settings.Log.File, "foodchain", slog.LevelInfo)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer closeLogger() //nolint:errcheck // best effort on shutdown
		fileLogger.Info("file logging enabled", "path", settings.Log.File)
	}

	rootCmd := cmd.RootCommand(settings)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "command error: %v\n", err)
		os.Exit(1)
	}
}
