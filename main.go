// pattern: Imperative Shell
package main

import (
	"context"
	"fmt"
	"os"

	"dia/internal/cli"
	"dia/internal/config"
	"dia/internal/logging"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
	}

	if err := cfg.ValidateShellOnPath(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logs, closeLogs := newLogs(cfg)
	defer closeLogs()

	logger := logs.For("app")
	logger.Debug("starting", "args", args)

	code := cli.NewApp(cfg, logs).Execute(context.Background(), args)

	logger.Debug("finished", "exit_code", code)
	return code
}

// newLogs opens the shared log file. Logging is best effort: when the file
// cannot be opened the tool runs with logging disabled.
func newLogs(cfg config.Config) (logging.LoggerProvider, func()) {
	lm, err := logging.NewManager(logging.Config{
		FilePath:   cfg.LogFile,
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 7,
		Level:      cfg.LogLevel,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
		return logging.NopProvider{}, func() {}
	}
	return lm, func() { _ = lm.Close() }
}
