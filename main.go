package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	level := zap.NewAtomicLevelAt(zapcore.WarnLevel)
	logger := newLogger(level)
	defer logger.Sync()

	cfg, err := LoadConfig(configPath())
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitUsage)
	}

	client := NewAPIClient(cfg, logger)
	app := NewApp(client, os.Stdout, os.Stderr, logger)
	app.LogLevel = level

	rootCmd := SetupCommands(app)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitCode(err))
	}
}

// newLogger builds the process logger. Diagnostics go to stderr so they
// never mix with renderable output on stdout.
func newLogger(level zap.AtomicLevel) *zap.Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		level,
	)
	return zap.New(core)
}
