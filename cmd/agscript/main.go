package main

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const logLevelEnv = "AGSCRIPT_LOG_LEVEL"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := &appConfig{}
	root := &cobra.Command{
		Use:           "agscript",
		Short:         "Interpreter for line-oriented button scripts",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	defaultLevel := strings.TrimSpace(os.Getenv(logLevelEnv))
	if defaultLevel == "" {
		defaultLevel = "info"
	}
	pf := root.PersistentFlags()
	pf.StringVar(&cfg.logLevel, "log-level", defaultLevel, "log level: trace|debug|info|warn|error (env "+logLevelEnv+")")
	pf.StringVar(&cfg.logFormat, "log-format", "text", "log format: text|json")
	pf.StringVar(&cfg.logFile, "log-file", "", "write logs to this file instead of stderr")

	root.AddCommand(
		newRunCmd(cfg),
		newReplCmd(cfg),
		newCheckCmd(cfg),
		newASTCmd(cfg),
	)
	return root
}

// newLogger builds the process logger. When quiet is set and no log file was
// given, logs are discarded so they do not corrupt the terminal UI.
func newLogger(cfg *appConfig, quiet bool) (*logrus.Logger, func(), error) {
	log := logrus.New()
	level, err := logrus.ParseLevel(cfg.logLevel)
	if err != nil {
		return nil, nil, errors.Wrap(err, "log level")
	}
	log.SetLevel(level)

	switch cfg.logFormat {
	case "", "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, nil, errors.Errorf("unknown log format %q", cfg.logFormat)
	}

	closer := func() {}
	switch {
	case cfg.logFile != "":
		f, err := os.OpenFile(cfg.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, errors.Wrap(err, "open log file")
		}
		log.SetOutput(f)
		closer = func() { _ = f.Close() }
	case quiet:
		log.SetOutput(io.Discard)
	default:
		log.SetOutput(os.Stderr)
	}
	return log, closer, nil
}
