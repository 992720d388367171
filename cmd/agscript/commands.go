package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/gosuda/agscript/ast"
	"github.com/gosuda/agscript/parser"
	agruntime "github.com/gosuda/agscript/runtime"
)

func newRunCmd(cfg *appConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Run a script, then serve its buttons until the window is closed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := loadScript(args[0])
			if err != nil {
				return err
			}
			tui := !cfg.plain && args[0] != "-" && useTUI(os.Stdin, os.Stdout)
			log, closeLog, err := newLogger(cfg, tui)
			if err != nil {
				return err
			}
			defer closeLog()
			log.WithField("script", args[0]).Debug("loaded script")

			var res agruntime.RunResult
			if tui {
				res, err = runTUI(cfg, src, log)
				if err != nil {
					return errors.Wrap(err, "tui")
				}
			} else {
				res = runPlain(cfg, src, log, cmd.InOrStdin(), cmd.OutOrStdout())
			}
			if res.Status == agruntime.Failed {
				return errors.Wrapf(res.LastError, "run %s", res.RunID)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.BoolVar(&cfg.plain, "plain", false, "use line-based stdin/stdout instead of the terminal UI")
	f.BoolVar(&cfg.lenient, "lenient", false, "treat undefined variables as strings of their own name")
	f.BoolVar(&cfg.keepGoing, "keep-going", false, "report failing lines and continue with the next one")
	return cmd
}

func newReplCmd(cfg *appConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive session against a single environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, closeLog, err := newLogger(cfg, false)
			if err != nil {
				return err
			}
			defer closeLog()
			return runREPL(cfg, log, cmd.OutOrStdout())
		},
	}
	f := cmd.Flags()
	f.BoolVar(&cfg.lenient, "lenient", false, "treat undefined variables as strings of their own name")
	f.StringVar(&cfg.history, "history", defaultHistoryPath(), "history file, empty to disable")
	return cmd
}

func newCheckCmd(cfg *appConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE...",
		Short: "Parse scripts and report every syntax error without running them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				src, err := loadScript(path)
				if err != nil {
					return err
				}
				failed += checkSource(cmd.OutOrStdout(), path, src)
			}
			if failed > 0 {
				return errors.Errorf("%d syntax error(s)", failed)
			}
			return nil
		},
	}
}

func newASTCmd(cfg *appConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "ast FILE",
		Short: "Print the parsed statement of every line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := loadScript(args[0])
			if err != nil {
				return err
			}
			return dumpAST(cmd.OutOrStdout(), src)
		},
	}
}

func checkSource(w io.Writer, name, src string) int {
	errs := parser.CheckSource(src)
	for _, err := range errs {
		fmt.Fprintf(w, "%s: %s: %v\n", name, agruntime.ErrorKind(err), err)
	}
	if len(errs) == 0 {
		fmt.Fprintf(w, "%s: ok\n", name)
	}
	return len(errs)
}

func dumpAST(w io.Writer, src string) error {
	lines, err := parser.ParseSource(src)
	if err != nil {
		return err
	}
	for _, pl := range lines {
		fmt.Fprintf(w, "%4d  %s\n", pl.Number, ast.Format(pl.Stmt))
	}
	return nil
}

func useTUI(in, out *os.File) bool {
	return isatty.IsTerminal(in.Fd()) && isatty.IsTerminal(out.Fd())
}
