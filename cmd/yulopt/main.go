// Command yulopt optimises Yul source code.
//
// Usage:
//
//	yulopt [options] <input.yul>
//	cat input.yul | yulopt [options]
//
// Options:
//
//	-o <file>              Write output to file (default: stdout)
//	--config <file>        Use specific config file
//	--no-config            Ignore config files
//	--steps <list>         Comma-separated optimiser steps to run, in order
//	--minify-whitespace    Remove unnecessary whitespace
//	--keep-names <names>   Comma-separated names the disambiguator must not introduce
//	--verbose              Log progress to stderr
//	--version              Print version and exit
//	--help                 Print help and exit
//
// Config file:
//
//	yulopt looks for yulopt.json, .yuloptrc, yulopt.yaml or yulopt.yml in
//	the input's directory and its parents. Config file options are
//	overridden by CLI flags.
//
// Example yulopt.yaml:
//
//	steps:
//	  - disambiguator
//	  - varDeclPropagator
//	minifyWhitespace: false
//	keepNames: [ret_0]
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"codeberg.org/saruga/yulopt/internal/config"
	"codeberg.org/saruga/yulopt/internal/diagnostic"
	"codeberg.org/saruga/yulopt/internal/optimizer"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("yulopt", flag.ContinueOnError)
	flags.SetOutput(stderr)

	var (
		outputFile       string
		configFile       string
		noConfig         bool
		steps            string
		minifyWhitespace bool
		keepNames        string
		verbose          bool
		showVersion      bool
		showHelp         bool
	)

	flags.StringVar(&outputFile, "o", "", "Write output to `file`")
	flags.StringVar(&configFile, "config", "", "Use specific config `file`")
	flags.BoolVar(&noConfig, "no-config", false, "Ignore config files")
	flags.StringVar(&steps, "steps", strings.Join(optimizer.DefaultSteps(), ","), "Comma-separated optimiser `steps` to run, in order")
	flags.BoolVar(&minifyWhitespace, "minify-whitespace", false, "Remove unnecessary whitespace")
	flags.StringVar(&keepNames, "keep-names", "", "Comma-separated `names` the disambiguator must not introduce")
	flags.BoolVar(&verbose, "verbose", false, "Log progress to stderr")
	flags.BoolVar(&showVersion, "version", false, "Print version and exit")
	flags.BoolVar(&showHelp, "help", false, "Print help and exit")

	flags.Usage = func() {
		fmt.Fprintf(stderr, "yulopt - Yul optimiser v%s\n\n", version)
		fmt.Fprintf(stderr, "Usage: yulopt [options] <input.yul>\n")
		fmt.Fprintf(stderr, "       cat input.yul | yulopt [options]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		flags.PrintDefaults()
		fmt.Fprintf(stderr, "\nSteps:\n  %s\n", strings.Join(optimizer.StepNames(), ", "))
		fmt.Fprintf(stderr, "\nConfig file:\n")
		fmt.Fprintf(stderr, "  Searches for %s in the input's and parent directories.\n", strings.Join(config.ConfigFileNames, ", "))
		fmt.Fprintf(stderr, "  CLI flags override config file settings.\n")
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  yulopt contract.yul -o contract.opt.yul\n")
		fmt.Fprintf(stderr, "  cat contract.yul | yulopt --minify-whitespace > contract.min.yul\n")
		fmt.Fprintf(stderr, "  yulopt --steps disambiguator,unusedFunctionPruner,varDeclPropagator contract.yul\n")
	}

	if err := flags.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	if showHelp {
		flags.Usage()
		return nil
	}

	if showVersion {
		fmt.Fprintf(stdout, "yulopt v%s (%s)\n", version, commit)
		return nil
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	// Read input
	var source []byte
	var err error

	if flags.NArg() > 0 {
		source, err = os.ReadFile(flags.Arg(0))
		if err != nil {
			return errors.Wrap(err, "reading input")
		}
	} else {
		// Refuse to block on an interactive terminal
		if f, ok := stdin.(*os.File); ok {
			if stat, err := f.Stat(); err == nil && stat.Mode()&os.ModeCharDevice != 0 {
				flags.Usage()
				return errors.New("no input file specified")
			}
		}
		source, err = io.ReadAll(stdin)
		if err != nil {
			return errors.Wrap(err, "reading stdin")
		}
	}

	// Load config file
	var cfg *config.Config
	if !noConfig {
		var configPath string
		if configFile != "" {
			cfg, err = config.LoadFile(configFile)
			if err != nil {
				return errors.Wrapf(err, "loading config file %s", configFile)
			}
			configPath = configFile
		} else {
			startDir, _ := os.Getwd()
			if flags.NArg() > 0 {
				startDir = filepath.Dir(flags.Arg(0))
			}
			cfg, configPath, err = config.Load(startDir)
			if err != nil {
				return errors.Wrap(err, "loading config")
			}
		}
		if configPath != "" {
			logger.Debug("using config", slog.String("path", configPath))
		}
	}
	if cfg == nil {
		cfg = &config.Config{}
	}

	// CLI overrides, only for flags given explicitly
	cliOpts := config.MergeOptions{KeepNames: splitCommaList(keepNames)}
	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "steps":
			cliOpts.Steps = optimizer.ParseSteps(steps)
			if cliOpts.Steps == nil {
				cliOpts.Steps = []string{}
			}
		case "minify-whitespace":
			cliOpts.MinifyWhitespace = &minifyWhitespace
		}
	})

	opts := cfg.Merge(cliOpts)
	opts.Logger = logger

	// Optimise
	result := optimizer.New(opts).Optimize(string(source))

	if len(result.Errors) > 0 {
		fmt.Fprint(stderr, formatErrors(string(source), result.Errors))
		return errors.Errorf("optimisation failed with %d error(s)", len(result.Errors))
	}

	if err := writeOutput(outputFile, stdout, result.Code); err != nil {
		return err
	}

	// Print stats to stderr if output is to file
	if outputFile != "" {
		fmt.Fprintf(stderr, "Optimised: %d -> %d bytes, %d fused, %d removed\n",
			result.Stats.OriginalSize, result.Stats.OptimizedSize, result.Stats.Fused, result.Stats.Removed)
	}

	return nil
}

// createOutput opens the -o file for writing.
var createOutput = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// writeOutput writes code to the file at path, or to stdout when path is
// empty. The file is closed before returning so a failed flush is reported.
func writeOutput(path string, stdout io.Writer, code string) error {
	if path == "" {
		_, err := io.WriteString(stdout, code)
		return errors.Wrap(err, "writing output")
	}

	f, err := createOutput(path)
	if err != nil {
		return errors.Wrap(err, "creating output file")
	}
	if _, err := io.WriteString(f, code); err != nil {
		f.Close()
		return errors.Wrap(err, "writing output")
	}
	return errors.Wrap(f.Close(), "closing output file")
}

// splitCommaList splits a comma-separated flag value, trimming spaces and
// dropping empty entries.
func splitCommaList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// formatErrors renders located errors with their source line and the rest
// as plain messages.
func formatErrors(source string, errs []optimizer.Error) string {
	var sb strings.Builder
	list := diagnostic.NewList(source)
	for _, e := range errs {
		if e.Line == 0 {
			fmt.Fprintf(&sb, "error: %s\n", e.Message)
			continue
		}
		list.AddError(e.Code, e.Pos, e.End, e.Message)
	}
	sb.WriteString(list.Format())
	return sb.String()
}
