package main

import (
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"

	"github.com/datafi/coordinator-keygen/pkg/bootstrap"
	"github.com/datafi/coordinator-keygen/pkg/config"
	"github.com/datafi/coordinator-keygen/pkg/errors"
)

type options struct {
	outputDir     string
	force         bool
	noFiles       bool
	jwksFile      string
	envFile       string
	quiet         bool
	skipSelfCheck bool
}

func main() {
	// Logs go to stderr so stdout carries only the result
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelInfo, TimeFormat: time.Kitchen})))

	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if stderrors.Is(err, flag.ErrHelp) {
			os.Exit(errors.ExitOK)
		}
		reportError(os.Stderr, err)
		os.Exit(errors.ExitCode(err))
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("keygen", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.outputDir, "out", "", "Directory for the key files (overrides KEYGEN_OUTPUT_DIR)")
	fs.BoolVar(&opts.force, "force", false, "Overwrite existing key files")
	fs.BoolVar(&opts.noFiles, "no-files", false, "Print the exports without writing any file")
	fs.StringVar(&opts.jwksFile, "jwks-file", "", "Also write the JWKS document to this file name")
	fs.StringVar(&opts.envFile, "env-file", "", "Also write the exports to this file name")
	fs.BoolVar(&opts.quiet, "quiet", false, "Print only the export lines")
	fs.BoolVar(&opts.skipSelfCheck, "skip-self-check", false, "Skip signing and verifying a probe token")
	if err := fs.Parse(args); err != nil {
		if stderrors.Is(err, flag.ErrHelp) {
			return err
		}
		return errors.Wrap(err, errors.ErrCodeInvalidConfig, "invalid arguments")
	}
	if fs.NArg() > 0 {
		return errors.InvalidConfig("arguments", fmt.Sprintf("unexpected %q", strings.Join(fs.Args(), " ")))
	}

	config.LoadEnvFile()

	cfg, err := config.ReadKeygenConfig()
	if err != nil {
		return err
	}
	applyFlags(fs, opts, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	slog.SetDefault(newLogger(cfg, stderr))

	slog.Info("Generating JWT key material for the coordinator")

	result, err := bootstrap.Provision(bootstrap.ProvisionConfig{
		SkipSelfCheck: !cfg.SelfCheck,
	})
	if err != nil {
		return err
	}

	var report *bootstrap.WriteReport
	if cfg.WriteFiles {
		report, err = bootstrap.WriteArtifacts(result, bootstrap.NewOutputConfig(cfg))
		if err != nil {
			return err
		}
	}

	if opts.quiet {
		bootstrap.PrintExports(stdout, result, cfg.EnvNames)
	} else {
		bootstrap.PrintProvisionResult(stdout, result, report, cfg.EnvNames)
	}

	bootstrap.LogProvisionSummary(result, report)
	return nil
}

// reportError prints the failure and any hint attached to it
func reportError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	if hint, ok := errors.GetDetails(err)["hint"].(string); ok {
		fmt.Fprintf(w, "Hint: %s\n", hint)
	}
}

// applyFlags copies explicitly set flags over the environment configuration
func applyFlags(fs *flag.FlagSet, opts options, cfg *config.KeygenConfig) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "out":
			cfg.OutputDir = opts.outputDir
		case "force":
			cfg.Force = opts.force
		case "no-files":
			cfg.WriteFiles = !opts.noFiles
		case "jwks-file":
			cfg.JWKSFile = opts.jwksFile
		case "env-file":
			cfg.EnvFile = opts.envFile
		case "skip-self-check":
			cfg.SelfCheck = !opts.skipSelfCheck
		}
	})
}

func newLogger(cfg config.KeygenConfig, w io.Writer) *slog.Logger {
	if strings.ToLower(cfg.LogFormat) == "json" {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	}
	return slog.New(tint.NewHandler(w, &tint.Options{Level: cfg.SlogLevel(), TimeFormat: time.Kitchen}))
}
