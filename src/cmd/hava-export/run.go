package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gh-nvat/hava-export/src/internal/runner"
	"github.com/gh-nvat/hava-export/src/pkg/config"
	"github.com/gh-nvat/hava-export/src/pkg/github"
	"github.com/gh-nvat/hava-export/src/pkg/hava"
	"github.com/gh-nvat/hava-export/src/pkg/template"
	"github.com/gh-nvat/hava-export/src/pkg/trace"
	log "github.com/sirupsen/logrus"
)

var logger = log.WithField("package", "run")

// createRunner creates the appropriate runner
func createRunner(ctx context.Context, opts *runner.Options, cfg *config.Config) (runner.RunnerInterface, error) {
	logger.WithField("runMode", opts.RunMode).Debug("Creating runner..")

	client := hava.NewClient(cfg.ClientConfig(opts.HavaToken))
	syncer := hava.NewSyncer(client)
	exporter := hava.NewExporter(client)

	switch opts.RunMode {
	case runner.RunModeGitHub:
		var ghClient github.GitHubClient
		if opts.CommentEnabled() {
			c, err := github.NewClient()
			if err != nil {
				return nil, fmt.Errorf("GitHub authentication failed: %w", err)
			}
			ghClient = c
		}
		r, err := runner.NewRunnerGitHub(ctx, opts, ghClient, syncer, exporter, template.NewRenderer())
		if err != nil {
			return nil, fmt.Errorf("failed to create GitHub runner: %w", err)
		}
		return r, nil
	case runner.RunModeLocal:
		r, err := runner.NewRunnerLocal(ctx, opts, syncer, exporter)
		if err != nil {
			return nil, fmt.Errorf("failed to create Local runner: %w", err)
		}
		return r, nil
	default:
		return nil, fmt.Errorf("invalid run mode: %s", opts.RunMode)
	}
}

func initialize(ctx context.Context, opts *runner.Options, cfg *config.Config) (runner.RunnerInterface, error) {
	r, err := createRunner(ctx, opts, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}
	if err := r.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize runner: %w", err)
	}
	return r, nil
}

func run(ctx context.Context, opts *runner.Options, skipExportSet bool) error {
	if opts.Debug {
		log.SetLevel(log.DebugLevel)
	}
	if err := validateOptions(opts); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	if opts.RunMode == runner.RunModeGitHub {
		log.AddHook(&github.WorkflowCommandHook{Writer: os.Stdout})
	}

	if err := config.LoadEnvFile(opts.EnvFile); err != nil {
		return err
	}
	opts.ApplyInputDefaults(config.EnvLookup, skipExportSet)
	logger.WithField("sourceId", opts.SourceID).WithField("skipExport", opts.SkipExport).Info("Running..")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	shutdown, err := trace.InitTracer("hava-export", opts.EnableExportPerformanceReport, opts.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to initialize tracer: %w", err)
	}
	defer shutdown()

	appRunner, err := initialize(ctx, opts, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	return appRunner.Process().Err()
}

func validateOptions(opts *runner.Options) error {
	if opts.RunMode != runner.RunModeGitHub && opts.RunMode != runner.RunModeLocal {
		return fmt.Errorf("run-mode must be 'github' or 'local', got: %s", opts.RunMode)
	}
	if opts.RunMode == runner.RunModeLocal && (opts.GhRepo != "" || opts.GhPrNumber != 0) {
		return fmt.Errorf("--gh-repo and --gh-pr-number are only used in github mode")
	}
	if (opts.GhRepo == "") != (opts.GhPrNumber == 0) {
		return fmt.Errorf("--gh-repo and --gh-pr-number must be given together")
	}
	if opts.GhPrNumber < 0 {
		return fmt.Errorf("--gh-pr-number must be positive, got: %d", opts.GhPrNumber)
	}
	return nil
}
