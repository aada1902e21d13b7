package runner

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/gh-nvat/hava-export/src/pkg/github"
	"github.com/gh-nvat/hava-export/src/pkg/models"
	"github.com/gh-nvat/hava-export/src/pkg/template"
)

const OutputNamePath = "path"

// RunnerGitHub runs the pipeline as a GitHub Actions step.
// The image path becomes the "path" step output, failures become error annotations,
// and a summary comment is kept up to date on the pull request when one is configured.
type RunnerGitHub struct {
	RunnerBase

	options  *Options
	ghclient github.GitHubClient
	renderer *template.Renderer

	Stdout io.Writer
}

var _ RunnerInterface = (*RunnerGitHub)(nil)

// NewRunnerGitHub creates a GitHub runner. ghclient may be nil when no PR comment is wanted.
func NewRunnerGitHub(
	ctx context.Context,
	options *Options,
	ghclient github.GitHubClient,
	syncer SourceSyncer,
	exporter ViewExporter,
	renderer *template.Renderer,
) (*RunnerGitHub, error) {
	if options.CommentEnabled() && ghclient == nil {
		return nil, fmt.Errorf("GitHub client is not initialized")
	}
	baseRunner, err := NewRunnerBase(ctx, options, syncer, exporter)
	if err != nil {
		return nil, err
	}
	runner := &RunnerGitHub{
		RunnerBase: *baseRunner,
		options:    options,
		ghclient:   ghclient,
		renderer:   renderer,
		Stdout:     os.Stdout,
	}
	runner.Instance = runner
	return runner, nil
}

func (r *RunnerGitHub) Initialize() error {
	lg := logger.WithField("func", "RunnerGitHub.Initialize()")
	lg.Info("Initializing runner: starting...")

	if r.renderer == nil {
		r.renderer = template.NewRenderer()
	}
	if os.Getenv(github.EnvGitHubOutput) == "" {
		lg.Warn("GITHUB_OUTPUT env was not set. The path output will be written as a set-output command.")
	}

	lg.Info("Initializing runner: done.")
	return r.RunnerBase.Initialize()
}

func (r *RunnerGitHub) ReportPath(path string) error {
	if err := r.RunnerBase.ReportPath(path); err != nil {
		return err
	}
	return github.SetOutput(r.Stdout, OutputNamePath, path)
}

func (r *RunnerGitHub) Output(data *models.ReportData) error {
	logger.Info("Output: starting...")
	if !data.Result.Success {
		if err := github.WriteCommand(r.Stdout, "error", data.Result.Message); err != nil {
			return err
		}
	}
	if err := r.outputReportJson(data); err != nil {
		return err
	}
	r.outputGitHubComment(data)
	logger.Info("Output: done.")
	return nil
}

// Post or update the summary comment on the PR. Failures are logged, they never fail the run.
func (r *RunnerGitHub) outputGitHubComment(data *models.ReportData) {
	if !r.options.CommentEnabled() {
		logger.Debug("OutputGitHubComment: no pull request configured")
		return
	}
	logger.Info("OutputGitHubComment: starting...")

	comment, err := r.renderer.RenderComment(data)
	if err != nil {
		logger.WithField("error", err).Warn("Failed to render comment")
		return
	}

	existing, err := r.ghclient.FindToolComment(r.Context, r.options.GhRepo, r.options.GhPrNumber, template.Signature(data.SourceID))
	if err != nil {
		logger.WithField("error", err).Warn("Failed to find existing comment, will create new one")
	}

	if existing != nil {
		if err := r.ghclient.UpdateComment(r.Context, r.options.GhRepo, existing.ID, comment); err != nil {
			logger.WithField("error", err).Warn("Failed to update existing comment")
			return
		}
		logger.Info("Updated existing GitHub comment")
		return
	}
	if _, err := r.ghclient.CreateComment(r.Context, r.options.GhRepo, r.options.GhPrNumber, comment); err != nil {
		logger.WithField("error", err).Warn("Failed to create new comment")
		return
	}
	logger.Info("Created new GitHub comment")
}
