package runner

import (
	"context"
	"fmt"
	"io"
	"os"
)

// RunnerLocal runs the pipeline from a terminal and prints the image path to stdout
type RunnerLocal struct {
	RunnerBase

	Stdout io.Writer
}

var _ RunnerInterface = (*RunnerLocal)(nil)

func NewRunnerLocal(
	ctx context.Context,
	options *Options,
	syncer SourceSyncer,
	exporter ViewExporter,
) (*RunnerLocal, error) {
	baseRunner, err := NewRunnerBase(ctx, options, syncer, exporter)
	if err != nil {
		return nil, err
	}
	runner := &RunnerLocal{
		RunnerBase: *baseRunner,
		Stdout:     os.Stdout,
	}
	runner.Instance = runner
	return runner, nil
}

func (r *RunnerLocal) ReportPath(path string) error {
	if err := r.RunnerBase.ReportPath(path); err != nil {
		return err
	}
	if path == "" {
		return nil
	}
	_, err := fmt.Fprintln(r.Stdout, path)
	return err
}
