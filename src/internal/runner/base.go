package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gh-nvat/hava-export/src/pkg/hava"
	"github.com/gh-nvat/hava-export/src/pkg/models"
	"github.com/gh-nvat/hava-export/src/pkg/trace"
	"github.com/gh-nvat/hava-export/src/pkg/validate"

	log "github.com/sirupsen/logrus"
)

var logger = log.WithField("package", "runner")

const ReportFileName = "report.json"

type RunnerBase struct {
	Context context.Context
	Options *Options

	RunMode string

	Syncer   SourceSyncer
	Exporter ViewExporter

	// Instance is the outermost runner, its ReportPath and Output are used by Process
	Instance RunnerInterface
}

// make RunnerBase implement RunnerInterface
var _ RunnerInterface = (*RunnerBase)(nil)

func NewRunnerBase(
	ctx context.Context,
	options *Options,
	syncer SourceSyncer,
	exporter ViewExporter,
) (*RunnerBase, error) {
	runner := &RunnerBase{
		Context:  ctx,
		Options:  options,
		RunMode:  options.RunMode,
		Syncer:   syncer,
		Exporter: exporter,
	}
	runner.Instance = runner
	return runner, nil
}

func (r *RunnerBase) Initialize() error {
	logger.Info("Initializing runner: starting...")

	if r.Syncer == nil || r.Exporter == nil {
		return fmt.Errorf("syncer and exporter are required")
	}
	if r.Instance == nil {
		r.Instance = r
	}

	logger.Info("Initialize runner: done.")
	return nil
}

// Process runs the pipeline: Validating -> Syncing -> (Skipped | Exporting) -> Done.
// The first failing stage ends the run and its result is returned.
func (r *RunnerBase) Process() models.Result {
	ctx, span := trace.StartSpan(r.Context, "Process")
	defer span.End()

	logger.Info("Process: starting...")

	report := r.newReport()
	result := r.runStages(ctx, report)
	report.Result = result

	if err := r.Instance.Output(report); err != nil {
		logger.WithField("error", err).Error("Failed to output run report")
	}

	if result.Success {
		logger.Info("Process: done.")
	} else {
		logger.WithField("kind", result.Kind).Info("Process: failed.")
	}
	return result
}

func (r *RunnerBase) runStages(ctx context.Context, report *models.ReportData) models.Result {
	started := time.Now()
	validation := validate.UserInput(r.Options.Input())
	report.AddStage(models.StageValidate, started, validation)
	if !validation.Success {
		return validation
	}

	syncCtx, syncSpan := trace.StartSpan(ctx, "Stage.Sync")
	started = time.Now()
	syncResult := r.Syncer.SyncSource(syncCtx, r.Options.SourceID)
	report.AddStage(models.StageSync, started, syncResult)
	syncSpan.End()

	// the path is reported before the sync outcome is looked at
	if err := r.Instance.ReportPath(r.Options.ImagePath); err != nil {
		logger.WithField("error", err).Error("Failed to report image path")
		if syncResult.Success {
			return models.Failed(models.FailureFilesystem, "failed to report image path: %v", err)
		}
	}

	if !syncResult.Success {
		return syncResult
	}

	if r.Options.SkipExport {
		logger.Info("Export skipped")
		return syncResult
	}

	exportCtx, exportSpan := trace.StartSpan(ctx, "Stage.Export")
	defer exportSpan.End()
	started = time.Now()
	exportResult := r.Exporter.Export(exportCtx, hava.ExportOptions{
		EnvironmentID: r.Options.EnvironmentID,
		ViewType:      r.Options.ViewType,
		ImagePath:     r.Options.ImagePath,
	})
	report.AddStage(models.StageExport, started, exportResult)
	return exportResult
}

func (r *RunnerBase) newReport() *models.ReportData {
	return &models.ReportData{
		Timestamp:     time.Now(),
		RunMode:       r.RunMode,
		SourceID:      r.Options.SourceID,
		EnvironmentID: r.Options.EnvironmentID,
		ViewType:      r.Options.ViewType,
		ImagePath:     r.Options.ImagePath,
		SkipExport:    r.Options.SkipExport,
	}
}

func (r *RunnerBase) ReportPath(path string) error {
	logger.WithField("path", path).Info("Image path")
	return nil
}

func (r *RunnerBase) Output(data *models.ReportData) error {
	logger.Info("Output: starting...")
	if err := r.outputReportJson(data); err != nil {
		return err
	}
	logger.Info("Output: done.")
	return nil
}

// Exporting report json file to output directory if enabled
func (r *RunnerBase) outputReportJson(data *models.ReportData) error {
	if !r.Options.EnableExportReport {
		logger.Info("OutputJson: option was disabled")
		return nil
	}
	logger.Info("OutputJson: starting...")

	if err := os.MkdirAll(r.Options.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	resultsJson, err := json.Marshal(data)
	if err != nil {
		return err
	}
	filePath := filepath.Join(r.Options.OutputDir, ReportFileName)
	if err := os.WriteFile(filePath, resultsJson, 0644); err != nil {
		logger.WithField("filePath", filePath).WithField("error", err).Error("Failed to write report data to file")
		return err
	}
	logger.WithField("filePath", filePath).Info("Written report data to file")
	return nil
}
