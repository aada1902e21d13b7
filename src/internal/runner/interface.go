package runner

import (
	"context"

	"github.com/gh-nvat/hava-export/src/pkg/hava"
	"github.com/gh-nvat/hava-export/src/pkg/models"
)

type RunnerInterface interface {
	// Initialize the runner, checks its collaborators are set
	Initialize() error

	// Main routine: validate, sync, then export unless skipped
	Process() models.Result

	// Report the intended image path, called once sync has returned
	ReportPath(path string) error

	// Handling the export of the run report
	Output(data *models.ReportData) error
}

// SourceSyncer runs the sync stage
type SourceSyncer interface {
	SyncSource(ctx context.Context, sourceID string) models.Result
}

// ViewExporter runs the export stage
type ViewExporter interface {
	Export(ctx context.Context, opts hava.ExportOptions) models.Result
}

var (
	_ SourceSyncer = (*hava.Syncer)(nil)
	_ ViewExporter = (*hava.Exporter)(nil)
)
