package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/gh-nvat/hava-export/src/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type localFixture struct {
	runner   *RunnerLocal
	syncer   *fakeSyncer
	exporter *fakeExporter
	events   *events
	stdout   *bytes.Buffer
}

func newLocalFixture(t *testing.T, opts *Options) *localFixture {
	t.Helper()
	ev := &events{}
	syncer := &fakeSyncer{events: ev, result: models.Succeeded("")}
	exporter := &fakeExporter{events: ev, result: models.Succeeded("https://download/x.png")}

	r, err := NewRunnerLocal(context.Background(), opts, syncer, exporter)
	require.NoError(t, err)
	stdout := &bytes.Buffer{}
	r.Stdout = &recordingWriter{buf: stdout, events: ev}
	require.NoError(t, r.Initialize())

	return &localFixture{runner: r, syncer: syncer, exporter: exporter, events: ev, stdout: stdout}
}

// recordingWriter records writes as "path" events so ordering can be asserted
type recordingWriter struct {
	buf    *bytes.Buffer
	events *events
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	w.events.add("path")
	return w.buf.Write(p)
}

func TestProcess_HappyPath(t *testing.T) {
	f := newLocalFixture(t, validOptions(t))

	res := f.runner.Process()

	require.True(t, res.Success, res.Message)
	assert.Equal(t, []string{"sync:" + testSourceID, "path", "export:infrastructure"}, f.events.all())
	assert.Equal(t, "./hava/infrastructure.png\n", f.stdout.String())
	assert.Equal(t, testEnvID, f.exporter.opts.EnvironmentID)
	assert.Equal(t, "./hava/infrastructure.png", f.exporter.opts.ImagePath)
}

func TestProcess_ValidationFailureStopsEverything(t *testing.T) {
	opts := validOptions(t)
	opts.SourceID = "abc"
	opts.ImagePath = "../bad.png"
	f := newLocalFixture(t, opts)

	res := f.runner.Process()

	assert.False(t, res.Success)
	assert.Equal(t, models.FailureValidation, res.Kind)
	assert.Contains(t, res.Message, "Source Id 'abc' is not well formed")
	assert.Contains(t, res.Message, "Invalid path")
	assert.Empty(t, f.events.all(), "no sync, no path, no export")
}

func TestProcess_SyncFailureStillReportsPathOnce(t *testing.T) {
	f := newLocalFixture(t, validOptions(t))
	f.syncer.result = models.Failed(models.FailureNotFound, "Sync request to source with ID '%s' failed", testSourceID)

	res := f.runner.Process()

	assert.False(t, res.Success)
	assert.Equal(t, models.FailureNotFound, res.Kind)
	assert.Equal(t, []string{"sync:" + testSourceID, "path"}, f.events.all())
	assert.Equal(t, 0, f.exporter.calls)
}

func TestProcess_SkipExport(t *testing.T) {
	opts := validOptions(t)
	opts.SkipExport = true
	opts.EnvironmentID = ""
	opts.ViewType = ""
	opts.ImagePath = ""
	f := newLocalFixture(t, opts)

	res := f.runner.Process()

	require.True(t, res.Success, res.Message)
	assert.Equal(t, 1, f.syncer.calls)
	assert.Equal(t, 0, f.exporter.calls)
	assert.Empty(t, f.stdout.String(), "empty path is not printed")
}

func TestProcess_ExportFailureIsReturned(t *testing.T) {
	f := newLocalFixture(t, validOptions(t))
	f.exporter.result = models.Failed(models.FailureTimeout, "timed out waiting for job 'j' to complete")

	res := f.runner.Process()

	assert.False(t, res.Success)
	assert.Equal(t, models.FailureTimeout, res.Kind)
	assert.Equal(t, 1, f.exporter.calls)
}

func TestProcess_WritesReportJson(t *testing.T) {
	opts := validOptions(t)
	opts.EnableExportReport = true
	opts.OutputDir = filepath.Join(t.TempDir(), "reports")
	f := newLocalFixture(t, opts)
	f.exporter.result = models.Failed(models.FailureAuth, "Unauthorized")

	f.runner.Process()

	data, err := os.ReadFile(filepath.Join(opts.OutputDir, ReportFileName))
	require.NoError(t, err)

	var report models.ReportData
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, RunModeLocal, report.RunMode)
	assert.Equal(t, testSourceID, report.SourceID)
	assert.False(t, report.Result.Success)
	assert.Equal(t, models.FailureAuth, report.Result.Kind)
	require.Len(t, report.Stages, 3)
	assert.Equal(t, models.StageValidate, report.Stages[0].Name)
	assert.Equal(t, models.StageSync, report.Stages[1].Name)
	assert.Equal(t, models.StageExport, report.Stages[2].Name)
	assert.NotContains(t, string(data), "token")
}

func TestProcess_ReportJsonDisabled(t *testing.T) {
	opts := validOptions(t)
	f := newLocalFixture(t, opts)

	f.runner.Process()

	assert.NoFileExists(t, filepath.Join(opts.OutputDir, ReportFileName))
}

func TestInitialize_RequiresCollaborators(t *testing.T) {
	r, err := NewRunnerBase(context.Background(), validOptions(t), nil, nil)
	require.NoError(t, err)
	assert.Error(t, r.Initialize())
}
