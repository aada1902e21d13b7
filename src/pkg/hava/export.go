package hava

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gh-nvat/hava-export/src/pkg/models"
	"github.com/gh-nvat/hava-export/src/pkg/trace"
)

// exportRequest is the fixed body of every export request
var exportRequest = models.ExportRequest{
	ExportFormat: "png",
	Connections:  true,
	Isometric:    false,
	Labels:       false,
}

// ExportOptions selects the view to export and where to write it
type ExportOptions struct {
	EnvironmentID string
	ViewType      string
	ImagePath     string
}

// Exporter exports environment views as PNG images
type Exporter struct {
	client *Client
}

// NewExporter creates an Exporter backed by client
func NewExporter(client *Client) *Exporter {
	return &Exporter{client: client}
}

// Export resolves the view, runs an export job, downloads the image and writes it to opts.ImagePath.
// Nothing is written unless every remote step succeeded. On success the message is the download location.
func (e *Exporter) Export(ctx context.Context, opts ExportOptions) models.Result {
	ctx, span := trace.StartSpan(ctx, "Export")
	defer span.End()

	lg := logger.WithField("environmentId", opts.EnvironmentID).WithField("viewType", opts.ViewType)
	lg.Info("Export: starting...")

	if res := ValidateViewType(opts.ViewType); !res.Success {
		return res
	}

	viewRes := e.client.ResolveViewID(ctx, opts.EnvironmentID, opts.ViewType)
	if !viewRes.Success {
		return viewRes
	}
	viewID := viewRes.Message

	jobRes := e.RequestExport(ctx, viewID)
	if !jobRes.Success {
		return jobRes
	}
	jobID := jobRes.Message

	waitRes := e.client.WaitForJob(ctx, jobID)
	if !waitRes.Success {
		lg.WithField("jobId", jobID).Error(waitRes.Message)
		return waitRes
	}
	location := waitRes.Message
	lg.WithField("location", location).Info("PNG exported")

	data, dlRes := e.Download(ctx, jobID, location)
	if !dlRes.Success {
		return dlRes
	}

	if err := writeImage(opts.ImagePath, data); err != nil {
		return models.Failed(models.FailureFilesystem, "failed to write image to '%s': %v", opts.ImagePath, err)
	}

	lg.WithField("imagePath", opts.ImagePath).WithField("bytes", len(data)).Info("Export: done.")
	return models.Succeeded(location)
}

// RequestExport submits an export job for the view. On success the message is the job id.
func (e *Exporter) RequestExport(ctx context.Context, viewID string) models.Result {
	resp, err := e.client.do(ctx, e.client.api, http.MethodPost, e.client.url("/views/%s/export", viewID), exportRequest)
	if err != nil {
		return models.Failed(models.FailureTransport, "Export request for view '%s' failed: %v", viewID, err)
	}

	switch resp.StatusCode {
	case http.StatusAccepted:
	case http.StatusUnauthorized:
		return models.Failed(models.FailureAuth, unauthorizedMessage)
	case http.StatusNotFound:
		return models.Failed(models.FailureNotFound, "Could not find view with ID '%s'. This should never happen!", viewID)
	case http.StatusUnprocessableEntity:
		var apiErr models.APIError
		if err := resp.decode(&apiErr); err != nil || apiErr.Message == "" {
			return models.Failed(models.FailureUnprocessable, "API responded with invalid request: %s", strings.TrimSpace(string(resp.Body)))
		}
		return models.Failed(models.FailureUnprocessable, "API responded with invalid request: %s", apiErr.Message)
	default:
		return models.Failed(models.FailureUnexpectedStatus,
			"Unexpected status code returned from Hava API: '%d' Error from API: %s", resp.StatusCode, string(resp.Body))
	}

	var job models.JobAccepted
	if err := resp.decode(&job); err != nil {
		return models.Failed(models.FailureTransport, "Export request accepted but the response was invalid: %v", err)
	}
	if job.JobID == "" {
		return models.Failed(models.FailureUnexpectedStatus, "Export request accepted but no job id was returned")
	}
	logger.WithField("viewId", viewID).WithField("jobId", job.JobID).Info("Triggered export job")
	return models.Succeeded(job.JobID)
}

// Download fetches the exported image from location without credentials.
// An export job that finished without redirecting has no location, which is a failure.
func (e *Exporter) Download(ctx context.Context, jobID, location string) ([]byte, models.Result) {
	ctx, span := trace.StartSpan(ctx, "Download")
	defer span.End()

	if strings.TrimSpace(location) == "" {
		return nil, models.Failed(models.FailureTransport,
			"export job '%s' completed without a download location", jobID)
	}

	if err := e.client.limiter.Wait(ctx); err != nil {
		return nil, models.Failed(models.FailureTransport, "failed to download image: %v", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, models.Failed(models.FailureTransport, "invalid download location '%s': %v", location, err)
	}

	resp, err := e.client.download.Do(req)
	if err != nil {
		return nil, models.Failed(models.FailureTransport, "failed to download image: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, models.Failed(models.FailureTransport, "Unexpected status code when downloading png '%d'", resp.StatusCode)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, models.Failed(models.FailureTransport, "failed to read image data: %v", err)
	}
	return buf.Bytes(), models.Succeeded(location)
}

// writeImage creates missing parent directories and overwrites path with data
func writeImage(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", dir, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
