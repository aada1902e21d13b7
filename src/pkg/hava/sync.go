package hava

import (
	"context"
	"net/http"

	"github.com/gh-nvat/hava-export/src/pkg/models"
	"github.com/gh-nvat/hava-export/src/pkg/trace"
)

// Syncer triggers source synchronisation jobs
type Syncer struct {
	client *Client
}

// NewSyncer creates a Syncer backed by client
func NewSyncer(client *Client) *Syncer {
	return &Syncer{client: client}
}

// SyncSource starts a sync job for the source and waits for it to finish.
// A successful sync carries no message.
func (s *Syncer) SyncSource(ctx context.Context, sourceID string) models.Result {
	ctx, span := trace.StartSpan(ctx, "SyncSource")
	defer span.End()

	lg := logger.WithField("sourceId", sourceID)
	lg.Info("SyncSource: starting...")

	resp, err := s.client.do(ctx, s.client.api, http.MethodPost, s.client.url("/sources/%s/sync", sourceID), struct{}{})
	if err != nil {
		return models.Failed(models.FailureTransport, "Sync request to source with ID '%s' failed: %v", sourceID, err)
	}

	switch resp.StatusCode {
	case http.StatusAccepted:
	case http.StatusUnauthorized:
		return models.Failed(models.FailureAuth, unauthorizedMessage)
	case http.StatusNotFound:
		return models.Failed(models.FailureNotFound,
			"Sync request to source with ID '%s' failed because a source with that ID was not found", sourceID)
	case http.StatusUnprocessableEntity:
		return models.Failed(models.FailureUnprocessable, "Sync request failed, invalid ID format")
	default:
		return models.Failed(models.FailureUnexpectedStatus,
			"Sync request failed with unexpected http status code: %d", resp.StatusCode)
	}

	var job models.JobAccepted
	if err := resp.decode(&job); err != nil {
		return models.Failed(models.FailureTransport, "Sync request accepted but the response was invalid: %v", err)
	}
	if job.JobID == "" {
		return models.Failed(models.FailureUnexpectedStatus, "Sync request accepted but no job id was returned")
	}
	lg.WithField("jobId", job.JobID).Info("Triggered sync job")

	result := s.client.WaitForJob(ctx, job.JobID)
	if !result.Success {
		return result
	}

	lg.Info("SyncSource: done.")
	return models.Succeeded("")
}
