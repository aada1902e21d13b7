package hava

import (
	"context"
	"net/http"
	"time"

	"github.com/gh-nvat/hava-export/src/pkg/models"
	"github.com/gh-nvat/hava-export/src/pkg/trace"
	"go.opentelemetry.io/otel/attribute"
)

const unauthorizedMessage = "Unauthorized returned by the API, is the API token valid?"

// WaitForJob polls the job until it completes, using the configured job timeout
func (c *Client) WaitForJob(ctx context.Context, jobID string) models.Result {
	return c.WaitForJobWithTimeout(ctx, jobID, c.config.JobTimeout)
}

// WaitForJobWithTimeout polls the job status endpoint until the job reaches a terminal state,
// the endpoint redirects (the job is done and the Location header points at its output),
// or timeout elapses. The timeout is measured from the first poll, not per request.
// On success the message is the redirect location, or empty for in-band completion.
func (c *Client) WaitForJobWithTimeout(ctx context.Context, jobID string, timeout time.Duration) models.Result {
	ctx, span := trace.StartSpan(ctx, "WaitForJob")
	defer span.End()
	span.SetAttributes(attribute.String("job.id", jobID))

	lg := logger.WithField("jobId", jobID)
	lg.WithField("timeout", timeout).Info("Waiting for job to complete")

	jobURL := c.url("/jobs/%s", jobID)
	start := c.now()
	polls := 0

	for {
		if c.now().Sub(start) >= timeout {
			lg.WithField("polls", polls).Error("Timed out waiting for job")
			return models.Failed(models.FailureTimeout, "timed out waiting for job '%s' to complete", jobID)
		}

		polls++
		resp, err := c.do(ctx, c.jobs, http.MethodGet, jobURL, nil)
		if err != nil {
			return models.Failed(models.FailureTransport, "failed to check status of job '%s': %v", jobID, err)
		}

		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return models.Failed(models.FailureAuth, unauthorizedMessage)
		case http.StatusOK:
			var status models.JobStatus
			if err := resp.decode(&status); err != nil {
				return models.Failed(models.FailureTransport, "invalid status for job '%s': %v", jobID, err)
			}
			if !status.IsPending() {
				lg.WithField("state", status.State).WithField("polls", polls).Info("Job reached terminal state")
				span.SetAttributes(attribute.Int("job.polls", polls))
				return models.Succeeded("")
			}
			lg.WithField("state", status.State).Debug("Job still running")
		case http.StatusSeeOther:
			location := resp.Header.Get("Location")
			lg.WithField("location", location).WithField("polls", polls).Info("Job completed with redirect")
			span.SetAttributes(attribute.Int("job.polls", polls))
			return models.Succeeded(location)
		default:
			return models.Failed(models.FailureUnexpectedStatus,
				"unexpected http error code %d while waiting for job '%s' to complete", resp.StatusCode, jobID)
		}

		if err := c.sleep(ctx, c.config.PollInterval); err != nil {
			return models.Failed(models.FailureTimeout, "stopped waiting for job '%s': %v", jobID, err)
		}
	}
}
