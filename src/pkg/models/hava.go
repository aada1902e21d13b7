package models

// Job states reported by the jobs endpoint while work is still in progress.
// Any other state is terminal.
const (
	JobStateQueued = "queued"
	JobStateActive = "active"
)

// View is a rendered diagram of an environment
type View struct {
	ID              string   `json:"id"`
	Type            string   `json:"type"`
	ImageName       string   `json:"image_name,omitempty"`
	ImageURL        string   `json:"image_url,omitempty"`
	ExportTimestamp int64    `json:"export_timestamp,omitempty"`
	RevisionID      string   `json:"revision_id,omitempty"`
	Regions         []string `json:"regions,omitempty"`
	Empty           bool     `json:"empty,omitempty"`
}

// Environment is the subset of the environment detail response we read
type Environment struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Views []View `json:"views"`
}

// JobAccepted is the body of a 202 response to a job-creating request
type JobAccepted struct {
	JobID string `json:"job_id"`
}

// JobStatus is the body of a 200 response from the jobs endpoint
type JobStatus struct {
	ID     string   `json:"id,omitempty"`
	State  string   `json:"state"`
	Errors []string `json:"errors,omitempty"`
}

// IsPending reports whether the job has not reached a terminal state yet
func (s JobStatus) IsPending() bool {
	return s.State == JobStateQueued || s.State == JobStateActive
}

// APIError is the body the API returns alongside 422 responses
type APIError struct {
	Message string `json:"message"`
}

// ExportRequest is the body posted to a view's export endpoint
type ExportRequest struct {
	ExportFormat string `json:"export_format"`
	Connections  bool   `json:"connections"`
	Isometric    bool   `json:"isometric"`
	Labels       bool   `json:"labels"`
}
