package runner

import (
	"context"
	"strings"
	"sync"

	"github.com/gh-nvat/hava-export/src/pkg/github"
	"github.com/gh-nvat/hava-export/src/pkg/hava"
	"github.com/gh-nvat/hava-export/src/pkg/models"
)

const (
	testSourceID = "3f1c2a9e-8b7d-4c6e-9a51-0d2f4b6c8e10"
	testEnvID    = "b2a41f6c-0e3d-4d8a-bc7e-5f9a1d2c3e4f"
)

// events records the order in which collaborators were called
type events struct {
	mu   sync.Mutex
	list []string
}

func (e *events) add(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.list = append(e.list, name)
}

func (e *events) all() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.list...)
}

type fakeSyncer struct {
	events *events
	result models.Result
	calls  int
}

func (f *fakeSyncer) SyncSource(ctx context.Context, sourceID string) models.Result {
	f.calls++
	f.events.add("sync:" + sourceID)
	return f.result
}

type fakeExporter struct {
	events *events
	result models.Result
	calls  int
	opts   hava.ExportOptions
}

func (f *fakeExporter) Export(ctx context.Context, opts hava.ExportOptions) models.Result {
	f.calls++
	f.opts = opts
	f.events.add("export:" + opts.ViewType)
	return f.result
}

type fakeGitHub struct {
	comments  []*models.Comment
	created   []string
	updated   map[int64]string
	findErr   error
	createErr error
}

var _ github.GitHubClient = (*fakeGitHub)(nil)

func (f *fakeGitHub) CreateComment(ctx context.Context, repo string, number int, body string) (*models.Comment, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, body)
	c := &models.Comment{ID: int64(100 + len(f.created)), Body: body}
	f.comments = append(f.comments, c)
	return c, nil
}

func (f *fakeGitHub) UpdateComment(ctx context.Context, repo string, commentID int64, body string) error {
	if f.updated == nil {
		f.updated = map[int64]string{}
	}
	f.updated[commentID] = body
	return nil
}

func (f *fakeGitHub) GetComments(ctx context.Context, repo string, number int) ([]*models.Comment, error) {
	return f.comments, nil
}

func (f *fakeGitHub) FindToolComment(ctx context.Context, repo string, prNumber int, searchString string) (*models.Comment, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, c := range f.comments {
		if strings.Contains(c.Body, searchString) {
			return c, nil
		}
	}
	return nil, nil
}

func validOptions(t interface{ TempDir() string }) *Options {
	return &Options{
		RunMode:       RunModeLocal,
		SourceID:      testSourceID,
		EnvironmentID: testEnvID,
		ViewType:      "infrastructure",
		HavaToken:     "token",
		ImagePath:     "./hava/infrastructure.png",
		OutputDir:     t.TempDir(),
	}
}
