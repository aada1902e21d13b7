package hava

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// fakeAPI is a minimal in-memory Hava API
type fakeAPI struct {
	t   *testing.T
	srv *httptest.Server

	mu    sync.Mutex
	calls map[string]int

	environmentStatus int
	environment       map[string]any

	exportStatus int
	exportBody   string
	exportReq    map[string]any

	syncStatus int
	syncBody   string

	// jobs maps a job id to the responses served on each poll, the last one repeats
	jobs map[string][]jobReply

	downloadStatus int
	downloadBody   []byte
	downloadAuth   string
}

type jobReply struct {
	status   int
	state    string
	location string
}

func newFakeAPI(t *testing.T) *fakeAPI {
	api := &fakeAPI{
		t:                 t,
		calls:             make(map[string]int),
		environmentStatus: http.StatusOK,
		exportStatus:      http.StatusAccepted,
		exportBody:        `{"job_id":"export-job"}`,
		syncStatus:        http.StatusAccepted,
		syncBody:          `{"job_id":"sync-job"}`,
		jobs:              make(map[string][]jobReply),
		downloadStatus:    http.StatusOK,
		downloadBody:      []byte("\x89PNG fake image"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /environments/{id}", api.handleEnvironment)
	mux.HandleFunc("POST /views/{id}/export", api.handleExport)
	mux.HandleFunc("POST /sources/{id}/sync", api.handleSync)
	mux.HandleFunc("GET /jobs/{id}", api.handleJob)
	mux.HandleFunc("GET /download/{name}", api.handleDownload)
	api.srv = httptest.NewServer(mux)
	t.Cleanup(api.srv.Close)
	return api
}

func (a *fakeAPI) URL() string {
	return a.srv.URL
}

func (a *fakeAPI) count(key string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls[key]
}

func (a *fakeAPI) hit(key string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls[key]++
	return a.calls[key]
}

func (a *fakeAPI) handleEnvironment(w http.ResponseWriter, r *http.Request) {
	a.hit("environment")
	w.WriteHeader(a.environmentStatus)
	if a.environmentStatus == http.StatusOK {
		_ = json.NewEncoder(w).Encode(a.environment)
	}
}

func (a *fakeAPI) handleExport(w http.ResponseWriter, r *http.Request) {
	a.hit("export:" + r.PathValue("id"))
	body, _ := io.ReadAll(r.Body)
	a.mu.Lock()
	a.exportReq = map[string]any{}
	_ = json.Unmarshal(body, &a.exportReq)
	a.mu.Unlock()
	w.WriteHeader(a.exportStatus)
	_, _ = io.WriteString(w, a.exportBody)
}

func (a *fakeAPI) handleSync(w http.ResponseWriter, r *http.Request) {
	a.hit("sync:" + r.PathValue("id"))
	body, _ := io.ReadAll(r.Body)
	if string(body) != "{}" {
		a.t.Errorf("sync body = %q, want {}", string(body))
	}
	w.WriteHeader(a.syncStatus)
	_, _ = io.WriteString(w, a.syncBody)
}

func (a *fakeAPI) handleJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	n := a.hit("job:" + id)
	replies, ok := a.jobs[id]
	if !ok || len(replies) == 0 {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if n > len(replies) {
		n = len(replies)
	}
	reply := replies[n-1]
	if reply.location != "" {
		w.Header().Set("Location", reply.location)
	}
	w.WriteHeader(reply.status)
	if reply.status == http.StatusOK {
		_ = json.NewEncoder(w).Encode(map[string]string{"state": reply.state})
	}
}

func (a *fakeAPI) handleDownload(w http.ResponseWriter, r *http.Request) {
	a.hit("download")
	a.mu.Lock()
	a.downloadAuth = r.Header.Get("Authorization")
	a.mu.Unlock()
	w.WriteHeader(a.downloadStatus)
	_, _ = w.Write(a.downloadBody)
}

func (a *fakeAPI) withViews(views ...map[string]any) {
	a.environment = map[string]any{"id": "env", "views": views}
}

func view(id, tag string) map[string]any {
	return map[string]any{"id": id, "type": tag, "image_url": "https://example/" + id + ".png"}
}
