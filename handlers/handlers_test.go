package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"subtitleforge/internal/aiclient"
	"subtitleforge/internal/db"
	"subtitleforge/internal/poller"
	"subtitleforge/internal/storage"
	"subtitleforge/internal/worker"
	"subtitleforge/middleware"
	"subtitleforge/models"
	"subtitleforge/utils"
)

type stubAuth map[string]*models.User

func (s stubAuth) Authenticate(_ context.Context, token string) (*models.User, error) {
	if u, ok := s[token]; ok {
		return u, nil
	}
	return nil, errors.New("invalid token")
}

type offlineModel struct{}

func (offlineModel) Name() string { return "offline" }
func (offlineModel) Complete(context.Context, aiclient.Request) (string, error) {
	return "", errors.New("model offline")
}

type recordingJobs struct {
	mu   sync.Mutex
	jobs []worker.Job
	err  error
}

func (r *recordingJobs) SubmitJob(job worker.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.jobs = append(r.jobs, job)
	return nil
}

type testEnv struct {
	app   *fiber.App
	mem   *storage.Memory
	store *storage.Mux
	repo  *db.Memory
	jobs  *recordingJobs
	h     *ApplicationHandler
}

const testToken = "Bearer good-token"

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	mem := storage.NewMemory("https://files.test")
	mux := storage.NewMux()
	for cat, bucket := range map[storage.Category]string{
		storage.CategoryVideo:      "videos",
		storage.CategoryTranscript: "transcriptions",
		storage.CategoryStylized:   "stylized-subtitles",
		storage.CategorySubtitle:   "subtitles",
		storage.CategoryProject:    "project_files",
		storage.CategoryBundle:     "fcpxml",
	} {
		mux.Route(cat, mem, bucket)
	}
	repo := db.NewMemory()
	jobs := &recordingJobs{}

	h := NewApplicationHandler(Dependencies{
		Logger: logger,
		Store:  mux,
		Repo:   repo,
		Model:  offlineModel{},
		Jobs:   jobs,
		Poll: PollSettings{
			Timeout: time.Second,
			Backoff: poller.Backoff{Initial: 5 * time.Millisecond, Max: 20 * time.Millisecond},
		},
		Now: func() time.Time { return time.UnixMilli(1700000000000) },
	})

	app := fiber.New(fiber.Config{ErrorHandler: utils.ErrorHandler(logger)})
	app.Use(middleware.RequestLogger(logger))
	h.RegisterRoutes(app, stubAuth{"good-token": {ID: "user-1", Email: "u@example.com"}})

	return &testEnv{app: app, mem: mem, store: mux, repo: repo, jobs: jobs, h: h}
}

func (e *testEnv) do(t *testing.T, method, target string, body interface{}, auth bool) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		req.Header.Set("Authorization", testToken)
	}
	return e.send(t, req)
}

func (e *testEnv) send(t *testing.T, req *http.Request) (int, map[string]interface{}) {
	t.Helper()
	resp, err := e.app.Test(req, 5000)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var out map[string]interface{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("decode %s: %v", raw, err)
		}
	}
	return resp.StatusCode, out
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)
	status, body := env.do(t, "GET", "/health", nil, false)
	if status != 200 || body["status"] != "ok" {
		t.Fatalf("status=%d body=%v", status, body)
	}
}

func TestCheckFCPXML(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, "GET", "/api/check-fcpxml", nil, false)
	if status != 400 || body["exists"] != false {
		t.Fatalf("missing fileName: status=%d body=%v", status, body)
	}

	status, body = env.do(t, "GET", "/api/check-fcpxml?fileName=talk.mp4", nil, false)
	if status != 200 || body["exists"] != false {
		t.Fatalf("before bundle: status=%d body=%v", status, body)
	}

	if _, err := env.store.Put(context.Background(), storage.CategoryBundle, "talk.mp4.fcpxmld.zip", []byte("zip"), "application/zip"); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"talk.mp4", "talk.mp4.fcpxmld.zip"} {
		status, body = env.do(t, "GET", "/api/check-fcpxml?fileName="+name, nil, false)
		if status != 200 || body["exists"] != true {
			t.Fatalf("%s: status=%d body=%v", name, status, body)
		}
	}

	status, body = env.do(t, "GET", "/api/check-fcpxml?fileName=../secret", nil, false)
	if status != 400 || body["exists"] != false {
		t.Fatalf("traversal: status=%d body=%v", status, body)
	}
}

func TestWaitFCPXML(t *testing.T) {
	env := newTestEnv(t)

	go func() {
		time.Sleep(30 * time.Millisecond)
		_, _ = env.store.Put(context.Background(), storage.CategoryBundle, "late.mov.fcpxmld.zip", []byte("zip"), "application/zip")
	}()
	status, body := env.do(t, "GET", "/api/wait-fcpxml?fileName=late.mov&timeout=2s", nil, false)
	if status != 200 || body["exists"] != true {
		t.Fatalf("status=%d body=%v", status, body)
	}

	status, body = env.do(t, "GET", "/api/wait-fcpxml?fileName=never.mov&timeout=50ms", nil, false)
	if status != fiber.StatusRequestTimeout || body["exists"] != false {
		t.Fatalf("timeout: status=%d body=%v", status, body)
	}

	status, _ = env.do(t, "GET", "/api/wait-fcpxml?fileName=x.mov&timeout=soon", nil, false)
	if status != 400 {
		t.Fatalf("bad timeout: status=%d", status)
	}
}

func TestUploadValidation(t *testing.T) {
	env := newTestEnv(t)
	valid := base64.StdEncoding.EncodeToString([]byte("video"))

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing fileName", map[string]string{"fileData": valid, "fileType": "video/mp4"}},
		{"missing fileData", map[string]string{"fileName": "a.mp4", "fileType": "video/mp4"}},
		{"missing fileType", map[string]string{"fileName": "a.mp4", "fileData": valid}},
		{"bad base64", map[string]string{"fileName": "a.mp4", "fileData": "***", "fileType": "video/mp4"}},
		{"bad key", map[string]string{"fileName": "../a.mp4", "fileData": valid, "fileType": "video/mp4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := env.do(t, "POST", "/api/upload", tt.body, false)
			if status != 400 || body["status"] != "error" {
				t.Fatalf("status=%d body=%v", status, body)
			}
		})
	}
	if len(env.mem.Keys()) != 0 {
		t.Fatalf("validation failures stored objects: %v", env.mem.Keys())
	}
}

func TestUploadEnqueuesProjectJob(t *testing.T) {
	env := newTestEnv(t)
	data := base64.StdEncoding.EncodeToString([]byte("video bytes"))

	status, body := env.do(t, "POST", "/api/upload", map[string]string{
		"fileName": "meeting.mp4", "fileData": data, "fileType": "video/mp4",
	}, false)
	if status != 200 || body["jobId"] == nil || body["jobId"] == "" {
		t.Fatalf("status=%d body=%v", status, body)
	}
	stored, err := env.store.Get(context.Background(), storage.CategoryVideo, "meeting.mp4")
	if err != nil || string(stored) != "video bytes" {
		t.Fatalf("stored = %q, %v", stored, err)
	}
	if len(env.jobs.jobs) != 1 {
		t.Fatalf("submitted %d jobs", len(env.jobs.jobs))
	}

	if err := env.jobs.jobs[0].Execute(context.Background()); err != nil {
		t.Fatalf("job: %v", err)
	}
	status, body = env.do(t, "GET", "/api/check-fcpxml?fileName=meeting.mp4", nil, false)
	if status != 200 || body["exists"] != true {
		t.Fatalf("after job: status=%d body=%v", status, body)
	}

	status, body = env.do(t, "GET", "/api/jobs/"+env.jobs.jobs[0].ID(), nil, false)
	data2, _ := body["data"].(map[string]interface{})
	if status != 200 || data2["status"] != models.JobStatusCompleted {
		t.Fatalf("job status: %d %v", status, body)
	}
}

func TestUploadNonVideoSkipsJob(t *testing.T) {
	env := newTestEnv(t)
	status, body := env.do(t, "POST", "/api/upload", map[string]string{
		"fileName": "notes.txt", "fileData": base64.StdEncoding.EncodeToString([]byte("00 hi")), "fileType": "text/plain",
	}, false)
	if status != 200 || body["jobId"] != nil {
		t.Fatalf("status=%d body=%v", status, body)
	}
	if ok, _ := env.store.Exists(context.Background(), storage.CategoryTranscript, "notes.txt"); !ok {
		t.Fatal("text upload not stored in the transcript bucket")
	}
}

func TestUploadQueueFull(t *testing.T) {
	env := newTestEnv(t)
	env.jobs.err = worker.ErrQueueFull
	status, _ := env.do(t, "POST", "/api/upload", map[string]string{
		"fileName": "a.mp4", "fileData": base64.StdEncoding.EncodeToString([]byte("v")), "fileType": "video/mp4",
	}, false)
	if status != fiber.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", status)
	}
}

func TestGetJobStatusErrors(t *testing.T) {
	env := newTestEnv(t)
	if status, _ := env.do(t, "GET", "/api/jobs/not-a-uuid", nil, false); status != 400 {
		t.Fatalf("invalid id: %d", status)
	}
	if status, _ := env.do(t, "GET", "/api/jobs/6f1c02fc-0dbd-460c-97d0-149c7713676a", nil, false); status != 404 {
		t.Fatalf("unknown id: %d", status)
	}
}

func TestGenerateSubtitleFileFiltersCaptions(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, "POST", "/api/generate-subtitle-file", map[string]interface{}{
		"textData": map[string]string{"text": "00 Hello there\n05 How are you"},
		"filter":   "hello",
	}, false)
	if status != 200 {
		t.Fatalf("status=%d body=%v", status, body)
	}
	url, _ := body["url"].(string)
	key := strings.TrimPrefix(url, "https://files.test/subtitles/")
	doc, err := env.store.Get(context.Background(), storage.CategorySubtitle, key)
	if err != nil {
		t.Fatalf("get %s: %v", key, err)
	}
	if n := strings.Count(string(doc), "<title "); n != 1 {
		t.Fatalf("titles = %d, want 1", n)
	}
	if !strings.Contains(string(doc), "How are you") || strings.Contains(string(doc), "Hello there") {
		t.Fatalf("unexpected document:\n%s", doc)
	}

	status, _ = env.do(t, "POST", "/api/generate-subtitle-file", map[string]interface{}{"filter": "x"}, false)
	if status != 400 {
		t.Fatalf("missing textData: %d", status)
	}
}

func TestGenerateSubtitleFileStoresSetForUser(t *testing.T) {
	env := newTestEnv(t)
	status, _ := env.do(t, "POST", "/api/generate-subtitle-file", map[string]interface{}{
		"textData":       map[string]string{"text": "00 First\n05 Second"},
		"subtitleDesign": map[string]interface{}{"font": "Arial", "size": 24, "color": "#FFFF00", "backgroundColor": "#000000"},
	}, true)
	if status != 200 {
		t.Fatalf("status=%d", status)
	}
	set, err := env.repo.LatestSubtitleSet(context.Background(), "user-1")
	if err != nil || len(set.SubtitleData.Subtitles) != 2 || set.Design.Size != 24 {
		t.Fatalf("set = %+v, %v", set, err)
	}
}

func TestGenerateSummarizedSubtitles(t *testing.T) {
	env := newTestEnv(t)
	payload := map[string]interface{}{"subtitleData": []models.Caption{{ID: 1, Start: "00:00", End: "00:05", Text: "hi"}}}

	if status, _ := env.do(t, "POST", "/api/generate-summarized-subtitles", payload, false); status != 401 {
		t.Fatalf("unauthenticated: %d", status)
	}
	if status, _ := env.do(t, "POST", "/api/generate-summarized-subtitles", map[string]interface{}{}, true); status != 400 {
		t.Fatalf("missing data: %d", status)
	}

	status, body := env.do(t, "POST", "/api/generate-summarized-subtitles", payload, true)
	if status != 200 || body["source"] != "fallback" {
		t.Fatalf("status=%d body=%v", status, body)
	}
	if subs, _ := body["summarizedSubtitles"].([]interface{}); len(subs) != 4 {
		t.Fatalf("summarizedSubtitles = %v", body["summarizedSubtitles"])
	}
}

func TestApplySpeakerStyles(t *testing.T) {
	env := newTestEnv(t)
	one, three := 1, 3
	status, body := env.do(t, "POST", "/api/apply-speaker-styles", map[string]interface{}{
		"subtitleData": []models.Caption{
			{ID: 1, Start: "00:00", Text: "a", SpeakerID: &one},
			{ID: 2, Start: "00:05", Text: "b", SpeakerID: &three},
		},
	}, false)
	if status != 200 || body["source"] != "fallback" {
		t.Fatalf("status=%d body=%v", status, body)
	}

	key := strings.TrimPrefix(body["url"].(string), "https://files.test/stylized-subtitles/")
	raw, err := env.store.Get(context.Background(), storage.CategoryStylized, key)
	if err != nil {
		t.Fatal(err)
	}
	var styled StyledSubtitles
	if err := json.Unmarshal(raw, &styled); err != nil {
		t.Fatal(err)
	}
	if styled.Subtitles[0].Font != "Arial" || styled.Subtitles[0].Color != "#FF0000" {
		t.Errorf("speaker 1 = %+v", styled.Subtitles[0])
	}
	if styled.Subtitles[1].Font != "" {
		t.Errorf("speaker 3 should be unstyled: %+v", styled.Subtitles[1])
	}

	if status, _ := env.do(t, "POST", "/api/apply-speaker-styles", map[string]interface{}{"subtitleData": []models.Caption{}}, false); status != 400 {
		t.Fatalf("empty data: %d", status)
	}
}

func TestCaptionRoutesRejectBadStartTimes(t *testing.T) {
	tests := []struct {
		name  string
		route string
		auth  bool
		start string
	}{
		{name: "summarize word", route: "/api/generate-summarized-subtitles", auth: true, start: "abc"},
		{name: "summarize empty", route: "/api/generate-summarized-subtitles", auth: true, start: ""},
		{name: "styles word", route: "/api/apply-speaker-styles", start: "abc"},
		{name: "styles bad clock", route: "/api/apply-speaker-styles", start: "00:99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			payload := map[string]interface{}{"subtitleData": []models.Caption{
				{ID: 1, Start: "00:00", End: "00:05", Text: "fine"},
				{ID: 2, Start: tt.start, End: "00:10", Text: "broken"},
			}}

			status, body := env.do(t, "POST", tt.route, payload, tt.auth)
			if status != 400 {
				t.Fatalf("status=%d body=%v, want 400", status, body)
			}
			if msg, _ := body["message"].(string); !strings.Contains(msg, "subtitleData[1].start") {
				t.Errorf("message = %q", msg)
			}
			if _, err := env.repo.LatestSubtitleSet(context.Background(), "user-1"); !errors.Is(err, db.ErrRecordNotFound) {
				t.Errorf("subtitle set stored despite rejection: %v", err)
			}
			if keys := env.mem.Keys(); len(keys) != 0 {
				t.Errorf("objects stored despite rejection: %v", keys)
			}
		})
	}
}

func TestExportProjectFileUnrenderableSet(t *testing.T) {
	env := newTestEnv(t)
	err := env.repo.InsertSubtitleSet(context.Background(), models.SubtitleSet{
		UserID:       "user-1",
		SubtitleData: models.SubtitleData{Subtitles: models.CaptionSequence{{ID: 1, Start: "abc", Text: "hi"}}},
	})
	if err != nil {
		t.Fatal(err)
	}

	for _, software := range []string{"finalcut", "premiere"} {
		status, body := env.do(t, "GET", "/api/export-project-file?software="+software, nil, true)
		if status != 400 {
			t.Errorf("%s: status=%d body=%v, want 400", software, status, body)
		}
	}
	if keys := env.mem.Keys(); len(keys) != 0 {
		t.Errorf("objects stored for an unrenderable set: %v", keys)
	}
}

func TestExportProjectFile(t *testing.T) {
	env := newTestEnv(t)

	if status, _ := env.do(t, "GET", "/api/export-project-file?software=unknown", nil, false); status != 400 {
		t.Fatalf("unknown software without auth: %d", status)
	}
	if status, _ := env.do(t, "GET", "/api/export-project-file?software=unknown", nil, true); status != 400 {
		t.Fatalf("unknown software with auth: %d", status)
	}
	if status, _ := env.do(t, "GET", "/api/export-project-file?software=finalcut", nil, false); status != 401 {
		t.Fatalf("unauthenticated: %d", status)
	}
	if status, _ := env.do(t, "GET", "/api/export-project-file?software=finalcut", nil, true); status != 404 {
		t.Fatalf("no data: %d", status)
	}

	err := env.repo.InsertSubtitleSet(context.Background(), models.SubtitleSet{
		UserID:       "user-1",
		SubtitleData: models.SubtitleData{Subtitles: models.CaptionSequence{{ID: 1, Start: "00:00", End: "00:05", Text: "hi"}}},
	})
	if err != nil {
		t.Fatal(err)
	}

	status, body := env.do(t, "GET", "/api/export-project-file?software=finalcut", nil, true)
	if status != 200 || body["downloadUrl"] != "https://files.test/project_files/project_1700000000000.fcpxml" {
		t.Fatalf("finalcut: status=%d body=%v", status, body)
	}
	status, body = env.do(t, "GET", "/api/export-project-file?software=premiere&preview=true", nil, true)
	if status != 200 || body["previewUrl"] != "https://files.test/project_files/previews/project_1700000000000.srt" {
		t.Fatalf("premiere preview: status=%d body=%v", status, body)
	}
}

func TestSpeechToText(t *testing.T) {
	env := newTestEnv(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("video", "clip.mp4")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = fw.Write([]byte("video bytes"))
	_ = mw.Close()

	req := httptest.NewRequest("POST", "/api/speech-to-text", bytes.NewReader(buf.Bytes()))
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", testToken)
	status, body := env.send(t, req)
	if status != 200 || body["source"] != "fallback" {
		t.Fatalf("status=%d body=%v", status, body)
	}
	tr, _ := body["transcription"].(map[string]interface{})
	if tr["confidence"] != 0.95 {
		t.Fatalf("transcription = %v", tr)
	}
	if ok, _ := env.store.Exists(context.Background(), storage.CategoryVideo, "user-1/clip.mp4"); !ok {
		t.Fatal("video not stored under the user prefix")
	}

	empty := httptest.NewRequest("POST", "/api/speech-to-text", strings.NewReader(""))
	empty.Header.Set("Authorization", testToken)
	if status, _ := env.send(t, empty); status != 400 {
		t.Fatalf("no file: %d", status)
	}
}

func TestAddTrainingData(t *testing.T) {
	env := newTestEnv(t)

	if status, _ := env.do(t, "POST", "/api/add-training-data", map[string]string{}, false); status != 400 {
		t.Fatalf("no file: %d", status)
	}

	doc := `<fcpxml version="1.8"><library><event><project><sequence><spine>` +
		`<title offset="0s" duration="5s"><text><text-style>Welcome</text-style></text></title>` +
		`</spine></sequence></project></event></library></fcpxml>`
	status, body := env.do(t, "POST", "/api/add-training-data", map[string]string{"file": doc}, true)
	if status != 200 || body["success"] != true {
		t.Fatalf("status=%d body=%v", status, body)
	}
	records, _ := env.repo.TrainingRecords(context.Background(), "user-1")
	if len(records) != 1 || records[0].SubtitleData.Subtitles[0].Text != "Welcome" {
		t.Fatalf("records = %+v", records)
	}
	if snaps := env.repo.Snapshots(); len(snaps) != 1 || !strings.Contains(string(snaps[0].ModelData), "1.0.1") {
		t.Fatalf("snapshots = %+v", snaps)
	}
}

func TestSubtitleDesignSettings(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, "GET", "/api/subtitle-design", nil, true)
	design, _ := body["design"].(map[string]interface{})
	if status != 200 || design["font"] != "Noto Sans JP" {
		t.Fatalf("default: status=%d body=%v", status, body)
	}

	bad := map[string]interface{}{"font": "Arial", "size": 20, "color": "red", "backgroundColor": "#000000"}
	if status, _ := env.do(t, "PUT", "/api/subtitle-design", bad, true); status != 400 {
		t.Fatalf("invalid color: %d", status)
	}

	good := map[string]interface{}{"font": "Arial", "size": 20, "color": "#FF00FF", "backgroundColor": "#000000"}
	if status, _ := env.do(t, "PUT", "/api/subtitle-design", good, true); status != 200 {
		t.Fatalf("save: %d", status)
	}
	_, body = env.do(t, "GET", "/api/subtitle-design", nil, true)
	design, _ = body["design"].(map[string]interface{})
	if design["font"] != "Arial" || design["size"] != float64(20) {
		t.Fatalf("saved design = %v", design)
	}

	if status, _ := env.do(t, "GET", "/api/subtitle-design", nil, false); status != 401 {
		t.Fatalf("unauthenticated: %d", status)
	}
}

func TestFilters(t *testing.T) {
	env := newTestEnv(t)

	if status, _ := env.do(t, "POST", "/api/filters", map[string]string{"filter": " , "}, true); status != 400 {
		t.Fatalf("empty filter: %d", status)
	}
	status, body := env.do(t, "POST", "/api/filters", map[string]string{"filter": " um, uh ,um"}, true)
	if status != 201 || body["filter_string"] != "um,uh" {
		t.Fatalf("create: status=%d body=%v", status, body)
	}
	status, body = env.do(t, "GET", "/api/filters", nil, true)
	if filters, _ := body["filters"].([]interface{}); status != 200 || len(filters) != 1 {
		t.Fatalf("list: status=%d body=%v", status, body)
	}
}
