package endpoints

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/inkwell-app/inkwell/internal/api"
	"github.com/inkwell-app/inkwell/internal/book"
	"github.com/inkwell-app/inkwell/internal/config"
	"github.com/inkwell-app/inkwell/internal/svcctx"
	"github.com/inkwell-app/inkwell/internal/tasks"
)

// testEnv wires a real scheduler, state store, and library behind the
// endpoint mux, the way the server does.
type testEnv struct {
	scheduler *tasks.Scheduler
	library   *book.Library
	handler   http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	library := book.NewLibrary(t.TempDir(), nil)
	scheduler, err := tasks.NewScheduler(tasks.SchedulerConfig{
		Store: tasks.NewJSONStore(t.TempDir() + "/tasks.json"),
		State: tasks.NewStateStore(),
		Books: library,
		Generators: map[tasks.TrackType]tasks.Generator{
			tasks.TrackIllustration:    tasks.NewMockGenerator(),
			tasks.TrackTranslation:     tasks.NewMockGenerator(),
			tasks.TrackVideoGeneration: tasks.NewMockGenerator(),
		},
	})
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}

	mgr, err := config.NewManager("")
	if err != nil {
		t.Fatalf("config.NewManager() error = %v", err)
	}
	services := &svcctx.Services{
		Scheduler: scheduler,
		State:     scheduler.State(),
		Library:   library,
		ConfigMgr: mgr,
	}

	registry := api.NewRegistry()
	for _, ep := range All() {
		registry.Register(ep)
	}
	mux := http.NewServeMux()
	registry.RegisterRoutes(mux)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mux.ServeHTTP(w, r.WithContext(svcctx.WithServices(r.Context(), services)))
	})

	return &testEnv{scheduler: scheduler, library: library, handler: handler}
}

func (env *testEnv) do(t *testing.T, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) saveBook(t *testing.T, id string, lines int) {
	t.Helper()
	ch := book.Chapter{ID: "ch1", Title: "One"}
	for i := 0; i < lines; i++ {
		ch.Lines = append(ch.Lines, book.Line{
			ID:   fmt.Sprintf("l%d", i),
			Text: fmt.Sprintf("Line %d.", i),
		})
	}
	d := &book.Detail{ID: id, Title: "Book " + id, FileType: book.FileTypeEPUB, Chapters: []book.Chapter{ch}}
	if err := env.library.Save(context.Background(), d); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
}

func (env *testEnv) waitForStatus(t *testing.T, id string, trackType tasks.TrackType, want tasks.TrackStatus) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if e, ok := env.scheduler.State().Entry(id); ok && e.Track(trackType).Status == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	e, _ := env.scheduler.State().Entry(id)
	t.Fatalf("status = %s, want %s", e.Track(trackType).Status, want)
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("Status = %q, want ok", resp.Status)
	}
}

func TestListTasks_EmptyCatalog(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/api/tasks")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp []EntrySummary
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp) != 0 {
		t.Errorf("entries = %d, want 0", len(resp))
	}
}

func TestEnqueue_CreatesEntryAndRuns(t *testing.T) {
	env := newTestEnv(t)
	env.saveBook(t, "b1", 4)

	rec := env.do(t, "POST", "/api/tasks/b1/enqueue?track=illustration")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202: %s", rec.Code, rec.Body)
	}

	env.waitForStatus(t, "b1", tasks.TrackIllustration, tasks.StatusCompleted)

	rec = env.do(t, "GET", "/api/tasks/b1")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", rec.Code)
	}
	var entry tasks.Entry
	if err := json.NewDecoder(rec.Body).Decode(&entry); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if entry.Illustration.Status != tasks.StatusCompleted {
		t.Errorf("illustration status = %s", entry.Illustration.Status)
	}
	if len(entry.Illustration.Chunks) == 0 {
		t.Error("entry has no planned chunks")
	}
}

func TestEnqueue_UnknownBook(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "POST", "/api/tasks/ghost/enqueue?track=illustration")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestEnqueue_BadTrack(t *testing.T) {
	env := newTestEnv(t)
	env.saveBook(t, "b1", 4)

	rec := env.do(t, "POST", "/api/tasks/b1/enqueue?track=subtitles")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestEnqueue_VideoWithoutIllustrations(t *testing.T) {
	env := newTestEnv(t)
	env.saveBook(t, "b1", 4)

	rec := env.do(t, "POST", "/api/tasks/b1/enqueue?track=videoGeneration")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422: %s", rec.Code, rec.Body)
	}
}

func TestLifecycleOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	env.saveBook(t, "b1", 4)
	env.scheduler.AddEntry(tasks.NewEntry("b1", "Book b1", "", "epub", "", ""))

	// Drive the state machine directly, then exercise the read API.
	env.scheduler.State().Update("b1", func(e *tasks.Entry) {
		e.Translation.Status = tasks.StatusFailed
		e.Translation.ErrorMessage = "net error"
	})

	rec := env.do(t, "POST", "/api/tasks/b1/retry")
	if rec.Code != http.StatusOK {
		t.Fatalf("retry status = %d: %s", rec.Code, rec.Body)
	}
	env.waitForStatus(t, "b1", tasks.TrackTranslation, tasks.StatusCompleted)

	rec = env.do(t, "POST", "/api/tasks/b1/cancel")
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel status = %d", rec.Code)
	}

	rec = env.do(t, "DELETE", "/api/tasks/b1")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	var resp EntrySummary
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Translation.Status != tasks.StatusNotStarted {
		t.Errorf("translation status = %s after delete", resp.Translation.Status)
	}
}

func TestTrackOp_UnknownBookIs404(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{
		"/api/tasks/ghost/pause?track=illustration",
		"/api/tasks/ghost/resume?track=illustration",
		"/api/tasks/ghost/retry",
		"/api/tasks/ghost/cancel",
	} {
		rec := env.do(t, "POST", path)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s status = %d, want 404", path, rec.Code)
		}
	}
}

func TestResumeAllAndClearCompleted(t *testing.T) {
	env := newTestEnv(t)
	env.saveBook(t, "b1", 2)
	env.scheduler.AddEntry(tasks.NewEntry("b1", "Book b1", "", "epub", "", ""))
	env.scheduler.State().Update("b1", func(e *tasks.Entry) {
		e.Illustration.Status = tasks.StatusCompleted
		e.Translation.Status = tasks.StatusPaused
	})

	rec := env.do(t, "POST", "/api/tasks/resume-all")
	if rec.Code != http.StatusOK {
		t.Fatalf("resume-all status = %d", rec.Code)
	}
	env.waitForStatus(t, "b1", tasks.TrackTranslation, tasks.StatusCompleted)

	rec = env.do(t, "POST", "/api/tasks/clear-completed")
	if rec.Code != http.StatusOK {
		t.Fatalf("clear-completed status = %d", rec.Code)
	}
	e, _ := env.scheduler.State().Entry("b1")
	if e.Illustration.Status != tasks.StatusNotStarted {
		t.Errorf("illustration status = %s after clear", e.Illustration.Status)
	}
	if e.Translation.Status != tasks.StatusNotStarted {
		t.Errorf("translation status = %s after clear", e.Translation.Status)
	}
}

func (env *testEnv) doJSON(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	return rec
}

func TestImportBook_CreatesCacheAndTaskEntry(t *testing.T) {
	env := newTestEnv(t)

	detail := book.Detail{
		ID:       "b1",
		Title:    "Imported",
		FileType: book.FileTypeTXT,
		Chapters: []book.Chapter{
			{ID: "ch1", Title: "One", Lines: []book.Line{{ID: "l0", Text: "First."}}},
		},
	}
	rec := env.doJSON(t, "POST", "/api/books", detail)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var summary BookSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if summary.ID != "b1" || summary.Chapters != 1 || summary.Lines != 1 {
		t.Errorf("summary = %+v", summary)
	}

	if _, err := env.library.Detail(context.Background(), "b1"); err != nil {
		t.Errorf("Detail() error = %v, want cached book", err)
	}
	entry, ok := env.scheduler.State().Entry("b1")
	if !ok {
		t.Fatal("import did not create a task entry")
	}
	if entry.Illustration.Status != tasks.StatusNotStarted {
		t.Errorf("illustration status = %s, want %s", entry.Illustration.Status, tasks.StatusNotStarted)
	}
}

func TestImportBook_RequiresID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(t, "POST", "/api/books", book.Detail{Title: "No ID"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestImportBook_ReimportKeepsTaskProgress(t *testing.T) {
	env := newTestEnv(t)
	env.saveBook(t, "b1", 2)

	rec := env.do(t, "POST", "/api/tasks/b1/enqueue?track=translation")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("enqueue status = %d: %s", rec.Code, rec.Body.String())
	}
	env.waitForStatus(t, "b1", tasks.TrackTranslation, tasks.StatusCompleted)

	detail, err := env.library.Detail(context.Background(), "b1")
	if err != nil {
		t.Fatalf("Detail() error = %v", err)
	}
	detail.Title = "Retitled"
	rec = env.doJSON(t, "POST", "/api/books", detail)
	if rec.Code != http.StatusCreated {
		t.Fatalf("reimport status = %d: %s", rec.Code, rec.Body.String())
	}

	entry, ok := env.scheduler.State().Entry("b1")
	if !ok {
		t.Fatal("task entry gone after reimport")
	}
	if entry.Translation.Status != tasks.StatusCompleted {
		t.Errorf("translation status = %s, want %s after reimport", entry.Translation.Status, tasks.StatusCompleted)
	}
}

func TestListAndGetBooks(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/api/books")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var books []BookSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &books); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(books) != 0 {
		t.Errorf("len(books) = %d, want 0", len(books))
	}

	env.saveBook(t, "b1", 3)
	env.saveBook(t, "b2", 1)

	rec = env.do(t, "GET", "/api/books")
	if err := json.Unmarshal(rec.Body.Bytes(), &books); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("len(books) = %d, want 2", len(books))
	}

	rec = env.do(t, "GET", "/api/books/b1")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var detail book.Detail
	if err := json.Unmarshal(rec.Body.Bytes(), &detail); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if detail.ID != "b1" || detail.LineCount() != 3 {
		t.Errorf("detail = %q with %d lines", detail.ID, detail.LineCount())
	}

	rec = env.do(t, "GET", "/api/books/ghost")
	if rec.Code != http.StatusNotFound {
		t.Errorf("get unknown status = %d, want 404", rec.Code)
	}
}

func TestDeleteBook_RemovesCacheAndTaskEntry(t *testing.T) {
	env := newTestEnv(t)
	env.saveBook(t, "b1", 2)

	rec := env.do(t, "POST", "/api/tasks/b1/enqueue?track=illustration")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("enqueue status = %d: %s", rec.Code, rec.Body.String())
	}
	env.waitForStatus(t, "b1", tasks.TrackIllustration, tasks.StatusCompleted)

	rec = env.do(t, "DELETE", "/api/books/b1")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d: %s", rec.Code, rec.Body.String())
	}

	if _, err := env.library.Detail(context.Background(), "b1"); err == nil {
		t.Error("book detail still cached after delete")
	}
	if _, ok := env.scheduler.State().Entry("b1"); ok {
		t.Error("task entry still present after delete")
	}

	rec = env.do(t, "DELETE", "/api/books/b1")
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}
