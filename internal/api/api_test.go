package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOutputTo_Formats(t *testing.T) {
	data := map[string]any{"status": "ok", "count": 3}

	var buf bytes.Buffer
	if err := OutputTo(&buf, OutputFormatJSON, data); err != nil {
		t.Fatalf("OutputTo(json) error = %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("json output does not parse: %v", err)
	}

	buf.Reset()
	if err := OutputTo(&buf, OutputFormatYAML, data); err != nil {
		t.Fatalf("OutputTo(yaml) error = %v", err)
	}
	if !strings.Contains(buf.String(), "status: ok") {
		t.Errorf("yaml output = %q", buf.String())
	}

	if err := OutputTo(&buf, OutputFormat("xml"), data); err == nil {
		t.Error("OutputTo accepted an unknown format")
	}
}

func TestClient_GetDecodesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tasks" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"b1"}]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	var resp []map[string]string
	if err := client.Get(context.Background(), "/api/tasks", &resp); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(resp) != 1 || resp[0]["id"] != "b1" {
		t.Errorf("resp = %v", resp)
	}
}

func TestClient_SurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"no task entry for book ghost"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	err := client.Get(context.Background(), "/api/tasks/ghost", nil)
	if err == nil || !strings.Contains(err.Error(), "no task entry for book ghost") {
		t.Errorf("Get() error = %v, want server message surfaced", err)
	}
}

func TestClient_PostAndDelete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			if got := r.Header.Get("Content-Type"); got != "application/json" {
				t.Errorf("Content-Type = %q", got)
			}
			w.Write([]byte(`{"ok":true}`))
		case http.MethodDelete:
			w.Write([]byte(`{"ok":true}`))
		default:
			t.Errorf("method = %s", r.Method)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	var resp map[string]bool
	if err := client.Post(context.Background(), "/x", map[string]string{"a": "b"}, &resp); err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	if !resp["ok"] {
		t.Error("Post() response not decoded")
	}
	if err := client.Delete(context.Background(), "/x", nil); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
}
