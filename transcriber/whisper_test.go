package transcriber

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTranscribePostsWAV(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/inference" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatal(err)
		}
		if r.MultipartForm.Value["response_format"][0] != "json" {
			t.Error("response_format not json")
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			t.Fatal(err)
		}
		defer file.Close()
		w.Write([]byte(`{"text":"  buy milk and eggs \n","language":"english"}`))
	}))
	defer srv.Close()

	result, err := NewWhisper(srv.URL).Transcribe(context.Background(), []byte("RIFFdata"))
	if err != nil {
		t.Fatal(err)
	}
	if result.Text != "buy milk and eggs" {
		t.Errorf("text = %q", result.Text)
	}
	if result.Language != "english" {
		t.Errorf("language = %q", result.Language)
	}
}

func TestTranscribeServerDown(t *testing.T) {
	w := NewWhisper("http://127.0.0.1:1")
	if _, err := w.Transcribe(context.Background(), []byte("RIFF")); err == nil {
		t.Fatal("expected connect error")
	}
	if w.Loaded() {
		t.Error("Loaded must be false when the server is down")
	}
}

func TestLoadedProbesHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	if !NewWhisper(srv.URL).Loaded() {
		t.Error("Loaded must be true")
	}
}

func TestLoadModel(t *testing.T) {
	var model string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/load" {
			t.Errorf("path = %s", r.URL.Path)
		}
		r.ParseMultipartForm(1 << 20)
		model = r.MultipartForm.Value["model"][0]
	}))
	defer srv.Close()

	wh := NewWhisper(srv.URL)
	if err := wh.LoadModel(context.Background(), "ggml-base.en.bin"); err != nil {
		t.Fatal(err)
	}
	if model != "ggml-base.en.bin" {
		t.Errorf("model = %q", model)
	}
	if !wh.Loaded() {
		t.Error("Loaded must be true after LoadModel")
	}
}
