package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const DefaultWhisperURL = "http://localhost:8178"

// Whisper talks to a whisper.cpp server instance.
type Whisper struct {
	baseURL string
	client  *http.Client
	loaded  bool
}

func NewWhisper(baseURL string) *Whisper {
	if baseURL == "" {
		baseURL = DefaultWhisperURL
	}
	return &Whisper{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (w *Whisper) Name() string { return "whisper" }

// Loaded reports whether a model is ready to serve transcriptions. The
// server is probed once and the result cached; LoadModel resets it.
func (w *Whisper) Loaded() bool {
	if w.loaded {
		return true
	}
	resp, err := w.client.Get(w.baseURL + "/health")
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	w.loaded = resp.StatusCode == 200
	return w.loaded
}

// LoadModel asks the server to swap in a different model file.
func (w *Whisper) LoadModel(ctx context.Context, model string) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	writer.WriteField("model", model)
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, "POST", w.baseURL+"/load", &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("whisper server not running: %w", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != 200 {
		return fmt.Errorf("whisper load error %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	w.loaded = true
	return nil
}

func (w *Whisper) Transcribe(ctx context.Context, wav []byte) (*Result, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "audio.wav")
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(wav); err != nil {
		return nil, err
	}
	writer.WriteField("response_format", "json")
	writer.WriteField("language", "auto")
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, "POST", w.baseURL+"/inference", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whisper server not running: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("whisper API error %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var wResp struct {
		Text     string `json:"text"`
		Language string `json:"language"`
	}
	if err := json.Unmarshal(raw, &wResp); err != nil {
		return nil, fmt.Errorf("whisper response parse error: %w", err)
	}
	lang := wResp.Language
	if lang == "" {
		lang = "english"
	}
	return &Result{Text: strings.TrimSpace(wResp.Text), Language: lang}, nil
}
