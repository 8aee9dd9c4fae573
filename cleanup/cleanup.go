// Package cleanup post-processes raw transcripts through a local Ollama
// instance, applying the active output mode's formatting instructions.
package cleanup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"murmur/log"
	"murmur/modes"
	"murmur/store"
)

const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "gemma2:2b"
)

// RecommendedModels are small instruction-tuned models known to handle
// the cleanup prompts well on consumer hardware.
var RecommendedModels = []string{"gemma2:2b", "llama3.2:3b", "qwen2.5:3b"}

// Settings is the slice of the persistence store the cleaner uses for
// its enabled toggle.
type Settings interface {
	GetBool(key string, fallback bool) (bool, error)
	SetBool(key string, value bool) error
}

type Ollama struct {
	baseURL  string
	model    string
	client   *http.Client
	settings Settings
	enabled  bool
}

func NewOllama(baseURL string, settings Settings) *Ollama {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	enabled := true
	if settings != nil {
		v, err := settings.GetBool(store.KeyCleanupEnabled, true)
		if err != nil {
			log.Warnf("read cleanup toggle: %v", err)
		} else {
			enabled = v
		}
	}
	return &Ollama{
		baseURL:  baseURL,
		model:    DefaultModel,
		client:   &http.Client{Timeout: 60 * time.Second},
		settings: settings,
		enabled:  enabled,
	}
}

func (o *Ollama) Model() string { return o.model }

func (o *Ollama) SetModel(model string) {
	if model != "" {
		o.model = model
	}
}

func (o *Ollama) Enabled() bool { return o.enabled }

func (o *Ollama) SetEnabled(enabled bool) {
	o.enabled = enabled
	if o.settings == nil {
		return
	}
	if err := o.settings.SetBool(store.KeyCleanupEnabled, enabled); err != nil {
		log.Warnf("persist cleanup toggle: %v", err)
	}
}

// Available probes the Ollama API. False means the daemon is not
// reachable, which gates the non-default output modes.
func (o *Ollama) Available(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, "GET", o.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == 200
}

type generateRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	System  string `json:"system"`
	Stream  bool   `json:"stream"`
	Context []int  `json:"context"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Cleanup sends the transcript through the mode's system prompt and
// returns the formatted text. The conversation context is always empty
// so earlier transcripts cannot bleed into the output.
func (o *Ollama) Cleanup(ctx context.Context, text, modeID, languageName string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:   o.model,
		Prompt:  text,
		System:  modes.SystemPrompt(modeID, languageName),
		Stream:  false,
		Context: []int{},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("Ollama is not running: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != 200 {
		return "", fmt.Errorf("ollama API error %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var gResp generateResponse
	if err := json.Unmarshal(raw, &gResp); err != nil {
		return "", fmt.Errorf("ollama response parse error: %w", err)
	}
	return normalize(gResp.Response), nil
}

// normalize trims whitespace and strips one layer of wrapping quotes
// that small models sometimes add around the whole output.
func normalize(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return strings.TrimSpace(s)
}

// IsRefusal reports whether the model answered with a meta-request for
// input instead of cleaning the transcript. Callers fall back to the
// raw transcript when this trips.
func IsRefusal(response string) bool {
	lower := strings.ToLower(response)
	return strings.Contains(lower, "provide") && strings.Contains(lower, "transcript")
}
