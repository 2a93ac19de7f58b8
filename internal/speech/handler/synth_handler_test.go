package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/voicerelay/voicerelay/internal/speech/catalog"
	"github.com/voicerelay/voicerelay/internal/speech/engine"
	"github.com/voicerelay/voicerelay/internal/speech/registry"
	"github.com/voicerelay/voicerelay/pkg/events"
)

// fakeModel serves canned chunks or a canned error.
type fakeModel struct {
	chunks      []engine.AudioChunk
	invokeErr   error
	validateErr error

	lastReq engine.InvokeRequest
}

func (f *fakeModel) Name() string { return "fake" }

func (f *fakeModel) ValidateCredentials(context.Context, string, engine.Credentials) error {
	return f.validateErr
}

func (f *fakeModel) Invoke(_ context.Context, req engine.InvokeRequest) (<-chan engine.AudioChunk, error) {
	f.lastReq = req
	if f.invokeErr != nil {
		return nil, f.invokeErr
	}
	ch := make(chan engine.AudioChunk, len(f.chunks))
	for _, c := range f.chunks {
		ch <- c
	}
	close(ch)
	return ch, nil
}

func (f *fakeModel) Schema(model string, _ engine.Credentials) *engine.ModelSchema {
	return &engine.ModelSchema{
		Model:     model,
		Label:     engine.I18nLabel{EnUS: model},
		FetchFrom: engine.FetchFromCustomizable,
		ModelType: engine.ModelTypeTTS,
	}
}

func (f *fakeModel) DefaultVoice() string                       { return "plain" }
func (f *fakeModel) WordLimit() int                             { return 100 }
func (f *fakeModel) AudioEncoding() string                      { return "mp3" }
func (f *fakeModel) WorkerLimit() int                           { return 2 }
func (f *fakeModel) ErrorMapping() map[engine.ErrorKind][]error { return nil }
func (f *fakeModel) Close() error                               { return nil }

func newTestHandler(t *testing.T, model *fakeModel) *SynthHandler {
	t.Helper()
	registry.TTS.Register("fake", func(map[string]string) (engine.TTSModel, error) {
		return model, nil
	})
	return NewSynthHandler("fake", nil, nil, nil, events.NewPublisher(nil, "test", "events"))
}

func doRequest(h *SynthHandler, method, path string, body any) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestSynthesizeStreamsAudio(t *testing.T) {
	model := &fakeModel{chunks: []engine.AudioChunk{
		{Data: []byte("aaa"), Index: 0},
		{Data: []byte("bbb"), Index: 1, Final: true},
	}}
	h := newTestHandler(t, model)

	rec := doRequest(h, http.MethodPost, "/api/v1/synthesize", SynthesizeRequest{
		Model: "card", Text: "Hello.", Voice: "storyteller",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "audio/mpeg" {
		t.Errorf("content type = %q, want audio/mpeg", got)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("no request id header")
	}
	if rec.Body.String() != "aaabbb" {
		t.Errorf("body = %q, want concatenated chunks", rec.Body.String())
	}
	if model.lastReq.Voice != "storyteller" {
		t.Errorf("request voice = %q, want %q", model.lastReq.Voice, "storyteller")
	}
}

func TestSynthesizeRejectsEmptyText(t *testing.T) {
	h := newTestHandler(t, &fakeModel{})
	rec := doRequest(h, http.MethodPost, "/api/v1/synthesize", SynthesizeRequest{Model: "m"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSynthesizeMapsErrorKindToStatus(t *testing.T) {
	tests := []struct {
		kind engine.ErrorKind
		want int
	}{
		{engine.KindInvalidParameters, http.StatusBadRequest},
		{engine.KindBadRequest, http.StatusBadRequest},
		{engine.KindUnauthorized, http.StatusUnauthorized},
		{engine.KindRateLimited, http.StatusTooManyRequests},
		{engine.KindServerUnavailable, http.StatusServiceUnavailable},
		{engine.KindConnectivity, http.StatusBadGateway},
	}

	for _, tc := range tests {
		t.Run(string(tc.kind), func(t *testing.T) {
			model := &fakeModel{invokeErr: engine.NewInvokeError(tc.kind, "nope", nil)}
			h := newTestHandler(t, model)

			rec := doRequest(h, http.MethodPost, "/api/v1/synthesize", SynthesizeRequest{
				Model: "m", Text: "Hello.",
			})
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
			var resp ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if resp.Error == "" {
				t.Error("empty error message")
			}
		})
	}
}

func TestSynthesizeUnknownProvider(t *testing.T) {
	h := NewSynthHandler("no-such-backend", nil, nil, nil, nil)
	rec := doRequest(h, http.MethodPost, "/api/v1/synthesize", SynthesizeRequest{
		Model: "m", Text: "Hello.",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestValidateModel(t *testing.T) {
	h := newTestHandler(t, &fakeModel{})
	rec := doRequest(h, http.MethodPost, "/api/v1/models/validate", ValidateRequest{Model: "m"})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp ValidateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Valid {
		t.Errorf("valid = false, want true: %s", resp.Error)
	}
}

func TestValidateModelReportsFailure(t *testing.T) {
	model := &fakeModel{
		validateErr: engine.NewInvokeError(engine.KindInvalidParameters, "endpoint is required", nil),
	}
	h := newTestHandler(t, model)
	rec := doRequest(h, http.MethodPost, "/api/v1/models/validate", ValidateRequest{Model: "m"})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp ValidateResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Valid {
		t.Error("valid = true, want false")
	}
	if resp.Error == "" {
		t.Error("failure carries no message")
	}
}

func TestListModelsFromCatalog(t *testing.T) {
	dir := t.TempDir()
	card := `
name: storybook
label: Storybook Voice
provider: fake
modes: [PresetVoice]
word_limit: 250
`
	if err := os.WriteFile(filepath.Join(dir, "storybook.yaml"), []byte(card), 0644); err != nil {
		t.Fatalf("write card: %v", err)
	}
	cat := catalog.New(dir)
	if _, err := cat.LoadAll(); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	registry.TTS.Register("fake", func(map[string]string) (engine.TTSModel, error) {
		return &fakeModel{}, nil
	})
	h := NewSynthHandler("fake", nil, nil, cat, nil)

	rec := doRequest(h, http.MethodGet, "/api/v1/models", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp []ModelResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp) != 1 {
		t.Fatalf("models = %d, want 1", len(resp))
	}
	if resp[0].Model != "storybook" || resp[0].Provider != "fake" {
		t.Errorf("unexpected model entry: %+v", resp[0])
	}
	// Card overrides the provider default.
	if resp[0].WordLimit != 250 {
		t.Errorf("word_limit = %d, want 250", resp[0].WordLimit)
	}
	// Card is silent on voice, provider default applies.
	if resp[0].DefaultVoice != "plain" {
		t.Errorf("default_voice = %q, want %q", resp[0].DefaultVoice, "plain")
	}
}
