// Package handler exposes the synthesis REST surface: streaming
// synthesis, model listing, and credential validation.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/pitabwire/frame/workerpool"
	"github.com/rs/xid"

	"github.com/voicerelay/voicerelay/internal/speech/catalog"
	"github.com/voicerelay/voicerelay/internal/speech/engine"
	"github.com/voicerelay/voicerelay/internal/speech/registry"
	"github.com/voicerelay/voicerelay/pkg/events"
)

const maxRequestBodySize = 1 << 20 // 1 MiB

// SynthHandler serves the synthesis API. Providers are created per
// request from the registry, seeded with service-level config, and
// closed when the request ends.
type SynthHandler struct {
	defaultBackend string
	pool           workerpool.WorkerPool
	serviceConfig  map[string]string
	catalog        *catalog.Catalog
	publisher      *events.Publisher
}

// NewSynthHandler creates a new synthesis API handler.
func NewSynthHandler(defaultBackend string, pool workerpool.WorkerPool, serviceConfig map[string]string, cat *catalog.Catalog, publisher *events.Publisher) *SynthHandler {
	if defaultBackend == "" {
		defaultBackend = "sagemaker"
	}
	if serviceConfig == nil {
		serviceConfig = map[string]string{}
	}
	return &SynthHandler{
		defaultBackend: defaultBackend,
		pool:           pool,
		serviceConfig:  serviceConfig,
		catalog:        cat,
		publisher:      publisher,
	}
}

// RegisterRoutes registers all synthesis API routes on the given mux.
func (h *SynthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/synthesize", h.Synthesize)
	mux.HandleFunc("GET /api/v1/models", h.ListModels)
	mux.HandleFunc("POST /api/v1/models/validate", h.ValidateModel)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// statusFor maps a normalized error kind to an HTTP status.
func statusFor(kind engine.ErrorKind) int {
	switch kind {
	case engine.KindUnauthorized:
		return http.StatusUnauthorized
	case engine.KindRateLimited:
		return http.StatusTooManyRequests
	case engine.KindServerUnavailable:
		return http.StatusServiceUnavailable
	case engine.KindConnectivity:
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

// contentTypeFor maps a provider audio encoding to a MIME type.
func contentTypeFor(encoding string) string {
	switch encoding {
	case "mp3":
		return "audio/mpeg"
	case "wav":
		return "audio/wav"
	case "ogg":
		return "audio/ogg"
	default:
		return "application/octet-stream"
	}
}

// resolveProvider picks the backend for a model: an explicit provider
// wins, then the model's catalog card, then the service default.
func (h *SynthHandler) resolveProvider(model, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if h.catalog != nil {
		if entry, ok := h.catalog.Get(model); ok {
			return entry.Provider
		}
	}
	return h.defaultBackend
}

// createModel builds a provider instance seeded with service config
// and wires it to the shared worker pool when it supports one.
func (h *SynthHandler) createModel(provider string) (engine.TTSModel, error) {
	model, err := registry.TTS.Create(provider, h.serviceConfig)
	if err != nil {
		return nil, err
	}
	if pa, ok := model.(engine.PoolAware); ok {
		pa.SetWorkerPool(h.pool)
	}
	return model, nil
}

func (h *SynthHandler) emit(r *http.Request, eventType events.EventType, requestID string, data any) {
	if h.publisher == nil {
		return
	}
	if err := h.publisher.Emit(r.Context(), eventType, requestID, data); err != nil {
		slog.ErrorContext(r.Context(), "synth handler: emit event failed",
			slog.String("event_type", string(eventType)), slog.String("error", err.Error()))
	}
}

// Synthesize handles POST /api/v1/synthesize. The response body is
// the raw audio stream; chunks are flushed as they arrive.
func (h *SynthHandler) Synthesize(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req SynthesizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	requestID := xid.New().String()
	w.Header().Set("X-Request-Id", requestID)

	provider := h.resolveProvider(req.Model, req.Provider)
	model, err := h.createModel(provider)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown provider "+provider)
		return
	}
	defer model.Close()

	h.emit(r, events.TTSStarted, requestID, &events.TTSStartedData{
		Model:    req.Model,
		Provider: provider,
		Voice:    req.Voice,
		Chars:    len([]rune(req.Text)),
	})

	started := time.Now()
	ch, err := model.Invoke(r.Context(), engine.InvokeRequest{
		Model:       req.Model,
		TenantID:    req.TenantID,
		Credentials: engine.Credentials(req.Credentials),
		Text:        req.Text,
		Voice:       req.Voice,
		User:        req.User,
	})
	if err != nil {
		kind := engine.Classify(model.ErrorMapping(), err)
		h.emit(r, events.TTSFailed, requestID, &events.TTSFailedData{
			Model: req.Model, Provider: provider, Kind: string(kind), Error: err.Error(),
		})
		writeError(w, statusFor(kind), err.Error())
		return
	}

	w.Header().Set("Content-Type", contentTypeFor(model.AudioEncoding()))
	flusher, _ := w.(http.Flusher)

	var chunks int
	var total int64
	for chunk := range ch {
		if chunk.Err != nil {
			// Headers are already on the wire; all we can do is stop.
			kind := engine.Classify(model.ErrorMapping(), chunk.Err)
			slog.ErrorContext(r.Context(), "synth handler: stream aborted",
				slog.String("request_id", requestID),
				slog.String("kind", string(kind)),
				slog.String("error", chunk.Err.Error()))
			h.emit(r, events.TTSFailed, requestID, &events.TTSFailedData{
				Model: req.Model, Provider: provider, Kind: string(kind), Error: chunk.Err.Error(),
			})
			return
		}
		if _, err := w.Write(chunk.Data); err != nil {
			slog.WarnContext(r.Context(), "synth handler: client gone",
				slog.String("request_id", requestID))
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
		chunks++
		total += int64(len(chunk.Data))
	}

	h.emit(r, events.TTSCompleted, requestID, &events.TTSCompletedData{
		Model:      req.Model,
		Provider:   provider,
		Chunks:     chunks,
		Bytes:      total,
		DurationMs: time.Since(started).Milliseconds(),
	})
}

// ListModels handles GET /api/v1/models. Catalog cards are reported
// with their provider's capabilities; without a catalog the registered
// providers themselves are listed.
func (h *SynthHandler) ListModels(w http.ResponseWriter, r *http.Request) {
	var resp []ModelResponse

	if h.catalog != nil {
		for _, entry := range h.catalog.All() {
			m, err := h.createModel(entry.Provider)
			if err != nil {
				continue
			}
			resp = append(resp, h.toModelResponse(entry, m))
			m.Close()
		}
	}

	if len(resp) == 0 {
		for _, name := range registry.TTS.List() {
			m, err := h.createModel(name)
			if err != nil {
				continue
			}
			schema := m.Schema(name, nil)
			resp = append(resp, ModelResponse{
				Model:         name,
				Provider:      name,
				DefaultVoice:  m.DefaultVoice(),
				WordLimit:     m.WordLimit(),
				AudioEncoding: m.AudioEncoding(),
				WorkerLimit:   m.WorkerLimit(),
				Properties:    schema.Properties,
			})
			m.Close()
		}
	}

	sort.Slice(resp, func(i, j int) bool { return resp[i].Model < resp[j].Model })
	writeJSON(w, http.StatusOK, resp)
}

func (h *SynthHandler) toModelResponse(entry *catalog.Entry, m engine.TTSModel) ModelResponse {
	out := ModelResponse{
		Model:         entry.Name,
		Label:         entry.Label,
		Provider:      entry.Provider,
		Modes:         entry.Modes,
		DefaultVoice:  m.DefaultVoice(),
		WordLimit:     m.WordLimit(),
		AudioEncoding: m.AudioEncoding(),
		WorkerLimit:   m.WorkerLimit(),
	}
	if entry.DefaultVoice != "" {
		out.DefaultVoice = entry.DefaultVoice
	}
	if entry.WordLimit > 0 {
		out.WordLimit = entry.WordLimit
	}
	if entry.AudioEncoding != "" {
		out.AudioEncoding = entry.AudioEncoding
	}
	if schema := m.Schema(entry.Name, nil); schema != nil {
		out.Properties = schema.Properties
	}
	return out
}

// ValidateModel handles POST /api/v1/models/validate. Validation is
// local: the provider checks the bundle's completeness without
// touching the network, so a 200 with valid=false is the failure
// shape, not an error status.
func (h *SynthHandler) ValidateModel(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	provider := h.resolveProvider(req.Model, req.Provider)
	model, err := h.createModel(provider)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown provider "+provider)
		return
	}
	defer model.Close()

	resp := ValidateResponse{Valid: true}
	if err := model.ValidateCredentials(r.Context(), req.Model, engine.Credentials(req.Credentials)); err != nil {
		resp = ValidateResponse{Valid: false, Error: err.Error()}
	}

	h.emit(r, events.ModelValidated, xid.New().String(), &events.ModelValidatedData{
		Model: req.Model, Provider: provider, Valid: resp.Valid, Error: resp.Error,
	})

	writeJSON(w, http.StatusOK, resp)
}
