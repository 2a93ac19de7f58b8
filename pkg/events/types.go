package events

import (
	"encoding/json"
	"time"
)

// EventType identifies the kind of event flowing through the system.
type EventType string

const (
	TTSStarted     EventType = "tts.started"
	TTSCompleted   EventType = "tts.completed"
	TTSFailed      EventType = "tts.failed"
	ModelValidated EventType = "model.validated"
	SystemError    EventType = "error"
)

// Envelope is the standard event wrapper published to the event bus.
type Envelope struct {
	ID        string            `json:"id"`
	Type      EventType         `json:"type"`
	Source    string            `json:"source"`
	RequestID string            `json:"request_id"`
	Timestamp time.Time         `json:"timestamp"`
	Data      json.RawMessage   `json:"data"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// TTSStartedData is the payload for tts.started events.
type TTSStartedData struct {
	Model    string `json:"model"`
	Provider string `json:"provider"`
	Voice    string `json:"voice,omitempty"`
	Chars    int    `json:"chars"`
}

// TTSCompletedData is the payload for tts.completed events.
type TTSCompletedData struct {
	Model      string `json:"model"`
	Provider   string `json:"provider"`
	Chunks     int    `json:"chunks"`
	Bytes      int64  `json:"bytes"`
	DurationMs int64  `json:"duration_ms"`
}

// TTSFailedData is the payload for tts.failed events.
type TTSFailedData struct {
	Model    string `json:"model"`
	Provider string `json:"provider"`
	Kind     string `json:"kind"`
	Error    string `json:"error"`
}

// ModelValidatedData is the payload for model.validated events.
type ModelValidatedData struct {
	Model    string `json:"model"`
	Provider string `json:"provider"`
	Valid    bool   `json:"valid"`
	Error    string `json:"error,omitempty"`
}
