package handler

// SynthesizeRequest is the body of POST /api/v1/synthesize.
type SynthesizeRequest struct {
	Model       string            `json:"model"`
	Provider    string            `json:"provider,omitempty"`
	Text        string            `json:"text"`
	Voice       string            `json:"voice,omitempty"`
	User        string            `json:"user,omitempty"`
	TenantID    string            `json:"tenant_id,omitempty"`
	Credentials map[string]string `json:"credentials,omitempty"`
}

// ValidateRequest is the body of POST /api/v1/models/validate.
type ValidateRequest struct {
	Model       string            `json:"model"`
	Provider    string            `json:"provider,omitempty"`
	Credentials map[string]string `json:"credentials,omitempty"`
}

// ValidateResponse reports the outcome of a credential check.
type ValidateResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// ModelResponse describes one synthesizable model.
type ModelResponse struct {
	Model         string         `json:"model"`
	Label         string         `json:"label,omitempty"`
	Provider      string         `json:"provider"`
	Modes         []string       `json:"modes,omitempty"`
	DefaultVoice  string         `json:"default_voice"`
	WordLimit     int            `json:"word_limit"`
	AudioEncoding string         `json:"audio_encoding"`
	WorkerLimit   int            `json:"worker_limit"`
	Properties    map[string]any `json:"properties,omitempty"`
}

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
