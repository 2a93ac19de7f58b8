package engine

import (
	"context"

	"github.com/pitabwire/frame/workerpool"
)

// ChunkSize is the fixed size, in bytes, of audio chunks emitted by a
// synthesis stream. Only the final chunk of a stream may be shorter.
const ChunkSize = 1024

// Credentials carries the per-call provider credentials and model
// parameters (access keys, region, endpoint identifier, voice-mode
// fields). It is read-only for the duration of a call.
type Credentials map[string]string

// Get returns the value for key, or "" when absent.
func (c Credentials) Get(key string) string { return c[key] }

// InvokeRequest describes one synthesis invocation.
type InvokeRequest struct {
	Model       string
	TenantID    string
	Credentials Credentials
	Text        string
	Voice       string
	User        string
}

// AudioChunk is one piece of synthesized audio. Chunks arrive in text
// order; Index is the position within the stream. A chunk with Err set
// terminates the stream; chunks already delivered are not retracted.
type AudioChunk struct {
	Data  []byte
	Index int
	Final bool
	Err   error
}

// TTSModel is the pluggable contract a TTS model provider implements.
// Implementations adapt one remote inference wire format to this
// contract; the host decides retry behavior from the normalized error
// kinds exposed through ErrorMapping.
type TTSModel interface {
	// Name returns the provider identifier (for logging and routing).
	Name() string

	// ValidateCredentials checks that creds can serve the given model.
	ValidateCredentials(ctx context.Context, model string, creds Credentials) error

	// Invoke synthesizes req.Text and returns a lazy, finite,
	// non-restartable stream of fixed-size chunks. The channel is
	// closed when synthesis completes or after an error chunk.
	Invoke(ctx context.Context, req InvokeRequest) (<-chan AudioChunk, error)

	// Schema returns the introspection metadata for a model served
	// with the given credentials.
	Schema(model string, creds Credentials) *ModelSchema

	// Capability accessors.
	DefaultVoice() string
	WordLimit() int
	AudioEncoding() string
	WorkerLimit() int

	// ErrorMapping returns the static table the host consults to
	// classify errors raised by this provider.
	ErrorMapping() map[ErrorKind][]error

	Close() error
}

// PoolAware is implemented by providers that can run their internal
// fan-out on a shared worker pool instead of bare goroutines.
type PoolAware interface {
	SetWorkerPool(pool workerpool.WorkerPool)
}
