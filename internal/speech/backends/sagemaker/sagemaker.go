// Package sagemaker adapts TTS models hosted on SageMaker inference
// endpoints to the engine.TTSModel provider contract. The endpoint
// returns a presigned object-storage URL (or bucket/key pair) for the
// rendered audio, which the provider fetches and re-emits as a stream
// of fixed-size chunks.
package sagemaker

import (
	"context"

	"github.com/pitabwire/frame/workerpool"

	"github.com/voicerelay/voicerelay/internal/speech/engine"
	"github.com/voicerelay/voicerelay/internal/speech/registry"
)

// Credential keys accepted by this provider.
const (
	credAWSAccessKeyID     = "aws_access_key_id"
	credAWSSecretAccessKey = "aws_secret_access_key"
	credAWSRegion          = "aws_region"
	credEndpoint           = "sagemaker_endpoint"
	credModelType          = "model_type"
	credModelRole          = "model_role"
	credPromptText         = "prompt_text"
	credPromptAudio        = "prompt_audio"
	credInstructText       = "instruct_text"
	credLangTag            = "lang_tag"
)

// Capability defaults for SageMaker-hosted TTS models.
const (
	defaultVoice     = ""
	defaultWordLimit = 600
	audioEncoding    = "mp3"
	workerLimit      = 5
)

func init() {
	registry.TTS.Register("sagemaker", func(config map[string]string) (engine.TTSModel, error) {
		return New(config), nil
	})
}

// Ensure the provider satisfies the contract.
var (
	_ engine.TTSModel  = (*Provider)(nil)
	_ engine.PoolAware = (*Provider)(nil)
)

// Provider implements engine.TTSModel against SageMaker runtime.
type Provider struct {
	defaults engine.Credentials
	pool     workerpool.WorkerPool

	// newClient is swapped in tests to avoid real AWS calls.
	newClient func(ctx context.Context, creds engine.Credentials) (endpointClient, error)
}

// New creates a provider with service-level default credentials.
// Per-call credentials override the defaults key by key.
func New(defaults map[string]string) *Provider {
	return &Provider{
		defaults:  engine.Credentials(defaults),
		newClient: newAWSClient,
	}
}

// SetWorkerPool routes segment fan-out through a shared worker pool.
func (p *Provider) SetWorkerPool(pool workerpool.WorkerPool) { p.pool = pool }

// Name returns the provider identifier.
func (p *Provider) Name() string { return "sagemaker" }

// merged overlays per-call credentials on the service defaults.
func (p *Provider) merged(creds engine.Credentials) engine.Credentials {
	out := make(engine.Credentials, len(p.defaults)+len(creds))
	for k, v := range p.defaults {
		out[k] = v
	}
	for k, v := range creds {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// paramsFrom reads the voice-mode companion fields from credentials.
// An absent model_type defaults to PresetVoice, matching the endpoint
// containers' own default.
func paramsFrom(creds engine.Credentials) payloadParams {
	mode := VoiceMode(creds.Get(credModelType))
	if mode == "" {
		mode = ModePresetVoice
	}
	return payloadParams{
		Mode:         mode,
		Role:         creds.Get(credModelRole),
		PromptText:   creds.Get(credPromptText),
		PromptAudio:  creds.Get(credPromptAudio),
		LangTag:      creds.Get(credLangTag),
		InstructText: creds.Get(credInstructText),
	}
}

// ValidateCredentials checks locally that the credential bundle names
// an endpoint and carries every field its voice mode requires. No
// network call is made.
func (p *Provider) ValidateCredentials(_ context.Context, _ string, creds engine.Credentials) error {
	c := p.merged(creds)
	if c.Get(credEndpoint) == "" {
		return engine.NewInvokeError(engine.KindInvalidParameters, "sagemaker_endpoint is required", nil)
	}
	if _, err := buildPayload("ping", paramsFrom(c)); err != nil {
		return err
	}
	return nil
}

// Invoke synthesizes req.Text through the configured endpoint and
// returns the chunk stream. Payload construction failures surface
// synchronously; the per-call client configuration is built here and
// passed explicitly into the stream, so no process-wide client state
// exists.
func (p *Provider) Invoke(ctx context.Context, req engine.InvokeRequest) (<-chan engine.AudioChunk, error) {
	creds := p.merged(req.Credentials)

	endpoint := creds.Get(credEndpoint)
	if endpoint == "" {
		return nil, engine.NewInvokeError(engine.KindInvalidParameters, "sagemaker_endpoint is required", nil)
	}

	pp := paramsFrom(creds)
	if req.Voice != "" {
		// The host's voice selector maps onto the endpoint role.
		pp.Role = req.Voice
	}

	pl, err := buildPayload(req.Text, pp)
	if err != nil {
		return nil, err
	}

	client, err := p.newClient(ctx, creds)
	if err != nil {
		return nil, err
	}

	return p.synthesizeStream(ctx, client, pl, endpoint, p.WordLimit()), nil
}

// Schema reports the customizable-model metadata for a model name.
func (p *Provider) Schema(model string, _ engine.Credentials) *engine.ModelSchema {
	return &engine.ModelSchema{
		Model:     model,
		Label:     engine.I18nLabel{EnUS: model},
		FetchFrom: engine.FetchFromCustomizable,
		ModelType: engine.ModelTypeTTS,
		Properties: map[string]any{
			"default_voice":  p.DefaultVoice(),
			"word_limit":     p.WordLimit(),
			"audio_encoding": p.AudioEncoding(),
			"worker_limit":   p.WorkerLimit(),
		},
	}
}

func (p *Provider) DefaultVoice() string  { return defaultVoice }
func (p *Provider) WordLimit() int        { return defaultWordLimit }
func (p *Provider) AudioEncoding() string { return audioEncoding }
func (p *Provider) WorkerLimit() int      { return workerLimit }

// ErrorMapping returns the provider's static error taxonomy table.
func (p *Provider) ErrorMapping() map[engine.ErrorKind][]error { return errorMapping() }

func (p *Provider) Close() error { return nil }
