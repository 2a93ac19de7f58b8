package sagemaker

import (
	"fmt"

	"github.com/voicerelay/voicerelay/internal/speech/engine"
)

// VoiceMode selects which companion fields a synthesis payload carries.
// Values match the wire format expected by the inference container.
type VoiceMode string

const (
	ModePresetVoice            VoiceMode = "PresetVoice"
	ModeCloneVoice             VoiceMode = "CloneVoice"
	ModeCloneVoiceCrossLingual VoiceMode = "CloneVoice_CrossLingual"
	ModeInstructVoice          VoiceMode = "InstructVoice"
)

// Payload field names of the endpoint's request body.
const (
	fieldText         = "tts_text"
	fieldRole         = "role"
	fieldPromptText   = "prompt_text"
	fieldPromptAudio  = "prompt_audio"
	fieldLangTag      = "lang_tag"
	fieldInstructText = "instruct_text"
)

// payload is the JSON request body sent to the inference endpoint.
// A payload is immutable once built; withText returns an independent
// copy so concurrent per-segment dispatch never shares state.
type payload map[string]string

func (p payload) clone() payload {
	c := make(payload, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

func (p payload) withText(text string) payload {
	c := p.clone()
	c[fieldText] = text
	return c
}

// payloadParams holds the voice-mode companion fields read from
// credentials.
type payloadParams struct {
	Mode         VoiceMode
	Role         string
	PromptText   string
	PromptAudio  string
	LangTag      string
	InstructText string
}

// buildPayload constructs the mode-specific request body. Each mode
// carries exactly its documented field set; any missing companion
// field or unknown mode fails before a network call is attempted.
func buildPayload(text string, pp payloadParams) (payload, error) {
	switch {
	case pp.Mode == ModePresetVoice && pp.Role != "":
		return payload{fieldText: text, fieldRole: pp.Role}, nil
	case pp.Mode == ModeCloneVoice && pp.PromptText != "" && pp.PromptAudio != "":
		return payload{fieldText: text, fieldPromptText: pp.PromptText, fieldPromptAudio: pp.PromptAudio}, nil
	case pp.Mode == ModeCloneVoiceCrossLingual && pp.PromptAudio != "" && pp.LangTag != "":
		return payload{fieldText: text, fieldPromptAudio: pp.PromptAudio, fieldLangTag: pp.LangTag}, nil
	case pp.Mode == ModeInstructVoice && pp.Role != "" && pp.InstructText != "":
		return payload{fieldText: text, fieldRole: pp.Role, fieldInstructText: pp.InstructText}, nil
	}
	return nil, engine.NewInvokeError(
		engine.KindInvalidParameters,
		fmt.Sprintf("invalid params for voice mode %q", pp.Mode),
		nil,
	)
}
