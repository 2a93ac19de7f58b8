// Package config holds environment-driven service configuration.
package config

import "github.com/pitabwire/frame/config"

// SynthConfig holds configuration for the synthesis service.
type SynthConfig struct {
	config.ConfigurationDefault
	DefaultTTSBackend string `envDefault:"sagemaker"     env:"TTS_BACKEND"`
	ModelCatalogDir   string `envDefault:"./models"      env:"MODEL_CATALOG_DIR"`

	// Service-level provider defaults; per-request credentials
	// override these key by key.
	AWSAccessKeyID     string `envDefault:""            env:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `envDefault:""            env:"AWS_SECRET_ACCESS_KEY"`
	AWSRegion          string `envDefault:""            env:"AWS_REGION"`
	SageMakerEndpoint  string `envDefault:""            env:"SAGEMAKER_ENDPOINT"`
	ModelType          string `envDefault:"PresetVoice" env:"TTS_MODEL_TYPE"`
	ModelRole          string `envDefault:""            env:"TTS_MODEL_ROLE"`
	PromptText         string `envDefault:""            env:"TTS_PROMPT_TEXT"`
	PromptAudio        string `envDefault:""            env:"TTS_PROMPT_AUDIO"`
	InstructText       string `envDefault:""            env:"TTS_INSTRUCT_TEXT"`
	LangTag            string `envDefault:""            env:"TTS_LANG_TAG"`
}

// ProviderDefaults flattens the provider settings into the config map
// backends are created with.
func (c *SynthConfig) ProviderDefaults() map[string]string {
	return map[string]string{
		"aws_access_key_id":     c.AWSAccessKeyID,
		"aws_secret_access_key": c.AWSSecretAccessKey,
		"aws_region":            c.AWSRegion,
		"sagemaker_endpoint":    c.SageMakerEndpoint,
		"model_type":            c.ModelType,
		"model_role":            c.ModelRole,
		"prompt_text":           c.PromptText,
		"prompt_audio":          c.PromptAudio,
		"instruct_text":         c.InstructText,
		"lang_tag":              c.LangTag,
	}
}
