package engine

// I18nLabel is a localizable display label.
type I18nLabel struct {
	EnUS   string `json:"en_US"            yaml:"en_US"`
	ZhHans string `json:"zh_Hans,omitempty" yaml:"zh_Hans,omitempty"`
}

// FetchFrom states where a model definition originates.
type FetchFrom string

const (
	FetchFromPredefined   FetchFrom = "predefined-model"
	FetchFromCustomizable FetchFrom = "customizable-model"
)

// ModelTypeTTS is the model type served by TTSModel providers.
const ModelTypeTTS = "tts"

// ModelSchema is the introspection metadata a provider reports for one
// model: identity, display label, and capability properties.
type ModelSchema struct {
	Model      string         `json:"model"`
	Label      I18nLabel      `json:"label"`
	FetchFrom  FetchFrom      `json:"fetch_from"`
	ModelType  string         `json:"model_type"`
	Properties map[string]any `json:"properties,omitempty"`
}
