package registry

import "github.com/voicerelay/voicerelay/internal/speech/engine"

// TTS is the global TTS model provider registry.
var TTS = New[engine.TTSModel]()
