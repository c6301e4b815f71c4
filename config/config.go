package config

import (
	"github.com/pitabwire/frame/config"
)

// SynthConfig holds configuration for the synthesis service.
type SynthConfig struct {
	config.ConfigurationDefault
	HTTPListenAddr      string `envDefault:"127.0.0.1:8765" env:"HTTP_LISTEN_ADDR"`
	DefaultEngine       string `envDefault:"system"         env:"TTS_ENGINE"`
	SystemVoice         string `envDefault:""               env:"SYSTEM_VOICE"`
	SystemVoiceRate     int    `envDefault:"180"            env:"SYSTEM_VOICE_RATE"`
	StyleTTS2Binary     string `envDefault:"styletts2"      env:"STYLETTS2_BINARY"`
	StyleTTS2Checkpoint string `envDefault:""               env:"STYLETTS2_CHECKPOINT"`
	StylePresetDir      string `envDefault:""               env:"STYLE_PRESET_DIR"`
}
