package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// vocal separation settings
type Separation struct {
	Model string `json:"model"`
}

// speech-to-text settings
type SpeechToText struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Language string `json:"language"`
}

// Config holds the full application configuration. Flags override
// whatever the file provides.
type Config struct {
	OutputFolder   string       `json:"output_folder"`
	TempFolder     string       `json:"temp_folder"`
	KeepTempFiles  bool         `json:"keep_temp_files"`
	Separation     Separation   `json:"vocal_separation"`
	SpeechToText   SpeechToText `json:"speech_to_text"`
	SubtitleFormat string       `json:"subtitle_format"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		OutputFolder:  "./output",
		TempFolder:    "./temp",
		KeepTempFiles: false,
		Separation: Separation{
			Model: "htdemucs",
		},
		SpeechToText: SpeechToText{
			Provider: "whisper",
			Model:    "base",
			Language: "auto",
		},
		SubtitleFormat: "ass",
	}
}

// Load reads the config file at path, falling back to defaults when the
// file does not exist. Fields missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}
