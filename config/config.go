// Copyright 2026 The MapLoc Authors
// SPDX-License-Identifier: Apache-2.0

// Package config resolves the pipeline configuration from a YAML file, the
// environment, and — for the API key — Application Default Credentials.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables consulted when the YAML file leaves the key unset.
// GEOLOCALIZATION_API_KEY is the historical name from the original cloud
// deployment; GOOGLE_MAPS_API_KEY is accepted as an alias.
const (
	EnvAPIKey      = "GEOLOCALIZATION_API_KEY"
	EnvAPIKeyAlias = "GOOGLE_MAPS_API_KEY"
)

// Detector engine names accepted in the config.
const (
	DetectorGoogle    = "google"
	DetectorTesseract = "tesseract"
)

// Duration wraps time.Duration so YAML accepts the usual "30s" notation.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", s, err)
	}

	*d = Duration(parsed)

	return nil
}

// Config is the full pipeline configuration. The zero value plus an API key
// is a working setup.
type Config struct {
	// APIKey authenticates all three Google REST services. Resolution
	// order: this field, GEOLOCALIZATION_API_KEY, GOOGLE_MAPS_API_KEY,
	// then an ADC lookup through the API Keys API.
	APIKey string `yaml:"api_key"`

	// Region biases geocoding toward a ccTLD region code, e.g. "us".
	Region string `yaml:"region"`

	// Detector selects the text-detection engine: google (default) or
	// tesseract for local files without cloud credentials.
	Detector string `yaml:"detector"`

	// ConfidenceThreshold filters OCR paragraphs; zero means the pipeline
	// default of 0.9.
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`

	// Timeout applies per remote call; zero keeps each client's default.
	Timeout Duration `yaml:"timeout"`

	// MaxGeocodeProcs bounds concurrent geocoding calls per invocation.
	MaxGeocodeProcs int `yaml:"max_geocode_procs"`

	// Endpoint overrides, for tests and proxies.
	VisionEndpoint    string `yaml:"vision_endpoint"`
	LanguageEndpoint  string `yaml:"language_endpoint"`
	GeocodingEndpoint string `yaml:"geocoding_endpoint"`
}

// Load reads an optional YAML file and fills unset fields from the
// environment. path may be empty; a missing file at the default location is
// not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(EnvAPIKey)
	}

	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(EnvAPIKeyAlias)
	}

	if cfg.Detector == "" {
		cfg.Detector = DetectorGoogle
	}

	if cfg.Detector != DetectorGoogle && cfg.Detector != DetectorTesseract {
		return nil, fmt.Errorf("unknown detector %q", cfg.Detector)
	}

	return cfg, nil
}
