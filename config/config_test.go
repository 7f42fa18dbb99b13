// Copyright 2026 The MapLoc Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "maploc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
api_key: file-key
region: us
detector: tesseract
confidence_threshold: 0.8
timeout: 15s
max_geocode_procs: 2
vision_endpoint: http://localhost:1234/vision
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file-key", cfg.APIKey)
	assert.Equal(t, "us", cfg.Region)
	assert.Equal(t, DetectorTesseract, cfg.Detector)
	assert.InDelta(t, 0.8, cfg.ConfidenceThreshold, 0.001)
	assert.Equal(t, Duration(15*time.Second), cfg.Timeout)
	assert.Equal(t, 2, cfg.MaxGeocodeProcs)
	assert.Equal(t, "http://localhost:1234/vision", cfg.VisionEndpoint)
}

func TestLoadMissingFileIsFine(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvAPIKeyAlias, "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Empty(t, cfg.APIKey)
	assert.Equal(t, DetectorGoogle, cfg.Detector)
}

func TestLoadKeyFromEnvironment(t *testing.T) {
	t.Setenv(EnvAPIKey, "env-key")
	t.Setenv(EnvAPIKeyAlias, "alias-key")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.APIKey, "primary variable wins over the alias")
}

func TestLoadKeyFromAliasEnvironment(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvAPIKeyAlias, "alias-key")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "alias-key", cfg.APIKey)
}

func TestLoadFileKeyWinsOverEnvironment(t *testing.T) {
	t.Setenv(EnvAPIKey, "env-key")

	path := writeConfig(t, "api_key: file-key\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file-key", cfg.APIKey)
}

func TestLoadRejectsUnknownDetector(t *testing.T) {
	path := writeConfig(t, "detector: clairvoyance\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clairvoyance")
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "api_key: [broken\n")

	_, err := Load(path)
	require.Error(t, err)
}

func TestResolveAPIKeyPrefersConfigured(t *testing.T) {
	cfg := &Config{APIKey: "configured"}

	key, err := cfg.ResolveAPIKey(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "configured", key)
}
