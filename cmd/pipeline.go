// Copyright 2026 The MapLoc Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/maploc/maploc/config"
	"github.com/maploc/maploc/geocoding"
	"github.com/maploc/maploc/geolocalize"
	"github.com/maploc/maploc/language"
	"github.com/maploc/maploc/vision"
)

// buildPipeline assembles a Geolocalizer from the resolved configuration.
func buildPipeline(ctx context.Context, cfg *config.Config) (*geolocalize.Geolocalizer, error) {
	apiKey, err := cfg.ResolveAPIKey(ctx)
	if err != nil {
		return nil, &geolocalize.ConfigurationError{
			Message: fmt.Sprintf("resolving API key: %v", err),
		}
	}

	var detector vision.TextDetector

	switch cfg.Detector {
	case config.DetectorTesseract:
		detector = vision.NewTesseractDetector()
	default:
		var opts []vision.GoogleDetectorOption

		if cfg.VisionEndpoint != "" {
			opts = append(opts, vision.WithVisionEndpoint(cfg.VisionEndpoint))
		}

		if cfg.Timeout > 0 {
			opts = append(opts, vision.WithVisionTimeout(time.Duration(cfg.Timeout)))
		}

		detector = vision.NewGoogleDetector(apiKey, opts...)
	}

	var extractorOpts []language.GoogleExtractorOption

	if cfg.LanguageEndpoint != "" {
		extractorOpts = append(extractorOpts, language.WithLanguageEndpoint(cfg.LanguageEndpoint))
	}

	if cfg.Timeout > 0 {
		extractorOpts = append(extractorOpts, language.WithLanguageTimeout(time.Duration(cfg.Timeout)))
	}

	var geocoderOpts []geocoding.GoogleMapsOption

	if cfg.GeocodingEndpoint != "" {
		geocoderOpts = append(geocoderOpts, geocoding.WithGeocodingEndpoint(cfg.GeocodingEndpoint))
	}

	if cfg.Region != "" {
		geocoderOpts = append(geocoderOpts, geocoding.WithRegion(cfg.Region))
	}

	if cfg.Timeout > 0 {
		geocoderOpts = append(geocoderOpts, geocoding.WithGeocodingTimeout(time.Duration(cfg.Timeout)))
	}

	return geolocalize.New(
		detector,
		language.NewGoogleExtractor(apiKey, extractorOpts...),
		geocoding.NewGoogleMapsGeocoder(apiKey, geocoderOpts...),
		geolocalize.Options{
			ConfidenceThreshold: cfg.ConfidenceThreshold,
			MaxGeocodeProcs:     cfg.MaxGeocodeProcs,
		},
	)
}
