// Copyright 2026 The MapLoc Authors
// SPDX-License-Identifier: Apache-2.0

// Package geolocalize chains text detection, entity extraction, and
// geocoding to guess where a raster map belongs.
package geolocalize

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/maploc/maploc/geocoding"
	"github.com/maploc/maploc/language"
	"github.com/maploc/maploc/spatial"
	"github.com/maploc/maploc/vision"
)

// DefaultConfidenceThreshold drops OCR paragraphs the provider is not
// reasonably sure about before they pollute the corpus.
const DefaultConfidenceThreshold = 0.9

// DefaultMaxGeocodeProcs bounds the concurrent geocoding calls per
// invocation.
const DefaultMaxGeocodeProcs = 4

// Candidate is a place hypothesis extracted from the map's text, enriched
// with coordinates when geocoding resolves it. A candidate the geocoder
// cannot match keeps Name and Type with a nil Point.
type Candidate struct {
	Name       string         `json:"name"`
	Type       string         `json:"type"` // LOCATION or ADDRESS
	Point      *spatial.Point `json:"point,omitempty"`
	Address    string         `json:"address,omitempty"`
	Confidence string         `json:"confidence,omitempty"` // high, medium, low
	Provider   string         `json:"provider,omitempty"`
}

// Result is the outcome of one geolocalization. Text and Candidates may
// both be empty: a map with no legible text is valid input.
type Result struct {
	Text       string      `json:"text"`
	Candidates []Candidate `json:"candidates"`
	Consensus  *Consensus  `json:"consensus,omitempty"`
}

// Options configure a Geolocalizer beyond its collaborators.
type Options struct {
	// ConfidenceThreshold filters OCR paragraphs; zero means the default.
	ConfidenceThreshold float64

	// MaxGeocodeProcs bounds concurrent geocoding; zero means the default.
	MaxGeocodeProcs int
}

// Geolocalizer orchestrates the three-stage pipeline. It holds no mutable
// state between calls and is safe for concurrent use.
type Geolocalizer struct {
	detector  vision.TextDetector
	extractor language.EntityExtractor
	geocoder  geocoding.Geocoder
	options   Options
}

// New wires the pipeline from its three collaborators. All three are
// required; a nil collaborator is a construction error since every call
// would fail downstream anyway.
func New(detector vision.TextDetector, extractor language.EntityExtractor, geocoder geocoding.Geocoder, options Options) (*Geolocalizer, error) {
	if detector == nil {
		return nil, &ConfigurationError{Message: "a text detector is required"}
	}

	if extractor == nil {
		return nil, &ConfigurationError{Message: "an entity extractor is required"}
	}

	if geocoder == nil {
		return nil, &ConfigurationError{Message: "a geocoder is required"}
	}

	if options.ConfidenceThreshold == 0 {
		options.ConfidenceThreshold = DefaultConfidenceThreshold
	}

	if options.MaxGeocodeProcs == 0 {
		options.MaxGeocodeProcs = DefaultMaxGeocodeProcs
	}

	return &Geolocalizer{
		detector:  detector,
		extractor: extractor,
		geocoder:  geocoder,
		options:   options,
	}, nil
}

// Geolocalize runs the pipeline on the image referenced by uri.
//
// The stages are strictly sequential: detection feeds extraction feeds
// geocoding. An empty outcome at any stage short-circuits the rest and is
// returned as a success. A failing stage aborts the whole call with a
// ServiceError naming the stage; no partial result accompanies an error.
func (g *Geolocalizer) Geolocalize(ctx context.Context, uri string) (*Result, error) {
	if err := validateURI(uri); err != nil {
		return nil, err
	}

	ann, err := g.detector.DetectText(ctx, uri)
	if err != nil {
		// A reference the detector cannot fetch at all is the caller's
		// mistake, not a provider failure.
		if errors.Is(err, vision.ErrUnsupportedReference) {
			return nil, &InputError{URI: uri, Message: err.Error()}
		}

		return nil, &ServiceError{Stage: StageTextDetection, Err: err}
	}

	corpus := buildCorpus(ann, g.options.ConfidenceThreshold)
	if corpus == "" {
		return &Result{}, nil
	}

	entities, err := g.extractor.AnalyzeEntities(ctx, corpus)
	if err != nil {
		return nil, &ServiceError{Stage: StageEntityExtraction, Err: err}
	}

	candidates := placeCandidates(entities)
	if len(candidates) == 0 {
		return &Result{Text: corpus}, nil
	}

	if err := g.geocodeAll(ctx, candidates); err != nil {
		return nil, err
	}

	return &Result{
		Text:       corpus,
		Candidates: candidates,
		Consensus:  computeConsensus(candidates),
	}, nil
}

// placeCandidates keeps location and address entities, in extraction order.
func placeCandidates(entities []language.Entity) []Candidate {
	var candidates []Candidate

	for _, entity := range entities {
		if !entity.IsPlace() {
			continue
		}

		candidates = append(candidates, Candidate{
			Name: entity.Name,
			Type: entity.Type,
		})
	}

	return candidates
}

// geocodeAll enriches candidates in place. Calls run concurrently up to
// MaxGeocodeProcs; each worker writes only its own index, so extraction
// order is preserved regardless of completion order.
func (g *Geolocalizer) geocodeAll(ctx context.Context, candidates []Candidate) error {
	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(g.options.MaxGeocodeProcs)

	for i := range candidates {
		grp.Go(func() error {
			result, err := g.geocoder.Geocode(ctx, candidates[i].Name)
			if err != nil {
				if errors.Is(err, geocoding.ErrNoResults) {
					return nil // unresolvable candidate, keep it bare
				}

				return &ServiceError{
					Stage: StageGeocoding,
					Err:   fmt.Errorf("geocoding %q: %w", candidates[i].Name, err),
				}
			}

			point := result.Point
			candidates[i].Point = &point
			candidates[i].Address = result.DisplayName
			candidates[i].Confidence = result.Confidence
			candidates[i].Provider = result.Provider

			return nil
		})
	}

	return grp.Wait()
}

// validateURI rejects references no detector can resolve. Remote detectors
// need http(s) or gs URIs; the local detector takes plain paths, which have
// no scheme and pass through.
func validateURI(uri string) error {
	if strings.TrimSpace(uri) == "" {
		return &InputError{Message: "no image reference was given"}
	}

	if strings.ContainsAny(uri, " \t\n") {
		return &InputError{URI: uri, Message: "image reference contains whitespace"}
	}

	return nil
}
