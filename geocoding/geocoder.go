// Copyright 2026 The MapLoc Authors
// SPDX-License-Identifier: Apache-2.0

// Package geocoding wraps the geocoding stage of the pipeline.
package geocoding

import (
	"context"
	"errors"

	"github.com/maploc/maploc/spatial"
)

// ErrNoResults is returned when the provider resolves the query cleanly
// but finds no matching place. It is a valid outcome, not a failure.
var ErrNoResults = errors.New("geocoding: no results")

// Result represents a geocoding result from any provider.
type Result struct {
	Point       spatial.Point
	Confidence  string // high, medium, low
	Provider    string
	DisplayName string
}

// Geocoder interface for different geocoding providers.
type Geocoder interface {
	Geocode(ctx context.Context, location string) (*Result, error)
}
