// Copyright 2026 The MapLoc Authors
// SPDX-License-Identifier: Apache-2.0

// Package language wraps the entity-extraction stage of the pipeline.
package language

import "context"

// Entity types as reported by the provider. The pipeline only acts on
// locations and addresses; the rest pass through untouched for callers
// that inspect the raw extraction.
const (
	TypeLocation = "LOCATION"
	TypeAddress  = "ADDRESS"
)

// Entity is a named entity recognized in a text corpus.
type Entity struct {
	Name     string
	Type     string
	Salience float64
}

// IsPlace reports whether the entity names a real-world place.
func (e Entity) IsPlace() bool {
	return e.Type == TypeLocation || e.Type == TypeAddress
}

// EntityExtractor derives named entities from a plain-text corpus.
// Implementations must preserve the provider's entity ordering.
type EntityExtractor interface {
	AnalyzeEntities(ctx context.Context, text string) ([]Entity, error)
}
