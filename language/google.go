// Copyright 2026 The MapLoc Authors
// SPDX-License-Identifier: Apache-2.0

package language

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/maploc/maploc/utils/httputils"
)

const defaultLanguageEndpoint = "https://language.googleapis.com/v1/documents:analyzeEntities"

// GoogleExtractor uses the Google Cloud Natural Language API to extract
// entities from plain text.
type GoogleExtractor struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// GoogleExtractorOption customizes a GoogleExtractor.
type GoogleExtractorOption func(*GoogleExtractor)

// WithLanguageEndpoint overrides the analyzeEntities endpoint. Used by tests.
func WithLanguageEndpoint(endpoint string) GoogleExtractorOption {
	return func(e *GoogleExtractor) {
		e.endpoint = endpoint
	}
}

// WithLanguageTimeout overrides the default 30s request timeout.
func WithLanguageTimeout(timeout time.Duration) GoogleExtractorOption {
	return func(e *GoogleExtractor) {
		e.httpClient.Timeout = timeout
	}
}

// NewGoogleExtractor creates an extractor authenticated by apiKey.
func NewGoogleExtractor(apiKey string, opts ...GoogleExtractorOption) *GoogleExtractor {
	e := &GoogleExtractor{
		apiKey:   apiKey,
		endpoint: defaultLanguageEndpoint,
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: httputils.DefaultTransport(),
		},
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

type analyzeDocument struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type analyzeRequest struct {
	Document     analyzeDocument `json:"document"`
	EncodingType string          `json:"encodingType"`
}

type analyzeResponse struct {
	Entities []struct {
		Name     string  `json:"name"`
		Type     string  `json:"type"`
		Salience float64 `json:"salience"`
	} `json:"entities"`
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// AnalyzeEntities extracts named entities from text, in provider order.
func (e *GoogleExtractor) AnalyzeEntities(ctx context.Context, text string) ([]Entity, error) {
	req := analyzeRequest{
		Document: analyzeDocument{
			Type:    "PLAIN_TEXT",
			Content: text,
		},
		EncodingType: "UTF8",
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding analyze request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint+"?key="+e.apiKey, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building analyze request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("entity extraction request failed: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("language api returned status %d", resp.StatusCode)
	}

	var analyzeResp analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&analyzeResp); err != nil {
		return nil, fmt.Errorf("decoding analyze response: %w", err)
	}

	if analyzeResp.Error.Code != 0 {
		return nil, fmt.Errorf("language api error %d: %s", analyzeResp.Error.Code, analyzeResp.Error.Message)
	}

	entities := make([]Entity, 0, len(analyzeResp.Entities))
	for _, entity := range analyzeResp.Entities {
		entities = append(entities, Entity{
			Name:     entity.Name,
			Type:     entity.Type,
			Salience: entity.Salience,
		})
	}

	return entities, nil
}
