// Copyright 2026 The MapLoc Authors
// SPDX-License-Identifier: Apache-2.0

package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/maploc/maploc/utils/httputils"
)

const defaultVisionEndpoint = "https://vision.googleapis.com/v1/images:annotate"

// ErrUnsupportedReference reports an image reference the service cannot
// fetch. The API downloads the image itself, so only http(s) and gs URIs
// reach it; a local path needs the Tesseract detector instead.
var ErrUnsupportedReference = errors.New("unsupported image reference")

// GoogleDetector uses the Google Cloud Vision API in DOCUMENT_TEXT_DETECTION
// mode. The image is referenced by URI and fetched by the service itself;
// http(s) and gs URIs are accepted.
type GoogleDetector struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// GoogleDetectorOption customizes a GoogleDetector.
type GoogleDetectorOption func(*GoogleDetector)

// WithVisionEndpoint overrides the annotate endpoint. Used by tests.
func WithVisionEndpoint(endpoint string) GoogleDetectorOption {
	return func(d *GoogleDetector) {
		d.endpoint = endpoint
	}
}

// WithVisionTimeout overrides the default 30s request timeout.
func WithVisionTimeout(timeout time.Duration) GoogleDetectorOption {
	return func(d *GoogleDetector) {
		d.httpClient.Timeout = timeout
	}
}

// NewGoogleDetector creates a detector authenticated by apiKey.
func NewGoogleDetector(apiKey string, opts ...GoogleDetectorOption) *GoogleDetector {
	d := &GoogleDetector{
		apiKey:   apiKey,
		endpoint: defaultVisionEndpoint,
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: httputils.DefaultTransport(),
		},
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

type annotateImageSource struct {
	ImageURI string `json:"imageUri"`
}

type annotateImage struct {
	Source annotateImageSource `json:"source"`
}

type annotateFeature struct {
	Type string `json:"type"`
}

type annotateRequest struct {
	Image    annotateImage     `json:"image"`
	Features []annotateFeature `json:"features"`
}

type annotateBatchRequest struct {
	Requests []annotateRequest `json:"requests"`
}

type annotateSymbol struct {
	Text     string `json:"text"`
	Property struct {
		DetectedBreak struct {
			Type string `json:"type"`
		} `json:"detectedBreak"`
	} `json:"property"`
}

type annotateWord struct {
	Symbols []annotateSymbol `json:"symbols"`
}

type annotateParagraph struct {
	Confidence float64        `json:"confidence"`
	Words      []annotateWord `json:"words"`
}

type annotateBlock struct {
	Paragraphs []annotateParagraph `json:"paragraphs"`
}

type annotatePage struct {
	Blocks []annotateBlock `json:"blocks"`
}

type annotateBatchResponse struct {
	Responses []struct {
		FullTextAnnotation struct {
			Text  string         `json:"text"`
			Pages []annotatePage `json:"pages"`
		} `json:"fullTextAnnotation"`
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	} `json:"responses"`
}

// DetectText runs document text detection on the image at uri.
func (d *GoogleDetector) DetectText(ctx context.Context, uri string) (*Annotation, error) {
	if u, err := url.Parse(uri); err != nil || (u.Scheme != "http" && u.Scheme != "https" && u.Scheme != "gs") {
		return nil, fmt.Errorf("%q is not an http(s) or gs reference: %w", uri, ErrUnsupportedReference)
	}

	batch := annotateBatchRequest{
		Requests: []annotateRequest{{
			Image:    annotateImage{Source: annotateImageSource{ImageURI: uri}},
			Features: []annotateFeature{{Type: "DOCUMENT_TEXT_DETECTION"}},
		}},
	}

	body, err := json.Marshal(batch)
	if err != nil {
		return nil, fmt.Errorf("encoding annotate request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint+"?key="+d.apiKey, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building annotate request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("text detection request failed: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vision api returned status %d", resp.StatusCode)
	}

	var annResp annotateBatchResponse
	if err := json.NewDecoder(resp.Body).Decode(&annResp); err != nil {
		return nil, fmt.Errorf("decoding annotate response: %w", err)
	}

	if len(annResp.Responses) == 0 {
		return nil, fmt.Errorf("vision api returned no responses")
	}

	r := annResp.Responses[0]

	// The API reports per-image failures inside a 200 response.
	if r.Error.Code != 0 {
		return nil, fmt.Errorf("vision api error %d: %s", r.Error.Code, r.Error.Message)
	}

	ann := &Annotation{}

	for _, page := range r.FullTextAnnotation.Pages {
		var p Page

		for _, block := range page.Blocks {
			var b Block

			for _, paragraph := range block.Paragraphs {
				par := Paragraph{Confidence: paragraph.Confidence}

				for _, word := range paragraph.Words {
					var w Word

					for _, symbol := range word.Symbols {
						brk := symbol.Property.DetectedBreak.Type
						if brk == "" {
							brk = BreakNone
						}

						w.Symbols = append(w.Symbols, Symbol{
							Text:  symbol.Text,
							Break: brk,
						})
					}

					par.Words = append(par.Words, w)
				}

				b.Paragraphs = append(b.Paragraphs, par)
			}

			p.Blocks = append(p.Blocks, b)
		}

		ann.Pages = append(ann.Pages, p)
	}

	return ann, nil
}
