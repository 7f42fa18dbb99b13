// Copyright 2026 The MapLoc Authors
// SPDX-License-Identifier: Apache-2.0

// Package vision wraps the optical text-detection stage of the pipeline.
package vision

import "context"

// Break types attached to a symbol, mirroring the provider's
// DetectedBreak enumeration. Anything other than BreakNone means the
// word ends here and a separator belongs after the symbol.
const (
	BreakNone         = "UNKNOWN"
	BreakSpace        = "SPACE"
	BreakSureSpace    = "SURE_SPACE"
	BreakEOLSureSpace = "EOL_SURE_SPACE"
	BreakHyphen       = "HYPHEN"
	BreakLineBreak    = "LINE_BREAK"
)

// Symbol is a single recognized glyph.
type Symbol struct {
	Text  string
	Break string // one of the Break* constants, BreakNone when absent
}

// Word is an ordered run of symbols.
type Word struct {
	Symbols []Symbol
}

// Paragraph groups words sharing a layout block, with the provider's
// recognition confidence in [0,1].
type Paragraph struct {
	Confidence float64
	Words      []Word
}

// Block is a layout unit of a page.
type Block struct {
	Paragraphs []Paragraph
}

// Page is one page of the annotated image. Raster maps yield exactly one.
type Page struct {
	Blocks []Block
}

// Annotation is the full text-detection result for an image.
type Annotation struct {
	Pages []Page
}

// Empty reports whether no text at all was detected. An empty annotation
// is a valid outcome, not an error: a map with no legible text exists.
func (a *Annotation) Empty() bool {
	return a == nil || len(a.Pages) == 0
}

// TextDetector detects text in the image identified by uri.
type TextDetector interface {
	DetectText(ctx context.Context, uri string) (*Annotation, error)
}
