// Copyright 2026 The MapLoc Authors
// SPDX-License-Identifier: Apache-2.0

package vision

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// TesseractDetector runs text detection locally through Tesseract. It only
// understands filesystem paths, has no per-symbol confidence, and produces a
// single synthetic page with one paragraph per recognized line. It exists so
// the detection stage can run without cloud credentials.
type TesseractDetector struct {
	languages []string
}

// NewTesseractDetector creates a local detector. languages follow the
// Tesseract naming ("eng", "spa", ...); empty means the engine default.
func NewTesseractDetector(languages ...string) *TesseractDetector {
	return &TesseractDetector{languages: languages}
}

// DetectText recognizes text in the image file at path.
func (d *TesseractDetector) DetectText(ctx context.Context, path string) (*Annotation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if len(d.languages) > 0 {
		if err := client.SetLanguage(d.languages...); err != nil {
			return nil, fmt.Errorf("setting tesseract languages: %w", err)
		}
	}

	if err := client.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("setting image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("tesseract recognition failed: %w", err)
	}

	return annotationFromText(text), nil
}

// annotationFromText lifts plain recognized text into the annotation shape
// the corpus builder consumes. Tesseract reports no paragraph confidence,
// so every paragraph is marked fully confident.
func annotationFromText(text string) *Annotation {
	if strings.TrimSpace(text) == "" {
		return &Annotation{}
	}

	var block Block

	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		par := Paragraph{Confidence: 1.0}

		for i, field := range fields {
			brk := BreakSpace
			if i == len(fields)-1 {
				brk = BreakLineBreak
			}

			par.Words = append(par.Words, Word{
				Symbols: []Symbol{{Text: field, Break: brk}},
			})
		}

		block.Paragraphs = append(block.Paragraphs, par)
	}

	if len(block.Paragraphs) == 0 {
		return &Annotation{}
	}

	return &Annotation{Pages: []Page{{Blocks: []Block{block}}}}
}
