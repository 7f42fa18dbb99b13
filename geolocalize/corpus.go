// Copyright 2026 The MapLoc Authors
// SPDX-License-Identifier: Apache-2.0

package geolocalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/maploc/maploc/vision"
)

var nonAlphanumeric = regexp.MustCompile(`[^0-9A-Za-z]+`)

// asciiFolding strips diacritics so accented place names survive the
// alphanumeric filter instead of being deleted.
func asciiFolding(s string) string {
	s, _, _ = transform.String(
		transform.Chain(
			norm.NFD,
			runes.Remove(runes.In(unicode.Mn)),
			norm.NFC,
		),
		s,
	)

	return s
}

// buildCorpus flattens the first annotated page into the text corpus fed to
// entity extraction. Paragraphs under the confidence threshold are dropped,
// detected breaks become spaces, and everything that is not alphanumeric is
// squashed to a single space. Returns "" when nothing usable remains.
func buildCorpus(ann *vision.Annotation, confidenceThreshold float64) string {
	if ann.Empty() {
		return ""
	}

	// Raster maps are single images; the provider reports one page.
	page := ann.Pages[0]

	var sb strings.Builder

	for _, block := range page.Blocks {
		for _, paragraph := range block.Paragraphs {
			if paragraph.Confidence < confidenceThreshold {
				continue
			}

			for _, word := range paragraph.Words {
				for _, symbol := range word.Symbols {
					sb.WriteString(symbol.Text)

					if symbol.Break != vision.BreakNone {
						sb.WriteByte(' ')
					}
				}
			}
		}
	}

	words := nonAlphanumeric.ReplaceAllString(asciiFolding(sb.String()), " ")

	return strings.TrimSpace(words)
}
