// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extractor

import (
	"regexp"
	"strings"
)

// Reference extraction patterns.
var (
	// referencesHeadingRe matches a references/bibliography heading line.
	referencesHeadingRe = regexp.MustCompile(`(?mi)^\s*(?:\d+\.?\s+)?(?:references|bibliography)\s*$`)

	// bibEntryRe matches numbered bibliography entries like:
	// [1] Authors. Title. Venue, Year.
	bibEntryRe = regexp.MustCompile(`(?m)^\s*\[\d+\]\s+(.+)$`)
)

// maxReferences caps how many entries are kept per document.
const maxReferences = 200

// ExtractReferences pulls the reference list from a document's raw text.
// It looks for a references/bibliography heading and collects numbered
// entries after it, falling back to plain lines when the document does not
// number its bibliography. Documents without a references heading yield nil.
func ExtractReferences(rawText string) []string {
	loc := referencesHeadingRe.FindStringIndex(rawText)
	if loc == nil {
		return nil
	}
	tail := rawText[loc[1]:]

	var refs []string
	for _, m := range bibEntryRe.FindAllStringSubmatch(tail, -1) {
		refs = append(refs, strings.TrimSpace(m[1]))
		if len(refs) == maxReferences {
			return refs
		}
	}
	if refs != nil {
		return refs
	}

	// Unnumbered bibliography: keep non-empty lines verbatim.
	for _, line := range strings.Split(tail, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		refs = append(refs, line)
		if len(refs) == maxReferences {
			break
		}
	}
	return refs
}
