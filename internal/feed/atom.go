// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feed

import (
	"encoding/xml"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/paper-ingest/pkg/types"
)

// arXiv Atom feed XML structures.
type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID         string         `xml:"id"`
	Title      string         `xml:"title"`
	Summary    string         `xml:"summary"`
	Published  string         `xml:"published"`
	Authors    []atomAuthor   `xml:"author"`
	Categories []atomCategory `xml:"category"`
	Links      []atomLink     `xml:"link"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

type atomLink struct {
	Href  string `xml:"href,attr"`
	Rel   string `xml:"rel,attr"`
	Type  string `xml:"type,attr"`
	Title string `xml:"title,attr"`
}

// paperFromEntry maps one Atom entry to PaperMetadata. The second return
// value is false when the entry carries no usable identifier; such entries
// are dropped silently, not treated as errors.
func paperFromEntry(entry atomEntry) (types.PaperMetadata, bool) {
	arxivID := extractArxivID(entry.ID)
	if arxivID == "" {
		return types.PaperMetadata{}, false
	}

	meta := types.PaperMetadata{
		ArxivID:  arxivID,
		Title:    collapseWhitespace(entry.Title),
		Abstract: collapseWhitespace(entry.Summary),
	}

	for _, a := range entry.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			meta.Authors = append(meta.Authors, name)
		}
	}

	for _, c := range entry.Categories {
		if c.Term != "" {
			meta.Categories = append(meta.Categories, c.Term)
		}
	}

	if t, err := time.Parse(time.RFC3339, entry.Published); err == nil {
		meta.Published = t
	}

	for _, l := range entry.Links {
		if l.Type == "application/pdf" || l.Title == "pdf" {
			meta.PDFURL = upgradeToHTTPS(l.Href)
			break
		}
	}

	return meta, true
}

// extractArxivID pulls the versionless arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" → "2301.07041").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	return stripVersion(idURL[idx+len(prefix):])
}

// stripVersion removes a trailing version suffix (e.g. "v1", "v2").
func stripVersion(id string) string {
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			return id[:vIdx]
		}
	}
	return id
}

// collapseWhitespace folds embedded newlines and runs of spaces into single
// spaces. Feed titles and abstracts arrive hard-wrapped.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// upgradeToHTTPS rewrites insecure arxiv.org links to HTTPS. Links to other
// hosts pass through unchanged.
func upgradeToHTTPS(href string) string {
	u, err := url.Parse(href)
	if err != nil || u.Scheme != "http" {
		return href
	}
	host := u.Hostname()
	if host == "arxiv.org" || strings.HasSuffix(host, ".arxiv.org") {
		u.Scheme = "https"
		return u.String()
	}
	return href
}
