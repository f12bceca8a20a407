// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extractor

import (
	"bytes"
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
)

// pdfMagic is the expected header of a PDF file.
var pdfMagic = []byte("%PDF-")

// countPages opens the document independently of the extraction engine and
// returns its page count. Declared as a var so tests can substitute a stub.
var countPages = func(path string) (int, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return r.NumPage(), nil
}

// Validate checks the file at path against the configured size, page, and
// header constraints. It returns nil or a *ValidationError; the Oversized
// and TooManyPages kinds are soft skips, the rest are hard failures.
func (x *Extractor) Validate(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	if info.Size() == 0 {
		return &ValidationError{Path: path, Kind: KindEmpty}
	}

	maxBytes := int64(x.cfg.MaxFileSizeMB) << 20
	if maxBytes > 0 && info.Size() > maxBytes {
		return &ValidationError{
			Path:   path,
			Kind:   KindOversized,
			Detail: fmt.Sprintf("%.1fMB exceeds %dMB limit", float64(info.Size())/(1<<20), x.cfg.MaxFileSizeMB),
		}
	}

	header := make([]byte, len(pdfMagic))
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	n, _ := f.Read(header)
	f.Close()
	if n < len(pdfMagic) || !bytes.HasPrefix(header, pdfMagic) {
		return &ValidationError{Path: path, Kind: KindBadHeader}
	}

	pages, err := countPages(path)
	if err != nil {
		return &ValidationError{Path: path, Kind: KindBadHeader, Detail: err.Error()}
	}
	if x.cfg.MaxPages > 0 && pages > x.cfg.MaxPages {
		return &ValidationError{
			Path:   path,
			Kind:   KindTooManyPages,
			Detail: fmt.Sprintf("%d pages exceeds %d-page limit", pages, x.cfg.MaxPages),
		}
	}

	return nil
}
