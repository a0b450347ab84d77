// Package docx extracts plain text from DOCX bytes. It is deliberately not a
// DOCX validator: it reads word/document.xml out of the zip container and
// emits paragraph text, which is all the question parser needs.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const documentPath = "word/document.xml"

// Extractor implements domain.TextExtractor for DOCX payloads.
type Extractor struct{}

// NewExtractor creates a DOCX text extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the document's paragraph text, one paragraph per line.
func (e *Extractor) Extract(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("not a docx container: %w", err)
	}

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == documentPath {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", fmt.Errorf("docx container has no %s", documentPath)
	}

	rc, err := doc.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", documentPath, err)
	}
	defer rc.Close()

	return readParagraphs(rc)
}

// readParagraphs walks the WordprocessingML token stream. Only three element
// kinds matter for raw text: w:t (a text run), w:tab and w:br, plus the w:p
// paragraph boundary.
func readParagraphs(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var sb strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("malformed document xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br", "cr":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}
