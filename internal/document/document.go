// Package document defines the structured form returned by the text
// extraction engine and flattens it into the plain text used for critiques.
package document

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Document is the page/text-item/run tree produced by the extraction engine.
type Document struct {
	Pages []Page `json:"Pages"`
}

type Page struct {
	Texts []TextItem `json:"Texts"`
}

type TextItem struct {
	R []TextRun `json:"R"`
}

// TextRun is a single run of text. T is URI-encoded by the engine.
type TextRun struct {
	T string `json:"T"`
}

const (
	ReasonNoStructure = "no_page_structure"
	ReasonEmptyText   = "empty_text"
	ReasonUnreadable  = "unreadable_document"
)

// ExtractionError means the source document cannot yield usable text. It is
// the only pipeline failure surfaced to the caller.
type ExtractionError struct {
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("document: extraction failed (%s)", e.Reason)
	}
	return fmt.Sprintf("document: extraction failed (%s): %v", e.Reason, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsExtractionError reports whether err carries an *ExtractionError.
func IsExtractionError(err error) bool {
	var target *ExtractionError
	return errors.As(err, &target)
}

// Flatten concatenates every run of every text item of every page in source
// order. No layout is reconstructed and nothing is reordered.
func Flatten(doc Document) (string, error) {
	if len(doc.Pages) == 0 {
		return "", &ExtractionError{Reason: ReasonNoStructure}
	}

	pages := make([]string, 0, len(doc.Pages))
	for _, p := range doc.Pages {
		items := make([]string, 0, len(p.Texts))
		for _, item := range p.Texts {
			runs := make([]string, 0, len(item.R))
			for _, r := range item.R {
				runs = append(runs, decodeRun(r.T))
			}
			items = append(items, strings.Join(runs, " "))
		}
		pages = append(pages, strings.Join(items, " "))
	}

	text := strings.Join(pages, " ")
	if strings.TrimSpace(text) == "" {
		return "", &ExtractionError{Reason: ReasonEmptyText}
	}
	return text, nil
}

// decodeRun undoes the engine's URI encoding. Runs that are not valid escapes
// are kept verbatim.
func decodeRun(s string) string {
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}
