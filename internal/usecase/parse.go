package usecase

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"resume-critic/internal/domain"
)

const (
	defaultHumiliationScore = 75
	defaultQualityScore     = 5
)

type critiqueResponse struct {
	AnalysisText     *string         `json:"analysisText"`
	HumiliationScore json.RawMessage `json:"humiliationScore"`
	QualityScore     json.RawMessage `json:"qualityScore"`
}

type tipsResponse struct {
	Categories []tipCategoryResponse `json:"categories"`
}

type tipCategoryResponse struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

// parseError pairs a decode failure with the generation reason it maps to.
type parseError struct {
	reason GenerationReason
	err    error
}

func (e *parseError) Error() string { return e.err.Error() }
func (e *parseError) Unwrap() error { return e.err }

func malformed(err error) error {
	return &parseError{reason: ReasonMalformedOutput, err: err}
}

func missing(format string, args ...any) error {
	return &parseError{reason: ReasonMissingFields, err: fmt.Errorf(format, args...)}
}

func parseReason(err error) GenerationReason {
	var pe *parseError
	if errors.As(err, &pe) {
		return pe.reason
	}
	return ReasonMalformedOutput
}

// decodeStrict decodes exactly one JSON value into v and rejects unknown keys.
func decodeStrict(raw string, v any, what string) error {
	dec := json.NewDecoder(bytes.NewBufferString(strings.TrimSpace(raw)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return malformed(fmt.Errorf("usecase: decode %s: %w", what, err))
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return malformed(fmt.Errorf("usecase: decode %s: multiple JSON values", what))
		}
		return malformed(fmt.Errorf("usecase: decode %s trailing data: %w", what, err))
	}
	return nil
}

// parseCritique decodes model output into a clamped critique. A missing or
// blank analysisText fails; a score that is absent or not a number falls back
// to its default.
func parseCritique(raw string) (domain.Critique, error) {
	var out critiqueResponse
	if err := decodeStrict(raw, &out, "critique"); err != nil {
		return domain.Critique{}, err
	}
	if out.AnalysisText == nil || strings.TrimSpace(*out.AnalysisText) == "" {
		return domain.Critique{}, missing("usecase: critique missing analysisText")
	}
	return domain.Critique{
		AnalysisText:     *out.AnalysisText,
		HumiliationScore: domain.ClampHumiliation(scoreOrDefault(out.HumiliationScore, defaultHumiliationScore)),
		QualityScore:     domain.ClampQuality(scoreOrDefault(out.QualityScore, defaultQualityScore)),
		GeneratedBy:      domain.GeneratedByModel,
	}, nil
}

func scoreOrDefault(raw json.RawMessage, def float64) float64 {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return def
	}
	var v float64
	if err := json.Unmarshal(trimmed, &v); err == nil {
		return v
	}
	// A number literal beyond float64 range is still a number: clamp it as ±Inf.
	if f, err := strconv.ParseFloat(string(trimmed), 64); errors.Is(err, strconv.ErrRange) {
		return f
	}
	return def
}

// parseTips decodes model output into labeled recommendation lists. Blank
// items are dropped; every category needs a name and at least one item.
func parseTips(raw string) ([]domain.TipCategory, error) {
	var out tipsResponse
	if err := decodeStrict(raw, &out, "tips"); err != nil {
		return nil, err
	}
	if len(out.Categories) == 0 {
		return nil, missing("usecase: tips missing categories")
	}
	categories := make([]domain.TipCategory, 0, len(out.Categories))
	for i, c := range out.Categories {
		name := strings.TrimSpace(c.Category)
		if name == "" {
			return nil, missing("usecase: tips category %d missing name", i)
		}
		items := make([]string, 0, len(c.Items))
		for _, item := range c.Items {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		if len(items) == 0 {
			return nil, missing("usecase: tips category %q has no items", name)
		}
		categories = append(categories, domain.TipCategory{Category: name, Items: items})
	}
	return categories, nil
}
