package domain

import "math"

// GeneratedBy records which path produced a critique or tip list.
type GeneratedBy string

const (
	GeneratedByModel    GeneratedBy = "model"
	GeneratedByFallback GeneratedBy = "fallback"
)

const (
	MinHumiliationScore = 0
	MaxHumiliationScore = 100
	MinQualityScore     = 1
	MaxQualityScore     = 10
)

// Critique is the result of an initial analysis.
type Critique struct {
	SessionID        string      `json:"sessionId"`
	AnalysisText     string      `json:"analysisText"`
	HumiliationScore int         `json:"humiliationScore"`
	QualityScore     int         `json:"qualityScore"`
	GeneratedBy      GeneratedBy `json:"generatedBy"`
}

// Clamped returns a copy of c with both scores forced into range.
func (c Critique) Clamped() Critique {
	c.HumiliationScore = ClampHumiliation(float64(c.HumiliationScore))
	c.QualityScore = ClampQuality(float64(c.QualityScore))
	return c
}

func ClampHumiliation(v float64) int {
	return clamp(v, MinHumiliationScore, MaxHumiliationScore)
}

func ClampQuality(v float64) int {
	return clamp(v, MinQualityScore, MaxQualityScore)
}

func clamp(v float64, lo, hi int) int {
	if math.IsNaN(v) {
		return lo
	}
	r := math.Round(v)
	if r < float64(lo) {
		return lo
	}
	if r > float64(hi) {
		return hi
	}
	return int(r)
}

// TipCategory is one labeled recommendation list of a deep analysis.
type TipCategory struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}
