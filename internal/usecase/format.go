package usecase

import (
	"regexp"
	"strings"
)

// Canonical section headers of a critique.
var sectionLabels = []string{
	"PROFESSIONAL EXPERIENCE",
	"SKILLS ASSESSMENT",
	"EDUCATION DEEP DIVE",
	"EPIC FAILURES",
	"SAVAGE ADVICE",
}

// sectionLabelPattern matches a canonical label with any surrounding markdown
// emphasis, heading marks, quotes and a trailing colon.
var sectionLabelPattern = regexp.MustCompile(
	`[ \t]*(?:[#*_"]+[ \t]*)*(` + strings.Join(sectionLabels, "|") + `)[ \t]*(?:[*_"]+[ \t]*)*:*[ \t]*(?:[*_"]+[ \t]*)*`,
)

const sectionHeader = "\n\n### $1\n\n"

var (
	lineEndings   = strings.NewReplacer("\r\n", "\n", "\r", "\n")
	trailingSpace = regexp.MustCompile(`(?m)[ \t]+$`)
	blankLineRuns = regexp.MustCompile(`\n{3,}`)
)

// formatAnalysis rewrites section labels to "### LABEL" on their own line and
// collapses blank-line runs into a single paragraph separator. It is
// idempotent.
func formatAnalysis(s string) string {
	s = lineEndings.Replace(s)
	s = sectionLabelPattern.ReplaceAllString(s, sectionHeader)
	s = trailingSpace.ReplaceAllString(s, "")
	s = blankLineRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
