package usecase

import (
	"fmt"
	"strings"

	"resume-critic/internal/domain"
)

const (
	critiqueTemperature = 0.8
	tipsTemperature     = 0.7
	maxCompletionTokens = 1500
	tipsPerCategory     = 5
)

var (
	critiqueSchema = &domain.OutputSchema{
		Name: "resume_critique",
		Schema: []byte(`{
  "type": "object",
  "additionalProperties": false,
  "required": ["analysisText", "humiliationScore", "qualityScore"],
  "properties": {
    "analysisText": {"type": "string"},
    "humiliationScore": {"type": "number"},
    "qualityScore": {"type": "number"}
  }
}`),
	}

	tipsSchema = &domain.OutputSchema{
		Name: "resume_tips",
		Schema: []byte(`{
  "type": "object",
  "additionalProperties": false,
  "required": ["categories"],
  "properties": {
    "categories": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["category", "items"],
        "properties": {
          "category": {"type": "string"},
          "items": {"type": "array", "items": {"type": "string"}}
        }
      }
    }
  }
}`),
	}
)

func buildCritiqueMessages(text string) []domain.ChatMessage {
	return []domain.ChatMessage{
		{Role: "system", Content: buildCritiquePrompt()},
		{Role: "user", Content: "Here's the document text to analyze:\n" + normalizePromptInput(text)},
	}
}

func buildCritiquePrompt() string {
	return strings.Join([]string{
		"Role:",
		"You are a brutally honest and darkly humorous critic of résumés and professional profiles.",
		"Roast the provided document with sarcasm and wit while still giving feedback the candidate can act on.",
		"Comment on specific details from the document, never on generic résumé habits alone.",
		"",
		"Analysis Areas:",
		analysisAreas(),
		"",
		"Structure:",
		critiqueStructure(),
		"",
		"Output Contract:",
		critiqueOutputContract(),
	}, "\n")
}

func analysisAreas() string {
	return strings.Join([]string{
		"1) PROFESSIONAL EXPERIENCE: companies, inflated or undersold titles, duties versus results, missing metrics, progression, gaps and job-hopping.",
		"2) SKILLS ASSESSMENT: claimed skills versus evidence, outdated or exaggerated skills, generic soft skills, missing skills for the target role.",
		"3) EDUCATION DEEP DIVE: relevance of degrees, institutions, missing certifications, how education supports the career narrative.",
		"4) Additional: formatting, overall narrative, personal branding, tone.",
	}, "\n")
}

func critiqueStructure() string {
	return strings.Join([]string{
		"- A sarcastic introduction of 2-3 sentences.",
		"- A section headed PROFESSIONAL EXPERIENCE.",
		"- A section headed SKILLS ASSESSMENT.",
		"- A section headed EDUCATION DEEP DIVE.",
		"- A section headed EPIC FAILURES with 4-6 specific examples of the worst elements.",
		"- A section headed SAVAGE ADVICE with 2-3 improvement suggestions disguised as insults.",
		"Put each section heading on its own line and separate paragraphs with a blank line.",
		"Keep the whole analysis between 300 and 400 words.",
	}, "\n")
}

func critiqueOutputContract() string {
	return "Return JSON only with keys analysisText (string), humiliationScore (number) and qualityScore (number). " +
		"analysisText holds the complete analysis. " +
		"humiliationScore is the humiliation level from 0 (mild) to 100 (total destruction). " +
		"qualityScore is the actual quality of the document from 1 (complete disaster) to 10 (perfection)."
}

func buildTipsMessages(text string) []domain.ChatMessage {
	return []domain.ChatMessage{
		{Role: "system", Content: buildTipsPrompt()},
		{Role: "user", Content: "Please analyze this résumé and provide personalized improvement tips and a career development roadmap:\n\n" + normalizePromptInput(text)},
	}
}

func buildTipsPrompt() string {
	names := make([]string, 0, len(fallbackTipCategories))
	for i, c := range fallbackTipCategories {
		names = append(names, fmt.Sprintf("%d) %s: %s", i+1, c.Category, tipCategoryFocus[c.Category]))
	}
	return strings.Join([]string{
		"Role:",
		"You are a professional career consultant and résumé expert.",
		"",
		"Task:",
		"Analyze the provided résumé and create a personalized improvement plan with these categories:",
		strings.Join(names, "\n"),
		"",
		fmt.Sprintf("For each category provide %d specific, actionable tips based on the résumé content.", tipsPerCategory),
		"Tailor the tips to the candidate's experience level, industry and current skills.",
		"",
		"Output Contract:",
		"Return JSON only with key categories: an array of objects with keys category (string) and items (array of strings).",
	}, "\n")
}

var tipCategoryFocus = map[string]string{
	"Content Improvements":    "specific ways to improve the current content",
	"Format & Structure":      "how to better organize and present the information",
	"Skills Enhancement":      "which skills to develop given the current profile",
	"Career Development Plan": "a roadmap for professional growth",
}

func normalizePromptInput(s string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(s)), " ")
}
