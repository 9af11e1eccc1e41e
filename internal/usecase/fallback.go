package usecase

import (
	"math/rand"

	"resume-critic/internal/domain"
)

var fallbackCritiques = []domain.Critique{
	{
		AnalysisText: `Oh look, another "detail-oriented" professional who could not align a margin to save their career. Six glorious years of experience, and every bullet reads like "I showed up to work."

### PROFESSIONAL EXPERIENCE

Your job descriptions list duties, never results. "Attended meetings" is not an achievement, it is a calendar entry.

### SKILLS ASSESSMENT

"Proficient in Microsoft Office" is as impressive as announcing you can operate a light switch.

### EDUCATION DEEP DIVE

Those online certificates might as well be badges for watching tutorials at double speed.

### EPIC FAILURES

- An objective statement about "leveraging skills in a dynamic environment"
- "Team player" and "works well independently" in the same breath
- Zero numbers anywhere in the document
- Responsibilities copied straight from the job ad

### SAVAGE ADVICE

- Replace every "responsible for" with something you actually achieved.
- Put a number next to each claim, or delete the claim.`,
		HumiliationScore: 85,
		QualityScore:     3,
	},
	{
		AnalysisText: `Ah, another masterpiece of mediocrity. This résumé reads like a networking profile having an identity crisis.

### PROFESSIONAL EXPERIENCE

Your "extensive experience" section can be summarized as "I have had jobs." Organizing the office birthday party does not make you a leader.

### SKILLS ASSESSMENT

Five out of five stars in everything? Even superheroes have weaknesses. "Multiple programming languages" apparently means printing hello world three times.

### EDUCATION DEEP DIVE

The degree is listed, then never mentioned again, as if it wandered in by accident.

### EPIC FAILURES

- A skill bar chart with no scale and no evidence
- "Increased efficiency" with no idea by how much
- Buzzwords stacked four deep in every sentence
- A leadership claim backed by party planning

### SAVAGE ADVICE

- Add metrics. "Increased efficiency" without numbers is like saying you are tall while sitting down.
- Cut the star ratings and show one project that proves the skill.`,
		HumiliationScore: 92,
		QualityScore:     2,
	},
	{
		AnalysisText: `*Adjusts glasses* Ah yes, another "results-driven professional" who forgot to include any results. This document is a movie trailer made entirely of the boring parts.

### PROFESSIONAL EXPERIENCE

Your job titles are more inflated than a bubble market, and the descriptions underneath do not back a single one of them.

### SKILLS ASSESSMENT

"Expert in industry best practices" translates to "I read a blog post once."

### EDUCATION DEEP DIVE

Impressive dates, vague details. What did you actually study, and why should anyone care?

### EPIC FAILURES

- A font choice more offensive than pineapple on pizza
- Every bullet starting with "Responsible for"
- No measurable outcome anywhere
- A summary that could describe literally anyone

### SAVAGE ADVICE

- "Responsible for" means "I was in the room while things happened." Show what you did.
- Pick one font and one tense, then commit to both.`,
		HumiliationScore: 95,
		QualityScore:     1,
	},
}

var fallbackTipCategories = []domain.TipCategory{
	{
		Category: "Content Improvements",
		Items: []string{
			"Start bullet points with action verbs such as Developed, Implemented or Led",
			"Quantify achievements with specific numbers and percentages",
			"Remove outdated or irrelevant experience",
			"Focus on achievements rather than job duties",
			"Tailor your résumé to each job application",
		},
	},
	{
		Category: "Format & Structure",
		Items: []string{
			"Keep your résumé to one or two pages",
			"Use consistent formatting throughout",
			"Leave enough white space for readability",
			"Choose a professional, readable font",
			"Use bullet points instead of paragraphs for experience",
		},
	},
	{
		Category: "Skills Enhancement",
		Items: []string{
			"Include both hard and soft skills",
			"Remove basic skills every applicant already has",
			"Add relevant technical skills and certifications",
			"Match your skills to the job requirements",
			"State proficiency levels for languages and technical skills",
		},
	},
	{
		Category: "Career Development Plan",
		Items: []string{
			"Identify the key skill gaps in your current profile",
			"Research industry certifications that would raise your value",
			"Join professional associations in your field",
			"Build a portfolio of projects that showcases your skills",
			"Network with professionals in your target role",
		},
	},
}

// FallbackPool serves canned critiques when generation fails.
type FallbackPool struct {
	entries []domain.Critique
	pick    func(n int) int
}

// NewFallbackPool returns a pool over the built-in catalog with uniform
// random selection.
func NewFallbackPool() *FallbackPool {
	return &FallbackPool{entries: fallbackCritiques, pick: rand.Intn}
}

// Draw returns a random catalog entry tagged as a fallback. The caller sets
// the session id.
func (p *FallbackPool) Draw() domain.Critique {
	c := p.entries[p.pick(len(p.entries))]
	c.GeneratedBy = domain.GeneratedByFallback
	return c.Clamped()
}

// FallbackTips returns a copy of the generic, non-personalized tip list.
func FallbackTips() []domain.TipCategory {
	out := make([]domain.TipCategory, len(fallbackTipCategories))
	for i, c := range fallbackTipCategories {
		out[i] = domain.TipCategory{
			Category: c.Category,
			Items:    append([]string(nil), c.Items...),
		}
	}
	return out
}
