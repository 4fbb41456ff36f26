package app

import (
	"fmt"
	"strings"

	"hotel_curator/internal/domain"
)

const drafterSystemPrompt = `You are writing concise, factual hotel summaries based on structured data.

STYLE REQUIREMENTS:
- Length: 60-100 words, single paragraph
- Include: location (city, country), star rating, 2-4 notable scores/amenities
- Use concrete, data-grounded statements
- NO vague superlatives or marketing copy
- NO hallucinated facts
- Focus on factual attributes from the data`

// buildDraftPrompt assembles the user content for one draft generation:
// learned style guide first (when present), then up to three few-shot
// examples, then the hotel data block.
func buildDraftPrompt(hotel domain.NormalizedHotel, styleGuide string, examples []domain.FewShotExample) string {
	var b strings.Builder

	if strings.TrimSpace(styleGuide) != "" {
		b.WriteString("LEARNED STYLE PREFERENCES:\n")
		b.WriteString(styleGuide)
		b.WriteString("\n\n")
	}

	if len(examples) > 0 {
		b.WriteString("EXAMPLES OF GOOD SUMMARIES:\n")
		for i, ex := range examples {
			if i >= 3 {
				break
			}
			b.WriteString("- ")
			b.WriteString(ex.Summary)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("HOTEL DATA:\n")
	fmt.Fprintf(&b, "Name: %s\n", hotel.Name)
	fmt.Fprintf(&b, "Location: %s\n", hotel.Location)
	fmt.Fprintf(&b, "Star Rating: %d\n", hotel.StarRating)
	fmt.Fprintf(&b, "Top Scores: Cleanliness %g, Comfort %g, Facilities %g, Location %g\n",
		hotel.Scores["cleanliness"], hotel.Scores["comfort"], hotel.Scores["facilities"], hotel.Scores["location"])
	b.WriteString("\nWrite a summary paragraph (60-100 words):")

	return b.String()
}
