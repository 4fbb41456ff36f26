package app

import (
	"fmt"
	"strconv"
	"strings"

	"hotel_curator/internal/domain"
)

// scoreKeywords are matched as case-insensitive substrings, so "cleanli"
// covers both "cleanliness" and "cleanliness score".
var scoreKeywords = []string{"cleanli", "comfort", "facilit", "staff", "value", "location score"}

var bannedSuperlatives = []string{"amazing", "incredible", "stunning", "breathtaking", "perfect", "ultimate"}

// Critique runs the deterministic rule battery against a draft. Pure and
// idempotent; the result annotates the draft for the reviewer and never
// blocks the gate.
func Critique(draft string, hotel domain.NormalizedHotel) domain.Critique {
	c := domain.Critique{NoSuperlatives: true}
	draftLower := strings.ToLower(draft)

	wordCount := len(strings.Fields(draft))
	c.WordCountValid = wordCount >= 60 && wordCount <= 100
	if !c.WordCountValid {
		c.Issues = append(c.Issues, fmt.Sprintf("Word count %d (expected 60-100)", wordCount))
	}

	city := strings.ToLower(hotel.City)
	country := strings.ToLower(hotel.Country)
	c.LocationMentioned = strings.Contains(draftLower, city) || strings.Contains(draftLower, country)
	if !c.LocationMentioned {
		c.Issues = append(c.Issues, "Location not clearly mentioned")
	}

	stars := strconv.Itoa(hotel.StarRating)
	c.StarRatingMentioned = strings.Contains(draft, stars) || strings.Contains(draftLower, "star")
	if !c.StarRatingMentioned {
		c.Issues = append(c.Issues, "Star rating not mentioned")
	}

	for _, kw := range scoreKeywords {
		if strings.Contains(draftLower, kw) {
			c.AmenitiesCount++
		}
	}
	if c.AmenitiesCount < 2 {
		c.Issues = append(c.Issues, fmt.Sprintf("Only %d amenities mentioned (expected 2-4)", c.AmenitiesCount))
	}

	var found []string
	for _, s := range bannedSuperlatives {
		if strings.Contains(draftLower, s) {
			found = append(found, s)
		}
	}
	if len(found) > 0 {
		c.NoSuperlatives = false
		c.Issues = append(c.Issues, "Contains superlatives: "+strings.Join(found, ", "))
	}

	return c
}
