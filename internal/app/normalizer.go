package app

import (
	"fmt"
	"strconv"
	"strings"

	"hotel_curator/internal/domain"
)

/********** alias registries (single source of truth) **********/

var fieldAliases = map[string][]string{
	"name":    {"hotel_name", "name", "property_name", "title"},
	"city":    {"city", "town", "address.city", "location.city"},
	"country": {"country", "country_name", "address.country", "location.country"},
	"stars":   {"star_rating", "stars", "rating", "star"},
	"lat":     {"lat", "latitude", "location.lat"},
	"lon":     {"lon", "lng", "longitude", "location.lon"},
}

var scoreAliases = map[string][]string{
	"cleanliness": {"cleanliness_base", "cleanliness", "scores.cleanliness"},
	"comfort":     {"comfort_base", "comfort", "scores.comfort"},
	"facilities":  {"facilities_base", "facilities", "scores.facilities"},
	"location":    {"location_base", "location_score", "scores.location"},
	"staff":       {"staff_base", "staff", "scores.staff"},
	"value":       {"value_for_money_base", "value_for_money", "value", "scores.value"},
}

// Normalize maps one raw hotel record onto the canonical shape the pipeline
// expects. Total: missing strings become "Unknown", missing numbers 0, and
// all six score keys are always present.
func Normalize(rec domain.HotelRecord) domain.NormalizedHotel {
	m := rec.Raw
	if m == nil {
		m = map[string]any{}
	}

	name := strOrUnknown(m, "name")
	city := strOrUnknown(m, "city")
	country := strOrUnknown(m, "country")

	stars := 0
	if f := floatAlias(m, "stars"); f != nil {
		stars = int(*f)
	}
	if stars < 0 {
		stars = 0
	}
	if stars > 5 {
		stars = 5
	}

	lat, lon := 0.0, 0.0
	if f := floatAlias(m, "lat"); f != nil {
		lat = *f
	}
	if f := floatAlias(m, "lon"); f != nil {
		lon = *f
	}

	scores := make(map[string]float64, len(domain.ScoreKeys))
	for _, k := range domain.ScoreKeys {
		scores[k] = 0
		if f := getFloatFlexible(m, scoreAliases[k]...); f != nil {
			scores[k] = *f
		}
	}

	return domain.NormalizedHotel{
		HotelID:     rec.HotelID,
		Name:        name,
		City:        city,
		Country:     country,
		Location:    fmt.Sprintf("%s, %s", city, country),
		StarRating:  stars,
		Coordinates: fmt.Sprintf("%g, %g", lat, lon),
		Scores:      scores,
	}
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// strOrUnknown: first non-empty string for a named alias set, else "Unknown".
func strOrUnknown(m map[string]any, key string) string {
	for _, p := range fieldAliases[key] {
		if s := strings.TrimSpace(lookupStr(m, p)); s != "" {
			return s
		}
	}
	return "Unknown"
}

func floatAlias(m map[string]any, key string) *float64 {
	return getFloatFlexible(m, fieldAliases[key]...)
}

// getFloatFlexible: number from several paths (float64/int/string like "8,0").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case int64:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}
