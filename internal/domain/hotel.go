package domain

// ScoreKeys are the six sub-score names every NormalizedHotel carries.
var ScoreKeys = []string{"cleanliness", "comfort", "facilities", "location", "staff", "value"}

// HotelRecord is one raw source row. The pipeline never mutates it.
type HotelRecord struct {
	HotelID int64
	Raw     map[string]any
}

// NormalizedHotel is the canonical view the pipeline works with. Built once
// by Normalize, never mutated afterward.
type NormalizedHotel struct {
	HotelID     int64
	Name        string
	City        string
	Country     string
	Location    string // "City, Country"
	StarRating  int    // 0..5
	Coordinates string // "lat, lon"
	Scores      map[string]float64
}

// HotelListItem is the lightweight row returned by source listings.
type HotelListItem struct {
	HotelID    int64
	Name       string
	City       string
	Country    string
	StarRating int
}
