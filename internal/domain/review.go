package domain

import "time"

// Action is the human decision supplied at the review gate.
type Action string

const (
	ActionAccept Action = "accept"
	ActionEdit   Action = "edit"
	ActionReject Action = "reject"
)

func (a Action) Valid() bool {
	switch a {
	case ActionAccept, ActionEdit, ActionReject:
		return true
	}
	return false
}

// Stage is the pipeline position of a ReviewState.
type Stage int

const (
	StageIngested Stage = iota // normalized, no draft yet
	StageDrafted               // draft + critique attached, awaiting decision
	StageStored                // terminal: accepted or edited, persisted
	StageDiscarded             // terminal: rejected, never persisted
)

func (s Stage) String() string {
	switch s {
	case StageIngested:
		return "ingested"
	case StageDrafted:
		return "drafted"
	case StageStored:
		return "stored"
	case StageDiscarded:
		return "discarded"
	}
	return "unknown"
}

// Critique is the deterministic rule battery result attached to a draft.
// Issues is non-empty exactly when some flag fails; it never blocks the gate.
type Critique struct {
	WordCountValid      bool     `json:"word_count_valid"`
	LocationMentioned   bool     `json:"location_mentioned"`
	StarRatingMentioned bool     `json:"star_rating_mentioned"`
	AmenitiesCount      int      `json:"amenities_count"`
	NoSuperlatives      bool     `json:"no_superlatives"`
	Issues              []string `json:"issues"`
}

// FewShotExample wraps one prior accepted summary for prompt conditioning.
type FewShotExample struct {
	Summary string `json:"summary"`
}

// LearnedContext is the conditioning pair derived from accumulated feedback.
// Recomputed wholesale every threshold reviews, never patched incrementally.
type LearnedContext struct {
	StyleGuide      string           `json:"style_guide"`
	FewShotExamples []FewShotExample `json:"few_shot_examples"`
	ErrorPatterns   []string         `json:"error_patterns"`
}

// ReviewState is the unit of work threaded through the pipeline. One exists
// per hotel per review attempt; every stage mutates it in place.
type ReviewState struct {
	HotelID         int64
	Hotel           NormalizedHotel
	Stage           Stage
	DraftSummary    string
	Critique        *Critique
	FinalSummary    string
	HumanAction     Action
	ReviewTimestamp time.Time

	// Input conditioning carried in from the caller.
	StyleGuide      string
	FewShotExamples []FewShotExample
	ErrorPatterns   []string
}

// FeedbackRecord is one row of the learner's append-only outcome log.
type FeedbackRecord struct {
	HotelID       int64
	Action        Action
	OriginalDraft string
	FinalText     string
}

// ReviewedRecord is the persisted row for an accepted or edited review.
type ReviewedRecord struct {
	HotelID         int64     `json:"hotel_id"`
	HotelName       string    `json:"hotel_name"`
	DraftSummary    string    `json:"draft_summary"`
	FinalSummary    string    `json:"final_summary"`
	Status          Action    `json:"status"`
	ReviewTimestamp time.Time `json:"review_timestamp"`
	CritiqueIssues  []string  `json:"critique_issues"`
}
