package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_curator/internal/domain"
)

// ReviewService drives one ReviewState through the fixed stages:
// ingest -> draft -> critique -> human gate -> store | discard.
// Everything up to the gate runs in StartReview; CompleteReview applies
// the human decision. The gate itself is just the span between the two
// calls: nothing executes until a decision arrives.
type ReviewService struct {
	store   domain.ReviewStore
	cache   domain.Cache
	gen     domain.Generator
	learner *FeedbackLearner
	now     func() time.Time
}

func NewReviewService(store domain.ReviewStore, cache domain.Cache, gen domain.Generator, learner *FeedbackLearner) *ReviewService {
	return &ReviewService{store: store, cache: cache, gen: gen, learner: learner, now: time.Now}
}

// WithClock overrides the completion timestamp source. Tests only.
func (s *ReviewService) WithClock(now func() time.Time) *ReviewService {
	s.now = now
	return s
}

// StartReview runs the automated stages for one hotel and parks the state at
// the human gate. A hotel with a persisted reviewed row is not re-drafted;
// the caller must delete the row first (ReRevoke via DeleteReview).
func (s *ReviewService) StartReview(ctx context.Context, hotelID int64, learned domain.LearnedContext) (*domain.ReviewState, error) {
	if _, err := s.store.GetReviewed(ctx, hotelID); err == nil {
		return nil, fmt.Errorf("hotel %d: %w", hotelID, domain.ErrAlreadyReviewed)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	rec, err := s.store.GetHotelRecord(ctx, hotelID)
	if err != nil {
		return nil, err
	}

	st := &domain.ReviewState{
		HotelID:         hotelID,
		Hotel:           Normalize(rec),
		Stage:           domain.StageIngested,
		StyleGuide:      learned.StyleGuide,
		FewShotExamples: learned.FewShotExamples,
		ErrorPatterns:   learned.ErrorPatterns,
	}

	draft, err := s.gen.Generate(ctx, drafterSystemPrompt, buildDraftPrompt(st.Hotel, st.StyleGuide, st.FewShotExamples))
	if err != nil {
		return nil, fmt.Errorf("draft for hotel %d: %w: %v", hotelID, domain.ErrGenerationFailed, err)
	}
	st.DraftSummary = strings.TrimSpace(draft)

	critique := Critique(st.DraftSummary, st.Hotel)
	st.Critique = &critique
	st.Stage = domain.StageDrafted

	log.Debug().
		Int64("hotel_id", hotelID).
		Str("stage", st.Stage.String()).
		Int("issues", len(critique.Issues)).
		Msg("draft ready for review")

	return st, nil
}

// CompleteReview applies the human decision to a drafted state. The same
// (state, action, text) input always yields the same resulting state; the
// only non-determinism is the completion timestamp, drawn from s.now.
func (s *ReviewService) CompleteReview(ctx context.Context, st *domain.ReviewState, action domain.Action, editedText string) error {
	if st == nil || st.Stage != domain.StageDrafted {
		return fmt.Errorf("complete review: state not at gate: %w", domain.ErrContractViolation)
	}
	if !action.Valid() {
		return fmt.Errorf("complete review: action %q: %w", action, domain.ErrContractViolation)
	}

	st.HumanAction = action

	switch action {
	case domain.ActionAccept:
		st.FinalSummary = st.DraftSummary
	case domain.ActionEdit:
		if strings.TrimSpace(editedText) == "" {
			return fmt.Errorf("complete review: edit without replacement text: %w", domain.ErrContractViolation)
		}
		st.FinalSummary = editedText
	case domain.ActionReject:
		st.FinalSummary = ""
		st.Stage = domain.StageDiscarded
	}

	if action == domain.ActionReject {
		s.feedback(ctx, st)
		log.Info().Int64("hotel_id", st.HotelID).Str("action", string(action)).Msg("review discarded")
		return nil
	}

	if err := s.storeReviewed(ctx, st); err != nil {
		return err
	}
	s.feedback(ctx, st)
	log.Info().Int64("hotel_id", st.HotelID).Str("action", string(action)).Msg("review stored")
	return nil
}

// storeReviewed is the single point that stamps completion time. Calling it
// on a rejected state is a contract violation.
func (s *ReviewService) storeReviewed(ctx context.Context, st *domain.ReviewState) error {
	if st.HumanAction != domain.ActionAccept && st.HumanAction != domain.ActionEdit {
		return fmt.Errorf("store on %q state: %w", st.HumanAction, domain.ErrContractViolation)
	}
	st.ReviewTimestamp = s.now()

	var issues []string
	if st.Critique != nil {
		issues = st.Critique.Issues
	}
	rec := domain.ReviewedRecord{
		HotelID:         st.HotelID,
		HotelName:       st.Hotel.Name,
		DraftSummary:    st.DraftSummary,
		FinalSummary:    st.FinalSummary,
		Status:          st.HumanAction,
		ReviewTimestamp: st.ReviewTimestamp,
		CritiqueIssues:  issues,
	}
	if err := s.store.UpsertReviewed(ctx, rec); err != nil {
		return err
	}
	st.Stage = domain.StageStored
	s.invalidateReviewed(ctx, st.HotelID)
	return nil
}

func (s *ReviewService) feedback(ctx context.Context, st *domain.ReviewState) {
	if s.learner == nil {
		return
	}
	if err := s.learner.RecordOutcome(st.HotelID, st.HumanAction, st.DraftSummary, st.FinalSummary); err != nil {
		log.Error().Err(err).Int64("hotel_id", st.HotelID).Msg("record outcome failed")
		return
	}
	s.learner.RecomputeIfDue(ctx)
}

// DeleteReview removes a persisted row so the hotel becomes eligible for a
// fresh ReviewState.
func (s *ReviewService) DeleteReview(ctx context.Context, hotelID int64) error {
	if err := s.store.DeleteReviewed(ctx, hotelID); err != nil {
		return err
	}
	s.invalidateReviewed(ctx, hotelID)
	return nil
}

// Reset wipes every reviewed row and the learned state in one step. The
// store reset runs first; if it fails nothing in memory is cleared, so a
// partial reset is never observable.
func (s *ReviewService) Reset(ctx context.Context) error {
	// Snapshot ids first so their cache entries can be evicted after the wipe.
	rows, err := s.store.ListReviewed(ctx)
	if err != nil {
		return err
	}
	if err := s.store.ResetReviewed(ctx); err != nil {
		return err
	}
	if s.learner != nil {
		s.learner.Reset()
	}
	if s.cache != nil {
		for _, r := range rows {
			_ = s.cache.Del(ctx, fmt.Sprintf("reviewed:%d", r.HotelID))
		}
		_ = s.cache.Del(ctx, progressCacheKey)
	}
	log.Warn().Msg("reviewed store and learned context reset")
	return nil
}

func (s *ReviewService) invalidateReviewed(ctx context.Context, hotelID int64) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, fmt.Sprintf("reviewed:%d", hotelID))
	_ = s.cache.Del(ctx, progressCacheKey)
}
