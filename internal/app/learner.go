package app

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"hotel_curator/internal/domain"
)

const patternAnalysisSystemPrompt = "You are an analyst that identifies patterns in text edits."

const guideImprovementSystemPrompt = "You improve style guides based on human feedback patterns."

// FeedbackLearner owns the append-only outcome log and the current
// LearnedContext. Every threshold completed reviews it recomputes the
// context wholesale from the full history. The narrative path (two chained
// generation calls) is optional and degrades to the base guide on any
// failure; it never surfaces an error.
type FeedbackLearner struct {
	mu        sync.Mutex
	records   []domain.FeedbackRecord
	context   domain.LearnedContext
	threshold int
	gen       domain.Generator // nil disables narrative enrichment
}

func NewFeedbackLearner(threshold int, gen domain.Generator) *FeedbackLearner {
	if threshold <= 0 {
		threshold = 5
	}
	return &FeedbackLearner{threshold: threshold, gen: gen}
}

// RecordOutcome appends one completed human decision to the log.
func (l *FeedbackLearner) RecordOutcome(hotelID int64, action domain.Action, originalDraft, finalText string) error {
	if !action.Valid() {
		return fmt.Errorf("record outcome: action %q: %w", action, domain.ErrContractViolation)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, domain.FeedbackRecord{
		HotelID:       hotelID,
		Action:        action,
		OriginalDraft: originalDraft,
		FinalText:     finalText,
	})
	return nil
}

// Context returns a snapshot of the current LearnedContext.
func (l *FeedbackLearner) Context() domain.LearnedContext {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := domain.LearnedContext{StyleGuide: l.context.StyleGuide}
	out.FewShotExamples = append(out.FewShotExamples, l.context.FewShotExamples...)
	out.ErrorPatterns = append(out.ErrorPatterns, l.context.ErrorPatterns...)
	return out
}

// Completed reports how many outcomes are in the log.
func (l *FeedbackLearner) Completed() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// Reset drops the log and the learned context. Destructive and irreversible.
func (l *FeedbackLearner) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = nil
	l.context = domain.LearnedContext{}
}

// RecomputeIfDue rebuilds the LearnedContext when the completed count is a
// positive multiple of the threshold. The rebuild always reads the entire
// history, not just the newest batch.
func (l *FeedbackLearner) RecomputeIfDue(ctx context.Context) bool {
	l.mu.Lock()
	if len(l.records) == 0 || len(l.records)%l.threshold != 0 {
		l.mu.Unlock()
		return false
	}
	records := append([]domain.FeedbackRecord(nil), l.records...)
	l.mu.Unlock()

	next := recomputeContext(records)

	if l.gen != nil && next.StyleGuide != "" {
		if enriched, ok := l.enrichStyleGuide(ctx, records, next.StyleGuide); ok {
			next.StyleGuide = enriched
		}
	}

	l.mu.Lock()
	l.context = next
	l.mu.Unlock()

	log.Info().
		Int("completed", len(records)).
		Int("examples", len(next.FewShotExamples)).
		Bool("style_guide", next.StyleGuide != "").
		Msg("learned context recomputed")
	return true
}

// recomputeContext derives the base LearnedContext from the full log.
func recomputeContext(records []domain.FeedbackRecord) domain.LearnedContext {
	var accepted []string
	var edits []domain.FeedbackRecord
	rejected := false
	for _, r := range records {
		switch r.Action {
		case domain.ActionAccept:
			accepted = append(accepted, r.FinalText)
		case domain.ActionEdit:
			edits = append(edits, r)
		case domain.ActionReject:
			rejected = true
		}
	}

	var lines []string
	if len(accepted) >= 3 {
		total := 0
		for _, s := range accepted {
			total += len(strings.Fields(s))
		}
		lines = append(lines, fmt.Sprintf("- Preferred length: ~%d words", total/len(accepted)))
	}
	if len(edits) > 0 {
		lines = append(lines,
			"- Prefer concise, direct language",
			"- Emphasize factual scores over descriptions")
	}

	out := domain.LearnedContext{StyleGuide: strings.Join(lines, "\n")}

	// Most recent 3 accepted finals, insertion order preserved.
	start := 0
	if len(accepted) > 3 {
		start = len(accepted) - 3
	}
	for _, s := range accepted[start:] {
		out.FewShotExamples = append(out.FewShotExamples, domain.FewShotExample{Summary: s})
	}

	if rejected {
		out.ErrorPatterns = []string{
			"Rejected summaries had poor structure",
			"Focus on concrete data points",
		}
	}
	return out
}

// enrichStyleGuide runs the optional two-call narrative path: synthesize a
// pattern analysis from up to five edit pairs, then turn that narrative into
// concrete guide additions. Returns ok=false when there is nothing to
// analyze or either call fails; callers keep the base guide in that case.
func (l *FeedbackLearner) enrichStyleGuide(ctx context.Context, records []domain.FeedbackRecord, base string) (string, bool) {
	var edits []domain.FeedbackRecord
	for _, r := range records {
		if r.Action == domain.ActionEdit {
			edits = append(edits, r)
		}
		if len(edits) == 5 {
			break
		}
	}
	if len(edits) == 0 {
		return "", false
	}

	var pairs strings.Builder
	for i, e := range edits {
		fmt.Fprintf(&pairs, "EDIT %d\nORIGINAL: %s\nFINAL: %s\n\n", i+1, e.OriginalDraft, e.FinalText)
	}

	analysisPrompt := fmt.Sprintf(`Analyze these hotel summary edits to identify common patterns in human corrections:

%s
Identify:
1. Common types of factual errors in original drafts
2. Frequent style improvements made by humans
3. Missing elements that humans consistently add
4. Length adjustment patterns

Provide a concise analysis of improvement patterns.`, pairs.String())

	patterns, err := l.gen.Generate(ctx, patternAnalysisSystemPrompt, analysisPrompt)
	if err != nil {
		log.Warn().Err(err).Msg("pattern analysis call failed; keeping base style guide")
		return "", false
	}

	improvementPrompt := fmt.Sprintf(`Based on this pattern analysis of human edits:

%s

Generate specific improvements to add to the hotel summary style guide. Focus on concrete, actionable improvements.`, patterns)

	additions, err := l.gen.Generate(ctx, guideImprovementSystemPrompt, improvementPrompt)
	if err != nil {
		log.Warn().Err(err).Msg("guide improvement call failed; keeping base style guide")
		return "", false
	}

	return base + "\n\nFEEDBACK-BASED IMPROVEMENTS:\n" + strings.TrimSpace(additions), true
}
