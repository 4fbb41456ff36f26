package domain

import "errors"

var (
	// ErrNotFound: requested hotel or reviewed row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrContractViolation: a stage was invoked out of order or with
	// inputs its preconditions forbid. The core fails loudly here.
	ErrContractViolation = errors.New("contract violation")

	// ErrGenerationFailed: the external text-generation call errored.
	// Never retried or papered over inside the pipeline.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrAlreadyReviewed: a draft was requested for a hotel that still
	// has a persisted reviewed row; re-review must delete it first.
	ErrAlreadyReviewed = errors.New("hotel already reviewed")
)
