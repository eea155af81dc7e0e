package pipeline

import (
	"fmt"

	"github.com/steveyegge/scour/internal/validation"
)

// Status is a run's terminal state.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Report aggregates the outcome of one cleaning run.
//
// Warnings are informational and affect no rows. The removal counters
// each describe rows dropped by one stage; on a successful run they
// reconcile with the row counts (see Validate).
type Report struct {
	RunID string `json:"run_id"`

	OriginalCount int `json:"original_count"`

	ExactDuplicatesRemoved int `json:"exact_duplicates_removed"`
	FuzzyDuplicatesRemoved int `json:"fuzzy_duplicates_removed"`
	TotalDuplicatesRemoved int `json:"total_duplicates_removed"`

	InvalidEmailsRemoved      int            `json:"invalid_emails_removed"`
	InvalidPhonesRemoved      int            `json:"invalid_phones_removed"`
	InvalidSegmentsRemoved    int            `json:"invalid_segments_removed"`
	InvalidPostalCodesRemoved int            `json:"invalid_postal_codes_removed"`
	MissingRequired           map[string]int `json:"missing_required_fields"`

	RowsRemovedDuringValidation int `json:"rows_removed_during_validation"`

	CleanedCount int `json:"cleaned_count"`
	RowsRemoved  int `json:"rows_removed"`

	Status Status `json:"cleaning_status"`
	// Error carries the failure cause when Status is StatusFailed.
	Error string `json:"error,omitempty"`

	Warnings []string `json:"warnings,omitempty"`

	// Validation is the detailed sub-report from the validator stage.
	Validation *validation.Report `json:"validation,omitempty"`
}

// Validate checks the report's accounting invariants for a successful
// run: all per-stage removals must sum to the total rows removed.
func (r *Report) Validate() error {
	if r.Status != StatusSuccess {
		return nil
	}
	if r.RowsRemoved != r.OriginalCount-r.CleanedCount {
		return fmt.Errorf("rows_removed (%d) != original (%d) - cleaned (%d)",
			r.RowsRemoved, r.OriginalCount, r.CleanedCount)
	}
	if r.TotalDuplicatesRemoved != r.ExactDuplicatesRemoved+r.FuzzyDuplicatesRemoved {
		return fmt.Errorf("total_duplicates_removed (%d) != exact (%d) + fuzzy (%d)",
			r.TotalDuplicatesRemoved, r.ExactDuplicatesRemoved, r.FuzzyDuplicatesRemoved)
	}
	perStage := r.TotalDuplicatesRemoved + r.RowsRemovedDuringValidation
	if perStage != r.RowsRemoved {
		return fmt.Errorf("per-stage removals sum to %d, want %d", perStage, r.RowsRemoved)
	}
	return nil
}
