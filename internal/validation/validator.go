package validation

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/steveyegge/scour/internal/types"
)

// Rule names used as keys in the report's removal and flag counts.
const (
	RuleEmail      = "invalid_email"
	RulePhone      = "invalid_phone"
	RuleRequired   = "missing_required"
	RulePostalCode = "invalid_postal_code"
	RuleFutureDate = "future_date"
	RuleAgeRange   = "age_out_of_range"
	RuleNegative   = "negative_amount"
)

// Status tracks a validation run's lifecycle.
type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
)

// Config controls a validation run. The zero value is usable: defaults
// are applied by New.
type Config struct {
	// Region is the phone-number region (ISO 3166-1 alpha-2).
	// Default: "US".
	Region string

	// PostalRegion restricts postal-code formats: "US", "CA", or ""
	// to accept either. Default: accept either.
	PostalRegion string

	// RequiredFields are hard-required columns. Default: name, email.
	RequiredFields []string

	// Now supplies the validation timestamp for date sanity checks.
	// Default: time.Now. Injectable for tests.
	Now func() time.Time

	// Logger receives stage-level warnings. Default: slog.Default().
	Logger *slog.Logger
}

// Report is the outcome of one validation run. It never aliases the
// validated table; rows are counted, not referenced.
type Report struct {
	RunID  string `json:"run_id"`
	Status Status `json:"status"`

	// Errors describe hard-rule removals; Warnings describe soft-rule
	// flags and skipped stages. Warnings never affect rows.
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`

	// Removed counts rows removed per hard rule.
	Removed map[string]int `json:"removed"`
	// Flagged counts rows flagged per soft rule.
	Flagged map[string]int `json:"flagged"`
	// MissingRequired counts removals per required field.
	MissingRequired map[string]int `json:"missing_required"`

	InitialCount int `json:"initial_count"`
	FinalCount   int `json:"final_count"`
	RemovedRows  int `json:"removed_rows"`
}

// Validate checks the report's accounting invariants.
func (r *Report) Validate() error {
	if r.RemovedRows != r.InitialCount-r.FinalCount {
		return fmt.Errorf("removed_rows (%d) != initial (%d) - final (%d)",
			r.RemovedRows, r.InitialCount, r.FinalCount)
	}
	total := 0
	for _, n := range r.Removed {
		total += n
	}
	if total != r.RemovedRows {
		return fmt.Errorf("per-rule removals sum to %d, want %d", total, r.RemovedRows)
	}
	return nil
}

// Validator runs the rule stages over a table. A Validator is created
// per run; Status reports where the run is in its lifecycle.
type Validator struct {
	cfg    Config
	status Status
	logger *slog.Logger
}

// New creates a validator with defaults applied.
func New(cfg Config) *Validator {
	if cfg.Region == "" {
		cfg.Region = "US"
	}
	if len(cfg.RequiredFields) == 0 {
		cfg.RequiredFields = []string{"name", "email"}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{cfg: cfg, status: StatusPending, logger: logger}
}

// Status returns the run state.
func (v *Validator) Status() Status { return v.status }

// Run executes all stages in order and returns the filtered table and
// report. The input table is not modified. A panic in any stage is
// converted to a failed status with the cause recorded, so a corrupt
// input shape can never yield a partially validated table.
func (v *Validator) Run(tbl *types.Table) (out *types.Table, report *Report, err error) {
	report = &Report{
		RunID:           uuid.New().String(),
		Status:          StatusRunning,
		Removed:         make(map[string]int),
		Flagged:         make(map[string]int),
		MissingRequired: make(map[string]int),
		InitialCount:    tbl.Len(),
	}
	v.status = StatusRunning

	defer func() {
		if r := recover(); r != nil {
			v.status = StatusFailed
			report.Status = StatusFailed
			err = fmt.Errorf("validation stage panicked: %v: %w", r, types.ErrPipelineFailure)
			out = nil
		}
	}()

	cur := tbl
	cur = v.validateEmails(cur, report)
	cur = v.validatePhones(cur, report)
	cur = v.checkRequiredFields(cur, report)
	v.validateDates(cur, report)
	cur = v.validatePostalCodes(cur, report)
	v.checkValueRanges(cur, report)

	report.FinalCount = cur.Len()
	report.RemovedRows = report.InitialCount - report.FinalCount
	report.Status = StatusPassed
	v.status = StatusPassed
	return cur.Clone(), report, nil
}

// removeFailing filters the table with pred, records the removal under
// rule, and appends a report error when rows were dropped. Removal is
// permanent for the run: later stages only ever see the survivors.
func (v *Validator) removeFailing(tbl *types.Table, report *Report, rule, message string, pred func(types.Row) bool) *types.Table {
	keep := make([]int, 0, tbl.Len())
	for i, row := range tbl.Rows {
		if pred(row) {
			keep = append(keep, i)
		}
	}
	removed := tbl.Len() - len(keep)
	if removed == 0 {
		return tbl
	}
	report.Removed[rule] += removed
	msg := fmt.Sprintf("Removed %d rows with %s", removed, message)
	report.Errors = append(report.Errors, msg)
	v.logger.Info(msg, "rule", rule)
	return tbl.Select(keep)
}

func (v *Validator) validateEmails(tbl *types.Table, report *Report) *types.Table {
	idx := tbl.ColumnIndex("email")
	if idx < 0 {
		v.warn(report, "No email column found")
		return tbl
	}
	return v.removeFailing(tbl, report, RuleEmail, "invalid email addresses", func(row types.Row) bool {
		s, ok := row[idx].AsString()
		return ok && ValidEmail(s)
	})
}

func (v *Validator) validatePhones(tbl *types.Table, report *Report) *types.Table {
	idx := tbl.ColumnIndex("phone")
	if idx < 0 {
		v.warn(report, "No phone column found")
		return tbl
	}
	return v.removeFailing(tbl, report, RulePhone, "invalid phone numbers", func(row types.Row) bool {
		if row[idx].IsMissing() {
			return false
		}
		return PlausiblePhone(row[idx].String(), v.cfg.Region)
	})
}

func (v *Validator) checkRequiredFields(tbl *types.Table, report *Report) *types.Table {
	cur := tbl
	for _, field := range v.cfg.RequiredFields {
		idx := cur.ColumnIndex(field)
		if idx < 0 {
			v.warn(report, fmt.Sprintf("Required field %s not found in data", field))
			continue
		}
		before := cur.Len()
		cur = v.removeFailing(cur, report, RuleRequired, fmt.Sprintf("missing %s values", field), func(row types.Row) bool {
			return !row[idx].IsMissing()
		})
		if removed := before - cur.Len(); removed > 0 {
			report.MissingRequired[field] += removed
		}
	}
	return cur
}

func (v *Validator) validateDates(tbl *types.Table, report *Report) {
	now := v.cfg.Now()
	for colIdx, col := range tbl.Columns {
		if !strings.Contains(strings.ToLower(col), "date") {
			continue
		}
		count := 0
		for _, row := range tbl.Rows {
			if ts, ok := row[colIdx].AsTime(); ok && ts.After(now) {
				count++
			}
		}
		if count > 0 {
			report.Flagged[RuleFutureDate] += count
			v.warn(report, fmt.Sprintf("Found %d rows with future dates in %s", count, col))
		}
	}
}

func (v *Validator) validatePostalCodes(tbl *types.Table, report *Report) *types.Table {
	idx := tbl.ColumnIndex("postal_code")
	if idx < 0 {
		return tbl
	}
	return v.removeFailing(tbl, report, RulePostalCode, "invalid postal codes", func(row types.Row) bool {
		if row[idx].IsMissing() {
			return false
		}
		return ValidPostalCode(row[idx].String(), v.cfg.PostalRegion)
	})
}

func (v *Validator) checkValueRanges(tbl *types.Table, report *Report) {
	for colIdx, col := range tbl.Columns {
		lower := strings.ToLower(col)
		isAge := strings.Contains(lower, "age") && !strings.Contains(lower, "average")
		isAmount := strings.Contains(lower, "amount") || strings.Contains(lower, "price")
		if !isAge && !isAmount {
			continue
		}
		ageCount, negCount := 0, 0
		for _, row := range tbl.Rows {
			n, ok := row[colIdx].AsNumber()
			if !ok {
				continue
			}
			if isAge && (n < 0 || n > 120) {
				ageCount++
			}
			if isAmount && n < 0 {
				negCount++
			}
		}
		if ageCount > 0 {
			report.Flagged[RuleAgeRange] += ageCount
			v.warn(report, fmt.Sprintf("Found %d rows with invalid age values in %s", ageCount, col))
		}
		if negCount > 0 {
			report.Flagged[RuleNegative] += negCount
			v.warn(report, fmt.Sprintf("Found %d rows with negative values in %s", negCount, col))
		}
	}
}

func (v *Validator) warn(report *Report, msg string) {
	report.Warnings = append(report.Warnings, msg)
	v.logger.Warn(msg)
}
