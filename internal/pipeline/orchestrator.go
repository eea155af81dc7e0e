package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/steveyegge/scour/internal/grouping"
	"github.com/steveyegge/scour/internal/merge"
	"github.com/steveyegge/scour/internal/standardize"
	"github.com/steveyegge/scour/internal/types"
	"github.com/steveyegge/scour/internal/validation"
)

// Sentinel filled into missing segment cells during final polish. The
// segment screen accepts it so a cleaned table remains a fixed point
// of the pipeline.
const segmentUnknown = "Unknown"

// Config controls a cleaning run. The zero value is usable; defaults
// are applied by New. Configuration is always supplied by the caller,
// never read from the environment.
type Config struct {
	// ValidSegments enumerates acceptable segment values. Rows with a
	// present segment outside this set are removed. Default:
	// Enterprise, SMB, Mid-Market.
	ValidSegments []string

	// RequiredFields are hard-required columns for validation.
	// Default: name, email.
	RequiredFields []string

	// MergePolicy, when set, collapses each fuzzy duplicate group into
	// a canonical record under the named policy instead of keeping the
	// most complete member. An unrecognized name falls back to
	// first-valid with a warning.
	MergePolicy string

	// PreserveKey is the identity field never merged under a policy;
	// its value always comes from the group's first record.
	// Default: customer_id.
	PreserveKey string

	// Region for phone validation. Default: US.
	Region string

	// PostalRegion restricts postal formats ("US", "CA", or "" for
	// either).
	PostalRegion string

	// Now supplies the run timestamp for date sanity checks.
	Now func() time.Time

	// Logger is the caller-supplied observability sink. Default:
	// slog.Default().
	Logger *slog.Logger
}

// Cleaner orchestrates the cleaning pipeline. Construct with New; a
// Cleaner is stateless across runs and safe to reuse.
type Cleaner struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Cleaner with defaults applied.
func New(cfg Config) *Cleaner {
	if len(cfg.ValidSegments) == 0 {
		cfg.ValidSegments = []string{"Enterprise", "SMB", "Mid-Market"}
	}
	if len(cfg.RequiredFields) == 0 {
		cfg.RequiredFields = []string{"name", "email"}
	}
	if cfg.PreserveKey == "" {
		cfg.PreserveKey = "customer_id"
	}
	if cfg.Region == "" {
		cfg.Region = "US"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{cfg: cfg, logger: logger}
}

// Clean runs the full pipeline over the table and returns the cleaned
// table plus the run report. The input is never mutated.
//
// On any stage failure Clean returns an empty table and a report with
// StatusFailed and the cause; later stages are not applied and no
// partially cleaned table is ever produced.
func (c *Cleaner) Clean(tbl *types.Table) (out *types.Table, report *Report) {
	report = &Report{
		RunID:           uuid.New().String(),
		OriginalCount:   tbl.Len(),
		MissingRequired: make(map[string]int),
	}

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("cleaning failed", "panic", r)
			out, report = c.fail(report, fmt.Errorf("%v: %w", r, types.ErrPipelineFailure))
		}
	}()

	cur, err := standardize.Columns(tbl)
	if err != nil {
		return c.fail(report, err)
	}
	cur = standardize.BlankToMissing(cur)

	cur, err = c.removeExactDuplicates(cur, report)
	if err != nil {
		return c.fail(report, err)
	}

	cur, err = c.removeFuzzyDuplicates(cur, report)
	if err != nil {
		return c.fail(report, err)
	}
	report.TotalDuplicatesRemoved = report.ExactDuplicatesRemoved + report.FuzzyDuplicatesRemoved

	cur = standardize.Formats(cur)

	cur, err = c.validate(cur, report)
	if err != nil {
		return c.fail(report, err)
	}

	cur = c.finalPolish(cur)

	report.CleanedCount = cur.Len()
	report.RowsRemoved = report.OriginalCount - report.CleanedCount
	report.Status = StatusSuccess
	c.logger.Info("cleaning complete",
		"run_id", report.RunID,
		"original", report.OriginalCount,
		"cleaned", report.CleanedCount,
		"removed", report.RowsRemoved)
	return cur, report
}

func (c *Cleaner) fail(report *Report, err error) (*types.Table, *Report) {
	report.Status = StatusFailed
	report.Error = err.Error()
	c.logger.Error("cleaning failed", "run_id", report.RunID, "error", err)
	return &types.Table{}, report
}

func (c *Cleaner) removeExactDuplicates(tbl *types.Table, report *Report) (*types.Table, error) {
	groups, err := grouping.ExactGroups(tbl, nil)
	if err != nil {
		return nil, fmt.Errorf("exact duplicate removal: %w", err)
	}
	keep := make([]int, 0, len(groups))
	for _, g := range groups {
		keep = append(keep, g.Rows[0])
	}
	sort.Ints(keep)
	report.ExactDuplicatesRemoved = tbl.Len() - len(keep)
	return tbl.Select(keep), nil
}

// removeFuzzyDuplicates collapses composite-key duplicate groups. By
// default each group keeps its most complete member (highest
// non-missing field count, earliest on ties). With a merge policy
// configured, each group is instead resolved into a canonical record.
//
// The stage needs name, email, and phone; when any is absent the stage
// is skipped with a warning rather than failing the run.
func (c *Cleaner) removeFuzzyDuplicates(tbl *types.Table, report *Report) (*types.Table, error) {
	groups, err := grouping.FuzzyGroups(tbl)
	if err != nil {
		if errors.Is(err, types.ErrMalformedInput) {
			c.warn(report, "skipping fuzzy duplicate removal: name, email, and phone columns required")
			return tbl, nil
		}
		return nil, fmt.Errorf("fuzzy duplicate removal: %w", err)
	}

	if c.cfg.MergePolicy != "" {
		return c.resolveFuzzyGroups(tbl, groups, report)
	}

	keep := make([]int, 0, len(groups))
	removed := 0
	for _, g := range groups {
		best := g.Rows[0]
		bestScore := tbl.Rows[best].NonMissingCount()
		for _, row := range g.Rows[1:] {
			if score := tbl.Rows[row].NonMissingCount(); score > bestScore {
				best, bestScore = row, score
			}
		}
		keep = append(keep, best)
		removed += len(g.Rows) - 1
	}
	sort.Ints(keep)
	report.FuzzyDuplicatesRemoved = removed
	return tbl.Select(keep), nil
}

// resolveFuzzyGroups merges each multi-member group into one canonical
// record under the configured policy, preserving the identity key from
// each group's first record. Output rows keep the order of each
// group's first occurrence.
func (c *Cleaner) resolveFuzzyGroups(tbl *types.Table, groups []types.CandidateGroup, report *Report) (*types.Table, error) {
	policy, ok := merge.ParsePolicy(c.cfg.MergePolicy)
	if !ok {
		c.warn(report, fmt.Sprintf("unrecognized merge policy %q, defaulting to %s", c.cfg.MergePolicy, merge.PolicyFirstValid))
	}

	recordGroups := make([][]types.Record, len(groups))
	removed := 0
	for i, g := range groups {
		recs := make([]types.Record, len(g.Rows))
		for j, row := range g.Rows {
			recs[j] = tbl.Record(row)
		}
		recordGroups[i] = recs
		removed += len(g.Rows) - 1
	}

	resolved, err := merge.ResolveAll(recordGroups, policy, c.cfg.PreserveKey)
	if err != nil {
		return nil, fmt.Errorf("resolving fuzzy groups: %w", err)
	}

	out := tbl.CloneSchema()
	for _, rec := range resolved {
		out.AppendRow(rec.Values.Clone())
	}
	report.FuzzyDuplicatesRemoved = removed
	return out, nil
}

// validate runs the full rule validator, then screens segment values
// against the configured enumeration. All removal counts fold into the
// pipeline report.
func (c *Cleaner) validate(tbl *types.Table, report *Report) (*types.Table, error) {
	validator := validation.New(validation.Config{
		Region:         c.cfg.Region,
		PostalRegion:   c.cfg.PostalRegion,
		RequiredFields: c.cfg.RequiredFields,
		Now:            c.cfg.Now,
		Logger:         c.logger,
	})
	cur, vr, err := validator.Run(tbl)
	if err != nil {
		return nil, fmt.Errorf("validation: %w", err)
	}
	report.Validation = vr
	report.InvalidEmailsRemoved = vr.Removed[validation.RuleEmail]
	report.InvalidPhonesRemoved = vr.Removed[validation.RulePhone]
	report.InvalidPostalCodesRemoved = vr.Removed[validation.RulePostalCode]
	for field, n := range vr.MissingRequired {
		report.MissingRequired[field] += n
	}
	report.Warnings = append(report.Warnings, vr.Warnings...)

	cur = c.screenSegments(cur, report)
	report.RowsRemovedDuringValidation = vr.RemovedRows + report.InvalidSegmentsRemoved
	return cur, nil
}

// screenSegments removes rows whose segment value is present but
// outside the configured enumeration. Missing segments and the
// Unknown sentinel are allowed.
func (c *Cleaner) screenSegments(tbl *types.Table, report *Report) *types.Table {
	idx := tbl.ColumnIndex("segment")
	if idx < 0 {
		return tbl
	}
	valid := make(map[string]struct{}, len(c.cfg.ValidSegments)+1)
	for _, s := range c.cfg.ValidSegments {
		valid[s] = struct{}{}
	}
	valid[segmentUnknown] = struct{}{}

	keep := make([]int, 0, tbl.Len())
	for i, row := range tbl.Rows {
		if row[idx].IsMissing() {
			keep = append(keep, i)
			continue
		}
		if _, ok := valid[row[idx].String()]; ok {
			keep = append(keep, i)
		}
	}
	if removed := tbl.Len() - len(keep); removed > 0 {
		report.InvalidSegmentsRemoved = removed
		c.logger.Info("removed rows with invalid segments", "count", removed)
	}
	return tbl.Select(keep)
}

// dateLayouts accepted when coercing the last-purchase date column.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
}

// finalPolish fills missing segments with the Unknown sentinel,
// coerces the customer identifier and last-purchase date columns to
// their proper kinds, and stable-sorts by customer identifier when the
// column exists (missing identifiers sort last).
func (c *Cleaner) finalPolish(tbl *types.Table) *types.Table {
	out := tbl.Clone()

	if idx := out.ColumnIndex("segment"); idx >= 0 {
		for _, row := range out.Rows {
			if row[idx].IsMissing() {
				row[idx] = types.String(segmentUnknown)
			}
		}
	}

	idIdx := out.ColumnIndex("customer_id")
	if idIdx >= 0 {
		for _, row := range out.Rows {
			row[idIdx] = coerceNumber(row[idIdx])
		}
	}

	if idx := out.ColumnIndex("last_purchase_date"); idx >= 0 {
		for _, row := range out.Rows {
			row[idx] = coerceTime(row[idx])
		}
	}

	if idIdx >= 0 {
		sort.SliceStable(out.Rows, func(i, j int) bool {
			a, aok := out.Rows[i][idIdx].AsNumber()
			b, bok := out.Rows[j][idIdx].AsNumber()
			if aok != bok {
				return aok // present identifiers sort before missing
			}
			return aok && a < b
		})
	}
	return out
}

func coerceNumber(v types.Value) types.Value {
	switch v.Kind() {
	case types.KindNumber:
		return v
	case types.KindString:
		s, _ := v.AsString()
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return types.Number(n)
		}
		return types.Missing()
	default:
		return types.Missing()
	}
}

func coerceTime(v types.Value) types.Value {
	switch v.Kind() {
	case types.KindTime:
		return v
	case types.KindString:
		s, _ := v.AsString()
		for _, layout := range dateLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return types.Time(ts)
			}
		}
		return types.Missing()
	default:
		return types.Missing()
	}
}

func (c *Cleaner) warn(report *Report, msg string) {
	report.Warnings = append(report.Warnings, msg)
	c.logger.Warn(msg)
}
