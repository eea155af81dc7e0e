// Package validation applies field-level business rules to a record
// table.
//
// # Stages
//
// A validation run executes a fixed stage order:
//
//  1. Email syntax (hard)
//  2. Phone plausibility for the configured region (hard)
//  3. Required-field presence (hard, configurable, default name+email)
//  4. Date sanity: future dates flagged (soft)
//  5. Postal-code format, US and Canadian (hard)
//  6. Numeric range sanity: age and amount/price fields (soft)
//
// Hard rules remove failing rows permanently for the run; soft rules
// only record warnings. A stage whose column is absent from the table
// is skipped with a warning, never an error.
//
// # Run semantics
//
// Each run moves pending -> running -> passed or failed. The input
// table is never mutated: Run returns a new filtered table plus a
// Report whose counts satisfy removed == initial - final.
package validation
