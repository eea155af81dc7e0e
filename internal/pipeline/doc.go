// Package pipeline sequences the full cleaning run: column
// normalization, blank-to-missing conversion, exact and fuzzy
// duplicate removal, format standardization, validation, and final
// polish, assembling a per-run report.
//
// # Stage order
//
//  1. Normalize column names to canonical field keys
//  2. Convert blank strings to the missing marker
//  3. Remove exact duplicate rows
//  4. Collapse fuzzy duplicates (name/email/phone composite key);
//     skipped with a warning when any of the three columns is absent
//  5. Standardize phone, email, address, and company formats
//  6. Validate (hard and soft rules, plus segment screening)
//  7. Final polish: fill missing segments, coerce identifier and date
//     columns, stable sort by customer identifier
//
// # Failure atomicity
//
// A run either completes or fails as a whole. On any stage failure the
// orchestrator returns an empty table and a report with a failed
// status and the cause; it never passes a partially cleaned table
// downstream. A successful run satisfies count conservation: the final
// count plus all per-stage removals equals the original count, and a
// cleaned table is a fixed point of the pipeline.
package pipeline
