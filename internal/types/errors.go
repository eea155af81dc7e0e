package types

import "errors"

// Error taxonomy for the cleaning engine.
//
// MalformedInput covers operations whose required columns are absent.
// Most stages treat it as a skip-with-warning condition; only an
// operation whose sole purpose is the missing column fails with it.
//
// PipelineFailure covers unexpected conditions during any stage. It
// aborts the whole run: the orchestrator returns an empty table and a
// failed report, never a partially processed table.
var (
	ErrMalformedInput  = errors.New("malformed input")
	ErrPipelineFailure = errors.New("pipeline failure")
)
