package types

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Kind identifies the scalar type held by a Value.
type Kind int

const (
	// KindMissing marks an absent value. Absence is always represented
	// by this kind, never by an empty string.
	KindMissing Kind = iota
	KindString
	KindNumber
	KindTime
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindTime:
		return "time"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is an optional scalar cell: a string, a number, a timestamp,
// or missing. The zero Value is missing.
//
// Values are immutable; all transforms produce new values.
type Value struct {
	kind Kind
	str  string
	num  float64
	ts   time.Time
}

// Missing returns the missing value.
func Missing() Value {
	return Value{}
}

// String wraps a string. An empty or whitespace-only string is still a
// present string here: blank-to-missing conversion is an explicit
// pipeline stage, not an implicit constructor behavior.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Number wraps a float64. NaN is coerced to missing since it cannot
// participate in deterministic comparisons.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Missing()
	}
	return Value{kind: KindNumber, num: f}
}

// Time wraps a timestamp.
func Time(t time.Time) Value {
	return Value{kind: KindTime, ts: t}
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether the value is absent.
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// AsString returns the underlying string and whether the value is a string.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// AsNumber returns the underlying number and whether the value is a number.
func (v Value) AsNumber() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// AsTime returns the underlying timestamp and whether the value is a time.
func (v Value) AsTime() (time.Time, bool) {
	return v.ts, v.kind == KindTime
}

// String renders the value for display and for string-keyed operations
// such as concatenate merging. Missing renders as the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindTime:
		return v.ts.Format(time.RFC3339)
	default:
		return ""
	}
}

// Equal reports whether two values have the same kind and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindMissing:
		return true
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num
	case KindTime:
		return v.ts.Equal(o.ts)
	default:
		return false
	}
}

// Key returns a deterministic comparison key for the value, usable as
// a map key for grouping and frequency counting. Distinct kinds never
// collide.
func (v Value) Key() string {
	switch v.kind {
	case KindMissing:
		return "\x00"
	case KindString:
		return "s:" + v.str
	case KindNumber:
		return "n:" + strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindTime:
		return "t:" + v.ts.UTC().Format(time.RFC3339Nano)
	default:
		return ""
	}
}
