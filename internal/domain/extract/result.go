package extract

import (
	"encoding/json"

	"github.com/corey/jsgettext/internal/ports"
)

// Match is a discovered call to a registered keyword.
type Match struct {
	Keyword string
	// Arguments are the call's positional arguments, shared with the parsed
	// tree. Transforms must treat them as read-only.
	Arguments []ports.Node
	Line      int
	Column    int
	Comment   string // translator comment, "" when none was associated
}

// Transform maps a Match to the value(s) to extract.
type Transform func(Match) (Result, error)

// Result is what a Transform returns: StringList, RawRecord or Empty.
// A nil Result is treated as Empty.
type Result interface {
	result()
}

// StringList is the normal result. Each non-empty entry becomes one Record
// carrying the match's line and comment; empty entries are dropped.
type StringList []string

// RawRecord bypasses normalization: Value is emitted verbatim as the record.
// A nil Value is treated as Empty.
type RawRecord struct {
	Value any
}

// Empty produces no record for the match.
type Empty struct{}

func (StringList) result() {}
func (RawRecord) result()  {}
func (Empty) result()      {}

// String is shorthand for a one-element StringList.
func String(s string) Result { return StringList{s} }

// Record is one extracted entry. Normalized records set String and Line;
// pass-through records set only Raw.
type Record struct {
	String  string `json:"string"`
	Comment string `json:"comment,omitempty"`
	Line    int    `json:"line"`
	Raw     any    `json:"-"`
}

// IsRaw reports whether the record came from a RawRecord result.
func (r Record) IsRaw() bool { return r.Raw != nil }

// MarshalJSON emits Raw verbatim for pass-through records.
func (r Record) MarshalJSON() ([]byte, error) {
	if r.Raw != nil {
		return json.Marshal(r.Raw)
	}
	type plain Record
	return json.Marshal(plain(r))
}
