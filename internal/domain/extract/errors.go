package extract

import "fmt"

// ConfigurationError reports a malformed keyword or comment-prefix setting,
// detected when the Extractor is constructed.
type ConfigurationError struct {
	Key    string // keyword name, or "comment_prefix"
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration for %q: %s", e.Key, e.Reason)
}

// TransformError wraps an error returned by a keyword's Transform. It aborts
// the whole Extract call; no partial results are returned.
type TransformError struct {
	Keyword string
	Line    int
	Err     error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("transform %q at line %d: %v", e.Keyword, e.Line, e.Err)
}

func (e *TransformError) Unwrap() error { return e.Err }
