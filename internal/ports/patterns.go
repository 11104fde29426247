package ports

// KeywordFilter decides, in a single pass over raw source, whether a file can
// contain a keyword call at all. It is a cheap pre-parse check: a false
// positive only costs a parse, a false negative would lose messages, so
// implementations match keyword names as plain substrings.
type KeywordFilter interface {
	// Build replaces the keyword set. Returns an error for an empty set or an
	// empty keyword.
	Build(keywords []string) error

	// Contains reports whether any keyword occurs in source.
	Contains(source []byte) bool
}
