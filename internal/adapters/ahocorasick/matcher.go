// Package ahocorasick provides multi-pattern string matching using an Aho-Corasick automaton.
// It wraps the petar-dambovaliev/aho-corasick library for O(n + m + z) matching.
package ahocorasick

import (
	"errors"
	"sync"

	aho "github.com/petar-dambovaliev/aho-corasick"

	"github.com/corey/jsgettext/internal/ports"
)

// Matcher implements ports.KeywordFilter: one pass over raw source tells
// whether any keyword name occurs in it. Build may run while other
// goroutines call Contains.
type Matcher struct {
	mu        sync.RWMutex
	automaton aho.AhoCorasick
	keywords  []string
	built     bool
}

var _ ports.KeywordFilter = (*Matcher)(nil)

// NewMatcher builds a matcher for the given keywords.
func NewMatcher(keywords []string) (*Matcher, error) {
	m := &Matcher{}
	if err := m.Build(keywords); err != nil {
		return nil, err
	}
	return m, nil
}

// Build compiles the Aho-Corasick automaton from the given keywords,
// replacing any previous set.
func (m *Matcher) Build(keywords []string) error {
	if len(keywords) == 0 {
		return errors.New("ahocorasick: no keywords")
	}
	for _, kw := range keywords {
		if kw == "" {
			return errors.New("ahocorasick: empty keyword")
		}
	}
	kws := make([]string, len(keywords))
	copy(kws, keywords)

	builder := aho.NewAhoCorasickBuilder(aho.Opts{
		DFA: true,
	})
	automaton := builder.Build(kws)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.automaton = automaton
	m.keywords = kws
	m.built = true
	return nil
}

// Contains reports whether any keyword occurs in source. An unbuilt matcher
// reports true so it never hides a file.
func (m *Matcher) Contains(source []byte) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.built {
		return true
	}
	iter := m.automaton.IterOverlappingByte(source)
	return iter.Next() != nil
}

// Match returns the distinct keywords found in source, in order of first
// occurrence.
func (m *Matcher) Match(source []byte) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.built {
		return nil
	}

	seen := make(map[int]bool, len(m.keywords))
	var result []string
	iter := m.automaton.IterOverlappingByte(source)
	for next := iter.Next(); next != nil; next = iter.Next() {
		idx := next.Pattern()
		if !seen[idx] {
			seen[idx] = true
			result = append(result, m.keywords[idx])
		}
	}
	return result
}

// Keywords returns the current keyword set.
func (m *Matcher) Keywords() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.keywords))
	copy(out, m.keywords)
	return out
}
