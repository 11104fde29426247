// Package extract finds translatable strings in JavaScript-family source.
//
// An Extractor parses source through a ports.SourceParser, finds calls to
// registered keyword functions (default "_"), and turns each call into
// records through the keyword's Transform. Translator comments on the call's
// line or the line above are attached to the records.
//
//	x, _ := extract.New(parser, extract.Config{})
//	recs, err := x.Extract([]byte(`_("Hello World!"); // translators: greeting`))
//	// recs == []Record{{String: "Hello World!", Comment: "greeting", Line: 1}}
package extract

import (
	"errors"
	"regexp"

	"github.com/corey/jsgettext/internal/ports"
)

// Config is the engine configuration. The zero value selects the defaults.
type Config struct {
	// Keywords maps function names to a Transform or an argument number.
	// Nil means DefaultKeywords.
	Keywords map[string]any
	// CommentPrefix is a regular expression matched case-insensitively at the
	// start of each comment. Empty means DefaultCommentPrefix.
	CommentPrefix string
	// DisableComments turns comment collection off entirely.
	DisableComments bool
}

// Extractor is a configured extraction engine. It holds no per-call state;
// Extract may be called repeatedly and concurrently.
type Extractor struct {
	parser   ports.SourceParser
	registry *Registry
	prefix   *regexp.Regexp // nil when comments are disabled
}

// New validates cfg and builds an Extractor.
func New(parser ports.SourceParser, cfg Config) (*Extractor, error) {
	if parser == nil {
		return nil, errors.New("extract: nil parser")
	}

	keywords := cfg.Keywords
	if keywords == nil {
		keywords = DefaultKeywords()
	}
	reg, err := NewRegistry(keywords)
	if err != nil {
		return nil, err
	}

	x := &Extractor{parser: parser, registry: reg}
	if !cfg.DisableComments {
		prefix := cfg.CommentPrefix
		if prefix == "" {
			prefix = DefaultCommentPrefix
		}
		if x.prefix, err = compilePrefix(prefix); err != nil {
			return nil, err
		}
	}
	return x, nil
}

// Keywords returns the registered keyword names, sorted.
func (x *Extractor) Keywords() []string {
	return x.registry.Names()
}

// Matches parses source and returns the keyword calls found, before any
// transform runs.
func (x *Extractor) Matches(source []byte) ([]Match, error) {
	root, comments, err := parseSource(x.parser, source, x.prefix)
	if err != nil {
		return nil, err
	}
	return discover(root, comments, x.registry), nil
}

// Extract returns the records for every keyword call in source, in match
// order. A parse error or transform error fails the whole call.
func (x *Extractor) Extract(source []byte) ([]Record, error) {
	matches, err := x.Matches(source)
	if err != nil {
		return nil, err
	}
	return apply(matches, x.registry)
}
