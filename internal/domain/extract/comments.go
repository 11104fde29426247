package extract

import (
	"regexp"
	"strings"

	"github.com/corey/jsgettext/internal/ports"
)

// DefaultCommentPrefix marks comments meant for translators.
const DefaultCommentPrefix = "translators:"

// TranslatorComment is a prefix-matched comment with the prefix stripped.
type TranslatorComment struct {
	Text string
	Line int
}

// compilePrefix builds the case-insensitive line-start matcher. The prefix is
// a regular expression source, so "translators?:" is a valid setting.
func compilePrefix(prefix string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(`(?i)^\s*(?:` + prefix + `)`)
	if err != nil {
		return nil, &ConfigurationError{Key: "comment_prefix", Reason: err.Error()}
	}
	return re, nil
}

// parseSource runs the parser, collecting translator comments when prefix is
// set. Comments and tree are scoped to this call.
func parseSource(p ports.SourceParser, source []byte, prefix *regexp.Regexp) (ports.Node, []TranslatorComment, error) {
	var comments []TranslatorComment
	var hook func(ports.Comment)
	if prefix != nil {
		hook = func(c ports.Comment) {
			if !prefix.MatchString(c.Text) {
				return
			}
			text := strings.TrimSpace(prefix.ReplaceAllString(c.Text, ""))
			comments = append(comments, TranslatorComment{Text: text, Line: c.Line})
		}
	}

	root, err := p.Parse(source, hook)
	if err != nil {
		return nil, nil, err
	}
	return root, comments, nil
}

// commentFor picks the translator comment for a call starting on line.
// Candidates sit on the same line or the line directly above; a same-line
// comment wins over one above, and among comments on the same line the last
// one in source order wins.
func commentFor(comments []TranslatorComment, line int) string {
	best := -1
	for i, c := range comments {
		if c.Line != line && c.Line != line-1 {
			continue
		}
		if best < 0 || c.Line >= comments[best].Line {
			best = i
		}
	}
	if best < 0 {
		return ""
	}
	return comments[best].Text
}
