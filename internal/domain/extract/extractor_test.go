package extract

import (
	"errors"
	"strings"
	"testing"

	"github.com/corey/jsgettext/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Extraction engine: discovery, comment association, transform normalization
// Trees are built by hand and served through fakeParser, so these tests pin the
// engine's behavior independently of the tree-sitter adapter.
// =============================================================================

type fakeParser struct {
	root     ports.Node
	comments []ports.Comment
	err      error
	calls    int
}

func (f *fakeParser) Parse(_ []byte, onComment func(ports.Comment)) (ports.Node, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if onComment != nil {
		for _, c := range f.comments {
			onComment(c)
		}
	}
	return f.root, nil
}

func at(line, col int) ports.Position { return ports.Position{Line: line, Column: col} }

func ident(line int, name string) *ports.Ident {
	return &ports.Ident{Position: at(line, 0), Name: name}
}

func str(line int, v string) *ports.StringLit {
	return &ports.StringLit{Position: at(line, 0), Value: v, Raw: `"` + v + `"`}
}

func call(line int, callee ports.Node, args ...ports.Node) *ports.Call {
	return &ports.Call{Position: at(line, 0), Callee: callee, Args: args}
}

func seq(exprs ...ports.Node) *ports.Sequence {
	return &ports.Sequence{Position: exprs[0].Pos(), Exprs: exprs}
}

func program(body ...ports.Node) ports.Node {
	return &ports.Other{Position: at(1, 0), Type: "program", Kids: body}
}

func lineComment(line int, text string) ports.Comment {
	return ports.Comment{Text: text, Line: line}
}

func newExtractor(t *testing.T, p ports.SourceParser, cfg Config) *Extractor {
	t.Helper()
	x, err := New(p, cfg)
	require.NoError(t, err)
	return x
}

func TestExtract_SingleCall(t *testing.T) {
	// _( "Hello World!" );
	p := &fakeParser{root: program(call(1, ident(1, "_"), str(1, "Hello World!")))}
	x := newExtractor(t, p, Config{})

	recs, err := x.Extract(nil)
	require.NoError(t, err)
	assert.Equal(t, []Record{{String: "Hello World!", Line: 1}}, recs)
}

func TestExtract_TrailingComment(t *testing.T) {
	// _( "Hello World!" ); /* translators: greeting */
	p := &fakeParser{
		root:     program(call(1, ident(1, "_"), str(1, "Hello World!"))),
		comments: []ports.Comment{{Text: " translators: greeting ", Line: 1, Block: true}},
	}
	x := newExtractor(t, p, Config{})

	recs, err := x.Extract(nil)
	require.NoError(t, err)
	assert.Equal(t, []Record{{String: "Hello World!", Comment: "greeting", Line: 1}}, recs)
}

func TestExtract_CommentOnPreviousLine(t *testing.T) {
	// /* translators: greeting */
	// _( "Hello World!" );
	p := &fakeParser{
		root:     program(call(2, ident(2, "_"), str(2, "Hello World!"))),
		comments: []ports.Comment{{Text: " translators: greeting ", Line: 1, Block: true}},
	}
	x := newExtractor(t, p, Config{})

	recs, err := x.Extract(nil)
	require.NoError(t, err)
	assert.Equal(t, []Record{{String: "Hello World!", Comment: "greeting", Line: 2}}, recs)
}

func TestExtract_CommentTooFarAway(t *testing.T) {
	p := &fakeParser{
		root:     program(call(3, ident(3, "_"), str(3, "x"))),
		comments: []ports.Comment{lineComment(1, " translators: far")},
	}
	x := newExtractor(t, p, Config{})

	recs, err := x.Extract(nil)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Empty(t, recs[0].Comment)
}

func TestExtract_CommentWithoutPrefixIgnored(t *testing.T) {
	p := &fakeParser{
		root:     program(call(1, ident(1, "_"), str(1, "x"))),
		comments: []ports.Comment{lineComment(1, " just a note")},
	}
	x := newExtractor(t, p, Config{})

	recs, err := x.Extract(nil)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Empty(t, recs[0].Comment)
}

func TestExtract_CommentPrefixCaseInsensitive(t *testing.T) {
	p := &fakeParser{
		root:     program(call(1, ident(1, "_"), str(1, "x"))),
		comments: []ports.Comment{lineComment(1, "   TRANSLATORS:   shout  ")},
	}
	x := newExtractor(t, p, Config{})

	recs, err := x.Extract(nil)
	require.NoError(t, err)
	assert.Equal(t, "shout", recs[0].Comment)
}

func TestExtract_CustomCommentPrefix(t *testing.T) {
	p := &fakeParser{
		root: program(call(1, ident(1, "_"), str(1, "x"))),
		comments: []ports.Comment{
			lineComment(1, " translators: default"),
			lineComment(1, " i18n: custom"),
		},
	}
	x := newExtractor(t, p, Config{CommentPrefix: "i18n:"})

	recs, err := x.Extract(nil)
	require.NoError(t, err)
	assert.Equal(t, "custom", recs[0].Comment)
}

func TestExtract_MatchAllCommentPrefix(t *testing.T) {
	// An empty group matches every comment and strips nothing.
	p := &fakeParser{
		root:     program(call(1, ident(1, "_"), str(1, "x"))),
		comments: []ports.Comment{lineComment(1, " any note at all ")},
	}
	x := newExtractor(t, p, Config{CommentPrefix: "()"})

	recs, err := x.Extract(nil)
	require.NoError(t, err)
	assert.Equal(t, "any note at all", recs[0].Comment)
}

func TestExtract_CommentsDisabled(t *testing.T) {
	p := &fakeParser{
		root:     program(call(1, ident(1, "_"), str(1, "x"))),
		comments: []ports.Comment{lineComment(1, " translators: greeting")},
	}
	x := newExtractor(t, p, Config{DisableComments: true})

	recs, err := x.Extract(nil)
	require.NoError(t, err)
	assert.Empty(t, recs[0].Comment)
}

func TestExtract_SameLineCommentBeatsPreviousLine(t *testing.T) {
	p := &fakeParser{
		root: program(call(2, ident(2, "_"), str(2, "x"))),
		comments: []ports.Comment{
			lineComment(2, " translators: same line"),
			lineComment(1, " translators: above"),
		},
	}
	x := newExtractor(t, p, Config{})

	recs, err := x.Extract(nil)
	require.NoError(t, err)
	assert.Equal(t, "same line", recs[0].Comment)
}

func TestExtract_LastCommentOnLineWins(t *testing.T) {
	p := &fakeParser{
		root: program(call(1, ident(1, "_"), str(1, "x"))),
		comments: []ports.Comment{
			lineComment(1, " translators: first"),
			lineComment(1, " translators: second"),
		},
	}
	x := newExtractor(t, p, Config{})

	recs, err := x.Extract(nil)
	require.NoError(t, err)
	assert.Equal(t, "second", recs[0].Comment)
}

func TestExtract_SequenceUnwrapping(t *testing.T) {
	// fn("x"); (0, fn)("x"); (0, (0, fn))("x");
	zero := func(line int) ports.Node { return &ports.Other{Position: at(line, 0), Type: "number"} }
	p := &fakeParser{root: program(
		call(1, ident(1, "_"), str(1, "x")),
		call(2, seq(zero(2), ident(2, "_")), str(2, "x")),
		call(3, seq(zero(3), seq(zero(3), ident(3, "_"))), str(3, "x")),
	)}
	x := newExtractor(t, p, Config{})

	recs, err := x.Extract(nil)
	require.NoError(t, err)
	assert.Equal(t, []Record{
		{String: "x", Line: 1},
		{String: "x", Line: 2},
		{String: "x", Line: 3},
	}, recs)
}

func TestExtract_MemberCallee(t *testing.T) {
	// i18n._("x"); i18n["_"]("y"); obj[_]("z")
	member := &ports.Member{Position: at(1, 0), Object: ident(1, "i18n"), Property: ident(1, "_")}
	computedStr := &ports.Member{Position: at(2, 0), Object: ident(2, "i18n"), Property: str(2, "_"), Computed: true}
	computedIdent := &ports.Member{Position: at(3, 0), Object: ident(3, "obj"), Property: ident(3, "_"), Computed: true}
	p := &fakeParser{root: program(
		call(1, member, str(1, "x")),
		call(2, computedStr, str(2, "y")),
		call(3, computedIdent, str(3, "z")),
	)}
	x := newExtractor(t, p, Config{})

	recs, err := x.Extract(nil)
	require.NoError(t, err)
	assert.Equal(t, []Record{{String: "x", Line: 1}}, recs)
}

func TestExtract_UnresolvableCalleeSkipped(t *testing.T) {
	// (() => _)()("x") - callee is itself a call
	inner := call(1, &ports.Other{Position: at(1, 0), Type: "arrow_function"})
	p := &fakeParser{root: program(call(1, inner, str(1, "x")))}
	x := newExtractor(t, p, Config{})

	recs, err := x.Extract(nil)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestExtract_NestedCallsPostOrder(t *testing.T) {
	// _( _( "inner" ) ) with a transform that records every match
	var seen []string
	keywords := map[string]any{
		"_": func(m Match) (Result, error) {
			if lit, ok := m.Arguments[0].(*ports.StringLit); ok {
				seen = append(seen, lit.Value)
				return String(lit.Value), nil
			}
			seen = append(seen, "<call>")
			return Empty{}, nil
		},
	}
	inner := call(1, ident(1, "_"), str(1, "inner"))
	p := &fakeParser{root: program(call(1, ident(1, "_"), inner))}
	x := newExtractor(t, p, Config{Keywords: keywords})

	recs, err := x.Extract(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"inner", "<call>"}, seen)
	assert.Equal(t, []Record{{String: "inner", Line: 1}}, recs)
}

func TestExtract_CallsInsideUnregisteredCalls(t *testing.T) {
	// console.log(_("x"), foo(_("y")))
	log := &ports.Member{Position: at(1, 0), Object: ident(1, "console"), Property: ident(1, "log")}
	p := &fakeParser{root: program(
		call(1, log, call(1, ident(1, "_"), str(1, "x")), call(1, ident(1, "foo"), call(2, ident(2, "_"), str(2, "y")))),
	)}
	x := newExtractor(t, p, Config{})

	recs, err := x.Extract(nil)
	require.NoError(t, err)
	assert.Equal(t, []Record{{String: "x", Line: 1}, {String: "y", Line: 2}}, recs)
}

func TestExtract_NumericKeyword(t *testing.T) {
	// _( null, "Hello World!" ); with {"_": 2}
	null := &ports.Other{Position: at(1, 0), Type: "null"}
	p := &fakeParser{root: program(call(1, ident(1, "_"), null, str(1, "Hello World!")))}
	x := newExtractor(t, p, Config{Keywords: map[string]any{"_": 2}})

	recs, err := x.Extract(nil)
	require.NoError(t, err)
	assert.Equal(t, []Record{{String: "Hello World!", Line: 1}}, recs)
}

func TestExtract_NumericKeywordMissingOrNonLiteral(t *testing.T) {
	tmpl := &ports.Other{Position: at(2, 0), Type: "template_string"}
	p := &fakeParser{root: program(
		call(1, ident(1, "_"), str(1, "only one")),
		call(2, ident(2, "_"), str(2, "a"), tmpl),
		call(3, ident(3, "_"), str(3, "a"), ident(3, "variable")),
	)}
	x := newExtractor(t, p, Config{Keywords: map[string]any{"_": 2}})

	recs, err := x.Extract(nil)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestExtract_CustomTransformContext(t *testing.T) {
	// _x( "Hello World!", "greeting" ); joined as context\x04message
	keywords := map[string]any{
		"_x": Transform(func(m Match) (Result, error) {
			msg, _ := m.Arguments[0].(*ports.StringLit)
			ctx, _ := m.Arguments[1].(*ports.StringLit)
			return String(ctx.Value + "\u0004" + msg.Value), nil
		}),
	}
	p := &fakeParser{root: program(call(1, ident(1, "_x"), str(1, "Hello World!"), str(1, "greeting")))}
	x := newExtractor(t, p, Config{Keywords: keywords})

	recs, err := x.Extract(nil)
	require.NoError(t, err)
	assert.Equal(t, []Record{{String: "greeting\u0004Hello World!", Line: 1}}, recs)
}

func TestExtract_RawRecordPassesThrough(t *testing.T) {
	type custom struct {
		Msg  string `json:"msg"`
		Kind string `json:"kind"`
	}
	keywords := map[string]any{
		"_": func(m Match) (Result, error) {
			return RawRecord{Value: custom{Msg: "hi", Kind: "raw"}}, nil
		},
	}
	p := &fakeParser{
		root:     program(call(4, ident(4, "_"), str(4, "x"))),
		comments: []ports.Comment{lineComment(4, " translators: ignored")},
	}
	x := newExtractor(t, p, Config{Keywords: keywords})

	recs, err := x.Extract(nil)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.True(t, recs[0].IsRaw())
	assert.Equal(t, custom{Msg: "hi", Kind: "raw"}, recs[0].Raw)
	assert.Zero(t, recs[0].Line)
	assert.Empty(t, recs[0].Comment)
}

func TestExtract_StringListAndFalsyFiltering(t *testing.T) {
	results := map[string]Result{
		"many":  StringList{"a", "", "b"},
		"empty": String(""),
		"none":  Empty{},
		"nil":   nil,
		"raw0":  RawRecord{},
	}
	keywords := map[string]any{}
	var body []ports.Node
	line := 1
	for _, name := range []string{"many", "empty", "none", "nil", "raw0"} {
		res := results[name]
		keywords[name] = func(Match) (Result, error) { return res, nil }
		body = append(body, call(line, ident(line, name)))
		line++
	}
	p := &fakeParser{root: program(body...)}
	x := newExtractor(t, p, Config{Keywords: keywords})

	recs, err := x.Extract(nil)
	require.NoError(t, err)
	assert.Equal(t, []Record{{String: "a", Line: 1}, {String: "b", Line: 1}}, recs)
}

func TestExtract_TransformCalledOncePerMatch(t *testing.T) {
	count := 0
	keywords := map[string]any{"_": func(Match) (Result, error) { count++; return Empty{}, nil }}
	p := &fakeParser{root: program(
		call(1, ident(1, "_")),
		call(2, ident(2, "_")),
		call(3, ident(3, "other")),
	)}
	x := newExtractor(t, p, Config{Keywords: keywords})

	_, err := x.Extract(nil)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestExtract_TransformErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	keywords := map[string]any{"_": func(m Match) (Result, error) {
		calls++
		if m.Line == 2 {
			return nil, boom
		}
		return String("ok"), nil
	}}
	p := &fakeParser{root: program(
		call(1, ident(1, "_")),
		call(2, ident(2, "_")),
		call(3, ident(3, "_")),
	)}
	x := newExtractor(t, p, Config{Keywords: keywords})

	recs, err := x.Extract(nil)
	require.Error(t, err)
	assert.Nil(t, recs)
	assert.ErrorIs(t, err, boom)

	var terr *TransformError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "_", terr.Keyword)
	assert.Equal(t, 2, terr.Line)
	assert.Equal(t, 2, calls, "no transform runs after a failure")
}

func TestExtract_ParseErrorPropagates(t *testing.T) {
	perr := &ports.ParseError{Message: "unexpected token", Line: 1, Column: 4}
	x := newExtractor(t, &fakeParser{err: perr}, Config{})

	recs, err := x.Extract([]byte("_( ;"))
	require.Error(t, err)
	assert.Nil(t, recs)

	var got *ports.ParseError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, 1, got.Line)
	assert.Equal(t, 4, got.Column)
}

func TestExtract_Idempotent(t *testing.T) {
	p := &fakeParser{
		root:     program(call(2, ident(2, "_"), str(2, "x")), call(5, ident(5, "_"), str(5, "y"))),
		comments: []ports.Comment{lineComment(1, " translators: first")},
	}
	x := newExtractor(t, p, Config{})

	first, err := x.Extract(nil)
	require.NoError(t, err)
	second, err := x.Extract(nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 2, p.calls)
}

func TestMatches_CarriesPositionAndArguments(t *testing.T) {
	arg := str(7, "x")
	c := &ports.Call{Position: at(7, 12), Callee: ident(7, "_"), Args: []ports.Node{arg}}
	p := &fakeParser{root: program(c)}
	x := newExtractor(t, p, Config{})

	matches, err := x.Matches(nil)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "_", matches[0].Keyword)
	assert.Equal(t, 7, matches[0].Line)
	assert.Equal(t, 12, matches[0].Column)
	assert.Same(t, arg, matches[0].Arguments[0].(*ports.StringLit))
}

func TestNew_Errors(t *testing.T) {
	_, err := New(nil, Config{})
	assert.Error(t, err)

	_, err = New(&fakeParser{}, Config{Keywords: map[string]any{"_": "one"}})
	var cerr *ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "_", cerr.Key)

	_, err = New(&fakeParser{}, Config{Keywords: map[string]any{"_": 0}})
	require.ErrorAs(t, err, &cerr)

	_, err = New(&fakeParser{}, Config{CommentPrefix: "("})
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "comment_prefix", cerr.Key)
	assert.True(t, strings.Contains(cerr.Error(), "comment_prefix"))
}

func TestRecord_MarshalJSON(t *testing.T) {
	b, err := Record{String: "Hello", Line: 3, Comment: "greeting"}.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"string":"Hello","comment":"greeting","line":3}`, string(b))

	b, err = Record{String: "Hello", Line: 3}.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"string":"Hello","line":3}`, string(b))

	b, err = Record{Raw: map[string]int{"n": 1}}.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":1}`, string(b))
}
