//go:build !lean

package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/jsgettext/internal/config"
	"github.com/corey/jsgettext/internal/domain/catalog"
	"github.com/corey/jsgettext/internal/domain/status"
	"github.com/corey/jsgettext/internal/ports"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type testApp struct {
	*App
	out *bytes.Buffer
}

// newTestApp builds an App over root. mutate adjusts the default settings.
func newTestApp(t *testing.T, root string, mutate func(*config.Config)) *testApp {
	t.Helper()
	settings := config.DefaultConfig()
	if mutate != nil {
		mutate(settings)
	}
	out := &bytes.Buffer{}
	a, err := New(Config{
		ProjectRoot: root,
		Settings:    settings,
		Stdout:      out,
		Now:         func() time.Time { return testNow },
	})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return &testApp{App: a, out: out}
}

func run(t *testing.T, a *testApp, paths ...string) *Result {
	t.Helper()
	res, err := a.Run(context.Background(), paths)
	require.NoError(t, err)
	return res
}

func TestRun_BuildsCatalog(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/a.js":  "// translators: greeting\n_(\"Hello\");\n",
		"src/b.ts":  "const s: string = _(\"Hello\");\nconst t = _(\"Bye\");\n",
		"README.md": "_(\"not source\")",
	})

	a := newTestApp(t, root, nil)
	res := run(t, a)

	assert.Equal(t, status.Stats{Files: 2, Parsed: 2, Records: 3, Messages: 2}, res.Stats)
	assert.Equal(t, []catalog.Message{
		{
			ID:       "Hello",
			Comments: []string{"greeting"},
			References: []catalog.Reference{
				{File: "src/a.js", Line: 2},
				{File: "src/b.ts", Line: 1},
			},
		},
		{ID: "Bye", References: []catalog.Reference{{File: "src/b.ts", Line: 2}}},
	}, res.Catalog.Messages())

	require.Len(t, res.Files, 2)
	assert.Equal(t, "javascript", res.Files[0].Dialect)
	assert.Equal(t, "typescript", res.Files[1].Dialect)
}

func TestRun_ContextAndPlural(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.js": "pgettext(\"menu\", \"Open\");\nngettext(\"%d file\", \"%d files\", n);\n",
	})

	a := newTestApp(t, root, func(c *config.Config) {
		c.Keywords = []string{"pgettext:1c,2", "ngettext:1,2"}
	})
	res := run(t, a)

	msgs := res.Catalog.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "menu", msgs[0].Context)
	assert.Equal(t, "Open", msgs[0].ID)
	assert.Equal(t, "%d file", msgs[1].ID)
	assert.Equal(t, "%d files", msgs[1].Plural)
	assert.Equal(t, []catalog.Reference{{File: "a.js", Line: 2}}, msgs[1].References)
	assert.True(t, catalog.HasPlurals(msgs))
}

func TestRun_CacheHits(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.js": "_(\"A\");\n",
		"b.js": "_(\"B\");\n",
	})

	a := newTestApp(t, root, nil)
	first := run(t, a)
	assert.Equal(t, 2, first.Stats.Parsed)

	second := run(t, a)
	assert.Equal(t, 0, second.Stats.Parsed)
	assert.Equal(t, 2, second.Stats.Cached)
	assert.Equal(t, first.Catalog.Messages(), second.Catalog.Messages())

	writeTree(t, root, map[string]string{"b.js": "_(\"B2\");\n"})
	third := run(t, a)
	assert.Equal(t, 1, third.Stats.Parsed)
	assert.Equal(t, 1, third.Stats.Cached)
	assert.Equal(t, "B2", third.Catalog.Messages()[1].ID)
}

func TestRun_CachePersistsAcrossApps(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.js": "_(\"A\");\n"})

	a := newTestApp(t, root, nil)
	run(t, a)
	require.NoError(t, a.Close())

	b := newTestApp(t, root, nil)
	assert.Equal(t, 1, run(t, b).Stats.Cached)
	require.NoError(t, b.Close())

	// Different keywords never reuse the old entries.
	c := newTestApp(t, root, func(c *config.Config) { c.Keywords = []string{"_", "gettext"} })
	assert.Equal(t, 1, run(t, c).Stats.Parsed)
}

func TestRun_NoCache(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.js": "_(\"A\");\n"})

	a := newTestApp(t, root, func(c *config.Config) { c.Cache = false })
	run(t, a)
	assert.Equal(t, 1, run(t, a).Stats.Parsed)
	assert.NoDirExists(t, a.Paths.Root)
	require.NoError(t, a.PurgeCache())
}

func TestRun_PurgeCache(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.js": "_(\"A\");\n"})

	a := newTestApp(t, root, nil)
	run(t, a)
	require.NoError(t, a.PurgeCache())
	assert.Equal(t, 1, run(t, a).Stats.Parsed)
}

func TestRun_ParseErrorAborts(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.js":   "_(\"A\");\n",
		"bad.js": "_( \"Hello\" ;\n",
	})

	a := newTestApp(t, root, nil)
	_, err := a.Run(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.js")

	var perr *ports.ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestRun_KeepGoing(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.js":   "_(\"A\");\n",
		"bad.js": "_( \"Hello\" ;\n",
	})

	a := newTestApp(t, root, func(c *config.Config) { c.KeepGoing = true })
	res := run(t, a)
	assert.Equal(t, 1, res.Stats.Failed)
	assert.Equal(t, []string{"bad.js"}, res.Failed)
	assert.Equal(t, 1, res.Stats.Messages)
}

func TestRun_Prefilter(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.js":     "gettext(\"A\");\n",
		"plain.js": "console.log(\"nothing here\");\n",
		// Syntax errors in files without keyword text go unnoticed.
		"broken.js": "console.log(;\n",
	})

	a := newTestApp(t, root, func(c *config.Config) {
		c.Keywords = []string{"gettext"}
		c.Prefilter = true
		c.Cache = false
	})
	res := run(t, a)
	assert.Equal(t, 2, res.Stats.Prefiltered)
	assert.Equal(t, 1, res.Stats.Parsed)
	assert.Equal(t, 1, res.Stats.Messages)
}

func TestRun_Stdin(t *testing.T) {
	root := t.TempDir()
	settings := config.DefaultConfig()
	a, err := New(Config{
		ProjectRoot: root,
		Settings:    settings,
		Stdin:       strings.NewReader("_(\"from stdin\");\n"),
		Now:         func() time.Time { return testNow },
	})
	require.NoError(t, err)
	defer a.Close()

	res, err := a.Run(context.Background(), []string{"-"})
	require.NoError(t, err)
	assert.Equal(t, []catalog.Message{
		{ID: "from stdin", References: []catalog.Reference{{File: "-", Line: 1}}},
	}, res.Catalog.Messages())
	assert.Equal(t, 1, res.Stats.Parsed, "stdin is never cached")
}

func TestRun_ForcedDialect(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"page.vue": "const x: number = 1;\n_(\"Typed\");\n"})

	a := newTestApp(t, root, func(c *config.Config) { c.Dialect = "typescript" })
	res := run(t, a, "page.vue")
	assert.Equal(t, "typescript", res.Files[0].Dialect)
	assert.Equal(t, "Typed", res.Catalog.Messages()[0].ID)
}

func TestRun_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.js": "_(\"A\");\n"})

	a := newTestApp(t, root, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := a.Run(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_WritesStatus(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.js": "_(\"A\"); _(\"B\");\n"})

	a := newTestApp(t, root, nil)
	run(t, a)

	sd, err := status.ReadJSON(a.Paths.Status)
	require.NoError(t, err)
	assert.Equal(t, 2, sd.Messages)
	assert.Equal(t, []string{"a.js"}, sd.TopFiles)
	assert.Equal(t, "po", sd.Format)
}

func TestNew_Errors(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorContains(t, err, "project root required")

	root := t.TempDir()
	bad := config.DefaultConfig()
	bad.Keywords = []string{"ngettext:1,x"}
	_, err = New(Config{ProjectRoot: root, Settings: bad})
	assert.ErrorContains(t, err, "config")

	dialect := config.DefaultConfig()
	dialect.Dialect = "coffeescript"
	dialect.Cache = false
	_, err = New(Config{ProjectRoot: root, Settings: dialect})
	assert.ErrorContains(t, err, "unknown dialect")
}

func TestNew_CacheLocked(t *testing.T) {
	root := t.TempDir()
	newTestApp(t, root, nil)

	_, err := New(Config{ProjectRoot: root})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open cache")
}

func TestWrite_PO(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.js": "// translators: greeting\n_(\"Hello\");\n"})

	a := newTestApp(t, root, func(c *config.Config) {
		c.Package.Name = "demo"
		c.Package.Version = "1.0"
	})
	require.NoError(t, a.WriteOutput(run(t, a)))

	out := a.out.String()
	assert.Contains(t, out, "\"Project-Id-Version: demo 1.0\\n\"")
	assert.Contains(t, out, "\"POT-Creation-Date: 2026-03-01 12:00+0000\\n\"")
	assert.Contains(t, out, "#. greeting\n#: a.js:2\nmsgid \"Hello\"\nmsgstr \"\"\n")
}

func TestWrite_JSON(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.js": "_(\"Hello\");\n"})

	a := newTestApp(t, root, func(c *config.Config) { c.Format = config.FormatJSON })
	require.NoError(t, a.WriteOutput(run(t, a)))

	var got []catalog.Message
	require.NoError(t, json.Unmarshal(a.out.Bytes(), &got))
	assert.Equal(t, []catalog.Message{
		{ID: "Hello", References: []catalog.Reference{{File: "a.js", Line: 1}}},
	}, got)
}

func TestWrite_Records(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.js": "_(\"Hello\");\nngettext(\"one\", \"many\", n);\n",
	})

	a := newTestApp(t, root, func(c *config.Config) {
		c.Format = config.FormatRecords
		c.Keywords = []string{"_", "ngettext:1,2"}
	})
	res := run(t, a)
	require.NoError(t, a.WriteOutput(res))
	assert.NoDirExists(t, a.Paths.Root, "records format bypasses the cache")

	var got []struct {
		File    string           `json:"file"`
		Records []map[string]any `json:"records"`
	}
	require.NoError(t, json.Unmarshal(a.out.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "a.js", got[0].File)
	require.Len(t, got[0].Records, 2)
	assert.Equal(t, "Hello", got[0].Records[0]["string"])
	assert.Equal(t, "one", got[0].Records[1]["id"])
	assert.Equal(t, "many", got[0].Records[1]["plural"])
}

func TestWriteOutput_File(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.js": "_(\"Hello\");\n"})

	a := newTestApp(t, root, func(c *config.Config) { c.Output = "locale/messages.pot" })
	require.NoError(t, a.WriteOutput(run(t, a)))

	data, err := os.ReadFile(filepath.Join(root, "locale", "messages.pot"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "msgid \"Hello\"")
	assert.Empty(t, a.out.String())
	assert.NoFileExists(t, filepath.Join(root, "locale", "messages.pot.tmp"))
}
