// Package app wires the extraction engine to the filesystem: it discovers
// sources, runs extraction on a bounded worker pool with caching, merges the
// results into a catalog and writes the output in the configured format.
package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/corey/jsgettext/internal/adapters/ahocorasick"
	"github.com/corey/jsgettext/internal/adapters/bbolt"
	"github.com/corey/jsgettext/internal/adapters/memcache"
	"github.com/corey/jsgettext/internal/adapters/po"
	"github.com/corey/jsgettext/internal/adapters/treesitter"
	"github.com/corey/jsgettext/internal/config"
	"github.com/corey/jsgettext/internal/domain/catalog"
	"github.com/corey/jsgettext/internal/domain/extract"
	"github.com/corey/jsgettext/internal/domain/status"
	"github.com/corey/jsgettext/internal/ports"
)

// cacheVersion is folded into every cache key. Bump it when extraction
// output changes for the same input.
const cacheVersion = "1"

// Config holds initialization parameters for the App.
type Config struct {
	ProjectRoot string
	Settings    *config.Config     // nil means config.DefaultConfig()
	Parser      *treesitter.Parser // nil means treesitter.NewParser()
	Stdin       io.Reader          // nil means os.Stdin
	Stdout      io.Writer          // nil means os.Stdout
	Now         func() time.Time   // nil means time.Now
}

// App is one configured extraction run environment.
type App struct {
	ProjectRoot string
	Paths       *Paths
	Parser      *treesitter.Parser

	settings    *config.Config
	engine      extract.Config
	fingerprint string
	disc        *discoverer

	store  *bbolt.Store // nil when the disk cache is off
	cache  ports.MessageCache
	filter ports.KeywordFilter

	stdin  io.Reader
	stdout io.Writer
	now    func() time.Time

	mu         sync.Mutex
	extractors map[string]*extract.Extractor // by dialect
}

// FileResult is the outcome of extracting one source.
type FileResult struct {
	Source
	Dialect     string
	Messages    []ports.Message
	Records     []extract.Record // records format only
	Dropped     int              // raw records that could not be cataloged
	Cached      bool
	Prefiltered bool
}

// Result is the outcome of a run.
type Result struct {
	Files   []FileResult
	Catalog *catalog.Catalog
	Stats   status.Stats
	Failed  []string
	Took    time.Duration
}

// New creates an App. The configuration is validated and every keyword spec
// compiled before any file is touched.
func New(cfg Config) (*App, error) {
	if cfg.ProjectRoot == "" {
		return nil, fmt.Errorf("project root required")
	}
	root, err := filepath.Abs(cfg.ProjectRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}

	settings := cfg.Settings
	if settings == nil {
		settings = config.DefaultConfig()
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	engine, err := settings.ExtractConfig()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	parser := cfg.Parser
	if parser == nil {
		parser = treesitter.NewParser()
	}
	grammarPaths := GrammarPaths(root, settings)
	parser.SetGrammarPaths(grammarPaths)
	if err := parser.LoadManifests(grammarPaths); err != nil {
		return nil, fmt.Errorf("load grammar manifests: %w", err)
	}
	if settings.Dialect != "" && !parser.HasDialect(settings.Dialect) {
		return nil, fmt.Errorf("unknown dialect %q (available: %s)", settings.Dialect, strings.Join(parser.Dialects(), ", "))
	}

	a := &App{
		ProjectRoot: root,
		Paths:       NewPaths(root),
		Parser:      parser,
		settings:    settings,
		engine:      engine,
		fingerprint: fingerprint(settings),
		disc:        &discoverer{root: root, include: settings.Include, exclude: settings.Exclude},
		stdin:       cfg.Stdin,
		stdout:      cfg.Stdout,
		now:         cfg.Now,
		extractors:  make(map[string]*extract.Extractor),
	}
	if a.stdin == nil {
		a.stdin = os.Stdin
	}
	if a.stdout == nil {
		a.stdout = os.Stdout
	}
	if a.now == nil {
		a.now = time.Now
	}

	// Surface keyword and comment-prefix errors now rather than per file.
	x, err := a.extractor(a.defaultDialect())
	if err != nil {
		return nil, err
	}

	if settings.Prefilter {
		m, err := ahocorasick.NewMatcher(x.Keywords())
		if err != nil {
			return nil, fmt.Errorf("build prefilter: %w", err)
		}
		a.filter = m
	}

	if settings.Cache && settings.Format != config.FormatRecords {
		if err := a.Paths.EnsureDirs(); err != nil {
			return nil, fmt.Errorf("create %s: %w", a.Paths.Root, err)
		}
		store, err := bbolt.NewStore(a.Paths.DB)
		if err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}
		mem, err := memcache.New(memcache.DefaultSize, store)
		if err != nil {
			store.Close()
			return nil, err
		}
		a.store = store
		a.cache = mem
	}

	return a, nil
}

// Close releases the cache database.
func (a *App) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

// Settings returns the effective configuration.
func (a *App) Settings() *config.Config {
	return a.settings
}

// PurgeCache removes every cached extraction result.
func (a *App) PurgeCache() error {
	if a.cache == nil {
		return nil
	}
	return a.cache.Purge()
}

// Discover expands paths into sources without extracting them.
func (a *App) Discover(paths []string) ([]Source, error) {
	return a.disc.discover(paths)
}

// Accepts reports whether a change to path can affect the catalog.
func (a *App) Accepts(path string) bool {
	return a.disc.accepts(path)
}

// Run discovers sources under paths, extracts them in parallel and merges
// the results in discovery order. A file that fails to parse aborts the run
// unless KeepGoing is set, in which case it is logged and left out.
func (a *App) Run(ctx context.Context, paths []string) (*Result, error) {
	start := a.now()

	srcs, err := a.disc.discover(paths)
	if err != nil {
		return nil, err
	}

	workers := a.settings.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	tasks := newPool(workers, a.extractSource).execute(ctx, srcs)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{
		Files:   make([]FileResult, 0, len(tasks)),
		Catalog: catalog.New(),
	}
	perFile := make(map[string]int, len(tasks))
	res.Stats.Files = len(srcs)

	for _, t := range tasks {
		fr := t.Result
		if t.Err != nil {
			if a.settings.KeepGoing && isSourceError(t.Err) {
				log.Warn().Err(t.Err).Str("file", t.Input.Rel).Msg("Skipping file")
				res.Stats.Failed++
				res.Failed = append(res.Failed, t.Input.Rel)
				continue
			}
			return nil, fmt.Errorf("%s: %w", t.Input.Rel, t.Err)
		}

		switch {
		case fr.Cached:
			res.Stats.Cached++
		case fr.Prefiltered:
			res.Stats.Prefiltered++
		default:
			res.Stats.Parsed++
		}
		res.Stats.Records += len(fr.Messages)
		res.Stats.Dropped += fr.Dropped
		if fr.Dropped > 0 {
			log.Warn().Str("file", fr.Rel).Int("dropped", fr.Dropped).Msg("Raw records left out of the catalog")
		}

		res.Catalog.Add(fr.Messages...)
		perFile[fr.Rel] = len(fr.Messages)
		res.Files = append(res.Files, fr)
	}

	res.Stats.Messages = res.Catalog.Len()
	res.Took = a.now().Sub(start)

	ev := log.Debug().
		Int("files", res.Stats.Files).
		Int("parsed", res.Stats.Parsed).
		Int("cached", res.Stats.Cached).
		Int("messages", res.Stats.Messages)
	if a.store != nil {
		if n, err := a.store.Len(); err == nil {
			ev = ev.Int("cache_entries", n)
		}
	}
	ev.Dur("took", res.Took).Msg("Extraction complete")

	a.writeStatus(res, perFile)
	return res, nil
}

// extractSource reads and extracts one source. It never touches the
// catalog; Run merges results in order afterwards.
func (a *App) extractSource(ctx context.Context, src Source) (FileResult, error) {
	fr := FileResult{Source: src}

	content, err := a.read(src)
	if err != nil {
		return fr, err
	}

	fr.Dialect = a.dialectFor(src)
	records := a.settings.Format == config.FormatRecords
	useCache := a.cache != nil && !records && src.Path != StdinPath

	key := a.cacheKey(src.Rel, fr.Dialect, content)
	if useCache {
		msgs, ok, err := a.cache.Get(key)
		if err != nil {
			log.Warn().Err(err).Str("file", src.Rel).Msg("Cache read failed")
		} else if ok {
			fr.Messages = msgs
			fr.Cached = true
			return fr, nil
		}
	}

	if a.filter != nil && !a.filter.Contains(content) {
		fr.Prefiltered = true
		return fr, nil
	}

	if err := ctx.Err(); err != nil {
		return fr, err
	}

	x, err := a.extractor(fr.Dialect)
	if err != nil {
		return fr, err
	}
	recs, err := x.Extract(content)
	if err != nil {
		return fr, err
	}
	fr.Messages, fr.Dropped = catalog.FromRecords(src.Rel, recs)
	if records {
		fr.Records = recs
	}

	if useCache {
		if err := a.cache.Put(key, fr.Messages); err != nil {
			log.Warn().Err(err).Str("file", src.Rel).Msg("Cache write failed")
		}
	}
	return fr, nil
}

func (a *App) read(src Source) ([]byte, error) {
	if src.Path == StdinPath {
		a.mu.Lock()
		defer a.mu.Unlock()
		b, err := io.ReadAll(a.stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return b, nil
	}
	return os.ReadFile(src.Path)
}

// dialectFor picks the forced dialect, else the one registered for the
// file's extension, else the default.
func (a *App) dialectFor(src Source) string {
	if a.settings.Dialect != "" {
		return a.settings.Dialect
	}
	if src.Path != StdinPath {
		if d := a.Parser.DialectFor(src.Path); d != "" {
			return d
		}
	}
	return treesitter.DefaultDialect
}

func (a *App) defaultDialect() string {
	if a.settings.Dialect != "" {
		return a.settings.Dialect
	}
	return treesitter.DefaultDialect
}

// extractor returns the engine for a dialect, building it on first use.
func (a *App) extractor(dialect string) (*extract.Extractor, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if x, ok := a.extractors[dialect]; ok {
		return x, nil
	}
	p, err := a.Parser.WithDialect(dialect)
	if err != nil {
		return nil, err
	}
	x, err := extract.New(p, a.engine)
	if err != nil {
		return nil, err
	}
	a.extractors[dialect] = x
	return x, nil
}

// cacheKey hashes everything that determines a file's messages.
func (a *App) cacheKey(rel, dialect string, content []byte) string {
	h := sha256.New()
	for _, part := range []string{a.fingerprint, dialect, rel} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

// fingerprint summarizes the settings that change extraction output.
func fingerprint(c *config.Config) string {
	var b strings.Builder
	b.WriteString(cacheVersion)
	b.WriteByte(0)
	b.WriteString(strings.Join(c.Keywords, "\x1f"))
	b.WriteByte(0)
	b.WriteString(c.CommentPrefix)
	b.WriteByte(0)
	if c.NoComments {
		b.WriteString("nocomments")
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:8])
}

// writeStatus records the run summary when the state directory exists.
func (a *App) writeStatus(res *Result, perFile map[string]int) {
	if _, err := os.Stat(a.Paths.Root); err != nil {
		return
	}
	sd := status.Generate(res.Stats, a.settings.Format, perFile, res.Failed, res.Took, a.now())
	if err := status.WriteJSON(a.Paths.Status, sd); err != nil {
		log.Debug().Err(err).Msg("Failed to write status")
	}
}

// isSourceError reports whether err is a problem with one file's content,
// which KeepGoing may skip.
func isSourceError(err error) bool {
	var perr *ports.ParseError
	var terr *extract.TransformError
	return errors.As(err, &perr) || errors.As(err, &terr)
}

// GrammarPaths returns the grammar search paths for a project: configured
// directories first, then the project-local and per-user defaults.
func GrammarPaths(root string, cfg *config.Config) []string {
	return append(absPaths(root, cfg.GrammarPaths), treesitter.DefaultGrammarPaths(root)...)
}

func absPaths(root string, paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(root, p)
		}
		out = append(out, p)
	}
	return out
}

// Write renders res in the configured format.
func (a *App) Write(w io.Writer, res *Result) error {
	switch a.settings.Format {
	case config.FormatJSON:
		return po.WriteJSON(w, res.Catalog.Messages())
	case config.FormatRecords:
		files := make([]po.FileRecords, 0, len(res.Files))
		for _, f := range res.Files {
			files = append(files, po.FileRecords{File: f.Rel, Records: f.Records})
		}
		return po.WriteRecords(w, files)
	default:
		pkg := a.settings.Package
		return po.WritePO(w, res.Catalog.Messages(), po.Header{
			PackageName:    pkg.Name,
			PackageVersion: pkg.Version,
			BugsAddress:    pkg.BugsAddress,
			Created:        a.now(),
		})
	}
}

// WriteOutput writes res to the configured output: stdout for "" or "-",
// else the file, replaced atomically. Relative paths resolve against the
// project root.
func (a *App) WriteOutput(res *Result) error {
	out := a.settings.Output
	if out == "" || out == StdinPath {
		return a.Write(a.stdout, res)
	}
	if !filepath.IsAbs(out) {
		out = filepath.Join(a.ProjectRoot, out)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp := out + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := a.Write(f, res); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write output: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write output: %w", err)
	}
	if err := os.Rename(tmp, out); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write output: %w", err)
	}
	log.Info().Str("file", out).Int("messages", res.Stats.Messages).Msg("Wrote catalog")
	return nil
}
