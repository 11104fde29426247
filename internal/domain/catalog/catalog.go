// Package catalog merges extracted messages from many files into one
// translation catalog. Messages are keyed by (context, msgid); duplicates
// accumulate source references and translator comments. Order is first-seen,
// which matches xgettext's default output order.
package catalog

import (
	"strings"

	"github.com/corey/jsgettext/internal/domain/extract"
	"github.com/corey/jsgettext/internal/ports"
)

// Reference is one source location of a message.
type Reference struct {
	File string `json:"file"`
	Line int    `json:"line"`
}

// Message is a merged catalog entry.
type Message struct {
	Context    string      `json:"context,omitempty"`
	ID         string      `json:"id"`
	Plural     string      `json:"plural,omitempty"`
	Comments   []string    `json:"comments,omitempty"`
	References []Reference `json:"references"`
}

type key struct {
	context, id string
}

// Catalog accumulates messages. Not safe for concurrent use; the runner
// feeds it from a single goroutine in discovery order.
type Catalog struct {
	index    map[key]int
	messages []Message
	refs     map[key]map[Reference]bool
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		index: make(map[key]int),
		refs:  make(map[key]map[Reference]bool),
	}
}

// Add merges messages into the catalog. A later occurrence adds its
// reference and any new comments; the first plural form seen wins.
func (c *Catalog) Add(msgs ...ports.Message) {
	for _, m := range msgs {
		if m.ID == "" {
			continue // msgid "" is reserved for the PO header
		}
		k := key{m.Context, m.ID}
		i, ok := c.index[k]
		if !ok {
			i = len(c.messages)
			c.index[k] = i
			c.messages = append(c.messages, Message{Context: m.Context, ID: m.ID})
			c.refs[k] = make(map[Reference]bool)
		}
		entry := &c.messages[i]

		if entry.Plural == "" {
			entry.Plural = m.Plural
		}
		for _, comment := range m.Comments {
			entry.Comments = appendUnique(entry.Comments, comment)
		}
		if m.File != "" || m.Line > 0 {
			ref := Reference{File: m.File, Line: m.Line}
			if !c.refs[k][ref] {
				c.refs[k][ref] = true
				entry.References = append(entry.References, ref)
			}
		}
	}
}

// Messages returns the merged entries in first-seen order.
func (c *Catalog) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of distinct messages.
func (c *Catalog) Len() int {
	return len(c.messages)
}

// HasPlurals reports whether any message has a plural form.
func HasPlurals(msgs []Message) bool {
	for _, m := range msgs {
		if m.Plural != "" {
			return true
		}
	}
	return false
}

// FromRecords converts one file's extraction records into messages.
// A normalized record's string may carry a context as "ctx\x04id".
// Raw records are accepted when they hold a ports.Message; other raw
// shapes cannot be placed in a catalog and are counted in skipped.
func FromRecords(file string, records []extract.Record) (msgs []ports.Message, skipped int) {
	msgs = make([]ports.Message, 0, len(records))
	for _, r := range records {
		var m ports.Message
		switch raw := r.Raw.(type) {
		case nil:
			m = ports.Message{Line: r.Line}
			m.Context, m.ID = splitContext(r.String)
			if r.Comment != "" {
				m.Comments = []string{r.Comment}
			}
		case ports.Message:
			m = raw
		case *ports.Message:
			if raw == nil {
				skipped++
				continue
			}
			m = *raw
		default:
			skipped++
			continue
		}
		if m.ID == "" {
			skipped++
			continue
		}
		if m.File == "" {
			m.File = file
		}
		msgs = append(msgs, m)
	}
	return msgs, skipped
}

// splitContext splits "ctx\x04id" at the first separator. Without a
// separator the whole string is the id.
func splitContext(s string) (ctx, id string) {
	if before, after, ok := strings.Cut(s, extract.ContextSeparator); ok {
		return before, after
	}
	return "", s
}

func appendUnique(list []string, s string) []string {
	if s == "" {
		return list
	}
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}
