// Package po writes catalogs as gettext PO templates and as JSON.
package po

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/corey/jsgettext/internal/domain/catalog"
)

// wrapWidth is the column at which reference lines wrap, as xgettext does.
const wrapWidth = 79

// Header holds the values written into the PO header entry.
type Header struct {
	PackageName    string
	PackageVersion string
	BugsAddress    string
	Charset        string // default UTF-8
	Created        time.Time
}

// WritePO writes msgs as a PO template: a header entry, then one entry per
// message with extracted comments, references, and empty translations.
func WritePO(w io.Writer, msgs []catalog.Message, h Header) error {
	bw := bufio.NewWriter(w)
	writeHeader(bw, h, catalog.HasPlurals(msgs))
	for _, m := range msgs {
		bw.WriteString("\n")
		writeEntry(bw, m)
	}
	return bw.Flush()
}

func writeHeader(w *bufio.Writer, h Header, plurals bool) {
	pkg := h.PackageName
	if pkg == "" {
		pkg = "PACKAGE"
	}
	version := h.PackageVersion
	if version == "" {
		version = "VERSION"
	}
	charset := h.Charset
	if charset == "" {
		charset = "UTF-8"
	}
	created := h.Created
	if created.IsZero() {
		created = time.Now()
	}

	fields := []string{
		"Project-Id-Version: " + pkg + " " + version,
		"Report-Msgid-Bugs-To: " + h.BugsAddress,
		"POT-Creation-Date: " + created.Format("2006-01-02 15:04-0700"),
		"PO-Revision-Date: YEAR-MO-DA HO:MI+ZONE",
		"Last-Translator: FULL NAME <EMAIL@ADDRESS>",
		"Language-Team: LANGUAGE <LL@li.org>",
		"Language: ",
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=" + charset,
		"Content-Transfer-Encoding: 8bit",
	}
	if plurals {
		fields = append(fields, "Plural-Forms: nplurals=INTEGER; plural=EXPRESSION;")
	}

	w.WriteString("# SOME DESCRIPTIVE TITLE.\n")
	w.WriteString("# This file is distributed under the same license as the " + pkg + " package.\n")
	w.WriteString("#, fuzzy\n")
	w.WriteString("msgid \"\"\n")
	w.WriteString("msgstr \"\"\n")
	for _, f := range fields {
		w.WriteString(quote(f + "\n"))
		w.WriteString("\n")
	}
}

func writeEntry(w *bufio.Writer, m catalog.Message) {
	for _, c := range m.Comments {
		for _, line := range strings.Split(c, "\n") {
			w.WriteString(strings.TrimRight("#. "+line, " "))
			w.WriteString("\n")
		}
	}
	writeReferences(w, m.References)
	if m.Context != "" {
		writeString(w, "msgctxt", m.Context)
	}
	writeString(w, "msgid", m.ID)
	if m.Plural != "" {
		writeString(w, "msgid_plural", m.Plural)
		writeString(w, "msgstr[0]", "")
		writeString(w, "msgstr[1]", "")
		return
	}
	writeString(w, "msgstr", "")
}

// writeReferences writes "#: file:line" comments, wrapping at wrapWidth.
// A reference without a line is written as the bare file name.
func writeReferences(w *bufio.Writer, refs []catalog.Reference) {
	if len(refs) == 0 {
		return
	}
	line := "#:"
	for _, r := range refs {
		ref := r.File
		if r.Line > 0 {
			ref += ":" + strconv.Itoa(r.Line)
		}
		if line != "#:" && len(line)+1+len(ref) > wrapWidth {
			w.WriteString(line + "\n")
			line = "#:"
		}
		line += " " + ref
	}
	w.WriteString(line + "\n")
}

// writeString writes keyword "value". Values with embedded newlines are
// split after each \n onto continuation lines, led by an empty string.
func writeString(w *bufio.Writer, keyword, s string) {
	parts := splitLines(s)
	if len(parts) <= 1 {
		fmt.Fprintf(w, "%s %s\n", keyword, quote(s))
		return
	}
	fmt.Fprintf(w, "%s \"\"\n", keyword)
	for _, p := range parts {
		w.WriteString(quote(p))
		w.WriteString("\n")
	}
}

// splitLines splits s after each newline, keeping the newline with its
// line. A trailing newline does not produce an empty final part.
func splitLines(s string) []string {
	var parts []string
	for {
		i := strings.IndexByte(s, '\n')
		if i < 0 || i == len(s)-1 {
			break
		}
		parts = append(parts, s[:i+1])
		s = s[i+1:]
	}
	return append(parts, s)
}

// quote escapes s as a C string literal, which is what PO files use.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\a':
			b.WriteString(`\a`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\v':
			b.WriteString(`\v`)
		default:
			if c < 0x20 || c == 0x7f {
				fmt.Fprintf(&b, `\%03o`, c)
				continue
			}
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}
