package po

import (
	"encoding/json"
	"io"

	"github.com/corey/jsgettext/internal/domain/catalog"
	"github.com/corey/jsgettext/internal/domain/extract"
)

// FileRecords is one file's raw engine output.
type FileRecords struct {
	File    string           `json:"file"`
	Records []extract.Record `json:"records"`
}

// WriteJSON writes the merged catalog as an indented JSON array.
func WriteJSON(w io.Writer, msgs []catalog.Message) error {
	if msgs == nil {
		msgs = []catalog.Message{}
	}
	return encode(w, msgs)
}

// WriteRecords writes engine records per file. Pass-through records are
// emitted exactly as their transforms produced them.
func WriteRecords(w io.Writer, files []FileRecords) error {
	if files == nil {
		files = []FileRecords{}
	}
	for i := range files {
		if files[i].Records == nil {
			files[i].Records = []extract.Record{}
		}
	}
	return encode(w, files)
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
