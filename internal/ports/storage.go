// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

// MessageCache persists per-file extraction results so unchanged files are
// not re-parsed. Keys are content hashes that already fold in the extraction
// configuration, so a key never maps to stale results.
//
// Crash safety: Put must be transactional. A crash mid-write must not corrupt
// previously committed entries.
type MessageCache interface {
	// Get returns the cached messages for key. ok is false on a miss.
	// A hit with zero messages is valid (file had no translatable strings).
	Get(key string) (msgs []Message, ok bool, err error)

	// Put stores messages under key, overwriting any prior value.
	Put(key string, msgs []Message) error

	// Purge removes every cached entry. Idempotent.
	Purge() error
}

// Message is one extracted translatable message at one source location.
// It is the unit the catalog merges and the cache persists.
type Message struct {
	Context  string   `json:"context,omitempty"`
	ID       string   `json:"id"`
	Plural   string   `json:"plural,omitempty"`
	Comments []string `json:"comments,omitempty"`
	File     string   `json:"file,omitempty"`
	Line     int      `json:"line"`
}
