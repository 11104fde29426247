// Package status generates the run summary for jsgettext.
//
// Every extraction run writes a JSON summary to .jsgettext/status.json so
// editors and CI scripts can show what the last run found without parsing
// the catalog itself.
package status

import (
	"encoding/json"
	"os"
	"sort"
	"time"
)

// StatusFile is the filename within the .jsgettext directory where status JSON is written.
const StatusFile = "status.json"

// Stats counts what one run did.
type Stats struct {
	Files       int `json:"files"`       // sources discovered
	Parsed      int `json:"parsed"`      // sources parsed this run
	Cached      int `json:"cached"`      // sources served from the cache
	Prefiltered int `json:"prefiltered"` // sources skipped by the keyword prefilter
	Failed      int `json:"failed"`      // sources skipped after a parse error
	Records     int `json:"records"`     // messages extracted before merging
	Dropped     int `json:"dropped"`     // raw records that could not be cataloged
	Messages    int `json:"messages"`    // distinct catalog entries
}

// StatusData is the JSON payload written after a run.
type StatusData struct {
	Stats
	Format     string    `json:"format"`
	TopFiles   []string  `json:"top_files"`
	FailedList []string  `json:"failed_files,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	Finished   time.Time `json:"finished"`
}

// Generate produces a StatusData from run counters. perFile maps each
// source to the number of messages it contributed.
func Generate(stats Stats, format string, perFile map[string]int, failed []string, took time.Duration, finished time.Time) *StatusData {
	sd := &StatusData{
		Stats:      stats,
		Format:     format,
		TopFiles:   topFiles(perFile, 3),
		DurationMS: took.Milliseconds(),
		Finished:   finished.UTC(),
	}
	if len(failed) > 0 {
		sd.FailedList = append([]string(nil), failed...)
		sort.Strings(sd.FailedList)
	}
	return sd
}

// WriteJSON writes the status data as JSON to a file.
func WriteJSON(path string, data *StatusData) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// ReadJSON loads a status file written by WriteJSON.
func ReadJSON(path string) (*StatusData, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sd StatusData
	if err := json.Unmarshal(b, &sd); err != nil {
		return nil, err
	}
	return &sd, nil
}

// topFiles returns the top N files sorted by message count descending.
func topFiles(perFile map[string]int, n int) []string {
	if len(perFile) == 0 {
		return nil
	}

	type fc struct {
		name  string
		count int
	}

	var files []fc
	for name, c := range perFile {
		if c > 0 {
			files = append(files, fc{name, c})
		}
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].count != files[j].count {
			return files[i].count > files[j].count
		}
		return files[i].name < files[j].name
	})

	limit := n
	if limit > len(files) {
		limit = len(files)
	}

	result := make([]string, limit)
	for i := 0; i < limit; i++ {
		result[i] = files[i].name
	}
	return result
}
