// Package exchange implements the bulk export/import JSON document shared by
// every storage backend, including the last-write-wins merge rule.
package exchange

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/simnote-app/simnote/pkg/types"
)

// FormatVersion is the current bulk export format.
const FormatVersion = 2

// Document is the bulk export payload.
type Document struct {
	Version    int               `json:"version"`
	ExportedAt time.Time         `json:"exportedAt"`
	Entries    []*types.Entry    `json:"entries"`
	DailyMoods []types.DailyMood `json:"dailyMoods"`
}

// rawDocument defers entry and mood decoding so one malformed record skips
// that record instead of failing the whole import.
type rawDocument struct {
	Version    int               `json:"version"`
	Entries    []json.RawMessage `json:"entries"`
	DailyMoods json.RawMessage   `json:"dailyMoods"`
}

// Marshal builds the export document for the given store contents.
func Marshal(entries []*types.Entry, moods map[string]types.DailyMood) ([]byte, error) {
	doc := Document{
		Version:    FormatVersion,
		ExportedAt: time.Now().UTC(),
		Entries:    entries,
		DailyMoods: make([]types.DailyMood, 0, len(moods)),
	}
	if doc.Entries == nil {
		doc.Entries = []*types.Entry{}
	}
	for _, m := range moods {
		doc.DailyMoods = append(doc.DailyMoods, m)
	}
	sortMoods(doc.DailyMoods)
	return json.MarshalIndent(doc, "", "  ")
}

// Parse decodes a bulk export document. Individually malformed entries are
// dropped. DailyMoods is accepted either as an array or, for older exports,
// as an object keyed by date; both normalize to the array form. A payload
// that is not a JSON object at all returns ok=false.
func Parse(data []byte) (*Document, bool) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, false
	}

	doc := &Document{Version: raw.Version}
	for _, rec := range raw.Entries {
		var e types.Entry
		if err := json.Unmarshal(rec, &e); err != nil {
			continue
		}
		if e.ID == "" {
			continue
		}
		if e.Tags == nil {
			e.Tags = []string{}
		}
		doc.Entries = append(doc.Entries, &e)
	}
	doc.DailyMoods = parseMoods(raw.DailyMoods)
	return doc, true
}

// ShouldReplace applies the last-write-wins rule: the incoming entry wins
// only when its updatedAt is present and strictly newer than the existing
// entry's. An absent existing entry always admits the incoming one.
func ShouldReplace(existing, incoming *types.Entry) bool {
	if existing == nil {
		return true
	}
	if incoming.UpdatedAt.IsZero() {
		return false
	}
	return incoming.UpdatedAt.After(existing.UpdatedAt)
}

// parseMoods normalizes the two accepted dailyMoods shapes.
func parseMoods(raw json.RawMessage) []types.DailyMood {
	if len(raw) == 0 {
		return nil
	}

	var asList []json.RawMessage
	if err := json.Unmarshal(raw, &asList); err == nil {
		var moods []types.DailyMood
		for _, rec := range asList {
			var m types.DailyMood
			if err := json.Unmarshal(rec, &m); err != nil || m.Date == "" {
				continue
			}
			moods = append(moods, m)
		}
		return moods
	}

	// Legacy object form: {"2024-01-15": {"mood": "happy", ...}, ...} with
	// the date carried by the key rather than the value.
	var asMap map[string]json.RawMessage
	if err := json.Unmarshal(raw, &asMap); err != nil {
		return nil
	}
	var moods []types.DailyMood
	for date, rec := range asMap {
		var m types.DailyMood
		if err := json.Unmarshal(rec, &m); err != nil {
			// Oldest exports stored a bare mood string per date.
			var mood string
			if err := json.Unmarshal(rec, &mood); err != nil {
				continue
			}
			m = types.DailyMood{Mood: mood}
		}
		m.Date = date
		moods = append(moods, m)
	}
	sortMoods(moods)
	return moods
}

func sortMoods(moods []types.DailyMood) {
	sort.Slice(moods, func(i, j int) bool { return moods[i].Date < moods[j].Date })
}
