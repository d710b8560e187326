package exchange

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simnote-app/simnote/pkg/types"
)

func TestMarshalRoundTrip(t *testing.T) {
	entries := []*types.Entry{
		{
			ID:        "1700000000000-aaaa0000",
			Name:      "Trip",
			Content:   "<p>Paris was great</p>",
			Mood:      "happy",
			Tags:      []string{"travel"},
			WordCount: 3,
			CreatedAt: time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC),
			UpdatedAt: time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
		},
	}
	moods := map[string]types.DailyMood{
		"2024-01-15": {Date: "2024-01-15", Mood: "happy", Timestamp: time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)},
	}

	data, err := Marshal(entries, moods)
	require.NoError(t, err)

	doc, ok := Parse(data)
	require.True(t, ok)
	assert.Equal(t, FormatVersion, doc.Version)
	require.Len(t, doc.Entries, 1)
	assert.Equal(t, "Trip", doc.Entries[0].Name)
	assert.Equal(t, []string{"travel"}, doc.Entries[0].Tags)
	require.Len(t, doc.DailyMoods, 1)
	assert.Equal(t, "2024-01-15", doc.DailyMoods[0].Date)
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantOK  bool
	}{
		{"not json", "this is not json", false},
		{"json scalar", `42`, false},
		{"empty object", `{}`, true},
		{"entries wrong type", `{"entries": "nope"}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Parse([]byte(tt.payload))
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestParseSkipsBadEntries(t *testing.T) {
	payload := `{
		"version": 2,
		"entries": [
			{"id": "good-1", "name": "Kept", "updatedAt": "2024-01-15T09:00:00Z"},
			{"id": "bad-1", "updatedAt": "not-a-timestamp"},
			{"name": "missing id"},
			{"id": "good-2", "name": "Also kept"}
		]
	}`

	doc, ok := Parse([]byte(payload))
	require.True(t, ok)
	require.Len(t, doc.Entries, 2)
	assert.Equal(t, "good-1", doc.Entries[0].ID)
	assert.Equal(t, "good-2", doc.Entries[1].ID)
}

func TestParseMoodObjectForms(t *testing.T) {
	t.Run("date-keyed object with samples", func(t *testing.T) {
		payload := `{"dailyMoods": {
			"2024-01-15": {"mood": "happy", "timestamp": "2024-01-15T08:00:00Z"},
			"2024-01-14": {"mood": "calm"}
		}}`
		doc, ok := Parse([]byte(payload))
		require.True(t, ok)
		require.Len(t, doc.DailyMoods, 2)
		assert.Equal(t, "2024-01-14", doc.DailyMoods[0].Date)
		assert.Equal(t, "calm", doc.DailyMoods[0].Mood)
		assert.Equal(t, "2024-01-15", doc.DailyMoods[1].Date)
	})

	t.Run("bare string values", func(t *testing.T) {
		payload := `{"dailyMoods": {"2024-01-15": "happy"}}`
		doc, ok := Parse([]byte(payload))
		require.True(t, ok)
		require.Len(t, doc.DailyMoods, 1)
		assert.Equal(t, "happy", doc.DailyMoods[0].Mood)
		assert.Equal(t, "2024-01-15", doc.DailyMoods[0].Date)
	})
}

func TestShouldReplace(t *testing.T) {
	t1 := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	existing := &types.Entry{ID: "e", UpdatedAt: t1}

	tests := []struct {
		name     string
		existing *types.Entry
		incoming *types.Entry
		want     bool
	}{
		{"absent existing admits anything", nil, &types.Entry{ID: "e"}, true},
		{"older incoming skipped", existing, &types.Entry{ID: "e", UpdatedAt: t1.Add(-time.Hour)}, false},
		{"equal incoming skipped", existing, &types.Entry{ID: "e", UpdatedAt: t1}, false},
		{"newer incoming wins", existing, &types.Entry{ID: "e", UpdatedAt: t1.Add(time.Hour)}, true},
		{"missing updatedAt skipped", existing, &types.Entry{ID: "e"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldReplace(tt.existing, tt.incoming))
		})
	}
}

func TestMarshalEmptyStore(t *testing.T) {
	data, err := Marshal(nil, nil)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.JSONEq(t, `[]`, string(doc["entries"]))
	assert.JSONEq(t, `[]`, string(doc["dailyMoods"]))
}
