package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/vidnote/pkg/core"
	"github.com/aretw0/vidnote/pkg/query"
)

func fixture() []core.Note {
	return []core.Note{
		{ID: "1", SourceURL: "https://www.youtube.com/watch?v=aaaaaaaaaaa", Content: "Intro to Go channels", Tags: []string{"a", "b"}},
		{ID: "2", SourceURL: "https://youtu.be/bbbbbbbbbbb", Content: "Cooking pasta", Tags: []string{"food"}},
		{ID: "3", SourceURL: "https://www.youtube.com/embed/ccccccccccc", Content: "GO generics deep dive", Tags: nil},
	}
}

func ids(notes []core.Note) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.ID)
	}
	return out
}

func TestFilter_EmptyMatchesAll(t *testing.T) {
	notes := fixture()
	got := query.Filter(notes, "", nil)
	assert.Equal(t, notes, got)

	// Deterministic across calls.
	assert.Equal(t, got, query.Filter(notes, "", []string{}))
}

func TestFilter_Search(t *testing.T) {
	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{"Case Insensitive", "go", []string{"1", "3"}},
		{"Substring", "pasta", []string{"2"}},
		{"No Match", "rust", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(query.Filter(fixture(), tt.search, nil)))
		})
	}
}

func TestFilter_TagsAnyOf(t *testing.T) {
	notes := fixture()

	assert.Equal(t, []string{"1"}, ids(query.Filter(notes, "", []string{"b", "z"})))
	assert.Equal(t, []string{"1", "2"}, ids(query.Filter(notes, "", []string{"food", "a"})))
	assert.Empty(t, query.Filter(notes, "", []string{"z"}))

	// Both conditions must hold.
	assert.Empty(t, query.Filter(notes, "pasta", []string{"a"}))
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	notes := fixture()
	_ = query.Filter(notes, "pasta", nil)
	assert.Equal(t, fixture(), notes)
}

func TestAvailableTags(t *testing.T) {
	notes := append(fixture(), core.Note{ID: "4", Tags: []string{"food", "c"}})
	assert.Equal(t, []string{"a", "b", "food", "c"}, query.AvailableTags(notes))
	assert.Empty(t, query.AvailableTags(nil))
}

func TestApply_SourceGlob(t *testing.T) {
	notes := fixture()

	got, err := query.Apply(notes, query.Criteria{Source: "https://youtu.be/*"})
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, ids(got))

	got, err = query.Apply(notes, query.Criteria{Search: "go", Source: "https://www.youtube.com/**"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3"}, ids(got))

	got, err = query.Apply(notes, query.Criteria{})
	require.NoError(t, err)
	assert.Equal(t, notes, got)

	_, err = query.Apply(notes, query.Criteria{Source: "https://[youtu.be"})
	assert.Error(t, err)
}
