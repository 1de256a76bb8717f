package lookup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTermStore map[string][]StoredRecord

func (f fakeTermStore) QueryTerm(_ context.Context, term string) ([]StoredRecord, error) {
	return f[term], nil
}

func TestSearch_PrefersLongestMatch(t *testing.T) {
	store := fakeTermStore{
		"食べ物": {{DictionaryID: 1, Record: Glossary{Content: []string{"food"}}}},
		"食べ":  {{DictionaryID: 1, Record: Glossary{Content: []string{"stem"}}}},
		"食":   {{DictionaryID: 1, Record: Glossary{Content: []string{"eat (kanji)"}}}},
	}

	results, err := Search(context.Background(), store, NopTokenizer{}, "食べ物です", 0, 0)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "食べ物", results[0].Term.Headword)
	assert.EqualValues(t, 3, results[0].SpanChars.End)
}

func TestSearch_CursorOffsetSkipsLeadingRunes(t *testing.T) {
	store := fakeTermStore{
		"物です": {{DictionaryID: 1, Record: Glossary{Content: []string{"thing"}}}},
	}

	results, err := Search(context.Background(), store, NopTokenizer{}, "食べ物です", 2, 0)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "物です", results[0].Term.Headword)
}

func TestSearch_CursorPastEndReturnsNil(t *testing.T) {
	results, err := Search(context.Background(), fakeTermStore{}, NopTokenizer{}, "猫", 5, 0)
	require.NoError(t, err)
	assert.Nil(t, results)
}

func TestSearch_MaxLenLimitsWindow(t *testing.T) {
	store := fakeTermStore{
		"あいうえ": {{DictionaryID: 1, Record: Glossary{Content: []string{"full"}}}},
		"あい":   {{DictionaryID: 1, Record: Glossary{Content: []string{"partial"}}}},
	}

	results, err := Search(context.Background(), store, NopTokenizer{}, "あいうえお", 0, 2)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "あい", results[0].Term.Headword)
}

func TestSearch_RanksByFrequencyWithinEqualSpan(t *testing.T) {
	store := fakeTermStore{
		"猫": {
			{DictionaryID: 1, Record: Glossary{Content: []string{"low"}, Popularity: 1}},
			{DictionaryID: 2, Record: Glossary{Content: []string{"high"}, Popularity: 10}},
		},
	}

	results, err := Search(context.Background(), store, NopTokenizer{}, "猫", 0, 0)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, []string{"high"}, results[0].Record.Content)
	assert.Equal(t, []string{"low"}, results[1].Record.Content)
}
