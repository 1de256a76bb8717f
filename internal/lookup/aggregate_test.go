package lookup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFurigana_DegenerateCases(t *testing.T) {
	assert.Equal(t, []FuriganaPart{{Base: "猫"}}, Furigana("猫", ""))
	assert.Equal(t, []FuriganaPart{{Base: "ねこ"}}, Furigana("ねこ", "ねこ"))
}

func TestFurigana_CommonPrefixAndSuffixTrimming(t *testing.T) {
	parts := Furigana("食べる", "たべる")
	assert.Equal(t, []FuriganaPart{
		{Base: "食", Ruby: "た"},
		{Base: "べる"},
	}, parts)
}

func TestFurigana_RootReconstructsHeadwordAndReading(t *testing.T) {
	tests := []struct {
		headword string
		reading  string
	}{
		{"食べる", "たべる"},
		{"お見舞い", "おみまい"},
		{"漢字", "かんじ"},
		{"猫", "ねこ"},
	}
	for _, tt := range tests {
		parts := Furigana(tt.headword, tt.reading)

		var base, ruby string
		for _, p := range parts {
			base += p.Base
			if p.Ruby != "" {
				ruby += p.Ruby
			} else {
				ruby += p.Base
			}
		}
		assert.Equal(t, tt.headword, base)
		assert.Equal(t, tt.reading, ruby)
	}
}

func TestAggregate_GroupsByHeadwordAndReading(t *testing.T) {
	entries := []RecordEntry{
		{
			Term:      Term{Headword: "食べる", Reading: "たべる"},
			SpanChars: Span{End: 3},
			Source:    1,
			Record:    Glossary{Content: []string{"to eat"}, Tags: []Tag{{Name: "v1"}}},
		},
		{
			Term:      Term{Headword: "食べる", Reading: "たべる"},
			SpanChars: Span{End: 3},
			Source:    2,
			Record:    Glossary{Content: []string{"to consume"}},
		},
		{
			Term:      Term{Headword: "食べ", Reading: "たべ"},
			SpanChars: Span{End: 2},
			Source:    1,
			Record:    Glossary{Content: []string{"stem form"}},
		},
	}
	names := map[DictionaryID]string{1: "JMdict", 2: "Custom"}

	results := Aggregate(entries, names)
	require.Len(t, results, 2)

	first := results[0]
	assert.Equal(t, "食べる", first.Headword)
	assert.Equal(t, "たべる", first.Reading)
	assert.Equal(t, 3, first.MatchLen)
	require.Len(t, first.Definitions, 2)
	assert.Equal(t, "JMdict", first.Definitions[0].DictionaryName)
	assert.Equal(t, []string{"v1"}, first.Definitions[0].Tags)
}

func TestAggregate_DeduplicatesIdenticalDefinitions(t *testing.T) {
	entries := []RecordEntry{
		{Term: Term{Headword: "猫"}, Source: 1, Record: Glossary{Content: []string{"cat"}}},
		{Term: Term{Headword: "猫"}, Source: 1, Record: Glossary{Content: []string{"cat"}}},
	}
	results := Aggregate(entries, map[DictionaryID]string{1: "dict"})
	require.Len(t, results, 1)
	assert.Len(t, results[0].Definitions, 1)
}

func TestAggregate_SkipsEmptyHeadword(t *testing.T) {
	entries := []RecordEntry{{Term: Term{Headword: ""}}}
	results := Aggregate(entries, nil)
	assert.Empty(t, results)
}
