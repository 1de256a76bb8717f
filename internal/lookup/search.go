package lookup

import (
	"context"
	"sort"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// termQuerier is the term-store read path Search needs.
type termQuerier interface {
	QueryTerm(ctx context.Context, term string) ([]StoredRecord, error)
}

// Search runs the longest-prefix candidate search described by the lookup
// engine: it treats cursorOffset as a rune offset into the NFKC-normalized
// text (negative offsets count as 0), takes up to maxLen runes from there, and for decreasing substring lengths generates
// and validates surface/lemma candidates against store.
func Search(ctx context.Context, store termQuerier, tokenizer Tokenizer, text string, cursorOffset, maxLen int) ([]RecordEntry, error) {
	if maxLen <= 0 {
		maxLen = maxCandidateLength
	}
	runes := []rune(norm.NFKC.String(text))
	if cursorOffset < 0 {
		cursorOffset = 0
	}
	if cursorOffset >= len(runes) {
		return nil, nil
	}
	window := runes[cursorOffset:]
	if len(window) > maxLen {
		window = window[:maxLen]
	}

	var results []RecordEntry
	processed := make(map[string]bool)

	for length := len(window); length >= 1; length-- {
		substring := string(window[:length])

		candidates, err := generateCandidates(ctx, tokenizer, substring)
		if err != nil {
			return nil, err
		}

		for _, candidate := range candidates {
			if !isValidCandidate(substring, candidate.Word) {
				continue
			}
			if processed[candidate.Word] {
				continue
			}
			processed[candidate.Word] = true

			stored, err := store.QueryTerm(ctx, candidate.Word)
			if err != nil {
				return nil, err
			}
			for _, rec := range stored {
				results = append(results, toRecordEntry(candidate.Word, rec))
			}
		}
	}

	sortEntries(results)
	return results, nil
}

func toRecordEntry(candidateWord string, stored StoredRecord) RecordEntry {
	charCount := utf8.RuneCountInString(candidateWord)
	term := Term{Headword: candidateWord, Reading: stored.Reading}
	return RecordEntry{
		SpanChars: Span{Start: 0, End: uint64(charCount)},
		SpanBytes: Span{Start: 0, End: uint64(len(candidateWord))},
		Source:    stored.DictionaryID,
		Term:      term,
		Record:    stored.Record,
		SortFreq:  stored.Record.Popularity,
	}
}

// sortEntries orders entries by span length descending, then frequency
// descending, stable so equal keys keep their insertion order.
func sortEntries(entries []RecordEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].SpanChars.End != entries[j].SpanChars.End {
			return entries[i].SpanChars.End > entries[j].SpanChars.End
		}
		return entries[i].SortFreq > entries[j].SortFreq
	})
}
