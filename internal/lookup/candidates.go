package lookup

import "context"

const (
	// maxCandidateLength bounds how many leading characters of the cursor
	// text are considered for longest-prefix matching.
	maxCandidateLength = 24

	kanjiRangeStart = 0x4E00
	kanjiRangeEnd   = 0x9FFF
)

// generateCandidates produces the surface candidate for substring, plus a
// lemma candidate when the tokenizer's first token yields one distinct
// from the substring itself.
func generateCandidates(ctx context.Context, tokenizer Tokenizer, substring string) ([]Candidate, error) {
	candidates := []Candidate{{Word: substring}}

	tokens, err := tokenizer.Tokenize(ctx, substring)
	if err != nil {
		return nil, err
	}
	if lemma := lemmaOf(tokens); lemma != "" && lemma != substring {
		candidates = append(candidates, Candidate{Word: lemma})
	}
	return candidates, nil
}

// isValidCandidate accepts a candidate equal to its source substring
// unconditionally; any other candidate must share at least one CJK
// ideograph with the source, or it is rejected as an implausible lemma.
func isValidCandidate(source, candidate string) bool {
	if source == candidate {
		return true
	}
	candidateKanji := kanjiSet(candidate)
	sourceKanji := kanjiSet(source)
	for k := range candidateKanji {
		if sourceKanji[k] {
			return true
		}
	}
	return false
}

func kanjiSet(s string) map[rune]bool {
	set := make(map[rune]bool)
	for _, r := range s {
		if isKanji(r) {
			set[r] = true
		}
	}
	return set
}

// isKanji reports whether r falls in the CJK Unified Ideographs block.
func isKanji(r rune) bool {
	return r >= kanjiRangeStart && r <= kanjiRangeEnd
}
