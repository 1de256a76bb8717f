package lookup

import "context"

// Tokenizer is the morphological-analysis capability the search engine
// consults for a lemma of a substring's first token. An analyzer that
// can't produce one (or isn't wired at all) should return a Token with a
// nil or too-short Features slice; the caller then degrades to
// surface-only candidates, per the graceful-degradation contract.
type Tokenizer interface {
	Tokenize(ctx context.Context, text string) ([]Token, error)
}

// lemmaFeatureIndex is where a token's dictionary form lives in Features,
// mirroring the feature-vector layout a real morphological analyzer (e.g.
// Lindera/MeCab) produces.
const lemmaFeatureIndex = 7

// NopTokenizer never produces a lemma: with it, every candidate set
// degrades to {surface} alone.
type NopTokenizer struct{}

// Tokenize implements Tokenizer by reporting a single featureless token.
func (NopTokenizer) Tokenize(_ context.Context, text string) ([]Token, error) {
	return []Token{{Surface: text}}, nil
}

// headwordChecker is the minimal term-store capability the built-in
// tokenizer needs: whether a given string is a known dictionary headword.
// Store satisfies this without tokenizer.go importing its concrete type.
type headwordChecker interface {
	HasHeadword(ctx context.Context, term string) (bool, error)
}

// DictionaryFormTokenizer is the built-in, zero-external-dependency
// analyzer: it treats the longest stored headword that is a strict rune
// prefix of the input (and shorter than it) as that input's dictionary
// form. This approximates true conjugation stripping without vendoring a
// morphological analyzer — it recovers stem-preserving lemmas (compound
// and okurigana-trimmed forms already present verbatim in a dictionary)
// but not lemmas produced by ending substitution (e.g. a verb's -ta form
// mapping to its dictionary -ru form), which needs a real analyzer.
type DictionaryFormTokenizer struct {
	store headwordChecker
}

// NewDictionaryFormTokenizer builds a Tokenizer backed by the given term
// store.
func NewDictionaryFormTokenizer(store headwordChecker) *DictionaryFormTokenizer {
	return &DictionaryFormTokenizer{store: store}
}

// Tokenize implements Tokenizer.
func (t *DictionaryFormTokenizer) Tokenize(ctx context.Context, text string) ([]Token, error) {
	runes := []rune(text)
	for length := len(runes) - 1; length > 0; length-- {
		prefix := string(runes[:length])
		ok, err := t.store.HasHeadword(ctx, prefix)
		if err != nil {
			return nil, err
		}
		if ok {
			features := make([]string, lemmaFeatureIndex+1)
			features[lemmaFeatureIndex] = prefix
			return []Token{{Surface: text, Features: features}}, nil
		}
	}
	return []Token{{Surface: text}}, nil
}

// lemmaOf returns the first token's lemma, or "" when the token carries
// no usable feature vector.
func lemmaOf(tokens []Token) string {
	if len(tokens) == 0 {
		return ""
	}
	features := tokens[0].Features
	if len(features) <= lemmaFeatureIndex {
		return ""
	}
	lemma := features[lemmaFeatureIndex]
	if lemma == "" || lemma == "*" {
		return ""
	}
	return lemma
}
