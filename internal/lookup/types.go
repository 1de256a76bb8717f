// Package lookup implements the dictionary-lookup core: longest-prefix
// candidate generation over a text cursor, a persistent term store, and
// headword/reading aggregation with furigana.
package lookup

// DictionaryID identifies an imported dictionary. IDs are monotonically
// assigned by the loader and never reused.
type DictionaryID int64

// Dictionary is one imported dictionary's metadata. Priority orders List
// (lowest first) and is rewritten by Reorder; search ranking does not read
// it, and hits with equal span and frequency keep term-row insertion order.
// Enabled is persisted and changed by Toggle; Search does not filter
// results by it.
type Dictionary struct {
	ID          DictionaryID
	Name        string
	Description string
	Revision    string
	Priority    int
	Enabled     bool
}

// Tag carries a Yomitan glossary tag's display name and category.
type Tag struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Glossary is the structured-content variant of a stored record, matching
// a Yomitan term bank entry's popularity/tags/content triple.
type Glossary struct {
	Popularity float64 `json:"popularity"`
	Tags       []Tag   `json:"tags"`
	// Content holds one serialized string per definition entry. A definition
	// that was a JSON object in the term bank is stored as its serialized
	// form rather than decoded further, matching the loader contract in
	// SPEC_FULL.md §6.
	Content []string `json:"content"`
}

// StoredRecord is the JSON payload persisted per term row.
type StoredRecord struct {
	DictionaryID DictionaryID `json:"dictionaryId"`
	Reading      string       `json:"reading,omitempty"`
	Record       Glossary     `json:"record"`
}

// Span is a half-open [Start, End) range, either in characters or bytes.
type Span struct {
	Start uint64
	End   uint64
}

// Term names a dictionary match by headword and/or reading; at least one
// of the two is always non-empty.
type Term struct {
	Headword string
	Reading  string
}

// RecordEntry is one search hit: a candidate word resolved against the
// term store, annotated with the span it matched and a sort frequency.
type RecordEntry struct {
	SpanChars Span
	SpanBytes Span
	Source    DictionaryID
	Term      Term
	Record    Glossary
	SortFreq  float64
}

// FuriganaPart is one (base, ruby) segment of a furigana breakdown; Ruby
// is empty for parts that carry no reading annotation of their own.
type FuriganaPart struct {
	Base string
	Ruby string
}

// Definition is one dictionary's contribution to a grouped lookup result.
type Definition struct {
	DictionaryName string
	Tags           []string
	Content        []string
}

// Form is a (headword, reading) pairing in a grouped result's forms list.
// Aggregate lists only the group's own pairing there.
type Form struct {
	Headword string
	Reading  string
}

// GroupedResult is one headword/reading group returned to a lookup caller.
type GroupedResult struct {
	Headword    string
	Reading     string
	Furigana    []FuriganaPart
	Definitions []Definition
	Forms       []Form
	MatchLen    int
}

// Candidate is one word generated from a substring during search: either
// the substring itself or a morphological lemma of its first token.
type Candidate struct {
	Word string
}

// Token is one unit produced by a Tokenizer: a surface form plus whatever
// morphological features the analyzer attaches to it.
type Token struct {
	Surface  string
	Features []string
}
