package lookup

import "strings"

// aggregatorBucket accumulates one (headword, reading) group's
// definitions in first-seen order, plus its forms list.
type aggregatorBucket struct {
	headword    string
	reading     string
	definitions []Definition
	seenDefs    map[string]bool
	forms       []Form
	seenForms   map[string]bool
	matchLen    int
}

// Aggregate groups ranked entries by (headword, reading) in first-seen
// order, deduplicating definitions by (dictionary name, content). Each
// group's forms list holds only that group's own (headword, reading) pair;
// other pairs are not folded in.
func Aggregate(entries []RecordEntry, dictionaryNames map[DictionaryID]string) []GroupedResult {
	var order []string
	buckets := make(map[string]*aggregatorBucket)

	for _, entry := range entries {
		headword := entry.Term.Headword
		reading := entry.Term.Reading
		if headword == "" {
			continue
		}

		key := headword + "\x00" + reading
		bucket, ok := buckets[key]
		if !ok {
			bucket = &aggregatorBucket{
				headword: headword,
				reading:  reading,
				seenDefs: make(map[string]bool),
				forms:    []Form{{Headword: headword, Reading: reading}},
				seenForms: map[string]bool{
					headword + "\x00" + reading: true,
				},
			}
			buckets[key] = bucket
			order = append(order, key)
		}

		if matchLen := int(entry.SpanChars.End); matchLen > bucket.matchLen {
			bucket.matchLen = matchLen
		}

		dictName := dictionaryNames[entry.Source]
		if dictName == "" {
			dictName = "Unknown"
		}
		content := strings.Join(entry.Record.Content, "\x1f")
		defKey := dictName + "\x00" + content
		if bucket.seenDefs[defKey] {
			continue
		}
		bucket.seenDefs[defKey] = true

		tags := make([]string, 0, len(entry.Record.Tags))
		for _, tag := range entry.Record.Tags {
			if tag.Name != "" {
				tags = append(tags, tag.Name)
			} else if tag.Category != "" {
				tags = append(tags, tag.Category)
			}
		}

		bucket.definitions = append(bucket.definitions, Definition{
			DictionaryName: dictName,
			Tags:           tags,
			Content:        entry.Record.Content,
		})
	}

	results := make([]GroupedResult, 0, len(order))
	for _, key := range order {
		bucket := buckets[key]
		results = append(results, GroupedResult{
			Headword:    bucket.headword,
			Reading:     bucket.reading,
			Furigana:    Furigana(bucket.headword, bucket.reading),
			Definitions: bucket.definitions,
			Forms:       bucket.forms,
			MatchLen:    bucket.matchLen,
		})
	}
	return results
}

// Furigana computes a headword's reading breakdown via common-prefix and
// common-suffix trimming, emitting up to three (base, ruby) parts: a
// plain prefix, the annotated root, and a plain suffix. Concatenating the
// base parts always reconstructs headword; concatenating each part's ruby
// (falling back to its base where ruby is empty) reconstructs reading.
func Furigana(headword, reading string) []FuriganaPart {
	if reading == "" || reading == headword {
		return []FuriganaPart{{Base: headword}}
	}

	h := []rune(headword)
	r := []rune(reading)
	hStart, hEnd := 0, len(h)
	rStart, rEnd := 0, len(r)

	for hStart < hEnd && rStart < rEnd && h[hStart] == r[rStart] {
		hStart++
		rStart++
	}
	for hEnd > hStart && rEnd > rStart && h[hEnd-1] == r[rEnd-1] {
		hEnd--
		rEnd--
	}

	var parts []FuriganaPart
	if hStart > 0 {
		parts = append(parts, FuriganaPart{Base: string(h[:hStart])})
	}
	if hStart < hEnd {
		parts = append(parts, FuriganaPart{Base: string(h[hStart:hEnd]), Ruby: string(r[rStart:rEnd])})
	}
	if hEnd < len(h) {
		parts = append(parts, FuriganaPart{Base: string(h[hEnd:])})
	}
	return parts
}
