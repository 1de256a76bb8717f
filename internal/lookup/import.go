package lookup

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// zipIndex mirrors a dictionary archive's index.json.
type zipIndex struct {
	Title       string `json:"title"`
	Revision    string `json:"revision"`
	Description string `json:"description"`
}

// ImportZip reads a Yomitan-format dictionary archive, registers its
// metadata, and inserts every term bank entry as one or two term rows
// (headword, and reading when it differs from the headword).
func (s *Service) ImportZip(ctx context.Context, data []byte) (Dictionary, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Dictionary{}, fmt.Errorf("%w: %v", ErrInvalidZip, err)
	}

	index, err := readIndex(reader)
	if err != nil {
		return Dictionary{}, err
	}

	var rows []TermRow
	for _, file := range reader.File {
		name := file.Name
		if idx := strings.LastIndex(name, "/"); idx != -1 {
			name = name[idx+1:]
		}
		if !strings.Contains(name, "term_bank") || !strings.HasSuffix(name, ".json") {
			continue
		}
		fileRows, err := parseTermBank(file)
		if err != nil {
			return Dictionary{}, fmt.Errorf("parsing %s: %w", file.Name, err)
		}
		rows = append(rows, fileRows...)
	}

	meta := Dictionary{Name: index.Title, Description: index.Description, Revision: index.Revision}
	created, err := s.store.ImportDictionary(ctx, meta, rows)
	if err != nil {
		return Dictionary{}, err
	}

	s.mu.Lock()
	s.dictionary[created.ID] = created
	s.mu.Unlock()

	return created, nil
}

func readIndex(reader *zip.Reader) (zipIndex, error) {
	for _, file := range reader.File {
		name := file.Name
		if idx := strings.LastIndex(name, "/"); idx != -1 {
			name = name[idx+1:]
		}
		if name != "index.json" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return zipIndex{}, fmt.Errorf("%w: opening index.json: %v", ErrInvalidZip, err)
		}
		defer rc.Close()

		raw, err := io.ReadAll(rc)
		if err != nil {
			return zipIndex{}, fmt.Errorf("%w: reading index.json: %v", ErrInvalidZip, err)
		}
		var index zipIndex
		if err := json.Unmarshal(raw, &index); err != nil {
			return zipIndex{}, fmt.Errorf("%w: decoding index.json: %v", ErrInvalidZip, err)
		}
		if index.Title == "" {
			index.Title = "Unknown"
		}
		return index, nil
	}
	return zipIndex{}, fmt.Errorf("%w: no index.json", ErrInvalidZip)
}

// termBankRow is one entry in a Yomitan term_bank*.json file: an 8-tuple
// of [headword, reading, tags, rules, popularity, definitions, sequence,
// term_tags].
type termBankRow struct {
	Headword    string
	Reading     string
	Tags        string
	Popularity  float64
	Definitions []json.RawMessage
}

func parseTermBank(file *zip.File) ([]TermRow, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}

	var entries [][]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}

	var rows []TermRow
	for _, entry := range entries {
		row, ok := decodeTermBankRow(entry)
		if !ok || row.Headword == "" {
			continue
		}

		content := make([]string, 0, len(row.Definitions))
		for _, def := range row.Definitions {
			content = append(content, definitionToString(def))
		}

		var tags []Tag
		for _, t := range strings.Fields(row.Tags) {
			tags = append(tags, Tag{Name: t})
		}

		reading := ""
		if row.Reading != "" && row.Reading != row.Headword {
			reading = row.Reading
		}

		record := Glossary{Popularity: row.Popularity, Tags: tags, Content: content}
		rows = append(rows, TermRow{Term: row.Headword, Reading: reading, Record: record})
		if reading != "" {
			rows = append(rows, TermRow{Term: reading, Reading: reading, Record: record})
		}
	}
	return rows, nil
}

func decodeTermBankRow(entry []json.RawMessage) (termBankRow, bool) {
	if len(entry) < 8 {
		return termBankRow{}, false
	}
	var row termBankRow
	_ = json.Unmarshal(entry[0], &row.Headword)
	_ = json.Unmarshal(entry[1], &row.Reading)
	_ = json.Unmarshal(entry[2], &row.Tags)
	_ = json.Unmarshal(entry[4], &row.Popularity)
	_ = json.Unmarshal(entry[5], &row.Definitions)
	return row, true
}

func definitionToString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
