package lookup

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/mangatan-tools/mediacore/internal/database"
)

// dictionaryModel is the GORM-managed row backing Dictionary. The terms
// table below is managed with hand-written DDL instead of a GORM model:
// its access pattern is a pooled raw-SQL point lookup, not CRUD.
type dictionaryModel struct {
	ID          DictionaryID `gorm:"primarykey;autoIncrement"`
	Name        string       `gorm:"not null"`
	Description string
	Revision    string
	Priority    int  `gorm:"default:0;index"`
	Enabled     bool `gorm:"default:true"`
}

func (dictionaryModel) TableName() string { return "dictionaries" }

func (m dictionaryModel) toDictionary() Dictionary {
	return Dictionary{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Revision:    m.Revision,
		Priority:    m.Priority,
		Enabled:     m.Enabled,
	}
}

// metadataModel backs the single-row key/value metadata table.
type metadataModel struct {
	Key   string `gorm:"primarykey"`
	Value string
}

func (metadataModel) TableName() string { return "metadata" }

const createTermsTableDDL = `
CREATE TABLE IF NOT EXISTS terms (
	term TEXT NOT NULL,
	json TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_term ON terms(term);
`

// Store is the dictionary-lookup term store: GORM-managed dictionary
// metadata plus a pooled raw-SQL path over the terms table.
type Store struct {
	db *database.DB
}

// NewStore migrates the dictionaries/metadata tables and ensures the terms
// table and its index exist, then returns a Store bound to db.
func NewStore(db *database.DB) (*Store, error) {
	if err := db.AutoMigrate(&dictionaryModel{}, &metadataModel{}); err != nil {
		return nil, fmt.Errorf("migrating lookup schema: %w", err)
	}
	if err := db.Exec(createTermsTableDDL).Error; err != nil {
		return nil, fmt.Errorf("creating terms table: %w", err)
	}
	return &Store{db: db}, nil
}

// LoadDictionaries returns every persisted dictionary ordered by priority.
func (s *Store) LoadDictionaries(ctx context.Context) ([]Dictionary, error) {
	var rows []dictionaryModel
	if err := s.db.WithContext(ctx).Order("priority asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("loading dictionaries: %w", err)
	}
	dicts := make([]Dictionary, len(rows))
	for i, row := range rows {
		dicts[i] = row.toDictionary()
	}
	return dicts, nil
}

// conn checks out one pooled connection for a single point lookup; the
// caller releases it when that query returns, so a search's successive
// lookups may each use a different connection.
func (s *Store) conn(ctx context.Context) (*sql.Conn, error) {
	sqlDB, err := s.db.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("getting underlying sql.DB: %w", err)
	}
	return sqlDB.Conn(ctx)
}

// HasHeadword reports whether term is a known headword row in the term
// store. Used by DictionaryFormTokenizer for prefix matching.
func (s *Store) HasHeadword(ctx context.Context, term string) (bool, error) {
	conn, err := s.conn(ctx)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	var exists int
	err = conn.QueryRowContext(ctx, "SELECT 1 FROM terms WHERE term = ? LIMIT 1", term).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying headword: %w", err)
	}
	return true, nil
}

// QueryTerm returns every stored record indexed under the given term text.
func (s *Store) QueryTerm(ctx context.Context, term string) ([]StoredRecord, error) {
	conn, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, "SELECT json FROM terms WHERE term = ?", term)
	if err != nil {
		return nil, fmt.Errorf("querying term %q: %w", term, err)
	}
	defer rows.Close()

	var records []StoredRecord
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scanning term row: %w", err)
		}
		var stored StoredRecord
		if err := json.Unmarshal([]byte(raw), &stored); err != nil {
			continue
		}
		records = append(records, stored)
	}
	return records, rows.Err()
}

// ImportDictionary registers a new dictionary and inserts its term rows in
// one transaction, so the dictionaries table and the terms table never
// disagree about which dictionary a row belongs to. Each row's stored
// record is stamped with the newly assigned dictionary id before it is
// marshaled, since that id isn't known until the dictionary row commits.
func (s *Store) ImportDictionary(ctx context.Context, meta Dictionary, rows []TermRow) (Dictionary, error) {
	var created dictionaryModel
	err := s.db.Transaction(ctx, func(tx *gorm.DB) error {
		model := dictionaryModel{
			Name:        meta.Name,
			Description: meta.Description,
			Revision:    meta.Revision,
			Priority:    meta.Priority,
			Enabled:     true,
		}
		if err := tx.Create(&model).Error; err != nil {
			return fmt.Errorf("creating dictionary row: %w", err)
		}
		created = model

		if len(rows) == 0 {
			return nil
		}

		for _, row := range rows {
			stored := StoredRecord{DictionaryID: model.ID, Reading: row.Reading, Record: row.Record}
			encoded, err := json.Marshal(stored)
			if err != nil {
				return fmt.Errorf("encoding term %q: %w", row.Term, err)
			}
			if err := tx.Exec("INSERT INTO terms (term, json) VALUES (?, ?)", row.Term, string(encoded)).Error; err != nil {
				return fmt.Errorf("inserting term %q: %w", row.Term, err)
			}
		}
		return nil
	})
	if err != nil {
		return Dictionary{}, err
	}
	return created.toDictionary(), nil
}

// SetEnabled toggles a dictionary's enabled flag.
func (s *Store) SetEnabled(ctx context.Context, id DictionaryID, enabled bool) error {
	res := s.db.WithContext(ctx).Model(&dictionaryModel{}).Where("id = ?", id).Update("enabled", enabled)
	if res.Error != nil {
		return fmt.Errorf("updating dictionary %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrDictionaryNotFound
	}
	return nil
}

// SetPriorities rewrites every dictionary's priority to its index in the
// given id order, inside one transaction.
func (s *Store) SetPriorities(ctx context.Context, order []DictionaryID) error {
	return s.db.Transaction(ctx, func(tx *gorm.DB) error {
		for i, id := range order {
			res := tx.Model(&dictionaryModel{}).Where("id = ?", id).Update("priority", i)
			if res.Error != nil {
				return fmt.Errorf("reordering dictionary %d: %w", id, res.Error)
			}
			if res.RowsAffected == 0 {
				return ErrDictionaryNotFound
			}
		}
		return nil
	})
}

// DeleteDictionary removes a dictionary and all of its term rows inside
// one transaction, then triggers a space-reclamation pass.
func (s *Store) DeleteDictionary(ctx context.Context, id DictionaryID) error {
	err := s.db.Transaction(ctx, func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&dictionaryModel{})
		if res.Error != nil {
			return fmt.Errorf("deleting dictionary %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrDictionaryNotFound
		}

		rows, err := s.rowsForDictionary(ctx, tx, id)
		if err != nil {
			return err
		}
		for _, term := range rows {
			if err := tx.Exec("DELETE FROM terms WHERE term = ? AND json LIKE ?", term, dictionaryIDLikePattern(id)).Error; err != nil {
				return fmt.Errorf("deleting term rows for dictionary %d: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return s.reclaimSpace(ctx)
}

// rowsForDictionary returns the distinct term text of every row whose
// stored JSON belongs to the given dictionary, scanning the terms table
// since it carries no dedicated dictionary_id column.
func (s *Store) rowsForDictionary(ctx context.Context, tx *gorm.DB, id DictionaryID) ([]string, error) {
	sqlDB, err := tx.DB()
	if err != nil {
		return nil, err
	}
	rows, err := sqlDB.QueryContext(ctx, "SELECT DISTINCT term FROM terms WHERE json LIKE ?", dictionaryIDLikePattern(id))
	if err != nil {
		return nil, fmt.Errorf("scanning term rows for dictionary %d: %w", id, err)
	}
	defer rows.Close()

	var terms []string
	for rows.Next() {
		var term string
		if err := rows.Scan(&term); err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}
	return terms, rows.Err()
}

// dictionaryIDLikePattern matches the stored JSON of one dictionary's rows.
// The trailing comma keeps id 1 from also matching ids 10-19: StoredRecord
// always marshals further fields after dictionaryId.
func dictionaryIDLikePattern(id DictionaryID) string {
	return fmt.Sprintf(`%%"dictionaryId":%d,%%`, id)
}

// reclaimSpace runs SQLite's VACUUM so deleted term rows don't leave the
// database file permanently inflated.
func (s *Store) reclaimSpace(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Exec("VACUUM").Error; err != nil {
		return fmt.Errorf("reclaiming space: %w", err)
	}
	return nil
}

// TermRow is one pending term-store insertion: the indexed term text plus
// the record it should resolve to. ImportDictionary stamps the owning
// dictionary's id onto the StoredRecord it writes for each row.
type TermRow struct {
	Term    string
	Reading string
	Record  Glossary
}
