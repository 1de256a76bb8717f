package lookup

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/mangatan-tools/mediacore/internal/config"
)

// Service is the dictionary-lookup core's single entry point: it owns the
// in-memory dictionary metadata map (guarded by a reader-writer lock, per
// the concurrency model), the term store, the tokenizer, and the loading
// flag import operations set while they run.
type Service struct {
	store      *Store
	tokenizer  Tokenizer
	cfg        config.LookupConfig
	logger     *slog.Logger
	mu         sync.RWMutex
	dictionary map[DictionaryID]Dictionary
	loading    atomic.Bool
}

// NewService builds a Service over store, loading the current dictionary
// set into memory. The store-backed DictionaryFormTokenizer supplies lemma
// candidates.
func NewService(ctx context.Context, store *Store, cfg config.LookupConfig, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}

	svc := &Service{
		store:      store,
		tokenizer:  NewDictionaryFormTokenizer(store),
		cfg:        cfg,
		logger:     logger,
		dictionary: make(map[DictionaryID]Dictionary),
	}

	dicts, err := store.LoadDictionaries(ctx)
	if err != nil {
		return nil, err
	}
	for _, d := range dicts {
		svc.dictionary[d.ID] = d
	}

	return svc, nil
}

func (s *Service) setLoading(v bool) {
	s.loading.Store(v)
}

// IsLoading reports whether a dictionary import is in progress.
func (s *Service) IsLoading() bool {
	return s.loading.Load()
}

// List returns every known dictionary, most-prioritized first.
func (s *Service) List() []Dictionary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dicts := make([]Dictionary, 0, len(s.dictionary))
	for _, d := range s.dictionary {
		dicts = append(dicts, d)
	}
	sortDictionariesByPriority(dicts)
	return dicts
}

func sortDictionariesByPriority(dicts []Dictionary) {
	for i := 1; i < len(dicts); i++ {
		for j := i; j > 0 && dicts[j].Priority < dicts[j-1].Priority; j-- {
			dicts[j], dicts[j-1] = dicts[j-1], dicts[j]
		}
	}
}

// Search runs the lookup engine against text from cursorOffset, failing
// fast with ErrServiceLoading during an import.
func (s *Service) Search(ctx context.Context, text string, cursorOffset int) ([]GroupedResult, error) {
	if s.IsLoading() {
		return nil, ErrServiceLoading
	}

	s.mu.RLock()
	if len(s.dictionary) == 0 {
		s.mu.RUnlock()
		return nil, nil
	}
	names := make(map[DictionaryID]string, len(s.dictionary))
	for id, d := range s.dictionary {
		names[id] = d.Name
	}
	s.mu.RUnlock()

	entries, err := Search(ctx, s.store, s.tokenizer, text, cursorOffset, s.cfg.MaxCandidateLength)
	if err != nil {
		return nil, err
	}
	return Aggregate(entries, names), nil
}
