package lookup

import "context"

// Toggle enables or disables a dictionary, updating the backing store and
// the in-memory map in the same step so readers never observe the two
// disagree.
func (s *Service) Toggle(ctx context.Context, id DictionaryID, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.SetEnabled(ctx, id, enabled); err != nil {
		return err
	}

	dict, ok := s.dictionary[id]
	if !ok {
		return ErrDictionaryNotFound
	}
	dict.Enabled = enabled
	s.dictionary[id] = dict
	return nil
}

// Delete removes a dictionary and all of its term rows, then drops it from
// the in-memory map.
func (s *Service) Delete(ctx context.Context, id DictionaryID) error {
	if err := s.store.DeleteDictionary(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.dictionary, id)
	return nil
}

// Reorder rewrites dictionary priorities to match order, which must list
// every known dictionary exactly once.
func (s *Service) Reorder(ctx context.Context, order []DictionaryID) error {
	s.mu.RLock()
	complete := len(order) == len(s.dictionary)
	seen := make(map[DictionaryID]bool, len(order))
	for _, id := range order {
		if _, ok := s.dictionary[id]; !ok || seen[id] {
			complete = false
			break
		}
		seen[id] = true
	}
	s.mu.RUnlock()
	if !complete {
		return ErrReorderIncomplete
	}

	if err := s.store.SetPriorities(ctx, order); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, id := range order {
		dict, ok := s.dictionary[id]
		if !ok {
			continue
		}
		dict.Priority = i
		s.dictionary[id] = dict
	}
	return nil
}
