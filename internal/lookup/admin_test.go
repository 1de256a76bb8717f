package lookup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func importedDictionary(t *testing.T, svc *Service, name string) Dictionary {
	t.Helper()
	created, err := svc.store.ImportDictionary(context.Background(), Dictionary{Name: name}, nil)
	require.NoError(t, err)

	svc.mu.Lock()
	svc.dictionary[created.ID] = created
	svc.mu.Unlock()
	return created
}

func TestService_Toggle(t *testing.T) {
	svc := newTestService(t)
	dict := importedDictionary(t, svc, "d")

	err := svc.Toggle(context.Background(), dict.ID, false)
	require.NoError(t, err)

	svc.mu.RLock()
	got := svc.dictionary[dict.ID]
	svc.mu.RUnlock()
	assert.False(t, got.Enabled)
}

func TestService_ToggleUnknownDictionary(t *testing.T) {
	svc := newTestService(t)
	err := svc.Toggle(context.Background(), DictionaryID(999), true)
	assert.ErrorIs(t, err, ErrDictionaryNotFound)
}

func TestService_Delete(t *testing.T) {
	svc := newTestService(t)
	dict := importedDictionary(t, svc, "d")

	err := svc.Delete(context.Background(), dict.ID)
	require.NoError(t, err)

	svc.mu.RLock()
	_, ok := svc.dictionary[dict.ID]
	svc.mu.RUnlock()
	assert.False(t, ok)
}

func TestService_ReorderRejectsIncompleteList(t *testing.T) {
	svc := newTestService(t)
	importedDictionary(t, svc, "a")
	importedDictionary(t, svc, "b")

	err := svc.Reorder(context.Background(), []DictionaryID{1})
	assert.ErrorIs(t, err, ErrReorderIncomplete)
}

func TestService_ReorderUpdatesPriorities(t *testing.T) {
	svc := newTestService(t)
	a := importedDictionary(t, svc, "a")
	b := importedDictionary(t, svc, "b")

	err := svc.Reorder(context.Background(), []DictionaryID{b.ID, a.ID})
	require.NoError(t, err)

	dicts := svc.List()
	require.Len(t, dicts, 2)
	assert.Equal(t, b.ID, dicts[0].ID)
	assert.Equal(t, a.ID, dicts[1].ID)
}
