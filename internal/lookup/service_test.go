package lookup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_SearchFailsFastWhileLoading(t *testing.T) {
	svc := newTestService(t)
	svc.setLoading(true)

	_, err := svc.Search(context.Background(), "猫", 0)
	assert.ErrorIs(t, err, ErrServiceLoading)
}

func TestService_SearchWithNoDictionariesReturnsNil(t *testing.T) {
	svc := newTestService(t)

	results, err := svc.Search(context.Background(), "猫", 0)
	require.NoError(t, err)
	assert.Nil(t, results)
}

func TestService_ListOrdersByPriority(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.store.ImportDictionary(ctx, Dictionary{Name: "low", Priority: 5}, nil)
	require.NoError(t, err)
	_, err = svc.store.ImportDictionary(ctx, Dictionary{Name: "high", Priority: 1}, nil)
	require.NoError(t, err)

	svc2, err := NewService(ctx, svc.store, svc.cfg, svc.logger)
	require.NoError(t, err)

	dicts := svc2.List()
	require.Len(t, dicts, 2)
	assert.Equal(t, "high", dicts[0].Name)
	assert.Equal(t, "low", dicts[1].Name)
}
