package lookup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNopTokenizer_ReturnsSurfaceOnly(t *testing.T) {
	tokens, err := NopTokenizer{}.Tokenize(context.Background(), "走った")
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, "走った", tokens[0].Surface)
	assert.Empty(t, tokens[0].Features)
}

func TestDictionaryFormTokenizer_FindsLongestStoredPrefix(t *testing.T) {
	checker := fakeHeadwordChecker{"走る": true, "走": true}
	tok := NewDictionaryFormTokenizer(checker)

	tokens, err := tok.Tokenize(context.Background(), "走るとき")
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, "走るとき", tokens[0].Surface)
	assert.Equal(t, "走る", lemmaOf(tokens))
}

func TestDictionaryFormTokenizer_NoMatchFallsBackToSurface(t *testing.T) {
	tok := NewDictionaryFormTokenizer(fakeHeadwordChecker{})

	tokens, err := tok.Tokenize(context.Background(), "走るとき")
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Empty(t, lemmaOf(tokens))
}

func TestLemmaOf_EmptyTokens(t *testing.T) {
	assert.Empty(t, lemmaOf(nil))
}
