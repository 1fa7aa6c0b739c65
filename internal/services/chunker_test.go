package services

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTextShortText(t *testing.T) {
	splitter := NewTextSplitter(DefaultChunkSize, DefaultChunkOverlap)

	assert.Equal(t, []string{"Jane Doe\nGo developer"}, splitter.SplitText("  Jane Doe\nGo developer  "))
	assert.Empty(t, splitter.SplitText(""))
	assert.Empty(t, splitter.SplitText("   \n  "))
}

func TestSplitTextRespectsChunkSizeAndOverlap(t *testing.T) {
	words := make([]string, 200)
	for i := range words {
		words[i] = fmt.Sprintf("w%03d", i)
	}
	text := strings.Join(words, " ")

	chunks := NewTextSplitter(50, 10).SplitText(text)
	require.Greater(t, len(chunks), 1)

	for i, chunk := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk), 50)

		if i > 0 {
			first := strings.Fields(chunk)[0]
			assert.Contains(t, chunks[i-1], first, "chunk %d should start inside the previous chunk", i)
		}
	}

	assert.True(t, strings.HasPrefix(chunks[0], "w000"))
	assert.True(t, strings.HasSuffix(chunks[len(chunks)-1], "w199"))
}

func TestSplitTextPrefersParagraphs(t *testing.T) {
	first := strings.Repeat("a", 40)
	second := strings.Repeat("b", 40)

	chunks := NewTextSplitter(60, 0).SplitText(first + "\n\n" + second)

	assert.Equal(t, []string{first, second}, chunks)
}

func TestSplitTextCountsRunes(t *testing.T) {
	chunks := NewTextSplitter(100, 10).SplitText(strings.Repeat("é", 250))

	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk), 100)
	}
}

func TestNewTextSplitterDefaults(t *testing.T) {
	s := NewTextSplitter(0, -1).(*recursiveSplitter)
	assert.Equal(t, DefaultChunkSize, s.chunkSize)
	assert.Equal(t, 0, s.overlap)

	s = NewTextSplitter(10, 20).(*recursiveSplitter)
	assert.Equal(t, 2, s.overlap)
}
