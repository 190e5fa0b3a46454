package processor

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSplitter(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		s, err := NewSplitter(1000, 200)
		require.NoError(t, err)
		assert.Equal(t, 1000, s.ChunkSize)
		assert.Equal(t, 200, s.ChunkOverlap)
	})

	t.Run("Overlap not smaller than size", func(t *testing.T) {
		_, err := NewSplitter(100, 100)
		assert.Error(t, err)
	})

	t.Run("Non-positive size", func(t *testing.T) {
		_, err := NewSplitter(0, 0)
		assert.Error(t, err)
	})

	t.Run("Negative overlap", func(t *testing.T) {
		_, err := NewSplitter(10, -1)
		assert.Error(t, err)
	})
}

func TestSplit(t *testing.T) {
	t.Run("Short text is one chunk", func(t *testing.T) {
		s, err := NewSplitter(1000, 200)
		require.NoError(t, err)
		assert.Equal(t, []string{"Glaucoma damages the optic nerve."}, s.Split("Glaucoma damages the optic nerve."))
	})

	t.Run("Empty text has no chunks", func(t *testing.T) {
		s, err := NewSplitter(1000, 200)
		require.NoError(t, err)
		assert.Empty(t, s.Split(""))
		assert.Empty(t, s.Split("  \n\n  "))
	})

	t.Run("Paragraphs are kept together", func(t *testing.T) {
		s, err := NewSplitter(30, 0)
		require.NoError(t, err)
		chunks := s.Split("first paragraph here\n\nsecond paragraph here")
		assert.Equal(t, []string{"first paragraph here", "second paragraph here"}, chunks)
	})

	t.Run("Words with overlap", func(t *testing.T) {
		s, err := NewSplitter(10, 4)
		require.NoError(t, err)
		chunks := s.Split("aaa bbb ccc ddd")
		assert.Equal(t, []string{"aaa bbb", "bbb ccc", "ccc ddd"}, chunks)
	})

	t.Run("Long word is cut into characters", func(t *testing.T) {
		s, err := NewSplitter(4, 0)
		require.NoError(t, err)
		chunks := s.Split("abcdefghij")
		assert.Equal(t, []string{"abcd", "efgh", "ij"}, chunks)
	})

	t.Run("Chunks respect the size limit", func(t *testing.T) {
		s, err := NewSplitter(1000, 200)
		require.NoError(t, err)

		var b strings.Builder
		for i := 0; i < 400; i++ {
			b.WriteString("Diabetic retinopathy affects the small blood vessels of the retina. ")
			if i%7 == 6 {
				b.WriteString("\n\n")
			}
		}
		chunks := s.Split(b.String())
		require.Greater(t, len(chunks), 1)
		for _, c := range chunks {
			assert.LessOrEqual(t, utf8.RuneCountInString(c), 1000)
			assert.NotEmpty(t, c)
		}
	})

	t.Run("Size counts characters not bytes", func(t *testing.T) {
		s, err := NewSplitter(5, 0)
		require.NoError(t, err)
		chunks := s.Split("आँखआँख")
		for _, c := range chunks {
			assert.LessOrEqual(t, utf8.RuneCountInString(c), 5)
		}
		assert.Equal(t, "आँखआँख", strings.Join(chunks, ""))
	})
}
