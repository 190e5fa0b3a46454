package labels

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	m := Default()

	t.Run("Has eleven classes", func(t *testing.T) {
		assert.Equal(t, NumClasses, m.Len())
	})

	t.Run("Index to label round trip", func(t *testing.T) {
		for i := 0; i < m.Len(); i++ {
			label, ok := m.Label(i)
			require.True(t, ok)
			idx, ok := m.Index(label)
			require.True(t, ok)
			assert.Equal(t, i, idx)
		}
	})

	t.Run("Label to index round trip", func(t *testing.T) {
		for _, label := range m.Labels() {
			idx, ok := m.Index(label)
			require.True(t, ok)
			back, ok := m.Label(idx)
			require.True(t, ok)
			assert.Equal(t, label, back)
		}
	})

	t.Run("Known indices", func(t *testing.T) {
		idx, ok := m.Index("Normal_Fundus")
		require.True(t, ok)
		assert.Equal(t, 6, idx)

		label, ok := m.Label(10)
		require.True(t, ok)
		assert.Equal(t, "Wet_AMD", label)
	})

	t.Run("Out of range", func(t *testing.T) {
		_, ok := m.Label(-1)
		assert.False(t, ok)
		_, ok = m.Label(11)
		assert.False(t, ok)
		_, ok = m.Index("UnknownCode")
		assert.False(t, ok)
	})

	t.Run("Labels returns a copy", func(t *testing.T) {
		labels := m.Labels()
		labels[0] = "mutated"
		label, _ := m.Label(0)
		assert.Equal(t, "Cataract", label)
	})
}

func TestNew(t *testing.T) {
	t.Run("Duplicate label", func(t *testing.T) {
		_, err := New([]string{"a", "b", "a"})
		assert.ErrorIs(t, err, ErrNotBijective)
	})

	t.Run("Empty label", func(t *testing.T) {
		_, err := New([]string{"a", ""})
		assert.ErrorIs(t, err, ErrNotBijective)
	})

	t.Run("No labels", func(t *testing.T) {
		_, err := New(nil)
		assert.ErrorIs(t, err, ErrNotBijective)
	})
}

func TestFromLabelToIndex(t *testing.T) {
	t.Run("Valid table", func(t *testing.T) {
		m, err := FromLabelToIndex(map[string]int{"b": 1, "a": 0, "c": 2})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, m.Labels())
	})

	t.Run("Gap in indices", func(t *testing.T) {
		_, err := FromLabelToIndex(map[string]int{"a": 0, "b": 2})
		assert.ErrorIs(t, err, ErrNotBijective)
	})

	t.Run("Shared index", func(t *testing.T) {
		_, err := FromLabelToIndex(map[string]int{"a": 0, "b": 0})
		assert.ErrorIs(t, err, ErrNotBijective)
	})
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		return path
	}

	t.Run("label_to_idx table", func(t *testing.T) {
		path := write("l2i.json", `{"label_to_idx": {"Glaucoma": 1, "Cataract": 0}}`)
		m, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"Cataract", "Glaucoma"}, m.Labels())
	})

	t.Run("idx_to_label table", func(t *testing.T) {
		path := write("i2l.json", `{"idx_to_label": {"0": "Cataract", "1": "Glaucoma"}}`)
		m, err := Load(path)
		require.NoError(t, err)
		label, ok := m.Label(1)
		require.True(t, ok)
		assert.Equal(t, "Glaucoma", label)
	})

	t.Run("Duplicate label in idx_to_label", func(t *testing.T) {
		path := write("dup.json", `{"idx_to_label": {"0": "Cataract", "1": "Cataract"}}`)
		_, err := Load(path)
		assert.ErrorIs(t, err, ErrNotBijective)
	})

	t.Run("No table", func(t *testing.T) {
		path := write("empty.json", `{}`)
		_, err := Load(path)
		assert.ErrorIs(t, err, ErrNotBijective)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "missing.json"))
		assert.Error(t, err)
	})
}
