package labels

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
)

// ErrNotBijective is returned when a label table does not map every index
// in [0, n) to exactly one label.
var ErrNotBijective = errors.New("label map is not a bijection")

// NumClasses is the number of diagnosis classes the network was trained on.
const NumClasses = 11

// defaultLabels is the table the network was trained with, in index order.
var defaultLabels = []string{
	"Cataract",
	"Dry_AMD",
	"Glaucoma",
	"Hypertensive_Retinopathy",
	"Mild_DR",
	"Moderate_DR",
	"Normal_Fundus",
	"Pathological_Myopia",
	"Proliferate_DR",
	"Severe_DR",
	"Wet_AMD",
}

// LabelMap maps diagnosis labels to dense class indices and back.
// It is immutable after construction.
type LabelMap struct {
	byIndex []string
	byLabel map[string]int
}

// Default returns the built-in label map.
func Default() *LabelMap {
	m, err := New(defaultLabels)
	if err != nil {
		panic(err)
	}
	return m
}

// New builds a label map from labels listed in index order.
func New(labels []string) (*LabelMap, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("%w: no labels", ErrNotBijective)
	}
	byLabel := make(map[string]int, len(labels))
	byIndex := make([]string, len(labels))
	for i, label := range labels {
		if label == "" {
			return nil, fmt.Errorf("%w: empty label at index %d", ErrNotBijective, i)
		}
		if prev, ok := byLabel[label]; ok {
			return nil, fmt.Errorf("%w: label %q at indices %d and %d", ErrNotBijective, label, prev, i)
		}
		byLabel[label] = i
		byIndex[i] = label
	}
	return &LabelMap{byIndex: byIndex, byLabel: byLabel}, nil
}

// FromLabelToIndex builds a label map from a label -> index table.
func FromLabelToIndex(table map[string]int) (*LabelMap, error) {
	labels := make([]string, len(table))
	for label, idx := range table {
		if idx < 0 || idx >= len(table) {
			return nil, fmt.Errorf("%w: index %d for %q out of range [0,%d)", ErrNotBijective, idx, label, len(table))
		}
		if labels[idx] != "" {
			return nil, fmt.Errorf("%w: index %d used by %q and %q", ErrNotBijective, idx, labels[idx], label)
		}
		labels[idx] = label
	}
	return New(labels)
}

// checkpointLabels mirrors the label section of the exported checkpoint.
// Either table may be present; label_to_idx wins when both are.
type checkpointLabels struct {
	LabelToIdx map[string]int    `json:"label_to_idx"`
	IdxToLabel map[string]string `json:"idx_to_label"`
}

// Load reads the label tables stored next to the exported model.
func Load(path string) (*LabelMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read labels: %w", err)
	}
	var cp checkpointLabels
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("decode labels: %w", err)
	}
	if len(cp.LabelToIdx) > 0 {
		return FromLabelToIndex(cp.LabelToIdx)
	}
	if len(cp.IdxToLabel) == 0 {
		return nil, fmt.Errorf("%w: %s has no label table", ErrNotBijective, path)
	}
	table := make(map[string]int, len(cp.IdxToLabel))
	for key, label := range cp.IdxToLabel {
		idx, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("decode labels: index %q: %w", key, err)
		}
		if _, dup := table[label]; dup {
			return nil, fmt.Errorf("%w: label %q appears twice", ErrNotBijective, label)
		}
		table[label] = idx
	}
	return FromLabelToIndex(table)
}

// Index returns the class index for label.
func (m *LabelMap) Index(label string) (int, bool) {
	idx, ok := m.byLabel[label]
	return idx, ok
}

// Label returns the label for a class index.
func (m *LabelMap) Label(index int) (string, bool) {
	if index < 0 || index >= len(m.byIndex) {
		return "", false
	}
	return m.byIndex[index], true
}

// Len returns the number of classes.
func (m *LabelMap) Len() int {
	return len(m.byIndex)
}

// Labels returns a copy of all labels in index order.
func (m *LabelMap) Labels() []string {
	out := make([]string, len(m.byIndex))
	copy(out, m.byIndex)
	return out
}
