package frame

import (
	"fmt"

	"golang.org/x/exp/rand"
)

type SplitOrder int

const (
	OriginalOrder SplitOrder = iota
	RandomOrder
)

// RowOrder returns the row indices of a table, either as-is or shuffled with src. A nil src
// shuffles with the package-level generator.
func RowOrder(rows int, order SplitOrder, src rand.Source) []int {
	switch order {
	case RandomOrder:
		if src == nil {
			return rand.Perm(rows)
		}
		return rand.New(src).Perm(rows)
	default:
		indices := make([]int, rows)
		for i := range indices {
			indices[i] = i
		}
		return indices
	}
}

// Split partitions a table into consecutive chunks of the given sizes taken from the
// requested row order. The sizes must not exceed the number of rows; leftover rows go to
// a final extra chunk only if they exist.
func Split(t *Table, order SplitOrder, src rand.Source, sizes ...int) ([]*Table, error) {
	total := 0
	for _, size := range sizes {
		if size < 0 {
			return nil, fmt.Errorf("invalid split size %d", size)
		}
		total += size
	}
	if total > t.Rows() {
		return nil, fmt.Errorf("split sizes add up to %d but table has %d rows", total, t.Rows())
	}

	indices := RowOrder(t.Rows(), order, src)
	splits := make([]*Table, 0, len(sizes)+1)
	idx := 0
	for _, size := range sizes {
		splits = append(splits, t.Take(indices[idx:idx+size]))
		idx += size
	}
	if idx < len(indices) {
		splits = append(splits, t.Take(indices[idx:]))
	}
	return splits, nil
}

// SplitFractions turns validation and test fractions into train/val/test sizes for n rows.
func SplitFractions(n int, valFraction, testFraction float64) (int, int, int, error) {
	if valFraction < 0 || testFraction < 0 || valFraction+testFraction >= 1 {
		return 0, 0, 0, fmt.Errorf("invalid split fractions val=%.3f test=%.3f", valFraction, testFraction)
	}
	val := int(float64(n) * valFraction)
	test := int(float64(n) * testFraction)
	return n - val - test, val, test, nil
}
