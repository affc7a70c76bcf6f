package types

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Cell is one value of a volume matrix: a number, a free-text string, or
// null. Not a DB model; serialized inside VolumeDataEntry.Data.
type Cell struct {
	Number *float64
	Text   *string
}

func NumberCell(v float64) Cell {
	return Cell{Number: &v}
}

func TextCell(s string) Cell {
	return Cell{Text: &s}
}

func NullCell() Cell {
	return Cell{}
}

func (c Cell) IsNull() bool {
	return c.Number == nil && c.Text == nil
}

func (c Cell) Equal(other Cell) bool {
	if c.Number != nil && other.Number != nil {
		return *c.Number == *other.Number
	}
	if c.Text != nil && other.Text != nil {
		return *c.Text == *other.Text
	}
	return c.IsNull() && other.IsNull()
}

func (c Cell) MarshalJSON() ([]byte, error) {
	if c.Number != nil {
		return json.Marshal(*c.Number)
	}
	if c.Text != nil {
		return json.Marshal(*c.Text)
	}
	return []byte("null"), nil
}

func (c *Cell) UnmarshalJSON(raw []byte) error {
	if string(raw) == "null" {
		*c = Cell{}
		return nil
	}
	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		*c = Cell{Number: &num}
		return nil
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		*c = Cell{Text: &str}
		return nil
	}
	return fmt.Errorf("cell value must be a number, a string or null, got %s", string(raw))
}

// Matrix is the row-label -> column-label -> cell view of one volume data
// entry.
type Matrix map[string]map[string]Cell

func MatrixFromJSON(raw []byte) (Matrix, error) {
	if len(raw) == 0 {
		return Matrix{}, nil
	}
	var m Matrix
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode matrix: %w", err)
	}
	if m == nil {
		m = Matrix{}
	}
	return m, nil
}

func (m Matrix) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// Merge folds incoming into m: rows are created when absent, and an existing
// cell is overwritten only when the incoming value actually differs. Returns
// true when m changed.
func (m Matrix) Merge(incoming Matrix) bool {
	changed := false
	for row, cols := range incoming {
		existing, ok := m[row]
		if !ok {
			existing = map[string]Cell{}
			m[row] = existing
			if len(cols) > 0 {
				changed = true
			}
		}
		for col, val := range cols {
			old, has := existing[col]
			if has && old.Equal(val) {
				continue
			}
			existing[col] = val
			changed = true
		}
	}
	return changed
}

// DeleteCell removes one cell, pruning the row when it becomes empty.
// Returns true when a cell was actually removed.
func (m Matrix) DeleteCell(row, col string) bool {
	cols, ok := m[row]
	if !ok {
		return false
	}
	if _, has := cols[col]; !has {
		return false
	}
	delete(cols, col)
	if len(cols) == 0 {
		delete(m, row)
	}
	return true
}

func (m Matrix) Empty() bool {
	return len(m) == 0
}

func (m Matrix) Clone() Matrix {
	out := make(Matrix, len(m))
	for row, cols := range m {
		c := make(map[string]Cell, len(cols))
		for col, val := range cols {
			c[col] = val
		}
		out[row] = c
	}
	return out
}

func (m Matrix) Equal(other Matrix) bool {
	if len(m) != len(other) {
		return false
	}
	for row, cols := range m {
		otherCols, ok := other[row]
		if !ok || len(cols) != len(otherCols) {
			return false
		}
		for col, val := range cols {
			otherVal, has := otherCols[col]
			if !has || !val.Equal(otherVal) {
				return false
			}
		}
	}
	return true
}

// RowLabels returns the row labels in sorted order.
func (m Matrix) RowLabels() []string {
	labels := make([]string, 0, len(m))
	for row := range m {
		labels = append(labels, row)
	}
	sort.Strings(labels)
	return labels
}

// ColumnLabels returns the union of column labels across rows, sorted.
func (m Matrix) ColumnLabels() []string {
	seen := map[string]struct{}{}
	for _, cols := range m {
		for col := range cols {
			seen[col] = struct{}{}
		}
	}
	labels := make([]string, 0, len(seen))
	for col := range seen {
		labels = append(labels, col)
	}
	sort.Strings(labels)
	return labels
}
