package types

import (
	"encoding/json"
	"testing"
)

func mustMatrix(t *testing.T, raw string) Matrix {
	t.Helper()
	m, err := MatrixFromJSON([]byte(raw))
	if err != nil {
		t.Fatalf("MatrixFromJSON: %v", err)
	}
	return m
}

func TestMatrixMerge(t *testing.T) {
	cases := []struct {
		name        string
		existing    string
		incoming    string
		want        string
		wantChanged bool
	}{
		{
			name:        "overlapping rows keep untouched cells",
			existing:    `{"A": {"x": 1, "y": 2}}`,
			incoming:    `{"A": {"y": 3, "z": 4}}`,
			want:        `{"A": {"x": 1, "y": 3, "z": 4}}`,
			wantChanged: true,
		},
		{
			name:        "new row",
			existing:    `{"A": {"x": 1}}`,
			incoming:    `{"B": {"x": 2}}`,
			want:        `{"A": {"x": 1}, "B": {"x": 2}}`,
			wantChanged: true,
		},
		{
			name:        "identical payload is a no-op",
			existing:    `{"A": {"x": 1, "y": "n/a"}}`,
			incoming:    `{"A": {"x": 1, "y": "n/a"}}`,
			want:        `{"A": {"x": 1, "y": "n/a"}}`,
			wantChanged: false,
		},
		{
			name:        "null overwrites number",
			existing:    `{"A": {"x": 1}}`,
			incoming:    `{"A": {"x": null}}`,
			want:        `{"A": {"x": null}}`,
			wantChanged: true,
		},
		{
			name:        "text overwrites number",
			existing:    `{"A": {"x": 1}}`,
			incoming:    `{"A": {"x": "tbd"}}`,
			want:        `{"A": {"x": "tbd"}}`,
			wantChanged: true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			existing := mustMatrix(t, tc.existing)
			changed := existing.Merge(mustMatrix(t, tc.incoming))
			if changed != tc.wantChanged {
				t.Fatalf("Merge changed = %v, want %v", changed, tc.wantChanged)
			}
			if want := mustMatrix(t, tc.want); !existing.Equal(want) {
				got, _ := existing.ToJSON()
				t.Fatalf("merged matrix = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestMatrixMergeIdempotent(t *testing.T) {
	existing := mustMatrix(t, `{"A": {"x": 1}}`)
	incoming := mustMatrix(t, `{"A": {"y": 2}, "B": {"x": 3}}`)
	if !existing.Merge(incoming) {
		t.Fatal("first merge should report a change")
	}
	if existing.Merge(incoming) {
		t.Fatal("second merge of the same payload should be a no-op")
	}
}

func TestMatrixDeleteCell(t *testing.T) {
	m := mustMatrix(t, `{"A": {"x": 1, "y": 2}, "B": {"x": 3}}`)

	if !m.DeleteCell("A", "x") {
		t.Fatal("expected deletion of A/x")
	}
	if _, ok := m["A"]["x"]; ok {
		t.Fatal("A/x still present")
	}
	if m.DeleteCell("A", "x") {
		t.Fatal("deleting a missing cell should report false")
	}
	if m.DeleteCell("C", "x") {
		t.Fatal("deleting from a missing row should report false")
	}

	// Removing the last cell of a row prunes the row.
	if !m.DeleteCell("B", "x") {
		t.Fatal("expected deletion of B/x")
	}
	if _, ok := m["B"]; ok {
		t.Fatal("row B should be pruned once empty")
	}

	if !m.DeleteCell("A", "y") {
		t.Fatal("expected deletion of A/y")
	}
	if !m.Empty() {
		t.Fatalf("matrix should be empty, got %v", m)
	}
}

func TestCellJSONRoundTrip(t *testing.T) {
	raw := `{"A":{"num":12.5,"txt":"n/a","nil":null}}`
	m := mustMatrix(t, raw)

	if c := m["A"]["num"]; c.Number == nil || *c.Number != 12.5 {
		t.Fatalf("num cell = %+v", c)
	}
	if c := m["A"]["txt"]; c.Text == nil || *c.Text != "n/a" {
		t.Fatalf("txt cell = %+v", c)
	}
	if c := m["A"]["nil"]; !c.IsNull() {
		t.Fatalf("nil cell = %+v", c)
	}

	out, err := m.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	var round Matrix
	if err := json.Unmarshal(out, &round); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if !m.Equal(round) {
		t.Fatalf("round trip mismatch: %s vs %s", raw, out)
	}
}

func TestMatrixLabels(t *testing.T) {
	m := mustMatrix(t, `{"B": {"jan_25": 1}, "A": {"dec_24": 2, "jan_25": 3}}`)
	rows := m.RowLabels()
	if len(rows) != 2 || rows[0] != "A" || rows[1] != "B" {
		t.Fatalf("RowLabels = %v", rows)
	}
	cols := m.ColumnLabels()
	if len(cols) != 2 || cols[0] != "dec_24" || cols[1] != "jan_25" {
		t.Fatalf("ColumnLabels = %v", cols)
	}
}
