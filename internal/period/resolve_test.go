package period

import (
	"testing"
	"time"
)

func TestResolveColumn(t *testing.T) {
	cases := []struct {
		name      string
		target    Period
		available []string
		exclude   []string
		want      string
		ok        bool
	}{
		{
			name:      "exact match keeps stored casing",
			target:    Period{2025, time.January},
			available: []string{"Jan_25", "dec_24"},
			want:      "Jan_25",
			ok:        true,
		},
		{
			name:      "exact match in iso form",
			target:    Period{2025, time.January},
			available: []string{"2025-01", "2024-12"},
			want:      "2025-01",
			ok:        true,
		},
		{
			name:      "nearest month fallback",
			target:    Period{2025, time.March},
			available: []string{"jan_25", "may_25"},
			want:      "jan_25",
			ok:        true,
		},
		{
			name:      "first wins on distance tie",
			target:    Period{2025, time.March},
			available: []string{"feb_25", "apr_25"},
			want:      "feb_25",
			ok:        true,
		},
		{
			name:      "excluded exact match falls to nearest",
			target:    Period{2025, time.January},
			available: []string{"jan_25", "dec_24"},
			exclude:   []string{"JAN_25"},
			want:      "dec_24",
			ok:        true,
		},
		{
			name:      "unparseable labels are ignored",
			target:    Period{2025, time.January},
			available: []string{"total", "notes"},
			ok:        false,
		},
		{
			name:      "everything excluded",
			target:    Period{2025, time.January},
			available: []string{"jan_25"},
			exclude:   []string{"jan_25"},
			ok:        false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ResolveColumn(tc.target, tc.available, NewExcludeSet(tc.exclude...))
			if ok != tc.ok {
				t.Fatalf("ResolveColumn ok = %v, want %v", ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Fatalf("ResolveColumn = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestResolveTargetsDistinctPicks(t *testing.T) {
	targets := TargetPeriods(Period{2025, time.January})

	t.Run("all exact", func(t *testing.T) {
		cols, ok := ResolveTargets(targets, []string{"jan_25", "dec_24", "jan_24"})
		if !ok {
			t.Fatal("expected resolution to succeed")
		}
		if cols.Current != "jan_25" || cols.Previous != "dec_24" || cols.LastYear != "jan_24" {
			t.Fatalf("unexpected picks: %+v", cols)
		}
	})

	t.Run("fallbacks stay pairwise distinct", func(t *testing.T) {
		cols, ok := ResolveTargets(targets, []string{"jan_25", "nov_24", "feb_24"})
		if !ok {
			t.Fatal("expected resolution to succeed")
		}
		if cols.Current == cols.Previous || cols.Previous == cols.LastYear || cols.Current == cols.LastYear {
			t.Fatalf("picks not distinct: %+v", cols)
		}
	})

	t.Run("fewer than three candidates fails", func(t *testing.T) {
		if _, ok := ResolveTargets(targets, []string{"jan_25", "dec_24"}); ok {
			t.Fatal("expected resolution to fail with two candidates")
		}
	})
}
