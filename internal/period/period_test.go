package period

import (
	"testing"
	"time"
)

func TestParseLabel(t *testing.T) {
	cases := []struct {
		name  string
		label string
		want  Period
		ok    bool
	}{
		{name: "iso", label: "2025-01", want: Period{2025, time.January}, ok: true},
		{name: "iso single digit month", label: "2025-3", want: Period{2025, time.March}, ok: true},
		{name: "short underscore", label: "jan_25", want: Period{2025, time.January}, ok: true},
		{name: "short dash", label: "feb-24", want: Period{2024, time.February}, ok: true},
		{name: "short space full year", label: "mar 2025", want: Period{2025, time.March}, ok: true},
		{name: "full month name", label: "January 2025", want: Period{2025, time.January}, ok: true},
		{name: "uppercase", label: "DEC_25", want: Period{2025, time.December}, ok: true},
		{name: "surrounding whitespace", label: "  apr_25  ", want: Period{2025, time.April}, ok: true},
		{name: "month out of range", label: "2025-13", ok: false},
		{name: "three digit year", label: "jan_025", ok: false},
		{name: "unknown month", label: "xyz_25", ok: false},
		{name: "empty", label: "", ok: false},
		{name: "not a label", label: "overall volume", ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseLabel(tc.label)
			if ok != tc.ok {
				t.Fatalf("ParseLabel(%q) ok = %v, want %v", tc.label, ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Fatalf("ParseLabel(%q) = %v, want %v", tc.label, got, tc.want)
			}
		})
	}
}

func TestPeriodRendering(t *testing.T) {
	p := Period{Year: 2025, Month: time.January}
	if got := p.String(); got != "2025-01" {
		t.Fatalf("String() = %q, want 2025-01", got)
	}
	if got := p.Label(); got != "jan_25" {
		t.Fatalf("Label() = %q, want jan_25", got)
	}
}

func TestAddMonths(t *testing.T) {
	cases := []struct {
		name string
		from Period
		n    int
		want Period
	}{
		{name: "forward within year", from: Period{2025, time.March}, n: 2, want: Period{2025, time.May}},
		{name: "back across year boundary", from: Period{2025, time.January}, n: -1, want: Period{2024, time.December}},
		{name: "back two across boundary", from: Period{2025, time.January}, n: -2, want: Period{2024, time.November}},
		{name: "forward across boundary", from: Period{2024, time.December}, n: 1, want: Period{2025, time.January}},
		{name: "zero", from: Period{2025, time.June}, n: 0, want: Period{2025, time.June}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.from.AddMonths(tc.n); got != tc.want {
				t.Fatalf("AddMonths(%d) = %v, want %v", tc.n, got, tc.want)
			}
		})
	}
}

func TestReportingMonth(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		want Period
	}{
		{
			name: "before the fifth",
			now:  time.Date(2025, time.March, 4, 12, 0, 0, 0, ist),
			want: Period{2025, time.January},
		},
		{
			name: "on the fifth",
			now:  time.Date(2025, time.March, 5, 0, 0, 0, 0, ist),
			want: Period{2025, time.February},
		},
		{
			name: "after the fifth",
			now:  time.Date(2025, time.March, 20, 12, 0, 0, 0, ist),
			want: Period{2025, time.February},
		},
		{
			name: "january before the fifth wraps two months into last year",
			now:  time.Date(2025, time.January, 3, 12, 0, 0, 0, ist),
			want: Period{2024, time.November},
		},
		{
			name: "utc instant converted to ist wall clock",
			// 23:30 UTC Mar 4 is 05:00 IST Mar 5.
			now:  time.Date(2025, time.March, 4, 23, 30, 0, 0, time.UTC),
			want: Period{2025, time.February},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ReportingMonth(tc.now); got != tc.want {
				t.Fatalf("ReportingMonth(%v) = %v, want %v", tc.now, got, tc.want)
			}
		})
	}
}

func TestTargetPeriods(t *testing.T) {
	targets := TargetPeriods(Period{2025, time.January})
	if targets.Current != (Period{2025, time.January}) {
		t.Fatalf("Current = %v", targets.Current)
	}
	if targets.Previous != (Period{2024, time.December}) {
		t.Fatalf("Previous = %v", targets.Previous)
	}
	if targets.LastYear != (Period{2024, time.January}) {
		t.Fatalf("LastYear = %v", targets.LastYear)
	}
}
