package period

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Period is the canonical internal month representation. Every label format
// accepted at the API boundary (yyyy-MM, MMM_yy, MMM-yy, "MMM yyyy") is
// normalized into this type before any comparison.
type Period struct {
	Year  int
	Month time.Month
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Label renders the short lowercase spreadsheet form, e.g. "jan_25".
func (p Period) Label() string {
	return fmt.Sprintf("%s_%02d", strings.ToLower(p.Month.String()[:3]), p.Year%100)
}

func (p Period) AddMonths(n int) Period {
	total := p.Year*12 + int(p.Month) - 1 + n
	return Period{Year: total / 12, Month: time.Month(total%12 + 1)}
}

// DistanceMonths is the absolute calendar distance between two periods.
func (p Period) DistanceMonths(other Period) int {
	a := p.Year*12 + int(p.Month)
	b := other.Year*12 + int(other.Month)
	if a > b {
		return a - b
	}
	return b - a
}

var (
	isoPattern   = regexp.MustCompile(`^(\d{4})-(\d{1,2})$`)
	shortMonths  = map[string]time.Month{}
	labelSplitRE = regexp.MustCompile(`[_\-\s]+`)
)

func init() {
	for m := time.January; m <= time.December; m++ {
		shortMonths[strings.ToLower(m.String()[:3])] = m
	}
}

// ParseLabel normalizes any of the month-label formats seen in uploaded data
// into a Period. Recognized: "2025-01", "jan_25", "jan-25", "jan 25",
// "jan 2025", "January 2025" (month names matched on their first three
// letters, case-insensitive).
func ParseLabel(label string) (Period, bool) {
	s := strings.ToLower(strings.TrimSpace(label))
	if s == "" {
		return Period{}, false
	}
	if m := isoPattern.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if month < 1 || month > 12 {
			return Period{}, false
		}
		return Period{Year: year, Month: time.Month(month)}, true
	}
	parts := labelSplitRE.Split(s, -1)
	if len(parts) != 2 {
		return Period{}, false
	}
	name := parts[0]
	if len(name) < 3 {
		return Period{}, false
	}
	month, ok := shortMonths[name[:3]]
	if !ok {
		return Period{}, false
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return Period{}, false
	}
	switch {
	case len(parts[1]) == 4:
	case len(parts[1]) == 2:
		year += 2000
	default:
		return Period{}, false
	}
	return Period{Year: year, Month: month}, true
}

// ist is the reporting time zone. The cadence rule is defined against
// Asia/Kolkata wall-clock days regardless of where the server runs.
var ist = loadIST()

func loadIST() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		return time.FixedZone("IST", 5*3600+30*60)
	}
	return loc
}

// ReportingMonth applies the publication-lag cadence rule: data for month M
// only counts as current from the 5th of M+1 (IST). Before the 5th the
// reporting month is two months back, from the 5th onward it is the previous
// month.
func ReportingMonth(now time.Time) Period {
	local := now.In(ist)
	base := Period{Year: local.Year(), Month: local.Month()}
	if local.Day() >= 5 {
		return base.AddMonths(-1)
	}
	return base.AddMonths(-2)
}

// Targets are the three comparison periods every chart request resolves.
type Targets struct {
	Current  Period
	Previous Period
	LastYear Period
}

func TargetPeriods(base Period) Targets {
	return Targets{
		Current:  base,
		Previous: base.AddMonths(-1),
		LastYear: Period{Year: base.Year - 1, Month: base.Month},
	}
}
