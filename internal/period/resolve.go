package period

import "strings"

// ExcludeSet tracks already-picked column labels, compared
// case-insensitively.
type ExcludeSet map[string]struct{}

func NewExcludeSet(labels ...string) ExcludeSet {
	set := make(ExcludeSet, len(labels))
	for _, l := range labels {
		set.Add(l)
	}
	return set
}

func (s ExcludeSet) Add(label string) {
	s[strings.ToLower(strings.TrimSpace(label))] = struct{}{}
}

func (s ExcludeSet) Has(label string) bool {
	_, ok := s[strings.ToLower(strings.TrimSpace(label))]
	return ok
}

// ResolveColumn picks the column label to use for target out of the labels
// actually present in sparse data. An exact case-insensitive match wins and
// is returned in its stored casing. Otherwise the parseable candidate with
// the smallest absolute month distance wins, ties going to the first
// encountered. Returns false when no candidate remains.
//
// Callers resolve current, then previous, then last-year with a growing
// exclude set so the three picks are pairwise distinct whenever at least
// three candidates exist.
func ResolveColumn(target Period, available []string, exclude ExcludeSet) (string, bool) {
	targetLabel := target.Label()
	for _, label := range available {
		if exclude.Has(label) {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(label), targetLabel) {
			return label, true
		}
		if p, ok := ParseLabel(label); ok && p == target {
			return label, true
		}
	}
	best := ""
	bestDist := -1
	for _, label := range available {
		if exclude.Has(label) {
			continue
		}
		p, ok := ParseLabel(label)
		if !ok {
			continue
		}
		dist := p.DistanceMonths(target)
		if bestDist < 0 || dist < bestDist {
			best = label
			bestDist = dist
		}
	}
	if bestDist < 0 {
		return "", false
	}
	return best, true
}

// ResolveTargets applies ResolveColumn three times with a growing exclude
// set. ok is false when fewer than three distinct columns could be found.
type ResolvedColumns struct {
	Current  string
	Previous string
	LastYear string
}

func ResolveTargets(targets Targets, available []string) (ResolvedColumns, bool) {
	exclude := NewExcludeSet()
	current, ok := ResolveColumn(targets.Current, available, exclude)
	if !ok {
		return ResolvedColumns{}, false
	}
	exclude.Add(current)
	previous, ok := ResolveColumn(targets.Previous, available, exclude)
	if !ok {
		return ResolvedColumns{}, false
	}
	exclude.Add(previous)
	lastYear, ok := ResolveColumn(targets.LastYear, available, exclude)
	if !ok {
		return ResolvedColumns{}, false
	}
	return ResolvedColumns{Current: current, Previous: previous, LastYear: lastYear}, true
}
