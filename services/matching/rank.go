package matching

import (
	"fmt"
	"sort"
	"strings"

	"shootdispatch/models"
)

// Filters and sort keys accepted in RankOptions.
const (
	FilterAll       = "all"
	FilterAvailable = "available"
	FilterBooked    = "booked"

	SortDistance     = "distance"
	SortName         = "name"
	SortAvailability = "availability"
	SortWorkload     = "workload"
)

// ValidateOptions rejects unknown filter and sort values. Empty values take the
// defaults (all, distance).
func ValidateOptions(opts models.RankOptions) error {
	switch opts.Filter {
	case "", FilterAll, FilterAvailable, FilterBooked:
	default:
		return fmt.Errorf("unknown filter %q", opts.Filter)
	}
	switch opts.SortBy {
	case "", SortDistance, SortName, SortAvailability, SortWorkload:
	default:
		return fmt.Errorf("unknown sortBy %q", opts.SortBy)
	}
	return nil
}

// Rank applies availability, filter, search and sort to decorated candidates.
// It is pure: the input slice is not modified.
//
// A photographer with an entry in availability takes that entry. Without a map,
// or without an entry, a photographer counts as available unless busy.
func Rank(candidates []models.CandidateRanking, opts models.RankOptions, availability map[string]models.WindowAvailability) []models.CandidateRanking {
	search := strings.ToLower(strings.TrimSpace(opts.Search))

	out := make([]models.CandidateRanking, 0, len(candidates))
	for _, c := range candidates {
		applyAvailability(&c, availability)
		if !matchesFilter(c, opts.Filter) || !matchesSearch(c.Photographer, search) {
			continue
		}
		out = append(out, c)
	}

	sort.SliceStable(out, lessFunc(out, opts.SortBy, opts.Descending))
	return out
}

func applyAvailability(c *models.CandidateRanking, availability map[string]models.WindowAvailability) {
	if w, ok := availability[c.Photographer.ID]; ok {
		c.IsAvailable = w.IsAvailable
		c.NextAvailableTimes = append([]string{}, w.NextAvailableTimes...)
		return
	}
	c.IsAvailable = c.Photographer.Status != models.StatusBusy
	c.NextAvailableTimes = []string{}
}

func matchesFilter(c models.CandidateRanking, filter string) bool {
	switch filter {
	case FilterAvailable:
		return c.IsAvailable
	case FilterBooked:
		return !c.IsAvailable
	default:
		return true
	}
}

func matchesSearch(p models.Photographer, search string) bool {
	if search == "" {
		return true
	}
	for _, field := range []string{p.Name, p.Address.City, p.Address.State} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

// keyFunc compares two candidates on one key and reports which of them has no
// value for it. Missing values stay last in either direction.
type keyFunc func(a, b models.CandidateRanking) (cmp int, aMissing, bMissing bool)

func lessFunc(list []models.CandidateRanking, sortBy string, desc bool) func(i, j int) bool {
	key := keyFor(sortBy)
	return func(i, j int) bool {
		a, b := list[i], list[j]
		cmp, aMissing, bMissing := key(a, b)
		switch {
		case aMissing && bMissing:
			return tieBreak(a, b) < 0
		case aMissing:
			return false
		case bMissing:
			return true
		}
		if cmp != 0 {
			if desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return tieBreak(a, b) < 0
	}
}

func keyFor(sortBy string) keyFunc {
	switch sortBy {
	case SortName:
		return byName
	case SortAvailability:
		return byEarliestSlot
	case SortWorkload:
		return byWorkload
	default:
		return byDistance
	}
}

func byDistance(a, b models.CandidateRanking) (int, bool, bool) {
	if a.DistanceMiles == nil || b.DistanceMiles == nil {
		return 0, a.DistanceMiles == nil, b.DistanceMiles == nil
	}
	return compareFloat(*a.DistanceMiles, *b.DistanceMiles), false, false
}

func byName(a, b models.CandidateRanking) (int, bool, bool) {
	return strings.Compare(strings.ToLower(a.Photographer.Name), strings.ToLower(b.Photographer.Name)), false, false
}

// noSlotSentinel sorts after every real "HH:MM" start.
const noSlotSentinel = "23:59"

func byEarliestSlot(a, b models.CandidateRanking) (int, bool, bool) {
	ka, kb := earliestSlot(a), earliestSlot(b)
	return strings.Compare(ka, kb), len(a.NextAvailableTimes) == 0, len(b.NextAvailableTimes) == 0
}

func earliestSlot(c models.CandidateRanking) string {
	if len(c.NextAvailableTimes) == 0 {
		return noSlotSentinel
	}
	return c.NextAvailableTimes[0]
}

func byWorkload(a, b models.CandidateRanking) (int, bool, bool) {
	return a.Photographer.LoadToday - b.Photographer.LoadToday, false, false
}

// tieBreak orders equal keys by lighter load then name.
func tieBreak(a, b models.CandidateRanking) int {
	if d := a.Photographer.LoadToday - b.Photographer.LoadToday; d != 0 {
		return d
	}
	return strings.Compare(strings.ToLower(a.Photographer.Name), strings.ToLower(b.Photographer.Name))
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
