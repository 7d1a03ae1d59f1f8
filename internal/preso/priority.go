package preso

import (
	"math"
	"sort"
	"time"
)

// Tier buckets by elapsed days since the detention began. Lower tier sorts
// first: the longest-pending cases surface at the top of the list.
const (
	TierCritical  = 1 // more than 90 days
	TierAttention = 2 // 31 to 90 days
	TierRecent    = 3 // 30 days or fewer
)

const dateOnly = "2006-01-02"

// ElapsedDays returns the whole days elapsed between quandoPrendeu and now,
// rounded down. A missing or unparseable date counts as zero, which lands
// the record in the recent tier instead of failing the sort.
func ElapsedDays(now time.Time, quandoPrendeu string) int {
	if quandoPrendeu == "" {
		return 0
	}
	started, err := time.Parse(dateOnly, quandoPrendeu)
	if err != nil {
		started, err = time.Parse(time.RFC3339, quandoPrendeu)
		if err != nil {
			return 0
		}
	}
	return int(math.Floor(now.Sub(started).Hours() / 24))
}

// TierFor maps elapsed days to a priority tier.
func TierFor(elapsedDays int) int {
	switch {
	case elapsedDays > 90:
		return TierCritical
	case elapsedDays > 30:
		return TierAttention
	default:
		return TierRecent
	}
}

// SortByPriority orders records in place: tier ascending, then elapsed days
// descending within a tier. Elapsed days are computed once against the
// single now snapshot so the comparison is a total order, and the sort is
// stable so unchanged input keeps producing the same output.
func SortByPriority(records []Record, now time.Time) {
	type keyed struct {
		rec     Record
		tier    int
		elapsed int
	}
	items := make([]keyed, len(records))
	for i, rec := range records {
		elapsed := ElapsedDays(now, rec.QuandoPrendeu)
		items[i] = keyed{rec: rec, tier: TierFor(elapsed), elapsed: elapsed}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].tier != items[j].tier {
			return items[i].tier < items[j].tier
		}
		return items[i].elapsed > items[j].elapsed
	})
	for i := range items {
		records[i] = items[i].rec
	}
}
