package dataprocessing

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"hoursreport/pkg/contracts/domain"
)

// dateLayouts are tried in order when reading a CheckDate.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"1/2/2006",
	"01/02/2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"1/2/06",
	"01/02/06",
	"1-2-2006",
	"01-02-2006",
	"1-2-06",
	"01-02-06",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"2006/01/02",
	"2006/1/2",
	"Mon Jan 2 2006",
	"Mon, 02 Jan 2006",
	"2006-01",
}

// ParseCheckDate reads a CheckDate in any of the layouts seen in time-tracking
// exports, including Excel serial day numbers.
func ParseCheckDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		// Only serials in a plausible range, so bare years are not read as dates.
		if serial >= 20000 && serial <= 80000 {
			if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
				return t, true
			}
		}
		// Other numbers only count as dates when they are a bare year.
		if t, err := time.Parse("2006", value); err == nil {
			return t, true
		}
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DistinctDates returns the non-empty CheckDate values of records, deduplicated
// and sorted by calendar date. Values that are not recognizable dates are kept
// and sort after every real date, in lexicographic order.
func DistinctDates(records []domain.Record) []string {
	seen := make(map[string]struct{})
	var dates []string
	for _, rec := range records {
		d := rec.CheckDate
		if strings.TrimSpace(d) == "" {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		dates = append(dates, d)
	}
	SortDates(dates)
	return dates
}

// SortDates sorts date strings in place using the DistinctDates ordering.
func SortDates(dates []string) {
	type key struct {
		t  time.Time
		ok bool
	}
	keys := make(map[string]key, len(dates))
	for _, d := range dates {
		t, ok := ParseCheckDate(d)
		keys[d] = key{t: t, ok: ok}
	}

	sort.SliceStable(dates, func(i, j int) bool {
		a, b := keys[dates[i]], keys[dates[j]]
		switch {
		case a.ok && b.ok:
			if !a.t.Equal(b.t) {
				return a.t.Before(b.t)
			}
			return dates[i] < dates[j]
		case a.ok != b.ok:
			return a.ok
		default:
			return dates[i] < dates[j]
		}
	})
}
