package assignment

import (
	"sort"
	"strings"
	"time"
)

// Query runs the list screen's filter and sort over the full record set, in
// memory. It is a pure function: the input slice is left untouched and the
// same inputs always produce the same ordered sequence. Equal sort keys keep
// their original relative order.
func Query(assignments []Assignment, filter QueryFilter, srt Sort) []Assignment {
	res := make([]Assignment, 0, len(assignments))
	for _, a := range assignments {
		if matches(a, filter) {
			res = append(res, a)
		}
	}

	cmp := comparator(srt.Key)
	if cmp == nil {
		return res // unknown sort key: keep the filtered order
	}
	sort.SliceStable(res, func(i, j int) bool {
		c := cmp(res[i], res[j])
		if srt.Descending {
			return c > 0
		}
		return c < 0
	})
	return res
}

func matches(a Assignment, filter QueryFilter) bool {
	if !(filter.Status == "" || filter.Status == StatusAll || a.Status == filter.Status) {
		return false
	}
	if filter.Search == "" {
		return true
	}
	term := strings.ToLower(filter.Search)
	return strings.Contains(strings.ToLower(a.UserName.String), term) ||
		strings.Contains(strings.ToLower(a.Title.String), term)
}

func comparator(key SortKey) func(a, b Assignment) int {
	switch key {
	case SortByName:
		return func(a, b Assignment) int {
			return strings.Compare(strings.ToLower(a.UserName.String), strings.ToLower(b.UserName.String))
		}
	case SortBySubmittedAt:
		return func(a, b Assignment) int {
			at, bt := submittedAt(a), submittedAt(b)
			switch {
			case at.Before(bt):
				return -1
			case at.After(bt):
				return 1
			}
			return 0
		}
	case SortByStatus:
		return func(a, b Assignment) int {
			return strings.Compare(a.Status, b.Status)
		}
	case SortByScore:
		return func(a, b Assignment) int {
			return scoreValue(a) - scoreValue(b)
		}
	}
	return nil
}

// submittedAt treats a missing timestamp as the earliest possible instant.
func submittedAt(a Assignment) time.Time {
	if a.SubmittedAt.Valid {
		return a.SubmittedAt.Time
	}
	return time.Time{}
}

// scoreValue sorts a missing score below any real score, 0 included.
func scoreValue(a Assignment) int {
	if a.Score.Valid {
		return a.Score.Int
	}
	return -1
}
