package assignment

import (
	"reflect"
	"testing"
	"time"

	"github.com/volatiletech/null/v8"
)

func asg(id, userName, title, status string, score *int, submittedAt time.Time) Assignment {
	return Assignment{
		ID:          id,
		UserName:    null.NewString(userName, userName != ""),
		Title:       null.NewString(title, title != ""),
		Status:      status,
		Score:       null.IntFromPtr(score),
		SubmittedAt: null.NewTime(submittedAt, !submittedAt.IsZero()),
	}
}

func ids(asgs []Assignment) []string {
	res := make([]string, 0, len(asgs))
	for _, a := range asgs {
		res = append(res, a.ID)
	}
	return res
}

func iPtr(i int) *int { return &i }

func TestQuery(t *testing.T) {
	t1 := time.Date(2021, 1, 10, 8, 0, 0, 0, time.UTC)
	t2 := time.Date(2021, 2, 20, 8, 0, 0, 0, time.UTC)
	t3 := time.Date(2021, 3, 30, 8, 0, 0, 0, time.UTC)

	jane := asg("a1", "Jane Doe", "Essay on Rivers", StatusScored, iPtr(85), t2)
	john := asg("a2", "John Smith", "Essay on Lakes", StatusPending, nil, t1)
	amani := asg("a3", "Amani K", "Mountains", StatusScored, iPtr(0), t3)
	anon := asg("a4", "", "", StatusPending, nil, time.Time{})
	all := []Assignment{jane, john, amani, anon}

	tests := []struct {
		name   string
		filter QueryFilter
		sort   Sort
		want   []string
	}{
		{name: "no filter no sort keeps order", want: []string{"a1", "a2", "a3", "a4"}},
		{name: "status all passes everything", filter: QueryFilter{Status: StatusAll}, want: []string{"a1", "a2", "a3", "a4"}},
		{name: "status pending", filter: QueryFilter{Status: StatusPending}, want: []string{"a2", "a4"}},
		{name: "status scored", filter: QueryFilter{Status: StatusScored}, want: []string{"a1", "a3"}},
		{name: "search matches name case-insensitively", filter: QueryFilter{Search: "jane"}, want: []string{"a1"}},
		{name: "search matches title", filter: QueryFilter{Search: "essay"}, want: []string{"a1", "a2"}},
		{name: "search substring", filter: QueryFilter{Search: "oHn"}, want: []string{"a2"}},
		{name: "search misses", filter: QueryFilter{Search: "nobody"}, want: []string{}},
		{name: "search and status combine", filter: QueryFilter{Search: "essay", Status: StatusPending}, want: []string{"a2"}},
		{name: "sort by name ascending, empty name first", sort: Sort{Key: SortByName}, want: []string{"a4", "a3", "a1", "a2"}},
		{name: "sort by name descending", sort: Sort{Key: SortByName, Descending: true}, want: []string{"a2", "a1", "a3", "a4"}},
		{name: "sort by score, missing score below zero", sort: Sort{Key: SortByScore}, want: []string{"a2", "a4", "a3", "a1"}},
		{name: "sort by score descending", sort: Sort{Key: SortByScore, Descending: true}, want: []string{"a1", "a3", "a2", "a4"}},
		{name: "sort by submitted_at, missing dates first", sort: Sort{Key: SortBySubmittedAt}, want: []string{"a4", "a2", "a1", "a3"}},
		{name: "sort by status lexicographic", sort: Sort{Key: SortByStatus}, want: []string{"a2", "a4", "a1", "a3"}},
		{name: "unknown sort key keeps filtered order", sort: Sort{Key: "nope"}, want: []string{"a1", "a2", "a3", "a4"}},
		{name: "filter and sort combine", filter: QueryFilter{Status: StatusScored}, sort: Sort{Key: SortByScore, Descending: true}, want: []string{"a1", "a3"}},
		{name: "pending newest first", filter: QueryFilter{Status: StatusPending}, sort: Sort{Key: SortBySubmittedAt, Descending: true}, want: []string{"a2", "a4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Query(all, tt.filter, tt.sort))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Query() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQuery_inputUntouched(t *testing.T) {
	t1 := time.Date(2021, 1, 10, 8, 0, 0, 0, time.UTC)
	all := []Assignment{
		asg("a1", "Zed", "Z", StatusPending, nil, t1),
		asg("a2", "Abe", "A", StatusScored, iPtr(50), t1),
	}
	want := ids(all)

	_ = Query(all, QueryFilter{}, Sort{Key: SortByName})

	if got := ids(all); !reflect.DeepEqual(got, want) {
		t.Errorf("input order changed: got %v, want %v", got, want)
	}
}

// Equal keys must keep their pre-sort relative order.
func TestQuery_stableSort(t *testing.T) {
	all := []Assignment{
		asg("a1", "Same", "1", StatusPending, iPtr(10), time.Time{}),
		asg("a2", "Same", "2", StatusPending, iPtr(10), time.Time{}),
		asg("a3", "Same", "3", StatusPending, iPtr(10), time.Time{}),
		asg("a4", "Aaa", "4", StatusPending, iPtr(5), time.Time{}),
	}

	for _, key := range []SortKey{SortByName, SortByScore, SortByStatus, SortBySubmittedAt} {
		got := ids(Query(all, QueryFilter{}, Sort{Key: key}))
		idx := make(map[string]int, len(got))
		for i, id := range got {
			idx[id] = i
		}
		if !(idx["a1"] < idx["a2"] && idx["a2"] < idx["a3"]) {
			t.Errorf("sort by %q not stable: got %v", key, got)
		}
	}
}
