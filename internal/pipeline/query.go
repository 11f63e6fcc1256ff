package pipeline

import (
	"sort"
	"strings"

	"herdview/internal/utils"
)

type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Toggle flips the sort direction. Selecting the same column twice in a
// row reverses the order.
func (d Direction) Toggle() Direction {
	if d == Ascending {
		return Descending
	}
	return Ascending
}

func ParseDirection(raw string) Direction {
	if strings.EqualFold(raw, string(Descending)) {
		return Descending
	}
	return Ascending
}

// Query is the ephemeral list-page state: free-text search, sort column
// and direction, and the requested page.
type Query struct {
	Search    string
	SortKey   string
	Direction Direction
	Page      int
	PageSize  int
}

type Result[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"totalCount"`
	TotalPages int `json:"totalPages"`
	Page       int `json:"page"`
}

// Spec tells the pipeline how to read one record type: which display
// fields the search term matches against, and one comparator per
// sortable column.
type Spec[T any] struct {
	SearchFields func(T) []string
	Comparators  map[string]func(a, b T) int
}

// Apply runs search, sort, and pagination over the visible collection.
// It is a pure function of its inputs and is recomputed wholesale on
// every change; nothing is patched incrementally.
func Apply[T any](items []T, q Query, spec Spec[T]) Result[T] {
	return Paginate(Filter(items, q, spec), q.Page, q.PageSize)
}

// Filter is Apply without the pagination step: the full searched and
// sorted collection, as used by exports.
func Filter[T any](items []T, q Query, spec Spec[T]) []T {
	matched := Search(items, q.Search, spec.SearchFields)
	return Sort(matched, q.SortKey, q.Direction, spec.Comparators)
}

// Search keeps records where any designated display field contains the
// term, case-insensitively. An empty term matches everything.
func Search[T any](items []T, term string, fields func(T) []string) []T {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" || fields == nil {
		return items
	}

	matched := make([]T, 0, len(items))
	for _, item := range items {
		for _, field := range fields(item) {
			if strings.Contains(strings.ToLower(field), term) {
				matched = append(matched, item)
				break
			}
		}
	}

	return matched
}

// Sort orders records by the named column's comparator. The sort is
// stable, so ties keep the collection's original order. An unknown or
// empty sort key leaves the order untouched.
func Sort[T any](items []T, key string, dir Direction, comparators map[string]func(a, b T) int) []T {
	compare, ok := comparators[key]
	if !ok || compare == nil {
		return items
	}

	sorted := make([]T, len(items))
	copy(sorted, items)

	sort.SliceStable(sorted, func(i, j int) bool {
		c := compare(sorted[i], sorted[j])
		if dir == Descending {
			return c > 0
		}
		return c < 0
	})

	return sorted
}

// Paginate slices out one fixed-size page. The page number is clamped to
// the valid range, so the returned items are empty only when the
// collection itself is empty.
func Paginate[T any](items []T, page, pageSize int) Result[T] {
	if pageSize <= 0 {
		pageSize = 1
	}

	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize

	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Result[T]{
		Items:      items[start:end],
		TotalCount: total,
		TotalPages: totalPages,
		Page:       page,
	}
}

// Comparator helpers shared by the per-resource pipeline specs.

func CompareStrings(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func CompareNumbers(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// CompareDates compares two date strings by parsed timestamp. Unparseable
// dates sort before parseable ones so they surface together.
func CompareDates(a, b string) int {
	ta, okA := utils.ParseDate(a)
	tb, okB := utils.ParseDate(b)

	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return -1
	case !okB:
		return 1
	case ta.Before(tb):
		return -1
	case ta.After(tb):
		return 1
	default:
		return 0
	}
}
