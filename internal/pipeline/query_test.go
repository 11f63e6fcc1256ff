package pipeline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type record struct {
	Name string
	Age  float64
	Date string
}

var recordSpec = Spec[record]{
	SearchFields: func(r record) []string { return []string{r.Name} },
	Comparators: map[string]func(a, b record) int{
		"name": func(a, b record) int { return CompareStrings(a.Name, b.Name) },
		"age":  func(a, b record) int { return CompareNumbers(a.Age, b.Age) },
		"date": func(a, b record) int { return CompareDates(a.Date, b.Date) },
	},
}

func sampleRecords() []record {
	return []record{
		{Name: "Bella", Age: 4, Date: "2021-03-01"},
		{Name: "Daisy", Age: 2, Date: "2023-06-15"},
		{Name: "Anna", Age: 6, Date: "2019-01-20"},
		{Name: "bella mae", Age: 3, Date: "2022-11-05"},
		{Name: "Clover", Age: 5, Date: "2020-08-30"},
	}
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name     string
		term     string
		expected []string
	}{
		{
			name:     "empty term matches everything",
			term:     "",
			expected: []string{"Bella", "Daisy", "Anna", "bella mae", "Clover"},
		},
		{
			name:     "whitespace only term matches everything",
			term:     "   ",
			expected: []string{"Bella", "Daisy", "Anna", "bella mae", "Clover"},
		},
		{
			name:     "case insensitive substring",
			term:     "BELLA",
			expected: []string{"Bella", "bella mae"},
		},
		{
			name:     "no matches",
			term:     "zebra",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched := Search(sampleRecords(), tt.term, recordSpec.SearchFields)

			names := make([]string, 0, len(matched))
			for _, r := range matched {
				names = append(names, r.Name)
			}
			assert.Equal(t, tt.expected, names)
		})
	}
}

func TestSort_ToggleReversesOrder(t *testing.T) {
	items := sampleRecords()

	asc := Sort(items, "age", Ascending, recordSpec.Comparators)
	desc := Sort(items, "age", Ascending.Toggle(), recordSpec.Comparators)

	assert.Len(t, desc, len(asc))
	for i := range asc {
		assert.Equal(t, asc[i], desc[len(desc)-1-i])
	}
}

func TestSort_UnknownKeyKeepsInputOrder(t *testing.T) {
	items := sampleRecords()
	sorted := Sort(items, "nonsense", Ascending, recordSpec.Comparators)
	assert.Equal(t, items, sorted)
}

func TestSort_StableForTies(t *testing.T) {
	items := []record{
		{Name: "first", Age: 3},
		{Name: "second", Age: 3},
		{Name: "third", Age: 3},
	}

	sorted := Sort(items, "age", Ascending, recordSpec.Comparators)
	assert.Equal(t, items, sorted)
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	items := sampleRecords()
	original := make([]record, len(items))
	copy(original, items)

	Sort(items, "name", Descending, recordSpec.Comparators)
	assert.Equal(t, original, items)
}

func TestSort_DatesByParsedTimestamp(t *testing.T) {
	sorted := Sort(sampleRecords(), "date", Ascending, recordSpec.Comparators)

	dates := make([]string, 0, len(sorted))
	for _, r := range sorted {
		dates = append(dates, r.Date)
	}
	assert.Equal(t, []string{"2019-01-20", "2020-08-30", "2021-03-01", "2022-11-05", "2023-06-15"}, dates)
}

func TestPaginate(t *testing.T) {
	items := make([]record, 10)
	for i := range items {
		items[i] = record{Name: fmt.Sprintf("cow-%02d", i)}
	}

	tests := []struct {
		name          string
		page          int
		pageSize      int
		expectedPage  int
		expectedItems int
		expectedTotal int
	}{
		{
			name:          "first page full",
			page:          1,
			pageSize:      8,
			expectedPage:  1,
			expectedItems: 8,
			expectedTotal: 2,
		},
		{
			name:          "second page remainder",
			page:          2,
			pageSize:      8,
			expectedPage:  2,
			expectedItems: 2,
			expectedTotal: 2,
		},
		{
			name:          "page past the end clamps to last",
			page:          99,
			pageSize:      8,
			expectedPage:  2,
			expectedItems: 2,
			expectedTotal: 2,
		},
		{
			name:          "page below one clamps to first",
			page:          0,
			pageSize:      8,
			expectedPage:  1,
			expectedItems: 8,
			expectedTotal: 2,
		},
		{
			name:          "exact fit has no spill page",
			page:          2,
			pageSize:      5,
			expectedPage:  2,
			expectedItems: 5,
			expectedTotal: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Paginate(items, tt.page, tt.pageSize)

			assert.Equal(t, tt.expectedPage, result.Page)
			assert.Len(t, result.Items, tt.expectedItems)
			assert.Equal(t, tt.expectedTotal, result.TotalPages)
			assert.Equal(t, 10, result.TotalCount)
		})
	}
}

func TestPaginate_EmptyCollection(t *testing.T) {
	result := Paginate([]record{}, 3, 8)

	assert.Empty(t, result.Items)
	assert.Equal(t, 0, result.TotalCount)
	assert.Equal(t, 0, result.TotalPages)
	assert.Equal(t, 1, result.Page)
}

func TestApply_RecomputedWholesale(t *testing.T) {
	query := Query{Search: "bella", SortKey: "age", Direction: Ascending, Page: 1, PageSize: 8}

	first := Apply(sampleRecords(), query, recordSpec)
	second := Apply(sampleRecords(), query, recordSpec)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, first.TotalCount)
	assert.Equal(t, "bella mae", first.Items[0].Name)
	assert.Equal(t, "Bella", first.Items[1].Name)
}

func TestFilter_IgnoresPagination(t *testing.T) {
	query := Query{SortKey: "name", Direction: Ascending, Page: 2, PageSize: 2}

	filtered := Filter(sampleRecords(), query, recordSpec)
	assert.Len(t, filtered, 5)
	assert.Equal(t, "Anna", filtered[0].Name)
}

func TestParseDirection(t *testing.T) {
	assert.Equal(t, Descending, ParseDirection("desc"))
	assert.Equal(t, Descending, ParseDirection("DESC"))
	assert.Equal(t, Ascending, ParseDirection("asc"))
	assert.Equal(t, Ascending, ParseDirection(""))
	assert.Equal(t, Ascending, ParseDirection("garbage"))
}
