package reports

import (
	"strings"
	"testing"
	"time"

	cowController "herdview/internal/controllers/cows"
	salesController "herdview/internal/controllers/sales"
	. "herdview/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilename(t *testing.T) {
	stamp := time.Date(2025, 8, 30, 14, 5, 0, 0, time.UTC)
	assert.Equal(t, "cows-report-2025-08-30.csv", Filename("cows", stamp))
	assert.Equal(t, "sales-report-2025-08-30.csv", Filename("sales", stamp))
}

func TestCows_RendersHeaderAndRows(t *testing.T) {
	views := []cowController.CowView{
		{Cow: Cow{ID: 3, Name: "Bella", Breed: "Holstein", Gender: GenderFemale, Weight: 512.5, BirthDate: "2022-03-01"}},
		{Cow: Cow{ID: 5, Name: "Daisy", Breed: "Jersey", Gender: GenderFemale, Weight: 430, BirthDate: "2021-11-12"}},
	}

	body, err := Cows(views)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,name,breed,gender,weight_kg,birth_date", lines[0])
	assert.Equal(t, "3,Bella,Holstein,Female,512.5,2022-03-01", lines[1])
}

func TestCows_EmptyCollectionStillHasHeader(t *testing.T) {
	body, err := Cows(nil)
	require.NoError(t, err)
	assert.Equal(t, "id,name,breed,gender,weight_kg,birth_date\n", string(body))
}

func TestSales_QuotesFieldsWithCommas(t *testing.T) {
	views := []salesController.SalesView{
		{SalesTransaction: SalesTransaction{
			ID: 9, Date: "2025-07-04", Buyer: "Miller, Hans", Product: "Milk",
			Quantity: 120, PricePerUnit: 0.55, Total: 66,
		}},
	}

	body, err := Sales(views)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"Miller, Hans"`)
}
