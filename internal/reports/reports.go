package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	cowController "herdview/internal/controllers/cows"
	healthCheckController "herdview/internal/controllers/healthchecks"
	milkController "herdview/internal/controllers/milk"
	salesController "herdview/internal/controllers/sales"
)

// Filename is the fixed download name for one report type, stamped with
// the export date.
func Filename(resource string, now time.Time) string {
	return fmt.Sprintf("%s-report-%s.csv", resource, now.Format("2006-01-02"))
}

func render(headers []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(headers); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func Cows(views []cowController.CowView) ([]byte, error) {
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		rows = append(rows, []string{
			strconv.Itoa(v.ID),
			v.Name,
			v.Breed,
			v.Gender,
			strconv.FormatFloat(v.Weight, 'f', 1, 64),
			v.BirthDate,
		})
	}
	return render([]string{"id", "name", "breed", "gender", "weight_kg", "birth_date"}, rows)
}

func HealthChecks(views []healthCheckController.HealthCheckView) ([]byte, error) {
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		rows = append(rows, []string{
			strconv.Itoa(v.ID),
			v.CowName,
			v.CheckupDate,
			strconv.FormatFloat(v.RectalTemperature, 'f', 1, 64),
			strconv.Itoa(v.HeartRate),
			strconv.Itoa(v.RespirationRate),
			strconv.FormatFloat(v.Rumination, 'f', 1, 64),
			string(v.Status),
		})
	}
	return render([]string{"id", "cow", "checkup_date", "rectal_temperature", "heart_rate", "respiration_rate", "rumination", "status"}, rows)
}

func Sales(views []salesController.SalesView) ([]byte, error) {
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		rows = append(rows, []string{
			strconv.Itoa(v.ID),
			v.Date,
			v.Buyer,
			v.Product,
			strconv.FormatFloat(v.Quantity, 'f', 2, 64),
			strconv.FormatFloat(v.PricePerUnit, 'f', 2, 64),
			strconv.FormatFloat(v.Total, 'f', 2, 64),
		})
	}
	return render([]string{"id", "date", "buyer", "product", "quantity", "price_per_unit", "total"}, rows)
}

func MilkYields(views []milkController.MilkYieldView) ([]byte, error) {
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		rows = append(rows, []string{
			strconv.Itoa(v.ID),
			v.CowName,
			v.Date,
			strconv.FormatFloat(v.Liters, 'f', 1, 64),
		})
	}
	return render([]string{"id", "cow", "date", "liters"}, rows)
}
