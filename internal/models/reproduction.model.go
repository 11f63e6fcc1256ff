package models

type Reproduction struct {
	ID                   int    `json:"id"`
	Cow                  Ref    `json:"cow"`
	InseminationDate     string `json:"insemination_date"`
	PregnancyCheckDate   string `json:"pregnancy_check_date"`
	EstimatedCalvingDate string `json:"estimated_calving_date"`
	CalvingDate          string `json:"calving_date"`
}

type ReproductionRequest struct {
	CowID                int    `json:"cow_id"`
	InseminationDate     string `json:"insemination_date"`
	PregnancyCheckDate   string `json:"pregnancy_check_date"`
	EstimatedCalvingDate string `json:"estimated_calving_date"`
	CalvingDate          string `json:"calving_date"`
}

type SalesTransaction struct {
	ID           int     `json:"id"`
	Date         string  `json:"transaction_date"`
	Buyer        string  `json:"buyer"`
	Product      string  `json:"product"`
	Quantity     float64 `json:"quantity"`
	PricePerUnit float64 `json:"price_per_unit"`
	Total        float64 `json:"total"`
}

type SalesRequest struct {
	Date         string  `json:"transaction_date"`
	Buyer        string  `json:"buyer"`
	Product      string  `json:"product"`
	Quantity     float64 `json:"quantity"`
	PricePerUnit float64 `json:"price_per_unit"`
}

type MilkYield struct {
	ID     int     `json:"id"`
	Cow    Ref     `json:"cow"`
	Date   string  `json:"date"`
	Liters float64 `json:"liters"`
}

type MilkYieldRequest struct {
	CowID  int     `json:"cow_id"`
	Date   string  `json:"date"`
	Liters float64 `json:"liters"`
}
