package models

// HealthStatus is the domain status of a health check. The backend owns
// all transitions; this service only reads it.
type HealthStatus string

const (
	StatusHealthy    HealthStatus = "healthy"
	StatusHandled    HealthStatus = "handled"
	StatusNotHandled HealthStatus = "not handled"
)

// Terminal reports whether the status is one after which the record can
// no longer be edited.
func (s HealthStatus) Terminal() bool {
	return s == StatusHealthy || s == StatusHandled
}

type HealthCheck struct {
	ID                int          `json:"id"`
	Cow               Ref          `json:"cow"`
	CheckupDate       string       `json:"checkup_date"`
	RectalTemperature float64      `json:"rectal_temperature"`
	HeartRate         int          `json:"heart_rate"`
	RespirationRate   int          `json:"respiration_rate"`
	Rumination        float64      `json:"rumination"`
	Status            HealthStatus `json:"status"`
}

type HealthCheckRequest struct {
	CowID             int     `json:"cow_id"`
	CheckupDate       string  `json:"checkup_date"`
	RectalTemperature float64 `json:"rectal_temperature"`
	HeartRate         int     `json:"heart_rate"`
	RespirationRate   int     `json:"respiration_rate"`
	Rumination        float64 `json:"rumination"`
}

type Symptom struct {
	ID                int    `json:"id"`
	HealthCheck       Ref    `json:"health_check"`
	EyeCondition      string `json:"eye_condition"`
	MouthCondition    string `json:"mouth_condition"`
	NoseCondition     string `json:"nose_condition"`
	AnusCondition     string `json:"anus_condition"`
	LegCondition      string `json:"leg_condition"`
	BehaviorCondition string `json:"behavior_condition"`
}

type SymptomRequest struct {
	HealthCheckID     int    `json:"health_check_id"`
	EyeCondition      string `json:"eye_condition"`
	MouthCondition    string `json:"mouth_condition"`
	NoseCondition     string `json:"nose_condition"`
	AnusCondition     string `json:"anus_condition"`
	LegCondition      string `json:"leg_condition"`
	BehaviorCondition string `json:"behavior_condition"`
}

type DiseaseHistory struct {
	ID            int    `json:"id"`
	HealthCheck   Ref    `json:"health_check"`
	DiseaseName   string `json:"disease_name"`
	Description   string `json:"description"`
	TreatmentDate string `json:"treatment_date"`
}

type DiseaseHistoryRequest struct {
	HealthCheckID int    `json:"health_check_id"`
	DiseaseName   string `json:"disease_name"`
	Description   string `json:"description"`
	TreatmentDate string `json:"treatment_date"`
}
