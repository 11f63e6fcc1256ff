package farmapi

import (
	"context"
	"fmt"
	"net/http"

	. "herdview/internal/models"
)

func (c *Client) HealthChecks(ctx context.Context) ([]HealthCheck, error) {
	raw, err := c.get(ctx, "/health-checks")
	if err != nil {
		return nil, err
	}
	return decodeList[HealthCheck](raw, "health_checks")
}

func (c *Client) HealthChecksByUser(ctx context.Context, userID int) ([]HealthCheck, error) {
	raw, err := c.get(ctx, fmt.Sprintf("/health-checks/user/%d", userID))
	if err != nil {
		return nil, err
	}
	return decodeList[HealthCheck](raw, "health_checks")
}

func (c *Client) CreateHealthCheck(ctx context.Context, request HealthCheckRequest) (HealthCheck, error) {
	raw, err := c.do(ctx, http.MethodPost, "/health-checks", request)
	if err != nil {
		return HealthCheck{}, err
	}
	return decodeObject[HealthCheck](raw, "health_check")
}

func (c *Client) UpdateHealthCheck(ctx context.Context, id int, request HealthCheckRequest) (HealthCheck, error) {
	raw, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/health-checks/%d", id), request)
	if err != nil {
		return HealthCheck{}, err
	}
	return decodeObject[HealthCheck](raw, "health_check")
}

func (c *Client) DeleteHealthCheck(ctx context.Context, id int) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/health-checks/%d", id), nil)
	return err
}

func (c *Client) Symptoms(ctx context.Context) ([]Symptom, error) {
	raw, err := c.get(ctx, "/symptoms")
	if err != nil {
		return nil, err
	}
	return decodeList[Symptom](raw, "symptoms")
}

func (c *Client) CreateSymptom(ctx context.Context, request SymptomRequest) (Symptom, error) {
	raw, err := c.do(ctx, http.MethodPost, "/symptoms", request)
	if err != nil {
		return Symptom{}, err
	}
	return decodeObject[Symptom](raw, "symptom")
}

func (c *Client) UpdateSymptom(ctx context.Context, id int, request SymptomRequest) (Symptom, error) {
	raw, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/symptoms/%d", id), request)
	if err != nil {
		return Symptom{}, err
	}
	return decodeObject[Symptom](raw, "symptom")
}

func (c *Client) DeleteSymptom(ctx context.Context, id int) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/symptoms/%d", id), nil)
	return err
}

// DiseaseHistories lists the medical archive. There is deliberately no
// delete method: archive records are never deleted, by any role.
func (c *Client) DiseaseHistories(ctx context.Context) ([]DiseaseHistory, error) {
	raw, err := c.get(ctx, "/disease-history")
	if err != nil {
		return nil, err
	}
	return decodeList[DiseaseHistory](raw, "disease_history")
}

func (c *Client) CreateDiseaseHistory(ctx context.Context, request DiseaseHistoryRequest) (DiseaseHistory, error) {
	raw, err := c.do(ctx, http.MethodPost, "/disease-history", request)
	if err != nil {
		return DiseaseHistory{}, err
	}
	return decodeObject[DiseaseHistory](raw, "disease_history")
}

func (c *Client) UpdateDiseaseHistory(ctx context.Context, id int, request DiseaseHistoryRequest) (DiseaseHistory, error) {
	raw, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/disease-history/%d", id), request)
	if err != nil {
		return DiseaseHistory{}, err
	}
	return decodeObject[DiseaseHistory](raw, "disease_history")
}
