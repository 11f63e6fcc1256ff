package farmapi

import (
	"context"
	"fmt"
	"net/http"

	. "herdview/internal/models"
)

// Reproductions lists the reproduction archive. Like disease history,
// these records have no delete path.
func (c *Client) Reproductions(ctx context.Context) ([]Reproduction, error) {
	raw, err := c.get(ctx, "/reproductions")
	if err != nil {
		return nil, err
	}
	return decodeList[Reproduction](raw, "reproductions")
}

func (c *Client) CreateReproduction(ctx context.Context, request ReproductionRequest) (Reproduction, error) {
	raw, err := c.do(ctx, http.MethodPost, "/reproductions", request)
	if err != nil {
		return Reproduction{}, err
	}
	return decodeObject[Reproduction](raw, "reproduction")
}

func (c *Client) UpdateReproduction(ctx context.Context, id int, request ReproductionRequest) (Reproduction, error) {
	raw, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/reproductions/%d", id), request)
	if err != nil {
		return Reproduction{}, err
	}
	return decodeObject[Reproduction](raw, "reproduction")
}

func (c *Client) Sales(ctx context.Context) ([]SalesTransaction, error) {
	raw, err := c.get(ctx, "/sales")
	if err != nil {
		return nil, err
	}
	return decodeList[SalesTransaction](raw, "sales")
}

func (c *Client) CreateSale(ctx context.Context, request SalesRequest) (SalesTransaction, error) {
	raw, err := c.do(ctx, http.MethodPost, "/sales", request)
	if err != nil {
		return SalesTransaction{}, err
	}
	return decodeObject[SalesTransaction](raw, "sale")
}

func (c *Client) UpdateSale(ctx context.Context, id int, request SalesRequest) (SalesTransaction, error) {
	raw, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/sales/%d", id), request)
	if err != nil {
		return SalesTransaction{}, err
	}
	return decodeObject[SalesTransaction](raw, "sale")
}

func (c *Client) DeleteSale(ctx context.Context, id int) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/sales/%d", id), nil)
	return err
}

func (c *Client) MilkYields(ctx context.Context) ([]MilkYield, error) {
	raw, err := c.get(ctx, "/milk-yields")
	if err != nil {
		return nil, err
	}
	return decodeList[MilkYield](raw, "milk_yields")
}

func (c *Client) CreateMilkYield(ctx context.Context, request MilkYieldRequest) (MilkYield, error) {
	raw, err := c.do(ctx, http.MethodPost, "/milk-yields", request)
	if err != nil {
		return MilkYield{}, err
	}
	return decodeObject[MilkYield](raw, "milk_yield")
}
