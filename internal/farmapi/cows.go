package farmapi

import (
	"context"
	"fmt"
	"net/http"

	. "herdview/internal/models"
)

func (c *Client) Cows(ctx context.Context) ([]Cow, error) {
	raw, err := c.get(ctx, "/cows")
	if err != nil {
		return nil, err
	}
	return decodeList[Cow](raw, "cows")
}

// CowsByUser returns the cows managed by one farmer; the ids form the
// ManagedCowSet for that session.
func (c *Client) CowsByUser(ctx context.Context, userID int) ([]Cow, error) {
	raw, err := c.get(ctx, fmt.Sprintf("/cows/user/%d", userID))
	if err != nil {
		return nil, err
	}
	return decodeList[Cow](raw, "cows")
}

func (c *Client) CreateCow(ctx context.Context, request CowRequest) (Cow, error) {
	raw, err := c.do(ctx, http.MethodPost, "/cows", request)
	if err != nil {
		return Cow{}, err
	}
	return decodeObject[Cow](raw, "cow")
}

func (c *Client) UpdateCow(ctx context.Context, id int, request CowRequest) (Cow, error) {
	raw, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/cows/%d", id), request)
	if err != nil {
		return Cow{}, err
	}
	return decodeObject[Cow](raw, "cow")
}

func (c *Client) DeleteCow(ctx context.Context, id int) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/cows/%d", id), nil)
	return err
}
