package farmapi

import (
	"context"
	"fmt"
	"net/http"

	. "herdview/internal/models"
)

func (c *Client) Users(ctx context.Context) ([]User, error) {
	raw, err := c.get(ctx, "/users")
	if err != nil {
		return nil, err
	}
	return decodeList[User](raw, "users")
}

// Login validates credentials against the upstream API and returns the
// authenticated user. No credentials are stored on this side.
func (c *Client) Login(ctx context.Context, request LoginRequest) (User, error) {
	raw, err := c.do(ctx, http.MethodPost, "/users/login", request)
	if err != nil {
		return User{}, err
	}
	return decodeObject[User](raw, "user")
}

func (c *Client) CreateUser(ctx context.Context, request UserRequest) (User, error) {
	raw, err := c.do(ctx, http.MethodPost, "/users", request)
	if err != nil {
		return User{}, err
	}
	return decodeObject[User](raw, "user")
}

func (c *Client) UpdateUser(ctx context.Context, id int, request UserRequest) (User, error) {
	raw, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), request)
	if err != nil {
		return User{}, err
	}
	return decodeObject[User](raw, "user")
}

func (c *Client) DeleteUser(ctx context.Context, id int) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil)
	return err
}
