package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/kbconsole/internal/client/models"
)

func userPath(id models.ID) string {
	return "/api/v2/users/" + url.PathEscape(id.String())
}

// UsernameQuery is the RSQL filter matching usernames containing s.
func UsernameQuery(s string) string {
	return fmt.Sprintf(`username=="*%s*"`, s)
}

// SearchUsers returns one page of users. page is zero-based; an empty query
// lists everyone.
func (c *HTTPClient) SearchUsers(ctx context.Context, query string, page, size int) (models.Page[models.User], error) {
	q := url.Values{
		"page": {strconv.Itoa(page)},
		"size": {strconv.Itoa(size)},
	}
	if query != "" {
		q.Set("query", query)
	}

	var p models.Page[models.User]
	if err := c.do(ctx, http.MethodGet, "/api/v2/users/search", q, nil, &p); err != nil {
		return models.Page[models.User]{}, err
	}
	return p, nil
}

func (c *HTTPClient) GetUser(ctx context.Context, id models.ID) (models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, userPath(id), nil, nil, &u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (c *HTTPClient) UpdateUser(ctx context.Context, id models.ID, u models.UserUpdate) error {
	return c.do(ctx, http.MethodPut, userPath(id), nil, u, nil)
}

func (c *HTTPClient) DeleteUser(ctx context.Context, id models.ID) error {
	return c.do(ctx, http.MethodDelete, userPath(id), nil, nil, nil)
}
