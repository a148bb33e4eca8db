package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Search runs one page of a search expression.
func (c *Client) Search(ctx context.Context, query SearchQuery) (*SearchPage, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("encoding search query: %w", err)
	}

	var page SearchPage
	if err := c.do(ctx, http.MethodPost, c.endpoint("resources/search", nil), "application/json", body, true, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
