package chatapi

import (
	"context"
	"fmt"
	"net/http"
)

// GetQuota fetches the current send-allowance snapshot.
func (c *Client) GetQuota(ctx context.Context) (*Quota, error) {
	var quota Quota
	if err := c.doJSON(ctx, http.MethodGet, "/quota", nil, &quota); err != nil {
		return nil, fmt.Errorf("failed to get quota: %w", err)
	}
	return &quota, nil
}
