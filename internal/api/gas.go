package api

import (
	"context"
	"fmt"
)

// GetGasEstimate fetches the current gas fee estimate.
func (c *Client) GetGasEstimate(ctx context.Context) (*GasEstimate, error) {
	var resp GasEstimate
	if err := c.get(ctx, "/gas-estimate", &resp); err != nil {
		return nil, fmt.Errorf("get gas estimate: %w", err)
	}

	return &resp, nil
}
