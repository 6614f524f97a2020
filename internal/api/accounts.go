package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

// Validation errors for account operations.
var (
	ErrEmptyAddress = errors.New("address must not be empty")
)

// CreateAccount requests a new custodial account from the gateway.
func (c *Client) CreateAccount(ctx context.Context) (*Account, error) {
	var resp Account
	if err := c.post(ctx, "/accounts", nil, &resp); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	c.logger.Debug("account created", "address", resp.Address)

	return &resp, nil
}

// GetBalance fetches the current balance for an address.
func (c *Client) GetBalance(ctx context.Context, address string) (*Balance, error) {
	if address == "" {
		return nil, ErrEmptyAddress
	}

	var resp Balance
	if err := c.get(ctx, "/accounts/"+url.PathEscape(address)+"/balance", &resp); err != nil {
		return nil, fmt.Errorf("get balance %s: %w", address, err)
	}

	return &resp, nil
}
