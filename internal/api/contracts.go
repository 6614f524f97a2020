package api

import (
	"context"
	"errors"
	"fmt"
)

// Validation errors for contract calls.
var (
	ErrEmptyContract = errors.New("contract address must not be empty")
	ErrEmptyMethod   = errors.New("method must not be empty")
)

// CallContract invokes a method on a deployed Move contract. Args are
// passed positionally as strings, matching the gateway's calling
// convention.
func (c *Client) CallContract(ctx context.Context, contract, method string, args []string) (*ContractResult, error) {
	if contract == "" {
		return nil, ErrEmptyContract
	}
	if method == "" {
		return nil, ErrEmptyMethod
	}
	if args == nil {
		args = []string{}
	}

	req := ContractCallRequest{
		Contract: contract,
		Method:   method,
		Args:     args,
	}

	var resp ContractResult
	if err := c.post(ctx, "/contract/call", req, &resp); err != nil {
		return nil, fmt.Errorf("call contract %s.%s: %w", contract, method, err)
	}

	return &resp, nil
}
