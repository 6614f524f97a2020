package api

import (
	"context"
	"errors"
	"fmt"
)

// Validation errors for transaction submission.
var (
	ErrEmptySender    = errors.New("sender must not be empty")
	ErrEmptyRecipient = errors.New("recipient must not be empty")
	ErrNegativeAmount = errors.New("amount must not be negative")
)

// SendTransaction submits a transfer to the gateway. The sender credential
// is forwarded as-is for custodial signing; this client never interprets
// or logs it.
func (c *Client) SendTransaction(ctx context.Context, sender, recipient string, amount float64) (*TransactionResult, error) {
	if sender == "" {
		return nil, ErrEmptySender
	}
	if recipient == "" {
		return nil, ErrEmptyRecipient
	}
	if amount < 0 {
		return nil, ErrNegativeAmount
	}

	req := TransactionRequest{
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
	}

	var resp TransactionResult
	if err := c.post(ctx, "/transactions", req, &resp); err != nil {
		return nil, fmt.Errorf("send transaction: %w", err)
	}

	c.logger.Debug("transaction submitted",
		"recipient", recipient,
		"amount", amount,
		"hash", resp.Hash,
	)

	return &resp, nil
}
