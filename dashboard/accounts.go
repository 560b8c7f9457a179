package dashboard

import (
	"context"
	"errors"

	"github.com/adspay/console/envelope"
)

// Balance is an account balance snapshot (operational or escrow).
type Balance struct {
	AccountNo         string  `json:"accountNo"`
	AccountHolderName string  `json:"accountHolderName"`
	Currency          string  `json:"currency"`
	Balance           float64 `json:"balance"`
	AsOf              string  `json:"asOf"`
}

// AccountEntry is a single posted movement on a bank account.
type AccountEntry struct {
	ExtRef       string  `json:"extRef"`
	PostedAt     string  `json:"postedAt"`
	Direction    string  `json:"direction"`
	Type         string  `json:"type"`
	Amount       float64 `json:"amount"`
	Status       string  `json:"status"`
	BalanceAfter float64 `json:"balanceAfter"`
	Narration    string  `json:"narration"`
}

// AccountHistory is a cursor-paged slice of account entries.
type AccountHistory struct {
	Items      []AccountEntry `json:"items"`
	NextCursor *string        `json:"nextCursor"`
}

func (c *Client) OperationalBalance(ctx context.Context) (*Balance, error) {
	var balance Balance
	if err := c.get(ctx, "/api/web/bank/operational/balance", nil, &balance); err != nil {
		return nil, err
	}
	return &balance, nil
}

func (c *Client) OperationalHistory(ctx context.Context) (*AccountHistory, error) {
	var history AccountHistory
	if err := c.get(ctx, "/api/web/bank/operational/transactions", nil, &history); err != nil {
		return nil, err
	}
	return &history, nil
}

// Escrow endpoints have moved across backend releases; each candidate path
// is tried in order and the first one that answers wins.
var (
	escrowBalancePaths = []string{
		"/api/web/bank/escrow/balance",
		"/api/web/escrow/balance",
		"/api/escrow/balance",
	}
	escrowHistoryPaths = []string{
		"/api/web/bank/escrow/transactions",
		"/api/web/escrow/transactions",
		"/api/escrow/transactions",
	}
)

func (c *Client) EscrowBalance(ctx context.Context) (*Balance, error) {
	var balance Balance
	if err := c.getFirst(ctx, escrowBalancePaths, &balance); err != nil {
		return nil, err
	}
	return &balance, nil
}

func (c *Client) EscrowHistory(ctx context.Context) (*AccountHistory, error) {
	var history AccountHistory
	if err := c.getFirst(ctx, escrowHistoryPaths, &history); err != nil {
		return nil, err
	}
	return &history, nil
}

func (c *Client) getFirst(ctx context.Context, paths []string, out any) error {
	var lastErr error
	for _, path := range paths {
		err := c.get(ctx, path, nil, out)
		if err == nil {
			return nil
		}
		// An envelope-level rejection is authoritative; only path-level
		// failures (404s, transport errors) fall through to the next
		// candidate.
		var envErr *envelope.Error
		if errors.As(err, &envErr) {
			return err
		}
		lastErr = err
	}
	return lastErr
}
