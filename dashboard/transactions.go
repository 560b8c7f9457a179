package dashboard

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/url"
	"strconv"
)

// Transaction is a platform transaction as listed on the history screen.
type Transaction struct {
	TransactionCode string  `json:"transactionCode"`
	UserFullName    string  `json:"userFullName"`
	Type            string  `json:"type"`
	Direction       string  `json:"direction"`
	Amount          float64 `json:"amount"`
	BalanceAfter    float64 `json:"balanceAfter"`
	Channel         string  `json:"channel"`
	Status          string  `json:"status"`
	CreatedAt       string  `json:"createdAt"`
}

// TransactionDetail adds the fields shown on the detail modal.
type TransactionDetail struct {
	Transaction
	UserPhoneNumber string `json:"userPhoneNumber"`
	ReferenceID     string `json:"referenceId"`
	ExternalSource  string `json:"externalSource"`
	Description     string `json:"description"`
	UpdatedAt       string `json:"updatedAt"`
}

// TransactionPage is a zero-indexed page of transactions.
type TransactionPage struct {
	Content     []Transaction `json:"content"`
	CurrentPage int           `json:"currentPage"`
	TotalPages  int           `json:"totalPages"`
	TotalItems  int           `json:"totalItems"`
	PageSize    int           `json:"pageSize"`
}

func (c *Client) ListTransactions(ctx context.Context, page, size int) (*TransactionPage, error) {
	query := url.Values{
		"page": {strconv.Itoa(page)},
		"size": {strconv.Itoa(size)},
	}
	var result TransactionPage
	if err := c.get(ctx, "/api/web/transactions", query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) TransactionDetail(ctx context.Context, transactionCode string) (*TransactionDetail, error) {
	var detail TransactionDetail
	if err := c.get(ctx, "/api/web/transactions/"+url.PathEscape(transactionCode), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

var transactionCSVHeader = []string{
	"transactionCode", "userFullName", "type", "direction",
	"amount", "balanceAfter", "channel", "status", "createdAt",
}

// ExportTransactionsCSV streams the full transaction history as CSV,
// walking every page. pageSize bounds each backend fetch.
func (c *Client) ExportTransactionsCSV(ctx context.Context, w io.Writer, pageSize int) error {
	if pageSize <= 0 {
		pageSize = 100
	}
	writer := csv.NewWriter(w)
	if err := writer.Write(transactionCSVHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for page := 0; ; page++ {
		result, err := c.ListTransactions(ctx, page, pageSize)
		if err != nil {
			return fmt.Errorf("fetching transactions page %d: %w", page, err)
		}
		for _, tx := range result.Content {
			record := []string{
				tx.TransactionCode,
				tx.UserFullName,
				tx.Type,
				tx.Direction,
				strconv.FormatFloat(tx.Amount, 'f', -1, 64),
				strconv.FormatFloat(tx.BalanceAfter, 'f', -1, 64),
				tx.Channel,
				tx.Status,
				tx.CreatedAt,
			}
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("writing csv record: %w", err)
			}
		}
		if page >= result.TotalPages-1 || len(result.Content) == 0 {
			break
		}
	}

	writer.Flush()
	return writer.Error()
}
