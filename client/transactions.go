package client

import (
	"context"
	"net/url"
	"strconv"
)

// TransactionService handles transaction CRUD operations.
type TransactionService struct {
	c *Client
}

// TransactionListOptions filters the transaction list.
type TransactionListOptions struct {
	AccountID string
	Type      string
	Status    string
	Limit     int
	Offset    int
}

type transactionListResponse struct {
	Transactions []Transaction `json:"transactions"`
}

// List returns transactions with optional filtering and pagination.
func (s *TransactionService) List(ctx context.Context, opts *TransactionListOptions) ([]Transaction, error) {
	params := url.Values{}
	if opts != nil {
		if opts.AccountID != "" {
			params.Set("account_id", opts.AccountID)
		}
		if opts.Type != "" {
			params.Set("type", opts.Type)
		}
		if opts.Status != "" {
			params.Set("status", opts.Status)
		}
		if opts.Limit > 0 {
			params.Set("limit", strconv.Itoa(opts.Limit))
		}
		if opts.Offset > 0 {
			params.Set("offset", strconv.Itoa(opts.Offset))
		}
	}
	var resp transactionListResponse
	if err := s.c.get(ctx, "/api/v1/transactions", params, &resp); err != nil {
		return nil, err
	}
	return resp.Transactions, nil
}

// Get returns a single transaction by ID.
func (s *TransactionService) Get(ctx context.Context, id string) (*Transaction, error) {
	var tx Transaction
	if err := s.c.get(ctx, "/api/v1/transactions/"+url.PathEscape(id), nil, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// Create books a new transaction.
func (s *TransactionService) Create(ctx context.Context, req *CreateTransactionRequest) (*Transaction, error) {
	var tx Transaction
	if err := s.c.post(ctx, "/api/v1/transactions", req, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// Update modifies a transaction. The request must carry the version token
// of the copy being edited.
func (s *TransactionService) Update(ctx context.Context, id string, req *UpdateTransactionRequest) (*Transaction, error) {
	var tx Transaction
	if err := s.c.put(ctx, "/api/v1/transactions/"+url.PathEscape(id), req, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// Delete removes a transaction. Pass the version token of the copy being deleted.
func (s *TransactionService) Delete(ctx context.Context, id, version string) error {
	params := url.Values{"version": {version}}
	return s.c.del(ctx, "/api/v1/transactions/"+url.PathEscape(id), params, nil)
}

// History returns the change history of one transaction, newest first.
func (s *TransactionService) History(ctx context.Context, id string, page, pageSize int) (*ChangePage, error) {
	return s.c.Changes.history(ctx, "transactions", id, page, pageSize)
}
