package client

import (
	"context"
	"net/url"
	"strconv"
)

// AccountService handles account CRUD operations.
type AccountService struct {
	c *Client
}

// AccountListOptions filters the account list.
type AccountListOptions struct {
	ClientID string
	Status   string
	Limit    int
	Offset   int
}

type accountListResponse struct {
	Accounts []Account `json:"accounts"`
}

// List returns accounts with optional filtering and pagination.
func (s *AccountService) List(ctx context.Context, opts *AccountListOptions) ([]Account, error) {
	params := url.Values{}
	if opts != nil {
		if opts.ClientID != "" {
			params.Set("client_id", opts.ClientID)
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
	var resp accountListResponse
	if err := s.c.get(ctx, "/api/v1/accounts", params, &resp); err != nil {
		return nil, err
	}
	return resp.Accounts, nil
}

// Get returns a single account by ID.
func (s *AccountService) Get(ctx context.Context, id string) (*Account, error) {
	var acc Account
	if err := s.c.get(ctx, "/api/v1/accounts/"+url.PathEscape(id), nil, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

// Create opens a new account.
func (s *AccountService) Create(ctx context.Context, req *CreateAccountRequest) (*Account, error) {
	var acc Account
	if err := s.c.post(ctx, "/api/v1/accounts", req, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

// Update modifies an account. The request must carry the version token of
// the copy being edited.
func (s *AccountService) Update(ctx context.Context, id string, req *UpdateAccountRequest) (*Account, error) {
	var acc Account
	if err := s.c.put(ctx, "/api/v1/accounts/"+url.PathEscape(id), req, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

// Delete removes an account. Pass the version token of the copy being deleted.
func (s *AccountService) Delete(ctx context.Context, id, version string) error {
	params := url.Values{"version": {version}}
	return s.c.del(ctx, "/api/v1/accounts/"+url.PathEscape(id), params, nil)
}

// History returns the change history of one account, newest first.
func (s *AccountService) History(ctx context.Context, id string, page, pageSize int) (*ChangePage, error) {
	return s.c.Changes.history(ctx, "accounts", id, page, pageSize)
}
