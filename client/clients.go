package client

import (
	"context"
	"net/url"
	"strconv"
)

// ClientService handles brokerage client CRUD operations.
type ClientService struct {
	c *Client
}

// ClientListOptions filters the client list.
type ClientListOptions struct {
	Status string
	Limit  int
	Offset int
}

type clientListResponse struct {
	Clients []ClientRecord `json:"clients"`
}

// List returns clients with optional filtering and pagination.
func (s *ClientService) List(ctx context.Context, opts *ClientListOptions) ([]ClientRecord, error) {
	params := url.Values{}
	if opts != nil {
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
	var resp clientListResponse
	if err := s.c.get(ctx, "/api/v1/clients", params, &resp); err != nil {
		return nil, err
	}
	return resp.Clients, nil
}

// Get returns a single client by ID.
func (s *ClientService) Get(ctx context.Context, id string) (*ClientRecord, error) {
	var rec ClientRecord
	if err := s.c.get(ctx, "/api/v1/clients/"+url.PathEscape(id), nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Create creates a new client.
func (s *ClientService) Create(ctx context.Context, req *CreateClientRequest) (*ClientRecord, error) {
	var rec ClientRecord
	if err := s.c.post(ctx, "/api/v1/clients", req, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Update modifies a client. The request must carry the version token of
// the copy being edited.
func (s *ClientService) Update(ctx context.Context, id string, req *UpdateClientRequest) (*ClientRecord, error) {
	var rec ClientRecord
	if err := s.c.put(ctx, "/api/v1/clients/"+url.PathEscape(id), req, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Delete removes a client. Pass the version token of the copy being deleted.
func (s *ClientService) Delete(ctx context.Context, id, version string) error {
	params := url.Values{"version": {version}}
	return s.c.del(ctx, "/api/v1/clients/"+url.PathEscape(id), params, nil)
}

// History returns the change history of one client, newest first.
func (s *ClientService) History(ctx context.Context, id string, page, pageSize int) (*ChangePage, error) {
	return s.c.Changes.history(ctx, "clients", id, page, pageSize)
}
