package client

import (
	"context"
	"net/url"
	"strconv"
)

// OrderService handles order CRUD operations.
type OrderService struct {
	c *Client
}

// OrderListOptions filters the order list.
type OrderListOptions struct {
	AccountID    string
	InstrumentID string
	Status       string
	Limit        int
	Offset       int
}

type orderListResponse struct {
	Orders []Order `json:"orders"`
}

// List returns orders with optional filtering and pagination.
func (s *OrderService) List(ctx context.Context, opts *OrderListOptions) ([]Order, error) {
	params := url.Values{}
	if opts != nil {
		if opts.AccountID != "" {
			params.Set("account_id", opts.AccountID)
		}
		if opts.InstrumentID != "" {
			params.Set("instrument_id", opts.InstrumentID)
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
	var resp orderListResponse
	if err := s.c.get(ctx, "/api/v1/orders", params, &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

// Get returns a single order by ID.
func (s *OrderService) Get(ctx context.Context, id string) (*Order, error) {
	var ord Order
	if err := s.c.get(ctx, "/api/v1/orders/"+url.PathEscape(id), nil, &ord); err != nil {
		return nil, err
	}
	return &ord, nil
}

// Create books a new order.
func (s *OrderService) Create(ctx context.Context, req *CreateOrderRequest) (*Order, error) {
	var ord Order
	if err := s.c.post(ctx, "/api/v1/orders", req, &ord); err != nil {
		return nil, err
	}
	return &ord, nil
}

// Update modifies an order. The request must carry the version token of
// the copy being edited.
func (s *OrderService) Update(ctx context.Context, id string, req *UpdateOrderRequest) (*Order, error) {
	var ord Order
	if err := s.c.put(ctx, "/api/v1/orders/"+url.PathEscape(id), req, &ord); err != nil {
		return nil, err
	}
	return &ord, nil
}

// Delete removes an order. Pass the version token of the copy being deleted.
func (s *OrderService) Delete(ctx context.Context, id, version string) error {
	params := url.Values{"version": {version}}
	return s.c.del(ctx, "/api/v1/orders/"+url.PathEscape(id), params, nil)
}

// History returns the change history of one order, newest first.
func (s *OrderService) History(ctx context.Context, id string, page, pageSize int) (*ChangePage, error) {
	return s.c.Changes.history(ctx, "orders", id, page, pageSize)
}
