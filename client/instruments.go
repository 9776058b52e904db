package client

import (
	"context"
	"net/url"
	"strconv"
)

// InstrumentService handles instrument CRUD operations.
type InstrumentService struct {
	c *Client
}

// InstrumentListOptions filters the instrument list.
type InstrumentListOptions struct {
	Status string
	Type   string
	Limit  int
	Offset int
}

type instrumentListResponse struct {
	Instruments []Instrument `json:"instruments"`
}

// List returns instruments with optional filtering and pagination.
func (s *InstrumentService) List(ctx context.Context, opts *InstrumentListOptions) ([]Instrument, error) {
	params := url.Values{}
	if opts != nil {
		if opts.Status != "" {
			params.Set("status", opts.Status)
		}
		if opts.Type != "" {
			params.Set("type", opts.Type)
		}
		if opts.Limit > 0 {
			params.Set("limit", strconv.Itoa(opts.Limit))
		}
		if opts.Offset > 0 {
			params.Set("offset", strconv.Itoa(opts.Offset))
		}
	}
	var resp instrumentListResponse
	if err := s.c.get(ctx, "/api/v1/instruments", params, &resp); err != nil {
		return nil, err
	}
	return resp.Instruments, nil
}

// Get returns a single instrument by ID.
func (s *InstrumentService) Get(ctx context.Context, id string) (*Instrument, error) {
	var ins Instrument
	if err := s.c.get(ctx, "/api/v1/instruments/"+url.PathEscape(id), nil, &ins); err != nil {
		return nil, err
	}
	return &ins, nil
}

// Create lists a new instrument.
func (s *InstrumentService) Create(ctx context.Context, req *CreateInstrumentRequest) (*Instrument, error) {
	var ins Instrument
	if err := s.c.post(ctx, "/api/v1/instruments", req, &ins); err != nil {
		return nil, err
	}
	return &ins, nil
}

// Update modifies an instrument. The request must carry the version token
// of the copy being edited.
func (s *InstrumentService) Update(ctx context.Context, id string, req *UpdateInstrumentRequest) (*Instrument, error) {
	var ins Instrument
	if err := s.c.put(ctx, "/api/v1/instruments/"+url.PathEscape(id), req, &ins); err != nil {
		return nil, err
	}
	return &ins, nil
}

// Delete removes an instrument. Pass the version token of the copy being deleted.
func (s *InstrumentService) Delete(ctx context.Context, id, version string) error {
	params := url.Values{"version": {version}}
	return s.c.del(ctx, "/api/v1/instruments/"+url.PathEscape(id), params, nil)
}

// History returns the change history of one instrument, newest first.
func (s *InstrumentService) History(ctx context.Context, id string, page, pageSize int) (*ChangePage, error) {
	return s.c.Changes.history(ctx, "instruments", id, page, pageSize)
}
