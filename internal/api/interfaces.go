package api

import (
	"context"

	"github.com/brokeragehq/backoffice/internal/audit"
	"github.com/brokeragehq/backoffice/internal/domain"
	"github.com/brokeragehq/backoffice/internal/models"
)

// Handler dependencies reuse the canonical domain interfaces; the method
// sets are identical.
type (
	ClientRepository      = domain.ClientService
	AccountRepository     = domain.AccountService
	InstrumentRepository  = domain.InstrumentService
	OrderRepository       = domain.OrderService
	TransactionRepository = domain.TransactionService
)

// ChangeQuerier defines the feed and history operations used by ChangesHandler.
type ChangeQuerier interface {
	EntityHistory(ctx context.Context, entityType, entityID string, page, pageSize int64) (*models.ChangePage, error)
	GlobalFeed(ctx context.Context, q audit.Query, page, pageSize int64) (*models.ChangePage, error)
	Record(ctx context.Context, id int64) (*audit.ChangeRecord, error)
	ExportFeed(ctx context.Context, q audit.Query, format string) ([]byte, string, error)
}
