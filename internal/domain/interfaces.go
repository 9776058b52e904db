// Package domain defines the canonical service interfaces shared by the
// store, service, and API layers. Stores implement them, services wrap
// them, and handlers depend on them, so each layer can be tested against
// mocks without importing its neighbors.
package domain

import (
	"context"

	"github.com/brokeragehq/backoffice/internal/audit"
	"github.com/brokeragehq/backoffice/internal/models"
)

// ClientService manages brokerage clients.
type ClientService interface {
	Create(ctx context.Context, req *models.CreateClientRequest, actor *string) (*models.Client, error)
	Get(ctx context.Context, id string) (*models.Client, error)
	List(ctx context.Context, status string, limit, offset int64) ([]models.Client, error)
	Update(ctx context.Context, id string, req *models.UpdateClientRequest, actor *string) (*models.Client, error)
	Delete(ctx context.Context, id, version string, actor *string) error
}

// AccountService manages brokerage accounts.
type AccountService interface {
	Create(ctx context.Context, req *models.CreateAccountRequest, actor *string) (*models.Account, error)
	Get(ctx context.Context, id string) (*models.Account, error)
	List(ctx context.Context, clientID, status string, limit, offset int64) ([]models.Account, error)
	Update(ctx context.Context, id string, req *models.UpdateAccountRequest, actor *string) (*models.Account, error)
	Delete(ctx context.Context, id, version string, actor *string) error
}

// InstrumentService manages tradeable instruments.
type InstrumentService interface {
	Create(ctx context.Context, req *models.CreateInstrumentRequest, actor *string) (*models.Instrument, error)
	Get(ctx context.Context, id string) (*models.Instrument, error)
	List(ctx context.Context, status, instrumentType string, limit, offset int64) ([]models.Instrument, error)
	Update(ctx context.Context, id string, req *models.UpdateInstrumentRequest, actor *string) (*models.Instrument, error)
	Delete(ctx context.Context, id, version string, actor *string) error
}

// OrderService manages trade orders.
type OrderService interface {
	Create(ctx context.Context, req *models.CreateOrderRequest, actor *string) (*models.Order, error)
	Get(ctx context.Context, id string) (*models.Order, error)
	List(ctx context.Context, accountID, instrumentID, status string, limit, offset int64) ([]models.Order, error)
	Update(ctx context.Context, id string, req *models.UpdateOrderRequest, actor *string) (*models.Order, error)
	Delete(ctx context.Context, id, version string, actor *string) error
}

// TransactionService manages cash transactions.
type TransactionService interface {
	Create(ctx context.Context, req *models.CreateTransactionRequest, actor *string) (*models.Transaction, error)
	Get(ctx context.Context, id string) (*models.Transaction, error)
	List(ctx context.Context, accountID, txType, status string, limit, offset int64) ([]models.Transaction, error)
	Update(ctx context.Context, id string, req *models.UpdateTransactionRequest, actor *string) (*models.Transaction, error)
	Delete(ctx context.Context, id, version string, actor *string) error
}

// ChangeLogService reads the append-only change log.
type ChangeLogService interface {
	List(ctx context.Context, q audit.Query, page, pageSize int64) (*models.ChangePage, error)
	Get(ctx context.Context, id int64) (*audit.ChangeRecord, error)
}

// ActorLookup resolves an API key to the acting user.
type ActorLookup interface {
	GetUserByAPIKey(ctx context.Context, apiKey string) (*models.User, error)
}
