package models

import (
	"strconv"

	"github.com/brokeragehq/backoffice/internal/audit"
)

// Entity type names used across the change log, the REST routes, and the
// schema registry.
const (
	EntityClient      = "client"
	EntityAccount     = "account"
	EntityInstrument  = "instrument"
	EntityOrder       = "order"
	EntityTransaction = "transaction"
)

// RegisterSchemas registers the audited field set of every tracked entity
// type. Called once at process start (and by tests); adding an entity type
// without registering it here makes its first commit panic.
func RegisterSchemas(reg *audit.Registry) {
	reg.Register(EntityClient, clientFields())
	reg.Register(EntityAccount, accountFields())
	reg.Register(EntityInstrument, instrumentFields())
	reg.Register(EntityOrder, orderFields())
	reg.Register(EntityTransaction, transactionFields())
}

func clientFields() []audit.FieldDescriptor {
	return []audit.FieldDescriptor{
		{Name: "name", Value: func(e any) string { return e.(*Client).Name }},
		{Name: "email", Value: func(e any) string { return e.(*Client).Email }},
		{Name: "phone", Value: func(e any) string { return e.(*Client).Phone }},
		{Name: "status", Value: func(e any) string { return e.(*Client).Status }},
		{Name: "risk_profile", Value: func(e any) string { return e.(*Client).RiskProfile }},
	}
}

func accountFields() []audit.FieldDescriptor {
	return []audit.FieldDescriptor{
		{Name: "client_id", Value: func(e any) string { return e.(*Account).ClientID }},
		{Name: "number", Value: func(e any) string { return e.(*Account).Number }},
		{Name: "currency", Value: func(e any) string { return e.(*Account).Currency }},
		{Name: "type", Value: func(e any) string { return e.(*Account).Type }},
		{Name: "status", Value: func(e any) string { return e.(*Account).Status }},
		{Name: "tariff", Value: func(e any) string { return e.(*Account).Tariff }},
		{Name: "balance", Value: func(e any) string { return audit.NormalizeDecimal(e.(*Account).Balance) }},
	}
}

func instrumentFields() []audit.FieldDescriptor {
	return []audit.FieldDescriptor{
		{Name: "symbol", Value: func(e any) string { return e.(*Instrument).Symbol }},
		{Name: "isin", Value: func(e any) string { return e.(*Instrument).ISIN }},
		{Name: "name", Value: func(e any) string { return e.(*Instrument).Name }},
		{Name: "type", Value: func(e any) string { return e.(*Instrument).Type }},
		{Name: "currency", Value: func(e any) string { return e.(*Instrument).Currency }},
		{Name: "lot_size", Value: func(e any) string { return strconv.Itoa(e.(*Instrument).LotSize) }},
		{Name: "status", Value: func(e any) string { return e.(*Instrument).Status }},
	}
}

func orderFields() []audit.FieldDescriptor {
	return []audit.FieldDescriptor{
		{Name: "account_id", Value: func(e any) string { return e.(*Order).AccountID }},
		{Name: "instrument_id", Value: func(e any) string { return e.(*Order).InstrumentID }},
		{Name: "side", Value: func(e any) string { return e.(*Order).Side }},
		{Name: "quantity", Value: func(e any) string { return strconv.FormatInt(e.(*Order).Quantity, 10) }},
		{Name: "price", Value: func(e any) string { return audit.NormalizeDecimal(e.(*Order).Price) }},
		{Name: "status", Value: func(e any) string { return e.(*Order).Status }},
		{Name: "placed_at", Value: func(e any) string { return audit.NormalizeTime(e.(*Order).PlacedAt) }},
	}
}

func transactionFields() []audit.FieldDescriptor {
	return []audit.FieldDescriptor{
		{Name: "account_id", Value: func(e any) string { return e.(*Transaction).AccountID }},
		{Name: "type", Value: func(e any) string { return e.(*Transaction).Type }},
		{Name: "amount", Value: func(e any) string { return audit.NormalizeDecimal(e.(*Transaction).Amount) }},
		{Name: "currency", Value: func(e any) string { return e.(*Transaction).Currency }},
		{Name: "status", Value: func(e any) string { return e.(*Transaction).Status }},
		{Name: "settled_at", Value: func(e any) string { return audit.NormalizeTimePtr(e.(*Transaction).SettledAt) }},
	}
}
