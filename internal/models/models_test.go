package models_test

import (
	"testing"

	"github.com/brokeragehq/backoffice/internal/audit"
	"github.com/brokeragehq/backoffice/internal/models"
)

func TestCreateAccountRequestValidate(t *testing.T) {
	req := models.CreateAccountRequest{
		ID:       "ACC-001",
		ClientID: "CLI-001",
		Number:   "40817810000000000001",
		Currency: "USD",
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	// Defaults filled.
	if req.Type != models.AccountCash {
		t.Errorf("Type default = %q, want cash", req.Type)
	}
	if req.Status != models.AccountActive {
		t.Errorf("Status default = %q, want active", req.Status)
	}
	if req.Balance != "0" {
		t.Errorf("Balance default = %q, want 0", req.Balance)
	}
}

func TestCreateAccountRequestRejectsBadEnum(t *testing.T) {
	req := models.CreateAccountRequest{
		ID:       "ACC-001",
		ClientID: "CLI-001",
		Number:   "123",
		Currency: "USD",
		Status:   "frozen",
	}
	if err := req.Validate(); err == nil {
		t.Error("Validate accepted unknown status")
	}
}

func TestUpdateRequestsRequireVersion(t *testing.T) {
	if err := (&models.UpdateAccountRequest{}).Validate(); err == nil {
		t.Error("UpdateAccountRequest without version passed validation")
	}
	if err := (&models.UpdateClientRequest{}).Validate(); err == nil {
		t.Error("UpdateClientRequest without version passed validation")
	}
	if err := (&models.UpdateOrderRequest{}).Validate(); err == nil {
		t.Error("UpdateOrderRequest without version passed validation")
	}
}

func TestUpdateAccountApply(t *testing.T) {
	a := models.Account{ID: "ACC-001", Status: models.AccountActive, Tariff: "basic", Balance: "10"}
	status := models.AccountBlocked
	req := models.UpdateAccountRequest{Version: audit.FirstToken.String(), Status: &status}

	if err := req.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	req.Apply(&a)
	if a.Status != models.AccountBlocked {
		t.Errorf("Status = %q, want blocked", a.Status)
	}
	if a.Tariff != "basic" || a.Balance != "10" {
		t.Error("unset fields were modified")
	}
}

func TestRegisterSchemasCoversAllEntities(t *testing.T) {
	reg := audit.NewRegistry()
	models.RegisterSchemas(reg)
	models.RegisterSchemas(reg) // idempotent

	for _, et := range []string{
		models.EntityClient, models.EntityAccount, models.EntityInstrument,
		models.EntityOrder, models.EntityTransaction,
	} {
		if _, ok := reg.Resolve(et); !ok {
			t.Errorf("no schema registered for %q", et)
		}
	}
}

func TestAccountSnapshotNormalizesBalance(t *testing.T) {
	reg := audit.NewRegistry()
	models.RegisterSchemas(reg)

	a := &models.Account{ID: "ACC-001", Balance: "100.50"}
	b := &models.Account{ID: "ACC-001", Balance: "100.5000"}

	sa := reg.Snapshot(models.EntityAccount, a)
	sb := reg.Snapshot(models.EntityAccount, b)

	if sa["balance"] != sb["balance"] {
		t.Errorf("equivalent balances snapshot differently: %q vs %q", sa["balance"], sb["balance"])
	}
}
