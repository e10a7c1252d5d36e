package service

import (
	"sync"
	"testing"

	userModel "perpusku_backend/internals/features/users/user/model"

	"gorm.io/gorm/schema"
)

// Update ledger di service ini menulis kolom users lewat predikat SQL
// mentah; salah nama kolom baru ketahuan saat query jalan di Postgres.
// Tes ini mengikat predikat ke skema model yang sebenarnya.
func TestUserLedgerColumnsMatchSchema(t *testing.T) {
	s, err := schema.Parse(&userModel.UserModel{}, &sync.Map{}, schema.NamingStrategy{})
	if err != nil {
		t.Fatalf("parse skema users: %v", err)
	}

	if len(s.PrimaryFields) != 1 || s.PrimaryFields[0].DBName != "id" {
		t.Fatalf("PK users harus satu kolom bernama id, dapat %d field", len(s.PrimaryFields))
	}
	if _, ok := s.FieldsByDBName["user_id"]; ok {
		t.Fatal("users tidak punya kolom user_id; predikat ledger memakai id")
	}

	for _, col := range []string{
		"user_active_loans_count",
		"user_delta_unpaid_idr",
		"user_historical_fine_idr",
	} {
		if _, ok := s.FieldsByDBName[col]; !ok {
			t.Errorf("kolom %s tidak ada di skema users", col)
		}
	}
}
