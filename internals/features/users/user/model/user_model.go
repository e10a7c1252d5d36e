package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel merepresentasikan tabel users di database.
// Field ledger denda (delta_unpaid, historical_total, active_loans_count)
// adalah denormalisasi yang HANYA boleh dimutasi satu transaksi dengan
// perubahan loan/batch penyebabnya — jangan di-recompute terpisah.
type UserModel struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserName string    `gorm:"size:50;not null;unique" json:"user_name" validate:"required,min=3,max=50"`
	FullName *string   `gorm:"size:100" json:"full_name,omitempty"`
	Email    string    `gorm:"size:255;unique;not null" json:"email" validate:"required,email"`
	Password string    `gorm:"not null" json:"-" validate:"required,min=8"`
	GoogleID *string   `gorm:"size:255;unique" json:"google_id,omitempty"`
	Role     string    `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	PhotoURL *string   `gorm:"column:photo_url" json:"photo_url,omitempty"`
	IsActive bool      `gorm:"not null;default:true" json:"is_active"`

	// ===== Ledger denda =====
	UserDeltaUnpaidIDR     int `gorm:"column:user_delta_unpaid_idr;not null;default:0;check:user_delta_unpaid_idr >= 0" json:"user_delta_unpaid_idr"`
	UserHistoricalFineIDR  int `gorm:"column:user_historical_fine_idr;not null;default:0" json:"user_historical_fine_idr"`
	UserActiveLoansCount   int `gorm:"column:user_active_loans_count;not null;default:0" json:"user_active_loans_count"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName memastikan nama tabel sesuai dengan skema database
func (UserModel) TableName() string {
	return "users"
}

// SetDefaultValues memastikan nilai default sebelum simpan
func (u *UserModel) SetDefaultValues() {
	if u.Role == "" {
		u.Role = "user"
	}
}
