package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	model "perpusku_backend/internals/features/users/user/model"
)

/* =========================
   REQUEST
   ========================= */

type UserUpdateRequest struct {
	UserName *string `json:"user_name" validate:"omitempty,min=3,max=50"`
	FullName *string `json:"full_name" validate:"omitempty,max=100"`
}

func (r *UserUpdateRequest) Normalize() {
	r.UserName = trimPtr(r.UserName)
	r.FullName = trimPtr(r.FullName)
}

func (r *UserUpdateRequest) ApplyToModel(m *model.UserModel) {
	if r.UserName != nil {
		m.UserName = *r.UserName
	}
	if r.FullName != nil {
		m.FullName = r.FullName
	}
}

/* =========================
   RESPONSE
   ========================= */

type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	UserName string    `json:"user_name"`
	FullName *string   `json:"full_name,omitempty"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	PhotoURL *string   `json:"photo_url,omitempty"`
	IsActive bool      `json:"is_active"`

	UserDeltaUnpaidIDR    int `json:"user_delta_unpaid_idr"`
	UserHistoricalFineIDR int `json:"user_historical_fine_idr"`
	UserActiveLoansCount  int `json:"user_active_loans_count"`

	CreatedAt time.Time `json:"created_at"`
}

func ToUserResponse(m *model.UserModel) UserResponse {
	return UserResponse{
		ID:                    m.ID,
		UserName:              m.UserName,
		FullName:              m.FullName,
		Email:                 m.Email,
		Role:                  m.Role,
		PhotoURL:              m.PhotoURL,
		IsActive:              m.IsActive,
		UserDeltaUnpaidIDR:    m.UserDeltaUnpaidIDR,
		UserHistoricalFineIDR: m.UserHistoricalFineIDR,
		UserActiveLoansCount:  m.UserActiveLoansCount,
		CreatedAt:             m.CreatedAt,
	}
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
