package dto

import (
	"strings"
	"time"

	"perpusku_backend/internals/features/home/notifications/model"

	"github.com/google/uuid"
)

type NotificationResponse struct {
	NotificationID      uuid.UUID              `json:"notification_id"`
	NotificationTitle   string                 `json:"notification_title"`
	NotificationMessage string                 `json:"notification_message"`
	NotificationTags    []string               `json:"notification_tags"`
	NotificationData    map[string]interface{} `json:"notification_data,omitempty"`
	NotificationReadAt  *time.Time             `json:"notification_read_at,omitempty"`
	NotificationCreated time.Time              `json:"notification_created_at"`
}

func ToNotificationResponse(m *model.NotificationModel) NotificationResponse {
	return NotificationResponse{
		NotificationID:      m.NotificationID,
		NotificationTitle:   m.NotificationTitle,
		NotificationMessage: m.NotificationMessage,
		NotificationTags:    m.NotificationTags,
		NotificationData:    m.NotificationData,
		NotificationReadAt:  m.NotificationReadAt,
		NotificationCreated: m.NotificationCreatedAt,
	}
}

type SubscribeRequest struct {
	Endpoint string                 `json:"endpoint" validate:"required,url"`
	Keys     map[string]interface{} `json:"keys"`
}

func (r *SubscribeRequest) Normalize() {
	r.Endpoint = strings.TrimSpace(r.Endpoint)
}

type UnsubscribeRequest struct {
	Endpoint string `json:"endpoint" validate:"required"`
}
