package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PushSubscriptionModel menyimpan endpoint push per user di DB,
// supaya subscription tetap hidup setelah restart server.
type PushSubscriptionModel struct {
	PushSubscriptionID       uuid.UUID         `gorm:"column:push_subscription_id;primaryKey;type:uuid;default:gen_random_uuid()" json:"push_subscription_id"`
	PushSubscriptionUserID   uuid.UUID         `gorm:"column:push_subscription_user_id;type:uuid;not null;index:idx_push_subscription_user" json:"push_subscription_user_id"`
	PushSubscriptionEndpoint string            `gorm:"column:push_subscription_endpoint;type:text;not null;uniqueIndex:uq_push_subscription_endpoint" json:"push_subscription_endpoint"`
	PushSubscriptionKeys     datatypes.JSONMap `gorm:"column:push_subscription_keys;type:jsonb" json:"push_subscription_keys,omitempty"`
	PushSubscriptionUA       *string           `gorm:"column:push_subscription_user_agent;type:text" json:"push_subscription_user_agent,omitempty"`

	PushSubscriptionCreatedAt time.Time      `gorm:"column:push_subscription_created_at;autoCreateTime" json:"push_subscription_created_at"`
	PushSubscriptionUpdatedAt time.Time      `gorm:"column:push_subscription_updated_at;autoUpdateTime" json:"push_subscription_updated_at"`
	PushSubscriptionDeletedAt gorm.DeletedAt `gorm:"column:push_subscription_deleted_at;index" json:"-"`
}

func (PushSubscriptionModel) TableName() string {
	return "push_subscriptions"
}
