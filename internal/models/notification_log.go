package models

import (
	"time"
)

// NotificationLog records each best-effort notification dispatch.
type NotificationLog struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Channel   string    `gorm:"column:channel;size:50;not null" json:"channel"`
	Event     string    `gorm:"column:event;size:100;not null" json:"event"`
	Reference string    `gorm:"column:reference;size:64;index" json:"reference"`
	Request   string    `gorm:"column:request;type:text" json:"request"`
	Response  string    `gorm:"column:response;type:text" json:"response"`
	Status    int       `gorm:"column:status;default:0" json:"status"` // 0: failed, 1: delivered, 2: skipped
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (NotificationLog) TableName() string {
	return "notification_logs"
}
