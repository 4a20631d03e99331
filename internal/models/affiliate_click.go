package models

import (
	"time"
)

// AffiliateClick is append-only. One row per (affiliate, ua_hash, ip_hash).
type AffiliateClick struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	AffiliateID string    `gorm:"column:affiliate_id;size:36;not null;uniqueIndex:idx_click_fingerprint,priority:1" json:"affiliate_id"`
	LinkID      string    `gorm:"column:link_id;size:36;index" json:"link_id"`
	Campaign    string    `gorm:"column:campaign;size:255" json:"campaign"`
	Referrer    string    `gorm:"column:referrer;size:1024" json:"referrer"`
	UAHash      string    `gorm:"column:ua_hash;size:64;not null;uniqueIndex:idx_click_fingerprint,priority:2" json:"ua_hash"`
	IPHash      string    `gorm:"column:ip_hash;size:64;not null;uniqueIndex:idx_click_fingerprint,priority:3" json:"ip_hash"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (AffiliateClick) TableName() string {
	return "affiliate_clicks"
}
