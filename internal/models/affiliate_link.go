package models

import (
	"time"
)

type AffiliateLink struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	AffiliateID string    `gorm:"column:affiliate_id;size:36;not null;index:idx_link_affiliate" json:"affiliate_id"`
	Campaign    string    `gorm:"column:campaign;size:255" json:"campaign"`
	URLSlug     string    `gorm:"column:url_slug;size:64;not null;uniqueIndex:idx_link_slug" json:"url_slug"`
	Active      bool      `gorm:"column:active;not null" json:"active"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (AffiliateLink) TableName() string {
	return "affiliate_links"
}
