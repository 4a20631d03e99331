package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// newID assigns a uuid primary key when the caller left it empty.
func newID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	newID(&u.ID)
	return nil
}

func (a *Affiliate) BeforeCreate(tx *gorm.DB) error {
	newID(&a.ID)
	return nil
}

func (l *AffiliateLink) BeforeCreate(tx *gorm.DB) error {
	newID(&l.ID)
	return nil
}

func (c *AffiliateClick) BeforeCreate(tx *gorm.DB) error {
	newID(&c.ID)
	return nil
}

func (w *AffiliateWithdrawal) BeforeCreate(tx *gorm.DB) error {
	newID(&w.ID)
	return nil
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	newID(&o.ID)
	return nil
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	newID(&i.ID)
	return nil
}
