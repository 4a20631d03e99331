package models

import (
	"time"
)

const (
	RoleCustomer  = "customer"
	RoleAdmin     = "admin"
	RoleAffiliate = "affiliate"
)

// User mirrors an account of the identity provider.
type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Email     string    `gorm:"column:email;size:255;not null;uniqueIndex" json:"email"`
	FullName  string    `gorm:"column:full_name;size:255" json:"full_name"`
	Role      string    `gorm:"column:role;size:20;not null;default:customer" json:"role"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
