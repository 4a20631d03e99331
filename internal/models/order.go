package models

import (
	"time"
)

const (
	OrderPending    = "pending"
	OrderPaid       = "paid"
	OrderVerified   = "verified"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderCompleted  = "completed"
	OrderCancelled  = "cancelled"
)

// OrderLifecycle is the forward order of non-cancelled statuses.
var OrderLifecycle = []string{
	OrderPending,
	OrderPaid,
	OrderVerified,
	OrderProcessing,
	OrderShipped,
	OrderCompleted,
}

// CommissionEligibleStatuses are the statuses at which commission may be stamped.
var CommissionEligibleStatuses = []string{OrderPaid, OrderVerified, OrderCompleted}

type Order struct {
	ID                     string      `gorm:"primaryKey;size:36" json:"id"`
	OrderNumber            string      `gorm:"column:order_number;size:40;not null;uniqueIndex" json:"order_number"`
	CustomerID             string      `gorm:"column:customer_id;size:36;not null;index" json:"customer_id"`
	AffiliateID            *string     `gorm:"column:affiliate_id;size:36;index" json:"affiliate_id"`
	AffiliateLinkID        *string     `gorm:"column:affiliate_link_id;size:36" json:"affiliate_link_id"`
	Status                 string      `gorm:"column:status;size:20;not null;default:pending;index" json:"status"`
	TotalAmount            float64     `gorm:"column:total_amount;type:decimal(20,2);not null" json:"total_amount"`
	PaymentProofURL        string      `gorm:"column:payment_proof_url;size:1024" json:"payment_proof_url"`
	Notes                  string      `gorm:"column:notes;type:text" json:"notes"`
	CommissionRate         float64     `gorm:"column:commission_rate;type:decimal(20,2);default:0.00" json:"commission_rate"`
	CommissionAmount       float64     `gorm:"column:commission_amount;type:decimal(20,2);default:0.00" json:"commission_amount"`
	CommissionCalculatedAt *time.Time  `gorm:"column:commission_calculated_at" json:"commission_calculated_at"`
	Items                  []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	CreatedAt              time.Time   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time   `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	ID          string  `gorm:"primaryKey;size:36" json:"id"`
	OrderID     string  `gorm:"column:order_id;size:36;not null;index" json:"order_id"`
	ProductID   string  `gorm:"column:product_id;size:36" json:"product_id"`
	ProductName string  `gorm:"column:product_name;size:255;not null" json:"product_name"`
	Quantity    int     `gorm:"column:quantity;not null" json:"quantity"` // cartons
	UnitPrice   float64 `gorm:"column:unit_price;type:decimal(20,2);not null" json:"unit_price"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
