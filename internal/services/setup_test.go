package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"storefront-service/internal/config"
	"storefront-service/internal/database"
	"storefront-service/internal/models"
)

// newTestDB opens a private in-memory database with every table migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{
		Driver: "sqlite",
		URL:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	}, logger.Silent)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func testAffiliateConfig() config.AffiliateConfig {
	return config.Defaults().Affiliate
}

func seedUser(t *testing.T, db *gorm.DB, email, role string) models.User {
	t.Helper()
	user := models.User{Email: email, FullName: "User " + email, Role: role}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedAffiliate(t *testing.T, db *gorm.DB, mutate func(*models.Affiliate)) models.Affiliate {
	t.Helper()
	user := seedUser(t, db, uuid.NewString()[:8]+"@example.com", models.RoleAffiliate)
	affiliate := models.Affiliate{
		UserID:          user.ID,
		ReferralCode:    uuid.NewString()[:8],
		Name:            user.FullName,
		Email:           user.Email,
		Status:          models.AffiliateStatusActive,
		VisibilityLevel: models.VisibilityBasic,
	}
	if mutate != nil {
		mutate(&affiliate)
	}
	require.NoError(t, db.Create(&affiliate).Error)
	return affiliate
}

func seedOrder(t *testing.T, db *gorm.DB, affiliateID *string, status string, quantities ...int) models.Order {
	t.Helper()
	order := models.Order{
		OrderNumber: "SB-" + uuid.NewString()[:12],
		CustomerID:  uuid.NewString(),
		AffiliateID: affiliateID,
		Status:      status,
	}
	for i, qty := range quantities {
		order.Items = append(order.Items, models.OrderItem{
			ProductName: "Susu Baroka " + string(rune('A'+i)),
			Quantity:    qty,
			UnitPrice:   150000,
		})
		order.TotalAmount += float64(qty) * 150000
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

// seedEarnedCommission inserts an order whose commission is already stamped.
func seedEarnedCommission(t *testing.T, db *gorm.DB, affiliateID string, amount float64) models.Order {
	t.Helper()
	now := time.Now()
	order := models.Order{
		OrderNumber:            "SB-" + uuid.NewString()[:12],
		CustomerID:             uuid.NewString(),
		AffiliateID:            &affiliateID,
		Status:                 models.OrderCompleted,
		TotalAmount:            amount * 10,
		CommissionAmount:       amount,
		CommissionRate:         10800,
		CommissionCalculatedAt: &now,
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []OrderStatusEvent
	err    error
}

func (n *recordingNotifier) NotifyOrderStatus(ctx context.Context, event OrderStatusEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return n.err
}

type recordingEnqueuer struct {
	mu  sync.Mutex
	ids []string
}

func (e *recordingEnqueuer) EnqueueCommission(ctx context.Context, orderID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ids = append(e.ids, orderID)
	return nil
}

type memoryLinkCache struct {
	mu          sync.Mutex
	links       map[string]models.AffiliateLink
	invalidated []string
}

func newMemoryLinkCache() *memoryLinkCache {
	return &memoryLinkCache{links: map[string]models.AffiliateLink{}}
}

func (c *memoryLinkCache) Get(ctx context.Context, slug string) (*models.AffiliateLink, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	link, ok := c.links[slug]
	if !ok {
		return nil, false
	}
	return &link, true
}

func (c *memoryLinkCache) Set(ctx context.Context, link models.AffiliateLink) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.links[link.URLSlug] = link
}

func (c *memoryLinkCache) Invalidate(ctx context.Context, slugs ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, slug := range slugs {
		delete(c.links, slug)
		c.invalidated = append(c.invalidated, slug)
	}
}
