package database

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"storefront-service/internal/config"
	"storefront-service/internal/models"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	db, err := Open(config.DatabaseConfig{
		Driver: "sqlite",
		URL:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	}, logger.Silent)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	for _, table := range []interface{}{
		&models.Affiliate{},
		&models.AffiliateLink{},
		&models.AffiliateClick{},
		&models.AffiliateWithdrawal{},
		&models.Order{},
		&models.OrderItem{},
	} {
		assert.True(t, db.Migrator().HasTable(table))
	}
	assert.True(t, db.Migrator().HasIndex(&models.AffiliateClick{}, "idx_click_fingerprint"))
	assert.True(t, db.Migrator().HasIndex(&models.AffiliateLink{}, "idx_link_slug"))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: "oracle"}, logger.Silent)
	assert.Error(t, err)
}
