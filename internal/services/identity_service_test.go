package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-service/internal/models"
	"storefront-service/pkg/common"
)

func TestResolveActor(t *testing.T) {
	db := newTestDB(t)
	svc := NewIdentityService(db, "test-secret")
	ctx := context.Background()

	customer := seedUser(t, db, "c@example.com", models.RoleCustomer)
	affiliate := seedAffiliate(t, db, nil)

	token, err := svc.IssueToken(customer.ID, time.Hour)
	require.NoError(t, err)
	actor, err := svc.ResolveActor(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, customer.ID, actor.UserID)
	assert.Equal(t, models.RoleCustomer, actor.Role)
	assert.Empty(t, actor.AffiliateID)

	token, err = svc.IssueToken(affiliate.UserID, time.Hour)
	require.NoError(t, err)
	actor, err = svc.ResolveActor(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, affiliate.ID, actor.AffiliateID)
	assert.True(t, actor.IsActiveAffiliate())
}

func TestResolveActorRejects(t *testing.T) {
	db := newTestDB(t)
	svc := NewIdentityService(db, "test-secret")
	user := seedUser(t, db, "c@example.com", models.RoleCustomer)

	expired, err := svc.IssueToken(user.ID, -time.Minute)
	require.NoError(t, err)
	unknown, err := svc.IssueToken("nobody", time.Hour)
	require.NoError(t, err)
	forged, err := NewIdentityService(db, "other-secret").IssueToken(user.ID, time.Hour)
	require.NoError(t, err)
	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: user.ID}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":     "",
		"garbage":   "not.a.jwt",
		"expired":   expired,
		"unknown":   unknown,
		"forged":    forged,
		"no expiry": noExpiry,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ResolveActor(context.Background(), token)
			assert.True(t, common.IsKind(err, common.KindUnauthorized), "got %v", err)
		})
	}
}
