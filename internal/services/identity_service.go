package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"storefront-service/internal/models"
	"storefront-service/pkg/common"
)

// IdentityService verifies identity provider tokens and resolves them to an Actor.
type IdentityService struct {
	DB     *gorm.DB
	Secret []byte
}

func NewIdentityService(db *gorm.DB, secret string) *IdentityService {
	return &IdentityService{DB: db, Secret: []byte(secret)}
}

func (s *IdentityService) ResolveActor(ctx context.Context, tokenString string) (*Actor, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, common.ErrUnauthorized("Authentication required")
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, common.ErrUnauthorized("Invalid or expired token")
	}
	if claims.Subject == "" {
		return nil, common.ErrUnauthorized("Token has no subject")
	}

	var user models.User
	if err := s.DB.WithContext(ctx).Where("id = ?", claims.Subject).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrUnauthorized("Unknown user")
		}
		return nil, common.ErrDependency("Failed to load user", err)
	}

	actor := &Actor{UserID: user.ID, Email: user.Email, Role: user.Role}

	var affiliate models.Affiliate
	err = s.DB.WithContext(ctx).Where("user_id = ?", user.ID).First(&affiliate).Error
	switch {
	case err == nil:
		actor.AffiliateID = affiliate.ID
		actor.AffiliateStatus = affiliate.Status
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, common.ErrDependency("Failed to load affiliate", err)
	}
	return actor, nil
}

// IssueToken signs a token for userID. The identity provider issues tokens in
// production; this is used by local tooling and tests.
func (s *IdentityService) IssueToken(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}
