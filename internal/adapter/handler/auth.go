package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/srgjo27/garage_booking/internal/core/domain"
	"github.com/srgjo27/garage_booking/internal/core/ports"
)

const tokenIssuer = "garage-booking"

type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	jwt.RegisteredClaims
}

// Authenticator issues and verifies HS256 access tokens.
type Authenticator struct {
	secret []byte
	ttl    time.Duration
	log    *logrus.Logger
}

func NewAuthenticator(secret string, ttl time.Duration, log *logrus.Logger) *Authenticator {
	return &Authenticator{secret: []byte(secret), ttl: ttl, log: log}
}

func (a *Authenticator) IssueToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   userID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return signed, nil
}

func (a *Authenticator) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == uuid.Nil {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}

// Middleware attaches the bearer token's user to the request context. Requests
// without a valid token continue anonymously; the booking commit decides
// whether a user is required.
func (a *Authenticator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			a.log.Debug("authorization header without bearer scheme ignored")
			c.Next()
			return
		}

		claims, err := a.ParseToken(tokenString)
		if err != nil {
			a.log.WithError(err).Debug("invalid access token ignored")
			c.Next()
			return
		}

		c.Set("user_id", claims.UserID.String())
		c.Request = c.Request.WithContext(WithUser(c.Request.Context(), &domain.User{ID: claims.UserID}))
		c.Next()
	}
}

type userKey struct{}

func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// UserFromContext returns the user set by Middleware, or nil.
func UserFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(userKey{}).(*domain.User)
	return user
}

// ContextIdentity reads the signed-in user from the request context.
var ContextIdentity ports.IdentityProvider = ports.IdentityProviderFunc(UserFromContext)
