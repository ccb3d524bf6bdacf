// Package streamserver exposes the serve command's HTTP and websocket
// API: a JWT-gated frame endpoint, a live websocket frame push, and
// the Prometheus /metrics scrape target. Grounded on the teacher's
// AuthService (core/backend/services/auth.go) and gin bootstrap
// (arx-backend/main.go), trimmed to the single HMAC secret and no
// session store this debug server needs.
package streamserver

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/voxtrace/voxtrace/internal/config"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Claims carries the session identity a bearer token asserts.
type Claims struct {
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// AuthService issues and validates the bearer tokens guarding the
// render/websocket endpoints when cfg.Security.EnableAuth is set.
type AuthService struct {
	secret []byte
	expiry time.Duration
	issuer string
}

func NewAuthService(cfg config.SecurityConfig) *AuthService {
	return &AuthService{
		secret: []byte(cfg.JWTSecret),
		expiry: cfg.JWTExpiry,
		issuer: "voxtrace",
	}
}

// IssueToken mints a bearer token for subject (typically a client
// label like "cli" or "dashboard"), valid for a.expiry.
func (a *AuthService) IssueToken(subject string) (string, time.Time, error) {
	expiresAt := time.Now().Add(a.expiry)
	claims := Claims{
		SessionID: uuid.New().String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    a.issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(time.Now()),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ID:        uuid.New().String(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Validate parses and verifies a bearer token string.
func (a *AuthService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Middleware rejects requests without a valid "Bearer <token>"
// Authorization header. Registered only when cfg.Security.EnableAuth
// is true; the serve command skips it entirely otherwise.
func (a *AuthService) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrMissingToken.Error()})
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrInvalidToken.Error()})
			return
		}
		claims, err := a.Validate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Set("session_id", claims.SessionID)
		c.Next()
	}
}
