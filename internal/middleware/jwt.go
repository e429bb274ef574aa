package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token types carried in the token_type claim.
const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

// Context keys set by RequireAuth.
const (
	ContextDriverID = "driver_id"
	ContextUsername = "username"
	ContextIsAdmin  = "is_admin"
)

var (
	secret     = []byte("supersecret") // fallback, replaced by Configure
	accessTTL  = 5 * time.Minute
	refreshTTL = 24 * time.Hour

	ErrWrongTokenType = errors.New("wrong token type")
)

// Claims is the JWT payload for both access and refresh tokens.
type Claims struct {
	DriverID  uint   `json:"driver_id"`
	Username  string `json:"username"`
	IsAdmin   bool   `json:"is_admin"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// Configure sets the signing key and token lifetimes. Zero durations keep
// the current values.
func Configure(secretKey string, access, refresh time.Duration) {
	if secretKey != "" {
		secret = []byte(secretKey)
	}
	if access > 0 {
		accessTTL = access
	}
	if refresh > 0 {
		refreshTTL = refresh
	}
}

// GenerateToken signs a token of the given type for a driver.
func GenerateToken(driverID uint, username string, isAdmin bool, tokenType string) (string, error) {
	ttl := accessTTL
	if tokenType == TokenRefresh {
		ttl = refreshTTL
	}
	now := time.Now()
	claims := Claims{
		DriverID:  driverID,
		Username:  username,
		IsAdmin:   isAdmin,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprint(driverID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// GenerateTokenPair issues an access token and a refresh token.
func GenerateTokenPair(driverID uint, username string, isAdmin bool) (access, refresh string, err error) {
	access, err = GenerateToken(driverID, username, isAdmin, TokenAccess)
	if err != nil {
		return "", "", err
	}
	refresh, err = GenerateToken(driverID, username, isAdmin, TokenRefresh)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// ValidateToken parses tokenStr and checks that it is of the expected type.
func ValidateToken(tokenStr, expectedType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.TokenType != expectedType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

// authenticate validates the bearer access token and stores its claims in
// the context. On failure it aborts with 401 and returns false.
func authenticate(c *gin.Context) bool {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
		return false
	}

	claims, err := ValidateToken(strings.TrimPrefix(authHeader, "Bearer "), TokenAccess)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return false
	}

	// Store claims in context for downstream handlers
	c.Set(ContextDriverID, claims.DriverID)
	c.Set(ContextUsername, claims.Username)
	c.Set(ContextIsAdmin, claims.IsAdmin)
	return true
}

// RequireAuth ensures a valid access token is present
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c) {
			return
		}
		c.Next()
	}
}

// RequireAdmin ensures the JWT is valid and belongs to an administrator
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c) {
			return
		}
		if !c.GetBool(ContextIsAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
		c.Next()
	}
}

// AuthIf returns RequireAuth when required is true and a pass-through otherwise.
func AuthIf(required bool) gin.HandlerFunc {
	if required {
		return RequireAuth()
	}
	return func(c *gin.Context) { c.Next() }
}
