package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/neonverse/wordboard/internal/db"
)

const (
	// ContextUserIDKey is the key used to store the authenticated user id in
	// the Gin context.
	ContextUserIDKey = "user_id"
	// ContextUserNameKey stores the user name inside the Gin context.
	ContextUserNameKey = "user_name"
	// ContextIsAdminKey stores the admin flag inside the Gin context.
	ContextIsAdminKey = "is_admin"
)

// Claims defines the JWT claims the API trusts. Tokens are issued by the
// identity service; this server only verifies them.
type Claims struct {
	UserID  int64  `json:"user_id"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// Auth verifies bearer tokens and gates admin-only routes
type Auth struct {
	secret []byte
}

// NewAuth creates token verification middleware
func NewAuth(secret string) *Auth {
	return &Auth{secret: []byte(secret)}
}

// GenerateToken issues a signed JWT for the given identity. Used by tests and
// local tooling.
func (a *Auth) GenerateToken(userID int64, name string, isAdmin bool, duration time.Duration) (string, error) {
	claims := Claims{
		UserID:  userID,
		Name:    name,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// ParseToken validates a JWT and returns its claims
func (a *Auth) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// Required ensures the request carries a valid bearer token
func (a *Auth) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header missing"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}

		claims, err := a.ParseToken(strings.TrimSpace(parts[1]))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextUserNameKey, claims.Name)
		c.Set(ContextIsAdminKey, claims.IsAdmin)
		c.Next()
	}
}

// AdminRequired gates a route to admin tokens. Must run after Required.
func (a *Auth) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ContextIsAdminKey) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

// NotBanned rejects write requests from banned users. Must run after Required.
func NotBanned(repo *db.Repository) gin.HandlerFunc {
	users := db.NewUserRepository(repo)
	return func(c *gin.Context) {
		user, err := users.GetByID(c.Request.Context(), c.GetInt64(ContextUserIDKey))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
			return
		}
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
			return
		}
		if user.IsBanned {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "account is banned"})
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) (int64, bool) {
	return c.GetInt64(ContextUserIDKey), c.GetBool(ContextIsAdminKey)
}
