package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestTokenRoundTrip(t *testing.T) {
	auth := NewAuth("test-secret")

	token, err := auth.GenerateToken(42, "wordsmith", true, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := auth.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Name != "wordsmith" {
		t.Errorf("Name = %q, want %q", claims.Name, "wordsmith")
	}
	if !claims.IsAdmin {
		t.Error("IsAdmin = false, want true")
	}
}

func TestParseTokenRejects(t *testing.T) {
	auth := NewAuth("test-secret")

	t.Run("wrong secret", func(t *testing.T) {
		other := NewAuth("other-secret")
		token, err := other.GenerateToken(1, "user", false, time.Hour)
		if err != nil {
			t.Fatalf("GenerateToken() error = %v", err)
		}
		if _, err := auth.ParseToken(token); err == nil {
			t.Error("expected error for token signed with a different secret")
		}
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := auth.GenerateToken(1, "user", false, -time.Minute)
		if err != nil {
			t.Fatalf("GenerateToken() error = %v", err)
		}
		if _, err := auth.ParseToken(token); err == nil {
			t.Error("expected error for expired token")
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := auth.ParseToken("not.a.token"); err == nil {
			t.Error("expected error for malformed token")
		}
	})
}

func TestRequiredMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := NewAuth("test-secret")

	token, err := auth.GenerateToken(7, "user", false, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"invalid token", "Bearer garbage", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := gin.New()
			engine.GET("/protected", auth.Required(), func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"user_id": c.GetInt64(ContextUserIDKey)})
			})

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestAdminRequiredMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := NewAuth("test-secret")

	tests := []struct {
		name       string
		isAdmin    bool
		wantStatus int
	}{
		{"admin passes", true, http.StatusOK},
		{"regular user forbidden", false, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := auth.GenerateToken(1, "user", tt.isAdmin, time.Hour)
			if err != nil {
				t.Fatalf("GenerateToken() error = %v", err)
			}

			engine := gin.New()
			engine.GET("/admin", auth.Required(), auth.AdminRequired(), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
