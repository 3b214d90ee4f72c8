package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"goalstash/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter() *gin.Engine {
	r := gin.New()
	r.GET("/protected", AuthMiddleware(), func(c *gin.Context) {
		userID, _ := c.Get("userID")
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	return r
}

func requestWithToken(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	user := &models.User{
		Base:     models.Base{ID: "0198adc1-aaaa-7bbb-8ccc-000000000001"},
		Username: "alice",
	}

	t.Run("accepts valid access token", func(t *testing.T) {
		token, err := GenerateAccessToken(user)
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}

		rec := requestWithToken(protectedRouter(), token)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("rejects missing header", func(t *testing.T) {
		rec := requestWithToken(protectedRouter(), "")

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("rejects garbage token", func(t *testing.T) {
		rec := requestWithToken(protectedRouter(), "not-a-jwt")

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("rejects refresh token used as access token", func(t *testing.T) {
		token, err := GenerateRefreshToken(user)
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}

		rec := requestWithToken(protectedRouter(), token)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestValidateRefreshToken(t *testing.T) {
	user := &models.User{
		Base:     models.Base{ID: "0198adc1-aaaa-7bbb-8ccc-000000000001"},
		Username: "alice",
	}

	t.Run("round_trip", func(t *testing.T) {
		token, err := GenerateRefreshToken(user)
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}

		claims, err := ValidateRefreshToken(token)
		if err != nil {
			t.Fatalf("expected valid refresh token: %v", err)
		}
		if claims.UserID != user.ID {
			t.Errorf("expected user ID %s, got %s", user.ID, claims.UserID)
		}
	})

	t.Run("rejects access token", func(t *testing.T) {
		token, err := GenerateAccessToken(user)
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}

		if _, err := ValidateRefreshToken(token); err == nil {
			t.Error("expected access token to be rejected")
		}
	})
}

func TestHashToken(t *testing.T) {
	h1 := HashToken("some-token")
	h2 := HashToken("some-token")
	if h1 != h2 {
		t.Error("expected deterministic hash")
	}
	if len(h1) != 64 {
		t.Errorf("expected 64-char hex digest, got %d chars", len(h1))
	}
	if HashToken("other-token") == h1 {
		t.Error("expected different tokens to hash differently")
	}
}
