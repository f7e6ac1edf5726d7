package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Laisfaustt/ProjetoCamali/internal/domain/user"
	"github.com/Laisfaustt/ProjetoCamali/internal/infrastructure/security"
	"github.com/Laisfaustt/ProjetoCamali/pkg/config"
	"github.com/gin-gonic/gin"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/private", RequireSession(), func(c *gin.Context) {
		session, _ := GetSession(c)
		c.JSON(http.StatusOK, gin.H{"userId": session.UserID})
	})
	r.GET("/advisor", RequireSession(), RequireAdvisor(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func tokenFor(t *testing.T, role user.Role) string {
	t.Helper()
	token, err := security.GenerateSessionToken(&user.Profile{
		ID:    "u1",
		Email: "ana@exemplo.com",
		Role:  role,
	}, config.JWTSecret, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestRequireSession(t *testing.T) {
	r := testRouter()

	tests := []struct {
		name   string
		header string
		query  string
		want   int
	}{
		{"missing token", "", "", http.StatusUnauthorized},
		{"garbage token", "Bearer nope", "", http.StatusUnauthorized},
		{"valid header token", "Bearer " + tokenFor(t, user.RoleStudent), "", http.StatusOK},
		{"valid query token", "", tokenFor(t, user.RoleStudent), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := "/private"
			if tt.query != "" {
				url += "?token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, url, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestRequireAdvisor(t *testing.T) {
	r := testRouter()

	tests := []struct {
		name string
		role user.Role
		want int
	}{
		{"student blocked", user.RoleStudent, http.StatusForbidden},
		{"advisor allowed", user.RoleAdvisor, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/advisor", nil)
			req.Header.Set("Authorization", "Bearer "+tokenFor(t, tt.role))

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}
