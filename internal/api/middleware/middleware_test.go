package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/school-portal-api/internal/cache"
	"github.com/vietanh2810/school-portal-api/internal/pkg/jwthelper"
)

const (
	testKey = "test-signing-key"
	testUA  = "middleware-test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type revocations map[string]bool

func (r revocations) IsRevoked(_ context.Context, id string) (bool, error) {
	return r[id], nil
}

func authRouter(revoked revocations) *gin.Engine {
	r := gin.New()
	r.GET("/private", NewAuthenticator(testKey, revoked).VerifyJWT(), func(ctx *gin.Context) {
		claims, ok := ClaimsFrom(ctx)
		if !ok {
			ctx.Status(http.StatusTeapot)
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"admin_id": claims.AdminID})
	})
	return r
}

func doGet(r http.Handler, path string, setup func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("User-Agent", testUA)
	if setup != nil {
		setup(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestVerifyJWT(t *testing.T) {
	token, claims, err := jwthelper.GenerateToken([]byte(testKey), 7, testUA, time.Hour)
	require.NoError(t, err)
	download, err := jwthelper.GenerateDownloadToken([]byte(testKey), 3, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name    string
		revoked revocations
		setup   func(*http.Request)
		want    int
	}{
		{"no token", nil, nil, http.StatusUnauthorized},
		{"bearer", nil, func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, http.StatusOK},
		{"cookie", nil, func(r *http.Request) { r.AddCookie(&http.Cookie{Name: SessionCookie, Value: token}) }, http.StatusOK},
		{"garbage", nil, func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
		{"download token", nil, func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+download) }, http.StatusUnauthorized},
		{"other client", nil, func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+token)
			r.Header.Set("User-Agent", "someone-else")
		}, http.StatusUnauthorized},
		{"revoked", revocations{claims.ID: true}, func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(authRouter(tt.revoked), "/private", tt.setup)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.JSONEq(t, `{"admin_id":7}`, w.Body.String())
			}
		})
	}
}

type staticMaintenance struct {
	on      bool
	message string
}

func (s staticMaintenance) Maintenance(context.Context) (bool, string, error) {
	return s.on, s.message, nil
}

func TestMaintenance(t *testing.T) {
	run := func(m *Maintenance) *httptest.ResponseRecorder {
		r := gin.New()
		r.GET("/public", m.Handler(), func(ctx *gin.Context) { ctx.Status(http.StatusOK) })
		return doGet(r, "/public", nil)
	}

	w := run(NewMaintenance(staticMaintenance{}, false))
	assert.Equal(t, http.StatusOK, w.Code)

	w = run(NewMaintenance(staticMaintenance{on: true, message: "Exams week"}, false))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"maintenanceMode":true,"message":"Exams week"}`, w.Body.String())

	m := NewMaintenance(staticMaintenance{}, true)
	w = run(m)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, defaultMaintenanceMessage, body["message"])

	m.SetForced(false)
	assert.Equal(t, http.StatusOK, run(m).Code)
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.GET("/verify", RateLimit(cache.NewMemoryStore(), "verify", 3, time.Minute), func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doGet(r, "/verify", nil).Code)
	}

	w := doGet(r, "/verify", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	other := doGet(r, "/verify", func(req *http.Request) { req.RemoteAddr = "10.0.0.9:1234" })
	assert.Equal(t, http.StatusOK, other.Code)
}
