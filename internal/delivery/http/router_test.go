package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/LeeDev428/smile-republic-dcms-sub000/config"
	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/delivery/http/handler"
	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/delivery/http/middleware"
	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/domain/entity"
	"github.com/LeeDev428/smile-republic-dcms-sub000/pkg/jwt"
	"github.com/LeeDev428/smile-republic-dcms-sub000/pkg/validator"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*mux.Router, *jwt.JWTService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "router-secret", AccessExpiry: time.Minute})
	v := validator.NewValidator()
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	router := NewRouter(
		handler.NewSlotHandler(nil, v),
		handler.NewAppointmentHandler(nil),
		handler.NewAvailabilityHandler(nil, v),
		middleware.NewAuthMiddleware(jwtService, client, quiet),
		middleware.NewCORSMiddleware(),
		promhttp.Handler(),
	)
	return router.Setup(), jwtService, mr
}

func TestRouter_PublicEndpoints(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_RoleGating(t *testing.T) {
	router, jwtService, mr := newTestRouter(t)

	tokenFor := func(roleID int) string {
		userID := uuid.New()
		token, tokenID, err := jwtService.GenerateAccessToken(userID, "staff@clinic.test", roleID)
		require.NoError(t, err)
		require.NoError(t, mr.Set(jwt.AccessTokenKey(userID, tokenID), "1"))
		return token
	}
	dentistToken := tokenFor(entity.RoleIDDentist)

	send := func(method, target, token string) int {
		req := httptest.NewRequest(method, target, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, send(http.MethodPost, "/api/v1/appointments", ""))
	assert.Equal(t, http.StatusForbidden, send(http.MethodPost, "/api/v1/appointments", dentistToken))
	assert.Equal(t, http.StatusForbidden, send(http.MethodGet, "/api/v1/admin/availabilities", dentistToken))
	assert.Equal(t, http.StatusUnauthorized, send(http.MethodGet, "/api/v1/dentists/"+uuid.NewString()+"/slots", ""))

	// Dentists may read; a bad id is rejected before any usecase call
	assert.Equal(t, http.StatusBadRequest, send(http.MethodGet, "/api/v1/appointments/not-a-uuid", dentistToken))
}
