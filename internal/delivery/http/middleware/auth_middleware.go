package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/domain/entity"
	"github.com/LeeDev428/smile-republic-dcms-sub000/pkg/jwt"
	"github.com/LeeDev428/smile-republic-dcms-sub000/pkg/response"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Staff is the authenticated clinic staff member behind a request
type Staff struct {
	UserID  uuid.UUID
	Email   string
	RoleID  int
	TokenID string
}

type staffContextKey struct{}

// AuthMiddleware accepts access tokens issued to clinic staff. A token is only
// honoured while its key is present in Redis.
type AuthMiddleware struct {
	jwtService  *jwt.JWTService
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewAuthMiddleware(jwtService *jwt.JWTService, redisClient *redis.Client, log *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:  jwtService,
		redisClient: redisClient,
		log:         log,
	}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			response.Unauthorized(w, "Bearer token is required")
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil || claims.TokenType != jwt.AccessToken {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		if !entity.IsStaffRoleID(claims.RoleID) {
			m.log.Warnf("Rejected token %s of user %s: role %d is not a clinic staff role", claims.TokenID, claims.UserID, claims.RoleID)
			response.Forbidden(w, "Token does not belong to clinic staff")
			return
		}

		exists, err := m.redisClient.Exists(r.Context(), jwt.AccessTokenKey(claims.UserID, claims.TokenID)).Result()
		if err != nil {
			m.log.Errorf("Failed to check token %s of user %s: %+v", claims.TokenID, claims.UserID, err)
			response.InternalServerError(w, "Failed to validate token")
			return
		}
		if exists == 0 {
			response.Unauthorized(w, "Token has been revoked")
			return
		}

		ctx := WithStaff(r.Context(), Staff{
			UserID:  claims.UserID,
			Email:   claims.Email,
			RoleID:  claims.RoleID,
			TokenID: claims.TokenID,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the token from "Bearer <token>"; the scheme is case-insensitive
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// WithStaff stores the authenticated staff member in ctx
func WithStaff(ctx context.Context, staff Staff) context.Context {
	return context.WithValue(ctx, staffContextKey{}, staff)
}

// StaffFromContext returns the staff member set by Authenticate
func StaffFromContext(ctx context.Context) (Staff, bool) {
	staff, ok := ctx.Value(staffContextKey{}).(Staff)
	return staff, ok
}

// GetUserIDFromContext returns the acting staff member's user ID, used as the audit actor
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	staff, ok := StaffFromContext(ctx)
	return staff.UserID, ok
}

func GetRoleIDFromContext(ctx context.Context) (int, bool) {
	staff, ok := StaffFromContext(ctx)
	return staff.RoleID, ok
}
