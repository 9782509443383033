package middleware

import (
	"context"
	"net/http"

	"github.com/brieflab/brief-analyzer/internal/auth"
	"github.com/rs/zerolog/log"
)

type contextKey string

// UserIDKey is the context key used to store the authenticated user ID.
const UserIDKey contextKey = "userID"

// RoleKey is the context key used to store the caller's dashboard role.
const RoleKey contextKey = "role"

// AuthMiddleware manages user authentication using JWT cookies.
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates an AuthMiddleware with the provided JWT service.
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// AuthenticateUser ensures a user is present, issuing a token and cookie if
// needed. The X-Dashboard-Role header, when present, is recorded in the
// token so role switches in the frontend re-issue the cookie.
func (a *AuthMiddleware) AuthenticateUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var userID, role string

		requestedRole := r.Header.Get("X-Dashboard-Role")

		cookie, err := r.Cookie("auth_token")
		if err == nil {
			claims, err := a.jwtService.ValidateToken(cookie.Value)
			if err == nil && (requestedRole == "" || requestedRole == claims.Role) {
				userID = claims.UserID
				role = claims.Role
			}
		}

		if userID == "" {
			newUserID, err := a.jwtService.GenerateUserID()
			if err != nil {
				log.Error().Err(err).Msg("Failed to generate user ID")
				w.WriteHeader(http.StatusInternalServerError)
				return
			}

			role = requestedRole
			token, err := a.jwtService.GenerateToken(newUserID, role)
			if err != nil {
				log.Error().Err(err).Msg("Failed to generate token")
				w.WriteHeader(http.StatusInternalServerError)
				return
			}

			http.SetCookie(w, &http.Cookie{
				Name:     "auth_token",
				Value:    token,
				Path:     "/",
				HttpOnly: true,
				MaxAge:   86400,
			})

			userID = newUserID
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		ctx = context.WithValue(ctx, RoleKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth enforces that a valid auth cookie is present.
func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("auth_token")
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		claims, err := a.jwtService.ValidateToken(cookie.Value)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, RoleKey, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserIDFromContext extracts the authenticated user ID from context.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}

// GetRoleFromContext extracts the caller's dashboard role from context.
func GetRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(RoleKey).(string)
	return role, ok
}
