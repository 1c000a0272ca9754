package server

import (
	"context"
	"net/http"
	"strings"

	"alujo/apperr"
	"alujo/model"
)

type contextKey string

const (
	ctxUserID   contextKey = "userID"
	ctxRole     contextKey = "role"
	ctxArtistID contextKey = "artistID"
)

// corsMiddleware applies the CORS headers to every response and short
// circuits preflight requests.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// authenticate parses the bearer token and loads the account it names.
// Role and artist profile are read from the database on every request so a
// role change takes effect without reissuing tokens.
func (h *APIHandler) authenticate(r *http.Request) (context.Context, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, apperr.Unauthorized("authorization header is required")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, apperr.Unauthorized("invalid authorization header format")
	}

	claims, err := h.tokens.ParseAccessToken(parts[1])
	if err != nil {
		return nil, apperr.Unauthorized("invalid or expired token")
	}

	user, err := h.users.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if user == nil {
		return nil, apperr.Unauthorized("account no longer exists")
	}

	ctx := context.WithValue(r.Context(), ctxUserID, user.ID)
	ctx = context.WithValue(ctx, ctxRole, user.Role)
	if user.Artist != nil {
		ctx = context.WithValue(ctx, ctxArtistID, user.Artist.ID)
	}
	return ctx, nil
}

// AuthMiddleware rejects requests without a valid access token.
func (h *APIHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, err := h.authenticate(r)
		if err != nil {
			respondError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// OptionalAuth attaches the account to the context when a valid token is
// present and lets the request through anonymously otherwise.
func (h *APIHandler) OptionalAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			if ctx, err := h.authenticate(r); err == nil {
				r = r.WithContext(ctx)
			}
		}
		next.ServeHTTP(w, r)
	}
}

// RequireRole runs after AuthMiddleware and rejects accounts whose role is
// not in the allowed set. Admins pass every check.
func (h *APIHandler) RequireRole(next http.HandlerFunc, roles ...model.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, ok := roleFrom(r.Context())
		if !ok {
			respondError(w, apperr.Unauthorized("authentication required"))
			return
		}
		if role == model.RoleAdmin {
			next.ServeHTTP(w, r)
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				next.ServeHTTP(w, r)
				return
			}
		}
		respondError(w, apperr.Forbidden("insufficient permissions"))
	}
}

func userIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxUserID).(string)
	return id, ok && id != ""
}

func roleFrom(ctx context.Context) (model.Role, bool) {
	role, ok := ctx.Value(ctxRole).(model.Role)
	return role, ok
}

func artistIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxArtistID).(string)
	return id, ok && id != ""
}

func isAdmin(ctx context.Context) bool {
	role, ok := roleFrom(ctx)
	return ok && role == model.RoleAdmin
}
