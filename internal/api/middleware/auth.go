package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Context keys for storing user information
type contextKey string

const (
	UsernameKey  contextKey = "username"
	JWTClaimsKey contextKey = "jwt_claims"
)

// Claims are the bearer token claims understood by the API.
// The username comes from the "username" claim, falling back to "sub".
type Claims struct {
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// Identity returns the username the token asserts
func (c *Claims) Identity() string {
	if u := strings.TrimSpace(c.Username); u != "" {
		return u
	}
	return strings.TrimSpace(c.Subject)
}

// JWTAuthMiddleware verifies HS256 bearer tokens signed with a shared secret
type JWTAuthMiddleware struct {
	logger *slog.Logger
	secret []byte
}

// NewJWTAuthMiddleware creates the identity middleware.
// An empty secret disables verification: every request is anonymous and
// handlers fall back to the username in the request body.
func NewJWTAuthMiddleware(secret string, logger *slog.Logger) *JWTAuthMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &JWTAuthMiddleware{
		secret: []byte(secret),
		logger: logger,
	}
}

// Enabled reports whether bearer tokens are verified
func (m *JWTAuthMiddleware) Enabled() bool {
	return len(m.secret) > 0
}

// OptionalAuth loads the username from a bearer token when one is present.
// Requests without a token pass through anonymously; a token that fails
// verification is rejected with 401.
func (m *JWTAuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !m.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			writeAuthError(w, "Invalid Authorization header format. Expected: Bearer <token>")
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		claims, err := m.ParseToken(token)
		if err != nil {
			m.logger.Warn("auth failure",
				"type", "verification_failed",
				"ip", r.RemoteAddr,
				"method", r.Method,
				"path", r.URL.Path,
				"error", err)
			writeAuthError(w, "Invalid or expired token")
			return
		}

		username := claims.Identity()
		if username == "" {
			writeAuthError(w, "Missing username in token")
			return
		}

		ctx := context.WithValue(r.Context(), UsernameKey, username)
		ctx = context.WithValue(ctx, JWTClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ParseToken verifies the signature and expiry of a token and returns its claims
func (m *JWTAuthMiddleware) ParseToken(token string) (*Claims, error) {
	if !m.Enabled() {
		return nil, errors.New("token verification is disabled")
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// GetUsername extracts the authenticated username from the request context.
// Returns empty string if the request is anonymous.
func GetUsername(r *http.Request) string {
	username, _ := r.Context().Value(UsernameKey).(string)
	return username
}

// GetJWTClaims extracts the JWT claims from the request context.
// Returns nil if not authenticated.
func GetJWTClaims(r *http.Request) *Claims {
	claims, _ := r.Context().Value(JWTClaimsKey).(*Claims)
	return claims
}

// SetTestUsername sets the username in the context for testing purposes
func SetTestUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, UsernameKey, username)
}

// writeAuthError writes a JSON error response for authentication failures
func writeAuthError(w http.ResponseWriter, message string) {
	writeJSONError(w, http.StatusUnauthorized, "AuthenticationRequired", message)
}
