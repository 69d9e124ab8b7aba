// Package middleware provides HTTP middleware for caller identity.
package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

const candidateIDKey ContextKey = "candidateID"

// TokenValidator validates bearer tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (CandidateIDGetter, error)
}

// CandidateIDGetter extracts the candidate ID from validated token claims.
type CandidateIDGetter interface {
	GetCandidateID() uuid.UUID
}

// AuthMiddleware validates the bearer token and puts the candidate ID in the
// request context. Requests whose "METHOD /path" or path is listed in public
// pass through without a token.
func AuthMiddleware(validator TokenValidator, public ...string) func(http.Handler) http.Handler {
	skip := make(map[string]bool, len(public))
	for _, p := range public {
		skip[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip[r.URL.Path] || skip[r.Method+" "+r.URL.Path] || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w)
				return
			}

			// Scheme is case-insensitive.
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				unauthorized(w)
				return
			}

			claims, err := validator.ValidateToken(parts[1])
			if err != nil {
				unauthorized(w)
				return
			}

			candidateID := claims.GetCandidateID()
			if candidateID == uuid.Nil {
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCandidateID(r.Context(), candidateID)))
		})
	}
}

// WithCandidateID returns a copy of ctx carrying the candidate ID.
func WithCandidateID(ctx context.Context, candidateID uuid.UUID) context.Context {
	return context.WithValue(ctx, candidateIDKey, candidateID)
}

// GetCandidateID extracts the authenticated candidate ID from the request context.
func GetCandidateID(r *http.Request) (uuid.UUID, error) {
	candidateID, ok := r.Context().Value(candidateIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("candidate ID not found in request context")
	}
	return candidateID, nil
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="careergate"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
}
