package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/user"
	"github.com/tribalcouncil/fantasy-survivor/internal/usecase"
)

type stubVerifier struct {
	principals map[string]user.Principal
}

func (s *stubVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	p, ok := s.principals[token]
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: unknown token", usecase.ErrUnauthorized)
	}
	return p, nil
}

func TestRequireAuth(t *testing.T) {
	verifier := &stubVerifier{principals: map[string]user.Principal{
		"jeff-token": {UserID: 7, Username: "jeff", Role: user.RolePlayer},
	}}

	var seen user.Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := principalFromContext(r.Context())
		if !ok {
			t.Fatal("principal missing from request context")
		}
		seen = p
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireAuth(verifier, next)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{name: "missing header", authHeader: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", authHeader: "Basic jeff-token", wantStatus: http.StatusUnauthorized},
		{name: "empty token", authHeader: "Bearer ", wantStatus: http.StatusUnauthorized},
		{name: "unknown token", authHeader: "Bearer nope", wantStatus: http.StatusUnauthorized},
		{name: "valid token", authHeader: "Bearer jeff-token", wantStatus: http.StatusOK},
		{name: "case insensitive scheme", authHeader: "bearer jeff-token", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/leagues", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("unexpected status: got %d want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && seen.Username != "jeff" {
				t.Fatalf("unexpected principal: %+v", seen)
			}
		})
	}
}
