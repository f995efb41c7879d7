package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/vigilant-todo/internal/api/shared"
	"github.com/phrazzld/vigilant-todo/internal/domain"
	"github.com/phrazzld/vigilant-todo/internal/service"
	"github.com/phrazzld/vigilant-todo/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resolverFunc func(ctx context.Context, token string) (*domain.User, error)

func (f resolverFunc) ResolveIdentity(ctx context.Context, token string) (*domain.User, error) {
	return f(ctx, token)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "bearer", header: "Bearer abc", want: "abc"},
		{name: "lowercase scheme", header: "bearer abc", want: "abc"},
		{name: "missing", header: "", wantErr: true},
		{name: "no token", header: "Bearer", wantErr: true},
		{name: "blank token", header: "Bearer   ", wantErr: true},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			got, err := BearerToken(req)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrMissingAuthHeader)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestBearerToken_UnsupportedScheme(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	_, err := BearerToken(req)
	assert.ErrorIs(t, err, ErrUnsupportedAuthScheme)

	req.Header.Set("Authorization", "Bearer")
	_, err = BearerToken(req)
	assert.ErrorIs(t, err, ErrMissingAuthHeader)
	assert.NotErrorIs(t, err, ErrUnsupportedAuthScheme)
}

func TestAuthenticator_RequireUser(t *testing.T) {
	t.Parallel()

	alice := &domain.User{ID: uuid.New(), Username: "alice"}

	tests := []struct {
		name            string
		header          string
		resolveErr      error
		expectedStatus  int
		expectedDetail  string
		expectChallenge bool
	}{
		{
			name:           "valid token",
			header:         "Bearer good",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing header",
			expectedStatus: http.StatusForbidden,
			expectedDetail: MsgNotAuthenticated,
		},
		{
			name:           "other scheme",
			header:         "Basic dXNlcjpwYXNz",
			expectedStatus: http.StatusForbidden,
			expectedDetail: MsgInvalidCredentials,
		},
		{
			name:            "invalid token",
			header:          "Bearer garbage",
			resolveErr:      service.ErrUnauthorized,
			expectedStatus:  http.StatusUnauthorized,
			expectedDetail:  MsgInvalidCredentials,
			expectChallenge: true,
		},
		{
			name:           "user gone",
			header:         "Bearer orphan",
			resolveErr:     store.ErrUserNotFound,
			expectedStatus: http.StatusNotFound,
			expectedDetail: MsgUserNotFound,
		},
		{
			name:           "unexpected failure",
			header:         "Bearer good",
			resolveErr:     errors.New("connection reset"),
			expectedStatus: http.StatusInternalServerError,
			expectedDetail: "An unexpected error occurred",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			authn := NewAuthenticator(resolverFunc(func(_ context.Context, token string) (*domain.User, error) {
				if tc.resolveErr != nil {
					return nil, tc.resolveErr
				}
				assert.Equal(t, "good", token)
				return alice, nil
			}))

			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				user, ok := authn.RequireUser(w, r)
				if !ok {
					return
				}
				shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"username": user.Username})
			})

			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tc.expectedStatus, rec.Code)
			if tc.expectChallenge {
				assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
			} else {
				assert.Empty(t, rec.Header().Get("WWW-Authenticate"))
			}
			if tc.expectedDetail != "" {
				var body shared.ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tc.expectedDetail, body.Detail)
			}
		})
	}
}
